package mesh

import (
	"fmt"
	"math"

	"github.com/notargets/apmesh/types"
	"github.com/notargets/apmesh/utils"
)

const (
	// Argyris element columns
	argyrisColumns   = 21
	firstDerivative  = 3  // cols 3..8, two per vertex
	secondDerivative = 9  // cols 9..17, three per vertex
	argyrisMidpoint  = 18 // cols 18..20, in LocalEdges order
)

// StackedDofs are the nodes standing for a vertex's derivative degrees of freedom: two first derivatives,
// then three second derivatives
type StackedDofs [5]int

// ArgyrisEdge is a boundary edge together with an element owning it and its local edge number there
type ArgyrisEdge struct {
	Edge      types.Edge // canonical, with the midpoint and marker
	Element   int        // 0-based element row
	LocalEdge int        // index into LocalEdges
}

// NodeCollection gathers the Argyris data along one boundary segment
type NodeCollection struct {
	Marker   types.Marker
	Vertices []int               // segment vertices, in the order the edges reach them
	Stacked  map[int]StackedDofs // vertex to stacked dof nodes
	Edges    []ArgyrisEdge
}

// dofRegistry maps each vertex to its stacked dof block; a vertex seen again must bring the same block
type dofRegistry map[int]StackedDofs

func (dr dofRegistry) register(vertex int, block StackedDofs, k int) error {
	if prev, ok := dr[vertex]; ok {
		if prev != block {
			return &types.InconsistentDofError{Kind: "vertex", Index: vertex, Element: k, Want: prev[:], Got: block[:]}
		}
		return nil
	}
	dr[vertex] = block
	return nil
}

// argyrisBlock reads the stacked dof block of local vertex l from a 21 column row
func argyrisBlock(row []int, l int) StackedDofs {
	return StackedDofs{
		row[firstDerivative+2*l], row[firstDerivative+2*l+1],
		row[secondDerivative+3*l], row[secondDerivative+3*l+1], row[secondDerivative+3*l+2],
	}
}

func setArgyrisBlock(row []int, l int, block StackedDofs) {
	row[firstDerivative+2*l], row[firstDerivative+2*l+1] = block[0], block[1]
	for i := 0; i < 3; i++ {
		row[secondDerivative+3*l+i] = block[2+i]
	}
}

func buildArgyris(lb *lagrangeBuild) (m *Mesh, err error) {
	var (
		nodes  = lb.nodes
		blocks = make(dofRegistry, len(nodes))
		NLag   = len(lb.nodes)
	)
	elements := make([][]int, len(lb.elements))
	for k, el := range lb.elements {
		row := make([]int, argyrisColumns)
		copy(row, el[:3])
		for l := 0; l < 3; l++ {
			v := el[l]
			block, ok := blocks[v]
			if !ok {
				for i := range block {
					nodes = append(nodes, append([]float64(nil), nodes[v-1]...))
					block[i] = len(nodes)
				}
			}
			if err = blocks.register(v, block, k); err != nil {
				return nil, err
			}
			setArgyrisBlock(row, l, block)
		}
		copy(row[argyrisMidpoint:], el[3:6])
		elements[k] = row
	}
	m = &Mesh{
		Mode:             Argyris,
		Nodes:            denseNodes(nodes),
		Elements:         elements,
		EdgeCollections:  lb.groups,
		NumLagrangeNodes: NLag,
	}
	for _, marker := range lb.markers {
		m.NodeCollections = append(m.NodeCollections, newNodeCollection(marker, lb, blocks))
	}
	return
}

func newNodeCollection(marker types.Marker, lb *lagrangeBuild, blocks dofRegistry) (nc NodeCollection) {
	nc = NodeCollection{
		Marker:  marker,
		Stacked: make(map[int]StackedDofs),
	}
	for _, e := range lb.groups[marker] {
		owner := lb.edges.owner[e.Key()]
		nc.Edges = append(nc.Edges, ArgyrisEdge{
			Edge:      e.Canonical(),
			Element:   owner.Element,
			LocalEdge: owner.LocalEdge,
		})
		for _, v := range e.Verts {
			if _, seen := nc.Stacked[v]; !seen {
				nc.Vertices = append(nc.Vertices, v)
				nc.Stacked[v] = blocks[v]
			}
		}
	}
	return
}

/*
ValidateArgyris re-derives the Argyris invariants from a built mesh: every row has 21 columns, each
vertex has the same stacked dof block in every element touching it, the stacked nodes sit on their
vertex, and each midpoint node belongs to a single vertex pair.
*/
func ValidateArgyris(m *Mesh) (err error) {
	var (
		N      = m.NumNodes()
		blocks = make(dofRegistry)
		edges  = newEdgeRegistry(len(m.Elements))
	)
	for k, row := range m.Elements {
		if len(row) != argyrisColumns {
			return &types.ShapeError{Row: k, Columns: len(row), Msg: "Argyris elements must have 21 columns"}
		}
		for _, v := range row {
			if v < 1 || v > N {
				return &types.ShapeError{Row: k, Columns: len(row), Msg: fmt.Sprintf("node %d is outside 1..%d", v, N)}
			}
		}
		for l := 0; l < 3; l++ {
			v := row[l]
			block := argyrisBlock(row, l)
			if err = blocks.register(v, block, k); err != nil {
				return
			}
			x := m.Node(v)
			for _, s := range block {
				if !samePoint(x, m.Node(s)) {
					return &types.InconsistentDofError{Kind: "vertex", Index: v, Element: k,
						Want: []int{v}, Got: []int{s}}
				}
			}
		}
		for le, side := range LocalEdges {
			key := types.NewEdgeKey([2]int{row[side[0]], row[side[1]]})
			if err = edges.register(key, row[argyrisMidpoint+le], k, le); err != nil {
				return
			}
		}
	}
	return
}

func samePoint(a, b []float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > utils.NODETOL {
			return false
		}
	}
	return true
}
