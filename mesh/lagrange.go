package mesh

import (
	"fmt"

	"github.com/notargets/apmesh/meshtools"
	"github.com/notargets/apmesh/readfiles"
	"github.com/notargets/apmesh/types"
	"gonum.org/v1/gonum/mat"
)

// edgeOwner is the first element seen with a given side, and the side's local edge number there
type edgeOwner struct {
	Element, LocalEdge int
}

// edgeRegistry pairs every element side with its midpoint node, both ways
type edgeRegistry struct {
	midpointOf map[types.EdgeKey]int
	edgeOf     map[int]types.EdgeKey
	owner      map[types.EdgeKey]edgeOwner
}

func newEdgeRegistry(K int) *edgeRegistry {
	n := 3*K/2 + 3
	return &edgeRegistry{
		midpointOf: make(map[types.EdgeKey]int, n),
		edgeOf:     make(map[int]types.EdgeKey, n),
		owner:      make(map[types.EdgeKey]edgeOwner, n),
	}
}

// register records the midpoint of a side; a side seen again must bring the same midpoint, and a
// midpoint node can belong to one side only
func (er *edgeRegistry) register(key types.EdgeKey, mid, k, localEdge int) error {
	if prev, ok := er.midpointOf[key]; ok {
		if prev != mid {
			verts := key.GetVertices(false)
			return &types.InconsistentDofError{Kind: "edge", Index: mid, Element: k,
				Want: []int{verts[0], verts[1], prev}, Got: []int{verts[0], verts[1], mid}}
		}
		return nil
	}
	if prevKey, ok := er.edgeOf[mid]; ok && prevKey != key {
		pv, v := prevKey.GetVertices(false), key.GetVertices(false)
		return &types.InconsistentDofError{Kind: "midpoint", Index: mid, Element: k,
			Want: pv[:], Got: v[:]}
	}
	er.midpointOf[key] = mid
	er.edgeOf[mid] = key
	er.owner[key] = edgeOwner{Element: k, LocalEdge: localEdge}
	return nil
}

// lagrangeBuild is the intermediate state shared by the Lagrange and Argyris builds
type lagrangeBuild struct {
	nodes    [][]float64
	elements [][]int
	edges    *edgeRegistry
	markers  []types.Marker
	groups   map[types.Marker][]types.Edge
}

/*
Build constructs a mesh from parser output. Lagrange meshes have 6-node elements: linear input gets one
new midpoint node per distinct side, appended after the input nodes in the order the sides are met.
Argyris meshes add five stacked derivative nodes per vertex on top of the Lagrange nodes.
*/
func Build(raw *readfiles.RawMesh, mode Mode) (m *Mesh, err error) {
	var lb *lagrangeBuild
	if raw == nil {
		return nil, &types.ShapeError{Row: -1, Msg: "no mesh to build"}
	}
	if mode != Lagrange && mode != Argyris {
		return nil, fmt.Errorf("unknown mesh mode %v", mode)
	}
	if err = checkShape(raw); err != nil {
		return
	}
	if lb, err = buildLagrange(raw); err != nil {
		return
	}
	if mode == Argyris {
		return buildArgyris(lb)
	}
	m = &Mesh{
		Mode:             Lagrange,
		Nodes:            denseNodes(lb.nodes),
		Elements:         lb.elements,
		EdgeCollections:  lb.groups,
		NumLagrangeNodes: len(lb.nodes),
	}
	return
}

// checkShape validates the connectivity before any index is used
func checkShape(raw *readfiles.RawMesh) error {
	N := len(raw.Nodes)
	if N == 0 || len(raw.Elements) == 0 {
		return &types.ShapeError{Row: -1, Msg: "a mesh needs nodes and elements"}
	}
	nc := len(raw.Elements[0])
	for k, row := range raw.Elements {
		if len(row) != 3 && len(row) != 6 {
			return &types.ShapeError{Row: k, Columns: len(row), Msg: "elements must have 3 or 6 nodes"}
		}
		if len(row) != nc {
			return &types.ShapeError{Row: k, Columns: len(row),
				Msg: fmt.Sprintf("mixed element orders, element 0 has %d nodes", nc)}
		}
		for _, v := range row {
			if v < 1 || v > N {
				return &types.ShapeError{Row: k, Columns: len(row), Msg: fmt.Sprintf("node %d is outside 1..%d", v, N)}
			}
		}
		if row[0] == row[1] || row[1] == row[2] || row[0] == row[2] {
			return &types.ShapeError{Row: k, Columns: len(row), Msg: fmt.Sprintf("degenerate triangle %v", row[:3])}
		}
	}
	if nc == 6 {
		return checkMidpoints(raw.Elements)
	}
	return nil
}

// checkMidpoints rejects quadratic rows whose midpoint columns repeat a node, and nodes used both as a
// corner and as a midpoint
func checkMidpoints(elements [][]int) error {
	corner := make(map[int]bool)
	for _, row := range elements {
		for _, v := range row[:3] {
			corner[v] = true
		}
	}
	for k, row := range elements {
		for i := 3; i < 6; i++ {
			if corner[row[i]] {
				return &types.ShapeError{Row: k, Columns: len(row),
					Msg: fmt.Sprintf("midpoint node %d is also a corner node", row[i])}
			}
			for j := 3; j < i; j++ {
				if row[j] == row[i] {
					return &types.ShapeError{Row: k, Columns: len(row),
						Msg: fmt.Sprintf("midpoint node %d is repeated in %v", row[i], row[3:])}
				}
			}
		}
	}
	return nil
}

func buildLagrange(raw *readfiles.RawMesh) (lb *lagrangeBuild, err error) {
	var (
		K = len(raw.Elements)
	)
	lb = &lagrangeBuild{
		edges:    newEdgeRegistry(K),
		elements: make([][]int, K),
		groups:   make(map[types.Marker][]types.Edge),
	}
	lb.nodes, _ = FlattenNodes(raw.Nodes)
	for k, row := range raw.Elements {
		el := make([]int, 6)
		copy(el, row[:3])
		if len(row) == 6 {
			// file order m01 m12 m20 to local edge order m01 m02 m12
			el[3], el[4], el[5] = row[3], row[5], row[4]
		}
		for le, side := range LocalEdges {
			key := types.NewEdgeKey([2]int{el[side[0]], el[side[1]]})
			if len(row) == 3 {
				mid, ok := lb.edges.midpointOf[key]
				if !ok {
					mid = lb.addMidpoint(el[side[0]], el[side[1]])
				}
				el[3+le] = mid
			}
			if err = lb.edges.register(key, el[3+le], k, le); err != nil {
				return nil, err
			}
		}
		lb.elements[k] = el
	}
	if err = lb.collectEdges(raw.Edges); err != nil {
		return nil, err
	}
	return
}

// addMidpoint appends a node halfway between two nodes and returns its 1-based index
func (lb *lagrangeBuild) addMidpoint(a, b int) int {
	xa, xb := lb.nodes[a-1], lb.nodes[b-1]
	x := make([]float64, len(xa))
	for i := range x {
		x[i] = 0.5 * (xa[i] + xb[i])
	}
	lb.nodes = append(lb.nodes, x)
	return len(lb.nodes)
}

// collectEdges groups the marked edges by marker, or derives the boundary when there are no markers
func (lb *lagrangeBuild) collectEdges(marked []types.Edge) (err error) {
	if len(marked) == 0 {
		var boundary [][2]int
		if boundary, err = meshtools.ExtractBoundaryEdges(lb.elements); err != nil {
			return
		}
		marked = make([]types.Edge, len(boundary))
		for i, b := range boundary {
			marked[i] = types.NewEdge(b[0], b[1], types.DefaultMarker)
		}
	}
	for _, e := range marked {
		key := e.Key()
		mid, ok := lb.edges.midpointOf[key]
		if !ok {
			return &types.NonManifoldEdgeError{Edge: e.Verts, Count: 0}
		}
		if e.Midpoint != 0 && e.Midpoint != mid {
			return &types.InconsistentDofError{Kind: "edge", Index: e.Midpoint, Element: lb.edges.owner[key].Element,
				Want: []int{e.Verts[0], e.Verts[1], mid}, Got: []int{e.Verts[0], e.Verts[1], e.Midpoint}}
		}
		e.Midpoint = mid
		if _, present := lb.groups[e.Marker]; !present {
			lb.markers = append(lb.markers, e.Marker)
		}
		lb.groups[e.Marker] = append(lb.groups[e.Marker], e)
	}
	types.SortMarkers(lb.markers)
	return
}

func denseNodes(nodes [][]float64) *mat.Dense {
	dim := len(nodes[0])
	data := make([]float64, 0, dim*len(nodes))
	for _, row := range nodes {
		data = append(data, row...)
	}
	return mat.NewDense(len(nodes), dim, data)
}
