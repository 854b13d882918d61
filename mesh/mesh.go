package mesh

import (
	"fmt"
	"strings"

	"github.com/notargets/apmesh/readfiles"
	"github.com/notargets/apmesh/types"
	"github.com/notargets/apmesh/utils"
	"gonum.org/v1/gonum/mat"
)

// Mode selects the element family a mesh is built for
type Mode uint8

const (
	Lagrange Mode = iota
	Argyris
)

func (m Mode) String() string {
	switch m {
	case Lagrange:
		return "Lagrange"
	case Argyris:
		return "Argyris"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func NewMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "lagrange":
		return Lagrange, nil
	case "argyris":
		return Argyris, nil
	}
	return Lagrange, fmt.Errorf("unknown mesh mode %q, use lagrange or argyris", name)
}

// LocalEdges are the corner pairs of the canonical local edge order, the order of the midpoint columns
var LocalEdges = [3][2]int{{0, 1}, {0, 2}, {1, 2}}

// Mesh is an immutable built mesh, all node references are 1-based
type Mesh struct {
	Mode Mode

	// Geometry
	Nodes *mat.Dense // Node coordinates [nnodes][2 or 3]

	// Element data
	Elements [][]int // Lagrange: c0 c1 c2 m01 m02 m12, Argyris: 21 columns

	// Boundary data
	EdgeCollections map[types.Marker][]types.Edge // Marked edges with their midpoints, in input order
	NodeCollections []NodeCollection              // Argyris only, in marker order

	// Number of Lagrange nodes, the Argyris stacked nodes follow them
	NumLagrangeNodes int
}

// ReadMesh parses the mesh file(s) and builds the mesh in the given mode
func ReadMesh(mode Mode, files ...string) (m *Mesh, err error) {
	var raw *readfiles.RawMesh
	if raw, err = readfiles.ReadMesh(files...); err != nil {
		return
	}
	return Build(raw, mode)
}

func (m *Mesh) NumNodes() int {
	nr, _ := m.Nodes.Dims()
	return nr
}

func (m *Mesh) NumElements() int { return len(m.Elements) }

// Dimension is the number of coordinates per node after flattening
func (m *Mesh) Dimension() int {
	_, nc := m.Nodes.Dims()
	return nc
}

func (m *Mesh) ElementType() utils.ElementType {
	if len(m.Elements) == 0 {
		return utils.Unknown
	}
	return utils.ElementTypeFromColumns(len(m.Elements[0]))
}

// Node returns the coordinates of 1-based node i
func (m *Mesh) Node(i int) []float64 {
	return mat.Row(nil, i-1, m.Nodes)
}

// Markers lists the boundary segment markers, numeric ones first
func (m *Mesh) Markers() (markers []types.Marker) {
	for marker := range m.EdgeCollections {
		markers = append(markers, marker)
	}
	types.SortMarkers(markers)
	return
}

// BoundaryEdges returns the canonical form of every collected boundary edge, in marker order
func (m *Mesh) BoundaryEdges() (edges []types.Edge) {
	if m.Mode == Argyris {
		for _, nc := range m.NodeCollections {
			for _, ae := range nc.Edges {
				edges = append(edges, ae.Edge)
			}
		}
		return
	}
	for _, marker := range m.Markers() {
		for _, e := range m.EdgeCollections[marker] {
			edges = append(edges, e.Canonical())
		}
	}
	return
}

// Corners returns the corner columns of every element, the linear triangulation of the mesh
func (m *Mesh) Corners() (corners [][]int) {
	cn := m.ElementType().GetCornerNodes()
	corners = make([][]int, len(m.Elements))
	for k, row := range m.Elements {
		corners[k] = make([]int, len(cn))
		for i, c := range cn {
			corners[k][i] = row[c]
		}
	}
	return
}
