package readfiles

import (
	"fmt"

	"github.com/notargets/apmesh/types"
	"github.com/notargets/apmesh/utils"
)

/*
RawMesh is the parser output: node coordinates, element connectivity and the optional boundary markers.

All node references are 1-based. Linear elements have 3 columns; quadratic elements have 6, ordered as in
gmsh and medit files: c0 c1 c2 m01 m12 m20, with mAB the midpoint of the side from corner A to corner B.
Edges is nil when the source format carries no boundary markers.
*/
type RawMesh struct {
	Nodes    [][]float64
	Elements [][]int
	Edges    []types.Edge
}

func (rm *RawMesh) NumNodes() int    { return len(rm.Nodes) }
func (rm *RawMesh) NumElements() int { return len(rm.Elements) }

// ElementType reports the triangle family of the connectivity, Unknown for an empty mesh
func (rm *RawMesh) ElementType() utils.ElementType {
	if len(rm.Elements) == 0 {
		return utils.Unknown
	}
	return utils.ElementTypeFromColumns(len(rm.Elements[0]))
}

// HasMarkers is true when the source carried boundary markers
func (rm *RawMesh) HasMarkers() bool {
	return len(rm.Edges) != 0
}

// Equal compares two raw meshes entry by entry, coordinates included
func (rm *RawMesh) Equal(other *RawMesh) bool {
	if other == nil || len(rm.Nodes) != len(other.Nodes) ||
		len(rm.Elements) != len(other.Elements) || len(rm.Edges) != len(other.Edges) {
		return false
	}
	for i, row := range rm.Nodes {
		if len(row) != len(other.Nodes[i]) {
			return false
		}
		for j, x := range row {
			if x != other.Nodes[i][j] {
				return false
			}
		}
	}
	for k, row := range rm.Elements {
		if len(row) != len(other.Elements[k]) {
			return false
		}
		for j, v := range row {
			if v != other.Elements[k][j] {
				return false
			}
		}
	}
	for i, e := range rm.Edges {
		if e != other.Edges[i] {
			return false
		}
	}
	return true
}

// validate checks the invariants every reader guarantees on return
func (rm *RawMesh) validate(file string) error {
	if len(rm.Nodes) == 0 {
		return &types.ParseError{File: file, Msg: "no nodes found"}
	}
	if len(rm.Elements) == 0 {
		return &types.ParseError{File: file, Msg: "no elements found"}
	}
	dim := len(rm.Nodes[0])
	if dim != 2 && dim != 3 {
		return &types.ParseError{File: file, Msg: fmt.Sprintf("nodes must have 2 or 3 coordinates, have %d", dim)}
	}
	for i, row := range rm.Nodes {
		if len(row) != dim {
			return &types.ParseError{File: file,
				Msg: fmt.Sprintf("node %d has %d coordinates, expected %d", i+1, len(row), dim)}
		}
	}
	if utils.IsNan(rm.Nodes) {
		return &types.ParseError{File: file, Msg: "node coordinates contain NaN"}
	}
	nc := len(rm.Elements[0])
	for k, row := range rm.Elements {
		if len(row) != nc {
			return &types.ParseError{File: file,
				Msg: fmt.Sprintf("mixed element orders: element %d has %d nodes, element 1 has %d", k+1, len(row), nc)}
		}
		for _, v := range row {
			if v < 1 || v > len(rm.Nodes) {
				return &types.ParseError{File: file,
					Msg: fmt.Sprintf("element %d references node %d, mesh has %d nodes", k+1, v, len(rm.Nodes))}
			}
		}
	}
	for _, e := range rm.Edges {
		bad := e.Midpoint < 0 || e.Midpoint > len(rm.Nodes)
		for _, v := range e.Verts {
			bad = bad || v < 1 || v > len(rm.Nodes)
		}
		if bad {
			return &types.ParseError{File: file,
				Msg: fmt.Sprintf("boundary edge %s references a node outside 1..%d", e, len(rm.Nodes))}
		}
	}
	return nil
}
