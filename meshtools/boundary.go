package meshtools

import (
	"fmt"

	"github.com/notargets/apmesh/types"
)

// TriangleSides are the corner pairs of a triangle's sides, in element order
var TriangleSides = [3][2]int{{0, 1}, {1, 2}, {2, 0}}

/*
ExtractBoundaryEdges returns the element sides that belong to exactly one element, oriented as they
appear in that element and in the order they are first met. Only the first three columns of each row
are read, so linear, quadratic and Argyris connectivity all work.

A side shared by more than two elements makes the mesh non-manifold and is an error.
*/
func ExtractBoundaryEdges(elements [][]int) (edges [][2]int, err error) {
	var (
		count = make(map[types.EdgeKey]int, 3*len(elements)/2+1)
		first = make(map[types.EdgeKey][2]int)
		order []types.EdgeKey
	)
	for k, row := range elements {
		if len(row) < 3 {
			return nil, &types.ShapeError{Row: k, Columns: len(row), Msg: "elements need at least 3 corner nodes"}
		}
		if row[0] == row[1] || row[1] == row[2] || row[0] == row[2] {
			return nil, &types.ShapeError{Row: k, Columns: len(row),
				Msg: fmt.Sprintf("degenerate triangle %v", row[:3])}
		}
		for _, v := range row[:3] {
			if v < 0 || v > types.MaxNodeIndex {
				return nil, &types.ShapeError{Row: k, Columns: len(row),
					Msg: fmt.Sprintf("node index %d is outside 0..%d", v, types.MaxNodeIndex)}
			}
		}
		for _, side := range TriangleSides {
			pair := [2]int{row[side[0]], row[side[1]]}
			key := types.NewEdgeKey(pair)
			if count[key] == 0 {
				first[key] = pair
				order = append(order, key)
			}
			count[key]++
		}
	}
	for _, key := range order {
		switch count[key] {
		case 1:
			edges = append(edges, first[key])
		case 2:
		default:
			return nil, &types.NonManifoldEdgeError{Edge: key.GetVertices(false), Count: count[key]}
		}
	}
	return
}

// UnorderedPairs projects edges onto a set of (min,max) vertex pairs, dropping order and markers
func UnorderedPairs(edges [][2]int) (pairs map[[2]int]struct{}) {
	pairs = make(map[[2]int]struct{}, len(edges))
	for _, e := range edges {
		if e[0] > e[1] {
			e[0], e[1] = e[1], e[0]
		}
		pairs[e] = struct{}{}
	}
	return
}

// EdgePairs is UnorderedPairs for marked edges
func EdgePairs(edges []types.Edge) map[[2]int]struct{} {
	verts := make([][2]int, len(edges))
	for i, e := range edges {
		verts[i] = e.Verts
	}
	return UnorderedPairs(verts)
}

// SamePairs compares two pair sets, reporting a pair present in only one of them
func SamePairs(a, b map[[2]int]struct{}) (same bool, missing [2]int) {
	for p := range a {
		if _, ok := b[p]; !ok {
			return false, p
		}
	}
	for p := range b {
		if _, ok := a[p]; !ok {
			return false, p
		}
	}
	return true, [2]int{}
}
