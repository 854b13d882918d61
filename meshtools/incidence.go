package meshtools

import (
	"fmt"
	"sort"

	"github.com/notargets/apmesh/types"
	"github.com/notargets/apmesh/utils"
)

// NodeElementIncidence returns the K x N element to node incidence matrix of the corner nodes
func NodeElementIncidence(elements [][]int, numNodes int) (I utils.CSR, err error) {
	return incidence(elements, numNodes, false)
}

// incidence builds the element to node incidence, or its N x K transpose when byNode is set
func incidence(elements [][]int, numNodes int, byNode bool) (I utils.CSR, err error) {
	if len(elements) == 0 || numNodes < 1 {
		return I, &types.ShapeError{Row: -1, Msg: "incidence needs at least one element and one node"}
	}
	dok := utils.NewDOK(len(elements), numNodes)
	if byNode {
		dok = utils.NewDOK(numNodes, len(elements))
	}
	for k, row := range elements {
		if len(row) < 3 {
			return I, &types.ShapeError{Row: k, Columns: len(row), Msg: "elements need at least 3 corner nodes"}
		}
		for _, v := range row[:3] {
			if v < 1 || v > numNodes {
				return I, &types.ShapeError{Row: k, Columns: len(row),
					Msg: fmt.Sprintf("node %d is outside 1..%d", v, numNodes)}
			}
			if byNode {
				dok.Set(v-1, k, 1)
			} else {
				dok.Set(k, v-1, 1)
			}
		}
	}
	dok.SetReadOnly("Incidence")
	return dok.ToCSR(), nil
}

/*
ElementAdjacency returns, for every element, the elements sharing a side with it (zero based, ascending).
Two triangles share a side exactly when they share two corner nodes, which is an entry of 2 in I·Iᵀ.
*/
func ElementAdjacency(elements [][]int, numNodes int) (adj [][]int, err error) {
	var I utils.CSR
	if I, err = NodeElementIncidence(elements, numNodes); err != nil {
		return
	}
	shared := I.MulTranspose()
	adj = make([][]int, len(elements))
	shared.DoNonZero(func(i, j int, v float64) {
		if i != j && v == 2 {
			adj[i] = append(adj[i], j)
		}
	})
	for _, row := range adj {
		sort.Ints(row)
	}
	return
}

// NodeValence returns the number of elements touching each node, the row sums of the node to element incidence
func NodeValence(elements [][]int, numNodes int) (valence []int, err error) {
	var I utils.CSR
	if I, err = incidence(elements, numNodes, true); err != nil {
		return
	}
	counts := I.RowCounts()
	valence = make([]int, numNodes)
	for i, c := range counts {
		valence[i] = int(c)
	}
	return
}
