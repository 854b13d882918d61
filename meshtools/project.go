package meshtools

import (
	"fmt"
	"math"

	"github.com/notargets/apmesh/types"
	"gonum.org/v1/gonum/mat"
)

// ProjectionTolerance is the absolute tolerance of a projection round trip
const ProjectionTolerance = 1e-10

// Selector maps one node's coordinates to its projected coordinates
type Selector func(x []float64) []float64

// SelectColumns returns a selector keeping the given coordinate columns, in the given order
func SelectColumns(cols ...int) Selector {
	return func(x []float64) (y []float64) {
		y = make([]float64, len(cols))
		for i, c := range cols {
			if c < 0 || c >= len(x) {
				return nil
			}
			y[i] = x[c]
		}
		return
	}
}

/*
ProjectNodes applies selector to every node row and stacks the results, one row per node. The elements
are checked against the node count first: a reference outside 1..N is a ShapeError, as is a selector
that returns rows of differing or zero length.
*/
func ProjectNodes(selector Selector, elements [][]int, nodes mat.Matrix) (proj *mat.Dense, err error) {
	var (
		nr, nc = nodes.Dims()
		width  = -1
		data   []float64
	)
	if nr == 0 {
		return nil, &types.ShapeError{Row: -1, Msg: "no nodes to project"}
	}
	for k, row := range elements {
		for _, v := range row {
			if v < 1 || v > nr {
				return nil, &types.ShapeError{Row: k, Columns: len(row),
					Msg: fmt.Sprintf("node %d is outside 1..%d", v, nr)}
			}
		}
	}
	x := make([]float64, nc)
	for i := 0; i < nr; i++ {
		mat.Row(x, i, nodes)
		y := selector(x)
		if width < 0 {
			width = len(y)
			if width == 0 {
				return nil, &types.ShapeError{Row: -1, Msg: "selector returned no coordinates"}
			}
			data = make([]float64, 0, width*nr)
		}
		if len(y) != width {
			return nil, &types.ShapeError{Row: -1,
				Msg: fmt.Sprintf("selector returned %d coordinates for node %d, %d for node 1", len(y), i+1, width)}
		}
		data = append(data, y...)
	}
	proj = mat.NewDense(nr, width, data)
	return
}

// NodesMatch reports whether two node arrays have the same shape and agree entrywise within tol
func NodesMatch(a, b mat.Matrix, tol float64) bool {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return false
	}
	return mat.EqualApprox(a, b, tol)
}

// MaxDifference is the largest absolute entrywise difference of two equally shaped matrices
func MaxDifference(a, b mat.Matrix) (diff float64) {
	ar, ac := a.Dims()
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			diff = math.Max(diff, math.Abs(a.At(i, j)-b.At(i, j)))
		}
	}
	return
}
