package geometry2D

import (
	"testing"

	"github.com/notargets/apmesh/mesh"
	"github.com/notargets/apmesh/meshtools"
	"github.com/notargets/apmesh/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestBoundingBox(t *testing.T) {
	nodes := mat.NewDense(3, 3, []float64{
		-1, 2, 7,
		3, -4, 7,
		0, 0, 7,
	})
	box := NewBoundingBox(nodes)
	require.NotNil(t, box)
	assert.Equal(t, [2]float64{-1, -4}, box.XMin)
	assert.Equal(t, [2]float64{3, 2}, box.XMax)
	assert.Equal(t, 4., box.Width())
	assert.Equal(t, 6., box.Height())
	assert.Equal(t, [2]float64{1, -1}, box.Centroid())
	scaled := box.Scale(1.5)
	assert.Equal(t, [2]float64{-2, -5.5}, scaled.XMin)
	assert.Equal(t, [2]float64{4, 3.5}, scaled.XMax)

	assert.Nil(t, NewBoundingBox(mat.NewDense(1, 1, []float64{0})))
}

func TestPredicates(t *testing.T) {
	var (
		a = [2]float64{-1, -1}
		b = [2]float64{1, -1}
		c = [2]float64{-1, 1}
	)
	assert.Equal(t, 2., SignedArea(a, b, c))
	assert.Equal(t, -2., SignedArea(a, c, b))
	// Points inside the circumscribing circle make the edge illegal, regardless of orientation
	for _, tri := range [][3][2]float64{{a, b, c}, {c, b, a}} {
		assert.Positive(t, InCircle(tri[0], tri[1], tri[2], [2]float64{-0.33, -0.33}))
		assert.Positive(t, InCircle(tri[0], tri[1], tri[2], [2]float64{-0.9999999, -1}))
		assert.Negative(t, InCircle(tri[0], tri[1], tri[2], [2]float64{2, 2}))
		// the fourth corner of the square is on the circle
		assert.InDelta(t, 0, InCircle(tri[0], tri[1], tri[2], [2]float64{1, 1}), 1e-12)
	}
}

func TestNewRectangleMesh(t *testing.T) {
	var (
		nx, ny = 4, 3
		box    = BoundingBox{XMin: [2]float64{0, 0}, XMax: [2]float64{3, 1}}
	)
	rm, err := NewRectangleMesh(nx, ny, box)
	require.NoError(t, err)
	assert.Equal(t, nx*ny, rm.NumNodes())
	assert.Equal(t, 2*(nx-1)*(ny-1), rm.NumElements())
	assert.Equal(t, []float64{3, 1, 0}, rm.Nodes[nx*ny-1])

	pt := func(i int) [2]float64 { return [2]float64{rm.Nodes[i-1][0], rm.Nodes[i-1][1]} }
	var area float64
	for _, el := range rm.Elements {
		a := SignedArea(pt(el[0]), pt(el[1]), pt(el[2]))
		assert.Positive(t, a)
		area += a
		// no lattice point is strictly inside a triangle's circle
		for i := 1; i <= rm.NumNodes(); i++ {
			assert.LessOrEqual(t, InCircle(pt(el[0]), pt(el[1]), pt(el[2]), pt(i)), 1e-9)
		}
	}
	assert.InDelta(t, 3., area, 1e-12)

	// boundary marked by side
	perSide := make(map[types.Marker]int)
	for _, e := range rm.Edges {
		perSide[e.Marker]++
	}
	assert.Equal(t, map[types.Marker]int{"1": nx - 1, "2": ny - 1, "3": nx - 1, "4": ny - 1}, perSide)
	boundary, err := meshtools.ExtractBoundaryEdges(rm.Elements)
	require.NoError(t, err)
	same, _ := meshtools.SamePairs(meshtools.UnorderedPairs(boundary), meshtools.EdgePairs(rm.Edges))
	assert.True(t, same)

	// the generated mesh builds both ways, flattened to 2D
	for _, mode := range []mesh.Mode{mesh.Lagrange, mesh.Argyris} {
		m, err := mesh.Build(rm, mode)
		require.NoError(t, err)
		assert.Equal(t, 2, m.Dimension())
		assert.Equal(t, []types.Marker{"1", "2", "3", "4"}, m.Markers())
		if mode == mesh.Argyris {
			require.NoError(t, mesh.ValidateArgyris(m))
		}
	}

	_, err = NewRectangleMesh(1, 3, box)
	assert.Error(t, err)
	_, err = NewRectangleMesh(3, 3, BoundingBox{})
	assert.Error(t, err)
}
