package meshtools

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/notargets/apmesh/readfiles"
	"github.com/notargets/apmesh/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var (
	linearsNodes    = []float64{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0, 0.5, 0.5, 0}
	linearsElements = [][]int{{1, 2, 5}, {2, 3, 5}, {3, 4, 5}, {4, 1, 5}}
)

func TestExtractBoundaryEdges(t *testing.T) {
	{ // Boundary of the four triangle square, in first seen order
		edges, err := ExtractBoundaryEdges(linearsElements)
		require.NoError(t, err)
		assert.Equal(t, [][2]int{{1, 2}, {2, 3}, {3, 4}, {4, 1}}, edges)
	}
	{ // Higher order columns are ignored
		quad := [][]int{{1, 2, 3, 4, 5, 6}}
		edges, err := ExtractBoundaryEdges(quad)
		require.NoError(t, err)
		assert.Equal(t, [][2]int{{1, 2}, {2, 3}, {3, 1}}, edges)
	}
	{ // A side shared by three elements
		_, err := ExtractBoundaryEdges([][]int{{1, 2, 3}, {2, 1, 4}, {1, 2, 5}})
		var nme *types.NonManifoldEdgeError
		require.True(t, errors.As(err, &nme))
		assert.Equal(t, [2]int{1, 2}, nme.Edge)
		assert.Equal(t, 3, nme.Count)
	}
	{ // Short rows and degenerate triangles
		var se *types.ShapeError
		_, err := ExtractBoundaryEdges([][]int{{1, 2, 3}, {1, 2}})
		require.True(t, errors.As(err, &se))
		assert.Equal(t, 1, se.Row)
		_, err = ExtractBoundaryEdges([][]int{{1, 2, 2}})
		require.True(t, errors.As(err, &se))
		assert.Equal(t, 0, se.Row)
	}
	{ // Node indices an edge key cannot hold
		var se *types.ShapeError
		_, err := ExtractBoundaryEdges([][]int{{1, 2, 3}, {1, 2, types.MaxNodeIndex + 1}})
		require.True(t, errors.As(err, &se))
		assert.Equal(t, 1, se.Row)
		assert.Contains(t, se.Msg, "outside")
		_, err = ExtractBoundaryEdges([][]int{{-1, 2, 3}})
		require.True(t, errors.As(err, &se))
		assert.Equal(t, 0, se.Row)
		_, err = ExtractBoundaryEdges([][]int{{1, 2, types.MaxNodeIndex}})
		assert.NoError(t, err)
	}
}

func TestBoundaryMatchesMarkers(t *testing.T) {
	for _, name := range []string{"linears1.mesh", "unitsquare.mesh", "unitsquare.msh"} {
		rm, err := readfiles.ReadMesh(filepath.Join("..", "readfiles", "testdata", name))
		require.NoError(t, err)
		edges, err := ExtractBoundaryEdges(rm.Elements)
		require.NoError(t, err)
		assert.Len(t, edges, len(rm.Edges), name)
		same, missing := SamePairs(UnorderedPairs(edges), EdgePairs(rm.Edges))
		assert.True(t, same, "%s: pair %v is not in both sets", name, missing)
	}
}

func TestUnorderedPairs(t *testing.T) {
	a := UnorderedPairs([][2]int{{2, 1}, {3, 4}})
	b := EdgePairs([]types.Edge{types.NewEdge(1, 2, "x"), types.NewEdge(4, 3, "y")})
	same, _ := SamePairs(a, b)
	assert.True(t, same)
	c := UnorderedPairs([][2]int{{1, 2}, {3, 5}})
	same, missing := SamePairs(a, c)
	assert.False(t, same)
	assert.Contains(t, [][2]int{{3, 4}, {3, 5}}, missing)
}

func TestProjectNodes(t *testing.T) {
	nodes := mat.NewDense(5, 3, linearsNodes)
	{ // Round trip through a 2D selector
		proj, err := ProjectNodes(SelectColumns(0, 1), linearsElements, nodes)
		require.NoError(t, err)
		want := nodes.Slice(0, 5, 0, 2)
		assert.True(t, NodesMatch(proj, want, ProjectionTolerance))
		assert.Equal(t, 0., MaxDifference(proj, want))
	}
	{ // Reordered columns do not match
		proj, err := ProjectNodes(SelectColumns(1, 0), linearsElements, nodes)
		require.NoError(t, err)
		assert.False(t, NodesMatch(proj, nodes.Slice(0, 5, 0, 2), ProjectionTolerance))
		assert.False(t, NodesMatch(proj, nodes, ProjectionTolerance))
	}
	{ // Perturbations below and above the tolerance
		moved := mat.DenseCopyOf(nodes)
		moved.Set(4, 0, 0.5+ProjectionTolerance/10)
		assert.True(t, NodesMatch(moved, nodes, ProjectionTolerance))
		moved.Set(4, 0, 0.5+1e-6)
		assert.False(t, NodesMatch(moved, nodes, ProjectionTolerance))
		moved.Set(4, 0, math.NaN())
		assert.False(t, NodesMatch(moved, nodes, ProjectionTolerance))
	}
	{ // Element references outside the node array
		_, err := ProjectNodes(SelectColumns(0, 1), [][]int{{1, 2, 6}}, nodes)
		var se *types.ShapeError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, 0, se.Row)
	}
	{ // Selector output widths must agree
		ragged := func(x []float64) []float64 {
			if x[0] == 0.5 {
				return x[:1]
			}
			return x[:2]
		}
		_, err := ProjectNodes(ragged, linearsElements, nodes)
		var se *types.ShapeError
		require.True(t, errors.As(err, &se))
	}
	{ // A selector asking for a missing column
		_, err := ProjectNodes(SelectColumns(0, 3), linearsElements, nodes)
		var se *types.ShapeError
		require.True(t, errors.As(err, &se))
	}
}

func TestIncidence(t *testing.T) {
	I, err := NodeElementIncidence(linearsElements, 5)
	require.NoError(t, err)
	r, c := I.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 5, c)
	assert.Equal(t, 12, I.NNZ())
	assert.Equal(t, []float64{3, 3, 3, 3}, I.RowCounts())

	adj, err := ElementAdjacency(linearsElements, 5)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 3}, {0, 2}, {1, 3}, {0, 2}}, adj)

	valence, err := NodeValence(linearsElements, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 2, 2, 4}, valence)
	// an unused node has no elements
	valence, err = NodeValence(linearsElements, 6)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 2, 2, 4, 0}, valence)

	_, err = NodeElementIncidence([][]int{{1, 2, 7}}, 5)
	var se *types.ShapeError
	assert.True(t, errors.As(err, &se))
}

func TestAdjacencyUnitSquare(t *testing.T) {
	rm, err := readfiles.ReadMesh(filepath.Join("..", "readfiles", "testdata", "unitsquare.mesh"))
	require.NoError(t, err)
	adj, err := ElementAdjacency(rm.Elements, rm.NumNodes())
	require.NoError(t, err)
	boundary, err := ExtractBoundaryEdges(rm.Elements)
	require.NoError(t, err)
	// every element side is either shared or on the boundary
	var sharedSides int
	for k, nbrs := range adj {
		assert.LessOrEqual(t, len(nbrs), 3, "element %d", k)
		sharedSides += len(nbrs)
	}
	assert.Equal(t, 3*len(rm.Elements), sharedSides+len(boundary))
}
