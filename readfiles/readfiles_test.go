package readfiles

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/notargets/apmesh/types"
	"github.com/notargets/apmesh/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFile(name string) string {
	return filepath.Join("testdata", name)
}

// Helper function to create temporary test files
func createTempFile(t *testing.T, name, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}

func requireParseError(t *testing.T, err error) *types.ParseError {
	t.Helper()
	require.Error(t, err)
	var pe *types.ParseError
	require.True(t, errors.As(err, &pe), "expected a ParseError, got %T: %v", err, err)
	return pe
}

func TestReadMeshLinears1(t *testing.T) {
	var (
		nodes    = [][]float64{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {0.5, 0.5, 0}}
		elements = [][]int{{1, 2, 5}, {2, 3, 5}, {3, 4, 5}, {4, 1, 5}}
		edges    = []types.Edge{
			types.NewEdge(1, 2, "1"), types.NewEdge(2, 3, "2"),
			types.NewEdge(3, 4, "3"), types.NewEdge(4, 1, "4"),
		}
	)
	combined, err := ReadMesh(testFile("linears1.mesh"))
	require.NoError(t, err)
	assert.Equal(t, nodes, combined.Nodes)
	assert.Equal(t, elements, combined.Elements)
	assert.Equal(t, edges, combined.Edges)
	assert.Equal(t, utils.Triangle, combined.ElementType())
	assert.True(t, combined.HasMarkers())

	// The split pair parses the same in either order, and carries no markers
	for _, pair := range [][2]string{
		{"linears1_nodes.txt", "linears1_elements.txt"},
		{"linears1_elements.txt", "linears1_nodes.txt"},
	} {
		split, err := ReadMesh(testFile(pair[0]), testFile(pair[1]))
		require.NoError(t, err, "pair %v", pair)
		assert.Equal(t, nodes, split.Nodes)
		assert.Equal(t, elements, split.Elements)
		assert.False(t, split.HasMarkers())
	}

	// Gambit: 2D coordinates, faces resolved against the element rows
	gambit, err := ReadMesh(testFile("linears1.neu"))
	require.NoError(t, err)
	assert.Equal(t, 5, gambit.NumNodes())
	assert.Equal(t, []float64{0.5, 0.5}, gambit.Nodes[4])
	assert.Equal(t, elements, gambit.Elements)
	assert.Equal(t, []types.Edge{
		types.NewEdge(1, 2, "bottom"), types.NewEdge(2, 3, "walls"),
		types.NewEdge(3, 4, "walls"), types.NewEdge(4, 1, "walls"),
	}, gambit.Edges)
}

func TestReadMeshUnitSquare(t *testing.T) {
	medit, err := ReadMesh(testFile("unitsquare.mesh"))
	require.NoError(t, err)
	assert.Equal(t, 69, medit.NumNodes())
	assert.Equal(t, 28, medit.NumElements())
	assert.Equal(t, utils.Triangle6, medit.ElementType())
	assert.Equal(t, []int{16, 4, 26, 19, 34, 35}, medit.Elements[0])
	assert.Equal(t, []int{11, 28, 32, 42, 58, 64}, medit.Elements[27])
	require.Len(t, medit.Edges, 12)
	assert.Equal(t, types.Edge{Verts: [2]int{1, 5}, Midpoint: 7, Marker: "1"}, medit.Edges[0])
	assert.Equal(t, types.Edge{Verts: [2]int{21, 1}, Midpoint: 24, Marker: "4"}, medit.Edges[11])
	assert.Equal(t, []float64{0.5833333333339, 0.91369047619015, 0}, medit.Nodes[68])

	gmsh, err := ReadMesh(testFile("unitsquare.msh"))
	require.NoError(t, err)
	assert.True(t, medit.Equal(gmsh))
}

func TestParseGmshPhysicalNames(t *testing.T) {
	content := `$MeshFormat
2.2 0 8
$EndMeshFormat
$PhysicalNames
3
1 10 "inflow"
1 20 "far field"
2 30 "fluid"
$EndPhysicalNames
$Nodes
4
101 0 0 0
102 1 0 0
103 1 1 0
104 0 1 0
$EndNodes
$Elements
5
1 1 2 10 1 101 102
2 1 2 20 2 102 103
3 1 2 7 3 103 104
4 2 2 30 1 101 102 103
5 2 2 30 1 101 103 104
$EndElements
`
	rm, err := ParseGmsh(strings.NewReader(content), "names.msh")
	require.NoError(t, err)
	// node ids renumbered in file order
	assert.Equal(t, [][]int{{1, 2, 3}, {1, 3, 4}}, rm.Elements)
	assert.Equal(t, []types.Edge{
		types.NewEdge(1, 2, "inflow"),
		types.NewEdge(2, 3, "far field"),
		types.NewEdge(3, 4, "7"),
	}, rm.Edges)
}

func TestParseSU2(t *testing.T) {
	rm, err := ParseSU2(bytes.NewReader(su2InputFile), "square.su2")
	require.NoError(t, err)
	assert.Equal(t, 22, rm.NumElements())
	assert.Equal(t, 18, rm.NumNodes())
	assert.Equal(t, []int{6, 7, 14}, rm.Elements[0])
	assert.Equal(t, 18, rm.Elements[21][2])
	assert.Equal(t, []float64{-7.100939331382065, 2.889910324036197}, rm.Nodes[17])
	require.Len(t, rm.Edges, 12)
	assert.Equal(t, types.NewEdge(4, 12, "periodic-left"), rm.Edges[0])
	assert.Equal(t, types.NewEdge(7, 2, "bottom"), rm.Edges[11])
}

func TestParseTables(t *testing.T) {
	const (
		positiveNodes = "1 1 1\n2 2 2\n3 3 3\n"
		oneElement    = "1 2 3\n"
	)
	{ // Integer coordinates still resolve when only one assignment fits
		rm, err := ParseTables(strings.NewReader(oneElement), "e.txt", strings.NewReader(positiveNodes), "n.txt")
		require.NoError(t, err)
		assert.Equal(t, [][]int{{1, 2, 3}}, rm.Elements)
		assert.Equal(t, 3, rm.NumNodes())
	}
	{ // Both files could be the element table of the other
		perm := "1 2 3\n2 3 1\n3 1 2\n"
		_, err := ParseTables(strings.NewReader(perm), "a.txt", strings.NewReader(perm), "b.txt")
		pe := requireParseError(t, err)
		assert.Contains(t, pe.Msg, "ambiguous")
	}
	{ // Element index beyond the node table
		_, err := ParseTables(strings.NewReader("1 2 9\n"), "e.txt",
			strings.NewReader("0 0\n1 0\n0 1\n"), "n.txt")
		pe := requireParseError(t, err)
		assert.Contains(t, pe.Msg, "incompatible")
	}
	{ // Two node tables
		_, err := ParseTables(strings.NewReader("0 0\n1 0.5\n"), "a.txt",
			strings.NewReader("0.5 0\n1 1\n"), "b.txt")
		pe := requireParseError(t, err)
		assert.Contains(t, pe.Msg, "neither file is an element table")
	}
	{ // Inconsistent row width
		_, err := ParseTables(strings.NewReader("1 2 3\n1 2\n"), "e.txt",
			strings.NewReader("0 0\n1 0\n0 1\n"), "n.txt")
		requireParseError(t, err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		parse   func() error
		line    int
		message string
	}{
		{
			name: "medit mixed element orders",
			parse: func() error {
				_, err := ParseMedit(strings.NewReader(`MeshVersionFormatted 1
Dimension 2
Vertices
3
0 0 0
1 0 0
0 1 0
Triangles
1
1 2 3 0
TrianglesP2
1
1 2 3 1 2 3 0
End`), "mixed.mesh")
				return err
			},
			message: "mixed element orders",
		},
		{
			name: "medit unknown section",
			parse: func() error {
				_, err := ParseMedit(strings.NewReader("MeshVersionFormatted 1\nDimension 2\nQuadrilaterals\n0\nEnd\n"),
					"quads.mesh")
				return err
			},
			line:    3,
			message: "unsupported medit section",
		},
		{
			name: "medit truncated vertices",
			parse: func() error {
				_, err := ParseMedit(strings.NewReader("Dimension 2\nVertices\n3\n0 0 0\n1 0"), "short.mesh")
				return err
			},
			message: "unexpected end of file",
		},
		{
			name: "medit element beyond node count",
			parse: func() error {
				_, err := ParseMedit(strings.NewReader("Dimension 2\nVertices\n3\n0 0 0\n1 0 0\n0 1 0\nTriangles\n1\n1 2 4 0\nEnd\n"),
					"range.mesh")
				return err
			},
			message: "references node 4",
		},
		{
			name: "gmsh version 4",
			parse: func() error {
				_, err := ParseGmsh(strings.NewReader("$MeshFormat\n4.1 0 8\n$EndMeshFormat\n"), "v4.msh")
				return err
			},
			line:    2,
			message: "unsupported Gmsh format version",
		},
		{
			name: "gmsh binary",
			parse: func() error {
				_, err := ParseGmsh(strings.NewReader("$MeshFormat\n2.2 1 8\n$EndMeshFormat\n"), "bin.msh")
				return err
			},
			message: "binary",
		},
		{
			name: "gmsh quadrilateral",
			parse: func() error {
				_, err := ParseGmsh(strings.NewReader(`$MeshFormat
2.2 0 8
$EndMeshFormat
$Nodes
4
1 0 0 0
2 1 0 0
3 1 1 0
4 0 1 0
$EndNodes
$Elements
1
1 3 2 1 1 1 2 3 4
$EndElements
`), "quad.msh")
				return err
			},
			line:    13,
			message: "unsupported element type 3",
		},
		{
			name: "gmsh unknown node",
			parse: func() error {
				_, err := ParseGmsh(strings.NewReader(`$MeshFormat
2.2 0 8
$EndMeshFormat
$Nodes
3
1 0 0 0
2 1 0 0
3 1 1 0
$EndNodes
$Elements
1
1 2 2 1 1 1 2 7
$EndElements
`), "unknown.msh")
				return err
			},
			message: "unknown node 7",
		},
		{
			name: "gmsh negative tag count",
			parse: func() error {
				_, err := ParseGmsh(strings.NewReader(`$MeshFormat
2.2 0 8
$EndMeshFormat
$Nodes
3
1 0 0 0
2 1 0 0
3 1 1 0
$EndNodes
$Elements
1
1 2 -2 1 2 3
$EndElements
`), "tags.msh")
				return err
			},
			line:    12,
			message: "invalid tag count -2",
		},
		{
			name: "gmsh node count beyond the file",
			parse: func() error {
				_, err := ParseGmsh(strings.NewReader(
					"$MeshFormat\n2.2 0 8\n$EndMeshFormat\n$Nodes\n4611686018427387904\n1 0 0 0\n$EndNodes\n"), "huge.msh")
				return err
			},
			line:    7,
			message: "invalid node line",
		},
		{
			name: "medit vertex count beyond the file",
			parse: func() error {
				_, err := ParseMedit(strings.NewReader("Dimension 2\nVertices\n4611686018427387904\n0 0 0\n"), "huge.mesh")
				return err
			},
			message: "unexpected end of file",
		},
		{
			name: "medit triangle count beyond the file",
			parse: func() error {
				_, err := ParseMedit(strings.NewReader(
					"Dimension 2\nVertices\n3\n0 0 0\n1 0 0\n0 1 0\nTriangles\n4611686018427387904\n1 2 3 0\n"), "huge.mesh")
				return err
			},
			message: "unexpected end of file",
		},
		{
			name: "su2 point count beyond the file",
			parse: func() error {
				_, err := ParseSU2(strings.NewReader("NDIME= 2\nNPOIN= 4611686018427387904\n0 0 0\n"), "huge.su2")
				return err
			},
			message: "unexpected end of file",
		},
		{
			name: "su2 element count beyond the file",
			parse: func() error {
				_, err := ParseSU2(strings.NewReader("NDIME= 2\nNELEM= 4611686018427387904\n5 0 1 2 0\n"), "huge.su2")
				return err
			},
			message: "unexpected end of file",
		},
		{
			name: "gambit node count beyond the file",
			parse: func() error {
				content := strings.Replace(gambitSquare, "         5         4         1", "4611686018427387904         4         1", 1)
				_, err := ParseGambit(strings.NewReader(content), "huge.neu")
				return err
			},
			line:    12,
			message: "need 3",
		},
		{
			name: "su2 quadrilateral",
			parse: func() error {
				_, err := ParseSU2(strings.NewReader("NDIME= 2\nNELEM= 1\n9 0 1 2 3 0\n"), "quad.su2")
				return err
			},
			line:    3,
			message: "non-triangular",
		},
		{
			name: "su2 missing equals",
			parse: func() error {
				_, err := ParseSU2(strings.NewReader("NDIME 2\n"), "bad.su2")
				return err
			},
			line:    1,
			message: "should have an =",
		},
		{
			name: "gambit face out of range",
			parse: func() error {
				content := strings.Replace(gambitSquare, "         1       3       1\n", "         1       3       4\n", 1)
				_, err := ParseGambit(strings.NewReader(content), "face.neu")
				return err
			},
			message: "face number 4",
		},
		{
			name: "unknown extension",
			parse: func() error {
				_, err := ReadMesh("mesh.vtk")
				return err
			},
			message: "unknown mesh file extension",
		},
		{
			name: "three files",
			parse: func() error {
				_, err := ReadMesh("a.txt", "b.txt", "c.txt")
				return err
			},
			message: "have 3 files",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := requireParseError(t, tt.parse())
			assert.Contains(t, pe.Error(), tt.message)
			if tt.line != 0 {
				assert.Equal(t, tt.line, pe.Line)
			}
		})
	}
}

func TestParseGambit(t *testing.T) {
	rm, err := ParseGambit(strings.NewReader(gambitSquare), "square.neu")
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2, 5}, {2, 3, 5}, {3, 4, 5}, {4, 1, 5}}, rm.Elements)
	assert.Equal(t, types.NewEdge(1, 2, "bottom"), rm.Edges[0])

	{ // 6-node triangles come back with corners first
		tri6 := `     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         6         1         0         1         2         2
ENDOFSECTION
   NODAL COORDINATES 2.4.6
         1   0.0   0.0
         2   0.5   0.0
         3   1.0   0.0
         4   0.5   0.5
         5   0.0   1.0
         6   0.0   0.5
ENDOFSECTION
      ELEMENTS/CELLS 2.4.6
       1  3  6        1       2       3       4       5       6
ENDOFSECTION
 BOUNDARY CONDITIONS 2.4.6
                            wall       1       1       0       6
         1       3       2
ENDOFSECTION
`
		rm, err = ParseGambit(strings.NewReader(tri6), "tri6.neu")
		require.NoError(t, err)
		assert.Equal(t, [][]int{{1, 3, 5, 2, 4, 6}}, rm.Elements)
		assert.Equal(t, []types.Edge{{Verts: [2]int{3, 5}, Midpoint: 4, Marker: "wall"}}, rm.Edges)
	}
}

func TestWriters(t *testing.T) {
	for _, name := range []string{"linears1.mesh", "unitsquare.mesh"} {
		rm, err := ReadMesh(testFile(name))
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, WriteMedit(&buf, rm))
		back, err := ParseMedit(&buf, name)
		require.NoError(t, err)
		assert.True(t, rm.Equal(back), name)

		dir := t.TempDir()
		nodesFile, elementsFile := filepath.Join(dir, "nodes.txt"), filepath.Join(dir, "elements.txt")
		var nb, eb bytes.Buffer
		require.NoError(t, WriteTables(&nb, &eb, rm))
		require.NoError(t, os.WriteFile(nodesFile, nb.Bytes(), 0644))
		require.NoError(t, os.WriteFile(elementsFile, eb.Bytes(), 0644))
		split, err := ReadMesh(elementsFile, nodesFile)
		require.NoError(t, err)
		assert.Equal(t, rm.Nodes, split.Nodes)
		assert.Equal(t, rm.Elements, split.Elements)
	}
	{ // Named markers cannot be written as medit references
		rm := &RawMesh{
			Nodes:    [][]float64{{0, 0}, {1, 0}, {0, 1}},
			Elements: [][]int{{1, 2, 3}},
			Edges:    []types.Edge{types.NewEdge(1, 2, "wall")},
		}
		var buf bytes.Buffer
		assert.Error(t, WriteMedit(&buf, rm))
	}
}

func TestReadMeshFromTempFile(t *testing.T) {
	fileName := createTempFile(t, "square.su2", string(su2InputFile))
	rm, err := ReadMesh(fileName)
	require.NoError(t, err)
	assert.Equal(t, 22, rm.NumElements())

	_, err = ReadMesh(filepath.Join(t.TempDir(), "nonexistent.msh"))
	pe := requireParseError(t, err)
	assert.True(t, errors.Is(pe, os.ErrNotExist))
}

var gambitSquare = `        CONTROL INFO 2.4.6
** GAMBIT NEUTRAL FILE
square
PROGRAM:                Gambit     VERSION:  2.4.6
     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         5         4         1         1         2         2
ENDOFSECTION
   NODAL COORDINATES 2.4.6
         1   0.00000000000e+00   0.00000000000e+00
         2   1.00000000000e+00   0.00000000000e+00
         3   1.00000000000e+00   1.00000000000e+00
         4   0.00000000000e+00   1.00000000000e+00
         5   5.00000000000e-01   5.00000000000e-01
ENDOFSECTION
      ELEMENTS/CELLS 2.4.6
       1  3  3        1       2       5
       2  3  3        2       3       5
       3  3  3        3       4       5
       4  3  3        4       1       5
ENDOFSECTION
       ELEMENT GROUP 2.4.6
GROUP:          1 ELEMENTS:          4 MATERIAL:          2 NFLAGS:          1
                           fluid
       0
       1       2       3       4
ENDOFSECTION
 BOUNDARY CONDITIONS 2.4.6
                          bottom       1       1       0       6
         1       3       1
ENDOFSECTION
`

var su2InputFile = []byte(` %This is an example input file in SU2 format, output from gmsh
% Comments can appear outside of data areas
NDIME= 2
% Comments can appear outside of data areas
NELEM= 22
5 5 6 13 0
5 9 10 12 1
5 12 5 13 2
5 9 12 13 3
5 13 6 14 4
5 12 10 15 5
5 8 9 13 6
5 4 5 12 7
5 1 7 14 8
5 6 1 14 9
5 3 11 15 10
5 10 3 15 11
5 8 13 16 12
5 4 12 17 13
5 13 14 16 14
5 12 15 17 15
5 7 2 16 16
5 11 0 17 17
5 2 8 16 18
5 0 4 17 19
5 14 7 16 20
5 15 11 17 21
% Comments can appear outside of data areas
NPOIN= 18
-10 0 0
10 0 1
10 10 2
-10 10 3
-5.000000000004944 0 4
-1.231725832440134e-11 0 5
4.99999999999384 0 6
10 4.999999999992398 7
5.000000000004944 10 8
1.231725832440134e-11 10 9
-4.99999999999384 10 10
-10 5 11
-2.500000000008632 4.330127018915808 12
2.50000000000863 5.669872981084192 13
6.712741669205853 3.668411415814691 14
-6.712741669205681 6.331588584184096 15
7.100939331384343 7.110089675963254 16
-7.100939331382065 2.889910324036197 17
NMARK= 4
% Comments can appear outside of data areas
MARKER_TAG= periodic-left
% Comments can appear outside of data areas
MARKER_ELEMS= 2
3 3 11
3 11 0
% Comments can appear outside of data areas
MARKER_TAG= periodic-right
MARKER_ELEMS= 2
3 1 7
3 7 2
% Comments can appear outside of data areas
MARKER_TAG= top
MARKER_ELEMS= 4
3 2 8
3 8 9
3 9 10
3 10 3
MARKER_TAG= bottom
% Comments can appear outside of data areas
MARKER_ELEMS= 4
3 0 4
3 4 5
3 5 6
3 6 1
% Comments can appear outside of data areas
`)
