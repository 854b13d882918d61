package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/notargets/apmesh/types"
)

// WriteMedit writes the raw mesh as an ASCII medit file; ReadMedit returns an equal mesh
func WriteMedit(w io.Writer, rm *RawMesh) (err error) {
	if len(rm.Nodes) == 0 || len(rm.Elements) == 0 {
		return fmt.Errorf("unable to write an empty mesh")
	}
	var (
		bw  = bufio.NewWriter(w)
		dim = len(rm.Nodes[0])
	)
	fmt.Fprintf(bw, "MeshVersionFormatted 1\nDimension %d\n", dim)
	fmt.Fprintf(bw, "Vertices\n%d\n", len(rm.Nodes))
	for _, row := range rm.Nodes {
		fmt.Fprintf(bw, "%s 0\n", formatFloats(row))
	}
	section := "Triangles"
	if len(rm.Elements[0]) == 6 {
		section = "TrianglesP2"
	}
	fmt.Fprintf(bw, "%s\n%d\n", section, len(rm.Elements))
	for _, row := range rm.Elements {
		fmt.Fprintf(bw, "%s 0\n", formatInts(row))
	}
	if len(rm.Edges) != 0 {
		var refs []int
		if refs, err = numericMarkers(rm.Edges); err != nil {
			return
		}
		section = "Edges"
		if rm.Edges[0].Midpoint != 0 {
			section = "EdgesP2"
		}
		fmt.Fprintf(bw, "%s\n%d\n", section, len(rm.Edges))
		for i, e := range rm.Edges {
			row := []int{e.Verts[0], e.Verts[1]}
			if section == "EdgesP2" {
				row = append(row, e.Midpoint)
			}
			fmt.Fprintf(bw, "%s %d\n", formatInts(row), refs[i])
		}
	}
	fmt.Fprintf(bw, "End\n")
	return bw.Flush()
}

// WriteTables writes the node and element tables of a split pair. Boundary markers are not part of the
// pair and are dropped.
func WriteTables(nodesW, elementsW io.Writer, rm *RawMesh) (err error) {
	bw := bufio.NewWriter(nodesW)
	for _, row := range rm.Nodes {
		fmt.Fprintln(bw, formatFloats(row))
	}
	if err = bw.Flush(); err != nil {
		return
	}
	bw = bufio.NewWriter(elementsW)
	for _, row := range rm.Elements {
		fmt.Fprintln(bw, formatInts(row))
	}
	return bw.Flush()
}

// numericMarkers converts markers to medit references, which must be integers
func numericMarkers(edges []types.Edge) (refs []int, err error) {
	refs = make([]int, len(edges))
	for i, e := range edges {
		if refs[i], err = strconv.Atoi(string(e.Marker)); err != nil {
			return nil, fmt.Errorf("medit edge references must be integers, edge %s has marker %q", e, e.Marker)
		}
	}
	return
}

func formatFloats(row []float64) string {
	s := make([]string, len(row))
	for i, x := range row {
		s[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strings.Join(s, " ")
}

func formatInts(row []int) string {
	s := make([]string, len(row))
	for i, v := range row {
		s[i] = strconv.Itoa(v)
	}
	return strings.Join(s, " ")
}
