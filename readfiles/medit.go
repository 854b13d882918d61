package readfiles

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/apmesh/types"
)

/*
ReadMedit reads an ASCII medit (.mesh) file. Supported sections:

	MeshVersionFormatted, Dimension, Vertices, Triangles, TrianglesP2 (or Triangles6),
	Edges, EdgesP2 (or Edges3), End

Each entity row carries a trailing reference number. Triangle references are ignored, edge references
become the boundary markers.
*/
func ReadMedit(filename string) (*RawMesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &types.ParseError{File: filename, Msg: "unable to open file", Err: err}
	}
	defer file.Close()
	return ParseMedit(file, filename)
}

// ParseMedit reads medit content from r, name is used for error reports
func ParseMedit(r io.Reader, name string) (rm *RawMesh, err error) {
	var (
		tr        = &tokenReader{lr: newLineReader(r, name, "#")}
		dim       = 3
		tok       string
		ok        bool
		linear    [][]int
		quadratic [][]int
	)
	rm = &RawMesh{}
sections:
	for {
		if tok, ok = tr.next(); !ok {
			break
		}
		switch tok {
		case "MeshVersionFormatted":
			if _, err = tr.int("version"); err != nil {
				return nil, err
			}
		case "Dimension":
			if dim, err = tr.int("dimension"); err != nil {
				return nil, err
			}
			if dim != 2 && dim != 3 {
				return nil, tr.lr.errorf("unsupported dimension %d", dim)
			}
		case "Vertices":
			if rm.Nodes, err = tr.vertices(dim); err != nil {
				return nil, err
			}
		case "Triangles":
			if linear, _, err = tr.entities(3, "triangle"); err != nil {
				return nil, err
			}
		case "TrianglesP2", "Triangles6":
			if quadratic, _, err = tr.entities(6, "quadratic triangle"); err != nil {
				return nil, err
			}
		case "Edges", "EdgesP2", "Edges3":
			var (
				width = 2
				rows  [][]int
				refs  []int
			)
			if tok != "Edges" {
				width = 3
			}
			if rows, refs, err = tr.entities(width, "edge"); err != nil {
				return nil, err
			}
			for i, row := range rows {
				e := types.NewEdge(row[0], row[1], types.NewMarker(refs[i]))
				if width == 3 {
					e.Midpoint = row[2]
				}
				rm.Edges = append(rm.Edges, e)
			}
		case "End":
			break sections
		default:
			return nil, tr.lr.errorf("unsupported medit section %q", tok)
		}
	}
	if err = tr.lr.err(); err != nil {
		return nil, err
	}
	switch {
	case len(linear) != 0 && len(quadratic) != 0:
		return nil, &types.ParseError{File: name, Msg: "mixed element orders: both Triangles and TrianglesP2 present"}
	case len(quadratic) != 0:
		rm.Elements = quadratic
	default:
		rm.Elements = linear
	}
	if err = rm.validate(name); err != nil {
		return nil, err
	}
	return
}

// tokenReader splits lines into whitespace separated tokens; medit allows section sizes and rows to wrap
type tokenReader struct {
	lr     *lineReader
	fields []string
}

func (tr *tokenReader) next() (tok string, ok bool) {
	for len(tr.fields) == 0 {
		var line string
		if line, ok = tr.lr.next(); !ok {
			return
		}
		tr.fields = strings.Fields(line)
	}
	tok, tr.fields = tr.fields[0], tr.fields[1:]
	return tok, true
}

func (tr *tokenReader) mustNext(what string) (tok string, err error) {
	var ok bool
	if tok, ok = tr.next(); !ok {
		if err = tr.lr.err(); err != nil {
			return "", err
		}
		return "", tr.lr.errorf("unexpected end of file reading %s", what)
	}
	return
}

func (tr *tokenReader) int(what string) (n int, err error) {
	var tok string
	if tok, err = tr.mustNext(what); err != nil {
		return
	}
	if n, err = strconv.Atoi(tok); err != nil {
		return 0, tr.lr.wrap(fmt.Sprintf("invalid %s %q", what, tok), err)
	}
	return
}

func (tr *tokenReader) float(what string) (x float64, err error) {
	var (
		tok  string
		vals []float64
	)
	if tok, err = tr.mustNext(what); err != nil {
		return
	}
	if vals, err = tr.lr.floats([]string{tok}); err != nil {
		return
	}
	return vals[0], nil
}

func (tr *tokenReader) vertices(dim int) (nodes [][]float64, err error) {
	var nv int
	if nv, err = tr.int("vertex count"); err != nil {
		return
	}
	if nv < 0 {
		return nil, tr.lr.errorf("negative vertex count %d", nv)
	}
	nodes = make([][]float64, 0, capacity(nv))
	for i := 0; i < nv; i++ {
		node := make([]float64, dim)
		for j := 0; j < dim; j++ {
			if node[j], err = tr.float("vertex coordinate"); err != nil {
				return nil, err
			}
		}
		if _, err = tr.int("vertex reference"); err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return
}

// entities reads a counted block of connectivity rows, each followed by a reference number
func (tr *tokenReader) entities(width int, what string) (rows [][]int, refs []int, err error) {
	var n int
	if n, err = tr.int(what + " count"); err != nil {
		return
	}
	if n < 0 {
		return nil, nil, tr.lr.errorf("negative %s count %d", what, n)
	}
	rows, refs = make([][]int, 0, capacity(n)), make([]int, 0, capacity(n))
	for i := 0; i < n; i++ {
		var ref int
		row := make([]int, width)
		for j := 0; j < width; j++ {
			if row[j], err = tr.int(what + " node"); err != nil {
				return nil, nil, err
			}
		}
		if ref, err = tr.int(what + " reference"); err != nil {
			return nil, nil, err
		}
		rows, refs = append(rows, row), append(refs, ref)
	}
	return
}
