package readfiles

import (
	"io"
	"os"
	"strings"

	"github.com/notargets/apmesh/types"
)

// From here: https://su2code.github.io/docs_v7/Mesh-File/
type SU2ElementType uint8

const (
	ELType_LINE          SU2ElementType = 3
	ELType_Triangle      SU2ElementType = 5
	ELType_Quadrilateral SU2ElementType = 9
)

// ReadSU2 reads an SU2 native mesh of triangles. SU2 indices are 0-based and come back 1-based.
func ReadSU2(filename string) (*RawMesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &types.ParseError{File: filename, Msg: "unable to open file", Err: err}
	}
	defer file.Close()
	return ParseSU2(file, filename)
}

// ParseSU2 reads SU2 content from r, name is used for error reports
func ParseSU2(r io.Reader, name string) (rm *RawMesh, err error) {
	var (
		lr  = newLineReader(r, name, "%")
		dim int
	)
	rm = &RawMesh{}
	for {
		line, ok := lr.next()
		if !ok {
			break
		}
		var key, value string
		if key, value, err = su2Token(lr, line); err != nil {
			return nil, err
		}
		switch key {
		case "NDIME":
			if dim, err = lr.count(value, "dimension"); err != nil {
				return nil, err
			}
			if dim != 2 {
				return nil, lr.errorf("only 2 dimensional SU2 meshes are supported, NDIME= %d", dim)
			}
		case "NELEM":
			if rm.Elements, err = su2Elements(lr, value); err != nil {
				return nil, err
			}
		case "NPOIN":
			if dim == 0 {
				return nil, lr.errorf("NPOIN found before NDIME")
			}
			if rm.Nodes, err = su2Points(lr, value, dim); err != nil {
				return nil, err
			}
		case "NMARK":
			if rm.Edges, err = su2Markers(lr, value); err != nil {
				return nil, err
			}
		default:
			return nil, lr.errorf("unexpected SU2 keyword %q", key)
		}
	}
	if err = lr.err(); err != nil {
		return nil, err
	}
	if err = rm.validate(name); err != nil {
		return nil, err
	}
	return
}

// su2Token splits a "KEY= value" line
func su2Token(lr *lineReader, line string) (key, value string, err error) {
	ind := strings.Index(line, "=")
	if ind < 0 {
		return "", "", lr.errorf("badly formed input line [%s], should have an =", line)
	}
	return strings.TrimSpace(line[:ind]), strings.TrimSpace(line[ind+1:]), nil
}

func su2Elements(lr *lineReader, value string) (elements [][]int, err error) {
	var (
		line string
		K    int
		vals []int
	)
	if K, err = lr.count(value, "element"); err != nil {
		return
	}
	elements = make([][]int, 0, capacity(K))
	for k := 0; k < K; k++ {
		if line, err = lr.mustNext("elements"); err != nil {
			return nil, err
		}
		if vals, err = lr.ints(strings.Fields(line)); err != nil {
			return nil, err
		}
		if len(vals) < 4 {
			return nil, lr.errorf("unable to read vertices from %q", line)
		}
		if SU2ElementType(vals[0]) != ELType_Triangle {
			return nil, lr.errorf("unable to deal with non-triangular element type %d", vals[0])
		}
		elements = append(elements, []int{vals[1] + 1, vals[2] + 1, vals[3] + 1})
	}
	return
}

func su2Points(lr *lineReader, value string, dim int) (nodes [][]float64, err error) {
	var (
		line string
		Nv   int
	)
	if Nv, err = lr.count(value, "point"); err != nil {
		return
	}
	nodes = make([][]float64, 0, capacity(Nv))
	for i := 0; i < Nv; i++ {
		if line, err = lr.mustNext("points"); err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) < dim {
			return nil, lr.errorf("unable to read coordinates from %q", line)
		}
		// any trailing field is the point index
		var coords []float64
		if coords, err = lr.floats(fields[:dim]); err != nil {
			return nil, err
		}
		nodes = append(nodes, coords)
	}
	return
}

func su2Markers(lr *lineReader, value string) (edges []types.Edge, err error) {
	var (
		line, key, label string
		NBCs, nEdges     int
		vals             []int
	)
	if NBCs, err = lr.count(value, "marker"); err != nil {
		return
	}
	for n := 0; n < NBCs; n++ {
		if line, err = lr.mustNext("MARKER_TAG"); err != nil {
			return nil, err
		}
		if key, label, err = su2Token(lr, line); err != nil {
			return nil, err
		}
		if key != "MARKER_TAG" || label == "" {
			return nil, lr.errorf("expected MARKER_TAG, found %q", line)
		}
		if line, err = lr.mustNext("MARKER_ELEMS"); err != nil {
			return nil, err
		}
		if key, value, err = su2Token(lr, line); err != nil {
			return nil, err
		}
		if key != "MARKER_ELEMS" {
			return nil, lr.errorf("expected MARKER_ELEMS, found %q", line)
		}
		if nEdges, err = lr.count(value, "marker element"); err != nil {
			return nil, err
		}
		for i := 0; i < nEdges; i++ {
			if line, err = lr.mustNext("marker elements"); err != nil {
				return nil, err
			}
			if vals, err = lr.ints(strings.Fields(line)); err != nil {
				return nil, err
			}
			if len(vals) != 3 || SU2ElementType(vals[0]) != ELType_LINE {
				return nil, lr.errorf("BCs should only contain line elements in 2D, found %q", line)
			}
			edges = append(edges, types.NewEdge(vals[1]+1, vals[2]+1, types.Marker(label)))
		}
	}
	return
}
