package readfiles

import (
	"io"
	"os"
	"strings"

	"github.com/notargets/apmesh/types"
)

const gambitEndOfSection = "ENDOFSECTION"

// Gambit element type 3 is a triangle, with 3 or 6 nodes
const gambitTriangle = 3

/*
ReadGambit reads a 2D Gambit neutral file of triangles. Boundary conditions must be element/face
based: face 1 is (v0,v1), face 2 is (v1,v2) and face 3 is (v2,v0). The marker is the BC set name.

Gambit lists 6-node triangles going around the element, corner then midpoint; they are returned in the
c0 c1 c2 m01 m12 m20 order the other formats use.
*/
func ReadGambit(filename string) (*RawMesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &types.ParseError{File: filename, Msg: "unable to open file", Err: err}
	}
	defer file.Close()
	return ParseGambit(file, filename)
}

type gambitHeader struct {
	Nv, K, Nmats, Nbcs, Nsd int
}

// ParseGambit reads Gambit neutral content from r, name is used for error reports
func ParseGambit(r io.Reader, name string) (rm *RawMesh, err error) {
	var (
		lr  = newLineReader(r, name, "")
		hdr *gambitHeader
	)
	rm = &RawMesh{}
	for {
		line, ok := lr.next()
		if !ok {
			break
		}
		switch {
		case strings.Contains(line, "NUMNP"):
			if hdr, err = readGambitHeader(lr); err != nil {
				return nil, err
			}
		case hdr == nil || line == gambitEndOfSection:
			// free form title lines precede the control block
		case strings.HasPrefix(line, "NODAL COORDINATES"):
			if rm.Nodes, err = readGambitNodes(lr, hdr); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, "ELEMENTS/CELLS"):
			if rm.Elements, err = readGambitElements(lr, hdr); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, "BOUNDARY CONDITIONS"):
			if rm.Elements == nil {
				return nil, lr.errorf("BOUNDARY CONDITIONS section before ELEMENTS/CELLS")
			}
			var edges []types.Edge
			if edges, err = readGambitBCs(lr, rm.Elements); err != nil {
				return nil, err
			}
			rm.Edges = append(rm.Edges, edges...)
		default:
			// ELEMENT GROUP and application data carry nothing the mesh needs
			if err = lr.skipTo(gambitEndOfSection); err != nil {
				return nil, err
			}
		}
	}
	if err = lr.err(); err != nil {
		return nil, err
	}
	if hdr == nil {
		return nil, &types.ParseError{File: name, Msg: "could not find the NUMNP control block"}
	}
	if err = rm.validate(name); err != nil {
		return nil, err
	}
	return
}

func readGambitHeader(lr *lineReader) (hdr *gambitHeader, err error) {
	/*
		Nv      // num nodes in mesh
		K       // num elements
		Nmats   // num material groups
		Nbcs    // num boundary groups
		Nsd;    // num space dimensions
	*/
	var (
		line string
		vals []int
	)
	if line, err = lr.mustNext("control info"); err != nil {
		return
	}
	if vals, err = lr.ints(strings.Fields(line)); err != nil {
		return
	}
	if len(vals) < 5 {
		return nil, lr.errorf("read fewer than 5 dimensions, line: %s", line)
	}
	hdr = &gambitHeader{Nv: vals[0], K: vals[1], Nmats: vals[2], Nbcs: vals[3], Nsd: vals[4]}
	if hdr.Nsd < 2 || hdr.Nsd > 3 {
		return nil, lr.errorf("space dimensions not 2 or 3")
	}
	if hdr.Nv < 0 || hdr.K < 0 {
		return nil, lr.errorf("negative node or element count")
	}
	return
}

func readGambitNodes(lr *lineReader, hdr *gambitHeader) (nodes [][]float64, err error) {
	var (
		line   string
		ind    int
		coords []float64
	)
	placed := make(map[int][]float64, capacity(hdr.Nv))
	for i := 0; i < hdr.Nv; i++ {
		if line, err = lr.mustNext("nodal coordinates"); err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) != 1+hdr.Nsd {
			return nil, lr.errorf("read %d fields, need %d, line: %s", len(fields), 1+hdr.Nsd, line)
		}
		if ind, err = lr.count(fields[0], "node index"); err != nil {
			return nil, err
		}
		if _, seen := placed[ind]; ind < 1 || ind > hdr.Nv || seen {
			return nil, lr.errorf("node index %d is out of range or repeated", ind)
		}
		if coords, err = lr.floats(fields[1:]); err != nil {
			return nil, err
		}
		placed[ind] = coords
	}
	// every index 1..Nv was read exactly once
	nodes = make([][]float64, hdr.Nv)
	for ind, coords := range placed {
		nodes[ind-1] = coords
	}
	return nodes, lr.skipTo(gambitEndOfSection)
}

func readGambitElements(lr *lineReader, hdr *gambitHeader) (elements [][]int, err error) {
	//---------------------------------------------
	// ELEMENTS/CELLS 2.4.6
	//      1  3  3        1       2       3
	//      2  3  3        3       2       4
	//---------------------------------------------
	var (
		line string
		vals []int
	)
	placed := make(map[int][]int, capacity(hdr.K))
	for i := 0; i < hdr.K; i++ {
		if line, err = lr.mustNext("elements"); err != nil {
			return nil, err
		}
		if vals, err = lr.ints(strings.Fields(line)); err != nil {
			return nil, err
		}
		if len(vals) < 3 {
			return nil, lr.errorf("invalid element line: %s", line)
		}
		ind, typ, ndp := vals[0], vals[1], vals[2]
		if typ != gambitTriangle || (ndp != 3 && ndp != 6) {
			return nil, lr.errorf("unable to deal with element type %d with %d nodes, triangles only", typ, ndp)
		}
		if len(vals) != 3+ndp {
			return nil, lr.errorf("element %d: expected %d nodes, got %d", ind, ndp, len(vals)-3)
		}
		if _, seen := placed[ind]; ind < 1 || ind > hdr.K || seen {
			return nil, lr.errorf("element index %d is out of range or repeated", ind)
		}
		f := vals[3:]
		if ndp == 3 {
			placed[ind] = []int{f[0], f[1], f[2]}
		} else {
			placed[ind] = []int{f[0], f[2], f[4], f[1], f[3], f[5]}
		}
	}
	elements = make([][]int, hdr.K)
	for ind, row := range placed {
		elements[ind-1] = row
	}
	return elements, lr.skipTo(gambitEndOfSection)
}

func readGambitBCs(lr *lineReader, elements [][]int) (edges []types.Edge, err error) {
	var (
		line string
		vals []int
	)
	if line, err = lr.mustNext("boundary condition header"); err != nil {
		return
	}
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return nil, lr.errorf("invalid boundary condition header: %s", line)
	}
	marker := types.Marker(fields[0])
	if vals, err = lr.ints(fields[1:3]); err != nil {
		return nil, err
	}
	itype, numFaces := vals[0], vals[1]
	if itype != 1 {
		return nil, lr.errorf("boundary condition %s is node based, only element/face sets are supported", marker)
	}
	for i := 0; i < numFaces; i++ {
		if line, err = lr.mustNext("boundary faces"); err != nil {
			return nil, err
		}
		if vals, err = lr.ints(strings.Fields(line)); err != nil {
			return nil, err
		}
		if len(vals) < 3 {
			return nil, lr.errorf("read fewer than 3 values, line: %s", line)
		}
		kp1, faceNumberp1 := vals[0], vals[2]
		if kp1 < 1 || kp1 > len(elements) || elements[kp1-1] == nil {
			return nil, lr.errorf("boundary face references element %d", kp1)
		}
		el := elements[kp1-1]
		var e types.Edge
		switch faceNumberp1 {
		case 1:
			e = types.NewEdge(el[0], el[1], marker)
		case 2:
			e = types.NewEdge(el[1], el[2], marker)
		case 3:
			e = types.NewEdge(el[2], el[0], marker)
		default:
			return nil, lr.errorf("triangle face number %d out of range 1..3", faceNumberp1)
		}
		if len(el) == 6 {
			e.Midpoint = el[2+faceNumberp1]
		}
		edges = append(edges, e)
	}
	return edges, lr.skipTo(gambitEndOfSection)
}
