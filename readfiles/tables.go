package readfiles

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/notargets/apmesh/types"
)

// table is a whitespace separated text file held as rows of fields, kept until its role is known
type table struct {
	file  string
	rows  [][]string
	lines []int
}

func readTable(r io.Reader, name string) (t *table, err error) {
	lr := newLineReader(r, name, "#")
	t = &table{file: name}
	for {
		line, ok := lr.next()
		if !ok {
			break
		}
		t.rows = append(t.rows, strings.Fields(line))
		t.lines = append(t.lines, lr.line)
	}
	if err = lr.err(); err != nil {
		return nil, err
	}
	if len(t.rows) == 0 {
		return nil, &types.ParseError{File: name, Msg: "empty table"}
	}
	return
}

func (t *table) errorf(row int, format string, args ...any) error {
	return &types.ParseError{File: t.file, Line: t.lines[row], Msg: fmt.Sprintf(format, args...)}
}

// asNodes interprets the table as node coordinates: every row holds 2 or 3 reals, same width throughout
func (t *table) asNodes() (nodes [][]float64, err error) {
	lr := &lineReader{file: t.file}
	width := len(t.rows[0])
	nodes = make([][]float64, len(t.rows))
	for i, row := range t.rows {
		lr.line = t.lines[i]
		if width != 2 && width != 3 {
			return nil, t.errorf(i, "node rows need 2 or 3 coordinates, have %d", width)
		}
		if len(row) != width {
			return nil, t.errorf(i, "inconsistent row width %d, expected %d", len(row), width)
		}
		if nodes[i], err = lr.floats(row); err != nil {
			return nil, err
		}
	}
	return
}

// asElements interprets the table as connectivity: every row holds 3 or 6 positive integers
func (t *table) asElements() (elements [][]int, maxIndex int, err error) {
	lr := &lineReader{file: t.file}
	width := len(t.rows[0])
	elements = make([][]int, len(t.rows))
	for k, row := range t.rows {
		lr.line = t.lines[k]
		if width != 3 && width != 6 {
			return nil, 0, t.errorf(k, "element rows need 3 or 6 node indices, have %d", width)
		}
		if len(row) != width {
			return nil, 0, t.errorf(k, "inconsistent row width %d, expected %d", len(row), width)
		}
		if elements[k], err = lr.ints(row); err != nil {
			return nil, 0, err
		}
		for _, v := range elements[k] {
			if v < 1 {
				return nil, 0, t.errorf(k, "node index %d is not positive", v)
			}
			maxIndex = max(maxIndex, v)
		}
	}
	return
}

// ReadTables reads a split node/element file pair, supplied in either order
func ReadTables(file1, file2 string) (*RawMesh, error) {
	var tabs [2]*table
	for i, fileName := range []string{file1, file2} {
		file, err := os.Open(fileName)
		if err != nil {
			return nil, &types.ParseError{File: fileName, Msg: "unable to open file", Err: err}
		}
		tabs[i], err = readTable(file, fileName)
		file.Close()
		if err != nil {
			return nil, err
		}
	}
	return assembleTables(tabs[0], tabs[1])
}

// ParseTables is ReadTables over readers
func ParseTables(r1 io.Reader, name1 string, r2 io.Reader, name2 string) (*RawMesh, error) {
	t1, err := readTable(r1, name1)
	if err != nil {
		return nil, err
	}
	t2, err := readTable(r2, name2)
	if err != nil {
		return nil, err
	}
	return assembleTables(t1, t2)
}

/*
assembleTables decides which table holds the nodes by content. A table is an element candidate when it
parses as integer connectivity and a node candidate when it parses as coordinates. Integer coordinates
can make both tables element candidates; the assignment whose largest node index fits the other table
wins, and a pair where both or neither assignment fits is rejected.
*/
func assembleTables(t1, t2 *table) (rm *RawMesh, err error) {
	type candidate struct {
		nodes    [][]float64
		elements [][]int
		maxIndex int
		nodeErr  error
		elemErr  error
	}
	var cands [2]candidate
	for i, t := range []*table{t1, t2} {
		c := &cands[i]
		c.nodes, c.nodeErr = t.asNodes()
		c.elements, c.maxIndex, c.elemErr = t.asElements()
	}
	// fits reports whether table e can be the elements of table n
	fits := func(e, n int) bool {
		return cands[e].elemErr == nil && cands[n].nodeErr == nil && cands[e].maxIndex <= len(cands[n].nodes)
	}
	var e, n int
	switch f12, f21 := fits(0, 1), fits(1, 0); {
	case f12 && f21:
		return nil, &types.ParseError{File: t1.file,
			Msg: fmt.Sprintf("ambiguous split tables: %s and %s could each be the element table", t1.file, t2.file)}
	case f12:
		e, n = 0, 1
	case f21:
		e, n = 1, 0
	default:
		return nil, incompatibleTables(t1, t2, cands[0].elemErr, cands[1].elemErr,
			cands[0].nodeErr, cands[1].nodeErr, cands[0].maxIndex, cands[1].maxIndex)
	}
	rm = &RawMesh{
		Nodes:    cands[n].nodes,
		Elements: cands[e].elements,
	}
	files := []*table{t1, t2}
	if err = rm.validate(files[e].file); err != nil {
		return nil, err
	}
	return
}

// incompatibleTables picks the most specific reason neither assignment of the pair works
func incompatibleTables(t1, t2 *table, elemErr1, elemErr2, nodeErr1, nodeErr2 error, max1, max2 int) error {
	switch {
	case elemErr1 != nil && elemErr2 != nil:
		return &types.ParseError{File: t1.file,
			Msg: "neither file is an element table", Err: fmt.Errorf("%s: %w; %s: %v", t1.file, elemErr1, t2.file, elemErr2)}
	case nodeErr1 != nil && nodeErr2 != nil:
		return &types.ParseError{File: t1.file,
			Msg: "neither file is a node table", Err: fmt.Errorf("%s: %w; %s: %v", t1.file, nodeErr1, t2.file, nodeErr2)}
	case elemErr1 == nil && nodeErr2 == nil:
		return &types.ParseError{File: t1.file,
			Msg: fmt.Sprintf("incompatible split tables: element index %d exceeds the %d rows of %s",
				max1, len(t2.rows), t2.file)}
	default:
		return &types.ParseError{File: t2.file,
			Msg: fmt.Sprintf("incompatible split tables: element index %d exceeds the %d rows of %s",
				max2, len(t1.rows), t1.file)}
	}
}
