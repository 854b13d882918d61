package types

import "fmt"

// ParseError reports malformed mesh input, or a pair of files that do not describe the same mesh.
type ParseError struct {
	File string
	Line int // 1-based, zero when the error is not tied to a line
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	loc := e.File
	if loc == "" {
		loc = "<input>"
	}
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.Line)
	}
	if e.Err != nil {
		return fmt.Sprintf("parse error in %s: %s: %v", loc, e.Msg, e.Err)
	}
	return fmt.Sprintf("parse error in %s: %s", loc, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ShapeError reports element rows with an unsupported column count or out of range node references.
type ShapeError struct {
	Row     int // 0-based element row, -1 when not tied to a row
	Columns int
	Msg     string
}

func (e *ShapeError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("shape error: %s", e.Msg)
	}
	return fmt.Sprintf("shape error in element %d (%d columns): %s", e.Row, e.Columns, e.Msg)
}

// InconsistentDofError reports an element whose shared degree of freedom bookkeeping disagrees with
// the record registered by the first element that introduced it.
type InconsistentDofError struct {
	Kind    string // "vertex", "midpoint" or "edge"
	Index   int    // global vertex or midpoint node index
	Element int    // 0-based element row that disagrees
	Want    []int
	Got     []int
}

func (e *InconsistentDofError) Error() string {
	return fmt.Sprintf("inconsistent %s dofs for node %d in element %d: registered %v, found %v",
		e.Kind, e.Index, e.Element, e.Want, e.Got)
}

// NonManifoldEdgeError reports an element side shared by a number of elements other than one or two.
type NonManifoldEdgeError struct {
	Edge  [2]int
	Count int
}

func (e *NonManifoldEdgeError) Error() string {
	return fmt.Sprintf("edge (%d,%d) is shared by %d elements, must be 1 or 2",
		e.Edge[0], e.Edge[1], e.Count)
}
