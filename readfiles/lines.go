package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/notargets/apmesh/types"
)

// Section counts come from the file, so preallocation is capped and rows are appended as they arrive
const maxPrealloc = 1 << 16

func capacity(count int) int { return max(0, min(count, maxPrealloc)) }

// lineReader walks a text mesh file line by line, remembering the position for error reports
type lineReader struct {
	scanner *bufio.Scanner
	file    string
	line    int
	comment string // lines are cut at the first occurrence, empty disables
}

func newLineReader(r io.Reader, file, comment string) *lineReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &lineReader{
		scanner: scanner,
		file:    file,
		comment: comment,
	}
}

// next returns the next line holding content, trimmed and stripped of comments
func (lr *lineReader) next() (line string, ok bool) {
	for lr.scanner.Scan() {
		lr.line++
		line = lr.scanner.Text()
		if lr.comment != "" {
			if ind := strings.Index(line, lr.comment); ind >= 0 {
				line = line[:ind]
			}
		}
		line = strings.TrimSpace(line)
		if line != "" {
			return line, true
		}
	}
	return "", false
}

// mustNext is next, failing at EOF with a message naming what was expected
func (lr *lineReader) mustNext(what string) (line string, err error) {
	var ok bool
	if line, ok = lr.next(); !ok {
		if err = lr.scanner.Err(); err != nil {
			return "", lr.wrap("read failure", err)
		}
		return "", lr.errorf("unexpected end of file reading %s", what)
	}
	return
}

// err reports a scanner failure, nil at a clean EOF
func (lr *lineReader) err() error {
	if err := lr.scanner.Err(); err != nil {
		return lr.wrap("read failure", err)
	}
	return nil
}

func (lr *lineReader) errorf(format string, args ...any) error {
	return &types.ParseError{File: lr.file, Line: lr.line, Msg: fmt.Sprintf(format, args...)}
}

func (lr *lineReader) wrap(msg string, err error) error {
	return &types.ParseError{File: lr.file, Line: lr.line, Msg: msg, Err: err}
}

// ints parses every field as a base 10 integer
func (lr *lineReader) ints(fields []string) (vals []int, err error) {
	vals = make([]int, len(fields))
	for i, f := range fields {
		if vals[i], err = strconv.Atoi(f); err != nil {
			return nil, lr.wrap(fmt.Sprintf("invalid integer %q", f), err)
		}
	}
	return
}

// floats parses every field as a float64, accepting Fortran style D exponents
func (lr *lineReader) floats(fields []string) (vals []float64, err error) {
	vals = make([]float64, len(fields))
	for i, f := range fields {
		f = strings.NewReplacer("D", "E", "d", "e").Replace(f)
		if vals[i], err = strconv.ParseFloat(f, 64); err != nil {
			return nil, lr.wrap(fmt.Sprintf("invalid number %q", fields[i]), err)
		}
	}
	return
}

// count parses a single non-negative integer section size
func (lr *lineReader) count(field, what string) (n int, err error) {
	if n, err = strconv.Atoi(strings.TrimSpace(field)); err != nil {
		return 0, lr.wrap(fmt.Sprintf("invalid %s count %q", what, field), err)
	}
	if n < 0 {
		return 0, lr.errorf("negative %s count %d", what, n)
	}
	return
}

// skipTo consumes lines until one equals marker
func (lr *lineReader) skipTo(marker string) error {
	for {
		line, ok := lr.next()
		if !ok {
			if err := lr.err(); err != nil {
				return err
			}
			return lr.errorf("missing %s", marker)
		}
		if line == marker {
			return nil
		}
	}
}
