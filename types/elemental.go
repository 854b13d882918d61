package types

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

/*
EdgeKey is an always positive number that stores an edge's vertices as indices in a way that can be compared
An edge between vertices [4] and [1] will always be stored as [1,4], in the ascending order of the index values
*/
type EdgeKey uint64

// MaxNodeIndex is the largest node index an EdgeKey can hold
const MaxNodeIndex = math.MaxUint32

func NewEdgeKey(verts [2]int) (packed EdgeKey) {
	// This packs two index coordinates into two 32 bit unsigned integers to act as a hash and an indirect access method
	for _, vert := range verts {
		if vert < 0 || vert > MaxNodeIndex {
			panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	var i1, i2 int
	if verts[0] <= verts[1] {
		i1, i2 = verts[0], verts[1]
	} else {
		i1, i2 = verts[1], verts[0]
	}
	packed = EdgeKey(i1 + i2<<32)
	return
}

func (ek EdgeKey) GetVertices(rev bool) (verts [2]int) {
	var (
		enTmp EdgeKey
	)
	enTmp = ek >> 32
	verts[1] = int(enTmp)
	verts[0] = int(ek - enTmp*(1<<32))
	if rev {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

// Marker names a boundary segment. Integer segment ids from the mesh formats are kept in decimal form.
type Marker string

// DefaultMarker labels boundary edges derived from connectivity when a mesh carries no markers
const DefaultMarker Marker = "boundary"

func NewMarker(id int) Marker {
	return Marker(strconv.Itoa(id))
}

// SortMarkers orders numeric markers numerically, followed by named markers in lexical order
func SortMarkers(markers []Marker) {
	sort.Slice(markers, func(i, j int) bool {
		ni, errI := strconv.Atoi(string(markers[i]))
		nj, errJ := strconv.Atoi(string(markers[j]))
		switch {
		case errI == nil && errJ == nil:
			return ni < nj
		case errI == nil:
			return true
		case errJ == nil:
			return false
		}
		return markers[i] < markers[j]
	})
}

/*
An Edge stores the edge vertices in their original order, so that the direction can be recovered.
Midpoint is the quadratic midside node, zero when the edge has none.
*/
type Edge struct {
	Verts    [2]int
	Midpoint int
	Marker   Marker
}

func NewEdge(a, b int, marker Marker) Edge {
	return Edge{Verts: [2]int{a, b}, Marker: marker}
}

// Canonical returns the edge with its vertices in ascending order
func (e Edge) Canonical() (c Edge) {
	c = e
	if c.Verts[0] > c.Verts[1] {
		c.Verts[0], c.Verts[1] = c.Verts[1], c.Verts[0]
	}
	return
}

func (e Edge) Key() EdgeKey {
	return NewEdgeKey(e.Verts)
}

// Pair is the unordered vertex pair, smallest first
func (e Edge) Pair() [2]int {
	return e.Canonical().Verts
}

func (e Edge) String() string {
	if e.Midpoint != 0 {
		return fmt.Sprintf("(%d,%d,%d,%s)", e.Verts[0], e.Verts[1], e.Midpoint, e.Marker)
	}
	return fmt.Sprintf("(%d,%d,%s)", e.Verts[0], e.Verts[1], e.Marker)
}
