package plotting

import (
	"image/color"
	"time"

	"github.com/notargets/apmesh/geometry2D"
	"github.com/notargets/apmesh/mesh"
	"github.com/notargets/apmesh/types"

	"github.com/notargets/avs/chart2d"
	"github.com/notargets/avs/geometry"
	avsUtils "github.com/notargets/avs/utils"
)

// Segment colors cycle through this list in marker order
var segmentColors = []color.RGBA{avsUtils.RED, avsUtils.GREEN, avsUtils.BLUE}

// ToTriMesh converts the corner triangulation of a mesh into the zero based form the chart draws
func ToTriMesh(m *mesh.Mesh) (tMesh geometry.TriMesh) {
	var (
		K = m.NumElements()
		N = m.NumNodes()
	)
	tMesh = geometry.TriMesh{
		XY:       make([]float32, 2*N),
		TriVerts: make([][3]int64, K),
	}
	for i := 0; i < N; i++ {
		tMesh.XY[2*i] = float32(m.Nodes.At(i, 0))
		tMesh.XY[2*i+1] = float32(m.Nodes.At(i, 1))
	}
	for k, row := range m.Elements {
		for n := 0; n < 3; n++ {
			tMesh.TriVerts[k][n] = int64(row[n] - 1)
		}
	}
	return
}

// BoundaryLines returns line segments x1,y1,x2,y2 for every collected edge, per boundary segment
func BoundaryLines(m *mesh.Mesh) (lines map[types.Marker][]float32) {
	lines = make(map[types.Marker][]float32)
	for _, marker := range m.Markers() {
		for _, e := range m.EdgeCollections[marker] {
			a, b := m.Node(e.Verts[0]), m.Node(e.Verts[1])
			lines[marker] = append(lines[marker],
				float32(a[0]), float32(a[1]),
				float32(b[0]), float32(b[1]),
			)
		}
	}
	return
}

// CrossHairs marks every point of a flat x,y list with a small cross
func CrossHairs(xy []float32, size float32) (line []float32) {
	lenXY := len(xy) / 2
	for i := 0; i < lenXY; i++ {
		line = append(line,
			xy[2*i]-size, xy[2*i+1],
			xy[2*i]+size, xy[2*i+1],
			xy[2*i], xy[2*i+1]-size,
			xy[2*i], xy[2*i+1]+size,
		)
	}
	return
}

// squareBox grows the shorter side of the box so the chart keeps the aspect ratio of the mesh
func squareBox(bb *geometry2D.BoundingBox) (xMin, xMax, yMin, yMax float32) {
	var (
		c     = bb.Centroid()
		halfW = 0.5 * max(bb.Width(), bb.Height())
	)
	return float32(c[0] - halfW), float32(c[0] + halfW),
		float32(c[1] - halfW), float32(c[1] + halfW)
}

/*
PlotMesh opens a chart window showing the corner triangulation of the mesh, with the boundary segments drawn
in color. When plotPoints is set every node, including midpoints and stacked nodes, is marked with a cross.
The chart stays up for waitTime.
*/
func PlotMesh(m *mesh.Mesh, plotPoints bool, waitTime time.Duration) {
	var (
		tMesh = ToTriMesh(m)
		box   = geometry2D.NewBoundingBox(m.Nodes).Scale(1.2)
	)
	xMin, xMax, yMin, yMax := squareBox(box)
	cc := chart2d.NewChart2D(xMin, xMax, yMin, yMax, 1024, 1024,
		avsUtils.WHITE, avsUtils.BLACK, 0.9)
	cc.AddTriMesh(tMesh)
	lines := BoundaryLines(m)
	for i, marker := range m.Markers() {
		cc.AddLine(lines[marker], segmentColors[i%len(segmentColors)])
	}
	if plotPoints {
		size := 0.005 * float32(xMax-xMin)
		cc.AddLine(CrossHairs(tMesh.XY, size), avsUtils.BLACK)
	}
	time.Sleep(waitTime)
}
