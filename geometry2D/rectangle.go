package geometry2D

import (
	"fmt"

	"github.com/notargets/apmesh/meshtools"
	"github.com/notargets/apmesh/readfiles"
	"github.com/notargets/apmesh/types"
	"github.com/pradeep-pyro/triangle"
)

// Boundary segments of a generated rectangle
const (
	SideBottom = 1
	SideRight  = 2
	SideTop    = 3
	SideLeft   = 4
)

/*
NewRectangleMesh triangulates an nx by ny lattice of points spanning box. Every triangle is counter-clockwise
and the boundary edges are marked by the side of the box they lie on: 1 bottom, 2 right, 3 top, 4 left.
Nodes carry a zero third coordinate, as planar meshes written by 3D tools do.
*/
func NewRectangleMesh(nx, ny int, box BoundingBox) (rm *readfiles.RawMesh, err error) {
	if nx < 2 || ny < 2 {
		return nil, fmt.Errorf("a rectangle needs at least 2 points per side, have %d x %d", nx, ny)
	}
	if box.Width() <= 0 || box.Height() <= 0 {
		return nil, fmt.Errorf("empty box %v", box)
	}
	var (
		dx  = box.Width() / float64(nx-1)
		dy  = box.Height() / float64(ny-1)
		pts = make([][2]float64, 0, nx*ny)
	)
	rm = &readfiles.RawMesh{}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			x, y := box.XMin[0]+float64(i)*dx, box.XMin[1]+float64(j)*dy
			// lattice ends land on the box exactly
			if i == nx-1 {
				x = box.XMax[0]
			}
			if j == ny-1 {
				y = box.XMax[1]
			}
			pts = append(pts, [2]float64{x, y})
			rm.Nodes = append(rm.Nodes, []float64{x, y, 0})
		}
	}
	tris := triangle.Delaunay(pts)
	if len(tris) == 0 {
		return nil, fmt.Errorf("triangulation of %d points produced no triangles", len(pts))
	}
	rm.Elements = make([][]int, 0, len(tris))
	for _, tri := range tris {
		a, b, c := int(tri[0]), int(tri[1]), int(tri[2])
		area := SignedArea(pts[a], pts[b], pts[c])
		if area == 0 {
			continue
		}
		if area < 0 {
			b, c = c, b
		}
		rm.Elements = append(rm.Elements, []int{a + 1, b + 1, c + 1})
	}
	var boundary [][2]int
	if boundary, err = meshtools.ExtractBoundaryEdges(rm.Elements); err != nil {
		return nil, err
	}
	for _, e := range boundary {
		var side int
		if side, err = boxSide(pts[e[0]-1], pts[e[1]-1], box); err != nil {
			return nil, err
		}
		rm.Edges = append(rm.Edges, types.NewEdge(e[0], e[1], types.NewMarker(side)))
	}
	return
}

// boxSide finds the side of the box holding both ends of an edge
func boxSide(a, b [2]float64, box BoundingBox) (side int, err error) {
	switch {
	case a[1] == box.XMin[1] && b[1] == box.XMin[1]:
		return SideBottom, nil
	case a[0] == box.XMax[0] && b[0] == box.XMax[0]:
		return SideRight, nil
	case a[1] == box.XMax[1] && b[1] == box.XMax[1]:
		return SideTop, nil
	case a[0] == box.XMin[0] && b[0] == box.XMin[0]:
		return SideLeft, nil
	}
	return 0, fmt.Errorf("boundary edge %v-%v is not on the box", a, b)
}
