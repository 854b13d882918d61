package geometry2D

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

type BoundingBox struct {
	XMin [2]float64 `json:"xmin"`
	XMax [2]float64 `json:"xmax"`
}

// NewBoundingBox returns the extents of the first two coordinates of the node rows, nil when there are none
func NewBoundingBox(nodes mat.Matrix) (Box *BoundingBox) {
	nr, nc := nodes.Dims()
	if nr == 0 || nc < 2 {
		return nil
	}
	Box = new(BoundingBox)
	for i := 0; i < 2; i++ {
		Box.XMin[i], Box.XMax[i] = nodes.At(0, i), nodes.At(0, i)
	}
	for n := 1; n < nr; n++ {
		for i := 0; i < 2; i++ {
			Box.XMin[i] = math.Min(Box.XMin[i], nodes.At(n, i))
			Box.XMax[i] = math.Max(Box.XMax[i], nodes.At(n, i))
		}
	}
	return Box
}

func (bb *BoundingBox) Centroid() (centroid [2]float64) {
	return [2]float64{
		0.5 * (bb.XMax[0] + bb.XMin[0]),
		0.5 * (bb.XMax[1] + bb.XMin[1]),
	}
}

// Scale grows or shrinks the box about its centroid
func (bb *BoundingBox) Scale(scale float64) (bbOut *BoundingBox) {
	bbOut = new(BoundingBox)
	centroid := bb.Centroid()
	for i := 0; i < 2; i++ {
		bbOut.XMin[i] = scale*(bb.XMin[i]-centroid[i]) + centroid[i]
		bbOut.XMax[i] = scale*(bb.XMax[i]-centroid[i]) + centroid[i]
	}
	return bbOut
}

func (bb *BoundingBox) Width() float64  { return bb.XMax[0] - bb.XMin[0] }
func (bb *BoundingBox) Height() float64 { return bb.XMax[1] - bb.XMin[1] }

// SignedArea is the area of triangle a-b-c, positive when the vertices are counter-clockwise
func SignedArea(a, b, c [2]float64) float64 {
	return 0.5 * ((b[0]-a[0])*(c[1]-a[1]) - (c[0]-a[0])*(b[1]-a[1]))
}

/*
InCircle tests point d against the circle through triangle a-b-c, whatever the triangle's handedness.
The result is positive when d lies inside, zero on the circle and negative outside; a triangle whose
circle holds another mesh vertex has an edge that is not Delaunay.
*/
func InCircle(a, b, c, d [2]float64) float64 {
	// Calculate handedness, counter-clockwise is (positive) and clockwise is (negative)
	signBit := math.Signbit(SignedArea(a, b, c))
	ax_ := a[0] - d[0]
	ay_ := a[1] - d[1]
	bx_ := b[0] - d[0]
	by_ := b[1] - d[1]
	cx_ := c[0] - d[0]
	cy_ := c[1] - d[1]
	det := (ax_*ax_+ay_*ay_)*(bx_*cy_-cx_*by_) -
		(bx_*bx_+by_*by_)*(ax_*cy_-cx_*ay_) +
		(cx_*cx_+cy_*cy_)*(ax_*by_-bx_*ay_)
	if signBit {
		return -det
	}
	return det
}
