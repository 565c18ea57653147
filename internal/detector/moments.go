package detector

import (
	"image"

	"gocv.io/x/gocv"
)

// Moments are the spatial moments of a region up to first order.
type Moments struct {
	M00 float64
	M10 float64
	M01 float64
}

// Area is the zeroth moment.
func (m Moments) Area() float64 {
	return m.M00
}

// Centroid returns the area-weighted center, truncated to whole pixels.
// ok is false for a zero-area region.
func (m Moments) Centroid() (image.Point, bool) {
	if m.M00 == 0 {
		return image.Point{}, false
	}
	return image.Point{
		X: int(m.M10 / m.M00),
		Y: int(m.M01 / m.M00),
	}, true
}

// ContourMoments returns the moments of a closed contour as OpenCV computes them.
func ContourMoments(contour gocv.PointVector) Moments {
	if contour.Size() < 3 {
		return Moments{}
	}

	mat := gocv.NewMatFromPointVector(contour, true)
	defer mat.Close()

	raw := gocv.Moments(mat, false)
	m := Moments{M00: raw["m00"], M10: raw["m10"], M01: raw["m01"]}
	if m.M00 < 0 {
		m.M00, m.M10, m.M01 = -m.M00, -m.M10, -m.M01
	}
	return m
}
