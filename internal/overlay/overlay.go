// Package overlay draws detection results onto camera frames.
package overlay

import (
	"image"
	"image/color"
	"strconv"

	"gocv.io/x/gocv"

	"github.com/ayusman/colortrack/internal/detector"
)

// Marker geometry in pixels.
const (
	TargetRadius = 20
	ArmLength    = 25
	LabelOffset  = 30
	Thickness    = 2
)

// Status messages drawn at StatusOrigin.
const (
	TrackingText = "Tracking Object"
	NoiseText    = "TOO MUCH NOISE! ADJUST FILTER"
)

// StatusOrigin is the baseline of the status message.
var StatusOrigin = image.Pt(0, 50)

var (
	Green = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	Red   = color.RGBA{R: 255, G: 0, B: 0, A: 0}
)

// Segment is a line from From to To.
type Segment struct {
	From image.Point
	To   image.Point
}

// Crosshair returns the up, down, left and right arms centered on p.
// Arms that would leave the width x height frame stop at its edge.
func Crosshair(p image.Point, width, height int) [4]Segment {
	up := image.Pt(p.X, 0)
	if p.Y-ArmLength > 0 {
		up.Y = p.Y - ArmLength
	}
	down := image.Pt(p.X, height)
	if p.Y+ArmLength < height {
		down.Y = p.Y + ArmLength
	}
	left := image.Pt(0, p.Y)
	if p.X-ArmLength > 0 {
		left.X = p.X - ArmLength
	}
	right := image.Pt(width, p.Y)
	if p.X+ArmLength < width {
		right.X = p.X + ArmLength
	}

	return [4]Segment{{p, up}, {p, down}, {p, left}, {p, right}}
}

// Label formats a position as "x,y".
func Label(p image.Point) string {
	return strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y)
}

// DrawTarget draws the circle, crosshair and coordinate label at p.
func DrawTarget(img *gocv.Mat, p image.Point) {
	gocv.Circle(img, p, TargetRadius, Green, Thickness)
	for _, s := range Crosshair(p, img.Cols(), img.Rows()) {
		gocv.Line(img, s.From, s.To, Green, Thickness)
	}
	gocv.PutText(img, Label(p), image.Pt(p.X, p.Y+LabelOffset), gocv.FontHersheyPlain, 1, Green, Thickness)
}

// Annotate draws the outcome of d on img. StatusNone leaves img untouched.
func Annotate(img *gocv.Mat, d detector.Detection) {
	switch d.Status {
	case detector.StatusTracking:
		gocv.PutText(img, TrackingText, StatusOrigin, gocv.FontHersheyDuplex, 1, Green, Thickness)
		DrawTarget(img, d.Position)
	case detector.StatusNoisy:
		gocv.PutText(img, NoiseText, StatusOrigin, gocv.FontHersheyPlain, 2, Red, Thickness)
	}
}
