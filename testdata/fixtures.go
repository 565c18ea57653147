// Package testdata builds synthetic BGR frames for detector and pipeline tests.
package testdata

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Frame dimensions used across tests.
const (
	Width  = 640
	Height = 480
)

// Colors in RGBA; gocv converts them to BGR when drawing.
var (
	Green = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	Red   = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	Blue  = color.RGBA{R: 0, G: 0, B: 255, A: 0}
)

// GreenBounds selects pure green (H=60, S=255, V=255) and nothing else in the fixtures.
var GreenBounds = [6]int{50, 70, 100, 256, 100, 256}

// BlankFrame returns a black 3-channel frame.
func BlankFrame() *gocv.Mat {
	mat := gocv.NewMatWithSize(Height, Width, gocv.MatTypeCV8UC3)
	return &mat
}

// FilledFrame returns a frame of one solid color.
func FilledFrame(c color.RGBA) *gocv.Mat {
	mat := gocv.NewMatWithSize(Height, Width, gocv.MatTypeCV8UC3)
	mat.SetTo(gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0))
	return &mat
}

// DiscFrame returns a black frame with one filled disc.
func DiscFrame(center image.Point, radius int, c color.RGBA) *gocv.Mat {
	mat := BlankFrame()
	gocv.Circle(mat, center, radius, c, -1)
	return mat
}

// RingFrame returns a black frame with a ring of color c around center: a filled
// disc of radius outer with a black hole of radius inner. A positive blob draws a
// disc of that radius inside the hole, offset to the right of center.
func RingFrame(center image.Point, outer, inner, blob int, c color.RGBA) *gocv.Mat {
	mat := DiscFrame(center, outer, c)
	gocv.Circle(mat, center, inner, color.RGBA{}, -1)
	if blob > 0 {
		gocv.Circle(mat, image.Pt(center.X+inner/2, center.Y), blob, c, -1)
	}
	return mat
}

// GridFrame returns a black frame covered by size x size squares every pitch pixels.
// With size 12 and pitch 40 the squares survive the default morphology and stay separate.
func GridFrame(size, pitch int, c color.RGBA) *gocv.Mat {
	mat := BlankFrame()
	for y := pitch / 2; y+size < Height; y += pitch {
		for x := pitch / 2; x+size < Width; x += pitch {
			gocv.Rectangle(mat, image.Rect(x, y, x+size, y+size), c, -1)
		}
	}
	return mat
}

// Close releases every frame in frames.
func Close(frames ...*gocv.Mat) {
	for _, f := range frames {
		if f != nil {
			f.Close()
		}
	}
}
