package detector

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gocv.io/x/gocv"
)

// OpenCV stores 8-bit hue as degrees/2.
const (
	hueScale = 180
	satScale = 255
	valScale = 255
)

// ErrOutsideFrame is returned when a sample point is not inside the frame.
var ErrOutsideFrame = errors.New("point outside frame")

// Tolerance is the half-width of a sampled range on each channel, in OpenCV units.
type Tolerance struct {
	H int `json:"h"`
	S int `json:"s"`
	V int `json:"v"`
}

// DefaultTolerance suits saturated objects under stable light.
func DefaultTolerance() Tolerance {
	return Tolerance{H: 10, S: 60, V: 60}
}

// PixelHSV converts an 8-bit BGR pixel to OpenCV's HSV scale.
func PixelHSV(b, g, r uint8) (h, s, v int) {
	c := colorful.Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
	}
	hh, ss, vv := c.Hsv()
	h = int(math.Round(hh/2)) % hueScale
	s = int(math.Round(ss * satScale))
	v = int(math.Round(vv * valScale))
	return h, s, v
}

// BoundsAround returns a range centered on an HSV value, clamped to the channel scales.
// Hue does not wrap: a red sample near 0 yields a range starting at 0.
func BoundsAround(h, s, v int, tol Tolerance) HSVBounds {
	return HSVBounds{
		HMin: clamp(h-tol.H, 0, hueScale),
		HMax: clamp(h+tol.H, 0, hueScale),
		SMin: clamp(s-tol.S, 0, satScale),
		SMax: clamp(s+tol.S, 0, satScale),
		VMin: clamp(v-tol.V, 0, valScale),
		VMax: clamp(v+tol.V, 0, valScale),
	}
}

// SampleAt reads the BGR pixel at pt and returns bounds around its color.
func SampleAt(frame gocv.Mat, pt image.Point, tol Tolerance) (HSVBounds, error) {
	if frame.Empty() {
		return HSVBounds{}, ErrEmptyFrame
	}
	if frame.Channels() != 3 {
		return HSVBounds{}, fmt.Errorf("expected 3-channel BGR frame, got %d channels", frame.Channels())
	}
	if pt.X < 0 || pt.Y < 0 || pt.X >= frame.Cols() || pt.Y >= frame.Rows() {
		return HSVBounds{}, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutsideFrame, pt.X, pt.Y, frame.Cols(), frame.Rows())
	}

	px := frame.GetVecbAt(pt.Y, pt.X)
	h, s, v := PixelHSV(px[0], px[1], px[2])
	return BoundsAround(h, s, v, tol), nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
