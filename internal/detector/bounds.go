package detector

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// BoundMax is the upper limit of every bound and the trackbar maximum.
const BoundMax = 256

// ErrInvalidBounds is returned when a bound is out of range or min exceeds max.
var ErrInvalidBounds = errors.New("invalid HSV bounds")

// HSVBounds is an inclusive HSV range in OpenCV's 8-bit scale (H 0-180, S and V 0-255).
type HSVBounds struct {
	HMin int `json:"h_min"`
	HMax int `json:"h_max"`
	SMin int `json:"s_min"`
	SMax int `json:"s_max"`
	VMin int `json:"v_min"`
	VMax int `json:"v_max"`
}

// DefaultBounds accepts every pixel.
func DefaultBounds() HSVBounds {
	return HSVBounds{
		HMin: 0, HMax: BoundMax,
		SMin: 0, SMax: BoundMax,
		VMin: 0, VMax: BoundMax,
	}
}

// Validate checks that all bounds lie in [0, BoundMax] and each min is at most its max.
func (b HSVBounds) Validate() error {
	channels := []struct {
		name     string
		min, max int
	}{
		{"h", b.HMin, b.HMax},
		{"s", b.SMin, b.SMax},
		{"v", b.VMin, b.VMax},
	}
	for _, c := range channels {
		if c.min < 0 || c.min > BoundMax || c.max < 0 || c.max > BoundMax {
			return fmt.Errorf("%w: %s range [%d, %d] outside [0, %d]", ErrInvalidBounds, c.name, c.min, c.max, BoundMax)
		}
		if c.min > c.max {
			return fmt.Errorf("%w: %s_min %d exceeds %s_max %d", ErrInvalidBounds, c.name, c.min, c.name, c.max)
		}
	}
	return nil
}

// Lower returns the lower bound as a scalar for InRange.
func (b HSVBounds) Lower() gocv.Scalar {
	return gocv.NewScalar(float64(b.HMin), float64(b.SMin), float64(b.VMin), 0)
}

// Upper returns the upper bound as a scalar for InRange.
func (b HSVBounds) Upper() gocv.Scalar {
	return gocv.NewScalar(float64(b.HMax), float64(b.SMax), float64(b.VMax), 0)
}

// Values returns the bounds in trackbar order: H_MIN, H_MAX, S_MIN, S_MAX, V_MIN, V_MAX.
func (b HSVBounds) Values() [6]int {
	return [6]int{b.HMin, b.HMax, b.SMin, b.SMax, b.VMin, b.VMax}
}

// BoundsFromValues is the inverse of Values.
func BoundsFromValues(v [6]int) HSVBounds {
	return HSVBounds{HMin: v[0], HMax: v[1], SMin: v[2], SMax: v[3], VMin: v[4], VMax: v[5]}
}

// SharedBounds holds the active bounds. Writers are UI and API handlers;
// the frame loop takes one snapshot per frame.
type SharedBounds struct {
	mu      sync.RWMutex
	bounds  HSVBounds
	version uint64
}

// NewSharedBounds creates a holder with the given initial bounds.
func NewSharedBounds(b HSVBounds) *SharedBounds {
	return &SharedBounds{bounds: b}
}

// Get returns the current bounds.
func (s *SharedBounds) Get() HSVBounds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bounds
}

// Snapshot returns the current bounds and their version.
func (s *SharedBounds) Snapshot() (HSVBounds, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bounds, s.version
}

// Set replaces the bounds and returns the version holding b. The version only
// advances when the value changes.
func (s *SharedBounds) Set(b HSVBounds) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b == s.bounds {
		return s.version
	}
	s.bounds = b
	s.version++
	return s.version
}

// Version increments on every change.
func (s *SharedBounds) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
