package detector

import (
	"fmt"
	"image"
	"time"
)

// Status is the outcome of one frame.
type Status int

const (
	// StatusNone means no region passed the area limits.
	StatusNone Status = iota
	// StatusTracking means a region was found and Position is valid.
	StatusTracking
	// StatusNoisy means the contour count reached MaxObjects; the filter is too permissive.
	StatusNoisy
)

var statusNames = [...]string{
	StatusNone:     "none",
	StatusTracking: "tracking",
	StatusNoisy:    "noisy",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status name.
func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if name == string(text) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// Detection describes the tracked object in one frame.
type Detection struct {
	Status     Status      `json:"status"`
	Position   image.Point `json:"position"`
	Area       float64     `json:"area"`
	Candidates int         `json:"candidates"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Found reports whether Position holds a location.
func (d Detection) Found() bool {
	return d.Status == StatusTracking
}

// Select applies the decision rule to one frame's contours.
// total is the number of contours found; regions are the top-level ones in hierarchy order.
// A frame with total >= MaxObjects is noisy. Otherwise the largest region with
// MinArea < area < MaxArea is the object.
func Select(total int, regions []Moments, lim Limits) Detection {
	d := Detection{Status: StatusNone, Candidates: total}
	if total == 0 {
		return d
	}
	if total >= lim.MaxObjects {
		d.Status = StatusNoisy
		return d
	}

	refArea := 0.0
	for _, m := range regions {
		area := m.Area()
		if area <= lim.MinArea || area >= lim.MaxArea || area <= refArea {
			continue
		}
		pt, ok := m.Centroid()
		if !ok {
			continue
		}
		refArea = area
		d.Status = StatusTracking
		d.Position = pt
		d.Area = area
	}
	return d
}
