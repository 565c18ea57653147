package ui

import "github.com/ayusman/colortrack/internal/detector"

// TrackbarSync reconciles trackbar positions with the shared bounds.
//
// Each frame the display reads the six trackbar positions. A position that
// differs from what was last written means the user moved a slider and the
// shared bounds must follow. Otherwise, a newer bounds version means someone
// else (API, preset, sampling) changed them and the sliders must follow.
type TrackbarSync struct {
	bounds  *detector.SharedBounds
	shown   [6]int
	version uint64
}

// NewTrackbarSync starts in agreement with the current bounds.
func NewTrackbarSync(bounds *detector.SharedBounds) *TrackbarSync {
	b, v := bounds.Snapshot()
	return &TrackbarSync{
		bounds:  bounds,
		shown:   b.Values(),
		version: v,
	}
}

// Initial returns the positions to create the trackbars with.
func (s *TrackbarSync) Initial() [6]int {
	return s.shown
}

// Reconcile takes the positions read from the trackbars. It returns the
// positions the trackbars must be moved to and whether any move is needed.
func (s *TrackbarSync) Reconcile(positions [6]int) ([6]int, bool) {
	if positions != s.shown {
		s.shown = positions
		s.version = s.bounds.Set(detector.BoundsFromValues(positions))
		return positions, false
	}

	b, v := s.bounds.Snapshot()
	if v == s.version {
		return positions, false
	}
	s.version = v
	s.shown = b.Values()
	return s.shown, true
}
