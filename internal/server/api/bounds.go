package api

import (
	"encoding/json"
	"errors"
	"image"
	"net/http"

	"github.com/ayusman/colortrack/internal/detector"
)

// BoundsHandler serves GET and PUT /api/bounds.
type BoundsHandler struct {
	tracker Tracker
}

// NewBoundsHandler creates a BoundsHandler.
func NewBoundsHandler(t Tracker) *BoundsHandler {
	return &BoundsHandler{tracker: t}
}

func (h *BoundsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.tracker.Bounds())
	case http.MethodPut:
		var b detector.HSVBounds
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := h.tracker.SetBounds(b); err != nil {
			writeBoundsError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, h.tracker.Bounds())
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type sampleRequest struct {
	X         int                 `json:"x"`
	Y         int                 `json:"y"`
	Tolerance *detector.Tolerance `json:"tolerance,omitempty"`
}

// SampleHandler serves POST /api/sample: pick bounds from a pixel of the live frame.
type SampleHandler struct {
	tracker Tracker
}

// NewSampleHandler creates a SampleHandler.
func NewSampleHandler(t Tracker) *SampleHandler {
	return &SampleHandler{tracker: t}
}

func (h *SampleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req sampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	tol := detector.DefaultTolerance()
	if req.Tolerance != nil {
		tol = *req.Tolerance
	}
	if tol.H < 0 || tol.S < 0 || tol.V < 0 {
		writeError(w, http.StatusBadRequest, "Tolerance must not be negative")
		return
	}

	b, err := h.tracker.SampleBounds(image.Pt(req.X, req.Y), tol)
	if err != nil {
		switch {
		case errors.Is(err, detector.ErrOutsideFrame):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, detector.ErrEmptyFrame):
			writeError(w, http.StatusServiceUnavailable, "No frame captured yet")
		default:
			writeBoundsError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func writeBoundsError(w http.ResponseWriter, err error) {
	if errors.Is(err, detector.ErrInvalidBounds) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "Failed to apply bounds")
}
