package api

import (
	"encoding/json"
	"net/http"
)

type trackingState struct {
	Enabled *bool `json:"enabled"`
}

// TrackingHandler serves GET and PUT /api/tracking.
type TrackingHandler struct {
	tracker Tracker
}

// NewTrackingHandler creates a TrackingHandler.
func NewTrackingHandler(t Tracker) *TrackingHandler {
	return &TrackingHandler{tracker: t}
}

func (h *TrackingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
		var req trackingState
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if req.Enabled == nil {
			writeError(w, http.StatusBadRequest, "enabled is required")
			return
		}
		h.tracker.SetEnabled(*req.Enabled)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	enabled := h.tracker.IsEnabled()
	writeJSON(w, http.StatusOK, trackingState{Enabled: &enabled})
}

// DetectionHandler serves GET /api/detection with the latest detection.
type DetectionHandler struct {
	tracker Tracker
}

// NewDetectionHandler creates a DetectionHandler.
func NewDetectionHandler(t Tracker) *DetectionHandler {
	return &DetectionHandler{tracker: t}
}

func (h *DetectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.tracker.LastDetection())
}
