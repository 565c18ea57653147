// Package api provides HTTP API handlers for the colortrack tracker.
package api

import (
	"encoding/json"
	"image"
	"net/http"

	"github.com/ayusman/colortrack/internal/detector"
)

// Tracker is the live state the API reads and changes.
type Tracker interface {
	Bounds() detector.HSVBounds
	// SetBounds validates and applies b.
	SetBounds(b detector.HSVBounds) error
	LastDetection() detector.Detection
	IsEnabled() bool
	SetEnabled(enabled bool)
	// SampleBounds derives bounds from the latest raw frame at pt and applies them.
	SampleBounds(pt image.Point, tol detector.Tolerance) (detector.HSVBounds, error)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
