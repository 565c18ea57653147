package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/colortrack/internal/detector"
	"github.com/ayusman/colortrack/internal/store"
)

// PresetHandler handles HTTP requests for preset resources.
type PresetHandler struct {
	store   *store.Store
	tracker Tracker
}

// NewPresetHandler creates a PresetHandler. tracker supplies the current
// bounds for presets created without explicit bounds and receives applied presets.
func NewPresetHandler(s *store.Store, t Tracker) *PresetHandler {
	return &PresetHandler{store: s, tracker: t}
}

// ServeHTTP routes /api/presets, /api/presets/{id} and /api/presets/{id}/apply.
func (h *PresetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/presets")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id, action, _ := strings.Cut(path, "/")
	switch action {
	case "":
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, id)
		case http.MethodDelete:
			h.delete(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case "apply":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.apply(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

type createPresetRequest struct {
	Name   string              `json:"name"`
	Bounds *detector.HSVBounds `json:"bounds,omitempty"`
}

type presetResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Bounds    detector.HSVBounds `json:"bounds"`
	CreatedAt string             `json:"created_at"`
}

type listPresetsResponse struct {
	Presets []presetResponse `json:"presets"`
}

func toResponse(p *store.Preset) presetResponse {
	return presetResponse{
		ID:        p.ID,
		Name:      p.Name,
		Bounds:    detector.BoundsFromValues(p.Range.Values()),
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// list handles GET /api/presets.
func (h *PresetHandler) list(w http.ResponseWriter, r *http.Request) {
	presets, err := h.store.Presets().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list presets")
		return
	}

	response := listPresetsResponse{
		Presets: make([]presetResponse, 0, len(presets)),
	}
	for _, p := range presets {
		response.Presets = append(response.Presets, toResponse(p))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/presets/{id}.
func (h *PresetHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	p, ok := h.lookup(w, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toResponse(p))
}

// create handles POST /api/presets. Without bounds the tracker's current bounds are saved.
func (h *PresetHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createPresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	var bounds detector.HSVBounds
	switch {
	case req.Bounds != nil:
		bounds = *req.Bounds
	case h.tracker != nil:
		bounds = h.tracker.Bounds()
	default:
		writeError(w, http.StatusBadRequest, "Bounds are required")
		return
	}
	if err := bounds.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := &store.Preset{
		ID:    uuid.New().String(),
		Name:  req.Name,
		Range: store.RangeFromValues(bounds.Values()),
	}

	if err := h.store.Presets().Create(p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "Preset name already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create preset")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(p))
}

// delete handles DELETE /api/presets/{id}.
func (h *PresetHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Presets().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Preset not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete preset")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// apply handles POST /api/presets/{id}/apply and makes the preset the active filter.
func (h *PresetHandler) apply(w http.ResponseWriter, r *http.Request, id string) {
	if h.tracker == nil {
		writeError(w, http.StatusServiceUnavailable, "Tracker not running")
		return
	}

	p, ok := h.lookup(w, id)
	if !ok {
		return
	}

	if err := h.tracker.SetBounds(detector.BoundsFromValues(p.Range.Values())); err != nil {
		writeBoundsError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.tracker.Bounds())
}

func (h *PresetHandler) lookup(w http.ResponseWriter, id string) (*store.Preset, bool) {
	p, err := h.store.Presets().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Preset not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "Failed to get preset")
		return nil, false
	}
	return p, true
}
