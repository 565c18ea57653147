package server

import (
	"fmt"
	"net/http"

	"github.com/ayusman/colortrack/internal/stream"
)

// StreamHandler serves one view of the processed frames as MJPEG.
type StreamHandler struct {
	frames *stream.FrameHub
}

// NewStreamHandler creates a new StreamHandler reading from frames.
func NewStreamHandler(frames *stream.FrameHub) *StreamHandler {
	return &StreamHandler{frames: frames}
}

// ServeHTTP streams frames of the view named by ?view= until the client leaves.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	view, err := stream.ParseView(r.URL.Query().Get("view"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	detach := h.frames.Attach(view)
	defer detach()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var seq uint64
	for {
		frame, err := h.frames.Next(r.Context(), view, seq)
		if err != nil {
			return
		}
		seq = frame.Seq

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(frame.Data))
		if _, err := w.Write(frame.Data); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
