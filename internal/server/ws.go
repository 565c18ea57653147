package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ayusman/colortrack/internal/logger"
	"github.com/ayusman/colortrack/internal/stream"
)

const (
	writeWait      = 2 * time.Second
	detectionQueue = 8
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// DetectionsHandler pushes every detection to WebSocket clients as JSON.
type DetectionsHandler struct {
	feed *stream.DetectionFeed
}

// NewDetectionsHandler creates a handler subscribed to feed per connection.
func NewDetectionsHandler(feed *stream.DetectionFeed) *DetectionsHandler {
	return &DetectionsHandler{feed: feed}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *DetectionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log().Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	detections, unsubscribe := h.feed.Subscribe(detectionQueue)
	defer unsubscribe()

	// The client never sends anything we use; reading detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case d, ok := <-detections:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(d); err != nil {
				logger.Log().Debug("websocket write failed", zap.Error(err))
				return
			}
		}
	}
}
