// Package stream shares the latest processed frames and detections with network viewers.
package stream

import (
	"context"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// View names one of the published images.
type View string

const (
	// ViewFeed is the annotated camera frame.
	ViewFeed View = "feed"
	// ViewHSV is the frame converted to HSV.
	ViewHSV View = "hsv"
	// ViewThreshold is the cleaned binary mask.
	ViewThreshold View = "threshold"
)

// Views lists every published view.
var Views = []View{ViewFeed, ViewHSV, ViewThreshold}

// ParseView maps a query value to a View. An empty string selects ViewFeed.
func ParseView(s string) (View, error) {
	if s == "" {
		return ViewFeed, nil
	}
	for _, v := range Views {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// Frame is one encoded JPEG with its publish sequence number.
type Frame struct {
	Data []byte
	Seq  uint64
}

// FrameHub keeps the most recent JPEG per view. Frames are only encoded while
// at least one viewer is attached to that view.
type FrameHub struct {
	mu      sync.Mutex
	frames  map[View]Frame
	viewers map[View]int
	seq     uint64
	notify  chan struct{}
}

// NewFrameHub creates an empty hub.
func NewFrameHub() *FrameHub {
	return &FrameHub{
		frames:  make(map[View]Frame),
		viewers: make(map[View]int),
		notify:  make(chan struct{}),
	}
}

// Attach registers a viewer of v. Call the returned function when done.
func (h *FrameHub) Attach(v View) (detach func()) {
	h.mu.Lock()
	h.viewers[v]++
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			h.viewers[v]--
			if h.viewers[v] <= 0 {
				delete(h.viewers, v)
			}
			h.mu.Unlock()
		})
	}
}

// Wanted reports whether anyone is watching v.
func (h *FrameHub) Wanted(v View) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.viewers[v] > 0
}

// Publish stores data as the latest frame of v and wakes waiting viewers.
func (h *FrameHub) Publish(v View, data []byte) {
	h.mu.Lock()
	h.seq++
	h.frames[v] = Frame{Data: data, Seq: h.seq}
	close(h.notify)
	h.notify = make(chan struct{})
	h.mu.Unlock()
}

// PublishMat JPEG-encodes img into v if v has viewers.
func (h *FrameHub) PublishMat(v View, img gocv.Mat) error {
	if !h.Wanted(v) || img.Empty() {
		return nil
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		return fmt.Errorf("encode %s frame: %w", v, err)
	}
	data := append([]byte(nil), buf.GetBytes()...)
	buf.Close()

	h.Publish(v, data)
	return nil
}

// Latest returns the newest frame of v.
func (h *FrameHub) Latest(v View) (Frame, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	f, ok := h.frames[v]
	return f, ok
}

// Next blocks until v has a frame newer than after, or ctx is done.
func (h *FrameHub) Next(ctx context.Context, v View, after uint64) (Frame, error) {
	for {
		h.mu.Lock()
		f, ok := h.frames[v]
		wait := h.notify
		h.mu.Unlock()

		if ok && f.Seq > after {
			return f, nil
		}

		select {
		case <-ctx.Done():
			return Frame{}, ctx.Err()
		case <-wait:
		}
	}
}
