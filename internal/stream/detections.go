package stream

import (
	"sync"

	"github.com/ayusman/colortrack/internal/detector"
)

// DetectionFeed fans detections out to subscribers. Slow subscribers miss
// detections instead of blocking the frame loop.
type DetectionFeed struct {
	mu   sync.RWMutex
	subs map[chan detector.Detection]struct{}
	last detector.Detection
}

// NewDetectionFeed creates a feed with no subscribers.
func NewDetectionFeed() *DetectionFeed {
	return &DetectionFeed{
		subs: make(map[chan detector.Detection]struct{}),
	}
}

// Subscribe returns a channel of detections and a function that unsubscribes and closes it.
func (f *DetectionFeed) Subscribe(buffer int) (<-chan detector.Detection, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan detector.Detection, buffer)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, ch)
			f.mu.Unlock()
			close(ch)
		})
	}
}

// Publish records d as the latest detection and offers it to every subscriber.
func (f *DetectionFeed) Publish(d detector.Detection) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.last = d
	for ch := range f.subs {
		select {
		case ch <- d:
		default:
		}
	}
}

// Last returns the most recent detection.
func (f *DetectionFeed) Last() detector.Detection {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.last
}

// Subscribers returns the number of active subscriptions.
func (f *DetectionFeed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}
