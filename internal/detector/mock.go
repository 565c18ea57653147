package detector

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu        sync.Mutex
	detection Detection
	err       error
	calls     int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetDetection sets the detection returned by Detect.
func (m *MockDetector) SetDetection(d Detection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detection = d
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect ran.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured detection with copies of the frame as HSV
// and an empty mask of matching size.
func (m *MockDetector) Detect(frame *gocv.Mat) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}

	d := m.detection
	if d.Timestamp.IsZero() {
		d.Timestamp = time.Now()
	}

	res := &Result{Detection: d}
	if frame != nil && !frame.Empty() {
		res.HSV = frame.Clone()
		res.Mask = gocv.NewMatWithSize(frame.Rows(), frame.Cols(), gocv.MatTypeCV8U)
	} else {
		res.HSV = gocv.NewMat()
		res.Mask = gocv.NewMat()
	}
	return res, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// TrackingAt returns a tracking detection at (x, y).
func TrackingAt(x, y int, area float64) Detection {
	return Detection{
		Status:     StatusTracking,
		Position:   image.Pt(x, y),
		Area:       area,
		Candidates: 1,
	}
}
