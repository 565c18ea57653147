// Package app runs the colortrack frame loop and exposes its live state.
package app

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/colortrack/internal/capture"
	"github.com/ayusman/colortrack/internal/detector"
	"github.com/ayusman/colortrack/internal/logger"
	"github.com/ayusman/colortrack/internal/metrics"
	"github.com/ayusman/colortrack/internal/store"
	"github.com/ayusman/colortrack/internal/stream"
)

// Loop timing defaults.
const (
	// DefaultFrameDelay paces the loop when no display provides WaitKey.
	DefaultFrameDelay = 30 * time.Millisecond
	// DefaultSaveInterval is the minimum time between persisting changed bounds.
	DefaultSaveInterval = time.Second
)

// Display is the on-screen output of the loop. It is driven from the loop goroutine only.
type Display interface {
	// SyncTrackbars exchanges slider positions with the shared bounds.
	SyncTrackbars()
	Show(feed, hsv, threshold gocv.Mat)
	// WaitKey pauses for one frame and reports whether the user asked to quit.
	WaitKey() bool
	Close() error
}

// Config holds the collaborators of the App. Only Camera is required.
type Config struct {
	Camera capture.Camera

	// Detector defaults to a ColorDetector built from Detection and Bounds.
	Detector  detector.Detector
	Detection detector.Config
	Bounds    *detector.SharedBounds

	Store      *store.Store
	Frames     *stream.FrameHub
	Detections *stream.DetectionFeed
	Metrics    *metrics.Metrics
	Display    Display

	FrameDelay   time.Duration
	SaveInterval time.Duration
}

// App is the tracker: it owns the frame loop and the state the API reads.
type App struct {
	config     Config
	camera     capture.Camera
	detector   detector.Detector
	ownsDet    bool
	bounds     *detector.SharedBounds
	frames     *stream.FrameHub
	detections *stream.DetectionFeed

	mu        sync.RWMutex
	enabled   bool
	onEnabled func(bool)

	frameMu   sync.Mutex
	lastFrame gocv.Mat
}

// New creates an App. Missing optional collaborators are created with defaults.
func New(config Config) *App {
	if config.FrameDelay <= 0 {
		config.FrameDelay = DefaultFrameDelay
	}
	if config.SaveInterval <= 0 {
		config.SaveInterval = DefaultSaveInterval
	}
	if config.Detection == (detector.Config{}) {
		config.Detection = detector.DefaultConfig()
	}
	if config.Bounds == nil {
		config.Bounds = detector.NewSharedBounds(detector.DefaultBounds())
	}
	if config.Frames == nil {
		config.Frames = stream.NewFrameHub()
	}
	if config.Detections == nil {
		config.Detections = stream.NewDetectionFeed()
	}

	a := &App{
		config:     config,
		camera:     config.Camera,
		detector:   config.Detector,
		bounds:     config.Bounds,
		frames:     config.Frames,
		detections: config.Detections,
		enabled:    true,
		lastFrame:  gocv.NewMat(),
	}

	if a.detector == nil {
		a.detector = detector.NewColorDetector(config.Detection, config.Bounds)
		a.ownsDet = true
	}
	return a
}

// Close releases the detector if the App created it and the cached frame.
func (a *App) Close() error {
	a.frameMu.Lock()
	a.lastFrame.Close()
	a.frameMu.Unlock()

	if a.ownsDet {
		return a.detector.Close()
	}
	return nil
}

// SharedBounds returns the bounds holder used by the detector.
func (a *App) SharedBounds() *detector.SharedBounds {
	return a.bounds
}

// Frames returns the hub the loop publishes images to.
func (a *App) Frames() *stream.FrameHub {
	return a.frames
}

// Detections returns the feed the loop publishes detections to.
func (a *App) Detections() *stream.DetectionFeed {
	return a.detections
}

// Bounds returns the active HSV bounds.
func (a *App) Bounds() detector.HSVBounds {
	return a.bounds.Get()
}

// SetBounds validates b and makes it the active filter from the next frame on.
func (a *App) SetBounds(b detector.HSVBounds) error {
	if err := b.Validate(); err != nil {
		return err
	}
	a.bounds.Set(b)
	return nil
}

// LastDetection returns the detection of the most recently processed frame.
func (a *App) LastDetection() detector.Detection {
	return a.detections.Last()
}

// SetEnabled pauses or resumes detection. The camera keeps running while paused.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	changed := a.enabled != enabled
	a.enabled = enabled
	hook := a.onEnabled
	a.mu.Unlock()

	if changed {
		logger.Log().Info("tracking toggled", zap.Bool("enabled", enabled))
		if hook != nil {
			hook(enabled)
		}
	}
}

// IsEnabled returns whether detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// OnEnabledChange registers fn to be called after the enabled state changes.
func (a *App) OnEnabledChange(fn func(enabled bool)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onEnabled = fn
}

// SampleBounds derives bounds from the last captured frame at pt and applies them.
func (a *App) SampleBounds(pt image.Point, tol detector.Tolerance) (detector.HSVBounds, error) {
	a.frameMu.Lock()
	b, err := detector.SampleAt(a.lastFrame, pt, tol)
	a.frameMu.Unlock()
	if err != nil {
		return detector.HSVBounds{}, err
	}

	if err := a.SetBounds(b); err != nil {
		return detector.HSVBounds{}, err
	}
	v := b.Values()
	logger.Log().Info("bounds sampled",
		zap.Int("x", pt.X), zap.Int("y", pt.Y),
		zap.Ints("bounds", v[:]))
	return b, nil
}

// RestoreBounds loads the bounds saved by a previous run. A missing store or
// missing setting leaves the current bounds in place.
func (a *App) RestoreBounds() error {
	if a.config.Store == nil {
		return nil
	}

	rng, err := a.config.Store.Settings().ActiveRange()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load saved bounds: %w", err)
	}

	b := detector.BoundsFromValues(rng.Values())
	if err := a.SetBounds(b); err != nil {
		return fmt.Errorf("saved bounds: %w", err)
	}
	v := b.Values()
	logger.Log().Info("restored bounds", zap.Ints("bounds", v[:]))
	return nil
}

// SaveBounds persists the active bounds.
func (a *App) SaveBounds() error {
	if a.config.Store == nil {
		return nil
	}
	return a.config.Store.Settings().SetActiveRange(store.RangeFromValues(a.bounds.Get().Values()))
}
