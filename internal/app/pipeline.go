package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/colortrack/internal/capture"
	"github.com/ayusman/colortrack/internal/logger"
	"github.com/ayusman/colortrack/internal/overlay"
	"github.com/ayusman/colortrack/internal/stream"
)

// readErrorLogEvery limits logging of consecutive capture failures.
const readErrorLogEvery = 100

// Run is the frame loop. It opens the camera if needed and processes frames until
// ctx is cancelled or the display reports ESC.
//
// Per iteration:
// 1. Read a frame and keep a copy for color sampling
// 2. Exchange trackbar positions with the shared bounds
// 3. Detect (skipped while disabled) and annotate the frame
// 4. Publish the detection and the feed, HSV and threshold images
// 5. Show the images and wait one frame delay
//
// Changed bounds are saved at most once per SaveInterval and again on exit.
func (a *App) Run(ctx context.Context) error {
	if !a.camera.IsOpen() {
		if err := a.camera.Open(); err != nil {
			return fmt.Errorf("open camera: %w", err)
		}
		defer a.camera.Close()
	}

	// Version 0 is the unsaved default; a restored value is already persisted.
	var saved uint64
	before := a.bounds.Version()
	if err := a.RestoreBounds(); err != nil {
		logger.Log().Warn("could not restore bounds", zap.Error(err))
	}
	if v := a.bounds.Version(); v != before {
		saved = v
	}

	var tick <-chan time.Time
	if a.config.Display == nil {
		ticker := time.NewTicker(a.config.FrameDelay)
		defer ticker.Stop()
		tick = ticker.C
	}

	seen := a.bounds.Version()
	lastSave := time.Now()
	defer func() {
		if a.bounds.Version() != saved {
			if err := a.SaveBounds(); err != nil {
				logger.Log().Warn("could not save bounds", zap.Error(err))
			}
		}
	}()

	logger.Log().Info("frame loop started", zap.Bool("display", a.config.Display != nil))
	failures := 0
	for {
		if ctx.Err() != nil {
			logger.Log().Info("frame loop stopped")
			return nil
		}

		if err := a.processNext(); err != nil {
			if errors.Is(err, capture.ErrCameraNotOpen) {
				return err
			}
			if failures%readErrorLogEvery == 0 {
				logger.Log().Warn("frame skipped", zap.Error(err), zap.Int("consecutive", failures+1))
			}
			failures++
		} else {
			failures = 0
		}

		if v := a.bounds.Version(); v != seen {
			seen = v
			if a.config.Metrics != nil {
				a.config.Metrics.BoundsChanged()
			}
		}
		if seen != saved && time.Since(lastSave) >= a.config.SaveInterval {
			if err := a.SaveBounds(); err != nil {
				logger.Log().Warn("could not save bounds", zap.Error(err))
			}
			saved = seen
			lastSave = time.Now()
		}

		if d := a.config.Display; d != nil {
			if d.WaitKey() {
				logger.Log().Info("quit requested from display")
				return nil
			}
			continue
		}
		select {
		case <-ctx.Done():
		case <-tick:
		}
	}
}

// processNext runs one iteration of the loop on the next camera frame.
func (a *App) processNext() error {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		a.frameError()
		return err
	}
	defer frame.Close()

	a.frameMu.Lock()
	frame.CopyTo(&a.lastFrame)
	a.frameMu.Unlock()

	if a.config.Display != nil {
		a.config.Display.SyncTrackbars()
	}

	if !a.IsEnabled() {
		empty := gocv.NewMat()
		defer empty.Close()
		a.output(*frame, empty, empty)
		return nil
	}

	start := time.Now()
	res, err := a.detector.Detect(frame)
	if err != nil {
		a.frameError()
		return fmt.Errorf("detect: %w", err)
	}
	defer res.Close()

	overlay.Annotate(frame, res.Detection)
	if a.config.Metrics != nil {
		a.config.Metrics.ObserveDetection(res.Detection, time.Since(start))
	}

	a.detections.Publish(res.Detection)
	a.output(*frame, res.HSV, res.Mask)
	return nil
}

// output sends the images to network viewers and the display.
func (a *App) output(feed, hsv, threshold gocv.Mat) {
	images := map[stream.View]gocv.Mat{
		stream.ViewFeed:      feed,
		stream.ViewHSV:       hsv,
		stream.ViewThreshold: threshold,
	}
	for view, img := range images {
		if err := a.frames.PublishMat(view, img); err != nil {
			logger.Log().Debug("publish frame failed", zap.String("view", string(view)), zap.Error(err))
		}
	}

	if a.config.Display != nil {
		a.config.Display.Show(feed, hsv, threshold)
	}
}

func (a *App) frameError() {
	if a.config.Metrics != nil {
		a.config.Metrics.FrameError()
	}
}
