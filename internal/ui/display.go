// Package ui shows the tracking windows and the HSV trackbars.
package ui

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/colortrack/internal/detector"
)

// Window titles.
const (
	FeedWindow      = "Camera feed"
	HSVWindow       = "HSV"
	ThresholdWindow = "Threshold"
	TrackbarWindow  = "Trackbars"
)

// KeyEsc is returned by WaitKey when ESC is pressed.
const KeyEsc = 27

// TrackbarNames lists the sliders in HSVBounds.Values order.
var TrackbarNames = [6]string{"H_MIN", "H_MAX", "S_MIN", "S_MAX", "V_MIN", "V_MAX"}

// Display owns the OpenCV windows. All methods must be called from the
// goroutine that created it.
type Display struct {
	feed      *gocv.Window
	hsv       *gocv.Window
	threshold *gocv.Window
	controls  *gocv.Window
	bars      [6]*gocv.Trackbar
	sync      *TrackbarSync
	delay     int
}

// NewDisplay opens the windows and creates trackbars positioned at the
// current bounds. delayMs is the WaitKey pause per frame.
func NewDisplay(bounds *detector.SharedBounds, delayMs int) *Display {
	if delayMs < 1 {
		delayMs = 1
	}
	d := &Display{
		feed:      gocv.NewWindow(FeedWindow),
		hsv:       gocv.NewWindow(HSVWindow),
		threshold: gocv.NewWindow(ThresholdWindow),
		controls:  gocv.NewWindow(TrackbarWindow),
		sync:      NewTrackbarSync(bounds),
		delay:     delayMs,
	}

	initial := d.sync.Initial()
	for i, name := range TrackbarNames {
		d.bars[i] = d.controls.CreateTrackbar(name, detector.BoundMax)
		d.bars[i].SetPos(initial[i])
	}
	return d
}

// SyncTrackbars pushes slider moves into the shared bounds and moves the
// sliders when the bounds were changed elsewhere.
func (d *Display) SyncTrackbars() {
	var pos [6]int
	for i, bar := range d.bars {
		pos[i] = bar.GetPos()
	}
	target, move := d.sync.Reconcile(pos)
	if !move {
		return
	}
	for i, bar := range d.bars {
		bar.SetPos(target[i])
	}
}

// Show draws the three images. Empty images are skipped.
func (d *Display) Show(feed, hsv, threshold gocv.Mat) {
	if !feed.Empty() {
		d.feed.IMShow(feed)
	}
	if !hsv.Empty() {
		d.hsv.IMShow(hsv)
	}
	if !threshold.Empty() {
		d.threshold.IMShow(threshold)
	}
}

// WaitKey pauses for the configured delay and reports whether ESC was pressed.
func (d *Display) WaitKey() (quit bool) {
	return d.feed.WaitKey(d.delay) == KeyEsc
}

// Close destroys all windows.
func (d *Display) Close() error {
	for _, w := range []*gocv.Window{d.feed, d.hsv, d.threshold, d.controls} {
		if err := w.Close(); err != nil {
			return err
		}
	}
	return nil
}
