package detector

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// ErrEmptyFrame is returned when Detect receives no image data.
var ErrEmptyFrame = errors.New("frame is empty")

// ErrDetectorClosed is returned by Detect after Close.
var ErrDetectorClosed = errors.New("detector is closed")

// ColorDetector isolates the pixels inside the active HSV bounds and reports
// the centroid of the largest remaining region.
//
// Pipeline:
// 1. Convert BGR to HSV
// 2. Threshold with InRange against the current bounds
// 3. Erode with a small rectangle to drop speckle, then dilate with a larger one
// 4. Find contours with a two-level hierarchy
// 5. Select the largest top-level region within the area limits
type ColorDetector struct {
	config       Config
	bounds       *SharedBounds
	erodeKernel  gocv.Mat
	dilateKernel gocv.Mat
	mu           sync.Mutex
	closed       bool
}

// NewColorDetector creates a detector that reads its thresholds from bounds on every frame.
func NewColorDetector(config Config, bounds *SharedBounds) *ColorDetector {
	if config.ErodeSize <= 0 {
		config.ErodeSize = DefaultConfig().ErodeSize
	}
	if config.DilateSize <= 0 {
		config.DilateSize = DefaultConfig().DilateSize
	}
	if bounds == nil {
		bounds = NewSharedBounds(DefaultBounds())
	}

	return &ColorDetector{
		config:       config,
		bounds:       bounds,
		erodeKernel:  gocv.GetStructuringElement(gocv.MorphRect, image.Pt(config.ErodeSize, config.ErodeSize)),
		dilateKernel: gocv.GetStructuringElement(gocv.MorphRect, image.Pt(config.DilateSize, config.DilateSize)),
	}
}

// Bounds returns the holder the detector reads from.
func (d *ColorDetector) Bounds() *SharedBounds {
	return d.bounds
}

// Limits returns the area and count limits in use.
func (d *ColorDetector) Limits() Limits {
	return d.config.Limits
}

// Detect implements Detector.
func (d *ColorDetector) Detect(frame *gocv.Mat) (*Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrDetectorClosed
	}
	if frame == nil || frame.Empty() {
		return nil, ErrEmptyFrame
	}
	if frame.Channels() != 3 {
		return nil, fmt.Errorf("expected 3-channel BGR frame, got %d channels", frame.Channels())
	}

	bounds := d.bounds.Get()

	hsv := gocv.NewMat()
	gocv.CvtColor(*frame, &hsv, gocv.ColorBGRToHSV)

	mask := gocv.NewMat()
	gocv.InRangeWithScalar(hsv, bounds.Lower(), bounds.Upper(), &mask)

	d.morph(&mask)

	total, regions := findRegions(mask)
	det := Select(total, regions, d.config.Limits)
	det.Timestamp = time.Now()

	return &Result{Detection: det, HSV: hsv, Mask: mask}, nil
}

// morph erodes then dilates the mask in place.
func (d *ColorDetector) morph(mask *gocv.Mat) {
	for i := 0; i < d.config.MorphPasses; i++ {
		gocv.Erode(*mask, mask, d.erodeKernel)
	}
	for i := 0; i < d.config.MorphPasses; i++ {
		gocv.Dilate(*mask, mask, d.dilateKernel)
	}
}

// findRegions returns the total contour count and the moments of the top-level
// contours, walked through the hierarchy's next-sibling links from contour 0.
func findRegions(mask gocv.Mat) (int, []Moments) {
	hierarchy := gocv.NewMat()
	defer hierarchy.Close()

	contours := gocv.FindContoursWithParams(mask, &hierarchy, gocv.RetrievalCComp, gocv.ChainApproxSimple)
	defer contours.Close()

	total := contours.Size()
	if total == 0 || hierarchy.Empty() {
		return total, nil
	}

	var regions []Moments
	// Each hierarchy entry is [next, previous, first child, parent].
	for i, steps := 0, 0; i >= 0 && i < total && steps < total; steps++ {
		regions = append(regions, ContourMoments(contours.At(i)))
		i = int(hierarchy.GetVeciAt(0, i)[0])
	}
	return total, regions
}

// Close releases the structuring elements.
func (d *ColorDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	d.erodeKernel.Close()
	d.dilateKernel.Close()
	return nil
}
