// Package detector finds the largest region of a tunable HSV color range in a video frame.
package detector

import "gocv.io/x/gocv"

// Detector defines the interface for frame detection implementations.
type Detector interface {
	// Detect runs the pipeline on a BGR frame.
	// The caller must Close the returned Result.
	Detect(frame *gocv.Mat) (*Result, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Limits bounds which regions count as the tracked object.
type Limits struct {
	// MinArea and MaxArea are exclusive bounds on region area in pixels.
	MinArea float64
	MaxArea float64

	// MaxObjects is the contour count at which the frame is reported as noisy.
	MaxObjects int
}

// Config holds configuration options for color detection.
type Config struct {
	Limits Limits

	// ErodeSize and DilateSize are the square structuring element sizes.
	ErodeSize  int
	DilateSize int

	// MorphPasses is how many times each of erode and dilate is applied.
	MorphPasses int
}

// DefaultConfig returns the settings for a 640x480 feed.
func DefaultConfig() Config {
	return Config{
		Limits: Limits{
			MinArea:    20 * 20,
			MaxArea:    640 * 480 / 1.5,
			MaxObjects: 50,
		},
		ErodeSize:   3,
		DilateSize:  8,
		MorphPasses: 2,
	}
}

// Result is the output of one Detect call.
type Result struct {
	Detection Detection

	// HSV is the frame converted to HSV.
	HSV gocv.Mat
	// Mask is the thresholded, morphologically cleaned single-channel image.
	Mask gocv.Mat
}

// Close releases the images held by the result. It is safe to call on nil.
func (r *Result) Close() {
	if r == nil {
		return
	}
	r.HSV.Close()
	r.Mask.Close()
}
