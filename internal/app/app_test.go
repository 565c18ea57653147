package app

import (
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/ayusman/colortrack/internal/capture"
	"github.com/ayusman/colortrack/internal/detector"
	"github.com/ayusman/colortrack/internal/store"
)

var greenBounds = detector.HSVBounds{HMin: 50, HMax: 70, SMin: 100, SMax: 256, VMin: 100, VMax: 256}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestApp(t *testing.T, cfg Config) *App {
	t.Helper()
	if cfg.Camera == nil {
		cfg.Camera = capture.NewMockCamera(nil, false)
	}
	if cfg.Detector == nil {
		cfg.Detector = detector.NewMockDetector()
	}
	a := New(cfg)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestApp_SetBounds(t *testing.T) {
	a := newTestApp(t, Config{})

	if a.Bounds() != detector.DefaultBounds() {
		t.Errorf("initial bounds = %+v, want defaults", a.Bounds())
	}

	if err := a.SetBounds(greenBounds); err != nil {
		t.Fatalf("SetBounds() error = %v", err)
	}
	if a.Bounds() != greenBounds {
		t.Errorf("Bounds() = %+v, want %+v", a.Bounds(), greenBounds)
	}

	err := a.SetBounds(detector.HSVBounds{HMin: 80, HMax: 20})
	if !errors.Is(err, detector.ErrInvalidBounds) {
		t.Errorf("SetBounds(invalid) error = %v, want ErrInvalidBounds", err)
	}
	if a.Bounds() != greenBounds {
		t.Error("invalid bounds must not be applied")
	}
}

func TestApp_SharesBoundsWithDetector(t *testing.T) {
	bounds := detector.NewSharedBounds(detector.DefaultBounds())
	a := newTestApp(t, Config{Bounds: bounds})

	a.SetBounds(greenBounds)
	if bounds.Get() != greenBounds {
		t.Error("App.SetBounds should write the shared holder")
	}
	if a.SharedBounds() != bounds {
		t.Error("SharedBounds() should return the configured holder")
	}
}

func TestApp_SetEnabled(t *testing.T) {
	a := newTestApp(t, Config{})

	if !a.IsEnabled() {
		t.Fatal("app should start enabled")
	}

	var calls []bool
	a.OnEnabledChange(func(enabled bool) { calls = append(calls, enabled) })

	a.SetEnabled(false)
	a.SetEnabled(false)
	a.SetEnabled(true)

	if a.IsEnabled() != true {
		t.Error("IsEnabled() = false, want true")
	}
	if len(calls) != 2 || calls[0] != false || calls[1] != true {
		t.Errorf("hook calls = %v, want [false true]", calls)
	}
}

func TestApp_SampleBounds_NoFrame(t *testing.T) {
	a := newTestApp(t, Config{})

	_, err := a.SampleBounds(image.Pt(1, 1), detector.DefaultTolerance())
	if !errors.Is(err, detector.ErrEmptyFrame) {
		t.Errorf("SampleBounds() error = %v, want ErrEmptyFrame", err)
	}
}

func TestApp_SaveRestoreBounds(t *testing.T) {
	s := newTestStore(t)

	first := newTestApp(t, Config{Store: s})
	first.SetBounds(greenBounds)
	if err := first.SaveBounds(); err != nil {
		t.Fatalf("SaveBounds() error = %v", err)
	}

	second := newTestApp(t, Config{Store: s})
	if err := second.RestoreBounds(); err != nil {
		t.Fatalf("RestoreBounds() error = %v", err)
	}
	if second.Bounds() != greenBounds {
		t.Errorf("restored bounds = %+v, want %+v", second.Bounds(), greenBounds)
	}
}

func TestApp_RestoreBounds_NothingSaved(t *testing.T) {
	a := newTestApp(t, Config{Store: newTestStore(t)})
	if err := a.RestoreBounds(); err != nil {
		t.Errorf("RestoreBounds() error = %v, want nil", err)
	}
	if a.Bounds() != detector.DefaultBounds() {
		t.Error("bounds changed without a saved value")
	}

	noStore := newTestApp(t, Config{})
	if err := noStore.RestoreBounds(); err != nil {
		t.Errorf("RestoreBounds() without store error = %v", err)
	}
	if err := noStore.SaveBounds(); err != nil {
		t.Errorf("SaveBounds() without store error = %v", err)
	}
}

func TestApp_RestoreBounds_Invalid(t *testing.T) {
	s := newTestStore(t)
	s.Settings().Set(store.KeyActiveRange, `{"HMin":100,"HMax":10}`)

	a := newTestApp(t, Config{Store: s})
	if err := a.RestoreBounds(); !errors.Is(err, detector.ErrInvalidBounds) {
		t.Errorf("RestoreBounds() error = %v, want ErrInvalidBounds", err)
	}
}

