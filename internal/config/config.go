// Package config loads colortrack settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default capture and detection parameters.
const (
	DefaultFrameWidth  = 640
	DefaultFrameHeight = 480
	DefaultFPS         = 30

	// DefaultMinArea rejects regions smaller than 20x20 px as noise.
	DefaultMinArea = 20 * 20
	// DefaultMaxArea rejects regions covering 2/3 of the frame, which means a bad filter.
	DefaultMaxArea = DefaultFrameWidth * DefaultFrameHeight / 1.5
	// DefaultMaxObjects is the contour count at which the filter is considered too noisy.
	DefaultMaxObjects = 50

	DefaultErodeSize   = 3
	DefaultDilateSize  = 8
	DefaultMorphPasses = 2

	// DefaultFrameDelayMs is the WaitKey delay between frames.
	DefaultFrameDelayMs = 30

	DefaultAddr     = ":8080"
	DefaultFileName = "colortrack.yaml"
)

// Camera configures the capture device.
type Camera struct {
	Device int `yaml:"device"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

// Detection configures region filtering.
type Detection struct {
	MinArea     float64 `yaml:"minArea"`
	MaxArea     float64 `yaml:"maxArea"`
	MaxObjects  int     `yaml:"maxObjects"`
	ErodeSize   int     `yaml:"erodeSize"`
	DilateSize  int     `yaml:"dilateSize"`
	MorphPasses int     `yaml:"morphPasses"`
}

// Display configures the OpenCV windows.
type Display struct {
	Enabled      bool `yaml:"enabled"`
	FrameDelayMs int  `yaml:"frameDelayMs"`
}

// Server configures the HTTP API.
type Server struct {
	Enabled   bool   `yaml:"enabled"`
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"staticDir"`
}

// Store configures the SQLite database.
type Store struct {
	Path string `yaml:"path"`
}

// Config is the complete application configuration.
type Config struct {
	Camera    Camera    `yaml:"camera"`
	Detection Detection `yaml:"detection"`
	Display   Display   `yaml:"display"`
	Server    Server    `yaml:"server"`
	Store     Store     `yaml:"store"`
	Tray      bool      `yaml:"tray"`
	Debug     bool      `yaml:"debug"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Camera: Camera{
			Device: 0,
			Width:  DefaultFrameWidth,
			Height: DefaultFrameHeight,
			FPS:    DefaultFPS,
		},
		Detection: Detection{
			MinArea:     DefaultMinArea,
			MaxArea:     DefaultMaxArea,
			MaxObjects:  DefaultMaxObjects,
			ErodeSize:   DefaultErodeSize,
			DilateSize:  DefaultDilateSize,
			MorphPasses: DefaultMorphPasses,
		},
		Display: Display{
			Enabled:      true,
			FrameDelayMs: DefaultFrameDelayMs,
		},
		Server: Server{
			Enabled: true,
			Addr:    DefaultAddr,
		},
		Store: Store{
			Path: defaultStorePath(),
		},
	}
}

// defaultStorePath places the database under ~/.colortrack, falling back to the working directory.
func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "colortrack.db"
	}
	return filepath.Join(home, ".colortrack", "colortrack.db")
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Camera.Device < 0:
		return fmt.Errorf("camera.device must be >= 0, got %d", c.Camera.Device)
	case c.Camera.Width <= 0 || c.Camera.Height <= 0:
		return fmt.Errorf("camera size must be positive, got %dx%d", c.Camera.Width, c.Camera.Height)
	case c.Detection.MinArea < 0:
		return fmt.Errorf("detection.minArea must be >= 0, got %g", c.Detection.MinArea)
	case c.Detection.MaxArea <= c.Detection.MinArea:
		return fmt.Errorf("detection.maxArea (%g) must exceed minArea (%g)", c.Detection.MaxArea, c.Detection.MinArea)
	case c.Detection.MaxObjects <= 0:
		return fmt.Errorf("detection.maxObjects must be positive, got %d", c.Detection.MaxObjects)
	case c.Detection.ErodeSize <= 0 || c.Detection.DilateSize <= 0:
		return errors.New("detection erode and dilate sizes must be positive")
	case c.Detection.MorphPasses < 0:
		return fmt.Errorf("detection.morphPasses must be >= 0, got %d", c.Detection.MorphPasses)
	case c.Display.FrameDelayMs <= 0:
		return fmt.Errorf("display.frameDelayMs must be positive, got %d", c.Display.FrameDelayMs)
	case c.Server.Enabled && c.Server.Addr == "":
		return errors.New("server.addr is required when the server is enabled")
	}
	return nil
}
