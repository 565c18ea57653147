package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/colortrack/internal/app"
	"github.com/ayusman/colortrack/internal/capture"
	"github.com/ayusman/colortrack/internal/config"
	"github.com/ayusman/colortrack/internal/detector"
	"github.com/ayusman/colortrack/internal/logger"
	"github.com/ayusman/colortrack/internal/metrics"
	"github.com/ayusman/colortrack/internal/server"
	"github.com/ayusman/colortrack/internal/store"
	"github.com/ayusman/colortrack/internal/tray"
	"github.com/ayusman/colortrack/internal/ui"
)

func main() {
	configPath := flag.String("config", config.DefaultFileName, "path to the YAML configuration file")
	cameraID := flag.Int("camera", -1, "camera device index (overrides config)")
	headless := flag.Bool("headless", false, "run without OpenCV windows")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	dev := flag.Bool("dev", false, "human-readable debug logging")
	withTray := flag.Bool("tray", false, "show a system tray menu (implies -headless)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "colortrack: %v\n", err)
		os.Exit(1)
	}
	if *cameraID >= 0 {
		cfg.Camera.Device = *cameraID
	}
	if *withTray {
		cfg.Tray = true
		*headless = true
	}
	if *headless {
		cfg.Display.Enabled = false
	}
	if *addr != "" {
		cfg.Server.Enabled = true
		cfg.Server.Addr = *addr
	}

	if err := logger.Init(*dev || cfg.Debug); err != nil {
		fmt.Fprintf(os.Stderr, "colortrack: init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Log().Error("colortrack stopped with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	logger.Log().Info("store opened", zap.String("path", st.Path()))

	m := metrics.New()
	go m.StartProcessMonitor(ctx)

	bounds := detector.NewSharedBounds(detector.DefaultBounds())
	appCfg := app.Config{
		Camera: capture.NewCameraWithConfig(capture.Config{
			DeviceID: cfg.Camera.Device,
			Width:    cfg.Camera.Width,
			Height:   cfg.Camera.Height,
			FPS:      cfg.Camera.FPS,
		}),
		Detection: detector.Config{
			Limits: detector.Limits{
				MinArea:    cfg.Detection.MinArea,
				MaxArea:    cfg.Detection.MaxArea,
				MaxObjects: cfg.Detection.MaxObjects,
			},
			ErodeSize:   cfg.Detection.ErodeSize,
			DilateSize:  cfg.Detection.DilateSize,
			MorphPasses: cfg.Detection.MorphPasses,
		},
		Bounds:     bounds,
		Store:      st,
		Metrics:    m,
		FrameDelay: time.Duration(cfg.Display.FrameDelayMs) * time.Millisecond,
	}

	if cfg.Display.Enabled {
		display := ui.NewDisplay(bounds, cfg.Display.FrameDelayMs)
		defer display.Close()
		appCfg.Display = display
	}

	a := app.New(appCfg)
	defer a.Close()

	if cfg.Server.Enabled {
		staticDir := cfg.Server.StaticDir
		if staticDir == "" {
			staticDir = findWebDir()
		}
		if staticDir != "" {
			logger.Log().Info("serving static files", zap.String("dir", staticDir))
		}

		srv := server.New(server.Config{
			StaticDir:  staticDir,
			Store:      st,
			Tracker:    a,
			Frames:     a.Frames(),
			Detections: a.Detections(),
			Metrics:    m,
		})
		go func() {
			if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
				logger.Log().Error("http server failed", zap.Error(err))
			}
		}()
	}

	// Both highgui and systray need the main goroutine, so the tray only runs headless.
	if cfg.Tray && !cfg.Display.Enabled {
		return runWithTray(ctx, a, cfg.Server.Addr)
	}
	return a.Run(ctx)
}

func runWithTray(ctx context.Context, a *app.App, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tr := tray.New()
	tr.SetEnabled(a.IsEnabled())
	tr.OnToggle(a.SetEnabled)
	a.OnEnabledChange(tr.SetEnabled)
	tr.OnQuit(cancel)
	tr.OnOpenUI(func() {
		if err := openBrowser(webURL(addr)); err != nil {
			logger.Log().Warn("could not open browser", zap.Error(err))
		}
	})

	detections, unsubscribe := a.Detections().Subscribe(1)
	defer unsubscribe()
	go func() {
		var last detector.Detection
		for d := range detections {
			if d.Status != last.Status || d.Position != last.Position {
				tr.SetLastDetection(d)
				last = d
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run(ctx)
		tr.Quit()
	}()

	tr.Run()
	cancel()
	return <-errCh
}

// webURL turns a listen address into a local browser URL.
func webURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.colortrack/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".colortrack", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
