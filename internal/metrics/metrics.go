// Package metrics exposes tracking and process metrics in Prometheus format.
package metrics

import (
	"context"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"

	"github.com/ayusman/colortrack/internal/detector"
	"github.com/ayusman/colortrack/internal/logger"
)

// ProcessInterval is how often process gauges are refreshed.
const ProcessInterval = 500 * time.Millisecond

// Metrics holds the collectors of one tracker instance on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	framesProcessed prometheus.Counter
	frameErrors     prometheus.Counter
	detections      *prometheus.CounterVec
	processing      prometheus.Histogram
	objectArea      prometheus.Gauge
	boundsChanges   prometheus.Counter

	memUsage prometheus.Gauge
	cpuUsage prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		framesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "colortrack_frames_processed_total",
			Help: "Total number of camera frames run through detection",
		}),
		frameErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "colortrack_frame_errors_total",
			Help: "Total number of frames that failed capture or detection",
		}),
		detections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "colortrack_detections_total",
			Help: "Detection outcomes by status",
		}, []string{"status"}),
		processing: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "colortrack_frame_processing_seconds",
			Help:    "Time spent detecting and annotating one frame",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		}),
		objectArea: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "colortrack_object_area_pixels",
			Help: "Area of the tracked object, 0 when nothing is tracked",
		}),
		boundsChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "colortrack_bounds_changes_total",
			Help: "Number of times the HSV filter bounds changed",
		}),
		memUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "colortrack_memory_usage_megabytes",
			Help: "Resident memory of the process in megabytes",
		}),
		cpuUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "colortrack_cpu_usage_percent",
			Help: "CPU usage of the process in percent",
		}),
	}

	m.registry.MustRegister(
		m.framesProcessed,
		m.frameErrors,
		m.detections,
		m.processing,
		m.objectArea,
		m.boundsChanges,
		m.memUsage,
		m.cpuUsage,
	)
	for _, s := range []detector.Status{detector.StatusNone, detector.StatusTracking, detector.StatusNoisy} {
		m.detections.WithLabelValues(s.String())
	}
	return m
}

// Registry returns the registry backing Handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveDetection records one processed frame.
func (m *Metrics) ObserveDetection(d detector.Detection, took time.Duration) {
	m.framesProcessed.Inc()
	m.detections.WithLabelValues(d.Status.String()).Inc()
	m.processing.Observe(took.Seconds())
	if d.Found() {
		m.objectArea.Set(d.Area)
	} else {
		m.objectArea.Set(0)
	}
}

// FrameError records a frame that could not be captured or processed.
func (m *Metrics) FrameError() {
	m.frameErrors.Inc()
}

// BoundsChanged records an update of the HSV filter.
func (m *Metrics) BoundsChanged() {
	m.boundsChanges.Inc()
}

// StartProcessMonitor refreshes memory and CPU gauges until ctx is done.
func (m *Metrics) StartProcessMonitor(ctx context.Context) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		logger.Log().Warn("process metrics unavailable", zap.Error(err))
		return
	}

	ticker := time.NewTicker(ProcessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sampleProcess(proc)
		}
	}
}

func (m *Metrics) sampleProcess(proc *process.Process) {
	if mem, err := proc.MemoryInfo(); err == nil {
		m.memUsage.Set(float64(mem.RSS / 1024 / 1024))
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		m.cpuUsage.Set(math.Round(cpu*100) / 100)
	}
}
