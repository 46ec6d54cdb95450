package dataset

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects per-run counters on a private registry.
type Metrics struct {
	registry         *prometheus.Registry
	imagesWritten    *prometheus.CounterVec
	classesProcessed prometheus.Counter
	classesSkipped   prometheus.Counter
	classDuration    prometheus.Histogram
}

// NewMetrics creates and registers the run metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		imagesWritten: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cyberset_images_written_total",
				Help: "Total number of images written",
			},
			[]string{"split", "kind"}, // kind: original, augmented
		),
		classesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cyberset_classes_processed_total",
			Help: "Total number of classes written to every split",
		}),
		classesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cyberset_classes_skipped_total",
			Help: "Total number of classes skipped because their split plan was degenerate",
		}),
		classDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cyberset_class_duration_seconds",
			Help:    "Time spent writing one class",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
	}
	m.registry.MustRegister(m.imagesWritten, m.classesProcessed, m.classesSkipped, m.classDuration)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// RecordWrite adds the result of one writer invocation.
func (m *Metrics) RecordWrite(splitName string, res WriteResult) {
	m.imagesWritten.WithLabelValues(splitName, "original").Add(float64(res.Originals))
	m.imagesWritten.WithLabelValues(splitName, "augmented").Add(float64(res.Augmented))
}

// RecordClass records a fully written class.
func (m *Metrics) RecordClass(seconds float64) {
	m.classesProcessed.Inc()
	m.classDuration.Observe(seconds)
}

// RecordSkip records a skipped class.
func (m *Metrics) RecordSkip() { m.classesSkipped.Inc() }

// WriteTextfile writes the metrics in the Prometheus text format, for the
// node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
