// Package metrics exposes Prometheus collectors for clustering runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "seasonclust"

// Recorder holds the Prometheus metrics of a process.
type Recorder struct {
	registry *prometheus.Registry

	SeriesTotal     prometheus.Counter
	DroppedSeries   prometheus.Counter
	DegenerateTotal *prometheus.CounterVec
	Strength        prometheus.Histogram
	KMeansRuns      prometheus.Counter
	KMeansIters     prometheus.Histogram
	Recoveries      prometheus.Counter
	StageDuration   *prometheus.HistogramVec
	LastSSE         *prometheus.GaugeVec
}

// NewRecorder creates the collectors and registers them on a fresh
// registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		SeriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "series_total",
			Help:      "Series received by feature extraction",
		}),
		DroppedSeries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_series_total",
			Help:      "Series dropped while loading for missing observations",
		}),
		DegenerateTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degenerate_series_total",
			Help:      "Series whose representation had no variation to normalize",
		}, []string{"method"}),
		Strength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "seasonal_strength",
			Help:      "Strength of seasonality of each extracted series",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		KMeansRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kmeans_runs_total",
			Help:      "Completed k-means runs",
		}),
		KMeansIters: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kmeans_iterations",
			Help:      "Lloyd iterations per k-means run",
			Buckets:   []float64{1, 2, 3, 5, 10, 20, 50, 100},
		}),
		Recoveries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_cluster_recoveries_total",
			Help:      "Centroids reseeded after losing all rows",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}, []string{"stage"}),
		LastSSE: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sse",
			Help:      "Total within-cluster sum of squares of the latest run per k",
		}, []string{"k"}),
	}

	r.registry.MustRegister(
		r.SeriesTotal,
		r.DroppedSeries,
		r.DegenerateTotal,
		r.Strength,
		r.KMeansRuns,
		r.KMeansIters,
		r.Recoveries,
		r.StageDuration,
		r.LastSSE,
	)
	return r
}

// Registry returns the registry holding the collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveStage records the time spent in a stage since start.
func (r *Recorder) ObserveStage(stage string, start time.Time) {
	r.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// WriteTextfile writes the current metrics in the text exposition format,
// for collection by node_exporter's textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
