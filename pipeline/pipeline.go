// Package pipeline runs the load, extract, scan and cluster stages with
// logging and metrics around the pure library packages.
package pipeline

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/sartorproj/seasonclust/config"
	"github.com/sartorproj/seasonclust/elbow"
	"github.com/sartorproj/seasonclust/features"
	"github.com/sartorproj/seasonclust/kmeans"
	"github.com/sartorproj/seasonclust/metrics"
	"github.com/sartorproj/seasonclust/stats"
	"github.com/sartorproj/seasonclust/timeseries"
)

// weakSeasonality is the strength of seasonality below which a series is
// reported as having little seasonal pattern to cluster on.
const weakSeasonality = 0.3

// Pipeline carries the configuration, logger and metrics shared by the
// stages of a run.
type Pipeline struct {
	cfg     *config.Config
	log     zerolog.Logger
	metrics *metrics.Recorder
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithRecorder sets the metrics recorder. The default is a private one.
func WithRecorder(r *metrics.Recorder) Option {
	return func(p *Pipeline) { p.metrics = r }
}

// New returns a pipeline for cfg; a nil cfg means config.Default().
func New(cfg *config.Config, opts ...Option) *Pipeline {
	if cfg == nil {
		cfg = config.Default()
	}
	p := &Pipeline{
		cfg: cfg,
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.metrics == nil {
		p.metrics = metrics.NewRecorder()
	}
	return p
}

// Config returns the run configuration.
func (p *Pipeline) Config() *config.Config {
	return p.cfg
}

// Metrics returns the metrics recorder.
func (p *Pipeline) Metrics() *metrics.Recorder {
	return p.metrics
}

// Load reads the panel named by the input configuration.
func (p *Pipeline) Load() (*timeseries.Matrix, error) {
	defer p.metrics.ObserveStage("load", time.Now())

	path := p.cfg.Input.Path
	if path == "" {
		return nil, fmt.Errorf("no input path configured")
	}

	m, dropped, err := timeseries.LoadPanelCSV(path, p.cfg.CSVOptions())
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	p.metrics.DroppedSeries.Add(float64(len(dropped)))
	if len(dropped) > 0 {
		p.log.Warn().
			Int("dropped", len(dropped)).
			Strs("series", timeseries.SortedNames(dropped)).
			Msg("Dropped series with missing observations")
	}
	p.log.Info().
		Str("path", path).
		Int("series", m.Rows()).
		Int("length", m.Len()).
		Time("start", m.Start()).
		Msg("Panel loaded")
	return m, nil
}

// Features reduces every series with the configured representation.
func (p *Pipeline) Features(m *timeseries.Matrix) (*features.Matrix, error) {
	defer p.metrics.ObserveStage("features", time.Now())

	rep, err := features.New(p.cfg.FeaturesConfig())
	if err != nil {
		return nil, err
	}

	p.metrics.SeriesTotal.Add(float64(m.Rows()))
	fm, err := features.Extract(m, rep)
	if err != nil {
		return nil, err
	}

	period := m.Period()
	if msp, ok := rep.(*features.MSP); ok {
		period = msp.Period
	}
	p.checkStrength(m, period)

	rows, cols := fm.Dims()
	if deg := fm.Degenerate(); len(deg) > 0 {
		names := make([]string, len(deg))
		for i, row := range deg {
			names[i] = fm.Name(row)
		}
		p.metrics.DegenerateTotal.WithLabelValues(rep.Name()).Add(float64(len(deg)))
		p.log.Warn().
			Str("method", rep.Name()).
			Int("count", len(deg)).
			Strs("series", names).
			Msg("Series without seasonal variation reduced to zero vectors")
	}
	p.log.Info().
		Str("method", rep.Name()).
		Int("rows", rows).
		Int("features", cols).
		Msg("Features extracted")
	return fm, nil
}

// checkStrength records the seasonal strength of every series at the given
// period and warns
// about the weakly seasonal ones, whose cluster membership mostly reflects
// noise.
func (p *Pipeline) checkStrength(m *timeseries.Matrix, period int) {
	if m.Len() < 2*period {
		return
	}

	var weak []string
	for i := 0; i < m.Rows(); i++ {
		fs := stats.SeasonalStrength(m.Values(i), period)
		p.metrics.Strength.Observe(fs)
		if fs < weakSeasonality {
			weak = append(weak, m.Name(i))
		}
	}
	if len(weak) > 0 {
		p.log.Warn().
			Int("count", len(weak)).
			Float64("threshold", weakSeasonality).
			Strs("series", weak).
			Msg("Series with weak seasonality")
	}
}

// Elbow scans the configured k range.
func (p *Pipeline) Elbow(fm *features.Matrix) (elbow.Curve, error) {
	defer p.metrics.ObserveStage("elbow", time.Now())

	cfg := p.cfg.ElbowConfig()
	curve, err := elbow.Scan(fm, cfg)
	if err != nil {
		var countErr *kmeans.ClusterCountError
		if errors.As(err, &countErr) && countErr.K == cfg.KMax && cfg.KMax > countErr.N {
			return nil, fmt.Errorf("%w: the panel has only %d series, lower elbow.k_max (--kmax)", err, countErr.N)
		}
		return nil, err
	}

	for _, pt := range curve {
		p.metrics.KMeansRuns.Inc()
		p.metrics.KMeansIters.Observe(float64(pt.Iterations))
		p.metrics.LastSSE.WithLabelValues(strconv.Itoa(pt.K)).Set(pt.SSE)
		p.log.Debug().
			Int("k", pt.K).
			Float64("sse", pt.SSE).
			Float64("explained", pt.Explained).
			Int("iterations", pt.Iterations).
			Bool("converged", pt.Converged).
			Msg("Elbow point")
	}
	p.log.Info().
		Int("k_min", cfg.KMin).
		Int("k_max", cfg.KMax).
		Int("workers", cfg.Workers).
		Msg("Elbow scan complete")
	return curve, nil
}

// Cluster partitions the feature matrix into k clusters and assembles the
// report. k = 0 uses the configured cluster.k.
func (p *Pipeline) Cluster(fm *features.Matrix, k int) (*Report, error) {
	defer p.metrics.ObserveStage("cluster", time.Now())

	if k == 0 {
		k = p.cfg.Cluster.K
	}
	kc := p.cfg.KMeansConfig()
	res, err := kmeans.Cluster(fm, k, kc)
	if err != nil {
		return nil, err
	}

	p.metrics.KMeansRuns.Inc()
	p.metrics.KMeansIters.Observe(float64(res.Iterations))
	p.metrics.Recoveries.Add(float64(res.Recoveries))
	p.metrics.LastSSE.WithLabelValues(strconv.Itoa(k)).Set(res.SSE)

	if res.Recoveries > 0 {
		p.log.Debug().Int("recoveries", res.Recoveries).Msg("Empty clusters reseeded")
	}
	if !res.Converged {
		p.log.Warn().
			Int("k", k).
			Int("max_iter", kc.MaxIter).
			Msg("k-means stopped at the iteration cap before converging")
	}

	report := NewReport(fm, res, kc, stats.TotalSumSquares(fm))
	p.log.Info().
		Str("run_id", report.RunID).
		Int("k", k).
		Float64("sse", res.SSE).
		Ints("sizes", res.Sizes).
		Int("iterations", res.Iterations).
		Msg("Clustering complete")
	return report, nil
}
