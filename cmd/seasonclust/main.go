// Command seasonclust clusters a panel of monthly series by seasonal shape.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sartorproj/seasonclust/config"
	"github.com/sartorproj/seasonclust/features"
	"github.com/sartorproj/seasonclust/pipeline"
)

const (
	appName = "seasonclust"
	version = "v0.3.0"
)

// app holds state shared by the subcommands of one invocation.
type app struct {
	configPath  string
	metricsFile string
	pipeline    *pipeline.Pipeline
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("seasonclust failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Cluster monthly time series by seasonal shape",
		Version: version,
		Long: `seasonclust reduces every series of a monthly panel to a feature vector
(mean seasonal profile or FeaClip), scans k-means over a range of k to draw
the elbow curve, and partitions the series into the k you choose.

Typical use:
  seasonclust elbow   --config run.yaml --kmax 12
  seasonclust cluster --config run.yaml --k 4 --out clusters.json`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.writeMetrics()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	flags.String("input", "", "Panel CSV file (overrides input.path)")
	flags.String("format", "", "Panel layout: long or wide (overrides input.format)")
	flags.String("method", "", "Representation: msp or feaclip (overrides features.method)")
	flags.Int64("seed", 0, "Random seed for k-means (overrides cluster.seed)")
	flags.Int("restarts", 0, "k-means initializations per k (overrides cluster.restarts)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.Bool("log-json", false, "Log JSON lines instead of console output")
	flags.StringVar(&a.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile on exit")

	rootCmd.AddCommand(newFeaturesCmd(a), newElbowCmd(a), newClusterCmd(a))
	return rootCmd
}

// setup loads the configuration, applies flag overrides and configures
// logging before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input.Path, _ = flags.GetString("input")
	}
	if flags.Changed("format") {
		cfg.Input.Format, _ = flags.GetString("format")
	}
	if flags.Changed("method") {
		cfg.Features.Method, _ = flags.GetString("method")
	}
	if flags.Changed("seed") {
		cfg.Cluster.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("restarts") {
		cfg.Cluster.Restarts, _ = flags.GetInt("restarts")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-json") {
		cfg.Log.JSON, _ = flags.GetBool("log-json")
	}
	if err := applyCommandFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	setupLogging(cfg.Log, os.Stderr)
	log.Debug().
		Str("config", a.configPath).
		Str("method", cfg.Features.Method).
		Int64("seed", cfg.Cluster.Seed).
		Msg("Configuration loaded")

	a.pipeline = pipeline.New(cfg, pipeline.WithLogger(log.Logger))
	return nil
}

// applyCommandFlags copies subcommand flags that mirror config keys.
func applyCommandFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error
	if flags.Lookup("kmin") != nil && flags.Changed("kmin") {
		if cfg.Elbow.KMin, err = flags.GetInt("kmin"); err != nil {
			return err
		}
	}
	if flags.Lookup("kmax") != nil && flags.Changed("kmax") {
		if cfg.Elbow.KMax, err = flags.GetInt("kmax"); err != nil {
			return err
		}
	}
	if flags.Lookup("workers") != nil && flags.Changed("workers") {
		if cfg.Elbow.Workers, err = flags.GetInt("workers"); err != nil {
			return err
		}
	}
	if flags.Lookup("k") != nil && flags.Changed("k") {
		if cfg.Cluster.K, err = flags.GetInt("k"); err != nil {
			return err
		}
	}
	if flags.Lookup("window") != nil && flags.Changed("window") {
		if cfg.Features.Window, err = flags.GetInt("window"); err != nil {
			return err
		}
	}
	if flags.Lookup("period") != nil && flags.Changed("period") {
		if cfg.Features.Period, err = flags.GetInt("period"); err != nil {
			return err
		}
	}
	return nil
}

func setupLogging(cfg config.LogConfig, w io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.JSON {
		log.Logger = zerolog.New(w).With().Timestamp().Str("app", appName).Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen})
}

func (a *app) writeMetrics() error {
	if a.metricsFile == "" || a.pipeline == nil {
		return nil
	}
	if err := a.pipeline.Metrics().WriteTextfile(a.metricsFile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	log.Debug().Str("path", a.metricsFile).Msg("Metrics written")
	return nil
}

// extract loads the configured panel and reduces it to features.
func (a *app) extract() (*features.Matrix, error) {
	m, err := a.pipeline.Load()
	if err != nil {
		return nil, err
	}
	return a.pipeline.Features(m)
}

// output opens path for writing, or returns stdout for "" and "-".
// Relative paths are placed under output.dir, which is created on demand.
func (a *app) output(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	if !filepath.IsAbs(path) {
		dir := a.pipeline.Config().Output.Dir
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
		path = filepath.Join(dir, path)
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
