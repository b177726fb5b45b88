package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/sartorproj/seasonclust/elbow"
	"github.com/sartorproj/seasonclust/features"
	"github.com/sartorproj/seasonclust/kmeans"
	"github.com/sartorproj/seasonclust/timeseries"
)

// Config is the complete configuration of a run.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Features FeaturesConfig `yaml:"features"`
	Elbow    ElbowConfig    `yaml:"elbow"`
	Cluster  ClusterConfig  `yaml:"cluster"`
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
}

// InputConfig describes the panel file.
type InputConfig struct {
	Path           string `yaml:"path"`
	Format         string `yaml:"format"`          // long or wide
	IDColumn       string `yaml:"id_column"`       // series id column
	DateColumn     string `yaml:"date_column"`     // long format only
	ValueColumn    string `yaml:"value_column"`    // long format only
	DateFormat     string `yaml:"date_format"`     // Go layout tried first
	DropIncomplete bool   `yaml:"drop_incomplete"` // drop series with gaps
	Period         int    `yaml:"period"`          // observations per season
}

// FeaturesConfig selects the representation.
type FeaturesConfig struct {
	Method        string `yaml:"method"` // msp or feaclip
	Period        int    `yaml:"period"`
	Window        int    `yaml:"window"`
	DropRemainder bool   `yaml:"drop_remainder"`
}

// ElbowConfig bounds the k scan.
type ElbowConfig struct {
	KMin    int `yaml:"k_min"`
	KMax    int `yaml:"k_max"`
	Workers int `yaml:"workers"`
}

// ClusterConfig parameterizes k-means. Seed, MaxIter and Restarts also
// apply to the elbow scan.
type ClusterConfig struct {
	K        int   `yaml:"k"`
	Seed     int64 `yaml:"seed"`
	MaxIter  int   `yaml:"max_iter"`
	Restarts int   `yaml:"restarts"`
}

// OutputConfig says where artifacts are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig configures zerolog.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	csv := timeseries.DefaultCSVOptions()
	feat := features.DefaultConfig()
	scan := elbow.DefaultConfig()
	km := kmeans.DefaultConfig()

	return &Config{
		Input: InputConfig{
			Format:         csv.Format,
			IDColumn:       csv.IDColumn,
			DateColumn:     csv.DateColumn,
			ValueColumn:    csv.ValueColumn,
			DateFormat:     csv.DateFormat,
			DropIncomplete: csv.DropIncomplete,
			Period:         csv.Period,
		},
		Features: FeaturesConfig{
			Method: feat.Method,
			Period: feat.Period,
			Window: feat.Window,
		},
		Elbow: ElbowConfig{
			KMin:    scan.KMin,
			KMax:    scan.KMax,
			Workers: scan.Workers,
		},
		Cluster: ClusterConfig{
			K:        0,
			Seed:     km.Seed,
			MaxIter:  km.MaxIter,
			Restarts: km.Restarts,
		},
		Output: OutputConfig{Dir: "."},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for values no run could use. Checks
// that depend on the data, such as k against the number of series, happen
// when the run starts.
func (c *Config) Validate() error {
	var errs []error

	switch c.Input.Format {
	case timeseries.FormatLong, timeseries.FormatWide:
	default:
		errs = append(errs, fmt.Errorf("input.format must be %q or %q, got %q",
			timeseries.FormatLong, timeseries.FormatWide, c.Input.Format))
	}
	if c.Input.Period < 1 {
		errs = append(errs, fmt.Errorf("input.period must be positive, got %d", c.Input.Period))
	}

	switch c.Features.Method {
	case features.MethodMSP:
		if c.Features.Period < 2 {
			errs = append(errs, fmt.Errorf("features.period must be at least 2, got %d", c.Features.Period))
		}
	case features.MethodFeaClip:
		if c.Features.Window < 2 {
			errs = append(errs, fmt.Errorf("features.window must be at least 2, got %d", c.Features.Window))
		}
	default:
		errs = append(errs, fmt.Errorf("features.method must be %q or %q, got %q",
			features.MethodMSP, features.MethodFeaClip, c.Features.Method))
	}

	if c.Elbow.KMin < 1 {
		errs = append(errs, fmt.Errorf("elbow.k_min must be at least 1, got %d", c.Elbow.KMin))
	}
	if c.Elbow.KMax < c.Elbow.KMin {
		errs = append(errs, fmt.Errorf("elbow.k_max (%d) is below elbow.k_min (%d)", c.Elbow.KMax, c.Elbow.KMin))
	}
	if c.Elbow.Workers < 0 {
		errs = append(errs, fmt.Errorf("elbow.workers must not be negative, got %d", c.Elbow.Workers))
	}

	if c.Cluster.K < 0 {
		errs = append(errs, fmt.Errorf("cluster.k must not be negative, got %d", c.Cluster.K))
	}
	if c.Cluster.MaxIter < 1 {
		errs = append(errs, fmt.Errorf("cluster.max_iter must be positive, got %d", c.Cluster.MaxIter))
	}
	if c.Cluster.Restarts < 1 {
		errs = append(errs, fmt.Errorf("cluster.restarts must be positive, got %d", c.Cluster.Restarts))
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	return errors.Join(errs...)
}

// CSVOptions returns the panel loading options.
func (c *Config) CSVOptions() *timeseries.CSVOptions {
	opts := timeseries.DefaultCSVOptions()
	opts.Format = c.Input.Format
	opts.IDColumn = c.Input.IDColumn
	opts.DateColumn = c.Input.DateColumn
	opts.ValueColumn = c.Input.ValueColumn
	opts.DateFormat = c.Input.DateFormat
	opts.DropIncomplete = c.Input.DropIncomplete
	opts.Period = c.Input.Period
	return opts
}

// FeaturesConfig returns the representation settings.
func (c *Config) FeaturesConfig() *features.Config {
	return &features.Config{
		Method:        c.Features.Method,
		Period:        c.Features.Period,
		Window:        c.Features.Window,
		DropRemainder: c.Features.DropRemainder,
	}
}

// ElbowConfig returns the scan settings.
func (c *Config) ElbowConfig() *elbow.Config {
	return &elbow.Config{
		KMin:     c.Elbow.KMin,
		KMax:     c.Elbow.KMax,
		Seed:     c.Cluster.Seed,
		MaxIter:  c.Cluster.MaxIter,
		Restarts: c.Cluster.Restarts,
		Workers:  c.Elbow.Workers,
	}
}

// KMeansConfig returns the clustering settings.
func (c *Config) KMeansConfig() *kmeans.Config {
	return &kmeans.Config{
		Seed:     c.Cluster.Seed,
		MaxIter:  c.Cluster.MaxIter,
		Restarts: c.Cluster.Restarts,
	}
}
