package features

import (
	"fmt"

	"github.com/sartorproj/seasonclust/timeseries"
)

// Representation method names.
const (
	MethodMSP     = "msp"
	MethodFeaClip = "feaclip"
)

// Representation reduces one series to a fixed-length feature vector.
// Reduce returns the vector and whether the series was degenerate, that is
// carried no variation the method could normalize. A degenerate vector is
// still valid input for clustering.
type Representation interface {
	Name() string
	Reduce(values []float64) (vector []float64, degenerate bool, err error)
}

// Config selects and parameterizes a representation.
type Config struct {
	Method        string // MethodMSP (default) or MethodFeaClip
	Period        int    // MSP period length (default: 12)
	Window        int    // FeaClip window length (default: 12)
	DropRemainder bool   // FeaClip: drop a trailing partial window instead of failing
}

// DefaultConfig returns the mean seasonal profile over monthly data.
func DefaultConfig() *Config {
	return &Config{
		Method: MethodMSP,
		Period: timeseries.DefaultPeriod,
		Window: timeseries.DefaultPeriod,
	}
}

// New returns the representation named by config.
func New(config *Config) (Representation, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Method {
	case MethodMSP, "":
		return NewMSP(orDefault(config.Period))
	case MethodFeaClip:
		fc, err := NewFeaClip(orDefault(config.Window))
		if err != nil {
			return nil, err
		}
		fc.DropRemainder = config.DropRemainder
		return fc, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, config.Method)
	}
}

func orDefault(n int) int {
	if n == 0 {
		return timeseries.DefaultPeriod
	}
	return n
}
