package features

import (
	"fmt"

	"github.com/sartorproj/seasonclust/stats"
)

// MSP is the mean seasonal profile representation: the series is averaged
// by phase within the period and the resulting profile is z-scored with
// its own mean and sample standard deviation. Trend and level are removed,
// leaving only the shape of the season.
type MSP struct {
	Period int
}

// NewMSP returns a mean seasonal profile over the given period.
func NewMSP(period int) (*MSP, error) {
	if period < 2 {
		return nil, fmt.Errorf("features: msp period must be at least 2, got %d", period)
	}
	return &MSP{Period: period}, nil
}

// Name implements Representation.
func (m *MSP) Name() string {
	return MethodMSP
}

// Reduce implements Representation. The length of values must be a
// positive multiple of the period. A series whose profile is constant
// reduces to the zero vector and is reported as degenerate.
func (m *MSP) Reduce(values []float64) ([]float64, bool, error) {
	n := len(values)
	if n == 0 || n%m.Period != 0 {
		return nil, false, &ShapeError{Method: MethodMSP, Length: n, Unit: m.Period}
	}

	profile := stats.SeasonalProfile(values, m.Period)
	return profile, !stats.ZScore(profile), nil
}
