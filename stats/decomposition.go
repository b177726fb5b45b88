package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Decomposition holds the additive components of a series. Trend and
// Residual are NaN for the first and last period/2 observations, where the
// centred moving average is undefined.
type Decomposition struct {
	Trend    []float64
	Seasonal []float64
	Residual []float64
	Period   int
}

// Decompose splits values into trend, seasonal and residual components with
// classical additive decomposition. It returns nil when values is shorter
// than two periods or period < 2.
func Decompose(values []float64, period int) *Decomposition {
	n := len(values)
	if period < 2 || n < 2*period {
		return nil
	}

	trend := movingAverage(values, period)

	// Detrended values averaged by phase give the seasonal indices.
	detrended := make([]float64, n)
	for i := range values {
		detrended[i] = values[i] - trend[i]
	}
	indices := make([]float64, period)
	counts := make([]int, period)
	for i, v := range detrended {
		if !math.IsNaN(v) {
			indices[i%period] += v
			counts[i%period]++
		}
	}
	for i := range indices {
		if counts[i] > 0 {
			indices[i] /= float64(counts[i])
		}
	}

	// Centre the indices so they sum to zero over a period.
	mean := stat.Mean(indices, nil)
	for i := range indices {
		indices[i] -= mean
	}

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i := range values {
		seasonal[i] = indices[i%period]
		residual[i] = values[i] - trend[i] - seasonal[i]
	}

	return &Decomposition{
		Trend:    trend,
		Seasonal: seasonal,
		Residual: residual,
		Period:   period,
	}
}

// movingAverage is the centred moving average of order period. Even periods
// use the 2xperiod average.
func movingAverage(values []float64, period int) []float64 {
	n := len(values)
	trend := make([]float64, n)
	for i := range trend {
		trend[i] = math.NaN()
	}

	half := period / 2
	for i := half; i < n-half; i++ {
		sum := 0.0
		if period%2 == 0 {
			sum += 0.5 * (values[i-half] + values[i+half])
			for j := i - half + 1; j < i+half; j++ {
				sum += values[j]
			}
		} else {
			for j := i - half; j <= i+half; j++ {
				sum += values[j]
			}
		}
		trend[i] = sum / float64(period)
	}
	return trend
}

// SeasonalStrength measures how much of the detrended variation of values
// is seasonal: F_S = max(0, 1 - Var(R) / Var(S+R)). It is 0 for series
// shorter than two periods and for series with no detrended variation.
func SeasonalStrength(values []float64, period int) float64 {
	d := Decompose(values, period)
	if d == nil {
		return 0
	}

	var resid, seasonalResid []float64
	for i := range d.Residual {
		if math.IsNaN(d.Residual[i]) {
			continue
		}
		resid = append(resid, d.Residual[i])
		seasonalResid = append(seasonalResid, d.Seasonal[i]+d.Residual[i])
	}
	if len(resid) < 2 {
		return 0
	}

	varSR := stat.Variance(seasonalResid, nil)
	if varSR <= flatTolerance*flatTolerance {
		return 0
	}
	return math.Max(0, 1-stat.Variance(resid, nil)/varSR)
}
