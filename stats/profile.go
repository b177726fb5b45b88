package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SeasonalProfile averages values by phase within a period: element p of
// the result is the mean of values[p], values[p+period], ... The length of
// values must be a positive multiple of period; callers check this.
func SeasonalProfile(values []float64, period int) []float64 {
	profile := make([]float64, period)
	counts := make([]int, period)

	for i, v := range values {
		seasonIdx := i % period
		profile[seasonIdx] += v
		counts[seasonIdx]++
	}

	for i := range profile {
		if counts[i] > 0 {
			profile[i] /= float64(counts[i])
		}
	}

	return profile
}

// flatTolerance is the relative deviation below which a vector counts as
// constant. Averaging equal values can leave rounding noise on the order of
// one ulp, which must not be amplified into a profile.
const flatTolerance = 1e-12

// ZScore standardizes x in place using its own mean and sample standard
// deviation (n-1). A vector with zero or undefined deviation is set to all
// zeros and ZScore reports false.
func ZScore(x []float64) bool {
	if len(x) < 2 {
		for i := range x {
			x[i] = 0
		}
		return false
	}

	mean, std := stat.MeanStdDev(x, nil)
	if math.IsNaN(std) || math.IsInf(std, 0) || std <= flatTolerance*math.Max(1, math.Abs(mean)) {
		for i := range x {
			x[i] = 0
		}
		return false
	}

	floats.AddConst(-mean, x)
	floats.Scale(1/std, x)
	return true
}
