// Package stats provides the numeric building blocks shared by feature
// extraction and clustering.
//
// # Seasonal Profiles
//
// Average a monthly series by calendar month:
//
//	profile := stats.SeasonalProfile(values, 12) // len(profile) == 12
//
// # Standardization
//
// Z-score a vector in place with the sample standard deviation (n-1):
//
//	if !stats.ZScore(profile) {
//	    // constant input: profile is now all zeros
//	}
//
// # Seasonal Strength
//
// Classical additive decomposition and the strength of seasonality F_S,
// from 0 (no seasonal pattern) to 1 (purely seasonal after detrending):
//
//	d := stats.Decompose(values, 12)
//	fs := stats.SeasonalStrength(values, 12)
//
// # Dispersion
//
// Squared Euclidean distance and the total sum of squares of a data matrix
// (the SSE of a single cluster around the global mean):
//
//	d := stats.SquaredDistance(a, b)
//	tss := stats.TotalSumSquares(data) // data is a gonum mat.Matrix
package stats
