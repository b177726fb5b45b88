package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SquaredDistance returns the squared Euclidean distance between a and b.
func SquaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// ColumnMeans returns the mean of every column of data, the centroid of
// all rows.
func ColumnMeans(data mat.Matrix) []float64 {
	r, c := data.Dims()
	means := make([]float64, c)
	if r == 0 {
		return means
	}

	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, data)
		floats.Add(means, row)
	}
	floats.Scale(1/float64(r), means)
	return means
}

// TotalSumSquares returns the sum over all rows of the squared distance to
// the overall centroid. This is the within-cluster SSE of a single cluster.
func TotalSumSquares(data mat.Matrix) float64 {
	r, c := data.Dims()
	if r == 0 {
		return 0
	}

	center := ColumnMeans(data)
	row := make([]float64, c)
	total := 0.0
	for i := 0; i < r; i++ {
		mat.Row(row, i, data)
		total += SquaredDistance(row, center)
	}
	return total
}
