package kmeans

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/seasonclust/stats"
)

// pcgStream is the fixed second word of the PCG state; only Seed varies.
const pcgStream = 0x5ea5c1057

// ErrInvalidClusterCount is returned when k is outside [1, N].
var ErrInvalidClusterCount = errors.New("kmeans: invalid cluster count")

// ClusterCountError reports a k that cannot partition N rows.
type ClusterCountError struct {
	K int
	N int
}

func (e *ClusterCountError) Error() string {
	return fmt.Sprintf("kmeans: cluster count %d outside [1, %d]", e.K, e.N)
}

// Is makes errors.Is(err, ErrInvalidClusterCount) hold.
func (e *ClusterCountError) Is(target error) bool {
	return target == ErrInvalidClusterCount
}

// Config holds configuration for a clustering run.
type Config struct {
	Seed     int64 // Seed of the initialization generator
	MaxIter  int   // Maximum Lloyd iterations per initialization (default: 100)
	Restarts int   // Initializations to try; lowest SSE wins (default: 10)
}

// DefaultConfig returns the default clustering configuration.
func DefaultConfig() *Config {
	return &Config{
		Seed:     1,
		MaxIter:  100,
		Restarts: 10,
	}
}

// Result is the outcome of a clustering run.
type Result struct {
	K int
	// Labels holds the cluster of each row, in row order, numbered 1..K.
	Labels    []int
	Centroids [][]float64
	Sizes     []int
	// WithinSSE is the sum of squared distances to the centroid, per cluster.
	WithinSSE []float64
	// SSE is the total within-cluster sum of squares.
	SSE float64

	Iterations int
	Converged  bool
	// Recoveries counts centroids that were reseeded after losing all rows.
	Recoveries int
	// Restart is the index of the initialization that produced this result.
	Restart int
}

// Assignment maps series names to cluster labels. names must be in the row
// order of the clustered data.
func (r *Result) Assignment(names []string) map[string]int {
	out := make(map[string]int, len(names))
	for i, name := range names {
		if i < len(r.Labels) {
			out[name] = r.Labels[i]
		}
	}
	return out
}

// Members returns the row indices in cluster label (1-based), ascending.
func (r *Result) Members(label int) []int {
	var rows []int
	for i, l := range r.Labels {
		if l == label {
			rows = append(rows, i)
		}
	}
	return rows
}

// Cluster partitions the rows of data into k clusters with Lloyd's
// algorithm.
//
// Each initialization picks k distinct rows as starting centroids, drawn
// from a PCG generator seeded with config.Seed. Rows go to the nearest
// centroid by squared Euclidean distance; a row equidistant to several
// centroids goes to the lowest-indexed one. A centroid left without rows
// is moved onto the row farthest from its own centroid, taken from a
// cluster that keeps at least one row (lowest row index on ties).
// Iteration stops when the labels after recovery equal those of the
// previous round, or after MaxIter rounds.
//
// The same data, k and config always give the same result. data is not
// modified.
func Cluster(data mat.Matrix, k int, config *Config) (*Result, error) {
	n, _ := data.Dims()
	if k < 1 || k > n {
		return nil, &ClusterCountError{K: k, N: n}
	}
	if config == nil {
		config = DefaultConfig()
	}
	maxIter := config.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultConfig().MaxIter
	}
	restarts := config.Restarts
	if restarts <= 0 {
		restarts = 1
	}

	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = mat.Row(nil, i, data)
	}

	rng := rand.New(rand.NewPCG(uint64(config.Seed), pcgStream))

	var best *Result
	for r := 0; r < restarts; r++ {
		init := rng.Perm(n)[:k]
		res := lloyd(rows, k, init, maxIter)
		res.Restart = r
		if best == nil || res.SSE < best.SSE {
			best = res
		}
	}
	return best, nil
}

// lloyd runs one k-means from the given initial rows. All working state is
// local to the call.
func lloyd(rows [][]float64, k int, init []int, maxIter int) *Result {
	n := len(rows)

	centroids := make([][]float64, k)
	for c, i := range init {
		centroids[c] = append([]float64(nil), rows[i]...)
	}

	labels := make([]int, n)
	prev := make([]int, n)
	for i := range labels {
		labels[i] = -1
		prev[i] = -1
	}
	dist := make([]float64, n)
	counts := make([]int, k)

	res := &Result{K: k}
	for res.Iterations < maxIter {
		res.Iterations++

		assign(rows, centroids, labels, dist)

		clear(counts)
		for _, l := range labels {
			counts[l]++
		}
		moved := recoverEmpty(labels, dist, counts)

		// A recovery that restores the previous labels is a fixed point:
		// the centroids would be recomputed from the same partition.
		if slices.Equal(labels, prev) {
			res.Converged = true
			break
		}
		res.Recoveries += moved
		copy(prev, labels)
		updateCentroids(rows, labels, counts, centroids)
	}

	res.Labels = make([]int, n)
	res.Sizes = make([]int, k)
	res.WithinSSE = make([]float64, k)
	for i, l := range labels {
		res.Labels[i] = l + 1
		res.Sizes[l]++
		d := stats.SquaredDistance(rows[i], centroids[l])
		res.WithinSSE[l] += d
		res.SSE += d
	}
	res.Centroids = centroids
	return res
}

// assign moves every row to its nearest centroid, recording the distance.
// It reports whether any label changed.
func assign(rows, centroids [][]float64, labels []int, dist []float64) bool {
	changed := false
	for i, row := range rows {
		best := 0
		bestDist := stats.SquaredDistance(row, centroids[0])
		for c := 1; c < len(centroids); c++ {
			if d := stats.SquaredDistance(row, centroids[c]); d < bestDist {
				best, bestDist = c, d
			}
		}
		if labels[i] != best {
			labels[i] = best
			changed = true
		}
		dist[i] = bestDist
	}
	return changed
}

// recoverEmpty gives every empty cluster the row farthest from its current
// centroid, taking only from clusters with at least two rows. It returns
// the number of rows moved.
func recoverEmpty(labels []int, dist []float64, counts []int) int {
	moved := 0
	for c := range counts {
		if counts[c] > 0 {
			continue
		}
		pick := -1
		for i, l := range labels {
			if counts[l] < 2 {
				continue
			}
			if pick < 0 || dist[i] > dist[pick] {
				pick = i
			}
		}
		if pick < 0 {
			// Unreachable while k <= n.
			break
		}
		counts[labels[pick]]--
		labels[pick] = c
		counts[c]++
		dist[pick] = 0
		moved++
	}
	return moved
}

// updateCentroids sets every centroid to the mean of its rows. Every
// cluster is non-empty here.
func updateCentroids(rows [][]float64, labels []int, counts []int, centroids [][]float64) {
	for _, c := range centroids {
		clear(c)
	}
	for i, l := range labels {
		floats.Add(centroids[l], rows[i])
	}
	for c, centroid := range centroids {
		floats.Scale(1/float64(counts[c]), centroid)
	}
}
