package elbow

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/seasonclust/kmeans"
	"github.com/sartorproj/seasonclust/stats"
)

// ErrInvalidRange is returned when KMin is greater than KMax.
var ErrInvalidRange = errors.New("elbow: k range is empty")

// Config holds configuration for an elbow scan.
type Config struct {
	KMin     int   // Smallest k to evaluate (default: 1)
	KMax     int   // Largest k to evaluate (default: 10)
	Seed     int64 // Seed shared by every k-means run
	MaxIter  int   // Maximum Lloyd iterations per run (default: 100)
	Restarts int   // Initializations per k (default: 10)
	Workers  int   // Concurrent k-means runs (default: 1)
}

// DefaultConfig returns the default scan configuration.
func DefaultConfig() *Config {
	return &Config{
		KMin:     1,
		KMax:     10,
		Seed:     1,
		MaxIter:  100,
		Restarts: 10,
		Workers:  1,
	}
}

// Point is one k of the curve.
type Point struct {
	K   int
	SSE float64
	// Explained is the share of the total sum of squares removed by the
	// partition, 1 - SSE/TSS.
	Explained  float64
	Iterations int
	Converged  bool
}

// Curve is the SSE of each scanned k, in increasing k order.
type Curve []Point

// SSE returns the SSE recorded for k.
func (c Curve) SSE(k int) (float64, bool) {
	for _, p := range c {
		if p.K == k {
			return p.SSE, true
		}
	}
	return 0, false
}

// WriteCSV writes the curve as k,sse,explained rows for plotting.
func (c Curve) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"k", "sse", "explained"}); err != nil {
		return err
	}
	for _, p := range c {
		record := []string{
			strconv.Itoa(p.K),
			strconv.FormatFloat(p.SSE, 'g', -1, 64),
			strconv.FormatFloat(p.Explained, 'g', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Scan runs k-means once for every k in [KMin, KMax] and returns the SSE
// curve. Every run uses the same seed, so results are comparable across k
// and identical whatever the number of workers. The whole range is
// validated before any clustering starts.
//
// Scan only reports the curve. Picking k from it is left to the caller.
func Scan(data mat.Matrix, config *Config) (Curve, error) {
	if config == nil {
		config = DefaultConfig()
	}
	n, _ := data.Dims()

	if config.KMin > config.KMax {
		return nil, ErrInvalidRange
	}
	if config.KMin < 1 {
		return nil, &kmeans.ClusterCountError{K: config.KMin, N: n}
	}
	if config.KMax > n {
		return nil, &kmeans.ClusterCountError{K: config.KMax, N: n}
	}

	tss := stats.TotalSumSquares(data)
	runConfig := &kmeans.Config{
		Seed:     config.Seed,
		MaxIter:  config.MaxIter,
		Restarts: config.Restarts,
	}

	curve := make(Curve, config.KMax-config.KMin+1)
	workers := min(max(config.Workers, 1), len(curve))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	jobs := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				k := config.KMin + idx
				res, err := kmeans.Cluster(data, k, runConfig)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					continue
				}
				curve[idx] = Point{
					K:          k,
					SSE:        res.SSE,
					Explained:  explained(res.SSE, tss),
					Iterations: res.Iterations,
					Converged:  res.Converged,
				}
			}
		}()
	}
	for idx := range curve {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return curve, nil
}

func explained(sse, tss float64) float64 {
	if tss == 0 {
		return 0
	}
	return 1 - sse/tss
}
