package features

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// FeaClipFeatures names the statistics computed for each window, in
// output order.
var FeaClipFeatures = []string{
	"max_1",     // longest run of points above the window mean
	"sum_1",     // number of points above the window mean
	"max_0",     // longest run of points at or below the mean
	"crossings", // number of changes between above and below
	"f_0",       // length of the leading run below
	"l_0",       // length of the trailing run below
	"f_1",       // length of the leading run above
	"l_1",       // length of the trailing run above
}

// FeaClip is the windowed feature-clipping representation. The series is
// split into consecutive windows; each window is clipped to a bit sequence
// (1 where the value exceeds the window mean) and summarized by run-length
// statistics. Clipping discards magnitude, so no normalization is applied.
type FeaClip struct {
	Window        int
	DropRemainder bool
}

// NewFeaClip returns a FeaClip representation with the given window.
func NewFeaClip(window int) (*FeaClip, error) {
	if window < 2 {
		return nil, fmt.Errorf("features: feaclip window must be at least 2, got %d", window)
	}
	return &FeaClip{Window: window}, nil
}

// Name implements Representation.
func (f *FeaClip) Name() string {
	return MethodFeaClip
}

// Reduce implements Representation. The output holds len(FeaClipFeatures)
// values per full window. A trailing partial window is an error unless
// DropRemainder is set.
func (f *FeaClip) Reduce(values []float64) ([]float64, bool, error) {
	n := len(values)
	if n < f.Window || (n%f.Window != 0 && !f.DropRemainder) {
		return nil, false, &ShapeError{Method: MethodFeaClip, Length: n, Unit: f.Window}
	}

	windows := n / f.Window
	out := make([]float64, 0, windows*len(FeaClipFeatures))
	bits := make([]bool, f.Window)
	for w := 0; w < windows; w++ {
		clip(values[w*f.Window:(w+1)*f.Window], bits)
		out = append(out, clipFeatures(bits)...)
	}
	return out, false, nil
}

// clip marks the points of window above its mean.
func clip(window []float64, bits []bool) {
	mean := stat.Mean(window, nil)
	for i, v := range window {
		bits[i] = v > mean
	}
}

func clipFeatures(bits []bool) []float64 {
	var (
		ones, crossings int
		run, maxOne     int
		maxZero         int
	)

	for i, b := range bits {
		if b {
			ones++
		}
		if i > 0 && b != bits[i-1] {
			crossings++
			run = 0
		}
		run++
		if b && run > maxOne {
			maxOne = run
		}
		if !b && run > maxZero {
			maxZero = run
		}
	}

	leading := leadingRun(bits)
	trailing := trailingRun(bits)
	first, last := bits[0], bits[len(bits)-1]

	var f0, l0, f1, l1 int
	if first {
		f1 = leading
	} else {
		f0 = leading
	}
	if last {
		l1 = trailing
	} else {
		l0 = trailing
	}

	return []float64{
		float64(maxOne),
		float64(ones),
		float64(maxZero),
		float64(crossings),
		float64(f0),
		float64(l0),
		float64(f1),
		float64(l1),
	}
}

func leadingRun(bits []bool) int {
	n := 1
	for n < len(bits) && bits[n] == bits[0] {
		n++
	}
	return n
}

func trailingRun(bits []bool) int {
	last := len(bits) - 1
	n := 1
	for n <= last && bits[last-n] == bits[last] {
		n++
	}
	return n
}
