package features

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/seasonclust/timeseries"
)

var start = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)

// seasonal returns years of a sinusoidal monthly pattern scaled by amp
// around level. The half-month offset keeps every point off the mean.
func seasonal(years int, level, amp float64) []float64 {
	values := make([]float64, 12*years)
	for i := range values {
		values[i] = level + amp*math.Sin(2*math.Pi*(float64(i%12)+0.5)/12)
	}
	return values
}

func constant(n int, c float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = c
	}
	return values
}

func panel(t *testing.T, rows map[string][]float64, order ...string) *timeseries.Matrix {
	t.Helper()
	series := make([]*timeseries.Series, len(order))
	for i, name := range order {
		series[i] = timeseries.NewMonthly(name, start, rows[name])
	}
	m, err := timeseries.NewMatrix(series...)
	require.NoError(t, err)
	return m
}

func TestNew(t *testing.T) {
	rep, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, MethodMSP, rep.Name())

	rep, err = New(&Config{Method: MethodFeaClip, DropRemainder: true})
	require.NoError(t, err)
	fc, ok := rep.(*FeaClip)
	require.True(t, ok)
	assert.Equal(t, 12, fc.Window)
	assert.True(t, fc.DropRemainder)

	_, err = New(&Config{Method: "dtw"})
	assert.ErrorIs(t, err, ErrUnknownMethod)

	_, err = New(&Config{Method: MethodMSP, Period: 1})
	assert.Error(t, err)
	_, err = New(&Config{Method: MethodFeaClip, Window: -3})
	assert.Error(t, err)
}

func TestMSPReduce(t *testing.T) {
	msp, err := NewMSP(4)
	require.NoError(t, err)

	vec, degenerate, err := msp.Reduce([]float64{1, 2, 3, 4, 3, 4, 5, 6})
	require.NoError(t, err)
	assert.False(t, degenerate)
	require.Len(t, vec, 4)

	// Profile {2,3,4,5}: mean 3.5, sample sd sqrt(5/3).
	sd := math.Sqrt(5.0 / 3.0)
	expected := []float64{-1.5 / sd, -0.5 / sd, 0.5 / sd, 1.5 / sd}
	assert.InDeltaSlice(t, expected, vec, 1e-12)
}

func TestMSPConstantIsZeroVector(t *testing.T) {
	msp, err := NewMSP(12)
	require.NoError(t, err)

	for _, c := range []float64{0, 3, 0.1, 98765.4321} {
		vec, degenerate, err := msp.Reduce(constant(36, c))
		require.NoError(t, err)
		assert.True(t, degenerate)
		for _, v := range vec {
			assert.False(t, math.IsNaN(v))
			assert.Zero(t, v)
		}
	}
}

func TestMSPScaleInvariant(t *testing.T) {
	msp, err := NewMSP(12)
	require.NoError(t, err)

	small, _, err := msp.Reduce(seasonal(3, 10, 2))
	require.NoError(t, err)
	large, _, err := msp.Reduce(seasonal(3, 5000, 900))
	require.NoError(t, err)
	assert.InDeltaSlice(t, small, large, 1e-9)
}

func TestMSPRemovesTrend(t *testing.T) {
	msp, err := NewMSP(12)
	require.NoError(t, err)

	// A year-over-year level shift changes every phase mean equally.
	values := append(seasonal(1, 100, 10), seasonal(1, 300, 10)...)
	shifted, _, err := msp.Reduce(values)
	require.NoError(t, err)
	flat, _, err := msp.Reduce(seasonal(2, 100, 10))
	require.NoError(t, err)
	assert.InDeltaSlice(t, flat, shifted, 1e-9)
}

func TestMSPShapeMismatch(t *testing.T) {
	msp, err := NewMSP(12)
	require.NoError(t, err)

	for _, n := range []int{0, 11, 13, 25} {
		_, _, err := msp.Reduce(constant(n, 1))
		require.Error(t, err, "length %d", n)
		assert.ErrorIs(t, err, ErrShapeMismatch)

		var shape *ShapeError
		require.True(t, errors.As(err, &shape))
		assert.Equal(t, n, shape.Length)
		assert.Equal(t, 12, shape.Unit)
	}
}

func TestFeaClipRepeatedPattern(t *testing.T) {
	fc, err := NewFeaClip(12)
	require.NoError(t, err)

	// Above the mean for months 1-6, below for 7-12, two years.
	values := make([]float64, 24)
	for i := range values {
		if i%12 < 6 {
			values[i] = 10
		} else {
			values[i] = 1
		}
	}

	vec, degenerate, err := fc.Reduce(values)
	require.NoError(t, err)
	assert.False(t, degenerate)
	require.Len(t, vec, 2*len(FeaClipFeatures))

	first, second := vec[:8], vec[8:]
	assert.Equal(t, first, second)
	// max_1 sum_1 max_0 crossings f_0 l_0 f_1 l_1
	assert.Equal(t, []float64{6, 6, 6, 1, 0, 6, 6, 0}, first)
}

func TestFeaClipFeatures(t *testing.T) {
	fc, err := NewFeaClip(6)
	require.NoError(t, err)

	// mean 2.5: bits 0 1 1 0 1 0
	vec, _, err := fc.Reduce([]float64{0, 5, 5, 0, 5, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 1, 4, 1, 1, 0, 0}, vec)

	// Constant window clips to all zeros.
	vec, degenerate, err := fc.Reduce(constant(6, 7))
	require.NoError(t, err)
	assert.False(t, degenerate)
	assert.Equal(t, []float64{0, 0, 6, 0, 6, 6, 0, 0}, vec)
}

func TestFeaClipScaleInvariant(t *testing.T) {
	fc, err := NewFeaClip(12)
	require.NoError(t, err)

	a, _, err := fc.Reduce(seasonal(2, 10, 2))
	require.NoError(t, err)
	b, _, err := fc.Reduce(seasonal(2, 9000, 1500))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFeaClipShapeMismatch(t *testing.T) {
	fc, err := NewFeaClip(12)
	require.NoError(t, err)

	_, _, err = fc.Reduce(constant(13, 1))
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, _, err = fc.Reduce(constant(11, 1))
	assert.ErrorIs(t, err, ErrShapeMismatch)

	fc.DropRemainder = true
	vec, _, err := fc.Reduce(constant(13, 1))
	require.NoError(t, err)
	assert.Len(t, vec, len(FeaClipFeatures))

	_, _, err = fc.Reduce(constant(11, 1))
	assert.ErrorIs(t, err, ErrShapeMismatch, "no full window even when dropping remainder")
}

func TestExtractPreservesRowOrder(t *testing.T) {
	rows := map[string][]float64{
		"flat":  constant(24, 5),
		"small": seasonal(2, 10, 2),
		"big":   seasonal(2, 1000, 300),
	}
	m := panel(t, rows, "small", "flat", "big")

	for _, method := range []string{MethodMSP, MethodFeaClip} {
		rep, err := New(&Config{Method: method})
		require.NoError(t, err)

		fm, err := Extract(m, rep)
		require.NoError(t, err)

		r, _ := fm.Dims()
		assert.Equal(t, m.Rows(), r)
		assert.Equal(t, m.Names(), fm.Names())
		assert.Equal(t, method, fm.Method())

		for i := 0; i < r; i++ {
			want, _, err := rep.Reduce(m.Values(i))
			require.NoError(t, err)
			assert.Equal(t, want, fm.Row(i), "%s row %d", method, i)
		}
	}
}

func TestExtractReportsDegenerate(t *testing.T) {
	m := panel(t, map[string][]float64{
		"a": seasonal(2, 10, 2),
		"b": constant(24, 3),
		"c": constant(24, 0),
	}, "a", "b", "c")

	fm, err := Extract(m, &MSP{Period: 12})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, fm.Degenerate())

	fc, err := Extract(m, &FeaClip{Window: 12})
	require.NoError(t, err)
	assert.Empty(t, fc.Degenerate())
}

func TestExtractShapeMismatchNamesSeries(t *testing.T) {
	m := panel(t, map[string][]float64{
		"a": constant(13, 1),
		"b": constant(13, 2),
	}, "a", "b")

	for _, rep := range []Representation{&MSP{Period: 12}, &FeaClip{Window: 12}} {
		fm, err := Extract(m, rep)
		assert.Nil(t, fm)
		require.ErrorIs(t, err, ErrShapeMismatch)

		var shape *ShapeError
		require.True(t, errors.As(err, &shape))
		assert.Equal(t, "a", shape.Series)
		assert.Equal(t, 13, shape.Length)
		assert.Contains(t, err.Error(), `"a"`)
	}
}

func TestMatrixIsReadOnly(t *testing.T) {
	fm, err := NewMatrix("custom", []string{"x", "y"}, [][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)

	row := fm.Row(0)
	row[0] = 100
	assert.Equal(t, 1.0, fm.At(0, 0))

	names := fm.Names()
	names[0] = "z"
	assert.Equal(t, "x", fm.Name(0))

	assert.Equal(t, 3.0, fm.T().At(0, 1))
}

func TestNewMatrixErrors(t *testing.T) {
	_, err := NewMatrix("x", nil, nil)
	assert.Error(t, err)
	_, err = NewMatrix("x", []string{"a"}, [][]float64{{}})
	assert.Error(t, err)
	_, err = NewMatrix("x", []string{"a", "b"}, [][]float64{{1, 2}, {3}})
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	fm, err := NewMatrix(MethodMSP, []string{"x"}, [][]float64{{0.5, -1}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, fm.WriteCSV(&buf))
	assert.Equal(t, "unique_id,phase_1,phase_2\nx,0.5,-1\n", buf.String())

	fc, err := NewMatrix(MethodFeaClip, []string{"x"}, [][]float64{make([]float64, 16)})
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, fc.WriteCSV(&buf))
	header := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.True(t, strings.HasPrefix(header, "unique_id,w1_max_1,w1_sum_1"))
	assert.True(t, strings.HasSuffix(header, "w2_l_1"))
}
