package features

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/seasonclust/timeseries"
)

// Matrix holds one feature vector per series, in the row order of the
// series matrix it was extracted from. It is immutable and satisfies
// gonum's mat.Matrix, so it can be handed to the clustering packages
// directly.
type Matrix struct {
	names      []string
	method     string
	data       *mat.Dense
	degenerate []int
}

// Extract reduces every row of m with r. The result has m.Rows() rows in
// the same order. The first series that cannot be reduced aborts the
// extraction with a *ShapeError naming it.
func Extract(m *timeseries.Matrix, r Representation) (*Matrix, error) {
	n := m.Rows()

	var (
		flat       []float64
		dim        int
		degenerate []int
	)
	for i := 0; i < n; i++ {
		vec, flatRow, err := r.Reduce(m.Values(i))
		if err != nil {
			var shape *ShapeError
			if errors.As(err, &shape) {
				shape.Series = m.Name(i)
			}
			return nil, err
		}
		if i == 0 {
			dim = len(vec)
			flat = make([]float64, 0, n*dim)
		}
		if len(vec) != dim {
			return nil, fmt.Errorf("features: %s produced %d values for %q, want %d", r.Name(), len(vec), m.Name(i), dim)
		}
		flat = append(flat, vec...)
		if flatRow {
			degenerate = append(degenerate, i)
		}
	}

	return &Matrix{
		names:      m.Names(),
		method:     r.Name(),
		data:       mat.NewDense(n, dim, flat),
		degenerate: degenerate,
	}, nil
}

// NewMatrix builds a feature matrix from precomputed vectors, one per name.
func NewMatrix(method string, names []string, rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 || len(rows) != len(names) {
		return nil, fmt.Errorf("features: need one row per name, got %d rows for %d names", len(rows), len(names))
	}

	dim := len(rows[0])
	if dim == 0 {
		return nil, errors.New("features: rows must not be empty")
	}
	flat := make([]float64, 0, len(rows)*dim)
	for i, row := range rows {
		if len(row) != dim {
			return nil, fmt.Errorf("features: row %d has %d values, want %d", i, len(row), dim)
		}
		flat = append(flat, row...)
	}

	return &Matrix{
		names:  append([]string(nil), names...),
		method: method,
		data:   mat.NewDense(len(rows), dim, flat),
	}, nil
}

// Dims implements mat.Matrix.
func (m *Matrix) Dims() (r, c int) {
	return m.data.Dims()
}

// At implements mat.Matrix.
func (m *Matrix) At(i, j int) float64 {
	return m.data.At(i, j)
}

// T implements mat.Matrix.
func (m *Matrix) T() mat.Matrix {
	return mat.Transpose{Matrix: m}
}

// Row returns a copy of feature vector i.
func (m *Matrix) Row(i int) []float64 {
	return mat.Row(nil, i, m.data)
}

// Name returns the series name of row i.
func (m *Matrix) Name(i int) string {
	return m.names[i]
}

// Names returns the series names in row order.
func (m *Matrix) Names() []string {
	return append([]string(nil), m.names...)
}

// Method returns the name of the representation that built the matrix.
func (m *Matrix) Method() string {
	return m.method
}

// Degenerate returns the rows whose series had no variation to normalize.
// Their feature vectors are all zero.
func (m *Matrix) Degenerate() []int {
	return append([]int(nil), m.degenerate...)
}

// WriteCSV writes the matrix with a unique_id column followed by one
// column per feature.
func (m *Matrix) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	r, c := m.Dims()

	header := make([]string, c+1)
	header[0] = "unique_id"
	for j := 0; j < c; j++ {
		header[j+1] = m.column(j)
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	record := make([]string, c+1)
	for i := 0; i < r; i++ {
		record[0] = m.names[i]
		for j := 0; j < c; j++ {
			record[j+1] = strconv.FormatFloat(m.data.At(i, j), 'g', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func (m *Matrix) column(j int) string {
	switch m.method {
	case MethodMSP:
		return "phase_" + strconv.Itoa(j+1)
	case MethodFeaClip:
		k := len(FeaClipFeatures)
		return fmt.Sprintf("w%d_%s", j/k+1, FeaClipFeatures[j%k])
	default:
		return "f" + strconv.Itoa(j+1)
	}
}
