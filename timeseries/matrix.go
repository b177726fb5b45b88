package timeseries

import (
	"errors"
	"fmt"
	"time"
)

// DefaultPeriod is the seasonal period of monthly data.
const DefaultPeriod = 12

var (
	// ErrEmptyMatrix is returned when a matrix would hold no series.
	ErrEmptyMatrix = errors.New("timeseries: matrix needs at least one series")
	// ErrRaggedMatrix is returned when series lengths differ.
	ErrRaggedMatrix = errors.New("timeseries: series lengths differ")
	// ErrDuplicateName is returned when two series share a name.
	ErrDuplicateName = errors.New("timeseries: duplicate series name")
	// ErrMisaligned is returned when series start in different months.
	ErrMisaligned = errors.New("timeseries: series start in different months")
	// ErrMissingValues is returned when a series contains NaN or Inf.
	ErrMissingValues = errors.New("timeseries: series has missing values")
)

// Matrix is a rectangular panel of N named series with T aligned
// observations each. Row order is fixed at construction and defines the
// order of every derived artifact.
type Matrix struct {
	rows   []*Series
	index  map[string]int
	period int
	start  time.Time
}

// NewMatrix builds a matrix from series, in the given order. Series are
// copied, so later changes to the arguments do not affect the matrix.
func NewMatrix(series ...*Series) (*Matrix, error) {
	if len(series) == 0 {
		return nil, ErrEmptyMatrix
	}

	t := series[0].Len()
	m := &Matrix{
		rows:   make([]*Series, len(series)),
		index:  make(map[string]int, len(series)),
		period: DefaultPeriod,
	}
	if len(series[0].Timestamps) > 0 {
		m.start = series[0].Timestamps[0]
	}

	for i, s := range series {
		if s.Len() != t {
			return nil, fmt.Errorf("%w: %q has %d observations, want %d", ErrRaggedMatrix, s.Name, s.Len(), t)
		}
		if len(s.Timestamps) > 0 && len(series[0].Timestamps) > 0 &&
			monthIndex(s.Timestamps[0]) != monthIndex(series[0].Timestamps[0]) {
			return nil, fmt.Errorf("%w: %q starts %s, %q starts %s", ErrMisaligned,
				s.Name, s.Timestamps[0].Format("2006-01"), series[0].Name, series[0].Timestamps[0].Format("2006-01"))
		}
		if s.HasGaps() {
			return nil, fmt.Errorf("%w: %q", ErrMissingValues, s.Name)
		}
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("series_%d", i+1)
		}
		if _, ok := m.index[name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		row := s.Copy()
		row.Name = name
		m.rows[i] = row
		m.index[name] = i
	}

	return m, nil
}

// WithPeriod returns a matrix sharing m's rows with its seasonal period set
// to p. m itself is unchanged. A non-positive p keeps the current period.
func (m *Matrix) WithPeriod(p int) *Matrix {
	c := *m
	if p > 0 {
		c.period = p
	}
	return &c
}

// Period returns the seasonal period of the observations.
func (m *Matrix) Period() int {
	return m.period
}

// Start returns the timestamp of the first observation, if known.
func (m *Matrix) Start() time.Time {
	return m.start
}

// Rows returns N, the number of series.
func (m *Matrix) Rows() int {
	return len(m.rows)
}

// Len returns T, the number of observations per series.
func (m *Matrix) Len() int {
	return m.rows[0].Len()
}

// Names returns the series names in row order.
func (m *Matrix) Names() []string {
	names := make([]string, len(m.rows))
	for i, s := range m.rows {
		names[i] = s.Name
	}
	return names
}

// Name returns the name of row i.
func (m *Matrix) Name(i int) string {
	return m.rows[i].Name
}

// Values returns the observations of row i. The slice is shared with the
// matrix and must not be modified.
func (m *Matrix) Values(i int) []float64 {
	return m.rows[i].Values
}
