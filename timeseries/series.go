// Package timeseries provides core time series data structures and operations.
package timeseries

import (
	"math"
	"time"
)

// Series represents a named time series with timestamps and values.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string
}

// New creates a new monthly time series from values, starting at the
// Unix epoch month.
func New(values []float64) *Series {
	return NewMonthly("", time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC), values)
}

// NewMonthly creates a named series with one observation per month
// beginning at start.
func NewMonthly(name string, start time.Time, values []float64) *Series {
	start = monthStart(start)
	timestamps := make([]time.Time, len(values))
	for i := range timestamps {
		timestamps[i] = start.AddDate(0, i, 0)
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       name,
	}
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// HasGaps reports whether the series contains NaN or infinite values.
func (s *Series) HasGaps() bool {
	for _, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// monthIndex maps a timestamp to a running month number.
func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

func monthFromIndex(idx int) time.Time {
	return time.Date(idx/12, time.Month(idx%12+1), 1, 0, 0, 0, 0, time.UTC)
}
