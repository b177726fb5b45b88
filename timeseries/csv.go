package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Panel file layouts.
const (
	FormatLong = "long" // one row per (series, month): unique_id,ds,y
	FormatWide = "wide" // one row per series: id,v1,v2,...
)

// CSVOptions holds options for panel CSV loading.
type CSVOptions struct {
	Format         string // FormatLong (default) or FormatWide
	IDColumn       string // Column name for series ID (default: "unique_id")
	DateColumn     string // Column name for dates, long format (default: "ds")
	ValueColumn    string // Column name for values, long format (default: "y")
	DateFormat     string // Preferred date format (default: "2006-01-02")
	Delimiter      rune   // Field delimiter (default: ',')
	SkipRows       int    // Number of rows to skip at start
	DropIncomplete bool   // Drop series with missing months instead of failing
	Period         int    // Seasonal period of the loaded matrix (default: 12)
}

// DefaultCSVOptions returns default options for panel loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		Format:         FormatLong,
		IDColumn:       "unique_id",
		DateColumn:     "ds",
		ValueColumn:    "y",
		DateFormat:     "2006-01-02",
		Delimiter:      ',',
		DropIncomplete: true,
		Period:         DefaultPeriod,
	}
}

var (
	// ErrNoData is returned when a file yields no complete series.
	ErrNoData = errors.New("timeseries: no complete series found in CSV")
	// ErrDuplicateObservation is returned when a series has two values for
	// the same month, as with daily or weekly data. Aggregate to months
	// before loading.
	ErrDuplicateObservation = errors.New("timeseries: duplicate observation for month")
)

// LoadPanelCSV loads a series matrix from a CSV file. The second return
// value lists series dropped for missing observations.
func LoadPanelCSV(filename string, opts *CSVOptions) (*Matrix, []string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	return LoadPanelCSVFromReader(file, opts)
}

// LoadPanelCSVFromReader loads a series matrix from an io.Reader.
func LoadPanelCSVFromReader(r io.Reader, opts *CSVOptions) (*Matrix, []string, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, nil, fmt.Errorf("skip row %d: %w", i+1, err)
		}
	}

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = clean(header[i])
	}

	var p *panel
	switch opts.Format {
	case FormatWide:
		p, err = readWide(reader, header, opts)
	case FormatLong, "":
		p, err = readLong(reader, header, opts)
	default:
		return nil, nil, fmt.Errorf("unknown CSV format %q", opts.Format)
	}
	if err != nil {
		return nil, nil, err
	}

	return p.matrix(opts)
}

// panel accumulates observations keyed by series and month.
type panel struct {
	order  []string
	values map[string]map[int]float64
	first  int
	last   int
	dated  bool
}

func newPanel() *panel {
	return &panel{
		values: make(map[string]map[int]float64),
		first:  math.MaxInt,
		last:   math.MinInt,
	}
}

func (p *panel) add(id string, month int, v float64) error {
	obs, ok := p.values[id]
	if !ok {
		obs = make(map[int]float64)
		p.values[id] = obs
		p.order = append(p.order, id)
	}
	if _, dup := obs[month]; dup {
		return fmt.Errorf("%w: %q in %s", ErrDuplicateObservation, id, monthFromIndex(month).Format("2006-01"))
	}
	obs[month] = v
	if month < p.first {
		p.first = month
	}
	if month > p.last {
		p.last = month
	}
	return nil
}

// seen registers a series even when none of its values parse.
func (p *panel) seen(id string) {
	if _, ok := p.values[id]; !ok {
		p.values[id] = make(map[int]float64)
		p.order = append(p.order, id)
	}
}

func (p *panel) matrix(opts *CSVOptions) (*Matrix, []string, error) {
	if len(p.order) == 0 || p.first > p.last {
		return nil, nil, ErrNoData
	}

	n := p.last - p.first + 1
	var (
		series  []*Series
		dropped []string
	)
	for _, id := range p.order {
		obs := p.values[id]
		if len(obs) < n {
			if !opts.DropIncomplete {
				return nil, nil, fmt.Errorf("%w: %q has %d of %d observations", ErrMissingValues, id, len(obs), n)
			}
			dropped = append(dropped, id)
			continue
		}
		values := make([]float64, n)
		for m := p.first; m <= p.last; m++ {
			values[m-p.first] = obs[m]
		}
		if p.dated {
			series = append(series, NewMonthly(id, monthFromIndex(p.first), values))
		} else {
			series = append(series, &Series{Name: id, Values: values})
		}
	}
	if len(series) == 0 {
		return nil, dropped, ErrNoData
	}

	m, err := NewMatrix(series...)
	if err != nil {
		return nil, dropped, err
	}
	return m.WithPeriod(opts.Period), dropped, nil
}

func readLong(reader *csv.Reader, header []string, opts *CSVOptions) (*panel, error) {
	idIdx := columnIndex(header, opts.IDColumn, "unique_id", "id", "ID")
	dateIdx := columnIndex(header, opts.DateColumn, "ds", "date", "Date", "Month")
	valueIdx := columnIndex(header, opts.ValueColumn, "y", "value", "Value")
	if idIdx < 0 || dateIdx < 0 || valueIdx < 0 {
		return nil, fmt.Errorf("long CSV needs id, date and value columns, got %v", header)
	}

	p := newPanel()
	p.dated = true
	line := 1 + opts.SkipRows
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if len(record) <= max(idIdx, dateIdx, valueIdx) {
			continue
		}

		id := clean(record[idIdx])
		if id == "" {
			continue
		}
		p.seen(id)

		ts, err := parseDate(clean(record[dateIdx]), opts.DateFormat)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		v, ok := parseValue(record[valueIdx])
		if !ok {
			continue
		}
		if err := p.add(id, monthIndex(ts), v); err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
	}

	return p, nil
}

func readWide(reader *csv.Reader, header []string, opts *CSVOptions) (*panel, error) {
	idIdx := columnIndex(header, opts.IDColumn, "unique_id", "id", "ID")
	if idIdx < 0 {
		idIdx = 0
	}

	// Columns after the id are time steps. Headers that parse as dates
	// anchor the matrix in calendar time.
	var (
		steps []int
		dated = true
	)
	for i := range header {
		if i == idIdx {
			continue
		}
		steps = append(steps, i)
		if _, err := parseDate(header[i], opts.DateFormat); err != nil {
			dated = false
		}
	}

	p := newPanel()
	p.dated = dated
	line := 1 + opts.SkipRows
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if idIdx >= len(record) {
			continue
		}
		id := clean(record[idIdx])
		if id == "" {
			continue
		}
		p.seen(id)

		for j, col := range steps {
			if col >= len(record) {
				break
			}
			v, ok := parseValue(record[col])
			if !ok {
				continue
			}
			month := j
			if dated {
				ts, _ := parseDate(header[col], opts.DateFormat)
				month = monthIndex(ts)
			}
			if err := p.add(id, month, v); err != nil {
				return nil, fmt.Errorf("row %d: %w", line, err)
			}
		}
	}

	return p, nil
}

// WriteMatrixCSV writes a matrix in wide format, one row per series.
func WriteMatrixCSV(w io.Writer, m *Matrix) error {
	writer := csv.NewWriter(w)

	header := make([]string, 0, m.Len()+1)
	header = append(header, "unique_id")
	first := m.rows[0]
	for i := 0; i < m.Len(); i++ {
		if len(first.Timestamps) == m.Len() && !first.Timestamps[i].IsZero() {
			header = append(header, first.Timestamps[i].Format("2006-01"))
		} else {
			header = append(header, "t"+strconv.Itoa(i+1))
		}
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	record := make([]string, m.Len()+1)
	for _, s := range m.rows {
		record[0] = s.Name
		for i, v := range s.Values {
			record[i+1] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func columnIndex(header []string, preferred string, fallbacks ...string) int {
	if preferred != "" {
		for i, h := range header {
			if h == preferred {
				return i
			}
		}
	}
	for _, name := range fallbacks {
		for i, h := range header {
			if h == name {
				return i
			}
		}
	}
	return -1
}

func parseValue(raw string) (float64, bool) {
	s := clean(raw)
	if s == "" || s == "NA" || s == "NaN" || s == "null" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01",
	"2006/01/02",
	"2006/01",
	"01/02/2006",
	"02-Jan-2006",
	"2006 Jan",
	"Jan 2006",
}

func parseDate(s, preferred string) (time.Time, error) {
	formats := dateFormats
	if preferred != "" {
		formats = append([]string{preferred}, dateFormats...)
	}
	for _, f := range formats {
		if ts, err := time.Parse(f, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func clean(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\""))
}

// SortedNames returns names sorted alphabetically; handy for stable output
// of dropped-series lists.
func SortedNames(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}
