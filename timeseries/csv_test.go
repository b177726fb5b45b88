package timeseries

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPanelCSVLong(t *testing.T) {
	csvData := `unique_id,ds,y
A,2020-01-01,100
B,2020-01-01,200
A,2020-02-01,101
B,2020-02-01,201
A,2020-03-01,102
B,2020-03-01,202`

	m, dropped, err := LoadPanelCSVFromReader(strings.NewReader(csvData), nil)
	require.NoError(t, err)

	assert.Empty(t, dropped)
	assert.Equal(t, []string{"A", "B"}, m.Names())
	assert.Equal(t, []float64{100, 101, 102}, m.Values(0))
	assert.Equal(t, []float64{200, 201, 202}, m.Values(1))
	assert.Equal(t, 2020, m.Start().Year())
}

func TestLoadPanelCSVLongOutOfOrder(t *testing.T) {
	csvData := `unique_id,ds,y
A,2020-03,3
A,2020-01,1
A,2020-02,2`

	m, _, err := LoadPanelCSVFromReader(strings.NewReader(csvData), nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, m.Values(0))
}

func TestLoadPanelCSVDropsIncomplete(t *testing.T) {
	csvData := `unique_id,ds,y
A,2020-01-01,1
A,2020-02-01,2
A,2020-03-01,3
B,2020-01-01,1
B,2020-02-01,NA
B,2020-03-01,3
C,2020-01-01,5
C,2020-03-01,6`

	m, dropped, err := LoadPanelCSVFromReader(strings.NewReader(csvData), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, m.Names())
	assert.Equal(t, []string{"B", "C"}, dropped)
}

func TestLoadPanelCSVIncompleteFails(t *testing.T) {
	csvData := `unique_id,ds,y
A,2020-01-01,1
A,2020-02-01,2
B,2020-01-01,1`

	opts := DefaultCSVOptions()
	opts.DropIncomplete = false

	_, _, err := LoadPanelCSVFromReader(strings.NewReader(csvData), opts)
	assert.ErrorIs(t, err, ErrMissingValues)
}

func TestLoadPanelCSVDuplicateMonth(t *testing.T) {
	daily := `unique_id,ds,y
A,2020-01-01,1
A,2020-01-02,2
A,2020-02-01,3`

	_, _, err := LoadPanelCSVFromReader(strings.NewReader(daily), nil)
	assert.ErrorIs(t, err, ErrDuplicateObservation)
	assert.ErrorContains(t, err, "2020-01")

	wide := `id,2020-01,2020-01-15,2020-02
A,1,2,3`
	opts := DefaultCSVOptions()
	opts.Format = FormatWide
	_, _, err = LoadPanelCSVFromReader(strings.NewReader(wide), opts)
	assert.ErrorIs(t, err, ErrDuplicateObservation)
}

func TestLoadPanelCSVWide(t *testing.T) {
	csvData := `park,2019-01,2019-02,2019-03
Acadia,10,20,30
Zion,1,,3
Yosemite,4,5,6`

	opts := DefaultCSVOptions()
	opts.Format = FormatWide
	opts.IDColumn = "park"

	m, dropped, err := LoadPanelCSVFromReader(strings.NewReader(csvData), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"Acadia", "Yosemite"}, m.Names())
	assert.Equal(t, []string{"Zion"}, dropped)
	assert.Equal(t, []float64{10, 20, 30}, m.Values(0))
	assert.Equal(t, 2019, m.Start().Year())
}

func TestLoadPanelCSVWideUndated(t *testing.T) {
	csvData := `id,t1,t2
x,1,2
y,3,4`

	opts := DefaultCSVOptions()
	opts.Format = FormatWide

	m, _, err := LoadPanelCSVFromReader(strings.NewReader(csvData), opts)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, m.Values(1))
	assert.True(t, m.Start().IsZero())
}

func TestLoadPanelCSVErrors(t *testing.T) {
	_, _, err := LoadPanelCSVFromReader(strings.NewReader("a,b\n"), nil)
	assert.Error(t, err, "missing id/date/value columns")

	_, _, err = LoadPanelCSVFromReader(strings.NewReader("unique_id,ds,y\n"), nil)
	assert.ErrorIs(t, err, ErrNoData)

	_, _, err = LoadPanelCSVFromReader(strings.NewReader("unique_id,ds,y\nA,someday,1\n"), nil)
	assert.Error(t, err)

	opts := DefaultCSVOptions()
	opts.Format = "parquet"
	_, _, err = LoadPanelCSVFromReader(strings.NewReader("unique_id,ds,y\n"), opts)
	assert.Error(t, err)
}

func TestLoadPanelCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visits.csv")
	data := "unique_id,ds,y\nA,2020-01-01,1\nA,2020-02-01,2\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	m, _, err := LoadPanelCSV(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())

	_, _, err = LoadPanelCSV(filepath.Join(t.TempDir(), "missing.csv"), nil)
	assert.Error(t, err)
}

func TestWriteMatrixCSV(t *testing.T) {
	csvData := `unique_id,ds,y
A,2020-01-01,1.5
A,2020-02-01,2`

	m, _, err := LoadPanelCSVFromReader(strings.NewReader(csvData), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteMatrixCSV(&buf, m))
	assert.Equal(t, "unique_id,2020-01,2020-02\nA,1.5,2\n", buf.String())

	// What we write, the wide loader reads back.
	opts := DefaultCSVOptions()
	opts.Format = FormatWide
	back, _, err := LoadPanelCSVFromReader(&buf, opts)
	require.NoError(t, err)
	assert.Equal(t, m.Values(0), back.Values(0))
}

func TestSortedNames(t *testing.T) {
	in := []string{"b", "a"}
	assert.Equal(t, []string{"a", "b"}, SortedNames(in))
	assert.Equal(t, []string{"b", "a"}, in)
}
