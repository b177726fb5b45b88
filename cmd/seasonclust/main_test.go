package main

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePanel writes a long-format panel of two seasonal and two flat series
// and returns its path.
func writePanel(t *testing.T) string {
	t.Helper()
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

	var b strings.Builder
	b.WriteString("unique_id,ds,y\n")
	for i := 0; i < 24; i++ {
		ds := start.AddDate(0, i, 0).Format("2006-01-02")
		wave := math.Sin(2 * math.Pi * (float64(i%12) + 0.5) / 12)
		for _, row := range []struct {
			id string
			y  float64
		}{
			{"lake", 500 + 200*wave},
			{"dunes", 9000 + 4000*wave},
			{"museum", 300},
			{"caves", 40},
		} {
			b.WriteString(row.id + "," + ds + "," + strconv.FormatFloat(row.y, 'f', -1, 64) + "\n")
		}
	}

	path := filepath.Join(t.TempDir(), "visits.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestElbowCommand(t *testing.T) {
	input := writePanel(t)
	dir := t.TempDir()
	curve := filepath.Join(dir, "elbow.csv")

	out, err := run(t, "elbow", "--input", input, "--kmax", "3", "--workers", "2", "--out", curve)
	require.NoError(t, err)
	assert.Contains(t, out, "explained")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 4)

	data, err := os.ReadFile(curve)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "k,sse,explained\n1,"))
}

func TestClusterCommand(t *testing.T) {
	input := writePanel(t)
	dir := t.TempDir()
	report := filepath.Join(dir, "report.json")
	assignments := filepath.Join(dir, "assignments.csv")
	metrics := filepath.Join(dir, "seasonclust.prom")

	_, err := run(t, "cluster", "--input", input, "--k", "2", "--seed", "3",
		"--out", report, "--assignments", assignments, "--metrics-file", metrics)
	require.NoError(t, err)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var decoded struct {
		K           int   `json:"k"`
		Seed        int64 `json:"seed"`
		Assignments []struct {
			Series  string `json:"series"`
			Cluster int    `json:"cluster"`
		} `json:"assignments"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 2, decoded.K)
	assert.Equal(t, int64(3), decoded.Seed)
	require.Len(t, decoded.Assignments, 4)
	assert.Equal(t, decoded.Assignments[0].Cluster, decoded.Assignments[1].Cluster)
	assert.Equal(t, decoded.Assignments[2].Cluster, decoded.Assignments[3].Cluster)
	assert.NotEqual(t, decoded.Assignments[0].Cluster, decoded.Assignments[2].Cluster)

	csv, err := os.ReadFile(assignments)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(csv), "series,cluster\nlake,"))

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "seasonclust_kmeans_runs_total 1")
}

func TestClusterRequiresK(t *testing.T) {
	_, err := run(t, "cluster", "--input", writePanel(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no k given")
}

func TestFeaturesCommand(t *testing.T) {
	input := writePanel(t)
	out := filepath.Join(t.TempDir(), "features.csv")

	_, err := run(t, "features", "--input", input, "--method", "feaclip", "--window", "12", "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "unique_id,w1_max_1,w1_sum_1,"))
}

func TestFeaturesCommandRaw(t *testing.T) {
	input := writePanel(t)
	out := filepath.Join(t.TempDir(), "aligned.csv")

	_, err := run(t, "features", "--input", input, "--raw", "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "unique_id,2020-01,2020-02,"))
	assert.True(t, strings.HasSuffix(lines[0], ",2021-12"))
	assert.True(t, strings.HasPrefix(lines[3], "museum,300,300,"))
}

func TestConfigFileAndOverrides(t *testing.T) {
	input := writePanel(t)
	dir := t.TempDir()
	config := filepath.Join(dir, "run.yaml")
	yaml := "input:\n  path: " + input + "\ncluster:\n  k: 2\noutput:\n  dir: " + filepath.Join(dir, "out") + "\n"
	require.NoError(t, os.WriteFile(config, []byte(yaml), 0o644))

	_, err := run(t, "cluster", "--config", config, "--out", "report.json")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "out", "report.json"))
	assert.NoError(t, err, "relative outputs land in output.dir")
}

func TestInvalidFlags(t *testing.T) {
	input := writePanel(t)

	_, err := run(t, "elbow", "--input", input, "--method", "dtw")
	assert.ErrorContains(t, err, "features.method")

	_, err = run(t, "elbow", "--input", input, "--kmin", "3", "--kmax", "2")
	assert.ErrorContains(t, err, "elbow.k_max")

	_, err = run(t, "elbow", "--input", input, "--kmax", "5")
	assert.Error(t, err, "k above the number of series")

	_, err = run(t, "elbow", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
