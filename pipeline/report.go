package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/sartorproj/seasonclust/features"
	"github.com/sartorproj/seasonclust/kmeans"
)

// Report joins a clustering result back onto the series names.
type Report struct {
	RunID      string           `json:"run_id"`
	CreatedAt  time.Time        `json:"created_at"`
	Method     string           `json:"method"`
	K          int              `json:"k"`
	Seed       int64            `json:"seed"`
	Restarts   int              `json:"restarts"`
	SSE        float64          `json:"sse"`
	TotalSS    float64          `json:"total_ss"`
	Explained  float64          `json:"explained"`
	Iterations int              `json:"iterations"`
	Converged  bool             `json:"converged"`
	Recoveries int              `json:"recoveries,omitempty"`
	Clusters   []ClusterSummary `json:"clusters"`
	// Assignments lists every series in input row order.
	Assignments []Assignment `json:"assignments"`
	Degenerate  []string     `json:"degenerate,omitempty"`
}

// ClusterSummary describes one cluster.
type ClusterSummary struct {
	Label    int       `json:"label"`
	Size     int       `json:"size"`
	SSE      float64   `json:"sse"`
	Members  []string  `json:"members"`
	Centroid []float64 `json:"centroid"`
}

// Assignment is the cluster label of one series.
type Assignment struct {
	Series  string `json:"series"`
	Cluster int    `json:"cluster"`
}

// NewReport builds the report of res, computed on fm with config.
func NewReport(fm *features.Matrix, res *kmeans.Result, config *kmeans.Config, totalSS float64) *Report {
	r := &Report{
		RunID:      uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Method:     fm.Method(),
		K:          res.K,
		Seed:       config.Seed,
		Restarts:   config.Restarts,
		SSE:        res.SSE,
		TotalSS:    totalSS,
		Iterations: res.Iterations,
		Converged:  res.Converged,
		Recoveries: res.Recoveries,
	}
	if totalSS > 0 {
		r.Explained = 1 - res.SSE/totalSS
	}

	names := fm.Names()
	r.Assignments = make([]Assignment, len(res.Labels))
	for i, label := range res.Labels {
		r.Assignments[i] = Assignment{Series: names[i], Cluster: label}
	}

	r.Clusters = make([]ClusterSummary, res.K)
	for c := 0; c < res.K; c++ {
		label := c + 1
		var members []string
		for _, row := range res.Members(label) {
			members = append(members, names[row])
		}
		r.Clusters[c] = ClusterSummary{
			Label:    label,
			Size:     res.Sizes[c],
			SSE:      res.WithinSSE[c],
			Members:  members,
			Centroid: res.Centroids[c],
		}
	}

	for _, row := range fm.Degenerate() {
		r.Degenerate = append(r.Degenerate, names[row])
	}
	return r
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteAssignmentsCSV writes series,cluster rows in input order.
func (r *Report) WriteAssignmentsCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"series", "cluster"}); err != nil {
		return err
	}
	for _, a := range r.Assignments {
		if err := writer.Write([]string{a.Series, strconv.Itoa(a.Cluster)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
