package main

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newClusterCmd(a *app) *cobra.Command {
	var out, assignments string

	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Partition the series into k clusters",
		Long:  "Run k-means with the chosen k and write the JSON report of labels, sizes and centroids",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.pipeline.Config().Cluster.K == 0 {
				return errors.New("no k given: set cluster.k or pass --k (run `seasonclust elbow` to choose one)")
			}

			fm, err := a.extract()
			if err != nil {
				return err
			}
			report, err := a.pipeline.Cluster(fm, 0)
			if err != nil {
				return err
			}

			w, err := a.output(out)
			if err != nil {
				return err
			}
			defer w.Close()
			if err := report.WriteJSON(w); err != nil {
				return err
			}

			if assignments != "" {
				f, err := a.output(assignments)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := report.WriteAssignmentsCSV(f); err != nil {
					return err
				}
				log.Info().Str("path", assignments).Msg("Assignments written")
			}
			return nil
		},
	}

	cmd.Flags().Int("k", 0, "Number of clusters (overrides cluster.k)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Report JSON file (default stdout)")
	cmd.Flags().StringVar(&assignments, "assignments", "", "Also write series,cluster CSV")
	return cmd
}
