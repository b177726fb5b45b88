package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sartorproj/seasonclust/timeseries"
)

func newFeaturesCmd(a *app) *cobra.Command {
	var (
		out string
		raw bool
	)

	cmd := &cobra.Command{
		Use:   "features",
		Short: "Write the feature matrix of the panel",
		Long: `Reduce every series to its feature vector and write one CSV row per series.
With --raw, write the aligned series matrix that would be reduced instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.pipeline.Load()
			if err != nil {
				return err
			}

			w, err := a.output(out)
			if err != nil {
				return err
			}
			defer w.Close()

			if raw {
				return timeseries.WriteMatrixCSV(w, m)
			}
			fm, err := a.pipeline.Features(m)
			if err != nil {
				return err
			}
			if err := fm.WriteCSV(w); err != nil {
				return err
			}
			if out != "" && out != "-" {
				log.Info().Str("path", out).Msg("Feature matrix written")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output CSV file (default stdout)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Write the aligned series instead of features")
	cmd.Flags().Int("period", 0, "MSP period length (overrides features.period)")
	cmd.Flags().Int("window", 0, "FeaClip window length (overrides features.window)")
	return cmd
}
