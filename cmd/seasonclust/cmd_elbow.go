package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sartorproj/seasonclust/elbow"
)

func newElbowCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "elbow",
		Short: "Print the SSE curve over a range of k",
		Long: `Run k-means once per k in [kmin, kmax] and print the total within-cluster
sum of squares. Choose k where the curve bends; seasonclust does not pick it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fm, err := a.extract()
			if err != nil {
				return err
			}
			curve, err := a.pipeline.Elbow(fm)
			if err != nil {
				return err
			}

			if err := printCurve(cmd.OutOrStdout(), curve); err != nil {
				return err
			}
			if out == "" {
				return nil
			}

			w, err := a.output(out)
			if err != nil {
				return err
			}
			defer w.Close()
			if err := curve.WriteCSV(w); err != nil {
				return err
			}
			log.Info().Str("path", out).Msg("Elbow curve written")
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Also write the curve as CSV")
	cmd.Flags().Int("kmin", 0, "Smallest k (overrides elbow.k_min)")
	cmd.Flags().Int("kmax", 0, "Largest k (overrides elbow.k_max)")
	cmd.Flags().Int("workers", 0, "Concurrent k-means runs (overrides elbow.workers)")
	return cmd
}

// printCurve renders the curve as a table with a bar proportional to SSE.
func printCurve(w io.Writer, curve elbow.Curve) error {
	top := 0.0
	for _, p := range curve {
		top = max(top, p.SSE)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "k\tSSE\texplained\t\t")
	for _, p := range curve {
		bar := 0
		if top > 0 {
			bar = int(40*p.SSE/top + 0.5)
		}
		fmt.Fprintf(tw, "%d\t%.4f\t%.1f%%\t%s\t\n", p.K, p.SSE, 100*p.Explained, strings.Repeat("#", bar))
	}
	return tw.Flush()
}
