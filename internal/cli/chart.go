package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/realm/internal/chart"
)

func newChartCmd(_ *env) *cobra.Command {
	var (
		output     string
		size       int
		title      string
		fullLabels bool
	)
	cmd := &cobra.Command{
		Use:   "chart [DIM=VALUE...]",
		Short: "Render the radar chart as SVG",
		Long: `Render the five scores as an SVG radar chart. Dimensions not given keep
the initial score of 50.

Examples:
  realm chart R=30 E=70 > radar.svg
  realm chart -o radar.svg --full-labels M=90`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scores, err := parseAssignments(args)
			if err != nil {
				return err
			}
			opts := []chart.Option{chart.WithSize(size), chart.WithTitle(title)}
			if fullLabels {
				opts = append(opts, chart.WithFullLabels())
			}

			if output == "" || output == "-" {
				return chart.Render(cmd.OutOrStdout(), scores, opts...)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := chart.Render(f, scores, opts...); err != nil {
				_ = f.Close()
				return fmt.Errorf("render %s: %w", output, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().IntVar(&size, "size", 360, "width and height in pixels")
	cmd.Flags().StringVar(&title, "title", "", "title drawn above the chart")
	cmd.Flags().BoolVar(&fullLabels, "full-labels", false, "label axes with dimension names")
	return cmd
}
