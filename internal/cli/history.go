package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/okian/realm/internal/domain/history"
	"github.com/okian/realm/internal/domain/model"
)

func newHistoryCmd(e *env) *cobra.Command {
	var (
		summary bool
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved snapshots",
		Long: `List the saved snapshots, oldest first, or summarize them per dimension.

Examples:
  realm history
  realm history --summary
  realm history --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeSvc, err := e.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeSvc()

			out := cmd.OutOrStdout()
			switch {
			case summary && asJSON:
				return json.NewEncoder(out).Encode(svc.Summary())
			case summary:
				return printSummary(out, svc.Summary())
			case asJSON:
				return json.NewEncoder(out).Encode(svc.History())
			}
			return printHistory(out, svc.History())
		},
	}
	cmd.Flags().BoolVar(&summary, "summary", false, "per-dimension statistics")
	cmd.Flags().BoolVar(&asJSON, "json", false, "JSON output")
	return cmd
}

func printHistory(w io.Writer, snaps []model.Snapshot) error {
	if len(snaps) == 0 {
		_, err := fmt.Fprintln(w, "No snapshots saved.")
		return err
	}
	for _, s := range snaps {
		scores, err := json.Marshal(s.Scores)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s → %s\n", s.Date, scores); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(w io.Writer, sum history.Summary) error {
	if sum.Count == 0 {
		_, err := fmt.Fprintln(w, "No snapshots saved.")
		return err
	}
	fmt.Fprintf(w, "%d snapshots from %s to %s\n\n", sum.Count, sum.First, sum.Latest)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DIMENSION\tMEAN\tSTDDEV\tMIN\tMAX\tDELTA")
	for _, d := range sum.Dimensions {
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%.0f\t%.0f\t%+.0f\n",
			d.Dimension.Name(), d.Mean, d.StdDev, d.Min, d.Max, d.Delta)
	}
	return tw.Flush()
}
