package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/realm/internal/domain/recommend"
)

func newRecommendCmd(_ *env) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend [DIM=VALUE...]",
		Short: "Print advice for every dimension below 40",
		Long: `Print advice for every dimension scoring below 40. Dimensions not given
keep the initial score of 50.

Examples:
  realm recommend R=30 L=35`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scores, err := parseAssignments(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			n := 0
			for advice := range recommend.All(scores) {
				fmt.Fprintf(out, "• %s\n", advice)
				n++
			}
			if n == 0 {
				fmt.Fprintf(out, "No recommendations: every dimension is at or above %d.\n", recommend.Threshold)
			}
			return nil
		},
	}
}
