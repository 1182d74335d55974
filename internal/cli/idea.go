package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/okian/realm/internal/domain/model"
	"github.com/okian/realm/internal/domain/scoring"
)

func newIdeaCmd(_ *env) *cobra.Command {
	d := model.NewDraft()
	cmd := &cobra.Command{
		Use:   "idea <text>",
		Short: "Score an opportunity idea",
		Long: `Score an idea as impact*0.5 + novelty*0.3 + alignment*0.2. Ratings run
from 1 to 10 and default to 5.

Examples:
  realm idea --impact 8 --novelty 6 --alignment 4 "Community pop-up"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d.Idea = strings.Join(args, " ")
			opp, err := scoring.NewOpportunity(uuid.NewString(), d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "⭐ %s → Score: %.1f\n", opp.Idea, opp.Score)
			return nil
		},
	}
	cmd.Flags().IntVar(&d.Impact, "impact", model.DefaultRating, "impact rating 1-10")
	cmd.Flags().IntVar(&d.Novelty, "novelty", model.DefaultRating, "novelty rating 1-10")
	cmd.Flags().IntVar(&d.Alignment, "alignment", model.DefaultRating, "alignment rating 1-10")
	return cmd
}
