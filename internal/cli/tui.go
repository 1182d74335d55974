package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/realm/internal/tui"
)

func newTUICmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Score interactively in the terminal",
		Long: `Open the full-screen scoring view: arrow keys move between and adjust the
sliders, s saves a snapshot, i edits the idea, enter adds it, q quits.`,
		Args: cobra.NoArgs,
		// Log lines would tear the full-screen view.
		Annotations: map[string]string{annotationQuietLog: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeSvc, err := e.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeSvc()
			return tui.Run(svc)
		},
	}
}
