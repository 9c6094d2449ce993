package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/content-hub/internal/stage"
	"github.com/nhle/content-hub/internal/theme"
)

var StagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "Show the lifecycle stages and their checkpoints",
	Args:  cobra.NoArgs,
	RunE:  runStages,
}

func runStages(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for i, st := range stage.All() {
		fmt.Fprintf(out, "%d. %s %s\n", i+1, theme.StageBadge(st.ID), theme.HelpStyle.Render(st.Description))
		for _, cp := range st.Checkpoints {
			fmt.Fprintf(out, "     %-22s %s (%s)\n", cp.ID, cp.Label, cp.Field)
		}
		if len(st.KeyQuestions) > 0 {
			fmt.Fprintln(out, "   Key questions:")
			for _, q := range st.KeyQuestions {
				fmt.Fprintf(out, "     - %s\n", q)
			}
		}
		fmt.Fprintln(out)
	}
	return nil
}
