package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var BusinessesCmd = &cobra.Command{
	Use:   "businesses",
	Short: "List the businesses concepts can belong to",
	Args:  cobra.NoArgs,
	RunE:  runBusinesses,
}

func runBusinesses(cmd *cobra.Command, args []string) error {
	return withRuntime(cmd.Context(), func(rt *runtime) error {
		businesses, err := rt.svc.ListBusinesses(cmd.Context(), rt.cfg.UserID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, b := range businesses {
			name := b.Name
			if b.Color != "" {
				name = lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color)).Render(name)
			}
			fmt.Fprintf(out, "%s  %s\n", b.ID, name)
			if b.Mission != "" {
				fmt.Fprintf(out, "   %s\n", b.Mission)
			}
		}
		fmt.Fprintf(out, "Total: %d businesses\n", len(businesses))
		return nil
	})
}
