package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/content-hub/internal/stage"
	"github.com/nhle/content-hub/internal/theme"
)

var CheckpointCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Manage the checkpoints of a concept's current stage",
}

var checkpointListCmd = &cobra.Command{
	Use:   "list <concept-id>",
	Short: "List the current stage checkpoints",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheckpointList,
}

var checkpointToggleCmd = &cobra.Command{
	Use:   "toggle <concept-id> <checkpoint-id>",
	Short: "Mark a checkpoint done, or undo it",
	Args:  cobra.ExactArgs(2),
	RunE:  runCheckpointToggle,
}

func init() {
	CheckpointCmd.AddCommand(checkpointListCmd)
	CheckpointCmd.AddCommand(checkpointToggleCmd)
}

func runCheckpointList(cmd *cobra.Command, args []string) error {
	return withRuntime(cmd.Context(), func(rt *runtime) error {
		c, err := rt.svc.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		st, ok := stage.Get(c.Status)
		out := cmd.OutOrStdout()
		if !ok || len(st.Checkpoints) == 0 {
			fmt.Fprintf(out, "%s has no checkpoints\n", theme.StageBadge(c.Status))
			return nil
		}

		done := make(map[string]bool)
		for _, id := range rt.svc.Checkpoints(c.ID) {
			done[id] = true
		}
		for _, cp := range st.Checkpoints {
			fmt.Fprintf(out, "%s %-22s %s\n", theme.CheckpointMark(done[cp.ID]), cp.ID, cp.Label)
		}
		return nil
	})
}

func runCheckpointToggle(cmd *cobra.Command, args []string) error {
	return withRuntime(cmd.Context(), func(rt *runtime) error {
		c, err := rt.svc.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		completed, err := rt.svc.ToggleCheckpoint(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		st, _ := stage.Get(c.Status)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d checkpoints done\n",
			args[0], stage.CompletedCount(c.Status, completed), len(st.Checkpoints))
		return nil
	})
}
