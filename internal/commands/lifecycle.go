package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/content-hub/internal/concept"
	"github.com/nhle/content-hub/internal/model"
	"github.com/nhle/content-hub/internal/stage"
	"github.com/nhle/content-hub/internal/theme"
)

var AdvanceCmd = &cobra.Command{
	Use:   "advance <concept-id>",
	Short: "Move a concept to the next stage",
	Long:  `Move a concept to the next stage once every checkpoint of its current stage is complete.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAdvance,
}

var StageCmd = &cobra.Command{
	Use:   "stage <concept-id> <status>",
	Short: "Set a concept's stage directly",
	Long:  `Set a concept's stage to any status. The checkpoints of the concept are cleared.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runStage,
}

var ArchiveCmd = &cobra.Command{
	Use:   "archive <concept-id>",
	Short: "Archive a concept",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchive,
}

var DeleteCmd = &cobra.Command{
	Use:   "delete <concept-id>",
	Short: "Delete a concept (it is archived, not removed)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var DuplicateCmd = &cobra.Command{
	Use:   "duplicate <concept-id>",
	Short: "Copy a concept into a new idea-stage concept",
	Args:  cobra.ExactArgs(1),
	RunE:  runDuplicate,
}

func runAdvance(cmd *cobra.Command, args []string) error {
	return withRuntime(cmd.Context(), func(rt *runtime) error {
		next, err := rt.svc.AdvanceStage(cmd.Context(), args[0])
		if errors.Is(err, concept.ErrNotReady) {
			c, getErr := rt.svc.Get(cmd.Context(), args[0])
			if getErr == nil {
				if st, ok := stage.Get(c.Status); ok {
					done := stage.CompletedCount(c.Status, rt.svc.Checkpoints(c.ID))
					return fmt.Errorf("%w (%d/%d done)", err, done, len(st.Checkpoints))
				}
			}
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], theme.StageBadge(next))
		return nil
	})
}

func runStage(cmd *cobra.Command, args []string) error {
	status := model.Status(args[1])
	return withRuntime(cmd.Context(), func(rt *runtime) error {
		if err := rt.svc.ChangeStage(cmd.Context(), args[0], status); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], theme.StageBadge(status))
		return nil
	})
}

func runArchive(cmd *cobra.Command, args []string) error {
	return withRuntime(cmd.Context(), func(rt *runtime) error {
		if err := rt.svc.ArchiveConcept(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Archived %s\n", args[0])
		return nil
	})
}

func runDelete(cmd *cobra.Command, args []string) error {
	return withRuntime(cmd.Context(), func(rt *runtime) error {
		if err := rt.svc.DeleteConcept(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (moved to archived)\n", args[0])
		return nil
	})
}

func runDuplicate(cmd *cobra.Command, args []string) error {
	return withRuntime(cmd.Context(), func(rt *runtime) error {
		c, err := rt.svc.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		dup, err := rt.svc.DuplicateConcept(cmd.Context(), c)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", dup.ID, dup.Name)
		return nil
	})
}
