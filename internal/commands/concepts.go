package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nhle/content-hub/internal/model"
	"github.com/nhle/content-hub/internal/stage"
	"github.com/nhle/content-hub/internal/theme"
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List concepts",
	Long:  `List every concept owned by the configured user_id, or all concepts when user_id is empty.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var ShowCmd = &cobra.Command{
	Use:   "show <concept-id>",
	Short: "Show one concept with its stage checkpoints",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var CreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new concept in the idea stage",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

var SetCmd = &cobra.Command{
	Use:   "set <concept-id> <field> [value]",
	Short: "Set a checkpoint field; omit the value to clear it",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runSet,
}

var TasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List the tasks of every concept",
	Args:  cobra.NoArgs,
	RunE:  runTasks,
}

func runList(cmd *cobra.Command, args []string) error {
	return withRuntime(cmd.Context(), func(rt *runtime) error {
		concepts, err := rt.svc.FetchAll(cmd.Context(), rt.cfg.UserID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(concepts) == 0 {
			fmt.Fprintln(out, "No concepts yet")
			fmt.Fprintln(out, theme.HelpStyle.Render("Create one with: contenthub create <name>"))
			return nil
		}
		for _, c := range concepts {
			fmt.Fprintf(out, "%s  %s %s  %s health %s\n",
				c.ID,
				theme.StageBadge(c.Status),
				theme.ProgressBar(c.Progress, 10),
				c.Name,
				theme.HealthStyle(c.HealthScore).Render(fmt.Sprintf("%d", c.HealthScore)),
			)
		}
		fmt.Fprintf(out, "\nTotal: %d concepts\n", len(concepts))
		return nil
	})
}

func runShow(cmd *cobra.Command, args []string) error {
	return withRuntime(cmd.Context(), func(rt *runtime) error {
		c, err := rt.svc.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printConcept(cmd.OutOrStdout(), c, rt.svc.Checkpoints(c.ID))
		return nil
	})
}

func printConcept(out io.Writer, c model.Concept, completed []string) {
	fmt.Fprintln(out, theme.HeaderStyle.Render(c.Name))
	fmt.Fprintf(out, "ID:       %s\n", c.ID)
	fmt.Fprintf(out, "Stage:    %s (%s)\n", theme.StageBadge(c.Status), c.Phase)
	fmt.Fprintf(out, "Progress: %s %d%%\n", theme.ProgressBar(c.Progress, 20), c.Progress)
	fmt.Fprintf(out, "Health:   %s\n", theme.HealthStyle(c.HealthScore).Render(fmt.Sprintf("%d", c.HealthScore)))
	if c.Description != "" {
		fmt.Fprintf(out, "\n%s\n", c.Description)
	}

	st, ok := stage.Get(c.Status)
	if !ok || len(st.Checkpoints) == 0 {
		return
	}
	done := make(map[string]bool, len(completed))
	for _, id := range completed {
		done[id] = true
	}

	fmt.Fprintf(out, "\nCheckpoints %d/%d\n", stage.CompletedCount(c.Status, completed), len(st.Checkpoints))
	var lines string
	for _, cp := range st.Checkpoints {
		value, _ := cp.Field.Get(&c)
		if value == "" {
			value = theme.HelpStyle.Render(cp.Placeholder)
		}
		lines += fmt.Sprintf("%s %s\n    %s\n", theme.CheckpointMark(done[cp.ID]), cp.Label, value)
	}
	fmt.Fprintln(out, theme.PanelStyle.Render(lines))
	if stage.ReadyToAdvance(c.Status, completed) {
		fmt.Fprintln(out, theme.HelpStyle.Render("Ready to advance: contenthub advance "+c.ID))
	}
}

func runCreate(cmd *cobra.Command, args []string) error {
	return withRuntime(cmd.Context(), func(rt *runtime) error {
		c, err := rt.svc.Create(cmd.Context(), rt.cfg.UserID, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", c.ID, c.Name)
		return nil
	})
}

func runSet(cmd *cobra.Command, args []string) error {
	value := ""
	if len(args) == 3 {
		value = args[2]
	}
	return withRuntime(cmd.Context(), func(rt *runtime) error {
		if err := rt.svc.SetField(cmd.Context(), args[0], stage.Field(args[1]), value); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s on %s\n", args[1], args[0])
		return nil
	})
}

func runTasks(cmd *cobra.Command, args []string) error {
	return withRuntime(cmd.Context(), func(rt *runtime) error {
		tasks, err := rt.svc.AllTasks(cmd.Context(), rt.cfg.UserID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, t := range tasks {
			fmt.Fprintf(out, "%-12s %-8s %s  (%s)\n", t.Status, t.Priority, t.Title, t.ConceptName)
		}
		fmt.Fprintf(out, "Total: %d tasks\n", len(tasks))
		return nil
	})
}
