package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nhle/content-hub/internal/commands"
)

// Version is set at build time via -ldflags "-X main.Version=X.Y.Z"
var Version = "0.0.0-dev"

var rootCmd = &cobra.Command{
	Use:   "contenthub",
	Short: "Content Hub - track app concepts from idea to launch",
	Long: `Content Hub tracks app concepts through their lifecycle:
idea, brainstorming, prototyping, final, published, archived.

Each stage has checkpoints. Tick them with "checkpoint toggle" and move on
with "advance" once all of them are done.

Examples:
  contenthub create "Habit Garden"
  contenthub checkpoint toggle <id> problem-defined
  contenthub advance <id>

Config: ~/.config/contenthub/config.yaml`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&commands.ConfigPath, "config", "c", commands.ConfigPath, "Path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&commands.Verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(commands.StagesCmd)
	rootCmd.AddCommand(commands.ListCmd)
	rootCmd.AddCommand(commands.ShowCmd)
	rootCmd.AddCommand(commands.CreateCmd)
	rootCmd.AddCommand(commands.SetCmd)
	rootCmd.AddCommand(commands.TasksCmd)
	rootCmd.AddCommand(commands.AdvanceCmd)
	rootCmd.AddCommand(commands.StageCmd)
	rootCmd.AddCommand(commands.ArchiveCmd)
	rootCmd.AddCommand(commands.DeleteCmd)
	rootCmd.AddCommand(commands.DuplicateCmd)
	rootCmd.AddCommand(commands.CheckpointCmd)
	rootCmd.AddCommand(commands.BusinessesCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
