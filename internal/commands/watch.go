package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/content-hub/internal/sync"
	"github.com/nhle/content-hub/internal/theme"
)

var watchInterval time.Duration

var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the store and print concepts as they move between stages",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	WatchCmd.Flags().DurationVar(&watchInterval, "interval", 30*time.Second, "Time between polls")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withRuntime(ctx, func(rt *runtime) error {
		p := sync.New(rt.svc, rt.cfg.UserID, watchInterval, rt.log)
		results := p.Start()
		defer p.Stop()

		out := cmd.OutOrStdout()
		for {
			select {
			case <-ctx.Done():
				return nil
			case r := <-results:
				stamp := r.At.Format("15:04:05")
				if r.Error != nil {
					fmt.Fprintf(out, "%s poll failed: %v\n", stamp, r.Error)
					continue
				}
				if len(r.Changes) == 0 {
					rt.log.Debug("poll done", "concepts", r.Concepts)
					continue
				}
				for _, c := range r.Changes {
					switch c.Kind {
					case sync.ChangeAdded:
						fmt.Fprintf(out, "%s + %s %s\n", stamp, c.Name, theme.StageBadge(c.To))
					case sync.ChangeRemoved:
						fmt.Fprintf(out, "%s - %s\n", stamp, c.Name)
					default:
						fmt.Fprintf(out, "%s %s %s -> %s\n", stamp, c.Name, theme.StageBadge(c.From), theme.StageBadge(c.To))
					}
				}
			}
		}
	})
}
