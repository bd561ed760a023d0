package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// newSyncCmd runs the change-stream subscriptions until interrupted.
// Reconnection after a listener failure is a fresh invocation; the engines
// never retry on their own.
func newSyncCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Mirror notes, organization, and pending sessions with the cloud until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if err := app.Notes.StartSync(ctx); err != nil {
				return err
			}
			defer app.Notes.StopSync()
			if err := app.Orgs.StartSync(ctx); err != nil {
				return err
			}
			defer app.Orgs.StopSync()
			if app.SessionSync != nil {
				// Picks up completed sessions whose stop-time push failed
				// while offline.
				if err := app.SessionSync.StartSync(ctx); err != nil {
					return err
				}
				defer app.SessionSync.StopSync()
			}

			if app.Notifier != nil {
				_ = app.Notifier.Notify(ctx, "tempus", "sync started")
			}
			fmt.Println("Syncing, press Ctrl-C to stop")

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop

			if err := app.Notes.SyncErr(); err != nil {
				return fmt.Errorf("note sync ended with error: %w", err)
			}
			if err := app.Orgs.SyncErr(); err != nil {
				return fmt.Errorf("organization sync ended with error: %w", err)
			}
			if app.SessionSync != nil {
				if err := app.SessionSync.Err(); err != nil {
					return fmt.Errorf("session sync ended with error: %w", err)
				}
			}
			return nil
		},
	}
}
