package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tempus/internal/cli/formatter"
)

func newStartCmd(app *App) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "start <project>",
		Short: "Start a work session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			project, err := app.Projects.EnsureByName(ctx, args[0])
			if err != nil {
				return err
			}

			session, err := app.Sessions.Start(ctx, project.ID, note)
			if err != nil {
				return err
			}

			fmt.Printf("Started session for %s at %s\n",
				formatter.StyleBold.Render(project.Name),
				session.Start.Local().Format("15:04:05"))
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Session note")
	return cmd
}

func newPauseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause the running session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.Sessions.Pause(context.Background()); err != nil {
				return err
			}
			fmt.Println("Session paused")
			return nil
		},
	}
}

func newResumeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume the paused session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.Sessions.Resume(context.Background()); err != nil {
				return err
			}
			fmt.Println("Session resumed")
			return nil
		},
	}
}

func newStopCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.Sessions.Stop(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("Stopped session, %s worked\n",
				formatter.FormatDuration(time.Duration(session.DurationMS)*time.Millisecond))
			return nil
		},
	}
}

func newDiscardCmd(app *App) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "discard",
		Short: "Discard the running session without keeping a record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("discard deletes the running session; re-run with --yes to confirm")
			}
			if err := app.Sessions.Discard(context.Background()); err != nil {
				return err
			}
			fmt.Println("Session discarded")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes", false, "Confirm the discard")
	return cmd
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the timer state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			status, err := app.Sessions.Status(ctx)
			if err != nil {
				return err
			}

			fmt.Println(formatter.StateIndicator(status.State))
			if status.Session == nil {
				return nil
			}

			projectName := status.Session.ProjectID
			if p, err := app.Projects.GetByID(ctx, status.Session.ProjectID); err == nil {
				projectName = p.Name
			}
			fmt.Printf("  Project: %s\n", formatter.StyleBold.Render(projectName))
			fmt.Printf("  Elapsed: %s\n", formatter.StyleBlue.Render(formatter.FormatDuration(status.Elapsed)))
			if status.Session.Note != "" {
				fmt.Printf("  Note:    %s\n", status.Session.Note)
			}
			return nil
		},
	}
}
