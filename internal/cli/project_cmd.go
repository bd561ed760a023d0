package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tempus/internal/cli/formatter"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectListCmd(app),
		newProjectArchiveCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var includeArchived bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(context.Background(), includeArchived)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Println("No projects")
				return nil
			}
			for _, p := range projects {
				name := formatter.StyleBold.Render(p.Name)
				if p.Archived {
					name = formatter.StyleDim.Render(p.Name + " (archived)")
				}
				fmt.Printf("%s  %s\n", formatter.StyleDim.Render(p.ID[:8]), name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeArchived, "all", false, "Include archived projects")
	return cmd
}

func newProjectArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <name>",
		Short: "Archive a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.Projects.EnsureByName(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Archive(ctx, p.ID); err != nil {
				return err
			}
			fmt.Printf("Archived %s\n", p.Name)
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a project and its sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("deleting a project removes its sessions; re-run with --yes to confirm")
			}
			ctx := context.Background()
			p, err := app.Projects.EnsureByName(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(ctx, p.ID); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", p.Name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes", false, "Confirm the deletion")
	return cmd
}
