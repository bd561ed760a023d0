package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tempus/internal/cli/formatter"
)

func newNoteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage predefined notes",
	}

	cmd.AddCommand(
		newNoteAddCmd(app),
		newNoteListCmd(app),
		newNoteEditCmd(app),
		newNoteRemoveCmd(app),
	)

	return cmd
}

func newNoteAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Add a predefined note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.Notes.Add(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Added note %s\n", formatter.StyleDim.Render(n.ID[:8]))
			return nil
		},
	}
}

func newNoteListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List predefined notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, err := app.Notes.List(context.Background())
			if err != nil {
				return err
			}
			if len(notes) == 0 {
				fmt.Println("No predefined notes")
				return nil
			}
			for _, n := range notes {
				marker := formatter.StyleGreen.Render("synced")
				if n.FirestoreID == "" {
					marker = formatter.StyleYellow.Render("local")
				}
				fmt.Printf("%s  %-40s %s\n", formatter.StyleDim.Render(n.ID[:8]), n.Note, marker)
			}
			return nil
		},
	}
}

func newNoteEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text>",
		Short: "Edit a predefined note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Notes.Edit(context.Background(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("Note updated")
			return nil
		},
	}
}

func newNoteRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a predefined note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Notes.Remove(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Note deleted")
			return nil
		},
	}
}
