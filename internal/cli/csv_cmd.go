package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tempus/internal/interchange"
)

func newExportCmd(app *App) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export completed sessions as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			sessions, err := app.Sessions.List(ctx)
			if err != nil {
				return err
			}

			names := map[string]string{}
			projects, err := app.Projects.List(ctx, true)
			if err != nil {
				return err
			}
			for _, p := range projects {
				names[p.ID] = p.Name
			}

			out := os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer f.Close()
				out = f
			}

			return interchange.Export(out, sessions, func(id string) string { return names[id] })
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import sessions from CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening import file: %w", err)
			}
			defer f.Close()

			importer := app.Importer
			if importer == nil {
				return fmt.Errorf("csv import is not configured")
			}

			result, err := importer.Run(context.Background(), f)
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d sessions, skipped %d rows\n", result.Imported, result.Skipped)
			for _, reason := range result.SkippedReasons {
				fmt.Printf("  skipped: %s\n", reason)
			}
			for _, name := range result.CreatedProjects {
				fmt.Printf("  created project %q\n", name)
			}
			return nil
		},
	}

	return cmd
}
