package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tempus/internal/interchange"
	"github.com/alexanderramin/tempus/internal/notify"
	"github.com/alexanderramin/tempus/internal/service"
)

// SyncController is the subscription handle the sync command drives for a
// collection that has no richer service surface. Satisfied by the
// reconciliation engine.
type SyncController interface {
	StartSync(ctx context.Context) error
	StopSync()
	Err() error
}

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Sessions service.SessionService
	Projects service.ProjectService
	Notes    service.NoteService
	Orgs     service.OrganizationService
	Notifier notify.Notifier
	Importer *interchange.Importer

	// SessionSync flushes completed sessions whose stop-time push failed;
	// optional, nil when no remote client is configured.
	SessionSync SyncController
}

// NewRootCmd creates the top-level "tempus" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "tempus",
		Short: "Local-first time tracker with cloud mirroring",
	}

	root.AddCommand(
		newStartCmd(app),
		newPauseCmd(app),
		newResumeCmd(app),
		newStopCmd(app),
		newDiscardCmd(app),
		newStatusCmd(app),
		newProjectCmd(app),
		newNoteCmd(app),
		newOrgCmd(app),
		newSyncCmd(app),
		newExportCmd(app),
		newImportCmd(app),
	)

	return root
}
