package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/tempus/internal/cli"
	"github.com/alexanderramin/tempus/internal/cli/formatter"
	"github.com/alexanderramin/tempus/internal/config"
	"github.com/alexanderramin/tempus/internal/db"
	"github.com/alexanderramin/tempus/internal/domain"
	"github.com/alexanderramin/tempus/internal/interchange"
	"github.com/alexanderramin/tempus/internal/notify"
	"github.com/alexanderramin/tempus/internal/reconcile"
	"github.com/alexanderramin/tempus/internal/remote"
	"github.com/alexanderramin/tempus/internal/repository"
	"github.com/alexanderramin/tempus/internal/service"
	"github.com/alexanderramin/tempus/internal/timer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		formatter.DisableColors()
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	sessionRepo := repository.NewSQLiteSessionRepo(database)
	noteRepo := repository.NewSQLiteNoteRepo(database)
	orgRepo := repository.NewSQLiteOrganizationRepo(database)
	linkRepo := repository.NewSQLiteUserLinkRepo(database)

	// Recover the running-session slot left by a previous process.
	machine := timer.NewMachine(uow, time.Now)
	if err := machine.Restore(ctx); err != nil {
		return fmt.Errorf("restoring timer state: %w", err)
	}

	// The remote store is optional: without a configured Firestore project,
	// or when the client fails to initialize, everything runs local-only.
	var store remote.Store
	if cfg.FirestoreProject != "" {
		fs, err := remote.NewFirestoreStore(ctx, cfg.FirestoreProject, cfg.CredentialsFile)
		if err != nil {
			logger.Warn("remote store unavailable, running local-only", "err", err)
		} else {
			defer fs.Close()
			store = fs
		}
	}
	auth := remote.StaticAuth(cfg.UserID)

	noteEngine := reconcile.NewEngine[*domain.PredefinedNote](reconcile.NoteAdapter{}, store, auth, uow, logger)
	orgEngine := reconcile.NewEngine[*domain.Organization](reconcile.OrgAdapter{}, store, auth, uow, logger)
	sessionEngine := reconcile.NewEngine[*domain.Session](reconcile.SessionAdapter{}, store, auth, uow, logger)

	var observers []service.UseCaseObserver
	if cfg.LogLevel == "debug" {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	projectSvc := service.NewProjectService(projectRepo)
	app := &cli.App{
		Sessions: service.NewSessionService(machine, sessionRepo, sessionEngine, logger, observers...),
		Projects: projectSvc,
		Notes:    service.NewNoteService(noteEngine, noteRepo),
		Orgs:     service.NewOrganizationService(orgEngine, orgRepo, linkRepo, auth, logger),
		Notifier: &notify.LogNotifier{Logger: logger},
		Importer: &interchange.Importer{Projects: projectSvc, Sessions: sessionRepo},

		SessionSync: sessionEngine,
	}

	return cli.NewRootCmd(app).Execute()
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
