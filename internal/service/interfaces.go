package service

import (
	"context"
	"time"

	"github.com/alexanderramin/tempus/internal/domain"
	"github.com/alexanderramin/tempus/internal/timer"
)

// TimerStatus is the running-session slot as seen by the UI.
type TimerStatus struct {
	State   timer.State
	Session *domain.Session
	Elapsed time.Duration
}

// SessionService is the session store facade: it hosts the timer state
// machine and the session push path. Timer transitions never depend on
// connectivity.
type SessionService interface {
	Start(ctx context.Context, projectID, note string) (*domain.Session, error)
	Pause(ctx context.Context) (*domain.Session, error)
	Resume(ctx context.Context) (*domain.Session, error)
	Stop(ctx context.Context) (*domain.Session, error)
	Discard(ctx context.Context) error
	Status(ctx context.Context) (*TimerStatus, error)
	List(ctx context.Context) ([]*domain.Session, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Session, error)
}

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// EnsureByName resolves a project by name, creating it when absent.
	EnsureByName(ctx context.Context, name string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type NoteService interface {
	Add(ctx context.Context, text string) (*domain.PredefinedNote, error)
	Edit(ctx context.Context, id, text string) error
	Remove(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.PredefinedNote, error)
	StartSync(ctx context.Context) error
	StopSync()
	SyncErr() error
}

type OrganizationService interface {
	Save(ctx context.Context, info domain.CorporateInfo) (*domain.Organization, error)
	Get(ctx context.Context) (*domain.Organization, error)
	StartSync(ctx context.Context) error
	StopSync()
	SyncErr() error
}
