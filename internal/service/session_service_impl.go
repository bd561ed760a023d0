package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderramin/tempus/internal/domain"
	"github.com/alexanderramin/tempus/internal/repository"
	"github.com/alexanderramin/tempus/internal/timer"
)

// SessionExporter pushes a completed session to the remote store and writes
// the assigned identifier back to the local row. Satisfied by the session
// reconciliation engine.
type SessionExporter interface {
	Export(ctx context.Context, s *domain.Session) error
}

type sessionService struct {
	machine  *timer.Machine
	sessions repository.SessionRepo
	exporter SessionExporter
	observer UseCaseObserver
	logger   *slog.Logger
}

// NewSessionService creates the session facade. exporter may be nil when no
// remote client is configured.
func NewSessionService(machine *timer.Machine, sessions repository.SessionRepo, exporter SessionExporter, logger *slog.Logger, observers ...UseCaseObserver) SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &sessionService{
		machine:  machine,
		sessions: sessions,
		exporter: exporter,
		observer: useCaseObserverOrNoop(observers),
		logger:   logger,
	}
}

func (s *sessionService) Start(ctx context.Context, projectID, note string) (session *domain.Session, err error) {
	defer s.observe(ctx, "start-session", time.Now().UTC(), map[string]any{"project_id": projectID}, &err)
	return s.machine.Start(ctx, projectID, note)
}

func (s *sessionService) Pause(ctx context.Context) (*domain.Session, error) {
	return s.machine.Pause(ctx)
}

func (s *sessionService) Resume(ctx context.Context) (*domain.Session, error) {
	return s.machine.Resume(ctx)
}

// Stop completes the running session locally, then forwards it to the
// remote store best effort. A push failure never fails the stop: timer
// correctness must not depend on connectivity.
func (s *sessionService) Stop(ctx context.Context) (session *domain.Session, err error) {
	defer s.observe(ctx, "stop-session", time.Now().UTC(), nil, &err)

	done, err := s.machine.Stop(ctx)
	if err != nil {
		return nil, err
	}

	if s.exporter != nil {
		if pushErr := s.exporter.Export(ctx, done); pushErr != nil {
			s.logger.Info("session kept local-only", "session_id", done.ID, "err", pushErr)
		}
	}
	return done, nil
}

func (s *sessionService) Discard(ctx context.Context) (err error) {
	defer s.observe(ctx, "discard-session", time.Now().UTC(), nil, &err)
	return s.machine.Discard(ctx)
}

func (s *sessionService) Status(ctx context.Context) (*TimerStatus, error) {
	return &TimerStatus{
		State:   s.machine.State(),
		Session: s.machine.Current(),
		Elapsed: s.machine.Elapsed(),
	}, nil
}

func (s *sessionService) List(ctx context.Context) ([]*domain.Session, error) {
	return s.sessions.List(ctx)
}

func (s *sessionService) ListByProject(ctx context.Context, projectID string) ([]*domain.Session, error) {
	return s.sessions.ListByProject(ctx, projectID)
}

func (s *sessionService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err *error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:     name,
		Duration: time.Since(startedAt),
		Success:  *err == nil,
		Err:      *err,
		Fields:   fields,
	})
}
