// Package timer owns the running-session state machine. Elapsed time is
// always derived from persisted timestamps, so a reload, crash or suspended
// process recomputes the same value a live process would have shown.
package timer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/tempus/internal/db"
	"github.com/alexanderramin/tempus/internal/domain"
	"github.com/alexanderramin/tempus/internal/repository"
)

// State is the machine's externally visible state.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

// Machine serializes all timer transitions and persists each one, keeping
// the at-most-one-running invariant. The schema's partial unique index on
// sessions(running) backs the same invariant at the storage level.
type Machine struct {
	uow db.UnitOfWork
	now func() time.Time

	mu      sync.Mutex
	current *domain.Session
}

// NewMachine creates a timer machine. now defaults to time.Now; tests
// inject a fixed clock.
func NewMachine(uow db.UnitOfWork, now func() time.Time) *Machine {
	if now == nil {
		now = time.Now
	}
	return &Machine{uow: uow, now: now}
}

// Restore reads the persisted running-session record back into the slot.
// Called once after startup; a crash mid-session loses nothing because
// every transition was persisted with its timestamps.
func (m *Machine) Restore(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var s *domain.Session
	err := m.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var getErr error
		s, getErr = repository.NewSQLiteSessionRepo(tx).GetRunning(ctx)
		if errors.Is(getErr, repository.ErrNotFound) {
			s = nil
			return nil
		}
		return getErr
	})
	if err != nil {
		return fmt.Errorf("restoring running session: %w", err)
	}
	m.current = s
	return nil
}

// State reports the current machine state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.current == nil:
		return StateIdle
	case m.current.Paused:
		return StatePaused
	default:
		return StateRunning
	}
}

// Current returns a copy of the running session, or nil when idle.
func (m *Machine) Current() *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	c := *m.current
	return &c
}

// Elapsed derives the running session's accumulated working time at the
// machine's current clock reading. Zero when idle.
func (m *Machine) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return 0
	}
	return m.current.Elapsed(m.now())
}

// Start creates and persists a new running session. Rejected with
// ErrSessionActive while the slot is occupied, for any project: the caller
// must stop or discard the other session first.
func (m *Machine) Start(ctx context.Context, projectID, note string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		return nil, fmt.Errorf("starting session for project %s: %w", projectID, domain.ErrSessionActive)
	}
	if projectID == "" {
		return nil, fmt.Errorf("starting session: project is required: %w", domain.ErrValidation)
	}

	now := m.now()
	s := &domain.Session{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Start:     now,
		Running:   true,
		Note:      note,
		CreatedAt: now,
	}

	err := m.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteSessionRepo(tx).Create(ctx, s)
	})
	if err != nil {
		return nil, fmt.Errorf("persisting started session: %w", err)
	}

	m.current = s
	c := *s
	return &c, nil
}

// Pause freezes elapsed time at the current instant.
func (m *Machine) Pause(ctx context.Context) (*domain.Session, error) {
	return m.transition(ctx, func(s *domain.Session) error {
		return s.MarkPaused(m.now())
	})
}

// Resume folds the ended pause interval into the accumulated paused total.
func (m *Machine) Resume(ctx context.Context) (*domain.Session, error) {
	return m.transition(ctx, func(s *domain.Session) error {
		return s.MarkResumed(m.now())
	})
}

// Stop completes the running session. The record leaves the slot and
// becomes a completed session with durationMs = stop - start - pausedMs.
func (m *Machine) Stop(ctx context.Context) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil, fmt.Errorf("stopping session: %w", domain.ErrNoSession)
	}

	s := *m.current
	if err := s.Finish(m.now()); err != nil {
		return nil, err
	}

	err := m.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteSessionRepo(tx).Update(ctx, &s)
	})
	if err != nil {
		return nil, fmt.Errorf("persisting stopped session: %w", err)
	}

	m.current = nil
	c := s
	return &c, nil
}

// Discard deletes the running session entirely; no completed session
// remains. Confirmation is the caller's responsibility.
func (m *Machine) Discard(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return fmt.Errorf("discarding session: %w", domain.ErrNoSession)
	}

	id := m.current.ID
	err := m.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteSessionRepo(tx).Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("deleting discarded session: %w", err)
	}

	m.current = nil
	return nil
}

// transition applies a domain mutation to the slot and persists it
// atomically; the slot keeps its previous value if persistence fails.
func (m *Machine) transition(ctx context.Context, mutate func(*domain.Session) error) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil, fmt.Errorf("timer transition: %w", domain.ErrNoSession)
	}

	s := *m.current
	if err := mutate(&s); err != nil {
		return nil, err
	}

	err := m.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteSessionRepo(tx).Update(ctx, &s)
	})
	if err != nil {
		return nil, fmt.Errorf("persisting timer transition: %w", err)
	}

	m.current = &s
	c := s
	return &c, nil
}
