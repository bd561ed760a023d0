package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/tempus/internal/db"
	"github.com/alexanderramin/tempus/internal/domain"
	"github.com/alexanderramin/tempus/internal/remote"
	"github.com/alexanderramin/tempus/internal/repository"
)

// SessionAdapter binds completed sessions to users/{uid}/sessions. Only
// completed sessions travel this path; the running-session slot is purely
// local.
type SessionAdapter struct{}

var _ Adapter[*domain.Session] = SessionAdapter{}

func (SessionAdapter) Kind() remote.Kind { return remote.KindSessions }

// Flushable keeps the running-session slot out of the reconnect flush: a
// session is pushed only once it has completed.
func (SessionAdapter) Flushable(s *domain.Session) bool {
	return !s.Running && s.Stop != nil
}

func (SessionAdapter) Encode(s *domain.Session) map[string]any {
	data := map[string]any{
		"projectId":  s.ProjectID,
		"start":      s.Start,
		"durationMs": s.DurationMS,
		"pausedMs":   s.PausedMS,
		"note":       s.Note,
		"createdAt":  s.CreatedAt,
	}
	if s.Stop != nil {
		data["stop"] = *s.Stop
	}
	return data
}

func (SessionAdapter) Decode(remoteID string, data map[string]any) (*domain.Session, error) {
	createdAt := payloadTime(data, "createdAt")
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return &domain.Session{
		ID:          uuid.New().String(),
		FirestoreID: remoteID,
		ProjectID:   payloadString(data, "projectId"),
		Start:       payloadTime(data, "start"),
		Stop:        payloadTimePtr(data, "stop"),
		DurationMS:  payloadInt64(data, "durationMs"),
		PausedMS:    payloadInt64(data, "pausedMs"),
		Note:        payloadString(data, "note"),
		CreatedAt:   createdAt,
	}, nil
}

func (SessionAdapter) Merge(s *domain.Session, data map[string]any) {
	s.ProjectID = payloadString(data, "projectId")
	s.Start = payloadTime(data, "start")
	s.Stop = payloadTimePtr(data, "stop")
	s.DurationMS = payloadInt64(data, "durationMs")
	s.PausedMS = payloadInt64(data, "pausedMs")
	s.Note = payloadString(data, "note")
}

func (SessionAdapter) Get(ctx context.Context, tx db.DBTX, localID string) (*domain.Session, error) {
	return repository.NewSQLiteSessionRepo(tx).GetByID(ctx, localID)
}

func (SessionAdapter) GetByRemoteID(ctx context.Context, tx db.DBTX, remoteID string) (*domain.Session, error) {
	return repository.NewSQLiteSessionRepo(tx).GetByRemoteID(ctx, remoteID)
}

func (SessionAdapter) Insert(ctx context.Context, tx db.DBTX, s *domain.Session) error {
	return repository.NewSQLiteSessionRepo(tx).Create(ctx, s)
}

func (SessionAdapter) Update(ctx context.Context, tx db.DBTX, s *domain.Session) error {
	return repository.NewSQLiteSessionRepo(tx).Update(ctx, s)
}

func (SessionAdapter) Delete(ctx context.Context, tx db.DBTX, localID string) error {
	return repository.NewSQLiteSessionRepo(tx).Delete(ctx, localID)
}

func (SessionAdapter) List(ctx context.Context, tx db.DBTX) ([]*domain.Session, error) {
	return repository.NewSQLiteSessionRepo(tx).List(ctx)
}
