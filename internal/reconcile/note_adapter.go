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

// NoteAdapter binds predefined notes to the users/{uid}/predefinedNotes
// collection.
type NoteAdapter struct{}

var _ Adapter[*domain.PredefinedNote] = NoteAdapter{}

func (NoteAdapter) Kind() remote.Kind { return remote.KindNotes }

func (NoteAdapter) Encode(n *domain.PredefinedNote) map[string]any {
	return map[string]any{
		"note":      n.Note,
		"createdAt": n.CreatedAt,
	}
}

func (NoteAdapter) Decode(remoteID string, data map[string]any) (*domain.PredefinedNote, error) {
	createdAt := payloadTime(data, "createdAt")
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return &domain.PredefinedNote{
		ID:          uuid.New().String(),
		FirestoreID: remoteID,
		Note:        payloadString(data, "note"),
		CreatedAt:   createdAt,
	}, nil
}

func (NoteAdapter) Merge(n *domain.PredefinedNote, data map[string]any) {
	n.Note = payloadString(data, "note")
}

func (NoteAdapter) Get(ctx context.Context, tx db.DBTX, localID string) (*domain.PredefinedNote, error) {
	return repository.NewSQLiteNoteRepo(tx).GetByID(ctx, localID)
}

func (NoteAdapter) GetByRemoteID(ctx context.Context, tx db.DBTX, remoteID string) (*domain.PredefinedNote, error) {
	return repository.NewSQLiteNoteRepo(tx).GetByRemoteID(ctx, remoteID)
}

func (NoteAdapter) Insert(ctx context.Context, tx db.DBTX, n *domain.PredefinedNote) error {
	return repository.NewSQLiteNoteRepo(tx).Create(ctx, n)
}

func (NoteAdapter) Update(ctx context.Context, tx db.DBTX, n *domain.PredefinedNote) error {
	return repository.NewSQLiteNoteRepo(tx).Update(ctx, n)
}

func (NoteAdapter) Delete(ctx context.Context, tx db.DBTX, localID string) error {
	return repository.NewSQLiteNoteRepo(tx).Delete(ctx, localID)
}

func (NoteAdapter) List(ctx context.Context, tx db.DBTX) ([]*domain.PredefinedNote, error) {
	return repository.NewSQLiteNoteRepo(tx).List(ctx)
}
