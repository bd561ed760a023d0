package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/tempus/internal/db"
	"github.com/alexanderramin/tempus/internal/domain"
)

const noteColumns = `id, firestore_id, note, created_at`

// SQLiteNoteRepo implements NoteRepo using a SQLite database.
type SQLiteNoteRepo struct {
	db db.DBTX
}

// NewSQLiteNoteRepo creates a new SQLiteNoteRepo over a *sql.DB or *sql.Tx.
func NewSQLiteNoteRepo(db db.DBTX) *SQLiteNoteRepo {
	return &SQLiteNoteRepo{db: db}
}

func (r *SQLiteNoteRepo) Create(ctx context.Context, n *domain.PredefinedNote) error {
	query := `INSERT INTO predefined_notes (` + noteColumns + `) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.FirestoreID, n.Note, n.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("inserting predefined note: %w", err)
	}
	return nil
}

func (r *SQLiteNoteRepo) GetByID(ctx context.Context, id string) (*domain.PredefinedNote, error) {
	query := `SELECT ` + noteColumns + ` FROM predefined_notes WHERE id = ?`
	return r.scanNote(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteNoteRepo) GetByRemoteID(ctx context.Context, firestoreID string) (*domain.PredefinedNote, error) {
	query := `SELECT ` + noteColumns + ` FROM predefined_notes WHERE firestore_id = ?`
	return r.scanNote(r.db.QueryRowContext(ctx, query, firestoreID))
}

func (r *SQLiteNoteRepo) List(ctx context.Context) ([]*domain.PredefinedNote, error) {
	query := `SELECT ` + noteColumns + ` FROM predefined_notes ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing predefined notes: %w", err)
	}
	defer rows.Close()

	var notes []*domain.PredefinedNote
	for rows.Next() {
		var n domain.PredefinedNote
		var createdAtStr string
		if err := rows.Scan(&n.ID, &n.FirestoreID, &n.Note, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning note row: %w", err)
		}
		n.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		notes = append(notes, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notes: %w", err)
	}
	return notes, nil
}

func (r *SQLiteNoteRepo) Update(ctx context.Context, n *domain.PredefinedNote) error {
	query := `UPDATE predefined_notes SET firestore_id = ?, note = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, n.FirestoreID, n.Note, n.ID)
	if err != nil {
		return fmt.Errorf("updating predefined note: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("predefined note %s: %w", n.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteNoteRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM predefined_notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting predefined note: %w", err)
	}
	return nil
}

func (r *SQLiteNoteRepo) scanNote(row *sql.Row) (*domain.PredefinedNote, error) {
	var n domain.PredefinedNote
	var createdAtStr string
	err := row.Scan(&n.ID, &n.FirestoreID, &n.Note, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("predefined note: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning predefined note: %w", err)
	}
	n.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &n, nil
}
