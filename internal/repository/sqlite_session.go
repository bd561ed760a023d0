package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/tempus/internal/db"
	"github.com/alexanderramin/tempus/internal/domain"
)

// sessionColumns is the canonical SELECT column list for sessions.
const sessionColumns = `id, firestore_id, project_id, start, stop,
		duration_ms, paused_ms, running, paused, paused_at, note, created_at`

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo over a *sql.DB or *sql.Tx.
func NewSQLiteSessionRepo(db db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: db}
}

func (r *SQLiteSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	query := `INSERT INTO sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.FirestoreID,
		s.ProjectID,
		s.Start.Format(time.RFC3339Nano),
		nullableTimeToString(s.Stop, time.RFC3339Nano),
		s.DurationMS,
		s.PausedMS,
		boolToInt(s.Running),
		boolToInt(s.Paused),
		nullableTimeToString(s.PausedAt, time.RFC3339Nano),
		s.Note,
		s.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`
	return r.scanSession(r.db.QueryRowContext(ctx, query, id))
}

// GetRunning returns the single session occupying the running-session slot,
// or ErrNotFound when the slot is empty.
func (r *SQLiteSessionRepo) GetRunning(ctx context.Context) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE running = 1`
	return r.scanSession(r.db.QueryRowContext(ctx, query))
}

func (r *SQLiteSessionRepo) GetByRemoteID(ctx context.Context, firestoreID string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE firestore_id = ?`
	return r.scanSession(r.db.QueryRowContext(ctx, query, firestoreID))
}

func (r *SQLiteSessionRepo) List(ctx context.Context) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions ORDER BY start DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

func (r *SQLiteSessionRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE project_id = ? ORDER BY start DESC`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing sessions by project: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

func (r *SQLiteSessionRepo) Update(ctx context.Context, s *domain.Session) error {
	query := `UPDATE sessions SET firestore_id = ?, project_id = ?, start = ?, stop = ?,
		duration_ms = ?, paused_ms = ?, running = ?, paused = ?, paused_at = ?, note = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.FirestoreID,
		s.ProjectID,
		s.Start.Format(time.RFC3339Nano),
		nullableTimeToString(s.Stop, time.RFC3339Nano),
		s.DurationMS,
		s.PausedMS,
		boolToInt(s.Running),
		boolToInt(s.Paused),
		nullableTimeToString(s.PausedAt, time.RFC3339Nano),
		s.Note,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("session %s: %w", s.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteSessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) scanSession(row *sql.Row) (*domain.Session, error) {
	var s domain.Session
	var startStr, createdAtStr string
	var stopStr, pausedAtStr sql.NullString
	var running, paused int

	err := row.Scan(
		&s.ID, &s.FirestoreID, &s.ProjectID, &startStr, &stopStr,
		&s.DurationMS, &s.PausedMS, &running, &paused, &pausedAtStr, &s.Note, &createdAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	return r.populateSession(&s, startStr, createdAtStr, stopStr, pausedAtStr, running, paused)
}

func (r *SQLiteSessionRepo) scanSessions(rows *sql.Rows) ([]*domain.Session, error) {
	var sessions []*domain.Session
	for rows.Next() {
		var s domain.Session
		var startStr, createdAtStr string
		var stopStr, pausedAtStr sql.NullString
		var running, paused int

		err := rows.Scan(
			&s.ID, &s.FirestoreID, &s.ProjectID, &startStr, &stopStr,
			&s.DurationMS, &s.PausedMS, &running, &paused, &pausedAtStr, &s.Note, &createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}

		session, parseErr := r.populateSession(&s, startStr, createdAtStr, stopStr, pausedAtStr, running, paused)
		if parseErr != nil {
			return nil, parseErr
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

// populateSession fills in parsed fields on a Session after scanning raw strings.
func (r *SQLiteSessionRepo) populateSession(s *domain.Session, startStr, createdAtStr string, stopStr, pausedAtStr sql.NullString, running, paused int) (*domain.Session, error) {
	var parseErr error
	s.Start, parseErr = time.Parse(time.RFC3339Nano, startStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing start: %w", parseErr)
	}
	s.CreatedAt, parseErr = time.Parse(time.RFC3339Nano, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	s.Stop = parseNullableTime(stopStr, time.RFC3339Nano)
	s.PausedAt = parseNullableTime(pausedAtStr, time.RFC3339Nano)
	s.Running = intToBool(running)
	s.Paused = intToBool(paused)
	return s, nil
}
