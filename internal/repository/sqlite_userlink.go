package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/tempus/internal/db"
	"github.com/alexanderramin/tempus/internal/domain"
)

// SQLiteUserLinkRepo implements UserLinkRepo using a SQLite database.
type SQLiteUserLinkRepo struct {
	db db.DBTX
}

// NewSQLiteUserLinkRepo creates a new SQLiteUserLinkRepo over a *sql.DB or *sql.Tx.
func NewSQLiteUserLinkRepo(db db.DBTX) *SQLiteUserLinkRepo {
	return &SQLiteUserLinkRepo{db: db}
}

// Upsert writes the membership row for the link's user, replacing any
// previous organization or role for that user.
func (r *SQLiteUserLinkRepo) Upsert(ctx context.Context, l *domain.UserLink) error {
	query := `INSERT INTO user_links (id, user_id, organization_id, role, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE
		SET organization_id = excluded.organization_id,
		    role = excluded.role,
		    updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.UserID, l.OrganizationID, l.Role, l.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upserting user link: %w", err)
	}
	return nil
}

func (r *SQLiteUserLinkRepo) GetByUserID(ctx context.Context, userID string) (*domain.UserLink, error) {
	query := `SELECT id, user_id, organization_id, role, updated_at FROM user_links WHERE user_id = ?`
	var l domain.UserLink
	var updatedAtStr string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&l.ID, &l.UserID, &l.OrganizationID, &l.Role, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user link: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user link: %w", err)
	}
	l.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &l, nil
}

func (r *SQLiteUserLinkRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_links WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting user link: %w", err)
	}
	return nil
}
