package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/tempus/internal/db"
	"github.com/alexanderramin/tempus/internal/domain"
)

const orgColumns = `id, firestore_id, company_name, address_line1, address_line2,
		zip_code, city, country, tax_id, email, phone, logo_ref,
		created_by, created_at, updated_at`

// SQLiteOrganizationRepo implements OrganizationRepo using a SQLite database.
type SQLiteOrganizationRepo struct {
	db db.DBTX
}

// NewSQLiteOrganizationRepo creates a new SQLiteOrganizationRepo over a *sql.DB or *sql.Tx.
func NewSQLiteOrganizationRepo(db db.DBTX) *SQLiteOrganizationRepo {
	return &SQLiteOrganizationRepo{db: db}
}

func (r *SQLiteOrganizationRepo) Create(ctx context.Context, o *domain.Organization) error {
	query := `INSERT INTO organizations (` + orgColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		o.ID, o.FirestoreID,
		o.Corporate.CompanyName, o.Corporate.AddressLine1, o.Corporate.AddressLine2,
		o.Corporate.ZipCode, o.Corporate.City, o.Corporate.Country,
		o.Corporate.TaxID, o.Corporate.Email, o.Corporate.Phone, o.Corporate.LogoRef,
		o.CreatedBy,
		o.CreatedAt.Format(time.RFC3339Nano),
		o.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting organization: %w", err)
	}
	return nil
}

func (r *SQLiteOrganizationRepo) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE id = ?`
	return r.scanOrg(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteOrganizationRepo) GetByRemoteID(ctx context.Context, firestoreID string) (*domain.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE firestore_id = ?`
	return r.scanOrg(r.db.QueryRowContext(ctx, query, firestoreID))
}

func (r *SQLiteOrganizationRepo) List(ctx context.Context) ([]*domain.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*domain.Organization
	for rows.Next() {
		o, err := r.scanOrgRow(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating organizations: %w", err)
	}
	return orgs, nil
}

func (r *SQLiteOrganizationRepo) Update(ctx context.Context, o *domain.Organization) error {
	query := `UPDATE organizations SET firestore_id = ?, company_name = ?, address_line1 = ?,
		address_line2 = ?, zip_code = ?, city = ?, country = ?, tax_id = ?, email = ?,
		phone = ?, logo_ref = ?, created_by = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		o.FirestoreID,
		o.Corporate.CompanyName, o.Corporate.AddressLine1, o.Corporate.AddressLine2,
		o.Corporate.ZipCode, o.Corporate.City, o.Corporate.Country,
		o.Corporate.TaxID, o.Corporate.Email, o.Corporate.Phone, o.Corporate.LogoRef,
		o.CreatedBy,
		o.UpdatedAt.Format(time.RFC3339Nano),
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("updating organization: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("organization %s: %w", o.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteOrganizationRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM organizations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting organization: %w", err)
	}
	return nil
}

func (r *SQLiteOrganizationRepo) scanOrg(row *sql.Row) (*domain.Organization, error) {
	var o domain.Organization
	var createdAtStr, updatedAtStr string
	err := row.Scan(
		&o.ID, &o.FirestoreID,
		&o.Corporate.CompanyName, &o.Corporate.AddressLine1, &o.Corporate.AddressLine2,
		&o.Corporate.ZipCode, &o.Corporate.City, &o.Corporate.Country,
		&o.Corporate.TaxID, &o.Corporate.Email, &o.Corporate.Phone, &o.Corporate.LogoRef,
		&o.CreatedBy, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("organization: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning organization: %w", err)
	}
	return r.populateOrg(&o, createdAtStr, updatedAtStr)
}

func (r *SQLiteOrganizationRepo) scanOrgRow(rows *sql.Rows) (*domain.Organization, error) {
	var o domain.Organization
	var createdAtStr, updatedAtStr string
	err := rows.Scan(
		&o.ID, &o.FirestoreID,
		&o.Corporate.CompanyName, &o.Corporate.AddressLine1, &o.Corporate.AddressLine2,
		&o.Corporate.ZipCode, &o.Corporate.City, &o.Corporate.Country,
		&o.Corporate.TaxID, &o.Corporate.Email, &o.Corporate.Phone, &o.Corporate.LogoRef,
		&o.CreatedBy, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning organization row: %w", err)
	}
	return r.populateOrg(&o, createdAtStr, updatedAtStr)
}

func (r *SQLiteOrganizationRepo) populateOrg(o *domain.Organization, createdAtStr, updatedAtStr string) (*domain.Organization, error) {
	var err error
	o.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	o.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return o, nil
}
