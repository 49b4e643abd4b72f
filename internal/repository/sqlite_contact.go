package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
)

// SQLiteContactRepo implements ContactRepo over a DBTX.
type SQLiteContactRepo struct {
	q db.DBTX
}

// NewSQLiteContactRepo creates a new SQLiteContactRepo.
func NewSQLiteContactRepo(q db.DBTX) *SQLiteContactRepo {
	return &SQLiteContactRepo{q: q}
}

func (r *SQLiteContactRepo) Create(ctx context.Context, c *domain.Contact) error {
	query := `INSERT INTO contacts (id, name, type, email, phone, notes, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query,
		c.ID,
		c.Name,
		string(c.Type),
		c.Email,
		c.Phone,
		c.Notes,
		boolToInt(c.IsActive),
		c.CreatedAt.Format(time.RFC3339),
		c.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting contact: %w", err)
	}
	return nil
}

func (r *SQLiteContactRepo) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	query := `SELECT id, name, type, email, phone, notes, is_active, created_at, updated_at
		FROM contacts WHERE id = ?`
	row := r.q.QueryRowContext(ctx, query, id)

	c, err := scanContact(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("contact: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning contact: %w", err)
	}
	return c, nil
}

func (r *SQLiteContactRepo) List(ctx context.Context, activeOnly bool) ([]*domain.Contact, error) {
	query := `SELECT id, name, type, email, phone, notes, is_active, created_at, updated_at
		FROM contacts`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY name`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*domain.Contact
	for rows.Next() {
		c, err := scanContact(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning contact row: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contacts: %w", err)
	}
	return contacts, nil
}

func (r *SQLiteContactRepo) Update(ctx context.Context, c *domain.Contact) error {
	query := `UPDATE contacts SET name = ?, type = ?, email = ?, phone = ?, notes = ?,
		is_active = ?, updated_at = ? WHERE id = ?`
	res, err := r.q.ExecContext(ctx, query,
		c.Name,
		string(c.Type),
		c.Email,
		c.Phone,
		c.Notes,
		boolToInt(c.IsActive),
		c.UpdatedAt.Format(time.RFC3339),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating contact: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("contact %s: %w", c.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteContactRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting contact: %w", err)
	}
	return nil
}

// scanContact scans one contact via the provided Scan function, so a single
// path serves both *sql.Row and *sql.Rows.
func scanContact(scan func(dest ...any) error) (*domain.Contact, error) {
	var c domain.Contact
	var typ, createdAtStr, updatedAtStr string
	var active int

	if err := scan(&c.ID, &c.Name, &typ, &c.Email, &c.Phone, &c.Notes, &active, &createdAtStr, &updatedAtStr); err != nil {
		return nil, err
	}

	c.Type = domain.ContactType(typ)
	c.IsActive = intToBool(active)

	var parseErr error
	c.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	c.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &c, nil
}
