package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
)

// SQLiteWorkLogRepo implements WorkLogRepo over a DBTX.
type SQLiteWorkLogRepo struct {
	q db.DBTX
}

// NewSQLiteWorkLogRepo creates a new SQLiteWorkLogRepo.
func NewSQLiteWorkLogRepo(q db.DBTX) *SQLiteWorkLogRepo {
	return &SQLiteWorkLogRepo{q: q}
}

func (r *SQLiteWorkLogRepo) Create(ctx context.Context, e *domain.WorkLogEntry) error {
	query := `INSERT INTO work_logs (id, work_item_id, started_at, ended_at, minutes, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query,
		e.ID,
		e.ItemID,
		e.StartedAt.Format(time.RFC3339),
		e.EndedAt.Format(time.RFC3339),
		e.Minutes,
		e.Note,
		e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting work log: %w", err)
	}
	return nil
}

func (r *SQLiteWorkLogRepo) GetByID(ctx context.Context, id string) (*domain.WorkLogEntry, error) {
	query := `SELECT id, work_item_id, started_at, ended_at, minutes, note, created_at
		FROM work_logs WHERE id = ?`
	row := r.q.QueryRowContext(ctx, query, id)
	return r.scanWorkLog(row)
}

func (r *SQLiteWorkLogRepo) ListByItem(ctx context.Context, itemID string) ([]*domain.WorkLogEntry, error) {
	query := `SELECT id, work_item_id, started_at, ended_at, minutes, note, created_at
		FROM work_logs WHERE work_item_id = ? ORDER BY started_at`
	rows, err := r.q.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("listing work logs by item: %w", err)
	}
	defer rows.Close()
	return r.scanWorkLogs(rows)
}

func (r *SQLiteWorkLogRepo) ListRecent(ctx context.Context, days int) ([]*domain.WorkLogEntry, error) {
	query := `SELECT id, work_item_id, started_at, ended_at, minutes, note, created_at
		FROM work_logs
		WHERE started_at >= date('now', ? || ' days')
		ORDER BY started_at DESC`
	rows, err := r.q.QueryContext(ctx, query, fmt.Sprintf("-%d", days))
	if err != nil {
		return nil, fmt.Errorf("listing recent work logs: %w", err)
	}
	defer rows.Close()
	return r.scanWorkLogs(rows)
}

func (r *SQLiteWorkLogRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM work_logs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting work log: %w", err)
	}
	return nil
}

// scanWorkLog scans a single entry from a *sql.Row.
func (r *SQLiteWorkLogRepo) scanWorkLog(row *sql.Row) (*domain.WorkLogEntry, error) {
	var e domain.WorkLogEntry
	var startedAtStr, endedAtStr, createdAtStr string

	err := row.Scan(&e.ID, &e.ItemID, &startedAtStr, &endedAtStr, &e.Minutes, &e.Note, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("work log: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning work log: %w", err)
	}

	return r.populateWorkLog(&e, startedAtStr, endedAtStr, createdAtStr)
}

// scanWorkLogs scans multiple entries from *sql.Rows.
func (r *SQLiteWorkLogRepo) scanWorkLogs(rows *sql.Rows) ([]*domain.WorkLogEntry, error) {
	var entries []*domain.WorkLogEntry
	for rows.Next() {
		var e domain.WorkLogEntry
		var startedAtStr, endedAtStr, createdAtStr string

		if err := rows.Scan(&e.ID, &e.ItemID, &startedAtStr, &endedAtStr, &e.Minutes, &e.Note, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning work log row: %w", err)
		}

		entry, parseErr := r.populateWorkLog(&e, startedAtStr, endedAtStr, createdAtStr)
		if parseErr != nil {
			return nil, parseErr
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work logs: %w", err)
	}
	return entries, nil
}

// populateWorkLog fills in parsed timestamps after scanning raw strings.
func (r *SQLiteWorkLogRepo) populateWorkLog(e *domain.WorkLogEntry, startedAtStr, endedAtStr, createdAtStr string) (*domain.WorkLogEntry, error) {
	var parseErr error
	e.StartedAt, parseErr = time.Parse(time.RFC3339, startedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing started_at: %w", parseErr)
	}
	e.EndedAt, parseErr = time.Parse(time.RFC3339, endedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing ended_at: %w", parseErr)
	}
	e.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	return e, nil
}
