package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
)

// workItemColumns is the canonical SELECT column list for work_items.
const workItemColumns = `id, parent_id, who, title, notes, contact_id,
		start_date, due_date, importance, urgency, size, value, priority_score,
		item_group, category, planned_minutes, status, completed_at, created_at, updated_at`

// SQLiteWorkItemRepo implements WorkItemRepo over a DBTX, so it works both
// against the shared *sql.DB and inside a unit-of-work transaction.
type SQLiteWorkItemRepo struct {
	q db.DBTX
}

// NewSQLiteWorkItemRepo creates a new SQLiteWorkItemRepo.
func NewSQLiteWorkItemRepo(q db.DBTX) *SQLiteWorkItemRepo {
	return &SQLiteWorkItemRepo{q: q}
}

func (r *SQLiteWorkItemRepo) Create(ctx context.Context, w *domain.WorkItem) error {
	query := `INSERT INTO work_items (id, parent_id, who, title, notes, contact_id,
		start_date, due_date, importance, urgency, size, value, priority_score,
		item_group, category, planned_minutes, status, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query,
		w.ID,
		nullableStr(w.ParentID),
		w.Who,
		w.Title,
		w.Notes,
		nullableStr(w.ContactID),
		nullableTimeToString(w.StartDate, dateLayout),
		nullableTimeToString(w.DueDate, dateLayout),
		w.Importance,
		w.Urgency,
		w.Size,
		w.Value,
		w.PriorityScore,
		w.Group,
		w.Category,
		w.PlannedMinutes,
		string(w.Status),
		nullableTimeToString(w.CompletedAt, time.RFC3339),
		w.CreatedAt.Format(time.RFC3339),
		w.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting work item: %w", err)
	}
	return nil
}

func (r *SQLiteWorkItemRepo) GetByID(ctx context.Context, id string) (*domain.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items WHERE id = ?`
	row := r.q.QueryRowContext(ctx, query, id)
	return r.scanWorkItem(row)
}

func (r *SQLiteWorkItemRepo) ListOpen(ctx context.Context) ([]*domain.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items
		WHERE status = 'open'
		ORDER BY priority_score DESC, due_date IS NULL, due_date`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing open work items: %w", err)
	}
	defer rows.Close()
	return r.scanWorkItems(rows)
}

func (r *SQLiteWorkItemRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items WHERE parent_id = ? ORDER BY created_at`
	rows, err := r.q.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing child work items: %w", err)
	}
	defer rows.Close()
	return r.scanWorkItems(rows)
}

func (r *SQLiteWorkItemRepo) Update(ctx context.Context, w *domain.WorkItem) error {
	query := `UPDATE work_items SET
		parent_id = ?, who = ?, title = ?, notes = ?, contact_id = ?,
		start_date = ?, due_date = ?, importance = ?, urgency = ?, size = ?, value = ?,
		priority_score = ?, item_group = ?, category = ?, planned_minutes = ?,
		status = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.q.ExecContext(ctx, query,
		nullableStr(w.ParentID),
		w.Who,
		w.Title,
		w.Notes,
		nullableStr(w.ContactID),
		nullableTimeToString(w.StartDate, dateLayout),
		nullableTimeToString(w.DueDate, dateLayout),
		w.Importance,
		w.Urgency,
		w.Size,
		w.Value,
		w.PriorityScore,
		w.Group,
		w.Category,
		w.PlannedMinutes,
		string(w.Status),
		nullableTimeToString(w.CompletedAt, time.RFC3339),
		w.UpdatedAt.Format(time.RFC3339),
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("updating work item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("work item %s: %w", w.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteWorkItemRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM work_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting work item: %w", err)
	}
	return nil
}

// scanWorkItem scans a single work item from a *sql.Row.
func (r *SQLiteWorkItemRepo) scanWorkItem(row *sql.Row) (*domain.WorkItem, error) {
	var w domain.WorkItem
	var parentID, contactID, startDate, dueDate, completedAt sql.NullString
	var status, createdAtStr, updatedAtStr string

	err := row.Scan(
		&w.ID, &parentID, &w.Who, &w.Title, &w.Notes, &contactID,
		&startDate, &dueDate, &w.Importance, &w.Urgency, &w.Size, &w.Value, &w.PriorityScore,
		&w.Group, &w.Category, &w.PlannedMinutes, &status, &completedAt, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("work item: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning work item: %w", err)
	}

	return r.populateWorkItem(&w, parentID, contactID, startDate, dueDate, completedAt, status, createdAtStr, updatedAtStr)
}

// scanWorkItems scans multiple work items from *sql.Rows.
func (r *SQLiteWorkItemRepo) scanWorkItems(rows *sql.Rows) ([]*domain.WorkItem, error) {
	var items []*domain.WorkItem
	for rows.Next() {
		var w domain.WorkItem
		var parentID, contactID, startDate, dueDate, completedAt sql.NullString
		var status, createdAtStr, updatedAtStr string

		err := rows.Scan(
			&w.ID, &parentID, &w.Who, &w.Title, &w.Notes, &contactID,
			&startDate, &dueDate, &w.Importance, &w.Urgency, &w.Size, &w.Value, &w.PriorityScore,
			&w.Group, &w.Category, &w.PlannedMinutes, &status, &completedAt, &createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning work item row: %w", err)
		}

		item, parseErr := r.populateWorkItem(&w, parentID, contactID, startDate, dueDate, completedAt, status, createdAtStr, updatedAtStr)
		if parseErr != nil {
			return nil, parseErr
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work items: %w", err)
	}
	return items, nil
}

// populateWorkItem fills in parsed fields after scanning raw strings.
func (r *SQLiteWorkItemRepo) populateWorkItem(
	w *domain.WorkItem,
	parentID, contactID, startDate, dueDate, completedAt sql.NullString,
	status, createdAtStr, updatedAtStr string,
) (*domain.WorkItem, error) {
	w.ParentID = strPtrFromNull(parentID)
	w.ContactID = strPtrFromNull(contactID)
	w.StartDate = parseNullableTime(startDate, dateLayout)
	w.DueDate = parseNullableTime(dueDate, dateLayout)
	w.CompletedAt = parseNullableTime(completedAt, time.RFC3339)
	w.Status = domain.ItemStatus(status)

	var parseErr error
	w.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	w.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return w, nil
}
