package testutil

import (
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/google/uuid"
)

// WorkItem options
type ItemOption func(*domain.WorkItem)

func WithParent(parentID string) ItemOption {
	return func(w *domain.WorkItem) {
		w.ParentID = &parentID
	}
}

func WithContact(contactID string) ItemOption {
	return func(w *domain.WorkItem) {
		w.ContactID = &contactID
	}
}

func WithStatus(s domain.ItemStatus) ItemOption {
	return func(w *domain.WorkItem) {
		w.Status = s
	}
}

func WithPlannedMinutes(min int) ItemOption {
	return func(w *domain.WorkItem) {
		w.PlannedMinutes = min
	}
}

func WithDueDate(d time.Time) ItemOption {
	return func(w *domain.WorkItem) {
		w.DueDate = &d
	}
}

func WithNotes(notes string) ItemOption {
	return func(w *domain.WorkItem) {
		w.Notes = notes
	}
}

func WithFactors(importance, urgency, size, value int) ItemOption {
	return func(w *domain.WorkItem) {
		w.Importance = importance
		w.Urgency = urgency
		w.Size = size
		w.Value = value
		w.UpdatePriorityScore()
	}
}

// NewTestItem builds an open work item with sensible defaults.
func NewTestItem(title string, opts ...ItemOption) *domain.WorkItem {
	now := time.Now().UTC()
	w := &domain.WorkItem{
		ID:             uuid.New().String(),
		Who:            "me",
		Title:          title,
		Importance:     5,
		Urgency:        5,
		Size:           4,
		Value:          4,
		PlannedMinutes: 30,
		Status:         domain.ItemOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	w.UpdatePriorityScore()
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// NewTestContact builds an active contact.
func NewTestContact(name string) *domain.Contact {
	now := time.Now().UTC()
	return &domain.Contact{
		ID:        uuid.New().String(),
		Name:      name,
		Type:      domain.ContactGeneric,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestLog builds a work log entry against the given item.
func NewTestLog(itemID string, minutes int) *domain.WorkLogEntry {
	now := time.Now().UTC()
	return &domain.WorkLogEntry{
		ID:        uuid.New().String(),
		ItemID:    itemID,
		StartedAt: now.Add(-time.Duration(minutes) * time.Minute),
		EndedAt:   now,
		Minutes:   minutes,
		CreatedAt: now,
	}
}
