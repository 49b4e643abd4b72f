package domain

import (
	"fmt"
	"time"
)

type WorkItem struct {
	ID       string
	ParentID *string
	Who      string
	Title    string
	Notes    string

	ContactID *string

	StartDate *time.Time
	DueDate   *time.Time

	// Priority factors
	Importance    int
	Urgency       int
	Size          int
	Value         int
	PriorityScore int

	Group    string
	Category string

	PlannedMinutes int

	Status      ItemStatus
	CompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CalculatePriorityScore returns the product of the four priority factors.
// Any zero factor zeroes the whole score.
func (w *WorkItem) CalculatePriorityScore() int {
	factors := []int{w.Importance, w.Urgency, w.Size, w.Value}
	score := 1
	for _, f := range factors {
		if f == 0 {
			return 0
		}
		score *= f
	}
	return score
}

// UpdatePriorityScore recomputes PriorityScore from the current factors.
func (w *WorkItem) UpdatePriorityScore() {
	w.PriorityScore = w.CalculatePriorityScore()
}

func (w *WorkItem) IsOpen() bool {
	return w.Status == ItemOpen
}

// MarkCompleted transitions the item to completed. Completing an already
// completed item keeps the original CompletedAt.
func (w *WorkItem) MarkCompleted(now time.Time) error {
	if w.Status == ItemCanceled {
		return fmt.Errorf("cannot complete canceled item %s", w.ID)
	}
	if w.Status == ItemCompleted {
		return nil
	}
	w.Status = ItemCompleted
	w.CompletedAt = &now
	w.UpdatedAt = now
	return nil
}

// Reopen marks a completed item open again. CompletedAt is kept for history.
func (w *WorkItem) Reopen(now time.Time) error {
	if w.Status == ItemCanceled {
		return fmt.Errorf("cannot reopen canceled item %s", w.ID)
	}
	w.Status = ItemOpen
	w.UpdatedAt = now
	return nil
}

// SuccessorParentID resolves the parent linkage for a continuation item.
// A root item becomes the parent of its own continuation; an item that
// already has a parent produces a sibling, keeping the hierarchy flat.
func (w *WorkItem) SuccessorParentID() string {
	if w.ParentID != nil && *w.ParentID != "" {
		return *w.ParentID
	}
	return w.ID
}

// NewSuccessor builds the open continuation item for the Continue workflow.
// It copies who/title/contact/priority factors/group/category/planned minutes
// and leaves dates unset for the next-steps capture to fill in.
func (w *WorkItem) NewSuccessor(now time.Time) *WorkItem {
	parentID := w.SuccessorParentID()
	s := &WorkItem{
		ParentID:       &parentID,
		Who:            w.Who,
		Title:          w.Title,
		ContactID:      w.ContactID,
		Importance:     w.Importance,
		Urgency:        w.Urgency,
		Size:           w.Size,
		Value:          w.Value,
		Group:          w.Group,
		Category:       w.Category,
		PlannedMinutes: w.PlannedMinutes,
		Status:         ItemOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.UpdatePriorityScore()
	return s
}
