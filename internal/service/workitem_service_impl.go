package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
)

type workItemService struct {
	workItems repository.WorkItemRepo
	observer  UseCaseObserver
}

func NewWorkItemService(workItems repository.WorkItemRepo, observers ...UseCaseObserver) WorkItemService {
	return &workItemService{
		workItems: workItems,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *workItemService) Create(ctx context.Context, w *domain.WorkItem) error {
	if w.Title == "" {
		return fmt.Errorf("work item title is required")
	}
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now
	if w.Status == "" {
		w.Status = domain.ItemOpen
	}
	if w.Who == "" {
		w.Who = "me"
	}
	w.UpdatePriorityScore()
	return s.workItems.Create(ctx, w)
}

func (s *workItemService) GetByID(ctx context.Context, id string) (*domain.WorkItem, error) {
	return s.workItems.GetByID(ctx, id)
}

func (s *workItemService) ListOpen(ctx context.Context) ([]*domain.WorkItem, error) {
	return s.workItems.ListOpen(ctx)
}

func (s *workItemService) ListChildren(ctx context.Context, parentID string) ([]*domain.WorkItem, error) {
	return s.workItems.ListChildren(ctx, parentID)
}

func (s *workItemService) Update(ctx context.Context, w *domain.WorkItem) error {
	w.UpdatedAt = time.Now().UTC()
	w.UpdatePriorityScore()
	return s.workItems.Update(ctx, w)
}

// Complete marks the item completed. The false return means the item was
// already completed; callers treat that as success.
func (s *workItemService) Complete(ctx context.Context, id string) (changed bool, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "complete-item",
			ItemID:    id,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Err:       err,
			Fields:    map[string]any{"changed": changed},
		})
	}()

	w, err := s.workItems.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if w.Status == domain.ItemCompleted {
		return false, nil
	}
	now := time.Now().UTC()
	if err := w.MarkCompleted(now); err != nil {
		return false, err
	}
	w.UpdatedAt = now
	if err := s.workItems.Update(ctx, w); err != nil {
		return false, err
	}
	return true, nil
}

func (s *workItemService) Reopen(ctx context.Context, id string) error {
	w, err := s.workItems.GetByID(ctx, id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if err := w.Reopen(now); err != nil {
		return err
	}
	w.UpdatedAt = now
	return s.workItems.Update(ctx, w)
}

// Duplicate clones an item as a new open item at the same place in the
// hierarchy, clearing completion state, and returns the new ID.
func (s *workItemService) Duplicate(ctx context.Context, id string) (string, error) {
	w, err := s.workItems.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	dup := *w
	dup.ID = uuid.New().String()
	dup.Status = domain.ItemOpen
	dup.CompletedAt = nil
	now := time.Now().UTC()
	dup.CreatedAt = now
	dup.UpdatedAt = now

	if err := s.workItems.Create(ctx, &dup); err != nil {
		return "", err
	}
	return dup.ID, nil
}

func (s *workItemService) Delete(ctx context.Context, id string) error {
	return s.workItems.Delete(ctx, id)
}
