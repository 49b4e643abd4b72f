package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
)

type workLogService struct {
	workLogs  repository.WorkLogRepo
	workItems repository.WorkItemRepo
	observer  UseCaseObserver
}

func NewWorkLogService(workLogs repository.WorkLogRepo, workItems repository.WorkItemRepo, observers ...UseCaseObserver) WorkLogService {
	return &workLogService{
		workLogs:  workLogs,
		workItems: workItems,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// LogWork records a manual work log entry against an existing item.
func (s *workLogService) LogWork(ctx context.Context, e *domain.WorkLogEntry) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "log-work",
			ItemID:    e.ItemID,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Err:       err,
			Fields:    map[string]any{"minutes": e.Minutes},
		})
	}()

	if e.Minutes < 0 {
		return fmt.Errorf("logged minutes cannot be negative")
	}
	if _, err := s.workItems.GetByID(ctx, e.ItemID); err != nil {
		return fmt.Errorf("looking up item %s: %w", e.ItemID, err)
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.CreatedAt = time.Now().UTC()
	return s.workLogs.Create(ctx, e)
}

func (s *workLogService) GetByID(ctx context.Context, id string) (*domain.WorkLogEntry, error) {
	return s.workLogs.GetByID(ctx, id)
}

func (s *workLogService) ListByItem(ctx context.Context, itemID string) ([]*domain.WorkLogEntry, error) {
	return s.workLogs.ListByItem(ctx, itemID)
}

func (s *workLogService) ListRecent(ctx context.Context, days int) ([]*domain.WorkLogEntry, error) {
	return s.workLogs.ListRecent(ctx, days)
}

func (s *workLogService) Delete(ctx context.Context, id string) error {
	return s.workLogs.Delete(ctx, id)
}
