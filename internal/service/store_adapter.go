package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
)

// TimerStore adapts the services to the timer engine's persistence port.
// It also implements the engine's atomic upgrade: LogAndComplete commits
// the work log and the completion flag in one transaction.
type TimerStore struct {
	items WorkItemService
	logs  WorkLogService
	uow   db.UnitOfWork
}

func NewTimerStore(items WorkItemService, logs WorkLogService, uow db.UnitOfWork) *TimerStore {
	return &TimerStore{items: items, logs: logs, uow: uow}
}

func (s *TimerStore) GetItem(ctx context.Context, id string) (*domain.WorkItem, error) {
	return s.items.GetByID(ctx, id)
}

func (s *TimerStore) UpdateItem(ctx context.Context, item *domain.WorkItem) error {
	return s.items.Update(ctx, item)
}

func (s *TimerStore) CompleteItem(ctx context.Context, id string) (bool, error) {
	return s.items.Complete(ctx, id)
}

func (s *TimerStore) CreateWorkLog(ctx context.Context, entry *domain.WorkLogEntry) (string, error) {
	if err := s.logs.LogWork(ctx, entry); err != nil {
		return "", err
	}
	return entry.ID, nil
}

func (s *TimerStore) CreateItem(ctx context.Context, item *domain.WorkItem) error {
	return s.items.Create(ctx, item)
}

func (s *TimerStore) DuplicateItem(ctx context.Context, id string) (string, error) {
	return s.items.Duplicate(ctx, id)
}

// LogAndComplete writes the work log entry and marks the item completed in
// a single transaction, so a crash between the two cannot leave logged
// minutes against an item that still looks open.
func (s *TimerStore) LogAndComplete(ctx context.Context, entry *domain.WorkLogEntry, itemID string) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now().UTC()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txItems := repository.NewSQLiteWorkItemRepo(tx)
		txLogs := repository.NewSQLiteWorkLogRepo(tx)

		if err := txLogs.Create(ctx, entry); err != nil {
			return err
		}

		w, err := txItems.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if w.Status != domain.ItemCompleted {
			if err := w.MarkCompleted(now); err != nil {
				return err
			}
			w.UpdatedAt = now
			if err := txItems.Update(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}
