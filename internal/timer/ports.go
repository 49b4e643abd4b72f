package timer

import (
	"context"

	"github.com/alexanderramin/tempo/internal/domain"
)

// ItemStore is the narrow persistence surface the engine talks to. The
// engine never owns storage; it calls out through this port at the defined
// points of the completion workflows.
type ItemStore interface {
	GetItem(ctx context.Context, id string) (*domain.WorkItem, error)
	UpdateItem(ctx context.Context, item *domain.WorkItem) error
	CompleteItem(ctx context.Context, id string) (bool, error)
	CreateWorkLog(ctx context.Context, entry *domain.WorkLogEntry) (string, error)
	CreateItem(ctx context.Context, item *domain.WorkItem) error
	DuplicateItem(ctx context.Context, id string) (string, error)
}

// TxItemStore is an optional upgrade interface. A store that can commit the
// work log and the completion flag atomically should implement it; the
// engine type-asserts and prefers it. Stores without transactions fall back
// to CreateWorkLog before CompleteItem, in that order, because a dangling
// log is recoverable while lost minutes are not.
type TxItemStore interface {
	LogAndComplete(ctx context.Context, entry *domain.WorkLogEntry, itemID string) error
}

// Notifier receives the break alert side effects. Alert delivery is out of
// the engine's scope; the default implementation rings the terminal bell.
type Notifier interface {
	BreakStarted()
	BreakEnded()
}

// NoopNotifier ignores all alerts.
type NoopNotifier struct{}

func (NoopNotifier) BreakStarted() {}
func (NoopNotifier) BreakEnded()   {}
