package repository

import (
	"context"

	"github.com/alexanderramin/tempo/internal/domain"
)

type WorkItemRepo interface {
	Create(ctx context.Context, w *domain.WorkItem) error
	GetByID(ctx context.Context, id string) (*domain.WorkItem, error)
	ListOpen(ctx context.Context) ([]*domain.WorkItem, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.WorkItem, error)
	Update(ctx context.Context, w *domain.WorkItem) error
	Delete(ctx context.Context, id string) error
}

type WorkLogRepo interface {
	Create(ctx context.Context, e *domain.WorkLogEntry) error
	GetByID(ctx context.Context, id string) (*domain.WorkLogEntry, error)
	ListByItem(ctx context.Context, itemID string) ([]*domain.WorkLogEntry, error)
	ListRecent(ctx context.Context, days int) ([]*domain.WorkLogEntry, error)
	Delete(ctx context.Context, id string) error
}

type ContactRepo interface {
	Create(ctx context.Context, c *domain.Contact) error
	GetByID(ctx context.Context, id string) (*domain.Contact, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Contact, error)
	Update(ctx context.Context, c *domain.Contact) error
	Delete(ctx context.Context, id string) error
}
