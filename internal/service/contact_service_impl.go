package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
)

type contactService struct {
	contacts repository.ContactRepo
}

func NewContactService(contacts repository.ContactRepo) ContactService {
	return &contactService{contacts: contacts}
}

func validateContactType(t domain.ContactType) error {
	if t == "" {
		return nil
	}
	if !domain.ValidContactTypes[string(t)] {
		return fmt.Errorf("invalid contact type %q", t)
	}
	return nil
}

func (s *contactService) Create(ctx context.Context, c *domain.Contact) error {
	if c.Name == "" {
		return fmt.Errorf("contact name is required")
	}
	if err := validateContactType(c.Type); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.IsActive = true
	return s.contacts.Create(ctx, c)
}

func (s *contactService) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	return s.contacts.GetByID(ctx, id)
}

func (s *contactService) List(ctx context.Context, activeOnly bool) ([]*domain.Contact, error) {
	return s.contacts.List(ctx, activeOnly)
}

func (s *contactService) Update(ctx context.Context, c *domain.Contact) error {
	if err := validateContactType(c.Type); err != nil {
		return err
	}
	c.UpdatedAt = time.Now().UTC()
	return s.contacts.Update(ctx, c)
}

// Deactivate hides a contact from pickers without breaking references from
// existing items.
func (s *contactService) Deactivate(ctx context.Context, id string) error {
	c, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	c.IsActive = false
	c.UpdatedAt = time.Now().UTC()
	return s.contacts.Update(ctx, c)
}

func (s *contactService) Delete(ctx context.Context, id string) error {
	return s.contacts.Delete(ctx, id)
}
