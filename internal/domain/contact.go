package domain

import "time"

type Contact struct {
	ID       string
	Name     string
	Type     ContactType
	Email    string
	Phone    string
	Notes    string
	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
