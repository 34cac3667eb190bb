package domain

import "time"

// Category groups products in the catalog.
type Category struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Active      bool
}

// NewCategory returns an active category with audit timestamps set.
func NewCategory(name, description string) *Category {
	now := time.Now()
	return &Category{
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Active:      true,
	}
}
