package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxCategoryNameLength is the maximum length of a category name.
const MaxCategoryNameLength = 50

// DefaultCategoryNames are created for every user on first access.
var DefaultCategoryNames = []string{
	"food",
	"entertainment",
	"transport",
	"health",
	"education",
	"shopping",
	"utilities",
	"savings",
	"travel",
	"miscellaneous",
}

// Category groups budgets of one user.
type Category struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCategory creates a new Category entity with a normalised name.
func NewCategory(userID uuid.UUID, name string) *Category {
	now := time.Now().UTC()

	return &Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      NormalizeCategoryName(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NormalizeCategoryName trims and lowercases a category name.
func NormalizeCategoryName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
