package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// Create creates a new category in the database.
	Create(ctx context.Context, category *entity.Category) error

	// CreateMany inserts categories, skipping names the owner already has.
	CreateMany(ctx context.Context, categories []*entity.Category) error

	// FindByID retrieves a category owned by ownerID.
	FindByID(ctx context.Context, id, ownerID uuid.UUID) (*entity.Category, error)

	// FindByName retrieves the owner's category with the normalised name.
	FindByName(ctx context.Context, ownerID uuid.UUID, name string) (*entity.Category, error)

	// FindByOwner retrieves all categories of the owner ordered by name.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Category, error)
}
