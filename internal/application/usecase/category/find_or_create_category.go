// Package category contains category-related use cases.
package category

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// FindOrCreateCategoryInput represents the input for resolving a category by name.
type FindOrCreateCategoryInput struct {
	UserID uuid.UUID
	Name   string
}

// FindOrCreateCategoryOutput represents the output of resolving a category.
type FindOrCreateCategoryOutput struct {
	Category *entity.Category
	Created  bool
}

// FindOrCreateCategoryUseCase returns the user's category with a name, creating it when missing.
type FindOrCreateCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewFindOrCreateCategoryUseCase creates a new FindOrCreateCategoryUseCase instance.
func NewFindOrCreateCategoryUseCase(categoryRepo adapter.CategoryRepository) *FindOrCreateCategoryUseCase {
	return &FindOrCreateCategoryUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute performs the lookup, creating the category if needed.
func (uc *FindOrCreateCategoryUseCase) Execute(ctx context.Context, input FindOrCreateCategoryInput) (*FindOrCreateCategoryOutput, error) {
	name := entity.NormalizeCategoryName(input.Name)
	if name == "" || len(name) > entity.MaxCategoryNameLength {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidCategoryName,
			"category name must be between 1 and 50 characters",
			domainerror.ErrInvalidCategoryName,
		)
	}

	existing, err := uc.categoryRepo.FindByName(ctx, input.UserID, name)
	if err == nil {
		return &FindOrCreateCategoryOutput{Category: existing}, nil
	}
	if !errors.Is(err, domainerror.ErrCategoryNotFound) {
		return nil, storeFailure(ctx, "find category by name", err, "user_id", input.UserID)
	}

	category := entity.NewCategory(input.UserID, name)
	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		// A concurrent request may have created the same name first.
		if existing, findErr := uc.categoryRepo.FindByName(ctx, input.UserID, name); findErr == nil {
			return &FindOrCreateCategoryOutput{Category: existing}, nil
		}
		return nil, storeFailure(ctx, "create category", err, "user_id", input.UserID)
	}

	return &FindOrCreateCategoryOutput{
		Category: category,
		Created:  true,
	}, nil
}

// Resolve returns the category referenced by id or, when id is nil, by name.
// Names are found or created; ids must belong to the owner.
func Resolve(ctx context.Context, repo adapter.CategoryRepository, ownerID uuid.UUID, id *uuid.UUID, name *string) (*entity.Category, error) {
	if id != nil {
		category, err := repo.FindByID(ctx, *id, ownerID)
		if err != nil {
			if errors.Is(err, domainerror.ErrCategoryNotFound) {
				return nil, domainerror.NewCategoryError(
					domainerror.ErrCodeCategoryNotFound,
					"category not found",
					domainerror.ErrCategoryNotFound,
				)
			}
			return nil, storeFailure(ctx, "find category", err, "category_id", *id)
		}
		return category, nil
	}

	if name == nil {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidCategoryName,
			"category id or name is required",
			domainerror.ErrInvalidCategoryName,
		)
	}

	out, err := NewFindOrCreateCategoryUseCase(repo).Execute(ctx, FindOrCreateCategoryInput{
		UserID: ownerID,
		Name:   *name,
	})
	if err != nil {
		return nil, err
	}
	return out.Category, nil
}

func storeFailure(ctx context.Context, op string, err error, args ...any) error {
	slog.ErrorContext(ctx, "Category store operation failed", append([]any{"op", op, "error", err}, args...)...)
	return domainerror.NewCategoryError(domainerror.ErrCodeCategoryStoreFailure, "failed to "+op, err)
}
