package category

import (
	"context"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
)

// ListCategoriesInput represents the input for listing categories.
type ListCategoriesInput struct {
	UserID uuid.UUID
}

// ListCategoriesOutput represents the output of listing categories.
type ListCategoriesOutput struct {
	Categories []*entity.Category
}

// ListCategoriesUseCase handles listing categories logic.
type ListCategoriesUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewListCategoriesUseCase creates a new ListCategoriesUseCase instance.
func NewListCategoriesUseCase(categoryRepo adapter.CategoryRepository) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute lists the user's categories. A user without any gets the default set first.
func (uc *ListCategoriesUseCase) Execute(ctx context.Context, input ListCategoriesInput) (*ListCategoriesOutput, error) {
	categories, err := uc.categoryRepo.FindByOwner(ctx, input.UserID)
	if err != nil {
		return nil, storeFailure(ctx, "list categories", err, "user_id", input.UserID)
	}
	if len(categories) > 0 {
		return &ListCategoriesOutput{Categories: categories}, nil
	}

	defaults := make([]*entity.Category, len(entity.DefaultCategoryNames))
	for i, name := range entity.DefaultCategoryNames {
		defaults[i] = entity.NewCategory(input.UserID, name)
	}
	if err := uc.categoryRepo.CreateMany(ctx, defaults); err != nil {
		return nil, storeFailure(ctx, "seed default categories", err, "user_id", input.UserID)
	}

	categories, err = uc.categoryRepo.FindByOwner(ctx, input.UserID)
	if err != nil {
		return nil, storeFailure(ctx, "list categories", err, "user_id", input.UserID)
	}
	return &ListCategoriesOutput{Categories: categories}, nil
}
