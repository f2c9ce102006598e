// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
	"github.com/budget-tracker/backend/internal/integration/persistence/model"
)

// budgetRepository implements the adapter.BudgetRepository interface.
type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository instance.
func NewBudgetRepository(db *gorm.DB) adapter.BudgetRepository {
	return &budgetRepository{
		db: db,
	}
}

// Create creates a new budget in the database.
func (r *budgetRepository) Create(ctx context.Context, budget *entity.Budget) error {
	err := r.db.WithContext(ctx).Omit("Category").Create(model.BudgetModelFromEntity(budget)).Error
	return translateNameConflict(err)
}

// translateNameConflict maps a hit on the per-user name index to ErrBudgetNameExists.
func translateNameConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainerror.ErrBudgetNameExists
	}
	return err
}

// FindByID retrieves a budget owned by ownerID, with its category.
func (r *budgetRepository) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*entity.Budget, error) {
	var budgetModel model.BudgetModel
	result := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&budgetModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrBudgetNotFound
		}
		return nil, result.Error
	}
	return budgetModel.ToEntity(), nil
}

// FindActiveByID retrieves a budget owned by ownerID only when it is ACTIVE.
func (r *budgetRepository) FindActiveByID(ctx context.Context, id, ownerID uuid.UUID) (*entity.Budget, error) {
	var budgetModel model.BudgetModel
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND status = ?", id, ownerID, entity.BudgetStatusActive).
		First(&budgetModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrBudgetNotFound
		}
		return nil, result.Error
	}
	return budgetModel.ToEntity(), nil
}

// FindWithTransactions retrieves a budget with its category and all its transactions.
func (r *budgetRepository) FindWithTransactions(ctx context.Context, id uuid.UUID) (*entity.Budget, error) {
	db := r.db.WithContext(ctx)

	var budgetModel model.BudgetModel
	if err := db.Preload("Category").Where("id = ?", id).First(&budgetModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrBudgetNotFound
		}
		return nil, err
	}

	var txModels []model.TransactionModel
	if err := db.Where("budget_id = ?", id).Order("date ASC").Find(&txModels).Error; err != nil {
		return nil, err
	}

	budget := budgetModel.ToEntity()
	budget.Transactions = make([]*entity.Transaction, len(txModels))
	for i := range txModels {
		budget.Transactions[i] = txModels[i].ToEntity()
	}
	return budget, nil
}

// FindByOwner retrieves the owner's budgets matching filter.
func (r *budgetRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter entity.BudgetFilter) ([]*entity.Budget, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").
		Where("budgets.user_id = ?", ownerID)

	if filter.Status != nil {
		query = query.Where("budgets.status = ?", *filter.Status)
	}

	if filter.StartingIn != nil {
		query = query.Where("budgets.start_date >= ? AND budgets.start_date <= ?", filter.StartingIn.Start, filter.StartingIn.End)
	}

	if filter.CategoryName != nil {
		query = query.
			Joins("JOIN categories ON categories.id = budgets.category_id").
			Where("categories.name = ?", entity.NormalizeCategoryName(*filter.CategoryName))
	}

	var budgetModels []model.BudgetModel
	if err := query.Order("budgets.start_date ASC, budgets.name ASC").Find(&budgetModels).Error; err != nil {
		return nil, err
	}

	return toBudgetEntities(budgetModels), nil
}

// ExistsByName checks if the owner has a budget with name, ignoring excludeID.
func (r *budgetRepository) ExistsByName(ctx context.Context, ownerID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&model.BudgetModel{}).
		Where("user_id = ? AND name = ?", ownerID, name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindPendingStartingIn retrieves PENDING budgets whose start date is in the month of t.
func (r *budgetRepository) FindPendingStartingIn(ctx context.Context, t time.Time) ([]*entity.Budget, error) {
	t = t.UTC()
	period := valueobject.MonthPeriod(t.Year(), valueobject.MonthIndexOf(t))

	var budgetModels []model.BudgetModel
	result := r.db.WithContext(ctx).
		Where("status = ?", entity.BudgetStatusPending).
		Where("start_date >= ? AND start_date <= ?", period.Start, period.End).
		Find(&budgetModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toBudgetEntities(budgetModels), nil
}

// FindActiveEndedBy retrieves ACTIVE budgets whose end date is at or before t.
func (r *budgetRepository) FindActiveEndedBy(ctx context.Context, t time.Time) ([]*entity.Budget, error) {
	var budgetModels []model.BudgetModel
	result := r.db.WithContext(ctx).
		Where("status = ?", entity.BudgetStatusActive).
		Where("end_date <= ?", t.UTC()).
		Find(&budgetModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toBudgetEntities(budgetModels), nil
}

// UpdateStatus moves the given budgets from one status to another in one statement.
func (r *budgetRepository) UpdateStatus(ctx context.Context, ids []uuid.UUID, from, to entity.BudgetStatus, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&model.BudgetModel{}).
		Where("id IN ? AND status = ?", ids, from).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": at.UTC(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Update saves name, amount, category, period and status of a budget.
func (r *budgetRepository) Update(ctx context.Context, budget *entity.Budget) error {
	result := r.db.WithContext(ctx).
		Model(&model.BudgetModel{}).
		Where("id = ?", budget.ID).
		Updates(map[string]interface{}{
			"name":        budget.Name,
			"amount":      budget.Amount,
			"category_id": budget.CategoryID,
			"start_date":  budget.StartDate.UTC(),
			"end_date":    budget.EndDate.UTC(),
			"status":      string(budget.Status),
			"updated_at":  budget.UpdatedAt,
		})
	if result.Error != nil {
		return translateNameConflict(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrBudgetNotFound
	}
	return nil
}

// Delete removes a budget and its transactions.
func (r *budgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("budget_id = ?", id).Delete(&model.TransactionModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.BudgetModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrBudgetNotFound
		}
		return nil
	})
}

func toBudgetEntities(models []model.BudgetModel) []*entity.Budget {
	budgets := make([]*entity.Budget, len(models))
	for i := range models {
		budgets[i] = models[i].ToEntity()
	}
	return budgets
}
