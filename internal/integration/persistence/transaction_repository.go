package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/persistence/model"
)

// transactionRepository implements the adapter.TransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance.
func NewTransactionRepository(db *gorm.DB) adapter.TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// requireActiveBudget re-reads the budget status inside tx.
func requireActiveBudget(tx *gorm.DB, budgetID uuid.UUID) error {
	var count int64
	err := tx.Model(&model.BudgetModel{}).
		Where("id = ? AND status = ?", budgetID, entity.BudgetStatusActive).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return domainerror.ErrBudgetNotActive
	}
	return nil
}

// Create inserts a transaction when its budget is still active.
func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireActiveBudget(tx, transaction.BudgetID); err != nil {
			return err
		}
		return tx.Create(model.TransactionModelFromEntity(transaction)).Error
	})
}

// Update saves amount, date and description when the budget is still active.
func (r *transactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireActiveBudget(tx, transaction.BudgetID); err != nil {
			return err
		}
		result := tx.Model(&model.TransactionModel{}).
			Where("id = ? AND budget_id = ?", transaction.ID, transaction.BudgetID).
			Updates(map[string]interface{}{
				"amount":      transaction.Amount,
				"date":        transaction.Date.UTC(),
				"description": transaction.Description,
				"updated_at":  transaction.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrTransactionNotFound
		}
		return nil
	})
}

// Delete removes a transaction when its budget is still active.
func (r *transactionRepository) Delete(ctx context.Context, transaction *entity.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireActiveBudget(tx, transaction.BudgetID); err != nil {
			return err
		}
		result := tx.Where("id = ? AND budget_id = ?", transaction.ID, transaction.BudgetID).
			Delete(&model.TransactionModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrTransactionNotFound
		}
		return nil
	})
}

// FindByID retrieves a transaction belonging to budgetID.
func (r *transactionRepository) FindByID(ctx context.Context, id, budgetID uuid.UUID) (*entity.Transaction, error) {
	var txModel model.TransactionModel
	result := r.db.WithContext(ctx).
		Where("id = ? AND budget_id = ?", id, budgetID).
		First(&txModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return txModel.ToEntity(), nil
}

// ListForBudget retrieves the budget's transactions matching filter, ordered by date.
func (r *transactionRepository) ListForBudget(ctx context.Context, budgetID uuid.UUID, filter entity.TransactionFilter) ([]*entity.Transaction, error) {
	query := r.db.WithContext(ctx).Where("budget_id = ?", budgetID)

	if filter.From != nil {
		query = query.Where("date >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("date <= ?", filter.To.UTC())
	}
	if filter.MinAmount != nil {
		query = query.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("amount <= ?", *filter.MaxAmount)
	}

	var txModels []model.TransactionModel
	if err := query.Order("date ASC, created_at ASC").Find(&txModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]*entity.Transaction, len(txModels))
	for i := range txModels {
		transactions[i] = txModels[i].ToEntity()
	}
	return transactions, nil
}
