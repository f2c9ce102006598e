// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// BudgetModel represents the budgets table in the database.
type BudgetModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_user_name,priority:1"`
	CategoryID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name       string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_budgets_user_name,priority:2"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	StartDate  time.Time       `gorm:"not null;index"`
	EndDate    time.Time       `gorm:"not null;index"`
	Status     string          `gorm:"type:varchar(10);not null;index"`
	CreatedAt  time.Time       `gorm:"not null"`
	UpdatedAt  time.Time       `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	Category *CategoryModel `gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName returns the table name for the BudgetModel.
func (BudgetModel) TableName() string {
	return "budgets"
}

// ToEntity converts a BudgetModel to a domain Budget entity.
func (m *BudgetModel) ToEntity() *entity.Budget {
	b := &entity.Budget{
		ID:         m.ID,
		UserID:     m.UserID,
		CategoryID: m.CategoryID,
		Name:       m.Name,
		Amount:     m.Amount,
		StartDate:  m.StartDate.UTC(),
		EndDate:    m.EndDate.UTC(),
		Status:     entity.BudgetStatus(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.Category != nil {
		b.Category = m.Category.ToEntity()
	}
	return b
}

// BudgetModelFromEntity creates a BudgetModel from a domain Budget entity.
func BudgetModelFromEntity(b *entity.Budget) *BudgetModel {
	return &BudgetModel{
		ID:         b.ID,
		UserID:     b.UserID,
		CategoryID: b.CategoryID,
		Name:       b.Name,
		Amount:     b.Amount,
		StartDate:  b.StartDate.UTC(),
		EndDate:    b.EndDate.UTC(),
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}
