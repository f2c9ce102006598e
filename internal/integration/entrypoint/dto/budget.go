package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// CreateBudgetRequest represents the request body for budget creation.
// Either CategoryID or CategoryName identifies the category.
type CreateBudgetRequest struct {
	Name         string           `json:"name" binding:"required"`
	CategoryID   *string          `json:"category_id,omitempty"`
	CategoryName *string          `json:"category_name,omitempty"`
	Amount       *decimal.Decimal `json:"amount" binding:"required"`
	MonthIndex   *int             `json:"month_index" binding:"required"`
}

// UpdateBudgetRequest represents the request body for budget update.
type UpdateBudgetRequest struct {
	Name         *string          `json:"name,omitempty"`
	CategoryID   *string          `json:"category_id,omitempty"`
	CategoryName *string          `json:"category_name,omitempty"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	MonthIndex   *int             `json:"month_index,omitempty"`
}

// BudgetResponse represents a budget in API responses.
type BudgetResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	CategoryID string            `json:"category_id"`
	Category   *CategoryResponse `json:"category,omitempty"`
	Amount     string            `json:"amount"`
	MonthIndex int               `json:"month_index"`
	StartDate  time.Time         `json:"start_date"`
	EndDate    time.Time         `json:"end_date"`
	Status     string            `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// BudgetListResponse represents the response for listing budgets.
type BudgetListResponse struct {
	Budgets []BudgetResponse `json:"budgets"`
}

// BalanceResponse represents the spending summary of a budget.
type BalanceResponse struct {
	BudgetID            string `json:"budget_id"`
	Status              string `json:"status"`
	Initial             string `json:"initial"`
	Spent               string `json:"spent"`
	SpentPercentage     string `json:"spent_percentage"`
	Remaining           string `json:"remaining"`
	RemainingPercentage string `json:"remaining_percentage"`
}

// ToBudgetResponse converts a domain Budget entity to a BudgetResponse DTO.
func ToBudgetResponse(budget *entity.Budget) BudgetResponse {
	resp := BudgetResponse{
		ID:         budget.ID.String(),
		Name:       budget.Name,
		CategoryID: budget.CategoryID.String(),
		Amount:     budget.Amount.StringFixed(2),
		MonthIndex: budget.MonthIndex(),
		StartDate:  budget.StartDate,
		EndDate:    budget.EndDate,
		Status:     string(budget.Status),
		CreatedAt:  budget.CreatedAt,
		UpdatedAt:  budget.UpdatedAt,
	}
	if budget.Category != nil {
		category := ToCategoryResponse(budget.Category)
		resp.Category = &category
	}
	return resp
}

// ToBudgetListResponse converts budgets to a BudgetListResponse DTO.
func ToBudgetListResponse(budgets []*entity.Budget) BudgetListResponse {
	resp := BudgetListResponse{Budgets: make([]BudgetResponse, 0, len(budgets))}
	for _, b := range budgets {
		resp.Budgets = append(resp.Budgets, ToBudgetResponse(b))
	}
	return resp
}

// ToBalanceResponse converts a balance of budget to a BalanceResponse DTO.
func ToBalanceResponse(budget *entity.Budget, balance valueobject.Balance) BalanceResponse {
	return BalanceResponse{
		BudgetID:            budget.ID.String(),
		Status:              string(budget.Status),
		Initial:             balance.Initial.StringFixed(2),
		Spent:               balance.Spent.StringFixed(2),
		SpentPercentage:     balance.SpentPercentage.StringFixed(2),
		Remaining:           balance.Remaining.StringFixed(2),
		RemainingPercentage: balance.RemainingPercentage.StringFixed(2),
	}
}
