package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// CreateTransactionRequest represents the request body for transaction creation.
// Date accepts YYYY-MM-DD or RFC 3339.
type CreateTransactionRequest struct {
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Date        string           `json:"date" binding:"required"`
	Description string           `json:"description,omitempty"`
}

// UpdateTransactionRequest represents the request body for transaction update.
type UpdateTransactionRequest struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Date        *string          `json:"date,omitempty"`
	Description *string          `json:"description,omitempty"`
}

// TransactionResponse represents a single transaction in API responses.
type TransactionResponse struct {
	ID          string    `json:"id"`
	BudgetID    string    `json:"budget_id"`
	Amount      string    `json:"amount"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TransactionWriteResponse is returned by writes. Alert is set when the write crossed a threshold.
type TransactionWriteResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Alert       *AlertResponse      `json:"alert,omitempty"`
}

// TransactionListResponse represents the response for listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// AlertResponse represents a threshold alert in API responses.
type AlertResponse struct {
	Kind            string    `json:"alert_kind"`
	BudgetID        string    `json:"budget_id"`
	BudgetName      string    `json:"budget_name"`
	Message         string    `json:"message"`
	SpentPercentage string    `json:"spent_percentage"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// ToTransactionResponse converts a domain Transaction entity to a TransactionResponse DTO.
func ToTransactionResponse(tx *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID.String(),
		BudgetID:    tx.BudgetID.String(),
		Amount:      tx.Amount.StringFixed(2),
		Date:        tx.Date,
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}

// ToTransactionWriteResponse builds the response of a create or update.
func ToTransactionWriteResponse(tx *entity.Transaction, alert *entity.AlertEvent) TransactionWriteResponse {
	resp := TransactionWriteResponse{Transaction: ToTransactionResponse(tx)}
	if alert != nil {
		resp.Alert = &AlertResponse{
			Kind:            string(alert.Kind),
			BudgetID:        alert.BudgetID.String(),
			BudgetName:      alert.BudgetName,
			Message:         alert.Message,
			SpentPercentage: alert.SpentPercentage.StringFixed(2),
			OccurredAt:      alert.OccurredAt,
		}
	}
	return resp
}

// ToTransactionListResponse converts transactions to a TransactionListResponse DTO.
func ToTransactionListResponse(txs []*entity.Transaction) TransactionListResponse {
	resp := TransactionListResponse{Transactions: make([]TransactionResponse, 0, len(txs))}
	for _, tx := range txs {
		resp.Transactions = append(resp.Transactions, ToTransactionResponse(tx))
	}
	return resp
}
