package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/usecase/transaction"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/dto"
)

// TransactionController handles transaction endpoints nested under a budget.
type TransactionController struct {
	createUseCase *transaction.CreateTransactionUseCase
	listUseCase   *transaction.ListTransactionsUseCase
	getUseCase    *transaction.GetTransactionUseCase
	updateUseCase *transaction.UpdateTransactionUseCase
	deleteUseCase *transaction.DeleteTransactionUseCase
}

// NewTransactionController creates a new transaction controller instance.
func NewTransactionController(
	createUseCase *transaction.CreateTransactionUseCase,
	listUseCase *transaction.ListTransactionsUseCase,
	getUseCase *transaction.GetTransactionUseCase,
	updateUseCase *transaction.UpdateTransactionUseCase,
	deleteUseCase *transaction.DeleteTransactionUseCase,
) *TransactionController {
	return &TransactionController{
		createUseCase: createUseCase,
		listUseCase:   listUseCase,
		getUseCase:    getUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// Create handles POST /budgets/:id/transactions requests.
func (c *TransactionController) Create(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeMissingTransactionFields), err.Error())
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		badRequest(ctx, "Invalid date format", string(domainerror.ErrCodeMissingTransactionFields), "use YYYY-MM-DD or RFC 3339")
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), transaction.CreateTransactionInput{
		UserID:      userID,
		BudgetID:    budgetID,
		Amount:      *req.Amount,
		Date:        date,
		Description: req.Description,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToTransactionWriteResponse(output.Transaction, output.Alert))
}

// List handles GET /budgets/:id/transactions requests.
// Query: min_day, max_day, min_amount, max_amount.
func (c *TransactionController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	input := transaction.ListTransactionsInput{UserID: userID, BudgetID: budgetID}

	var err error
	if input.MinDay, err = queryInt(ctx, "min_day"); err != nil {
		badRequest(ctx, "min_day must be an integer", string(domainerror.ErrCodeInvalidTransactionFilter), "")
		return
	}
	if input.MaxDay, err = queryInt(ctx, "max_day"); err != nil {
		badRequest(ctx, "max_day must be an integer", string(domainerror.ErrCodeInvalidTransactionFilter), "")
		return
	}
	if input.MinAmount, err = queryDecimal(ctx, "min_amount"); err != nil {
		badRequest(ctx, "min_amount must be a number", string(domainerror.ErrCodeInvalidTransactionFilter), "")
		return
	}
	if input.MaxAmount, err = queryDecimal(ctx, "max_amount"); err != nil {
		badRequest(ctx, "max_amount must be a number", string(domainerror.ErrCodeInvalidTransactionFilter), "")
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionListResponse(output.Transactions))
}

// Get handles GET /budgets/:id/transactions/:txId requests.
func (c *TransactionController) Get(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	txID, ok := uuidParam(ctx, "txId")
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), transaction.GetTransactionInput{
		UserID:        userID,
		BudgetID:      budgetID,
		TransactionID: txID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionResponse(output.Transaction))
}

// Update handles PATCH /budgets/:id/transactions/:txId requests.
func (c *TransactionController) Update(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	txID, ok := uuidParam(ctx, "txId")
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeMissingTransactionFields), err.Error())
		return
	}

	input := transaction.UpdateTransactionInput{
		UserID:        userID,
		BudgetID:      budgetID,
		TransactionID: txID,
		Amount:        req.Amount,
		Description:   req.Description,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			badRequest(ctx, "Invalid date format", string(domainerror.ErrCodeMissingTransactionFields), "use YYYY-MM-DD or RFC 3339")
			return
		}
		input.Date = &date
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionWriteResponse(output.Transaction, output.Alert))
}

// Delete handles DELETE /budgets/:id/transactions/:txId requests.
func (c *TransactionController) Delete(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	txID, ok := uuidParam(ctx, "txId")
	if !ok {
		return
	}

	_, err := c.deleteUseCase.Execute(ctx.Request.Context(), transaction.DeleteTransactionInput{
		UserID:        userID,
		BudgetID:      budgetID,
		TransactionID: txID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func queryInt(ctx *gin.Context, key string) (*int, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func queryDecimal(ctx *gin.Context, key string) (*decimal.Decimal, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
