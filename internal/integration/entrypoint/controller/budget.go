package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/budget-tracker/backend/internal/application/usecase/budget"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/dto"
)

// BudgetController handles budget endpoints.
type BudgetController struct {
	createUseCase  *budget.CreateBudgetUseCase
	listUseCase    *budget.ListBudgetsUseCase
	getUseCase     *budget.GetBudgetUseCase
	updateUseCase  *budget.UpdateBudgetUseCase
	deleteUseCase  *budget.DeleteBudgetUseCase
	balanceUseCase *budget.GetBalanceUseCase
}

// NewBudgetController creates a new budget controller instance.
func NewBudgetController(
	createUseCase *budget.CreateBudgetUseCase,
	listUseCase *budget.ListBudgetsUseCase,
	getUseCase *budget.GetBudgetUseCase,
	updateUseCase *budget.UpdateBudgetUseCase,
	deleteUseCase *budget.DeleteBudgetUseCase,
	balanceUseCase *budget.GetBalanceUseCase,
) *BudgetController {
	return &BudgetController{
		createUseCase:  createUseCase,
		listUseCase:    listUseCase,
		getUseCase:     getUseCase,
		updateUseCase:  updateUseCase,
		deleteUseCase:  deleteUseCase,
		balanceUseCase: balanceUseCase,
	}
}

// Create handles POST /budgets requests.
func (c *BudgetController) Create(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateBudgetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeMissingBudgetFields), err.Error())
		return
	}

	categoryID, err := parseOptionalUUID(req.CategoryID)
	if err != nil {
		badRequest(ctx, "Invalid category_id format", string(domainerror.ErrCodeMissingBudgetFields), "")
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), budget.CreateBudgetInput{
		UserID:       userID,
		Name:         req.Name,
		CategoryID:   categoryID,
		CategoryName: req.CategoryName,
		Amount:       *req.Amount,
		MonthIndex:   *req.MonthIndex,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToBudgetResponse(output.Budget))
}

// List handles GET /budgets requests.
// Query: category, month (0..11), status.
func (c *BudgetController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	input := budget.ListBudgetsInput{UserID: userID}

	if name := ctx.Query("category"); name != "" {
		input.CategoryName = &name
	}
	if month := ctx.Query("month"); month != "" {
		idx, err := strconv.Atoi(month)
		if err != nil {
			badRequest(ctx, "month must be an integer", string(domainerror.ErrCodeInvalidMonthIndex), "")
			return
		}
		input.MonthIndex = &idx
	}
	if status := ctx.Query("status"); status != "" {
		s := entity.BudgetStatus(status)
		input.Status = &s
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetListResponse(output.Budgets))
}

// Get handles GET /budgets/:id requests.
func (c *BudgetController) Get(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), budget.GetBudgetInput{
		UserID:   userID,
		BudgetID: budgetID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetResponse(output.Budget))
}

// Update handles PATCH /budgets/:id requests.
func (c *BudgetController) Update(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateBudgetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeMissingBudgetFields), err.Error())
		return
	}

	categoryID, err := parseOptionalUUID(req.CategoryID)
	if err != nil {
		badRequest(ctx, "Invalid category_id format", string(domainerror.ErrCodeMissingBudgetFields), "")
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), budget.UpdateBudgetInput{
		UserID:       userID,
		BudgetID:     budgetID,
		Name:         req.Name,
		Amount:       req.Amount,
		CategoryID:   categoryID,
		CategoryName: req.CategoryName,
		MonthIndex:   req.MonthIndex,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetResponse(output.Budget))
}

// Delete handles DELETE /budgets/:id requests.
func (c *BudgetController) Delete(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	_, err := c.deleteUseCase.Execute(ctx.Request.Context(), budget.DeleteBudgetInput{
		UserID:   userID,
		BudgetID: budgetID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Balance handles GET /budgets/:id/balance requests.
func (c *BudgetController) Balance(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	output, err := c.balanceUseCase.Execute(ctx.Request.Context(), budget.GetBalanceInput{
		UserID:   userID,
		BudgetID: budgetID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBalanceResponse(output.Budget, output.Balance))
}
