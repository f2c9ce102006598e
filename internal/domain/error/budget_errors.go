package error

import "errors"

// Budget domain errors.
var (
	// ErrBudgetNotFound is returned when a budget does not exist or is not owned by the caller.
	ErrBudgetNotFound = errors.New("budget not found")

	// ErrBudgetNameExists is returned when the owner already has a budget with the same name.
	ErrBudgetNameExists = errors.New("budget name already exists")

	// ErrInvalidBudgetAmount is returned when the budget amount is zero or negative.
	ErrInvalidBudgetAmount = errors.New("invalid budget amount")

	// ErrInvalidMonthIndex is returned when the month index is outside 0..11.
	ErrInvalidMonthIndex = errors.New("invalid month index")

	// ErrMonthInPast is returned when the requested period is before the current month.
	ErrMonthInPast = errors.New("month is in the past")

	// ErrInvalidBudgetName is returned when the budget name is empty or too long.
	ErrInvalidBudgetName = errors.New("invalid budget name")

	// ErrInvalidBudgetStatus is returned when a status filter is not a known status.
	ErrInvalidBudgetStatus = errors.New("invalid budget status")

	// ErrPeriodLocked is returned when the period of a non-pending budget is edited.
	ErrPeriodLocked = errors.New("budget period can only change while pending")

	// ErrBudgetNotActive is returned when a transaction is written against a budget that is not active.
	ErrBudgetNotActive = errors.New("budget is not active")
)

// BudgetErrorCode defines error codes for budget errors.
// Format: BUD-XXYYYY where XX is category and YYYY is specific error.
type BudgetErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidBudgetAmount BudgetErrorCode = "BUD-010001"
	ErrCodeInvalidMonthIndex   BudgetErrorCode = "BUD-010002"
	ErrCodeMonthInPast         BudgetErrorCode = "BUD-010003"
	ErrCodeInvalidBudgetName   BudgetErrorCode = "BUD-010004"
	ErrCodeInvalidBudgetStatus BudgetErrorCode = "BUD-010005"
	ErrCodeMissingBudgetFields BudgetErrorCode = "BUD-010006"

	// Not found errors (02XXXX)
	ErrCodeBudgetNotFound         BudgetErrorCode = "BUD-020001"
	ErrCodeBudgetCategoryNotFound BudgetErrorCode = "BUD-020002"

	// Conflict errors (03XXXX)
	ErrCodeBudgetNameExists BudgetErrorCode = "BUD-030001"
	ErrCodePeriodLocked     BudgetErrorCode = "BUD-030002"
	ErrCodeBudgetNotActive  BudgetErrorCode = "BUD-030003"

	// Internal errors (04XXXX)
	ErrCodeBudgetStoreFailure BudgetErrorCode = "BUD-040001"
)

// BudgetError represents a budget error with code and message.
type BudgetError struct {
	Code    BudgetErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *BudgetError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *BudgetError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the string form of the code.
func (e *BudgetError) ErrorCode() string {
	return string(e.Code)
}

// NewBudgetError creates a new BudgetError with the given code and message.
func NewBudgetError(code BudgetErrorCode, message string, err error) *BudgetError {
	return &BudgetError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
