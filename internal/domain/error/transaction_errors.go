package error

import "errors"

// Transaction domain errors.
var (
	// ErrTransactionNotFound is returned when a transaction does not exist on the budget.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidTransactionAmount is returned when the amount is zero or negative.
	ErrInvalidTransactionAmount = errors.New("invalid transaction amount")

	// ErrTransactionOutsidePeriod is returned when the date falls outside the budget period.
	ErrTransactionOutsidePeriod = errors.New("transaction date outside budget period")

	// ErrTransactionInFuture is returned when the date is after the time of the write.
	ErrTransactionInFuture = errors.New("transaction date is in the future")

	// ErrDescriptionTooLong is returned when the description exceeds the maximum length.
	ErrDescriptionTooLong = errors.New("description too long")

	// ErrInvalidTransactionFilter is returned when a list filter has min greater than max.
	ErrInvalidTransactionFilter = errors.New("invalid transaction filter")
)

// TransactionErrorCode defines error codes for transaction errors.
// Format: TXN-XXYYYY where XX is category and YYYY is specific error.
type TransactionErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidTransactionAmount TransactionErrorCode = "TXN-010001"
	ErrCodeTransactionOutsidePeriod TransactionErrorCode = "TXN-010002"
	ErrCodeTransactionInFuture      TransactionErrorCode = "TXN-010003"
	ErrCodeDescriptionTooLong       TransactionErrorCode = "TXN-010004"
	ErrCodeInvalidTransactionFilter TransactionErrorCode = "TXN-010005"
	ErrCodeMissingTransactionFields TransactionErrorCode = "TXN-010006"

	// Not found errors (02XXXX)
	ErrCodeTransactionNotFound TransactionErrorCode = "TXN-020001"
	ErrCodeTxnBudgetNotFound   TransactionErrorCode = "TXN-020002"

	// Conflict errors (03XXXX)
	ErrCodeTxnBudgetNotActive TransactionErrorCode = "TXN-030001"

	// Internal errors (04XXXX)
	ErrCodeTransactionStoreFailure TransactionErrorCode = "TXN-040001"
)

// TransactionError represents a transaction error with code and message.
type TransactionError struct {
	Code    TransactionErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *TransactionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *TransactionError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the string form of the code.
func (e *TransactionError) ErrorCode() string {
	return string(e.Code)
}

// NewTransactionError creates a new TransactionError with the given code and message.
func NewTransactionError(code TransactionErrorCode, message string, err error) *TransactionError {
	return &TransactionError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
