package error

import "errors"

// Category domain errors.
var (
	// ErrCategoryNotFound is returned when a category is not found for the owner.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrInvalidCategoryName is returned when a category name is empty or too long.
	ErrInvalidCategoryName = errors.New("invalid category name")
)

// CategoryErrorCode defines error codes for category errors.
// Format: CAT-XXYYYY where XX is category and YYYY is specific error.
type CategoryErrorCode string

const (
	ErrCodeInvalidCategoryName  CategoryErrorCode = "CAT-010001"
	ErrCodeCategoryNotFound     CategoryErrorCode = "CAT-020001"
	ErrCodeCategoryStoreFailure CategoryErrorCode = "CAT-040001"
)

// CategoryError represents a category error with code and message.
type CategoryError struct {
	Code    CategoryErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CategoryError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CategoryError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the string form of the code.
func (e *CategoryError) ErrorCode() string {
	return string(e.Code)
}

// NewCategoryError creates a new CategoryError with the given code and message.
func NewCategoryError(code CategoryErrorCode, message string, err error) *CategoryError {
	return &CategoryError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
