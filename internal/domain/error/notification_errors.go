package error

import "errors"

// Notification errors.
var (
	// ErrNoRecipient is returned when no delivery channel can reach the user.
	ErrNoRecipient = errors.New("no reachable channel for user")

	// ErrUserNotFound is returned when a user record is not found.
	ErrUserNotFound = errors.New("user not found")
)

// NotificationErrorCode defines error codes for notification errors.
// Format: NTF-XXYYYY where XX is category and YYYY is specific error.
type NotificationErrorCode string

const (
	ErrCodeInvalidRegistration NotificationErrorCode = "NTF-010001"
	ErrCodeNoRecipient         NotificationErrorCode = "NTF-020001"
	ErrCodeDeliveryFailed      NotificationErrorCode = "NTF-040001"
)

// NotificationError represents a notification error with code and message.
type NotificationError struct {
	Code    NotificationErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *NotificationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *NotificationError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the string form of the code.
func (e *NotificationError) ErrorCode() string {
	return string(e.Code)
}

// NewNotificationError creates a new NotificationError with the given code and message.
func NewNotificationError(code NotificationErrorCode, message string, err error) *NotificationError {
	return &NotificationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
