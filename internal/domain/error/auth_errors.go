package error

import "errors"

// Authentication errors. Tokens are issued elsewhere; this service only validates them.
var (
	// ErrInvalidToken is returned when a bearer token is invalid or malformed.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a bearer token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// AuthErrorCode defines error codes for authentication errors.
// Format: AUTH-XXYYYY where XX is category and YYYY is specific error.
type AuthErrorCode string

const (
	ErrCodeMissingToken AuthErrorCode = "AUTH-010001"
	ErrCodeInvalidToken AuthErrorCode = "AUTH-010002"
	ErrCodeExpiredToken AuthErrorCode = "AUTH-010003"
	ErrCodeRateLimited  AuthErrorCode = "AUTH-010004"
)
