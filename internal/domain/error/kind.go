// Package error defines domain-specific errors for the Budget Tracker application.
package error

import (
	"errors"
	"strings"
)

// Kind classifies a domain error for callers that only care about its broad category.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error code category segments.
// Format: PREFIX-XXYYYY where XX is the category below and YYYY the specific error.
const (
	categoryValidation = "01"
	categoryNotFound   = "02"
	categoryConflict   = "03"
	categoryInternal   = "04"
)

// codedError is implemented by every typed domain error.
type codedError interface {
	error
	ErrorCode() string
}

// CodeOf returns the code of the first typed domain error in err's chain.
func CodeOf(err error) string {
	var coded codedError
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}
	return ""
}

// KindOf classifies err. Errors without a recognised code are internal.
func KindOf(err error) Kind {
	code := CodeOf(err)
	if code == "" {
		return KindInternal
	}
	idx := strings.IndexByte(code, '-')
	if idx < 0 || len(code) < idx+3 {
		return KindInternal
	}
	switch code[idx+1 : idx+3] {
	case categoryValidation:
		return KindValidation
	case categoryNotFound:
		return KindNotFound
	case categoryConflict:
		return KindConflict
	default:
		return KindInternal
	}
}
