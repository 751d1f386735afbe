package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// FormatError indicates a code that no normalization rule accepts
	FormatError ErrorCode = "FORMAT_ERROR"
	// YearNotFound indicates no catalog exists for a year
	YearNotFound ErrorCode = "YEAR_NOT_FOUND"
	// CatalogIncomplete indicates a required catalog file is missing
	CatalogIncomplete ErrorCode = "CATALOG_INCOMPLETE"
	// CodeNotFound indicates a code is absent from the catalog year
	CodeNotFound ErrorCode = "CODE_NOT_FOUND"
	// InvalidVariant indicates an unknown catalog variant
	InvalidVariant ErrorCode = "INVALID_VARIANT"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// CatalogError carries a stable code, a user-facing message and an
// optional suggested action
type CatalogError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Action  string    `json:"action,omitempty"`
	cause   error
}

// New creates a CatalogError with the default action for its code
func New(code ErrorCode, message string, cause error) *CatalogError {
	return &CatalogError{
		Code:    code,
		Message: message,
		Action:  SuggestedAction(code),
		cause:   cause,
	}
}

// Newf creates a CatalogError with a formatted message
func Newf(code ErrorCode, format string, args ...any) *CatalogError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Error implements the error interface
func (e *CatalogError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *CatalogError) Unwrap() error {
	return e.cause
}

// WithAction replaces the suggested action
func (e *CatalogError) WithAction(action string) *CatalogError {
	e.Action = action
	return e
}

// CodeOf returns the code of the first CatalogError in err's chain, or
// InternalError
func CodeOf(err error) ErrorCode {
	var ce *CatalogError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return InternalError
}

// Is reports whether err carries the given code
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

var actions = map[ErrorCode]string{
	FormatError:       "check the code spelling, e.g. A00.0 or 5-378.b8",
	YearNotFound:      "run 'catdelta years' to list the available years",
	CatalogIncomplete: "place codes.txt, groups.txt and chapters.txt in the year directory",
	CodeNotFound:      "run 'catdelta search' to look the code up by description",
	InvalidVariant:    "use one of: icd, ops",
}

// SuggestedAction returns the default action for a code
func SuggestedAction(code ErrorCode) string {
	return actions[code]
}
