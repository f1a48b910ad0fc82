package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents an lsq error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"    // 400
	ErrInvalidArgument  ErrorCode = "INVALID_ARGUMENT"   // 400 (programming error, e.g. non-positive limit)
	ErrUnknownEntryType ErrorCode = "UNKNOWN_ENTRY_TYPE" // 400
	ErrNotFound         ErrorCode = "NOT_FOUND"          // 404
	ErrFileNotFound     ErrorCode = "FILE_NOT_FOUND"     // 404
	ErrConflict         ErrorCode = "CONFLICT"           // 409
	ErrCatalogLoad      ErrorCode = "CATALOG_LOAD"       // 500, fatal at startup in strict mode
	ErrInternal         ErrorCode = "INTERNAL"           // 500
)

// Error represents a structured error with code, status, and details.
type Error struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *Error {
	return &Error{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInvalidArgument creates a 400 error for caller programming errors
// (e.g. a non-positive match limit). These are never user-facing.
func NewInvalidArgument(msg string) *Error {
	return &Error{
		Code:    ErrInvalidArgument,
		Status:  400,
		Message: msg,
	}
}

// NewUnknownEntryType creates a 400 error for an entry type outside the
// configured list.
func NewUnknownEntryType(entryType string, known []string) *Error {
	return &Error{
		Code:    ErrUnknownEntryType,
		Status:  400,
		Message: fmt.Sprintf("unknown entry type %q", entryType),
		Details: map[string]any{"entry_type": entryType, "known_types": known},
	}
}

// NewNotFound creates a 404 error for when an item cannot be found.
func NewNotFound(identifier string) *Error {
	return &Error{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("item not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *Error {
	return &Error{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *Error {
	return &Error{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewCatalogLoad creates a 500 error for a malformed emotion catalog source.
// Line is 1-based within the catalog source; 0 means the failure is not tied
// to a specific row.
func NewCatalogLoad(line int, msg string) *Error {
	e := &Error{
		Code:    ErrCatalogLoad,
		Status:  500,
		Message: msg,
	}
	if line > 0 {
		e.Message = fmt.Sprintf("catalog line %d: %s", line, msg)
		e.Details = map[string]any{"line": line}
	}
	return e
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *Error {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error (or any error it wraps) is an Error with the given code.
func Is(err error, code ErrorCode) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}
