package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound          = "ART001"
	ErrCodeForbidden         = "ART002"
	ErrCodeInvalidTransition = "ART003"
	ErrCodeMissingData       = "ART004"
	ErrCodeValidation        = "ART005"
	ErrCodeConflict          = "ART006"
	ErrCodeVersionNotFound   = "ART007"
	ErrCodeInternal          = "ART500"
)

// Errors
var (
	ErrNotFound          = errors.New("document not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrMissingData       = errors.New("missing required data")
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("conflict")
)

// ArticleError custom error type
type ArticleError struct {
	Code    string
	Message string
	Err     error
}

func (e *ArticleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ArticleError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewNotFoundError() *ArticleError {
	return &ArticleError{
		Code:    ErrCodeNotFound,
		Message: "Document not found",
		Err:     ErrNotFound,
	}
}

func NewVersionNotFoundError() *ArticleError {
	return &ArticleError{
		Code:    ErrCodeVersionNotFound,
		Message: "Version not found for this document",
		Err:     ErrNotFound,
	}
}

func NewForbiddenError(message string) *ArticleError {
	return &ArticleError{
		Code:    ErrCodeForbidden,
		Message: message,
		Err:     ErrForbidden,
	}
}

func NewFieldForbiddenError(field string) *ArticleError {
	return &ArticleError{
		Code:    ErrCodeForbidden,
		Message: fmt.Sprintf("Not allowed to change field %q", field),
		Err:     ErrForbidden,
	}
}

// NewInvalidTransitionError names both states
func NewInvalidTransitionError(from, to Status) *ArticleError {
	return &ArticleError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("Cannot transition from %q to %q", from, to),
		Err:     ErrInvalidTransition,
	}
}

func NewMissingDataError(message string) *ArticleError {
	return &ArticleError{
		Code:    ErrCodeMissingData,
		Message: message,
		Err:     ErrMissingData,
	}
}

func NewValidationError(err error) *ArticleError {
	msg := "Validation failed"
	if err != nil {
		msg = err.Error()
	}
	return &ArticleError{
		Code:    ErrCodeValidation,
		Message: msg,
		Err:     ErrValidation,
	}
}

func NewSlugConflictError(slug string) *ArticleError {
	return &ArticleError{
		Code:    ErrCodeConflict,
		Message: fmt.Sprintf("Slug %q is already in use", slug),
		Err:     ErrConflict,
	}
}

func NewVersionConflictError() *ArticleError {
	return &ArticleError{
		Code:    ErrCodeConflict,
		Message: "Document was modified by someone else, reload and retry",
		Err:     ErrConflict,
	}
}

func NewInternalError(message string, err error) *ArticleError {
	return &ArticleError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}
