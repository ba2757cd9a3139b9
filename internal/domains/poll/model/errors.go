package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound    = "POLL001"
	ErrCodeForbidden   = "POLL002"
	ErrCodeValidation  = "POLL003"
	ErrCodeConflict    = "POLL004"
	ErrCodeClosed      = "POLL005"
	ErrCodeRateLimited = "POLL006"
	ErrCodeInternal    = "POLL500"
)

var (
	ErrNotFound    = errors.New("poll not found")
	ErrForbidden   = errors.New("forbidden")
	ErrValidation  = errors.New("validation failed")
	ErrConflict    = errors.New("already voted")
	ErrClosed      = errors.New("poll has ended")
	ErrRateLimited = errors.New("too many votes")
)

// PollError custom error type
type PollError struct {
	Code    string
	Message string
	Err     error
}

func (e *PollError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PollError) Unwrap() error {
	return e.Err
}

func NewNotFoundError() *PollError {
	return &PollError{Code: ErrCodeNotFound, Message: "Poll not found", Err: ErrNotFound}
}

func NewForbiddenError(message string) *PollError {
	return &PollError{Code: ErrCodeForbidden, Message: message, Err: ErrForbidden}
}

func NewValidationError(err error) *PollError {
	msg := "Validation failed"
	if err != nil {
		msg = err.Error()
	}
	return &PollError{Code: ErrCodeValidation, Message: msg, Err: ErrValidation}
}

func NewAlreadyVotedError() *PollError {
	return &PollError{Code: ErrCodeConflict, Message: "You have already voted in this poll", Err: ErrConflict}
}

func NewClosedError() *PollError {
	return &PollError{Code: ErrCodeClosed, Message: "Voting for this poll has ended", Err: ErrClosed}
}

func NewRateLimitedError() *PollError {
	return &PollError{Code: ErrCodeRateLimited, Message: "Too many votes, please slow down", Err: ErrRateLimited}
}

func NewInternalError(message string, err error) *PollError {
	return &PollError{Code: ErrCodeInternal, Message: message, Err: err}
}
