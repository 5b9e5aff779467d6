package models

import (
	"errors"
	"fmt"
)

// ErrorCode is a stable machine-readable code returned to API callers.
type ErrorCode string

const (
	CodeNotFound          ErrorCode = "not_found"
	CodeConflict          ErrorCode = "conflict"
	CodeNotAuthorized     ErrorCode = "not_authorized"
	CodeInvalidTransition ErrorCode = "invalid_transition"
	CodeUpstreamDegraded  ErrorCode = "upstream_degraded"
)

// EngineError is the error type surfaced by the moderation engine.
// CurrentState carries the entity's state on invalid-transition errors so the
// caller can resync instead of retrying blindly.
type EngineError struct {
	Code         ErrorCode `json:"code"`
	Message      string    `json:"message"`
	CurrentState string    `json:"current_state,omitempty"`
}

func (e *EngineError) Error() string {
	if e.CurrentState != "" {
		return fmt.Sprintf("%s: %s (current state: %s)", e.Code, e.Message, e.CurrentState)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrNotFound reports a missing entity reference.
func ErrNotFound(what string) *EngineError {
	return &EngineError{Code: CodeNotFound, Message: what + " not found"}
}

// ErrConflict reports a duplicate or already-applied operation
// (duplicate guideline version, double decision, double appeal).
func ErrConflict(msg string) *EngineError {
	return &EngineError{Code: CodeConflict, Message: msg}
}

// ErrNotAuthorized reports a failed role or ownership check. The message is
// deliberately generic so it never leaks the existence of another user's data.
func ErrNotAuthorized() *EngineError {
	return &EngineError{Code: CodeNotAuthorized, Message: "not authorized"}
}

// ErrInvalidTransition reports an operation that is not valid for the entity's
// current state, attaching that state for the caller.
func ErrInvalidTransition(msg, currentState string) *EngineError {
	return &EngineError{Code: CodeInvalidTransition, Message: msg, CurrentState: currentState}
}

// ErrUpstreamDegraded reports a scorer/detector failure. It is absorbed by the
// engine (the case is queued for human review) and never surfaced as a request
// failure.
func ErrUpstreamDegraded(msg string) *EngineError {
	return &EngineError{Code: CodeUpstreamDegraded, Message: msg}
}

// AsEngineError unwraps err into an *EngineError if it is one.
func AsEngineError(err error) (*EngineError, bool) {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}

// IsCode reports whether err is an EngineError with the given code.
func IsCode(err error, code ErrorCode) bool {
	ee, ok := AsEngineError(err)
	return ok && ee.Code == code
}
