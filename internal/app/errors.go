package app

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine failures. All kinds are recoverable: the
// gateway reports them to the offending actor and the engine state is left
// untouched.
type ErrorKind string

const (
	// KindNotFound covers unknown sessions and players.
	KindNotFound ErrorKind = "not_found"
	// KindConflict covers full sessions, wrong-phase operations and
	// duplicate session ids.
	KindConflict ErrorKind = "conflict"
	// KindUnauthorized covers out-of-turn actions and action types not
	// permitted for the actor.
	KindUnauthorized ErrorKind = "unauthorized"
	// KindValidation covers malformed action payloads.
	KindValidation ErrorKind = "validation"
	// KindGameOver covers actions submitted after the session ended.
	KindGameOver ErrorKind = "game_over"
)

// Error is a structured engine failure returned to the caller.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Unauthorizedf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func GameOverf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindGameOver, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the error kind, or empty for non-engine errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
