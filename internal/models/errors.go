package models

import "fmt"

// GameError is the unified error type for the game.
// Each error has a numeric code and human-readable message.
type GameError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *GameError) Error() string {
	return e.Message
}

// Is matches any GameError carrying the same code, so errors.Is works on
// values produced by Detail.
func (e *GameError) Is(target error) bool {
	t, ok := target.(*GameError)
	return ok && t.Code == e.Code
}

// Detail returns a copy of base with extra context appended to its message.
func Detail(base *GameError, format string, args ...any) *GameError {
	return &GameError{Code: base.Code, Message: fmt.Sprintf("%s: %s", base.Message, fmt.Sprintf(format, args...))}
}

// Wrap returns a copy of base describing cause.
func Wrap(base *GameError, cause error) *GameError {
	return &GameError{Code: base.Code, Message: fmt.Sprintf("%s: %v", base.Message, cause)}
}

// ---- Action errors (100-129) ----

var (
	ErrInsufficientResource = &GameError{Code: 100, Message: "insufficient resources"}
	ErrActionNotFound       = &GameError{Code: 101, Message: "action not found"}
	ErrMethodNotFound       = &GameError{Code: 102, Message: "investigation method not found"}
	ErrPoolExhausted        = &GameError{Code: 103, Message: "no evidence left to discover"}
	ErrUnknownResource      = &GameError{Code: 104, Message: "unknown resource"}
	ErrInvalidTransfer      = &GameError{Code: 105, Message: "invalid transfer"}
	ErrGameOver             = &GameError{Code: 106, Message: "the crisis has already been resolved"}
)

// ---- Session / content errors (130-159) ----

var (
	ErrUnknownRole     = &GameError{Code: 130, Message: "unknown role"}
	ErrUnknownEvent    = &GameError{Code: 131, Message: "unknown crisis event"}
	ErrContentLoad     = &GameError{Code: 132, Message: "content could not be loaded"}
	ErrInvalidSnapshot = &GameError{Code: 133, Message: "invalid session snapshot"}
)

// ---- Config / storage errors (160-189) ----

var (
	ErrConfigInvalid = &GameError{Code: 160, Message: "invalid configuration"}
	ErrStore         = &GameError{Code: 161, Message: "save store failure"}
)
