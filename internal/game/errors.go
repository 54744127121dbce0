package game

import (
	"errors"
	"fmt"
)

// Code classifies a game error so transports can map it without string
// matching.
type Code string

const (
	CodeNotFound          Code = "not_found"
	CodeInvalidState      Code = "invalid_state"
	CodeNotYourTurn       Code = "not_your_turn"
	CodeIllegalMove       Code = "illegal_move"
	CodeColorRequired     Code = "color_required"
	CodeCapacity          Code = "capacity"
	CodeDeckExhausted     Code = "deck_exhausted"
	CodeInsufficientCards Code = "insufficient_cards"
	CodeBusy              Code = "busy"
	CodeTimeout           Code = "timeout"
)

// Error is a rule or validation failure. Any Error aborts the surrounding
// transaction before a mutation becomes visible.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches by code, so errors.Is(err, ErrNotYourTurn) holds for any Error
// carrying that code regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Sentinels for errors.Is checks. Errors built with newError compare equal to
// the sentinel sharing their code.
var (
	ErrGameNotFound      = &Error{Code: CodeNotFound, Message: "game not found"}
	ErrPlayerNotFound    = &Error{Code: CodeNotFound, Message: "player not found"}
	ErrCardNotFound      = &Error{Code: CodeNotFound, Message: "card not found"}
	ErrInvalidState      = &Error{Code: CodeInvalidState, Message: "action not allowed in current game state"}
	ErrNotYourTurn       = &Error{Code: CodeNotYourTurn, Message: "it is not your turn"}
	ErrIllegalMove       = &Error{Code: CodeIllegalMove, Message: "card does not match the discard"}
	ErrColorRequired     = &Error{Code: CodeColorRequired, Message: "a color must be selected for a wild card"}
	ErrGameFull          = &Error{Code: CodeCapacity, Message: "game is full"}
	ErrNotEnoughPlayers  = &Error{Code: CodeCapacity, Message: "game must have at least 2 players"}
	ErrDeckExhausted     = &Error{Code: CodeDeckExhausted, Message: "no cards left to draw"}
	ErrInsufficientCards = &Error{Code: CodeInsufficientCards, Message: "not enough cards to deal"}
	ErrBusy              = &Error{Code: CodeBusy, Message: "another action is in progress for this game"}
	ErrTimeout           = &Error{Code: CodeTimeout, Message: "timed out waiting for the game lock"}
)

// CodeOf extracts the Code from err, or "" for non-game errors.
func CodeOf(err error) Code {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}
