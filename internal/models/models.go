// Package models holds the shared data types persisted by the store and
// passed between the game service and its callers.
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/cooper-gadd/uno-game/internal/engine"
)

// Status is the lifecycle state of a game.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Zone is where a physical card currently lives. Every card instance is in
// exactly one zone at all times.
type Zone string

const (
	ZoneDrawPile Zone = "draw_pile"
	ZoneHand     Zone = "hand"
	ZoneDiscard  Zone = "discard"
)

// User identifies an account. Identity itself (registration, sessions) is
// owned by an external system; the game core only references user IDs.
type User struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
}

// Game is one game's row-level state. EffectiveColor is the color actually in
// play: a non-wild discard top's own color, or the color chosen after a wild.
// It is first-class state, never approximated by a substitute card.
type Game struct {
	ID                uuid.UUID        `json:"id"`
	Name              string           `json:"name"`
	Status            Status           `json:"status"`
	Direction         engine.Direction `json:"direction"`
	CurrentTurnPlayer uuid.UUID        `json:"currentTurnPlayer"` // player ID, Nil while waiting
	DiscardTop        uuid.UUID        `json:"discardTop"`        // card instance ID, Nil while waiting
	EffectiveColor    engine.Color     `json:"effectiveColor"`    // concrete while active
	MaxPlayers        int              `json:"maxPlayers"`
	CreatedBy         uuid.UUID        `json:"createdBy"` // user ID
	CreatedAt         time.Time        `json:"createdAt"`
	EndedAt           *time.Time       `json:"endedAt,omitempty"`
}

// Player is a user's seat in one game. TurnOrder is a 1..N permutation unique
// within the game, assigned at join time and immutable afterwards;
// HasCalledUno is the only mutable field.
type Player struct {
	ID           uuid.UUID `json:"id"`
	GameID       uuid.UUID `json:"gameId"`
	UserID       uuid.UUID `json:"userId"`
	TurnOrder    int       `json:"turnOrder"`
	HasCalledUno bool      `json:"hasCalledUno"`
}

// CardInstance is one physical card in one game. OwnerID is set iff the card
// is in a hand. Position orders the draw pile and discard pile; the top of
// either pile is the instance with the highest position.
type CardInstance struct {
	ID       uuid.UUID   `json:"id"`
	GameID   uuid.UUID   `json:"gameId"`
	Card     engine.Card `json:"card"`
	Zone     Zone        `json:"zone"`
	OwnerID  uuid.UUID   `json:"ownerId,omitempty"`
	Position int         `json:"position"`
}
