// Package game implements the transactional rules core: validation, atomic
// state transitions, and win detection for Uno games.
package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cooper-gadd/uno-game/internal/models"
)

// EventType labels a post-commit game notification.
type EventType string

const (
	EventGameCreated  EventType = "game_created"
	EventPlayerJoined EventType = "player_joined"
	EventGameStarted  EventType = "game_started"
	EventCardDrawn    EventType = "card_drawn"
	EventCardPlayed   EventType = "card_played"
	EventUnoCalled    EventType = "uno_called"
	EventUnoPenalty   EventType = "uno_penalty"
	EventGameFinished EventType = "game_finished"
)

// LobbySummary is the lobby listing projection of a game.
type LobbySummary struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Status      models.Status `json:"status"`
	MaxPlayers  int           `json:"maxPlayers"`
	PlayerCount int           `json:"playerCount"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Store is the persistence contract. Update runs fn against a consistent
// State snapshot under per-game exclusion: the effects of one mutation are
// fully visible before the next begins, and an error from fn discards every
// change. Acquiring the exclusion is bounded; contention surfaces as
// ErrTimeout or ErrBusy.
type Store interface {
	CreateGame(ctx context.Context, st *State) error
	Update(ctx context.Context, gameID uuid.UUID, fn func(*State) error) (*State, error)
	View(ctx context.Context, gameID uuid.UUID) (*State, error)
	LobbySummaries(ctx context.Context) ([]LobbySummary, error)
}

// Notifier delivers best-effort change notifications to the real-time layer.
// Failures never affect a committed game action.
type Notifier interface {
	Notify(ctx context.Context, gameID uuid.UUID, event EventType) error
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, uuid.UUID, EventType) error { return nil }

// Game capacity bounds.
const (
	MinPlayers = 2
	MaxPlayers = 10
)

const notifyTimeout = 2 * time.Second

// Service exposes the game operations. Every mutating operation is one
// all-or-nothing transaction through the Store; notification happens after
// commit and never blocks or fails the action.
type Service struct {
	store    Store
	notifier Notifier
	log      *logrus.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService builds a Service. A nil notifier disables notifications.
func NewService(store Store, notifier Notifier, log *logrus.Logger) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if log == nil {
		log = logrus.New()
	}
	return &Service{
		store:    store,
		notifier: notifier,
		log:      log,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// shuffleRand hands a locked rng to fn. The rng is shared across games, so
// access stays serialized even though games run in parallel.
func (s *Service) shuffleRand(fn func(rng *rand.Rand)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.rng)
}

// notify publishes a post-commit event, fire-and-forget with its own short
// timeout. Errors are logged, never propagated: the action already committed.
func (s *Service) notify(gameID uuid.UUID, event EventType) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.Notify(ctx, gameID, event); err != nil {
			s.log.WithFields(logrus.Fields{
				"game_id": gameID,
				"event":   event,
			}).WithError(err).Warn("game notification failed")
		}
	}()
}

// LobbyGames lists games for the lobby.
func (s *Service) LobbyGames(ctx context.Context) ([]LobbySummary, error) {
	return s.store.LobbySummaries(ctx)
}

// GameView returns the game projected for one viewer: the viewer's own hand
// in full, every other hand as a size only.
func (s *Service) GameView(ctx context.Context, gameID, viewerUserID uuid.UUID) (*View, error) {
	st, err := s.store.View(ctx, gameID)
	if err != nil {
		return nil, err
	}
	v := NewView(st, viewerUserID)
	return &v, nil
}
