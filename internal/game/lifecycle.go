package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cooper-gadd/uno-game/internal/engine"
	"github.com/cooper-gadd/uno-game/internal/models"
)

// CreateGame creates a game in the waiting state with the creator seated at
// turn order 1.
func (s *Service) CreateGame(ctx context.Context, name string, maxPlayers int, creatorUserID uuid.UUID) (*State, error) {
	if maxPlayers < MinPlayers || maxPlayers > MaxPlayers {
		return nil, newError(CodeCapacity, "maxPlayers must be between %d and %d", MinPlayers, MaxPlayers)
	}

	gameID := uuid.New()
	st := NewState(models.Game{
		ID:         gameID,
		Name:       name,
		Status:     models.StatusWaiting,
		Direction:  engine.Clockwise,
		MaxPlayers: maxPlayers,
		CreatedBy:  creatorUserID,
		CreatedAt:  time.Now().UTC(),
	}, nil, nil)
	st.addPlayer(&models.Player{
		ID:        uuid.New(),
		GameID:    gameID,
		UserID:    creatorUserID,
		TurnOrder: 1,
	})

	if err := s.store.CreateGame(ctx, st); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"game_id": gameID,
		"user_id": creatorUserID,
	}).Info("game created")
	s.notify(gameID, EventGameCreated)
	return st, nil
}

// JoinGame seats a user. Joining is idempotent for an already-seated user,
// rejected with ErrGameFull at capacity, and rejected with an invalid-state
// error once the game has started.
func (s *Service) JoinGame(ctx context.Context, gameID, userID uuid.UUID) (*State, error) {
	joined := false
	st, err := s.store.Update(ctx, gameID, func(st *State) error {
		if st.PlayerByUser(userID) != nil {
			return nil
		}
		if st.Game.Status != models.StatusWaiting {
			return newError(CodeInvalidState, "game %s is %s and cannot be joined", gameID, st.Game.Status)
		}
		if len(st.Players) >= st.Game.MaxPlayers {
			return ErrGameFull
		}
		st.addPlayer(&models.Player{
			ID:        uuid.New(),
			GameID:    gameID,
			UserID:    userID,
			TurnOrder: len(st.Players) + 1,
		})
		joined = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if joined {
		s.log.WithFields(logrus.Fields{
			"game_id": gameID,
			"user_id": userID,
		}).Info("player joined")
		s.notify(gameID, EventPlayerJoined)
	}
	return st, nil
}

// StartGame transitions waiting -> active: builds and shuffles the deck,
// deals seven cards per player, flips the opening card, and hands the first
// turn to the player at turn order 1.
func (s *Service) StartGame(ctx context.Context, gameID uuid.UUID) (*State, error) {
	st, err := s.store.Update(ctx, gameID, func(st *State) error {
		if st.Game.Status != models.StatusWaiting {
			return newError(CodeInvalidState, "game %s is %s and cannot be started", gameID, st.Game.Status)
		}
		if len(st.Players) < MinPlayers {
			return ErrNotEnoughPlayers
		}

		var dealErr error
		s.shuffleRand(func(rng *rand.Rand) {
			st.initializeDeck(rng)
			if dealErr = st.deal(HandSize); dealErr != nil {
				return
			}
			dealErr = st.placeOpeningCard(rng)
		})
		if dealErr != nil {
			return dealErr
		}

		first := st.PlayerByOrder(1)
		if first == nil {
			return newError(CodeInvalidState, "game %s has no player at turn order 1", gameID)
		}
		st.Game.CurrentTurnPlayer = first.ID
		st.Game.Status = models.StatusActive
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"game_id": gameID,
		"players": len(st.Players),
	}).Info("game started")
	s.notify(gameID, EventGameStarted)
	return st, nil
}

// placeOpeningCard draws from the shuffled pile until a non-wild card turns
// up, sets it as the discard top and effective color, and buries any skipped
// wilds back under the pile.
func (s *State) placeOpeningCard(rng *rand.Rand) error {
	for {
		top, err := s.popDraw(rng)
		if err != nil {
			return err
		}
		if top.Card.IsWild() {
			s.moveCard(top, models.ZoneDrawPile, uuid.Nil, s.bottomDrawPosition())
			continue
		}
		s.moveCard(top, models.ZoneDiscard, uuid.Nil, s.nextDiscardPosition())
		s.Game.DiscardTop = top.ID
		s.Game.EffectiveColor = top.Card.Color
		return nil
	}
}

// finish marks the game over. Terminal: nothing transitions out of finished.
func (s *State) finish() {
	now := time.Now().UTC()
	s.Game.Status = models.StatusFinished
	s.Game.EndedAt = &now
}
