package game

import (
	"context"
	"math/rand"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cooper-gadd/uno-game/internal/engine"
	"github.com/cooper-gadd/uno-game/internal/models"
)

// DrawCard moves one card from the draw pile into the acting player's hand.
// Drawing does not advance the turn; the player may still play. Drawing also
// forfeits any standing uno call.
func (s *Service) DrawCard(ctx context.Context, gameID, playerID uuid.UUID) (*State, error) {
	st, err := s.store.Update(ctx, gameID, func(st *State) error {
		if st.Game.Status != models.StatusActive {
			return newError(CodeInvalidState, "game %s is %s; cards can only be drawn while active", gameID, st.Game.Status)
		}
		p := st.Player(playerID)
		if p == nil {
			return ErrPlayerNotFound
		}
		if st.Game.CurrentTurnPlayer != p.ID {
			return ErrNotYourTurn
		}

		var drawErr error
		s.shuffleRand(func(rng *rand.Rand) {
			drawErr = st.drawMany(rng, p, 1)
		})
		return drawErr
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"game_id":   gameID,
		"player_id": playerID,
	}).Info("card drawn")
	s.notify(gameID, EventCardDrawn)
	return st, nil
}

// PlayCard validates and applies one play as a single atomic transition:
// legality against the discard, ownership transfer to the discard top,
// effective color update, forced draws, turn resolution, and win detection.
// Any rejection leaves the game untouched.
func (s *Service) PlayCard(ctx context.Context, gameID, playerID, cardID uuid.UUID, selectedColor *engine.Color) (*State, error) {
	finished := false
	st, err := s.store.Update(ctx, gameID, func(st *State) error {
		if st.Game.Status != models.StatusActive {
			return newError(CodeInvalidState, "game %s is %s; cards can only be played while active", gameID, st.Game.Status)
		}
		p := st.Player(playerID)
		if p == nil {
			return ErrPlayerNotFound
		}
		if st.Game.CurrentTurnPlayer != p.ID {
			return ErrNotYourTurn
		}

		card := st.Card(cardID)
		if card == nil {
			return ErrCardNotFound
		}
		if card.Zone != models.ZoneHand || card.OwnerID != p.ID {
			return newError(CodeIllegalMove, "card %s is not in your hand", cardID)
		}

		top := st.DiscardTopCard()
		if top == nil {
			return newError(CodeInvalidState, "game %s has no discard top", gameID)
		}

		effective := st.Game.EffectiveColor
		if card.Card.IsWild() {
			// ColorRequired is retryable: the client re-submits with a color.
			if selectedColor == nil || !selectedColor.Concrete() {
				return ErrColorRequired
			}
			effective = *selectedColor
		} else {
			if !engine.CanPlay(card.Card, top.Card.Type, top.Card.Value, st.Game.EffectiveColor) {
				return ErrIllegalMove
			}
			effective = card.Card.Color
		}

		// Apply: hand -> discard top, effective color as first-class state.
		st.moveCard(card, models.ZoneDiscard, uuid.Nil, st.nextDiscardPosition())
		st.Game.DiscardTop = card.ID
		st.Game.EffectiveColor = effective

		// Win check precedes turn resolution: an emptied hand ends the game
		// immediately, even for skip/reverse/draw cards.
		if st.HandSize(p.ID) == 0 {
			st.finish()
			finished = true
			return nil
		}

		res := engine.Resolve(len(st.Players), p.TurnOrder, st.Game.Direction, card.Card.Type)
		if res.ForcedDraws > 0 {
			target := st.PlayerByOrder(res.TargetOrder)
			if target == nil {
				return newError(CodeInvalidState, "game %s has no player at turn order %d", gameID, res.TargetOrder)
			}
			// Forced draws land before the turn pointer moves.
			var drawErr error
			s.shuffleRand(func(rng *rand.Rand) {
				drawErr = st.drawMany(rng, target, res.ForcedDraws)
			})
			if drawErr != nil {
				return drawErr
			}
		}

		next := st.PlayerByOrder(res.NextOrder)
		if next == nil {
			return newError(CodeInvalidState, "game %s has no player at turn order %d", gameID, res.NextOrder)
		}
		st.Game.Direction = res.Direction
		st.Game.CurrentTurnPlayer = next.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"game_id":   gameID,
		"player_id": playerID,
		"card_id":   cardID,
		"finished":  finished,
	}).Info("card played")
	if finished {
		s.notify(gameID, EventGameFinished)
	} else {
		s.notify(gameID, EventCardPlayed)
	}
	return st, nil
}

// CallUno handles both sides of the uno call. A player calling on themselves
// with exactly one card sets their flag. Calling on another player who sits
// at one card without having called is a catch: the target draws two penalty
// cards, regardless of whose turn it is.
func (s *Service) CallUno(ctx context.Context, gameID, callerID, targetID uuid.UUID) (*State, error) {
	caught := false
	st, err := s.store.Update(ctx, gameID, func(st *State) error {
		if st.Game.Status != models.StatusActive {
			return newError(CodeInvalidState, "game %s is %s; uno can only be called while active", gameID, st.Game.Status)
		}
		caller := st.Player(callerID)
		if caller == nil {
			return ErrPlayerNotFound
		}
		target := st.Player(targetID)
		if target == nil {
			return ErrPlayerNotFound
		}

		if caller.ID == target.ID {
			if st.HandSize(target.ID) == 1 {
				target.HasCalledUno = true
			}
			return nil
		}

		if st.HandSize(target.ID) == 1 && !target.HasCalledUno {
			var drawErr error
			s.shuffleRand(func(rng *rand.Rand) {
				drawErr = st.drawMany(rng, target, 2)
			})
			if drawErr != nil {
				return drawErr
			}
			caught = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"game_id":   gameID,
		"caller_id": callerID,
		"target_id": targetID,
		"caught":    caught,
	}).Info("uno called")
	if caught {
		s.notify(gameID, EventUnoPenalty)
	} else {
		s.notify(gameID, EventUnoCalled)
	}
	return st, nil
}
