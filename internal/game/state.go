package game

import (
	"sort"

	"github.com/google/uuid"

	"github.com/cooper-gadd/uno-game/internal/models"
)

// State is the complete mutable state of one game: the game row, its seated
// players (ascending turn order), and every card instance. A store loads it
// as one consistent snapshot under the per-game lock, the service mutates it,
// and the store persists it atomically, or discards it when the operation
// returns an error.
type State struct {
	Game    models.Game
	Players []*models.Player
	Cards   []*models.CardInstance

	dirtyCards map[uuid.UUID]struct{}
	newPlayers []*models.Player
	newCards   bool
}

// NewState wraps rows loaded by a store. Players must be sorted by turn order.
func NewState(g models.Game, players []*models.Player, cards []*models.CardInstance) *State {
	return &State{
		Game:       g,
		Players:    players,
		Cards:      cards,
		dirtyCards: make(map[uuid.UUID]struct{}),
	}
}

// Clone deep-copies the state with fresh change tracking.
func (s *State) Clone() *State {
	c := &State{
		Game:       s.Game,
		Players:    make([]*models.Player, len(s.Players)),
		Cards:      make([]*models.CardInstance, len(s.Cards)),
		dirtyCards: make(map[uuid.UUID]struct{}),
	}
	for i, p := range s.Players {
		cp := *p
		c.Players[i] = &cp
	}
	for i, card := range s.Cards {
		cc := *card
		c.Cards[i] = &cc
	}
	return c
}

// Player returns the seated player with the given ID, or nil.
func (s *State) Player(id uuid.UUID) *models.Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerByUser returns the seat held by a user, or nil.
func (s *State) PlayerByUser(userID uuid.UUID) *models.Player {
	for _, p := range s.Players {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// PlayerByOrder returns the player seated at the given turn order, or nil.
func (s *State) PlayerByOrder(order int) *models.Player {
	for _, p := range s.Players {
		if p.TurnOrder == order {
			return p
		}
	}
	return nil
}

// Card returns the card instance with the given ID, or nil.
func (s *State) Card(id uuid.UUID) *models.CardInstance {
	for _, c := range s.Cards {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Hand returns the cards held by a player.
func (s *State) Hand(playerID uuid.UUID) []*models.CardInstance {
	var hand []*models.CardInstance
	for _, c := range s.Cards {
		if c.Zone == models.ZoneHand && c.OwnerID == playerID {
			hand = append(hand, c)
		}
	}
	return hand
}

// HandSize returns the number of cards a player holds.
func (s *State) HandSize(playerID uuid.UUID) int {
	n := 0
	for _, c := range s.Cards {
		if c.Zone == models.ZoneHand && c.OwnerID == playerID {
			n++
		}
	}
	return n
}

// zone returns the instances in a zone sorted by ascending position, so the
// pile top is the last element.
func (s *State) zone(z models.Zone) []*models.CardInstance {
	var cards []*models.CardInstance
	for _, c := range s.Cards {
		if c.Zone == z {
			cards = append(cards, c)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].Position < cards[j].Position })
	return cards
}

// DrawPile returns the draw pile bottom-to-top.
func (s *State) DrawPile() []*models.CardInstance { return s.zone(models.ZoneDrawPile) }

// DiscardPile returns the discard pile bottom-to-top.
func (s *State) DiscardPile() []*models.CardInstance { return s.zone(models.ZoneDiscard) }

// DiscardTopCard returns the current discard top instance, or nil before the
// opening card is placed.
func (s *State) DiscardTopCard() *models.CardInstance {
	if s.Game.DiscardTop == uuid.Nil {
		return nil
	}
	return s.Card(s.Game.DiscardTop)
}

// moveCard relocates a card in a single remove-from-source, add-to-destination
// step. Ownership can never be duplicated: the instance is the sole record of
// the card's zone.
func (s *State) moveCard(c *models.CardInstance, zone models.Zone, owner uuid.UUID, position int) {
	c.Zone = zone
	c.OwnerID = owner
	c.Position = position
	s.dirtyCards[c.ID] = struct{}{}
}

// addPlayer seats a new player.
func (s *State) addPlayer(p *models.Player) {
	s.Players = append(s.Players, p)
	s.newPlayers = append(s.newPlayers, p)
}

// DirtyCards returns the instances moved during this transaction.
func (s *State) DirtyCards() []*models.CardInstance {
	cards := make([]*models.CardInstance, 0, len(s.dirtyCards))
	for _, c := range s.Cards {
		if _, ok := s.dirtyCards[c.ID]; ok {
			cards = append(cards, c)
		}
	}
	return cards
}

// NewPlayers returns players seated during this transaction.
func (s *State) NewPlayers() []*models.Player { return s.newPlayers }

// CardsCreated reports whether this transaction created the game's card
// instances (the initial deck build).
func (s *State) CardsCreated() bool { return s.newCards }
