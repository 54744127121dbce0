package game

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/cooper-gadd/uno-game/internal/engine"
	"github.com/cooper-gadd/uno-game/internal/models"
)

// HandSize is the number of cards dealt to each player at game start.
const HandSize = 7

// initializeDeck creates the game's full card multiset, shuffles it uniformly,
// and stacks it as the draw pile.
func (s *State) initializeDeck(rng *rand.Rand) {
	catalog := engine.NewDeck()
	rng.Shuffle(len(catalog), func(i, j int) {
		catalog[i], catalog[j] = catalog[j], catalog[i]
	})
	s.Cards = make([]*models.CardInstance, len(catalog))
	for i, face := range catalog {
		s.Cards[i] = &models.CardInstance{
			ID:       uuid.New(),
			GameID:   s.Game.ID,
			Card:     face,
			Zone:     models.ZoneDrawPile,
			Position: i,
		}
	}
	s.newCards = true
}

// topDraw returns the top of the draw pile without moving it, or nil when the
// pile is empty.
func (s *State) topDraw() *models.CardInstance {
	var top *models.CardInstance
	for _, c := range s.Cards {
		if c.Zone != models.ZoneDrawPile {
			continue
		}
		if top == nil || c.Position > top.Position {
			top = c
		}
	}
	return top
}

// bottomDrawPosition returns a position strictly below the current draw pile
// bottom.
func (s *State) bottomDrawPosition() int {
	pos := 0
	for _, c := range s.Cards {
		if c.Zone == models.ZoneDrawPile && c.Position < pos {
			pos = c.Position
		}
	}
	return pos - 1
}

// nextDiscardPosition returns a position strictly above the current discard
// top.
func (s *State) nextDiscardPosition() int {
	pos := 0
	for _, c := range s.Cards {
		if c.Zone == models.ZoneDiscard && c.Position >= pos {
			pos = c.Position + 1
		}
	}
	return pos
}

// reshuffleDiscard rebuilds the draw pile from every discard card except the
// current top, in a fresh uniform order. The top stays where it is so play can
// continue against it.
func (s *State) reshuffleDiscard(rng *rand.Rand) {
	var buried []*models.CardInstance
	for _, c := range s.Cards {
		if c.Zone == models.ZoneDiscard && c.ID != s.Game.DiscardTop {
			buried = append(buried, c)
		}
	}
	rng.Shuffle(len(buried), func(i, j int) {
		buried[i], buried[j] = buried[j], buried[i]
	})
	for i, c := range buried {
		s.moveCard(c, models.ZoneDrawPile, uuid.Nil, i)
	}
}

// popDraw returns the draw pile top, reshuffling the buried discard cards into
// a new pile first when the draw pile is empty. The returned card is still in
// the draw pile; the caller moves it. Returns ErrDeckExhausted only when no
// card exists outside hands and the discard top.
func (s *State) popDraw(rng *rand.Rand) (*models.CardInstance, error) {
	top := s.topDraw()
	if top == nil {
		s.reshuffleDiscard(rng)
		top = s.topDraw()
	}
	if top == nil {
		return nil, ErrDeckExhausted
	}
	return top, nil
}

// deal moves handSize cards from the top of the draw pile into each player's
// hand, in turn order. Fails with ErrInsufficientCards if the pile runs out
// mid-deal; nothing is reshuffled at deal time because the discard is empty.
func (s *State) deal(handSize int) error {
	for i := 0; i < handSize; i++ {
		for _, p := range s.Players {
			top := s.topDraw()
			if top == nil {
				return ErrInsufficientCards
			}
			s.moveCard(top, models.ZoneHand, p.ID, 0)
		}
	}
	return nil
}

// drawMany moves n cards from the draw pile into the player's hand, one atomic
// ownership transfer per card, reshuffling as needed. Drawing forfeits any
// standing uno call.
func (s *State) drawMany(rng *rand.Rand, p *models.Player, n int) error {
	for i := 0; i < n; i++ {
		top, err := s.popDraw(rng)
		if err != nil {
			return err
		}
		s.moveCard(top, models.ZoneHand, p.ID, 0)
	}
	if p.HasCalledUno {
		p.HasCalledUno = false
	}
	return nil
}
