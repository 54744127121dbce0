package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/cooper-gadd/uno-game/internal/engine"
	"github.com/cooper-gadd/uno-game/internal/models"
)

// CardView is a card as exposed to clients.
type CardView struct {
	ID    uuid.UUID `json:"id"`
	Color string    `json:"color"`
	Type  string    `json:"type"`
	Value *int      `json:"value,omitempty"` // set only for number cards
}

// PlayerView is a seat as exposed to one viewer. Hand is populated only for
// the viewer's own seat; everyone else is a hand size.
type PlayerView struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"userId"`
	TurnOrder     int        `json:"turnOrder"`
	HandSize      int        `json:"handSize"`
	HasCalledUno  bool       `json:"hasCalledUno"`
	IsCurrentTurn bool       `json:"isCurrentTurn"`
	Hand          []CardView `json:"hand,omitempty"`
}

// View is the game state tailored to one viewer. The hidden-information
// contract lives here: a player's hand contents never leave the server for
// any other viewer.
type View struct {
	GameID            uuid.UUID    `json:"gameId"`
	Name              string       `json:"name"`
	Status            string       `json:"status"`
	Direction         string       `json:"direction"`
	CurrentTurnPlayer uuid.UUID    `json:"currentTurnPlayer,omitempty"`
	DiscardTop        *CardView    `json:"discardTop,omitempty"`
	EffectiveColor    string       `json:"effectiveColor,omitempty"`
	DrawPileSize      int          `json:"drawPileSize"`
	DiscardSize       int          `json:"discardSize"`
	MaxPlayers        int          `json:"maxPlayers"`
	Players           []PlayerView `json:"players"`
	CreatedAt         time.Time    `json:"createdAt"`
	EndedAt           *time.Time   `json:"endedAt,omitempty"`
}

func newCardView(c *models.CardInstance) CardView {
	cv := CardView{
		ID:    c.ID,
		Color: c.Card.Color.String(),
		Type:  c.Card.Type.String(),
	}
	if c.Card.Type == engine.TypeNumber {
		v := int(c.Card.Value)
		cv.Value = &v
	}
	return cv
}

// NewView projects the state for viewerUserID. A viewer who holds no seat
// (a spectator) sees only public information.
func NewView(st *State, viewerUserID uuid.UUID) View {
	v := View{
		GameID:       st.Game.ID,
		Name:         st.Game.Name,
		Status:       string(st.Game.Status),
		Direction:    st.Game.Direction.String(),
		DrawPileSize: len(st.DrawPile()),
		DiscardSize:  len(st.DiscardPile()),
		MaxPlayers:   st.Game.MaxPlayers,
		CreatedAt:    st.Game.CreatedAt,
		EndedAt:      st.Game.EndedAt,
	}
	if st.Game.Status == models.StatusActive {
		v.CurrentTurnPlayer = st.Game.CurrentTurnPlayer
		v.EffectiveColor = st.Game.EffectiveColor.String()
	}
	if top := st.DiscardTopCard(); top != nil {
		cv := newCardView(top)
		v.DiscardTop = &cv
	}

	v.Players = make([]PlayerView, len(st.Players))
	for i, p := range st.Players {
		pv := PlayerView{
			ID:            p.ID,
			UserID:        p.UserID,
			TurnOrder:     p.TurnOrder,
			HandSize:      st.HandSize(p.ID),
			HasCalledUno:  p.HasCalledUno,
			IsCurrentTurn: st.Game.Status == models.StatusActive && st.Game.CurrentTurnPlayer == p.ID,
		}
		if p.UserID == viewerUserID {
			hand := st.Hand(p.ID)
			pv.Hand = make([]CardView, len(hand))
			for j, c := range hand {
				pv.Hand[j] = newCardView(c)
			}
		}
		v.Players[i] = pv
	}
	return v
}
