package game

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/cooper-gadd/uno-game/internal/engine"
	"github.com/cooper-gadd/uno-game/internal/models"
)

// mockNotifier records events for test assertions. Notifications are fired
// post-commit on their own goroutine, so reads go through waitForEvent.
type mockNotifier struct {
	mu     sync.Mutex
	events []EventType
}

func (m *mockNotifier) Notify(_ context.Context, _ uuid.UUID, event EventType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockNotifier) has(event EventType) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e == event {
			return true
		}
	}
	return false
}

func waitForEvent(t *testing.T, n *mockNotifier, event EventType) {
	t.Helper()
	require.Eventually(t, func() bool { return n.has(event) },
		time.Second, 5*time.Millisecond, "expected event %s", event)
}

func newTestService(t *testing.T) (*Service, *MemStore, *mockNotifier) {
	t.Helper()
	store := NewMemStore(0)
	notifier := &mockNotifier{}
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	return NewService(store, notifier, log), store, notifier
}

// setupActiveGame creates and starts a game with numPlayers seats. It returns
// the game ID and the user IDs in turn order.
func setupActiveGame(t *testing.T, svc *Service, numPlayers int) (uuid.UUID, []uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	users := make([]uuid.UUID, numPlayers)
	for i := range users {
		users[i] = uuid.New()
	}

	st, err := svc.CreateGame(ctx, "test game", MaxPlayers, users[0])
	require.NoError(t, err)
	gameID := st.Game.ID

	for _, u := range users[1:] {
		_, err := svc.JoinGame(ctx, gameID, u)
		require.NoError(t, err)
	}
	_, err = svc.StartGame(ctx, gameID)
	require.NoError(t, err)
	return gameID, users
}

// playerAtOrder returns the player seated at the given turn order, failing the
// test when absent.
func playerAtOrder(t *testing.T, st *State, order int) *models.Player {
	t.Helper()
	p := st.PlayerByOrder(order)
	require.NotNil(t, p, "no player at turn order %d", order)
	return p
}

// findInPile returns a draw-pile instance with the given face.
func findInPile(st *State, face engine.Card) *models.CardInstance {
	for _, c := range st.Cards {
		if c.Zone == models.ZoneDrawPile && c.Card == face {
			return c
		}
	}
	return nil
}

// resetZones returns every card to the draw pile so a test can lay out hands
// and the discard deterministically with setDiscard, setHand, and dealFiller.
func resetZones(st *State) {
	for i, c := range st.Cards {
		st.moveCard(c, models.ZoneDrawPile, uuid.Nil, i)
	}
	st.Game.DiscardTop = uuid.Nil
}

// setHand gives a player exactly the listed faces, taken from the draw pile.
// Call after resetZones and before dealFiller so the faces are available.
func setHand(st *State, p *models.Player, faces ...engine.Card) error {
	for _, face := range faces {
		inst := findInPile(st, face)
		if inst == nil {
			return fmt.Errorf("no %v available in the draw pile", face)
		}
		st.moveCard(inst, models.ZoneHand, p.ID, 0)
	}
	return nil
}

// setDiscard places a card with the given face as the discard top and sets
// the effective color.
func setDiscard(st *State, face engine.Card, effective engine.Color) error {
	inst := findInPile(st, face)
	if inst == nil {
		return fmt.Errorf("no %v available in the draw pile", face)
	}
	st.moveCard(inst, models.ZoneDiscard, uuid.Nil, st.nextDiscardPosition())
	st.Game.DiscardTop = inst.ID
	st.Game.EffectiveColor = effective
	return nil
}

// dealFiller tops every player not listed in staged back up to a full hand
// from the draw pile.
func dealFiller(st *State, staged ...uuid.UUID) error {
	skip := make(map[uuid.UUID]bool, len(staged))
	for _, id := range staged {
		skip[id] = true
	}
	for _, p := range st.Players {
		if skip[p.ID] {
			continue
		}
		for st.HandSize(p.ID) < HandSize {
			top := st.topDraw()
			if top == nil {
				return ErrInsufficientCards
			}
			st.moveCard(top, models.ZoneHand, p.ID, 0)
		}
	}
	return nil
}

// rig applies fn to the game's committed state through the store, so tests can
// shape hands and the discard deterministically.
func rig(t *testing.T, store *MemStore, gameID uuid.UUID, fn func(*State) error) *State {
	t.Helper()
	st, err := store.Update(context.Background(), gameID, fn)
	require.NoError(t, err)
	return st
}

// assertConservation verifies the card-conservation invariant: a full deck of
// unique instances, each in exactly one zone, with an owner iff it is in a
// hand.
func assertConservation(t *testing.T, st *State) {
	t.Helper()
	require.Len(t, st.Cards, engine.DeckSize)
	seen := make(map[uuid.UUID]bool, engine.DeckSize)
	zoneTotal := 0
	for _, c := range st.Cards {
		require.False(t, seen[c.ID], "card %s appears twice", c.ID)
		seen[c.ID] = true
		switch c.Zone {
		case models.ZoneDrawPile, models.ZoneDiscard:
			require.Equal(t, uuid.Nil, c.OwnerID, "card %s in %s has an owner", c.ID, c.Zone)
		case models.ZoneHand:
			require.NotEqual(t, uuid.Nil, c.OwnerID, "hand card %s has no owner", c.ID)
		default:
			t.Fatalf("card %s in unknown zone %q", c.ID, c.Zone)
		}
		zoneTotal++
	}
	require.Equal(t, engine.DeckSize, zoneTotal)
}
