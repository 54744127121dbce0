package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cooper-gadd/uno-game/internal/models"
)

func memGame(t *testing.T) (*MemStore, uuid.UUID) {
	t.Helper()
	store := NewMemStore(0)
	gameID := uuid.New()
	st := NewState(models.Game{
		ID:         gameID,
		Name:       "mem",
		Status:     models.StatusWaiting,
		MaxPlayers: 4,
		CreatedAt:  time.Now().UTC(),
	}, nil, nil)
	st.addPlayer(&models.Player{ID: uuid.New(), GameID: gameID, UserID: uuid.New(), TurnOrder: 1})
	require.NoError(t, store.CreateGame(context.Background(), st))
	return store, gameID
}

func TestMemStoreUpdateCommits(t *testing.T) {
	store, gameID := memGame(t)
	ctx := context.Background()

	_, err := store.Update(ctx, gameID, func(st *State) error {
		st.Game.Name = "renamed"
		return nil
	})
	require.NoError(t, err)

	st, err := store.View(ctx, gameID)
	require.NoError(t, err)
	require.Equal(t, "renamed", st.Game.Name)
}

// An error from the mutation discards every change, even ones applied before
// the failure.
func TestMemStoreUpdateRollsBack(t *testing.T) {
	store, gameID := memGame(t)
	ctx := context.Background()

	boom := errors.New("boom")
	_, err := store.Update(ctx, gameID, func(st *State) error {
		st.Game.Name = "partial"
		st.Game.Status = models.StatusActive
		st.addPlayer(&models.Player{ID: uuid.New(), GameID: gameID, TurnOrder: 2})
		return boom
	})
	require.ErrorIs(t, err, boom)

	st, err := store.View(ctx, gameID)
	require.NoError(t, err)
	require.Equal(t, "mem", st.Game.Name)
	require.Equal(t, models.StatusWaiting, st.Game.Status)
	require.Len(t, st.Players, 1)
}

func TestMemStoreUpdateNotFound(t *testing.T) {
	store := NewMemStore(0)
	_, err := store.Update(context.Background(), uuid.New(), func(*State) error { return nil })
	require.ErrorIs(t, err, ErrGameNotFound)

	_, err = store.View(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrGameNotFound)
}

// The state handed to callers is a snapshot: mutating it after the call must
// not leak into the committed state.
func TestMemStoreViewIsolated(t *testing.T) {
	store, gameID := memGame(t)
	ctx := context.Background()

	st, err := store.View(ctx, gameID)
	require.NoError(t, err)
	st.Game.Name = "scribbled"
	st.Players[0].TurnOrder = 99

	fresh, err := store.View(ctx, gameID)
	require.NoError(t, err)
	require.Equal(t, "mem", fresh.Game.Name)
	require.Equal(t, 1, fresh.Players[0].TurnOrder)
}

// A second mutation on the same game waits for the first; when the bounded
// wait elapses it fails with ErrTimeout instead of deadlocking.
func TestMemStoreLockTimeout(t *testing.T) {
	store := NewMemStore(50 * time.Millisecond)
	gameID := uuid.New()
	st := NewState(models.Game{ID: gameID, Status: models.StatusWaiting, MaxPlayers: 4}, nil, nil)
	require.NoError(t, store.CreateGame(context.Background(), st))

	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_, _ = store.Update(context.Background(), gameID, func(*State) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	_, err := store.Update(context.Background(), gameID, func(*State) error { return nil })
	require.ErrorIs(t, err, ErrTimeout)
	require.Equal(t, CodeTimeout, CodeOf(err))
	close(release)
}

func TestMemStoreLobbySummaries(t *testing.T) {
	store, gameID := memGame(t)
	ctx := context.Background()

	summaries, err := store.LobbySummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, gameID, summaries[0].ID)
	require.Equal(t, "mem", summaries[0].Name)
	require.Equal(t, models.StatusWaiting, summaries[0].Status)
	require.Equal(t, 1, summaries[0].PlayerCount)
	require.Equal(t, 4, summaries[0].MaxPlayers)
}
