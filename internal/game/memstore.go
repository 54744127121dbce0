package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultLockTimeout = 3 * time.Second

// gameSlot holds one game's committed state behind a capacity-1 semaphore,
// the per-game serialization token.
type gameSlot struct {
	sem   chan struct{}
	state *State
}

// MemStore is an in-memory Store. Mutations on one game are serialized by a
// per-game semaphore with a bounded acquisition wait; distinct games proceed
// in parallel. It backs tests and database-less runs.
type MemStore struct {
	mu          sync.RWMutex
	games       map[uuid.UUID]*gameSlot
	lockTimeout time.Duration
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates a MemStore. A zero lockTimeout uses the default.
func NewMemStore(lockTimeout time.Duration) *MemStore {
	if lockTimeout <= 0 {
		lockTimeout = defaultLockTimeout
	}
	return &MemStore{
		games:       make(map[uuid.UUID]*gameSlot),
		lockTimeout: lockTimeout,
	}
}

func (m *MemStore) slot(gameID uuid.UUID) *gameSlot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.games[gameID]
}

// acquire takes the game's serialization token, failing with ErrTimeout once
// the bounded wait elapses so contending callers fail fast instead of
// deadlocking.
func (m *MemStore) acquire(ctx context.Context, slot *gameSlot) error {
	timer := time.NewTimer(m.lockTimeout)
	defer timer.Stop()
	select {
	case slot.sem <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrTimeout
	case <-ctx.Done():
		return ErrTimeout
	}
}

func (m *MemStore) release(slot *gameSlot) { <-slot.sem }

// CreateGame registers a new game.
func (m *MemStore) CreateGame(_ context.Context, st *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[st.Game.ID] = &gameSlot{
		sem:   make(chan struct{}, 1),
		state: st.Clone(),
	}
	return nil
}

// Update runs fn against a copy of the committed state. The copy replaces the
// committed state only when fn succeeds; an error discards it, so rollback is
// structural.
func (m *MemStore) Update(ctx context.Context, gameID uuid.UUID, fn func(*State) error) (*State, error) {
	slot := m.slot(gameID)
	if slot == nil {
		return nil, ErrGameNotFound
	}
	if err := m.acquire(ctx, slot); err != nil {
		return nil, err
	}
	defer m.release(slot)

	working := slot.state.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	// The swap is guarded by mu as well so LobbySummaries can read committed
	// states without taking every game's semaphore.
	m.mu.Lock()
	slot.state = working.Clone()
	m.mu.Unlock()
	return working, nil
}

// View returns a consistent snapshot of the committed state.
func (m *MemStore) View(ctx context.Context, gameID uuid.UUID) (*State, error) {
	slot := m.slot(gameID)
	if slot == nil {
		return nil, ErrGameNotFound
	}
	if err := m.acquire(ctx, slot); err != nil {
		return nil, err
	}
	defer m.release(slot)
	return slot.state.Clone(), nil
}

// LobbySummaries lists all games.
func (m *MemStore) LobbySummaries(_ context.Context) ([]LobbySummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	summaries := make([]LobbySummary, 0, len(m.games))
	for _, slot := range m.games {
		st := slot.state
		summaries = append(summaries, LobbySummary{
			ID:          st.Game.ID,
			Name:        st.Game.Name,
			Status:      st.Game.Status,
			MaxPlayers:  st.Game.MaxPlayers,
			PlayerCount: len(st.Players),
			CreatedAt:   st.Game.CreatedAt,
		})
	}
	return summaries, nil
}
