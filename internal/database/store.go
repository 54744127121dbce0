package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cooper-gadd/uno-game/internal/engine"
	"github.com/cooper-gadd/uno-game/internal/game"
	"github.com/cooper-gadd/uno-game/internal/models"
)

// lockTimeout bounds the wait for the game row lock inside Update, so a stuck
// transaction surfaces as ErrBusy instead of queueing callers indefinitely.
const lockTimeout = "3s"

// Store is the Postgres-backed game.Store.
type Store struct {
	pool *pgxpool.Pool
}

var _ game.Store = (*Store)(nil)

// NewStore wraps a connected pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// mapErr translates driver failures into the game error taxonomy.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return game.ErrGameNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return game.ErrTimeout
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "55P03" {
		return game.ErrBusy
	}
	return err
}

// CreateGame inserts the game row and its initial seats in one transaction.
func (s *Store) CreateGame(ctx context.Context, st *game.State) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return mapErr(err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO uno_game (id, name, status, direction, current_turn_player,
			discard_top, effective_color, max_players, created_by, created_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		st.Game.ID, st.Game.Name, string(st.Game.Status), st.Game.Direction.String(),
		nullUUID(st.Game.CurrentTurnPlayer), nullUUID(st.Game.DiscardTop),
		nullColor(st.Game), st.Game.MaxPlayers, st.Game.CreatedBy,
		st.Game.CreatedAt, st.Game.EndedAt)
	if err != nil {
		return mapErr(err)
	}
	for _, p := range st.Players {
		if err := insertPlayer(ctx, tx, p); err != nil {
			return err
		}
	}
	return mapErr(tx.Commit(ctx))
}

// Update runs fn against the game's state under a row lock on the game row.
// The lock acquisition is bounded by lockTimeout; everything fn changes is
// written back before commit, and any error rolls the transaction back.
func (s *Store) Update(ctx context.Context, gameID uuid.UUID, fn func(*game.State) error) (*game.State, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, mapErr(err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%s'", lockTimeout)); err != nil {
		return nil, mapErr(err)
	}

	st, err := loadState(ctx, tx, gameID, true)
	if err != nil {
		return nil, err
	}
	if err := fn(st); err != nil {
		return nil, err
	}
	if err := persistState(ctx, tx, st); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, mapErr(err)
	}
	return st, nil
}

// View loads a consistent snapshot without taking the row lock.
func (s *Store) View(ctx context.Context, gameID uuid.UUID) (*game.State, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, mapErr(err)
	}
	defer tx.Rollback(ctx)

	st, err := loadState(ctx, tx, gameID, false)
	if err != nil {
		return nil, err
	}
	return st, mapErr(tx.Commit(ctx))
}

// LobbySummaries lists every game with its seat count.
func (s *Store) LobbySummaries(ctx context.Context) ([]game.LobbySummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT g.id, g.name, g.status, g.max_players, count(p.id), g.created_at
		FROM uno_game g
		LEFT JOIN uno_player p ON p.game_id = g.id
		GROUP BY g.id
		ORDER BY g.created_at DESC`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var summaries []game.LobbySummary
	for rows.Next() {
		var (
			sum    game.LobbySummary
			status string
			count  int64
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &status, &sum.MaxPlayers, &count, &sum.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		sum.Status = models.Status(status)
		sum.PlayerCount = int(count)
		summaries = append(summaries, sum)
	}
	return summaries, mapErr(rows.Err())
}

func loadState(ctx context.Context, tx pgx.Tx, gameID uuid.UUID, forUpdate bool) (*game.State, error) {
	gameQuery := `
		SELECT id, name, status, direction, current_turn_player, discard_top,
			effective_color, max_players, created_by, created_at, ended_at
		FROM uno_game WHERE id = $1`
	if forUpdate {
		gameQuery += " FOR UPDATE"
	}

	var (
		g           models.Game
		status      string
		direction   string
		currentTurn *uuid.UUID
		discardTop  *uuid.UUID
		effective   *string
	)
	err := tx.QueryRow(ctx, gameQuery, gameID).Scan(
		&g.ID, &g.Name, &status, &direction, &currentTurn, &discardTop,
		&effective, &g.MaxPlayers, &g.CreatedBy, &g.CreatedAt, &g.EndedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	g.Status = models.Status(status)
	if g.Direction, err = engine.ParseDirection(direction); err != nil {
		return nil, err
	}
	if currentTurn != nil {
		g.CurrentTurnPlayer = *currentTurn
	}
	if discardTop != nil {
		g.DiscardTop = *discardTop
	}
	if effective != nil {
		if g.EffectiveColor, err = engine.ParseColor(*effective); err != nil {
			return nil, err
		}
	}

	players, err := loadPlayers(ctx, tx, gameID)
	if err != nil {
		return nil, err
	}
	cards, err := loadCards(ctx, tx, gameID)
	if err != nil {
		return nil, err
	}
	return game.NewState(g, players, cards), nil
}

func loadPlayers(ctx context.Context, tx pgx.Tx, gameID uuid.UUID) ([]*models.Player, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, game_id, user_id, turn_order, has_called_uno
		FROM uno_player WHERE game_id = $1
		ORDER BY turn_order`, gameID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		p := &models.Player{}
		if err := rows.Scan(&p.ID, &p.GameID, &p.UserID, &p.TurnOrder, &p.HasCalledUno); err != nil {
			return nil, mapErr(err)
		}
		players = append(players, p)
	}
	return players, mapErr(rows.Err())
}

func loadCards(ctx context.Context, tx pgx.Tx, gameID uuid.UUID) ([]*models.CardInstance, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, game_id, color, type, value, zone, owner_id, position
		FROM uno_card WHERE game_id = $1`, gameID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var cards []*models.CardInstance
	for rows.Next() {
		var (
			c     models.CardInstance
			color string
			typ   string
			value int16
			zone  string
			owner *uuid.UUID
		)
		if err := rows.Scan(&c.ID, &c.GameID, &color, &typ, &value, &zone, &owner, &c.Position); err != nil {
			return nil, mapErr(err)
		}
		if c.Card.Color, err = engine.ParseColor(color); err != nil {
			return nil, err
		}
		if c.Card.Type, err = engine.ParseType(typ); err != nil {
			return nil, err
		}
		c.Card.Value = int8(value)
		c.Zone = models.Zone(zone)
		if owner != nil {
			c.OwnerID = *owner
		}
		cards = append(cards, &c)
	}
	return cards, mapErr(rows.Err())
}

// persistState writes back everything the transaction changed: the game row,
// newly seated players, uno flags, and moved cards. A freshly built deck goes
// in through one bulk copy.
func persistState(ctx context.Context, tx pgx.Tx, st *game.State) error {
	_, err := tx.Exec(ctx, `
		UPDATE uno_game
		SET name = $2, status = $3, direction = $4, current_turn_player = $5,
			discard_top = $6, effective_color = $7, ended_at = $8
		WHERE id = $1`,
		st.Game.ID, st.Game.Name, string(st.Game.Status), st.Game.Direction.String(),
		nullUUID(st.Game.CurrentTurnPlayer), nullUUID(st.Game.DiscardTop),
		nullColor(st.Game), st.Game.EndedAt)
	if err != nil {
		return mapErr(err)
	}

	for _, p := range st.NewPlayers() {
		if err := insertPlayer(ctx, tx, p); err != nil {
			return err
		}
	}
	for _, p := range st.Players {
		_, err := tx.Exec(ctx,
			`UPDATE uno_player SET has_called_uno = $2 WHERE id = $1`,
			p.ID, p.HasCalledUno)
		if err != nil {
			return mapErr(err)
		}
	}

	if st.CardsCreated() {
		return copyCards(ctx, tx, st.Cards)
	}
	for _, c := range st.DirtyCards() {
		_, err := tx.Exec(ctx, `
			UPDATE uno_card SET zone = $2, owner_id = $3, position = $4
			WHERE id = $1`,
			c.ID, string(c.Zone), nullUUID(c.OwnerID), c.Position)
		if err != nil {
			return mapErr(err)
		}
	}
	return nil
}

func insertPlayer(ctx context.Context, tx pgx.Tx, p *models.Player) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO uno_player (id, game_id, user_id, turn_order, has_called_uno)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.GameID, p.UserID, p.TurnOrder, p.HasCalledUno)
	return mapErr(err)
}

func copyCards(ctx context.Context, tx pgx.Tx, cards []*models.CardInstance) error {
	rows := make([][]any, len(cards))
	for i, c := range cards {
		rows[i] = []any{
			c.ID, c.GameID, c.Card.Color.String(), c.Card.Type.String(),
			int16(c.Card.Value), string(c.Zone), nullUUID(c.OwnerID), c.Position,
		}
	}
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"uno_card"},
		[]string{"id", "game_id", "color", "type", "value", "zone", "owner_id", "position"},
		pgx.CopyFromRows(rows))
	return mapErr(err)
}

func nullUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

// nullColor returns the effective color as a nullable column value. It is
// null outside active play, where no color governs.
func nullColor(g models.Game) *string {
	if g.Status != models.StatusActive && g.DiscardTop == uuid.Nil {
		return nil
	}
	if !g.EffectiveColor.Concrete() {
		return nil
	}
	s := g.EffectiveColor.String()
	return &s
}
