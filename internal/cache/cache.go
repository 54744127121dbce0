// Package cache publishes game change notifications through Redis pub/sub,
// fanning committed events out to every server instance holding websocket
// subscribers for a game.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/cooper-gadd/uno-game/internal/game"
)

// Event is the wire form of a game notification.
type Event struct {
	GameID uuid.UUID      `json:"gameId"`
	Event  game.EventType `json:"event"`
	At     time.Time      `json:"at"`
}

// Client wraps a Redis connection as a game.Notifier and an event source.
type Client struct {
	rdb *redis.Client
}

var _ game.Notifier = (*Client)(nil)

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, addr, password string) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Client{rdb: rdb}, nil
}

// Close releases the Redis connection.
func (c *Client) Close() error { return c.rdb.Close() }

func channel(gameID uuid.UUID) string {
	return "uno:game:" + gameID.String()
}

// Notify publishes one event on the game's channel.
func (c *Client) Notify(ctx context.Context, gameID uuid.UUID, event game.EventType) error {
	payload, err := json.Marshal(Event{
		GameID: gameID,
		Event:  event,
		At:     time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return c.rdb.Publish(ctx, channel(gameID), payload).Err()
}

// Subscribe streams a game's events until ctx is done. Malformed payloads are
// skipped.
func (c *Client) Subscribe(ctx context.Context, gameID uuid.UUID) (<-chan Event, error) {
	sub := c.rdb.Subscribe(ctx, channel(gameID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", channel(gameID), err)
	}

	events := make(chan Event)
	go func() {
		defer close(events)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					continue
				}
				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return events, nil
}
