package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cooper-gadd/uno-game/internal/game"
)

// handleEvents upgrades to a websocket and streams the game's committed
// events to the client until either side disconnects. Available only when an
// event source is configured.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.events == nil {
		http.Error(w, "event streaming is not enabled", http.StatusNotImplemented)
		return
	}
	gameID, err := pathGameID(r)
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}
	// The game must exist before we hold a socket open for it.
	if _, err := s.svc.GameView(r.Context(), gameID, uuid.Nil); err != nil {
		s.writeError(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closed")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events, err := s.events.Subscribe(ctx, gameID)
	if err != nil {
		s.log.WithError(err).Error("event subscribe failed")
		conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}

	// Reads are drained only to notice the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for ev := range events {
		if err := wsjson.Write(ctx, conn, ev); err != nil {
			if !errors.Is(err, context.Canceled) {
				s.log.WithFields(logrus.Fields{
					"game_id": gameID,
					"event":   ev.Event,
				}).WithError(err).Debug("websocket write failed")
			}
			return
		}
		if ev.Event == game.EventGameFinished {
			conn.Close(websocket.StatusNormalClosure, "game finished")
			return
		}
	}
}
