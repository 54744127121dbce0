// Package server exposes the game service over HTTP and relays committed
// game events to websocket subscribers.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cooper-gadd/uno-game/internal/cache"
	"github.com/cooper-gadd/uno-game/internal/engine"
	"github.com/cooper-gadd/uno-game/internal/game"
)

// EventSource streams a game's committed events, typically backed by Redis
// pub/sub. A nil source disables the websocket endpoint.
type EventSource interface {
	Subscribe(ctx context.Context, gameID uuid.UUID) (<-chan cache.Event, error)
}

// Server routes HTTP requests to the game service.
type Server struct {
	svc    *game.Service
	events EventSource
	log    *logrus.Logger
}

// New builds a Server.
func New(svc *game.Service, events EventSource, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}
	return &Server{svc: svc, events: events, log: log}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /games", s.handleLobby)
	mux.HandleFunc("POST /games", s.handleCreate)
	mux.HandleFunc("GET /games/{id}", s.handleView)
	mux.HandleFunc("POST /games/{id}/join", s.handleJoin)
	mux.HandleFunc("POST /games/{id}/start", s.handleStart)
	mux.HandleFunc("POST /games/{id}/draw", s.handleDraw)
	mux.HandleFunc("POST /games/{id}/play", s.handlePlay)
	mux.HandleFunc("POST /games/{id}/uno", s.handleUno)
	mux.HandleFunc("GET /games/{id}/events", s.handleEvents)
	return mux
}

// statusFor maps the game error taxonomy onto HTTP status codes. Rule
// rejections that the client can correct are 422; state conflicts are 409;
// contention is 503.
func statusFor(err error) int {
	switch game.CodeOf(err) {
	case game.CodeNotFound:
		return http.StatusNotFound
	case game.CodeInvalidState, game.CodeNotYourTurn, game.CodeCapacity,
		game.CodeDeckExhausted, game.CodeInsufficientCards:
		return http.StatusConflict
	case game.CodeIllegalMove, game.CodeColorRequired:
		return http.StatusUnprocessableEntity
	case game.CodeBusy, game.CodeTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string    `json:"error"`
	Code  game.Code `json:"code,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: game.CodeOf(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

var errBadRequest = errors.New("bad request")

func pathGameID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, errBadRequest
	}
	return id, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLobby(w http.ResponseWriter, r *http.Request) {
	games, err := s.svc.LobbyGames(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": games})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string    `json:"name"`
		MaxPlayers int       `json:"maxPlayers"`
		UserID     uuid.UUID `json:"userId"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Name == "" || req.UserID == uuid.Nil {
		http.Error(w, "name, maxPlayers and userId are required", http.StatusBadRequest)
		return
	}
	st, err := s.svc.CreateGame(r.Context(), req.Name, req.MaxPlayers, req.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, game.NewView(st, req.UserID))
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathGameID(r)
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}
	// An absent or invalid viewer degrades to the spectator projection.
	viewer, _ := uuid.Parse(r.URL.Query().Get("viewer"))
	v, err := s.svc.GameView(r.Context(), gameID, viewer)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathGameID(r)
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}
	var req struct {
		UserID uuid.UUID `json:"userId"`
	}
	if err := decodeJSON(r, &req); err != nil || req.UserID == uuid.Nil {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}
	st, err := s.svc.JoinGame(r.Context(), gameID, req.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game.NewView(st, req.UserID))
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathGameID(r)
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}
	st, err := s.svc.StartGame(r.Context(), gameID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game.NewView(st, uuid.Nil))
}

// viewForPlayer projects the post-action state for the acting player's user.
func viewForPlayer(st *game.State, playerID uuid.UUID) game.View {
	viewer := uuid.Nil
	if p := st.Player(playerID); p != nil {
		viewer = p.UserID
	}
	return game.NewView(st, viewer)
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathGameID(r)
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}
	var req struct {
		PlayerID uuid.UUID `json:"playerId"`
	}
	if err := decodeJSON(r, &req); err != nil || req.PlayerID == uuid.Nil {
		http.Error(w, "playerId is required", http.StatusBadRequest)
		return
	}
	st, err := s.svc.DrawCard(r.Context(), gameID, req.PlayerID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewForPlayer(st, req.PlayerID))
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathGameID(r)
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}
	var req struct {
		PlayerID uuid.UUID `json:"playerId"`
		CardID   uuid.UUID `json:"cardId"`
		Color    string    `json:"color,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil || req.PlayerID == uuid.Nil || req.CardID == uuid.Nil {
		http.Error(w, "playerId and cardId are required", http.StatusBadRequest)
		return
	}
	var selected *engine.Color
	if req.Color != "" {
		c, err := engine.ParseColor(req.Color)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		selected = &c
	}
	st, err := s.svc.PlayCard(r.Context(), gameID, req.PlayerID, req.CardID, selected)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewForPlayer(st, req.PlayerID))
}

func (s *Server) handleUno(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathGameID(r)
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}
	var req struct {
		CallerID uuid.UUID `json:"callerId"`
		TargetID uuid.UUID `json:"targetId"`
	}
	if err := decodeJSON(r, &req); err != nil || req.CallerID == uuid.Nil {
		http.Error(w, "callerId is required", http.StatusBadRequest)
		return
	}
	if req.TargetID == uuid.Nil {
		req.TargetID = req.CallerID
	}
	st, err := s.svc.CallUno(r.Context(), gameID, req.CallerID, req.TargetID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewForPlayer(st, req.CallerID))
}
