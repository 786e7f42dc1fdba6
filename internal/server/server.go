// Package server is the HTTP/WebSocket surface the browser front end talks
// to. It serializes every session operation, so the core packages can stay
// free of locking.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"pokebattle/internal/models"
	"pokebattle/internal/session"
	"pokebattle/internal/stats"
)

// Server exposes the session over HTTP and streams battle events over
// WebSocket.
type Server struct {
	session *session.Session
	stats   *stats.Tracker
	version string
	log     zerolog.Logger

	mu           sync.Mutex // serializes session access
	battling     bool
	cancelBattle context.CancelFunc

	upgrader  websocket.Upgrader
	clientsMu sync.Mutex
	clients   map[*websocket.Conn]bool
}

// New returns a server wrapping sess.
func New(sess *session.Session, tracker *stats.Tracker, version string, log zerolog.Logger) *Server {
	return &Server{
		session:  sess,
		stats:    tracker,
		version:  version,
		log:      log.With().Str("component", "server").Logger(),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  map[*websocket.Conn]bool{},
	}
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r *mux.Router) {
	r.HandleFunc("/api/pokemon", s.handleListPokemon).Methods(http.MethodGet)
	r.HandleFunc("/api/pokemon/sort", s.handleSortPokemon).Methods(http.MethodPost)
	r.HandleFunc("/api/pokemon/{name}", s.handleGetPokemon).Methods(http.MethodGet)
	r.HandleFunc("/api/match", s.handleInitMatch).Methods(http.MethodPost)
	r.HandleFunc("/api/players/switch", s.handleSwitchPlayer).Methods(http.MethodPost)
	r.HandleFunc("/api/team", s.handleGetTeam).Methods(http.MethodGet)
	r.HandleFunc("/api/team/add", s.handleAddToTeam).Methods(http.MethodPost)
	r.HandleFunc("/api/team/remove", s.handleRemoveFromTeam).Methods(http.MethodPost)
	r.HandleFunc("/api/team/auto", s.handleAutoSelect).Methods(http.MethodPost)
	r.HandleFunc("/api/battle/start", s.handleStartBattle).Methods(http.MethodPost)
	r.HandleFunc("/api/battle/cancel", s.handleCancelBattle).Methods(http.MethodPost)
	r.HandleFunc("/api/battle/log", s.handleBattleLog).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/version", s.handleVersion).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS)
}

// Broadcast sends a message to every connected WebSocket client.
func (s *Server) Broadcast(m models.WsMsg) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteJSON(m); err != nil {
			s.log.Warn().Err(err).Msg("ws write failed, dropping client")
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	s.clientsMu.Lock()
	s.clients[conn] = true
	s.clientsMu.Unlock()
	s.log.Debug().Str("remote", r.RemoteAddr).Msg("ws client connected")
	// Drain (and ignore) client messages until the connection drops.
	go func() {
		defer func() {
			s.clientsMu.Lock()
			delete(s.clients, conn)
			s.clientsMu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
