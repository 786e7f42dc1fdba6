package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"pokebattle/internal/catalog"
	"pokebattle/internal/models"
	"pokebattle/internal/session"
)

// lockSession serializes a session operation and rejects it while a battle is
// resolving. Returns false when the caller should bail out.
func (s *Server) lockSession(w http.ResponseWriter) bool {
	s.mu.Lock()
	if s.battling {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "battle in progress")
		return false
	}
	return true
}

func (s *Server) handleListPokemon(w http.ResponseWriter, r *http.Request) {
	if !s.lockSession(w) {
		return
	}
	list := s.session.Catalog()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetPokemon(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if !s.lockSession(w) {
		return
	}
	c, ok := s.session.Lookup(name)
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "pokemon not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleSortPokemon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Criteria string `json:"criteria"`
		Method   string `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !s.lockSession(w) {
		return
	}
	list, err := s.session.SortCatalog(req.Criteria, req.Method)
	s.mu.Unlock()
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, catalog.ErrNotLoaded) || errors.Is(err, catalog.ErrEmpty) {
			code = http.StatusConflict
		}
		writeError(w, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleInitMatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Player1 string `json:"player1"`
		Player2 string `json:"player2"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Player1 == "" || req.Player2 == "" {
		writeError(w, http.StatusBadRequest, "player1 and player2 are required")
		return
	}
	if !s.lockSession(w) {
		return
	}
	s.session.InitializeMatch(req.Player1, req.Player2)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"player1": req.Player1, "player2": req.Player2})
}

func (s *Server) handleSwitchPlayer(w http.ResponseWriter, r *http.Request) {
	if !s.lockSession(w) {
		return
	}
	s.session.SwitchPlayer()
	name := s.session.CurrentPlayer().Name
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"current": name})
}

// playerFromQuery resolves ?player=1|2, defaulting to the current player.
func (s *Server) playerFromQuery(r *http.Request) (*session.Player, error) {
	q := r.URL.Query().Get("player")
	if q == "" {
		return s.session.CurrentPlayer(), nil
	}
	n, err := strconv.Atoi(q)
	if err != nil {
		return nil, session.ErrUnknownPlayer
	}
	return s.session.Player(n)
}

type teamView struct {
	Player   string             `json:"player"`
	Team     []models.Combatant `json:"team"`
	Credits  int                `json:"credits"`
	Size     int                `json:"size"`
	Details  string             `json:"details"`
	Fighting *models.Combatant  `json:"fighting,omitempty"`
}

func (s *Server) teamViewOf(p *session.Player) teamView {
	v := teamView{
		Player:  p.Name,
		Team:    p.Team.Team(),
		Credits: p.Team.Credits(),
		Size:    p.Team.Size(),
		Details: p.Team.Details(),
	}
	if f, ok := p.Team.Fighter(); ok {
		v.Fighting = &f
	}
	return v
}

func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	if !s.lockSession(w) {
		return
	}
	p, err := s.playerFromQuery(r)
	if err != nil {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	view := s.teamViewOf(p)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAddToTeam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !s.lockSession(w) {
		return
	}
	err := s.session.AddToCurrentTeam(req.Name)
	var view teamView
	if err == nil {
		view = s.teamViewOf(s.session.CurrentPlayer())
	}
	s.mu.Unlock()
	switch {
	case errors.Is(err, session.ErrNotInCatalog):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrRejected):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, view)
	}
}

func (s *Server) handleRemoveFromTeam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !s.lockSession(w) {
		return
	}
	removed := s.session.RemoveFromCurrentTeam(req.Name)
	view := s.teamViewOf(s.session.CurrentPlayer())
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed, "team": view})
}

func (s *Server) handleAutoSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Player int `json:"player"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Player == 0 {
		req.Player = 2 // the CPU side by convention
	}
	if !s.lockSession(w) {
		return
	}
	p, err := s.session.AutoSelectTeam(req.Player)
	var view teamView
	if err == nil {
		view = s.teamViewOf(p)
	}
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleStartBattle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.battling {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "battle already in progress")
		return
	}
	if !s.session.TeamsReady() {
		s.mu.Unlock()
		writeError(w, http.StatusUnprocessableEntity, "both teams need at least one pokemon")
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.battling = true
	s.cancelBattle = cancel
	s.mu.Unlock()

	go func() {
		res, err := s.session.StartBattle(ctx)
		s.mu.Lock()
		s.battling = false
		s.cancelBattle = nil
		s.mu.Unlock()
		cancel()
		if err != nil {
			s.log.Warn().Err(err).Msg("battle aborted")
		} else {
			s.stats.RecordOutcome(res)
		}
		s.Broadcast(models.WsMsg{Type: "result", Data: res})
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "battle started"})
}

func (s *Server) handleCancelBattle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	cancel := s.cancelBattle
	s.mu.Unlock()
	if cancel == nil {
		writeError(w, http.StatusConflict, "no battle in progress")
		return
	}
	cancel()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancel requested"})
}

func (s *Server) handleBattleLog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.BattleLog())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}
