package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"safari-zone/server/zones"
)

// apiServer translates HTTP and websocket traffic into engine calls. All
// game semantics live behind the hub; handlers only decode, dispatch, and
// map errors to status codes.
type apiServer struct {
	hub      *Hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func newAPIServer(hub *Hub, logger *zap.Logger) *apiServer {
	return &apiServer{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (s *apiServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Get("/diagnostics", s.handleDiagnostics)
	r.Get("/ws", s.handleWebsocket)

	r.Route("/arenas/{arena}", func(r chi.Router) {
		r.Post("/game", s.handleCreateGame)
		r.Post("/join", s.handleJoin)
		r.Post("/leave", s.handleLeave)
		r.Post("/start", s.handleStart)
		r.Post("/end", s.handleEnd)
		r.Post("/action", s.handleAction)
		r.Post("/disqualify", s.handleDisqualify)
		r.Post("/disconnect", s.handleDisconnect)
		r.Post("/resume", s.handleResume)

		r.Get("/view", s.handlePublicView)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/players/{player}", s.handlePlayerView)

		r.Get("/zones", s.handleListZones)
		r.Post("/zones", s.handleAddZone)
		r.Post("/zones/{zone}/encounters", s.handleAddEncounter)
		r.Delete("/zones/{zone}/encounters/{species}", s.handleRemoveEncounter)
		r.Post("/start-zone", s.handleSetStartZone)
	})
	return r
}

func (s *apiServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleDiagnostics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.hub.DiagnosticsSnapshot())
}

func (s *apiServer) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	arena := chi.URLParam(r, "arena")
	game, err := s.hub.CreateGame(arena)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, game.PublicView())
}

func (s *apiServer) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if req.ID == "" {
		s.writeError(w, userErrorf("player id is required"))
		return
	}
	if req.Name == "" {
		req.Name = req.ID
	}
	s.dispatch(w, r, func(game *Game) error {
		return game.Admit(req.ID, req.Name)
	})
}

func (s *apiServer) handleLeave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.dispatch(w, r, func(game *Game) error { return game.Leave(req.ID) })
}

func (s *apiServer) handleStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode       string `json:"mode"`
		DurationMs int64  `json:"durationMs"`
		Rules      Rules  `json:"rules"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	mode, ok := parseMode(req.Mode)
	if !ok {
		s.writeError(w, userErrorf("unknown mode %q", req.Mode))
		return
	}
	if req.DurationMs > 0 {
		req.Rules.Duration = time.Duration(req.DurationMs) * time.Millisecond
	}
	s.dispatch(w, r, func(game *Game) error { return game.Start(mode, req.Rules) })
}

func (s *apiServer) handleEnd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if r.ContentLength > 0 && !s.decode(w, r, &req) {
		return
	}
	s.dispatch(w, r, func(game *Game) error { return game.End(req.Reason) })
}

func (s *apiServer) handleAction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     string `json:"id"`
		Action string `json:"action"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	action, ok := parseAction(req.Action)
	if !ok {
		s.writeError(w, userErrorf("unknown action %q", req.Action))
		return
	}
	s.dispatch(w, r, func(game *Game) error {
		return game.PerformAction(req.ID, action)
	})
}

func (s *apiServer) handleDisqualify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.dispatch(w, r, func(game *Game) error { return game.Disqualify(req.ID) })
}

func (s *apiServer) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.dispatch(w, r, func(game *Game) error { return game.Disconnect(req.ID) })
}

func (s *apiServer) handleResume(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.dispatch(w, r, func(game *Game) error { return game.Resume(req.ID) })
}

func (s *apiServer) handlePublicView(w http.ResponseWriter, r *http.Request) {
	game, err := s.hub.Game(chi.URLParam(r, "arena"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game.PublicView())
}

func (s *apiServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	game, err := s.hub.Game(chi.URLParam(r, "arena"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game.Leaderboard())
}

func (s *apiServer) handlePlayerView(w http.ResponseWriter, r *http.Request) {
	game, err := s.hub.Game(chi.URLParam(r, "arena"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	view, err := game.PlayerView(chi.URLParam(r, "player"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *apiServer) handleListZones(w http.ResponseWriter, r *http.Request) {
	zoneMap, err := s.hub.ListZones(chi.URLParam(r, "arena"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, zoneMap)
}

func (s *apiServer) handleAddZone(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.editZones(w, r, func(m *zones.Map) error {
		return m.AddZone(zones.ZoneID(req.ID), req.Name)
	})
}

func (s *apiServer) handleAddEncounter(w http.ResponseWriter, r *http.Request) {
	var spec zones.EncounterSpec
	if !s.decode(w, r, &spec) {
		return
	}
	zone := zones.ZoneID(chi.URLParam(r, "zone"))
	s.editZones(w, r, func(m *zones.Map) error {
		return m.AddEncounter(zone, spec)
	})
}

func (s *apiServer) handleRemoveEncounter(w http.ResponseWriter, r *http.Request) {
	zone := zones.ZoneID(chi.URLParam(r, "zone"))
	species := chi.URLParam(r, "species")
	s.editZones(w, r, func(m *zones.Map) error {
		return m.RemoveEncounter(zone, species)
	})
}

func (s *apiServer) handleSetStartZone(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.editZones(w, r, func(m *zones.Map) error {
		return m.SetStartZone(zones.ZoneID(req.ID))
	})
}

func (s *apiServer) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	arena := r.URL.Query().Get("arena")
	if arena == "" {
		s.writeError(w, userErrorf("arena query parameter is required"))
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	sub := s.hub.Subscribe(arena, conn)
	go s.readLoop(arena, sub)
}

// readLoop drains the subscriber connection until it drops. Subscribers are
// display-only; inbound frames are discarded.
func (s *apiServer) readLoop(arena string, sub *subscriber) {
	defer s.hub.Unsubscribe(arena, sub)
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *apiServer) dispatch(w http.ResponseWriter, r *http.Request, call func(*Game) error) {
	game, err := s.hub.Game(chi.URLParam(r, "arena"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := call(game); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) editZones(w http.ResponseWriter, r *http.Request, edit func(*zones.Map) error) {
	if err := s.hub.EditZones(chi.URLParam(r, "arena"), edit); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, userErrorf("malformed request body"))
		return false
	}
	return true
}

func (s *apiServer) writeError(w http.ResponseWriter, err error) {
	var userErr *UserError
	var configErr *ConfigurationError
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &userErr):
		status = http.StatusBadRequest
	case errors.As(err, &configErr):
		status = http.StatusUnprocessableEntity
	default:
		s.logger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
