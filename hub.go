package main

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"safari-zone/server/internal/store"
	"safari-zone/server/zones"
)

// Hub owns every arena: at most one game instance each, the draft zone
// configuration behind it, and the websocket subscribers watching it.
type Hub struct {
	mu sync.Mutex

	logger *zap.Logger
	dex    SpeciesCatalog
	clock  Clock
	store  *store.Store
	seed   int64

	games  map[string]*Game
	drafts map[string]*zones.Map
	subs   map[string]map[*subscriber]struct{}
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func newHub(logger *zap.Logger, dex SpeciesCatalog, clock Clock, st *store.Store, seed int64) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dex == nil {
		dex = defaultDex
	}
	if clock == nil {
		clock = systemClock{}
	}
	return &Hub{
		logger: logger,
		dex:    dex,
		clock:  clock,
		store:  st,
		seed:   seed,
		games:  make(map[string]*Game),
		drafts: make(map[string]*zones.Map),
		subs:   make(map[string]map[*subscriber]struct{}),
	}
}

// Game returns the arena's current game instance.
func (h *Hub) Game(arena string) (*Game, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	game, ok := h.games[arena]
	if !ok {
		return nil, userErrorf("there is no safari game in %s", arena)
	}
	return game, nil
}

// CreateGame opens a lobby in the arena. Each arena holds at most one game
// at a time; a finished game is replaced, a running one blocks creation.
func (h *Hub) CreateGame(arena string) (*Game, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Game methods never call back into the hub synchronously, so taking
	// the game mutex under the hub mutex is safe here.
	if existing := h.games[arena]; existing != nil && existing.Phase() != PhaseFinished {
		return nil, userErrorf("a safari game is already running in %s", arena)
	}
	draft, err := h.draftLocked(arena)
	if err != nil {
		return nil, err
	}
	seed := h.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	game, err := NewGame(arena, draft, h.dex, newMathRNG(seed), h.clock, h.logger)
	if err != nil {
		return nil, err
	}
	game.onUpdate = func() { h.broadcastState(arena) }
	game.onEnd = func(result GameOverView) { h.broadcastGameOver(arena, result) }
	h.games[arena] = game
	h.logger.Info("lobby opened", zap.String("arena", arena), zap.String("game", game.ID()))
	return game, nil
}

// draftLocked returns the arena's editable zone map, loading it from the
// store on first touch.
func (h *Hub) draftLocked(arena string) (*zones.Map, error) {
	if draft, ok := h.drafts[arena]; ok {
		return draft, nil
	}
	draft := zones.NewMap()
	if h.store != nil {
		document, err := h.store.LoadZoneMap(arena)
		if err != nil {
			return nil, err
		}
		if document != nil {
			loaded := zones.NewMap()
			if err := json.Unmarshal(document, loaded); err != nil {
				return nil, &ConfigurationError{Reason: "stored zone map for " + arena + " is malformed"}
			}
			draft = loaded
		}
	}
	h.drafts[arena] = draft
	return draft, nil
}

// EditZones applies one configuration mutation to the arena's draft map and
// persists the result. Zone edits are locked out while a game is running;
// the running game holds a frozen clone anyway.
func (h *Hub) EditZones(arena string, edit func(*zones.Map) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if game, ok := h.games[arena]; ok {
		if phase := game.Phase(); phase == PhaseActive {
			return userErrorf("cannot edit zones while a safari game is running in %s", arena)
		}
	}
	draft, err := h.draftLocked(arena)
	if err != nil {
		return err
	}
	if err := edit(draft); err != nil {
		return &UserError{Reason: err.Error()}
	}
	if h.store != nil {
		document, err := json.Marshal(draft)
		if err != nil {
			return err
		}
		if err := h.store.SaveZoneMap(arena, document); err != nil {
			return err
		}
	}
	return nil
}

// ListZones returns the arena's draft map as a frozen copy for rendering.
func (h *Hub) ListZones(arena string) (*zones.Map, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	draft, err := h.draftLocked(arena)
	if err != nil {
		return nil, err
	}
	return draft.Clone(), nil
}

// Subscribe attaches a websocket connection to the arena feed and pushes the
// current snapshot immediately.
func (h *Hub) Subscribe(arena string, conn *websocket.Conn) *subscriber {
	sub := &subscriber{conn: conn}
	h.mu.Lock()
	if h.subs[arena] == nil {
		h.subs[arena] = make(map[*subscriber]struct{})
	}
	h.subs[arena][sub] = struct{}{}
	h.mu.Unlock()

	h.broadcastState(arena)
	return sub
}

// Unsubscribe detaches and closes a subscriber.
func (h *Hub) Unsubscribe(arena string, sub *subscriber) {
	h.mu.Lock()
	if set, ok := h.subs[arena]; ok {
		delete(set, sub)
	}
	h.mu.Unlock()
	sub.conn.Close()
}

// broadcastState fans the latest arena snapshot out to every subscriber.
// Runs off the game mutex; snapshots are taken through the public accessors.
func (h *Hub) broadcastState(arena string) {
	h.mu.Lock()
	game := h.games[arena]
	subs := h.subscribersLocked(arena)
	h.mu.Unlock()
	if game == nil || len(subs) == 0 {
		return
	}

	msg := stateMessage{
		Type:        "state",
		Arena:       arena,
		State:       game.PublicView(),
		Leaderboard: game.Leaderboard(),
		ServerTime:  time.Now().UnixMilli(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal state message", zap.Error(err))
		return
	}
	h.fanOut(arena, subs, data)
}

func (h *Hub) broadcastGameOver(arena string, result GameOverView) {
	h.mu.Lock()
	subs := h.subscribersLocked(arena)
	h.mu.Unlock()
	if len(subs) == 0 {
		return
	}

	msg := gameOverMessage{
		Type:       "gameOver",
		Arena:      arena,
		Result:     result,
		ServerTime: time.Now().UnixMilli(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal game over message", zap.Error(err))
		return
	}
	h.fanOut(arena, subs, data)
}

func (h *Hub) subscribersLocked(arena string) []*subscriber {
	set := h.subs[arena]
	subs := make([]*subscriber, 0, len(set))
	for sub := range set {
		subs = append(subs, sub)
	}
	return subs
}

func (h *Hub) fanOut(arena string, subs []*subscriber, data []byte) {
	for _, sub := range subs {
		if err := sub.send(data); err != nil {
			h.logger.Warn("dropping subscriber",
				zap.String("arena", arena),
				zap.Error(err))
			h.Unsubscribe(arena, sub)
		}
	}
}

// DiagnosticsSnapshot summarizes every arena for the diagnostics endpoint.
func (h *Hub) DiagnosticsSnapshot() []diagnosticsArena {
	h.mu.Lock()
	games := make(map[string]*Game, len(h.games))
	subCounts := make(map[string]int, len(h.subs))
	for arena, game := range h.games {
		games[arena] = game
	}
	for arena, set := range h.subs {
		subCounts[arena] = len(set)
	}
	h.mu.Unlock()

	rows := make([]diagnosticsArena, 0, len(games))
	for arena, game := range games {
		view := game.PublicView()
		rows = append(rows, diagnosticsArena{
			Arena:       arena,
			Phase:       view.Phase,
			GameID:      view.GameID,
			Players:     len(view.Players),
			Subscribers: subCounts[arena],
		})
	}
	return rows
}
