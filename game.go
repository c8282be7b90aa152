package main

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"safari-zone/server/zones"
)

// Phase is the lifecycle state of a game instance. Finished is terminal.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseActive   Phase = "active"
	PhaseFinished Phase = "finished"
)

// playerEntry bundles the in-world state and the scoreboard record for one
// player id so the two can never drift apart. The state pointer goes nil
// when the player leaves the world; the participant stays until teardown.
type playerEntry struct {
	state *PlayerState
	part  *Participant
}

// Game is one safari game instance for one arena. Every mutation, player
// actions and timer callbacks alike, runs under mu: win-condition checks
// read the whole participant set, so per-player locking is not safe.
type Game struct {
	mu sync.Mutex

	id     string
	arena  string
	logger *zap.Logger
	rng    RNG
	clock  Clock
	dex    SpeciesCatalog

	phase    Phase
	zoneMap  *zones.Map
	mode     Mode
	rules    Rules
	strategy modeStrategy

	entries map[string]*playerEntry
	order   []string

	startedAt time.Time
	endsAt    time.Time

	// gen is bumped on every phase transition; timer closures capture the
	// value they were armed with and no-op when it has moved on.
	gen       uint64
	endTimer  TimerHandle
	uiTicker  TimerHandle
	afkTicker TimerHandle

	winners   []string
	endReason string

	onUpdate func()
	onEnd    func(GameOverView)
}

// NewGame validates the zone configuration and opens the lobby.
func NewGame(arena string, zoneMap *zones.Map, dex SpeciesCatalog, rng RNG, clock Clock, logger *zap.Logger) (*Game, error) {
	if zoneMap == nil {
		return nil, &ConfigurationError{Reason: "no zone map is configured"}
	}
	if err := zoneMap.Validate(); err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}
	if dex == nil {
		dex = defaultDex
	}
	if rng == nil {
		rng = newMathRNG(time.Now().UnixNano())
	}
	if clock == nil {
		clock = systemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Game{
		id:      uuid.NewString(),
		arena:   arena,
		logger:  logger.With(zap.String("arena", arena)),
		rng:     rng,
		clock:   clock,
		dex:     dex,
		phase:   PhaseLobby,
		zoneMap: zoneMap.Clone(),
		entries: make(map[string]*playerEntry),
	}, nil
}

// ID returns the instance id assigned at creation.
func (g *Game) ID() string { return g.id }

// Phase returns the current lifecycle phase.
func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// Admit registers a player while the lobby is open.
func (g *Game) Admit(id, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseLobby {
		return userErrorf("the safari game in %s is not accepting players", g.arena)
	}
	if _, ok := g.entries[id]; ok {
		return userErrorf("%s is already in the lobby", name)
	}
	g.entries[id] = &playerEntry{
		state: &PlayerState{ID: id, Name: name, Connected: true},
		part:  &Participant{ID: id, Name: name},
	}
	g.order = append(g.order, id)
	g.logger.Info("player admitted", zap.String("player", id))
	g.notifyLocked()
	return nil
}

// Leave withdraws a player. Lobby leavers are deleted outright; in an active
// game the player exits the world and their scoreboard row survives.
func (g *Game) Leave(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry, ok := g.entries[id]
	if !ok {
		return userErrorf("you are not in this safari game")
	}
	switch g.phase {
	case PhaseLobby:
		delete(g.entries, id)
		g.dropFromOrder(id)
	case PhaseActive:
		if entry.state == nil {
			return userErrorf("you are no longer in the safari zone")
		}
		g.removePlayerLocked(entry, "left the game")
	default:
		return userErrorf("the safari game is already over")
	}
	g.notifyLocked()
	return nil
}

// Start freezes the configuration and moves the lobby into play.
func (g *Game) Start(mode Mode, rules Rules) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseLobby {
		return userErrorf("the safari game in %s has already started", g.arena)
	}
	if len(g.entries) == 0 {
		return &ConfigurationError{Reason: "cannot start a safari game with no players"}
	}
	rules = rules.normalized()
	if mode == ModeRace {
		if len(rules.RaceTargets) == 0 {
			return &ConfigurationError{Reason: "race mode needs at least one target species"}
		}
		for _, target := range rules.RaceTargets {
			if _, ok := g.dex.Resolve(target); !ok {
				return &ConfigurationError{Reason: "unknown race target species " + target}
			}
		}
	}

	g.mode = mode
	g.rules = rules
	g.strategy = strategyFor(mode, rules)

	now := g.clock.Now()
	g.startedAt = now
	g.endsAt = now.Add(rules.Duration)
	for _, id := range g.order {
		state := g.entries[id].state
		state.Balls = rules.Balls
		state.Steps = rules.Steps
		state.Zone = g.zoneMap.StartZone
		state.StepsUntilWarp = g.rng.IntBetween(warpCountdownMin, warpCountdownMax)
		state.LastAction = now
		state.log.add("The safari game begins!")
	}
	g.phase = PhaseActive

	g.gen++
	gen := g.gen
	g.endTimer = g.clock.After(rules.Duration, func() {
		g.timerTick(gen, "end", g.expireTick)
	})
	g.uiTicker = g.clock.Every(uiTickInterval, func() {
		g.timerTick(gen, "ui", g.notifyLocked)
	})
	if mode == ModeSurvival {
		g.afkTicker = g.clock.Every(afkSweepInterval, func() {
			g.timerTick(gen, "afk", g.afkSweep)
		})
	}

	g.logger.Info("tournament started",
		zap.String("mode", string(mode)),
		zap.Int("players", len(g.entries)),
		zap.Duration("duration", rules.Duration))
	g.notifyLocked()
	return nil
}

// End force-finishes the game. Ending a finished game is a no-op.
func (g *Game) End(reason string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == PhaseFinished {
		return nil
	}
	if reason == "" {
		reason = "ended by staff"
	}
	var winners []*Participant
	if g.strategy != nil {
		winners = g.strategy.expire(g)
	}
	g.finishLocked(reason, winners)
	return nil
}

// Disqualify ejects a player by staff decision. Disqualifying a participant
// who already left the world still re-runs the win-condition check.
func (g *Game) Disqualify(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseActive {
		return userErrorf("there is no active safari game to disqualify from")
	}
	entry, ok := g.entries[id]
	if !ok {
		return userErrorf("that player is not in this safari game")
	}
	if entry.state != nil {
		g.removePlayerLocked(entry, "disqualified")
	} else {
		g.eliminateLocked(entry, "disqualified")
	}
	g.notifyLocked()
	return nil
}

// Disconnect marks a player as gone without removing them. In survival mode
// a disconnect can finish the game, so the win condition is re-checked.
func (g *Game) Disconnect(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry, ok := g.entries[id]
	if !ok {
		return userErrorf("that player is not in this safari game")
	}
	switch g.phase {
	case PhaseLobby:
		delete(g.entries, id)
		g.dropFromOrder(id)
	case PhaseActive:
		if entry.state != nil {
			entry.state.Connected = false
		}
		entry.part.Disconnected = true
		g.logger.Info("player disconnected", zap.String("player", id))
		if g.mode == ModeSurvival {
			g.strategy.handleElimination(g)
		}
	}
	g.notifyLocked()
	return nil
}

// Resume clears the disconnect flags. Resuming never needs a win-condition
// re-check: it can only reduce terminal conditions, not create them.
func (g *Game) Resume(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry, ok := g.entries[id]
	if !ok {
		return userErrorf("that player is not in this safari game")
	}
	entry.part.Disconnected = false
	if entry.state != nil {
		entry.state.Connected = true
		entry.state.LastAction = g.clock.Now()
	}
	g.logger.Info("player resumed", zap.String("player", id))
	g.notifyLocked()
	return nil
}

// timerTick serializes a timer callback against the game mutex, drops it if
// the instance generation has moved on, and keeps panics inside the tick so
// a bad callback cannot take the timer goroutine down with it.
func (g *Game) timerTick(gen uint64, name string, fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("timer tick aborted",
				zap.String("timer", name),
				zap.Any("panic", r))
		}
	}()
	if g.phase != PhaseActive || g.gen != gen {
		return
	}
	fn()
}

func (g *Game) expireTick() {
	g.finishLocked("time is up", g.strategy.expire(g))
}

// afkSweep eliminates survival participants who have not acted inside the
// timeout. Membership is re-checked per entry; stale rows never error.
func (g *Game) afkSweep() {
	now := g.clock.Now()
	for _, id := range g.order {
		if g.phase != PhaseActive {
			return
		}
		entry := g.entries[id]
		if entry == nil || entry.state == nil {
			continue
		}
		if entry.part.Eliminated || entry.part.Disconnected {
			continue
		}
		if now.Sub(entry.state.LastAction) < afkTimeout {
			continue
		}
		g.removePlayerLocked(entry, "no activity for 60 seconds")
	}
}

// removePlayerLocked takes an active-phase player out of the world, flags
// their participant as eliminated, and ends the game if nobody is left.
func (g *Game) removePlayerLocked(entry *playerEntry, reason string) {
	if entry.state == nil {
		return
	}
	id := entry.state.ID
	entry.state = nil
	g.logger.Info("player removed",
		zap.String("player", id),
		zap.String("reason", reason))
	g.eliminateLocked(entry, reason)
	if g.phase != PhaseActive {
		return
	}
	for _, other := range g.entries {
		if other.state != nil {
			return
		}
	}
	g.finishLocked("no players remain", g.strategy.expire(g))
}

// eliminateLocked flags a participant out of contention. Flagging an
// already-eliminated participant changes nothing, but the survival
// win-condition check still runs.
func (g *Game) eliminateLocked(entry *playerEntry, reason string) {
	if !entry.part.Eliminated {
		entry.part.Eliminated = true
		g.logger.Info("participant eliminated",
			zap.String("player", entry.part.ID),
			zap.String("reason", reason))
	}
	g.strategy.handleElimination(g)
}

// finishLocked transitions to the terminal phase and tears every timer down.
// Reaching it twice is safe; only the first call takes effect.
func (g *Game) finishLocked(reason string, winners []*Participant) {
	if g.phase == PhaseFinished {
		return
	}
	g.phase = PhaseFinished
	g.gen++
	for _, h := range []TimerHandle{g.endTimer, g.uiTicker, g.afkTicker} {
		if h != nil {
			h.Stop()
		}
	}
	g.endTimer, g.uiTicker, g.afkTicker = nil, nil, nil

	g.endReason = reason
	g.winners = g.winners[:0]
	for _, p := range winners {
		g.winners = append(g.winners, p.ID)
	}
	g.logger.Info("game finished",
		zap.String("reason", reason),
		zap.Strings("winners", g.winners))

	if g.onEnd != nil {
		view := g.gameOverViewLocked()
		go g.onEnd(view)
	}
}

// failLocked handles a detected invariant violation: the instance refuses to
// continue and forces an end.
func (g *Game) failLocked(violation *InvariantViolation) error {
	g.logger.Error("invariant violation", zap.String("detail", violation.Reason))
	g.finishLocked("internal error", nil)
	return violation
}

func (g *Game) dropFromOrder(id string) {
	for i, existing := range g.order {
		if existing == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			return
		}
	}
}

// notifyLocked pushes a display refresh to whoever is listening. The
// callback runs on its own goroutine so it can take snapshots without
// holding the game mutex.
func (g *Game) notifyLocked() {
	if g.onUpdate != nil {
		go g.onUpdate()
	}
}
