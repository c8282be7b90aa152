package main

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"safari-zone/server/zones"
)

// scriptRNG replays fixed draws so tests can assert exact outcomes. Each
// method pops from its own queue; an exhausted queue falls back to values
// that keep random events from firing (no bonus balls, no encounters, no
// flees, and immediate break-frees on throws).
type scriptRNG struct {
	ints   []int
	floats []float64
}

func (r *scriptRNG) IntBetween(lo, hi int) int {
	if len(r.ints) == 0 {
		return hi
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (r *scriptRNG) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

// fakeClock drives timers by hand. Callbacks run outside the clock mutex so
// they may stop timers or read the clock without deadlocking.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	period  time.Duration
	fn      func()
	stopped bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration, fn func()) TimerHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Every(d time.Duration, fn func()) TimerHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), period: d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.stopped = true
}

// Advance moves the clock forward, firing due timers in order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.at
		if next.period > 0 {
			next.at = next.at.Add(next.period)
		} else {
			next.stopped = true
		}
		fn := next.fn
		c.mu.Unlock()
		fn()
	}
}

func newForestMap(t *testing.T) *zones.Map {
	t.Helper()
	m := zones.NewMap()
	if err := m.AddZone("forest", "the Forest"); err != nil {
		t.Fatalf("add zone: %v", err)
	}
	if err := m.AddEncounter("forest", zones.EncounterSpec{Species: "pidgey", LevelMin: 2, LevelMax: 4, Weight: 80}); err != nil {
		t.Fatalf("add pidgey: %v", err)
	}
	if err := m.AddEncounter("forest", zones.EncounterSpec{Species: "rattata", LevelMin: 2, LevelMax: 4, Weight: 20}); err != nil {
		t.Fatalf("add rattata: %v", err)
	}
	return m
}

func newTestGame(t *testing.T, zoneMap *zones.Map, rng RNG, clock Clock, players ...string) *Game {
	t.Helper()
	if zoneMap == nil {
		zoneMap = newForestMap(t)
	}
	if rng == nil {
		rng = &scriptRNG{}
	}
	if clock == nil {
		clock = newFakeClock()
	}
	g, err := NewGame("test-arena", zoneMap, defaultDex, rng, clock, zap.NewNop())
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	for _, id := range players {
		if err := g.Admit(id, id); err != nil {
			t.Fatalf("admit %s: %v", id, err)
		}
	}
	return g
}

func startGame(t *testing.T, g *Game, mode Mode, rules Rules) {
	t.Helper()
	if err := g.Start(mode, rules); err != nil {
		t.Fatalf("start %s game: %v", mode, err)
	}
}

func forceEncounter(g *Game, id string, enc *Encounter) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entries[id].state.Encounter = enc
}

func playerEntryOf(t *testing.T, g *Game, id string) *playerEntry {
	t.Helper()
	g.mu.Lock()
	defer g.mu.Unlock()
	entry, ok := g.entries[id]
	if !ok {
		t.Fatalf("player %s has no entry", id)
	}
	return entry
}
