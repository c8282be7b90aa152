package main

import (
	"fmt"

	"go.uber.org/zap"

	"safari-zone/server/zones"
)

// Action is one discrete player input.
type Action string

const (
	ActionUp    Action = "up"
	ActionDown  Action = "down"
	ActionLeft  Action = "left"
	ActionRight Action = "right"
	ActionBall  Action = "ball"
	ActionBait  Action = "bait"
	ActionRock  Action = "rock"
	ActionRun   Action = "run"
)

func parseAction(value string) (Action, bool) {
	switch Action(value) {
	case ActionUp, ActionDown, ActionLeft, ActionRight, ActionBall, ActionBait, ActionRock, ActionRun:
		return Action(value), true
	default:
		return "", false
	}
}

func (a Action) isDirection() bool {
	switch a {
	case ActionUp, ActionDown, ActionLeft, ActionRight:
		return true
	default:
		return false
	}
}

func (a Action) heading() string {
	switch a {
	case ActionUp:
		return "north"
	case ActionDown:
		return "south"
	case ActionLeft:
		return "west"
	default:
		return "east"
	}
}

// PerformAction applies one discrete input for a player. Actions from
// eliminated, removed, or disconnected players are rejected as user errors,
// never silently ignored.
func (g *Game) PerformAction(id string, action Action) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseActive {
		return userErrorf("there is no active safari game")
	}
	entry, ok := g.entries[id]
	if !ok {
		return userErrorf("you are not in this safari game")
	}
	if entry.part.Eliminated || entry.state == nil {
		return userErrorf("you have been eliminated from the safari game")
	}
	if !entry.state.Connected {
		return userErrorf("you are disconnected from the safari game")
	}
	if entry.state.Balls < 0 || entry.state.Steps < 0 {
		return g.failLocked(&InvariantViolation{
			Reason: fmt.Sprintf("player %s has negative resources (balls=%d steps=%d)",
				id, entry.state.Balls, entry.state.Steps),
		})
	}
	entry.state.LastAction = g.clock.Now()

	var err error
	switch {
	case action.isDirection():
		err = g.movePlayer(entry, action)
	case action == ActionBall:
		err = g.throwBallAt(entry)
	case action == ActionBait:
		err = g.throwBait(entry)
	case action == ActionRock:
		err = g.throwRock(entry)
	case action == ActionRun:
		err = g.runAway(entry)
	default:
		err = userErrorf("unknown action %q", action)
	}
	g.notifyLocked()
	return err
}

// movePlayer handles one step. An active encounter gets its turn first: its
// eating counter winds down and it may flee; if it stays, the move is
// rejected. A fled encounter eliminates the player in survival mode and
// otherwise lets the step go ahead.
func (g *Game) movePlayer(entry *playerEntry, action Action) error {
	state := entry.state

	if enc := state.Encounter; enc != nil {
		sp, _ := g.dex.Resolve(enc.Species)
		fled, stoppedEating := enc.takeTurn(sp.BaseSpeed, g.rng)
		if stoppedEating {
			state.log.add(fmt.Sprintf("The wild %s is no longer eating.", enc.Species))
		}
		if !fled {
			return userErrorf("a wild %s is blocking the way", enc.Species)
		}
		state.Encounter = nil
		state.log.add(fmt.Sprintf("The wild %s fled!", enc.Species))
		g.logger.Info("encounter fled",
			zap.String("player", state.ID),
			zap.String("species", enc.Species))
		if g.mode == ModeSurvival {
			g.eliminateLocked(entry, "their encounter fled")
			return nil
		}
		if g.phase != PhaseActive {
			return nil
		}
	}

	if state.Steps == 0 {
		g.removePlayerLocked(entry, "out of steps")
		return userErrorf("%s has no steps left", state.Name)
	}
	state.Steps--

	if g.rng.Float64() < ballBonusChance {
		state.Balls++
		state.log.add("You found a stray Safari Ball on the ground!")
	}

	state.StepsUntilWarp--
	if state.StepsUntilWarp <= 0 {
		state.StepsUntilWarp = g.rng.IntBetween(warpCountdownMin, warpCountdownMax)
		if dest, ok := g.randomOtherZone(state.Zone); ok {
			state.Zone = dest
			state.log.add(fmt.Sprintf("You stumble into %s!", g.zoneMap.Zones[dest].Name))
		} else {
			state.log.add("The ground shifts beneath you, but there is nowhere else to go.")
		}
	} else {
		state.log.add(fmt.Sprintf("You head %s through %s.",
			action.heading(), g.zoneMap.Zones[state.Zone].Name))
	}

	if state.Steps == 0 {
		g.removePlayerLocked(entry, "out of steps")
		return nil
	}

	if g.rng.IntBetween(0, 255) < encounterChance {
		zone := g.zoneMap.Zones[state.Zone]
		if len(zone.Encounters) == 0 {
			state.log.add("The area is quiet...")
		} else if enc := generateEncounter(zone, g.dex, g.rng); enc != nil {
			state.Encounter = enc
			state.log.add(fmt.Sprintf("A wild %s appeared! (Lv. %d)", enc.Species, enc.Level))
		}
	}
	return nil
}

// throwBallAt resolves one safari ball throw. The ball is consumed no matter
// the outcome, and an empty pouch takes the player out of the game.
func (g *Game) throwBallAt(entry *playerEntry) error {
	state := entry.state
	enc := state.Encounter
	if enc == nil {
		return userErrorf("there is nothing to throw a ball at")
	}
	if state.Balls < 1 {
		return userErrorf("%s has no Safari Balls left", state.Name)
	}
	state.Balls--

	sp, known := g.dex.Resolve(enc.Species)
	result := throwBall(enc, sp, known, g.rng)
	switch {
	case result.Caught:
		state.Encounter = nil
		state.Caught = append(state.Caught, enc.Species)
		entry.part.Caught = append(entry.part.Caught, CatchRecord{
			Species:  enc.Species,
			Level:    enc.Level,
			CaughtAt: g.clock.Now(),
		})
		rec := &entry.part.Caught[len(entry.part.Caught)-1]
		state.log.add(fmt.Sprintf("Gotcha! %s was caught!", enc.Species))
		g.logger.Info("catch",
			zap.String("player", state.ID),
			zap.String("species", enc.Species))
		g.strategy.recordCatch(g, entry, rec, enc.rarity)
	case result.Immediate:
		state.log.add(fmt.Sprintf("Oh no! The wild %s broke free!", enc.Species))
	default:
		state.log.add(fmt.Sprintf("The ball shook %d times, but the wild %s broke free!",
			result.Shakes, enc.Species))
	}

	if g.phase == PhaseActive && entry.state != nil && state.Balls == 0 {
		g.removePlayerLocked(entry, "ran out of Safari Balls")
	}
	return nil
}

// throwBait settles the encounter into eating for a few turns. Eating halves
// the catch rate but keeps the creature calm.
func (g *Game) throwBait(entry *playerEntry) error {
	enc := entry.state.Encounter
	if enc == nil {
		return userErrorf("there is nothing to throw bait at")
	}
	enc.EatingTurns = g.rng.IntBetween(baitTurnsMin, baitTurnsMax)
	enc.Anger = angerStart
	entry.state.log.add(fmt.Sprintf("The wild %s is eating the bait.", enc.Species))
	return nil
}

// throwRock angers the encounter. Anger past its starting value doubles the
// catch rate, at the price of a much higher flee chance.
func (g *Game) throwRock(entry *playerEntry) error {
	enc := entry.state.Encounter
	if enc == nil {
		return userErrorf("there is nothing to throw a rock at")
	}
	enc.Anger *= 2
	if enc.Anger > angerCap {
		enc.Anger = angerCap
	}
	enc.EatingTurns = 0
	entry.state.log.add(fmt.Sprintf("The wild %s is angry!", enc.Species))
	return nil
}

// runAway abandons the active encounter. Running is always safe, even in
// survival mode; only a flee counts against the player there.
func (g *Game) runAway(entry *playerEntry) error {
	enc := entry.state.Encounter
	if enc == nil {
		return userErrorf("there is nothing to run away from")
	}
	entry.state.Encounter = nil
	entry.state.log.add(fmt.Sprintf("You ran away from the wild %s.", enc.Species))
	return nil
}

// randomOtherZone picks a uniformly random zone different from the current
// one, iterating ids in sorted order so seeded runs stay reproducible.
func (g *Game) randomOtherZone(current zones.ZoneID) (zones.ZoneID, bool) {
	others := make([]zones.ZoneID, 0, len(g.zoneMap.Zones))
	for _, id := range g.zoneMap.List() {
		if id != current {
			others = append(others, id)
		}
	}
	if len(others) == 0 {
		return "", false
	}
	return others[g.rng.IntBetween(0, len(others)-1)], true
}
