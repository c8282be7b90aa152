package main

// modeStrategy is the pluggable win-condition logic selected at game start.
// Every method runs under the game mutex.
type modeStrategy interface {
	// recordCatch applies scoring for a catch that was just appended to
	// the participant's record, and may end the game on the spot.
	recordCatch(g *Game, entry *playerEntry, rec *CatchRecord, rarityWeight int)
	// handleElimination re-evaluates the win condition after an
	// elimination or disconnect.
	handleElimination(g *Game)
	// expire picks the winners when the tournament timer runs out or the
	// game is force-ended.
	expire(g *Game) []*Participant
}

func strategyFor(mode Mode, rules Rules) modeStrategy {
	switch mode {
	case ModeRace:
		return &raceMode{targets: rules.RaceTargets}
	case ModeSurvival:
		return &survivalMode{}
	default:
		return &pointsMode{}
	}
}

type pointsMode struct{}

func (pointsMode) recordCatch(g *Game, entry *playerEntry, rec *CatchRecord, rarityWeight int) {
	points := g.rules.PointsForCatch
	if g.rules.BonusForRarity {
		switch {
		case rarityWeight <= 5:
			points += 50
		case rarityWeight <= 15:
			points += 20
		}
	}
	if g.rules.BonusForLevel {
		points += rec.Level
	}
	rec.Points = points
	entry.part.Score += points
}

func (pointsMode) handleElimination(*Game) {}

func (pointsMode) expire(g *Game) []*Participant {
	// Ties keep join order: the first participant to reach the top score
	// in iteration order stays the winner.
	var best *Participant
	for _, id := range g.order {
		p := g.entries[id].part
		if best == nil || p.Score > best.Score {
			best = p
		}
	}
	if best == nil {
		return nil
	}
	return []*Participant{best}
}

type raceMode struct {
	targets []string
}

func (m *raceMode) recordCatch(g *Game, entry *playerEntry, _ *CatchRecord, _ int) {
	covered := entry.part.distinctCaught(m.targets)
	entry.part.Score = covered
	if len(m.targets) > 0 && covered == len(m.targets) {
		g.finishLocked("caught every target species", []*Participant{entry.part})
	}
}

func (m *raceMode) handleElimination(*Game) {}

func (m *raceMode) expire(g *Game) []*Participant {
	best := 0
	var winners []*Participant
	for _, id := range g.order {
		p := g.entries[id].part
		covered := p.distinctCaught(m.targets)
		switch {
		case covered > best:
			best = covered
			winners = append(winners[:0], p)
		case covered == best && covered > 0:
			winners = append(winners, p)
		}
	}
	return winners
}

type survivalMode struct{}

func (survivalMode) recordCatch(*Game, *playerEntry, *CatchRecord, int) {}

func (survivalMode) handleElimination(g *Game) {
	var alive, active []*Participant
	for _, id := range g.order {
		p := g.entries[id].part
		if p.Eliminated {
			continue
		}
		alive = append(alive, p)
		if !p.Disconnected {
			active = append(active, p)
		}
	}
	switch {
	case len(alive) == 0 || len(active) == 0:
		g.finishLocked("no survivors remain", nil)
	case len(active) == 1:
		g.finishLocked("last survivor standing", []*Participant{active[0]})
	}
}

func (survivalMode) expire(g *Game) []*Participant {
	var winners []*Participant
	for _, id := range g.order {
		p := g.entries[id].part
		if !p.Eliminated && !p.Disconnected {
			winners = append(winners, p)
		}
	}
	return winners
}
