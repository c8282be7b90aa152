package main

import (
	"strings"
	"time"
)

// Mode selects one of the three mutually exclusive win-condition strategies.
type Mode string

const (
	ModePoints   Mode = "points"
	ModeRace     Mode = "race"
	ModeSurvival Mode = "survival"
)

func parseMode(value string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModePoints:
		return ModePoints, true
	case ModeRace:
		return ModeRace, true
	case ModeSurvival:
		return ModeSurvival, true
	default:
		return "", false
	}
}

// Rules carries the tunables picked when the tournament starts.
type Rules struct {
	Duration       time.Duration `json:"duration"`
	Balls          int           `json:"balls"`
	Steps          int           `json:"steps"`
	PointsForCatch int           `json:"pointsForCatch"`
	BonusForRarity bool          `json:"bonusForRarity"`
	BonusForLevel  bool          `json:"bonusForLevel"`
	RaceTargets    []string      `json:"raceTargets,omitempty"`
}

// normalized returns the rules with defaults applied.
func (r Rules) normalized() Rules {
	n := r
	if n.Duration <= 0 {
		n.Duration = 5 * time.Minute
	}
	if n.Balls <= 0 {
		n.Balls = 30
	}
	if n.Steps <= 0 {
		n.Steps = 100
	}
	if n.PointsForCatch <= 0 {
		n.PointsForCatch = 10
	}
	if len(n.RaceTargets) > 0 {
		seen := make(map[string]struct{}, len(n.RaceTargets))
		targets := make([]string, 0, len(n.RaceTargets))
		for _, target := range n.RaceTargets {
			key := normalizeSpecies(target)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			targets = append(targets, key)
		}
		n.RaceTargets = targets
	}
	return n
}

// CatchRecord is one scoreboard line.
type CatchRecord struct {
	Species  string    `json:"species"`
	Level    int       `json:"level"`
	Points   int       `json:"points"`
	CaughtAt time.Time `json:"caughtAt"`
}

// Participant is the tournament-scoped scoreboard record for one player id.
// It outlives the player's in-world presence: eliminated and disconnected
// players keep their results until the game itself is torn down.
type Participant struct {
	ID           string
	Name         string
	Score        int
	Caught       []CatchRecord
	Eliminated   bool
	Disconnected bool
}

// distinctCaught counts how many of the given normalized species names
// appear at least once in the participant's catch history.
func (p *Participant) distinctCaught(targets []string) int {
	if len(targets) == 0 {
		return 0
	}
	caught := make(map[string]struct{}, len(p.Caught))
	for _, rec := range p.Caught {
		caught[normalizeSpecies(rec.Species)] = struct{}{}
	}
	count := 0
	for _, target := range targets {
		if _, ok := caught[target]; ok {
			count++
		}
	}
	return count
}
