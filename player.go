package main

import (
	"time"

	"safari-zone/server/zones"
)

// PlayerState models a participant's in-world presence: where they stand and
// what they carry. It is created on admission and dropped when the player
// leaves the world; scoreboard data lives on the Participant instead.
type PlayerState struct {
	ID             string
	Name           string
	Balls          int
	Steps          int
	Zone           zones.ZoneID
	StepsUntilWarp int
	Caught         []string
	Encounter      *Encounter
	Connected      bool
	LastAction     time.Time

	log actionLog
}

// actionLog is a bounded, newest-first ring of the player's recent event
// lines, sized for a chat-panel render.
type actionLog struct {
	lines []string
}

func (l *actionLog) add(line string) {
	l.lines = append(l.lines, "")
	copy(l.lines[1:], l.lines)
	l.lines[0] = line
	if len(l.lines) > actionLogCapacity {
		l.lines = l.lines[:actionLogCapacity]
	}
}

func (l *actionLog) recent() []string {
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}
