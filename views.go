package main

import (
	"sort"
	"time"

	"safari-zone/server/zones"
)

// EncounterView is the renderable slice of an active encounter.
type EncounterView struct {
	Species string `json:"species"`
	Level   int    `json:"level"`
}

// PlayerView is the private per-player snapshot.
type PlayerView struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Zone       zones.ZoneID   `json:"zone"`
	ZoneName   string         `json:"zoneName"`
	Balls      int            `json:"balls"`
	Steps      int            `json:"steps"`
	Score      int            `json:"score"`
	Caught     []string       `json:"caught"`
	Encounter  *EncounterView `json:"encounter,omitempty"`
	Log        []string       `json:"log"`
	Connected  bool           `json:"connected"`
	Eliminated bool           `json:"eliminated"`
	InWorld    bool           `json:"inWorld"`
}

// PublicPlayer is the lobby/game roster line everybody can see.
type PublicPlayer struct {
	Name         string `json:"name"`
	ZoneName     string `json:"zoneName,omitempty"`
	Catches      int    `json:"catches"`
	Connected    bool   `json:"connected"`
	Eliminated   bool   `json:"eliminated"`
	Disconnected bool   `json:"disconnected"`
}

// PublicView is the arena-wide snapshot consumed by the renderer.
type PublicView struct {
	Arena     string         `json:"arena"`
	GameID    string         `json:"gameId"`
	Phase     Phase          `json:"phase"`
	Mode      Mode           `json:"mode,omitempty"`
	StartedAt time.Time      `json:"startedAt,omitempty"`
	EndsAt    time.Time      `json:"endsAt,omitempty"`
	Players   []PublicPlayer `json:"players"`
	Winners   []string       `json:"winners,omitempty"`
	EndReason string         `json:"endReason,omitempty"`
}

// LeaderboardRow is one scoreboard line, best first.
type LeaderboardRow struct {
	Name       string        `json:"name"`
	Score      int           `json:"score"`
	Catches    []CatchRecord `json:"catches,omitempty"`
	Eliminated bool          `json:"eliminated"`
}

// GameOverView is the final result pushed when a game finishes.
type GameOverView struct {
	Arena       string           `json:"arena"`
	Mode        Mode             `json:"mode"`
	Reason      string           `json:"reason"`
	Winners     []string         `json:"winners"`
	Leaderboard []LeaderboardRow `json:"leaderboard"`
}

// PlayerView builds the private snapshot for one player.
func (g *Game) PlayerView(id string) (PlayerView, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry, ok := g.entries[id]
	if !ok {
		return PlayerView{}, userErrorf("that player is not in this safari game")
	}
	view := PlayerView{
		ID:         entry.part.ID,
		Name:       entry.part.Name,
		Score:      entry.part.Score,
		Eliminated: entry.part.Eliminated,
	}
	if state := entry.state; state != nil {
		view.InWorld = true
		view.Zone = state.Zone
		view.ZoneName = g.zoneMap.Zones[state.Zone].Name
		view.Balls = state.Balls
		view.Steps = state.Steps
		view.Caught = append([]string(nil), state.Caught...)
		view.Log = state.log.recent()
		view.Connected = state.Connected
		if enc := state.Encounter; enc != nil {
			view.Encounter = &EncounterView{Species: enc.Species, Level: enc.Level}
		}
	}
	return view, nil
}

// PublicView builds the arena-wide snapshot.
func (g *Game) PublicView() PublicView {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.publicViewLocked()
}

func (g *Game) publicViewLocked() PublicView {
	view := PublicView{
		Arena:     g.arena,
		GameID:    g.id,
		Phase:     g.phase,
		Mode:      g.mode,
		StartedAt: g.startedAt,
		EndsAt:    g.endsAt,
		EndReason: g.endReason,
		Players:   make([]PublicPlayer, 0, len(g.order)),
	}
	for _, id := range g.order {
		entry := g.entries[id]
		row := PublicPlayer{
			Name:         entry.part.Name,
			Catches:      len(entry.part.Caught),
			Eliminated:   entry.part.Eliminated,
			Disconnected: entry.part.Disconnected,
		}
		if state := entry.state; state != nil {
			row.ZoneName = g.zoneMap.Zones[state.Zone].Name
			row.Connected = state.Connected
		}
		view.Players = append(view.Players, row)
	}
	for _, winnerID := range g.winners {
		if entry, ok := g.entries[winnerID]; ok {
			view.Winners = append(view.Winners, entry.part.Name)
		}
	}
	return view
}

// Leaderboard returns scoreboard rows sorted by score, then catch count,
// with join order as the stable fallback.
func (g *Game) Leaderboard() []LeaderboardRow {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.leaderboardLocked()
}

func (g *Game) leaderboardLocked() []LeaderboardRow {
	rows := make([]LeaderboardRow, 0, len(g.order))
	for _, id := range g.order {
		part := g.entries[id].part
		rows = append(rows, LeaderboardRow{
			Name:       part.Name,
			Score:      part.Score,
			Catches:    append([]CatchRecord(nil), part.Caught...),
			Eliminated: part.Eliminated,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return len(rows[i].Catches) > len(rows[j].Catches)
	})
	return rows
}

func (g *Game) gameOverViewLocked() GameOverView {
	view := GameOverView{
		Arena:       g.arena,
		Mode:        g.mode,
		Reason:      g.endReason,
		Leaderboard: g.leaderboardLocked(),
	}
	for _, winnerID := range g.winners {
		if entry, ok := g.entries[winnerID]; ok {
			view.Winners = append(view.Winners, entry.part.Name)
		}
	}
	return view
}

// Winners exposes the winner ids once the game has finished.
func (g *Game) Winners() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.winners...)
}
