package main

// stateMessage is the periodic snapshot pushed to every arena subscriber.
type stateMessage struct {
	Type        string           `json:"type"`
	Arena       string           `json:"arena"`
	State       PublicView       `json:"state"`
	Leaderboard []LeaderboardRow `json:"leaderboard"`
	ServerTime  int64            `json:"serverTime"`
}

// gameOverMessage announces the final result of a finished game.
type gameOverMessage struct {
	Type       string       `json:"type"`
	Arena      string       `json:"arena"`
	Result     GameOverView `json:"result"`
	ServerTime int64        `json:"serverTime"`
}

// errorResponse is the JSON body for rejected HTTP requests.
type errorResponse struct {
	Error string `json:"error"`
}

// diagnosticsArena is one row of the diagnostics endpoint.
type diagnosticsArena struct {
	Arena       string `json:"arena"`
	Phase       Phase  `json:"phase"`
	GameID      string `json:"gameId"`
	Players     int    `json:"players"`
	Subscribers int    `json:"subscribers"`
}
