package model

import (
	"encoding/json"
	"time"
)

// Game statuses.
const (
	StatusSetup    = "setup"
	StatusActive   = "active"
	StatusFinished = "finished"
)

// Game is one recorded warzone game.
type Game struct {
	ID         string       `json:"id"`
	MapName    string       `json:"map_name"`
	Status     string       `json:"status"` // setup, active, finished
	Winner     string       `json:"winner,omitempty"`
	Draw       bool         `json:"draw"`
	Turns      int          `json:"turns"`
	CreatedAt  time.Time    `json:"created_at"`
	StartedAt  *time.Time   `json:"started_at,omitempty"`
	FinishedAt *time.Time   `json:"finished_at,omitempty"`
	Players    []GamePlayer `json:"players,omitempty"`
}

// GamePlayer is a player seated in a game. Seat is the turn order.
type GamePlayer struct {
	GameID   string `json:"game_id"`
	Seat     int    `json:"seat"`
	Name     string `json:"name"`
	Strategy string `json:"strategy,omitempty"` // empty for humans
}

// TurnSnapshot is the game state captured when a phase is entered.
type TurnSnapshot struct {
	ID        int64           `json:"id"`
	GameID    string          `json:"game_id"`
	Turn      int             `json:"turn"`
	Phase     string          `json:"phase"`
	State     json.RawMessage `json:"state"`
	CreatedAt time.Time       `json:"created_at"`
}

// EventRecord is one engine event in a game's history. Seq is dense per game.
type EventRecord struct {
	GameID    string          `json:"game_id"`
	Seq       int64           `json:"seq"`
	Kind      string          `json:"kind"`
	Turn      int             `json:"turn"`
	Phase     string          `json:"phase"`
	Player    string          `json:"player,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}
