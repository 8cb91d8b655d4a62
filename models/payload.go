package models

// Nested shapes returned by the remote Knobel API. Nested collections are
// optional; a missing collection is treated as empty.

type GamesPayload struct {
	Games []GamePayload `json:"games"`
}

type GamePayload struct {
	ID             int            `json:"id"`
	Name           string         `json:"name"`
	TeamSize       int            `json:"teamSize"`
	TableSize      int            `json:"tableSize"`
	NumberOfRounds int            `json:"numberOfRounds"`
	Status         GameStatus     `json:"status"`
	Owners         []OwnerPayload `json:"owners,omitempty"`
	Teams          []TeamPayload  `json:"teams,omitempty"`
	Rounds         []RoundPayload `json:"rounds,omitempty"`
}

type OwnerPayload struct {
	OwnerSub string `json:"ownerSub"`
}

type TeamPayload struct {
	ID      int             `json:"id"`
	Name    string          `json:"name"`
	GameID  int             `json:"gameID,omitempty"`
	Players []PlayerPayload `json:"players,omitempty"`
}

type PlayerPayload struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	TeamID int    `json:"teamID,omitempty"`
}

type RoundPayload struct {
	ID          int            `json:"id"`
	GameID      int            `json:"gameID,omitempty"`
	RoundNumber int            `json:"roundNumber"`
	Tables      []TablePayload `json:"tables,omitempty"`
}

type TablePayload struct {
	ID          int             `json:"id"`
	RoundID     int             `json:"roundID,omitempty"`
	TableNumber int             `json:"tableNumber"`
	Players     []PlayerPayload `json:"players,omitempty"`
	Scores      []ScorePayload  `json:"scores,omitempty"`
}

type ScorePayload struct {
	ID       int `json:"id"`
	PlayerID int `json:"playerID"`
	TableID  int `json:"tableID,omitempty"`
	Score    int `json:"score"`
}
