package models

// Score is the result of one player at one table. Ids below zero belong to
// provisional records that the remote API has not confirmed yet.
type Score struct {
	ID       int `json:"id"`
	PlayerID int `json:"playerID"`
	TableID  int `json:"tableID"`
	Score    int `json:"score"`
}

// ScoreInput is one entry of an update-scores call.
type ScoreInput struct {
	PlayerID int `json:"playerID"`
	Score    int `json:"score"`
}
