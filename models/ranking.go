package models

// PlayerRanking is one row of a player leaderboard. Rank uses competition
// ranking: equal totals share the better position.
type PlayerRanking struct {
	Rank       int    `json:"rank"`
	PlayerID   int    `json:"playerId"`
	PlayerName string `json:"playerName"`
	TeamID     int    `json:"teamId"`
	TeamName   string `json:"teamName"`
	TotalScore int    `json:"totalScore"`
}

type TeamRanking struct {
	Rank       int    `json:"rank"`
	TeamID     int    `json:"teamId"`
	TeamName   string `json:"teamName"`
	TotalScore int    `json:"totalScore"`
}

// Rankings is the derived view for a whole game or for a single round
// (RoundNumber != nil).
type Rankings struct {
	GameID         int             `json:"gameId"`
	RoundNumber    *int            `json:"roundNumber,omitempty"`
	PlayerRankings []PlayerRanking `json:"playerRankings"`
	TeamRankings   []TeamRanking   `json:"teamRankings"`
}
