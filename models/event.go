package models

type ChangeType string

const (
	ChangeGamesRefreshed ChangeType = "GAMES_REFRESHED"
	ChangeGameUpdated    ChangeType = "GAME_UPDATED"
	ChangeGameDeleted    ChangeType = "GAME_DELETED"
	ChangeTeamUpdated    ChangeType = "TEAM_UPDATED"
	ChangeTeamDeleted    ChangeType = "TEAM_DELETED"
	ChangePlayerUpdated  ChangeType = "PLAYER_UPDATED"
	ChangePlayerDeleted  ChangeType = "PLAYER_DELETED"
	ChangeTablesLoaded   ChangeType = "TABLES_LOADED"
	ChangeScoresPending  ChangeType = "SCORES_PENDING"
	ChangeScoresUpdated  ChangeType = "SCORES_UPDATED"
	ChangeScoresReverted ChangeType = "SCORES_REVERTED"
)

// ChangeEvent tells connected clients which part of the store changed so they
// can re-read the affected views.
type ChangeEvent struct {
	Type        ChangeType `json:"type"`
	GameID      int        `json:"gameId,omitempty"`
	EntityID    int        `json:"entityId,omitempty"`
	RoundNumber int        `json:"roundNumber,omitempty"`
	TableNumber int        `json:"tableNumber,omitempty"`
}
