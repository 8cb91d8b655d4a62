package models

type ReportKind string

const (
	ReportTablePlan ReportKind = "table-plan"
	ReportRankings  ReportKind = "rankings"
)

// TableView is a fully resolved table as handed to report renderers.
type TableView struct {
	TableID     int     `json:"tableId"`
	RoundNumber int     `json:"roundNumber"`
	TableNumber int     `json:"tableNumber"`
	Players     []int   `json:"players"`
	Scores      []Score `json:"scores"`
	Provisional bool    `json:"provisional,omitempty"`
}

// TablePlanReport feeds the table-plan and score-sheet exports.
type TablePlanReport struct {
	GameName       string         `json:"gameName"`
	NumberOfRounds int            `json:"numberOfRounds"`
	Tables         []TableView    `json:"tables"`
	PlayersByID    map[int]Player `json:"playersById"`
	TeamsByID      map[int]Team   `json:"teamsById"`
}

// RankingsReport feeds the rankings export.
type RankingsReport struct {
	GameName       string          `json:"gameName"`
	TeamRankings   []TeamRanking   `json:"teamRankings"`
	PlayerRankings []PlayerRanking `json:"playerRankings"`
	RoundNumber    *int            `json:"roundNumber,omitempty"`
}
