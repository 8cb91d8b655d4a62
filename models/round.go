package models

// Round groups the tables played in one round of a game.
type Round struct {
	ID          int   `json:"id"`
	GameID      int   `json:"gameID"`
	RoundNumber int   `json:"roundNumber"`
	Tables      []int `json:"tables"`
}

func (r Round) Clone() Round {
	r.Tables = cloneIDs(r.Tables)
	return r
}

// Table is one table of a round. Players lists the seated players in seat order,
// Scores lists Score ids. Provisional is set while an optimistic score write is
// waiting for the remote API.
type Table struct {
	ID          int   `json:"id"`
	RoundID     int   `json:"roundID"`
	RoundNumber int   `json:"roundNumber"`
	TableNumber int   `json:"tableNumber"`
	Players     []int `json:"players"`
	Scores      []int `json:"scores"`
	Provisional bool  `json:"provisional,omitempty"`
}

func (t Table) Clone() Table {
	t.Players = cloneIDs(t.Players)
	t.Scores = cloneIDs(t.Scores)
	return t
}
