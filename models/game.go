package models

// GameStatus представляет этапы жизненного цикла игры.
type GameStatus string

const (
	GameStatusSetup      GameStatus = "setup"
	GameStatusInProgress GameStatus = "in_progress"
	GameStatusCompleted  GameStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s GameStatus) Valid() bool {
	switch s {
	case GameStatusSetup, GameStatusInProgress, GameStatusCompleted:
		return true
	}
	return false
}

// Game is the normalized game entity. Teams and Rounds hold ids only.
type Game struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	TeamSize       int        `json:"teamSize"`
	TableSize      int        `json:"tableSize"`
	NumberOfRounds int        `json:"numberOfRounds"`
	Status         GameStatus `json:"status"`
	Owners         []string   `json:"owners"`
	Teams          []int      `json:"teams"`
	Rounds         []int      `json:"rounds"`
}

// Clone returns a copy that shares no slices with g.
func (g Game) Clone() Game {
	g.Owners = cloneStrings(g.Owners)
	g.Teams = cloneIDs(g.Teams)
	g.Rounds = cloneIDs(g.Rounds)
	return g
}

// GameInput is the body of a create call.
type GameInput struct {
	Name           string `json:"name"`
	TeamSize       int    `json:"teamSize"`
	TableSize      int    `json:"tableSize"`
	NumberOfRounds int    `json:"numberOfRounds"`
}

// GameUpdate carries the optional fields of an update call; nil means unchanged.
type GameUpdate struct {
	Name           *string     `json:"name,omitempty"`
	TeamSize       *int        `json:"teamSize,omitempty"`
	TableSize      *int        `json:"tableSize,omitempty"`
	NumberOfRounds *int        `json:"numberOfRounds,omitempty"`
	Status         *GameStatus `json:"status,omitempty"`
}

func cloneIDs(ids []int) []int {
	out := make([]int, len(ids))
	copy(out, ids)
	return out
}

func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
