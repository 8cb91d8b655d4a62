package models

type Team struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	GameID  int    `json:"gameID"`
	Players []int  `json:"players"`
}

func (t Team) Clone() Team {
	t.Players = cloneIDs(t.Players)
	return t
}

type TeamInput struct {
	Name    string   `json:"name"`
	Players []string `json:"players"`
}

type TeamUpdate struct {
	Name string `json:"name"`
}
