package store

import "github.com/Dosada05/knobel-manager/models"

// Entities is the flat, id-keyed form of the nested API payload.
// GameOrder keeps the order in which games were first seen.
type Entities struct {
	GameOrder []int
	Games     map[int]models.Game
	Teams     map[int]models.Team
	Players   map[int]models.Player
	Rounds    map[int]models.Round
	Tables    map[int]models.Table
	Scores    map[int]models.Score
}

func NewEntities() Entities {
	return Entities{
		GameOrder: []int{},
		Games:     make(map[int]models.Game),
		Teams:     make(map[int]models.Team),
		Players:   make(map[int]models.Player),
		Rounds:    make(map[int]models.Round),
		Tables:    make(map[int]models.Table),
		Scores:    make(map[int]models.Score),
	}
}

func (e Entities) clone() Entities {
	out := NewEntities()
	out.GameOrder = append(out.GameOrder, e.GameOrder...)
	for id, g := range e.Games {
		out.Games[id] = g.Clone()
	}
	for id, t := range e.Teams {
		out.Teams[id] = t.Clone()
	}
	for id, p := range e.Players {
		out.Players[id] = p
	}
	for id, r := range e.Rounds {
		out.Rounds[id] = r.Clone()
	}
	for id, t := range e.Tables {
		out.Tables[id] = t.Clone()
	}
	for id, s := range e.Scores {
		out.Scores[id] = s
	}
	return out
}
