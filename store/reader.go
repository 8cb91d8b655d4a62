package store

import "github.com/Dosada05/knobel-manager/models"

// Reader is the read-only view handed to View callbacks.
type Reader interface {
	Revision() Revision
	GameOrder() []int
	Game(id int) (models.Game, bool)
	Team(id int) (models.Team, bool)
	Player(id int) (models.Player, bool)
	Round(id int) (models.Round, bool)
	Table(id int) (models.Table, bool)
	Score(id int) (models.Score, bool)
	FindRound(gameID, roundNumber int) (models.Round, bool)
	FindTable(gameID, roundNumber, tableNumber int) (models.Table, bool)
}

type reader struct {
	e   *Entities
	rev Revision
}

func (r reader) Revision() Revision { return r.rev }

func (r reader) GameOrder() []int {
	out := make([]int, len(r.e.GameOrder))
	copy(out, r.e.GameOrder)
	return out
}

func (r reader) Game(id int) (models.Game, bool) {
	g, ok := r.e.Games[id]
	if !ok {
		return models.Game{}, false
	}
	return g.Clone(), true
}

func (r reader) Team(id int) (models.Team, bool) {
	t, ok := r.e.Teams[id]
	if !ok {
		return models.Team{}, false
	}
	return t.Clone(), true
}

func (r reader) Player(id int) (models.Player, bool) {
	p, ok := r.e.Players[id]
	return p, ok
}

func (r reader) Round(id int) (models.Round, bool) {
	rd, ok := r.e.Rounds[id]
	if !ok {
		return models.Round{}, false
	}
	return rd.Clone(), true
}

func (r reader) Table(id int) (models.Table, bool) {
	t, ok := r.e.Tables[id]
	if !ok {
		return models.Table{}, false
	}
	return t.Clone(), true
}

func (r reader) Score(id int) (models.Score, bool) {
	s, ok := r.e.Scores[id]
	return s, ok
}

func (r reader) FindRound(gameID, roundNumber int) (models.Round, bool) {
	game, ok := r.e.Games[gameID]
	if !ok {
		return models.Round{}, false
	}
	for _, id := range game.Rounds {
		if rd, ok := r.e.Rounds[id]; ok && rd.RoundNumber == roundNumber {
			return rd.Clone(), true
		}
	}
	return models.Round{}, false
}

func (r reader) FindTable(gameID, roundNumber, tableNumber int) (models.Table, bool) {
	round, ok := r.FindRound(gameID, roundNumber)
	if !ok {
		return models.Table{}, false
	}
	for _, id := range round.Tables {
		if t, ok := r.e.Tables[id]; ok && t.TableNumber == tableNumber {
			return t.Clone(), true
		}
	}
	return models.Table{}, false
}
