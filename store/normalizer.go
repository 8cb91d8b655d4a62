package store

import "github.com/Dosada05/knobel-manager/models"

// Normalize flattens a nested games payload into id-keyed maps, replacing nested
// collections with id lists on the parent. It never fails: missing collections
// become empty id lists.
//
// Ids that appear more than once (for example the same team id under two games)
// resolve last-write-wins in input order; inside one game teams are processed
// before rounds. Back-references always come from the enclosing entity.
// Players seated at tables only fill gaps: a player already known from a team
// keeps the team's record.
func Normalize(payload models.GamesPayload) Entities {
	e := NewEntities()
	for _, gp := range payload.Games {
		e.addGame(gp)
	}
	return e
}

// NormalizeGame normalizes a single game response.
func NormalizeGame(gp models.GamePayload) Entities {
	e := NewEntities()
	e.addGame(gp)
	return e
}

// NormalizeRound normalizes the tables of one round belonging to gameID.
func NormalizeRound(gameID int, rp models.RoundPayload) Entities {
	e := NewEntities()
	e.addRound(gameID, rp)
	return e
}

// NormalizeTeam splits a team response into the team and its players.
func NormalizeTeam(gameID int, tp models.TeamPayload) (models.Team, []models.Player) {
	e := NewEntities()
	team := e.addTeam(gameID, tp)
	players := make([]models.Player, 0, len(team.Players))
	for _, id := range team.Players {
		players = append(players, e.Players[id])
	}
	return team, players
}

func (e *Entities) addGame(gp models.GamePayload) {
	g := models.Game{
		ID:             gp.ID,
		Name:           gp.Name,
		TeamSize:       gp.TeamSize,
		TableSize:      gp.TableSize,
		NumberOfRounds: gp.NumberOfRounds,
		Status:         gp.Status,
		Owners:         make([]string, 0, len(gp.Owners)),
		Teams:          make([]int, 0, len(gp.Teams)),
		Rounds:         make([]int, 0, len(gp.Rounds)),
	}
	for _, o := range gp.Owners {
		g.Owners = append(g.Owners, o.OwnerSub)
	}
	for _, tp := range gp.Teams {
		e.addTeam(gp.ID, tp)
		g.Teams = appendUnique(g.Teams, tp.ID)
	}
	for _, rp := range gp.Rounds {
		e.addRound(gp.ID, rp)
		g.Rounds = appendUnique(g.Rounds, rp.ID)
	}

	if _, seen := e.Games[g.ID]; !seen {
		e.GameOrder = append(e.GameOrder, g.ID)
	}
	e.Games[g.ID] = g
}

func (e *Entities) addTeam(gameID int, tp models.TeamPayload) models.Team {
	team := models.Team{
		ID:      tp.ID,
		Name:    tp.Name,
		GameID:  gameID,
		Players: make([]int, 0, len(tp.Players)),
	}
	for _, pp := range tp.Players {
		e.Players[pp.ID] = models.Player{ID: pp.ID, Name: pp.Name, TeamID: tp.ID}
		team.Players = appendUnique(team.Players, pp.ID)
	}
	e.Teams[team.ID] = team
	return team
}

func (e *Entities) addRound(gameID int, rp models.RoundPayload) {
	round := models.Round{
		ID:          rp.ID,
		GameID:      gameID,
		RoundNumber: rp.RoundNumber,
		Tables:      make([]int, 0, len(rp.Tables)),
	}
	for _, tp := range rp.Tables {
		e.addTable(round, tp)
		round.Tables = appendUnique(round.Tables, tp.ID)
	}
	e.Rounds[round.ID] = round
}

func (e *Entities) addTable(round models.Round, tp models.TablePayload) {
	table := models.Table{
		ID:          tp.ID,
		RoundID:     round.ID,
		RoundNumber: round.RoundNumber,
		TableNumber: tp.TableNumber,
		Players:     make([]int, 0, len(tp.Players)),
		Scores:      make([]int, 0, len(tp.Scores)),
	}
	for _, pp := range tp.Players {
		if _, known := e.Players[pp.ID]; !known {
			e.Players[pp.ID] = models.Player{ID: pp.ID, Name: pp.Name, TeamID: pp.TeamID}
		}
		table.Players = appendUnique(table.Players, pp.ID)
	}

	// one score per player and table; a later record replaces an earlier one
	byPlayer := make(map[int]int, len(tp.Scores))
	for _, sp := range tp.Scores {
		score := models.Score{ID: sp.ID, PlayerID: sp.PlayerID, TableID: table.ID, Score: sp.Score}
		if idx, dup := byPlayer[sp.PlayerID]; dup {
			delete(e.Scores, table.Scores[idx])
			table.Scores[idx] = score.ID
		} else {
			byPlayer[sp.PlayerID] = len(table.Scores)
			table.Scores = append(table.Scores, score.ID)
		}
		e.Scores[score.ID] = score
	}
	e.Tables[table.ID] = table
}

// Denormalize reassembles the nested payload from flat entities. Empty id lists
// come back as absent collections. Dangling ids are skipped.
func Denormalize(e Entities) models.GamesPayload {
	out := models.GamesPayload{Games: make([]models.GamePayload, 0, len(e.GameOrder))}
	for _, gameID := range e.GameOrder {
		g, ok := e.Games[gameID]
		if !ok {
			continue
		}
		out.Games = append(out.Games, denormalizeGame(e, g))
	}
	return out
}

func denormalizeGame(e Entities, g models.Game) models.GamePayload {
	gp := models.GamePayload{
		ID:             g.ID,
		Name:           g.Name,
		TeamSize:       g.TeamSize,
		TableSize:      g.TableSize,
		NumberOfRounds: g.NumberOfRounds,
		Status:         g.Status,
	}
	for _, sub := range g.Owners {
		gp.Owners = append(gp.Owners, models.OwnerPayload{OwnerSub: sub})
	}
	for _, teamID := range g.Teams {
		t, ok := e.Teams[teamID]
		if !ok {
			continue
		}
		tp := models.TeamPayload{ID: t.ID, Name: t.Name, GameID: t.GameID}
		tp.Players = denormalizePlayers(e, t.Players)
		gp.Teams = append(gp.Teams, tp)
	}
	for _, roundID := range g.Rounds {
		r, ok := e.Rounds[roundID]
		if !ok {
			continue
		}
		rp := models.RoundPayload{ID: r.ID, GameID: r.GameID, RoundNumber: r.RoundNumber}
		for _, tableID := range r.Tables {
			t, ok := e.Tables[tableID]
			if !ok {
				continue
			}
			tp := models.TablePayload{ID: t.ID, RoundID: t.RoundID, TableNumber: t.TableNumber}
			tp.Players = denormalizePlayers(e, t.Players)
			for _, scoreID := range t.Scores {
				if s, ok := e.Scores[scoreID]; ok {
					tp.Scores = append(tp.Scores, models.ScorePayload{ID: s.ID, PlayerID: s.PlayerID, TableID: s.TableID, Score: s.Score})
				}
			}
			rp.Tables = append(rp.Tables, tp)
		}
		gp.Rounds = append(gp.Rounds, rp)
	}
	return gp
}

func denormalizePlayers(e Entities, ids []int) []models.PlayerPayload {
	var out []models.PlayerPayload
	for _, id := range ids {
		if p, ok := e.Players[id]; ok {
			out = append(out, models.PlayerPayload{ID: p.ID, Name: p.Name, TeamID: p.TeamID})
		}
	}
	return out
}

func appendUnique(ids []int, id int) []int {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
