// Package selectors provides memoized read views over the entity store.
// Returned slices and maps are shared between callers and must not be modified.
package selectors

import (
	"github.com/Dosada05/knobel-manager/models"
	"github.com/Dosada05/knobel-manager/rankings"
	"github.com/Dosada05/knobel-manager/store"
)

type gameResult struct {
	game models.Game
	ok   bool
}

type rankingsKey struct {
	gameID      int
	roundNumber int
	perRound    bool
}

type rankingsResult struct {
	rankings models.Rankings
	ok       bool
}

type roundKey struct {
	gameID      int
	roundNumber int
}

type Selectors struct {
	store *store.EntityStore

	allGames    *memo[struct{}, []models.Game]
	gameByID    *memo[int, gameResult]
	teamsOfGame *memo[int, []models.Team]
	playersOf   *memo[int, []models.Player]
	rankings    *memo[rankingsKey, rankingsResult]
	tables      *memo[roundKey, []models.TableView]
}

func New(s *store.EntityStore) *Selectors {
	return &Selectors{
		store:       s,
		allGames:    newMemo[struct{}, []models.Game](1, gamesOnly),
		gameByID:    newMemo[int, gameResult](entityMemoSize, gamesOnly),
		teamsOfGame: newMemo[int, []models.Team](entityMemoSize, gamesAndTeams),
		playersOf:   newMemo[int, []models.Player](entityMemoSize, teamsAndPlayers),
		rankings:    newMemo[rankingsKey, rankingsResult](viewMemoSize, everything),
		tables:      newMemo[roundKey, []models.TableView](viewMemoSize, roundsAndScores),
	}
}

// AllGames returns the games in the order the remote API listed them.
func (s *Selectors) AllGames() []models.Game {
	return s.allGames.get(s.store, struct{}{}, func(r store.Reader) ([]models.Game, bool) {
		order := r.GameOrder()
		out := make([]models.Game, 0, len(order))
		for _, id := range order {
			if g, ok := r.Game(id); ok {
				out = append(out, g)
			}
		}
		return out, true
	})
}

func (s *Selectors) GameByID(id int) (models.Game, bool) {
	res := s.gameByID.get(s.store, id, func(r store.Reader) (gameResult, bool) {
		g, ok := r.Game(id)
		return gameResult{game: g, ok: ok}, ok
	})
	return res.game, res.ok
}

// AllTeamsOfGame returns the game's teams in list order. An unknown game yields
// an empty list.
func (s *Selectors) AllTeamsOfGame(gameID int) []models.Team {
	return s.teamsOfGame.get(s.store, gameID, func(r store.Reader) ([]models.Team, bool) {
		return teamsOf(r, gameID)
	})
}

// AllPlayersOfTeam returns the team's players in list order.
func (s *Selectors) AllPlayersOfTeam(teamID int) []models.Player {
	return s.playersOf.get(s.store, teamID, func(r store.Reader) ([]models.Player, bool) {
		team, ok := r.Team(teamID)
		if !ok {
			return []models.Player{}, false
		}
		out := make([]models.Player, 0, len(team.Players))
		for _, id := range team.Players {
			if p, ok := r.Player(id); ok {
				out = append(out, p)
			}
		}
		return out, true
	})
}

// RankingsForGame ranks players and teams over all tables of the game, or over
// the tables of one round when roundNumber is set.
func (s *Selectors) RankingsForGame(gameID int, roundNumber *int) (models.Rankings, bool) {
	key := rankingsKey{gameID: gameID}
	if roundNumber != nil {
		key.roundNumber = *roundNumber
		key.perRound = true
	}

	res := s.rankings.get(s.store, key, func(r store.Reader) (rankingsResult, bool) {
		game, ok := r.Game(gameID)
		if !ok {
			return rankingsResult{}, false
		}

		teams, _ := teamsOf(r, gameID)
		players := make(map[int]models.Player)
		for _, team := range teams {
			for _, id := range team.Players {
				if p, ok := r.Player(id); ok {
					players[id] = p
				}
			}
		}

		rounds, tables, scores := roundGraph(r, game)
		var selected []models.Table
		if key.perRound {
			selected = rankings.TablesOfRound(game, rounds, tables, key.roundNumber)
		} else {
			selected = rankings.AllTables(game, rounds, tables)
		}

		playerRankings := rankings.RankPlayers(teams, players, rankings.AggregateScores(selected, scores))
		out := models.Rankings{
			GameID:         gameID,
			PlayerRankings: playerRankings,
			TeamRankings:   rankings.RankTeams(teams, playerRankings),
		}
		if key.perRound {
			n := key.roundNumber
			out.RoundNumber = &n
		}
		// a round that does not exist yet ranks nobody and is not kept
		_, roundKnown := r.FindRound(gameID, key.roundNumber)
		return rankingsResult{rankings: out, ok: true}, !key.perRound || roundKnown
	})
	return res.rankings, res.ok
}

// TablesOfRound returns the resolved tables of one round of a game, or nil when
// the round is not in the store.
func (s *Selectors) TablesOfRound(gameID, roundNumber int) []models.TableView {
	return s.tables.get(s.store, roundKey{gameID: gameID, roundNumber: roundNumber}, func(r store.Reader) ([]models.TableView, bool) {
		round, ok := r.FindRound(gameID, roundNumber)
		if !ok {
			return nil, false
		}
		out := make([]models.TableView, 0, len(round.Tables))
		for _, tableID := range round.Tables {
			t, ok := r.Table(tableID)
			if !ok {
				continue
			}
			out = append(out, tableView(r, t))
		}
		return out, true
	})
}

func tableView(r store.Reader, t models.Table) models.TableView {
	view := models.TableView{
		TableID:     t.ID,
		RoundNumber: t.RoundNumber,
		TableNumber: t.TableNumber,
		Players:     t.Players,
		Scores:      make([]models.Score, 0, len(t.Scores)),
		Provisional: t.Provisional,
	}
	for _, id := range t.Scores {
		if sc, ok := r.Score(id); ok {
			view.Scores = append(view.Scores, sc)
		}
	}
	return view
}

func teamsOf(r store.Reader, gameID int) ([]models.Team, bool) {
	game, ok := r.Game(gameID)
	if !ok {
		return []models.Team{}, false
	}
	out := make([]models.Team, 0, len(game.Teams))
	for _, id := range game.Teams {
		if t, ok := r.Team(id); ok {
			out = append(out, t)
		}
	}
	return out, true
}

func roundGraph(r store.Reader, game models.Game) (map[int]models.Round, map[int]models.Table, map[int]models.Score) {
	rounds := make(map[int]models.Round, len(game.Rounds))
	tables := make(map[int]models.Table)
	scores := make(map[int]models.Score)
	for _, roundID := range game.Rounds {
		round, ok := r.Round(roundID)
		if !ok {
			continue
		}
		rounds[roundID] = round
		for _, tableID := range round.Tables {
			t, ok := r.Table(tableID)
			if !ok {
				continue
			}
			tables[tableID] = t
			for _, scoreID := range t.Scores {
				if sc, ok := r.Score(scoreID); ok {
					scores[scoreID] = sc
				}
			}
		}
	}
	return rounds, tables, scores
}
