package rankings

import (
	"sort"

	"github.com/Dosada05/knobel-manager/models"
)

// AggregateScores sums the score records of the given tables per player.
// Players without any record are absent from the result, callers treat them as 0.
func AggregateScores(tables []models.Table, scores map[int]models.Score) map[int]int {
	totals := make(map[int]int)
	for _, table := range tables {
		for _, scoreID := range table.Scores {
			sc, ok := scores[scoreID]
			if !ok {
				continue
			}
			totals[sc.PlayerID] += sc.Score
		}
	}
	return totals
}

// RankPlayers lists every player of the given teams, in team order and then
// player order, sorted by total descending. Ties keep their input order.
func RankPlayers(teams []models.Team, players map[int]models.Player, totals map[int]int) []models.PlayerRanking {
	out := make([]models.PlayerRanking, 0)
	for _, team := range teams {
		for _, playerID := range team.Players {
			p, ok := players[playerID]
			if !ok {
				continue
			}
			out = append(out, models.PlayerRanking{
				PlayerID:   p.ID,
				PlayerName: p.Name,
				TeamID:     team.ID,
				TeamName:   team.Name,
				TotalScore: totals[p.ID],
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalScore > out[j].TotalScore
	})
	for i := range out {
		out[i].Rank = i + 1
		if i > 0 && out[i].TotalScore == out[i-1].TotalScore {
			out[i].Rank = out[i-1].Rank
		}
	}
	return out
}

// RankTeams sums the already ranked player totals per team, so both views always
// agree, and sorts teams by that sum. Ties keep the input team order.
func RankTeams(teams []models.Team, playerRankings []models.PlayerRanking) []models.TeamRanking {
	byTeam := make(map[int]int, len(teams))
	for _, pr := range playerRankings {
		byTeam[pr.TeamID] += pr.TotalScore
	}

	out := make([]models.TeamRanking, 0, len(teams))
	for _, team := range teams {
		out = append(out, models.TeamRanking{
			TeamID:     team.ID,
			TeamName:   team.Name,
			TotalScore: byTeam[team.ID],
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalScore > out[j].TotalScore
	})
	for i := range out {
		out[i].Rank = i + 1
		if i > 0 && out[i].TotalScore == out[i-1].TotalScore {
			out[i].Rank = out[i-1].Rank
		}
	}
	return out
}

// TablesOfRound picks the tables of the game's round with the given number,
// in table order of that round. Unknown rounds yield nil.
func TablesOfRound(game models.Game, rounds map[int]models.Round, tables map[int]models.Table, roundNumber int) []models.Table {
	for _, roundID := range game.Rounds {
		round, ok := rounds[roundID]
		if !ok || round.RoundNumber != roundNumber {
			continue
		}
		out := make([]models.Table, 0, len(round.Tables))
		for _, tableID := range round.Tables {
			if t, ok := tables[tableID]; ok {
				out = append(out, t)
			}
		}
		return out
	}
	return nil
}

// AllTables returns every table of every round of the game, rounds in order.
func AllTables(game models.Game, rounds map[int]models.Round, tables map[int]models.Table) []models.Table {
	var out []models.Table
	for _, roundID := range game.Rounds {
		round, ok := rounds[roundID]
		if !ok {
			continue
		}
		for _, tableID := range round.Tables {
			if t, ok := tables[tableID]; ok {
				out = append(out, t)
			}
		}
	}
	return out
}
