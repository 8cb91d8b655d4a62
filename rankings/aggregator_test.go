package rankings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/knobel-manager/models"
)

func TestAggregateScores(t *testing.T) {
	scores := map[int]models.Score{
		1: {ID: 1, PlayerID: 1, TableID: 10, Score: 10},
		2: {ID: 2, PlayerID: 2, TableID: 10, Score: 20},
		3: {ID: 3, PlayerID: 1, TableID: 11, Score: 5},
	}
	tables := []models.Table{
		{ID: 10, Scores: []int{1, 2}},
		{ID: 11, Scores: []int{3}},
		{ID: 12},
	}

	got := AggregateScores(tables, scores)

	assert.Equal(t, map[int]int{1: 15, 2: 20}, got)
}

func TestAggregateScores_SkipsUnknownRecordsAndOmitsUnscoredPlayers(t *testing.T) {
	got := AggregateScores([]models.Table{{ID: 1, Players: []int{7, 8}, Scores: []int{99}}}, map[int]models.Score{})

	assert.Empty(t, got)
	_, present := got[7]
	assert.False(t, present)
}

func rankingFixture() ([]models.Team, map[int]models.Player) {
	teams := []models.Team{
		{ID: 10, Name: "A", Players: []int{100, 101}},
		{ID: 11, Name: "B", Players: []int{102, 103}},
	}
	players := map[int]models.Player{
		100: {ID: 100, Name: "Anna", TeamID: 10},
		101: {ID: 101, Name: "Bernd", TeamID: 10},
		102: {ID: 102, Name: "Clara", TeamID: 11},
		103: {ID: 103, Name: "Dieter", TeamID: 11},
	}
	return teams, players
}

func TestRankPlayers_SortsDescendingAndStable(t *testing.T) {
	teams, players := rankingFixture()
	totals := map[int]int{100: 5, 101: 12, 102: 12, 103: 5}

	got := RankPlayers(teams, players, totals)

	require.Len(t, got, 4)
	ids := []int{got[0].PlayerID, got[1].PlayerID, got[2].PlayerID, got[3].PlayerID}
	assert.Equal(t, []int{101, 102, 100, 103}, ids)
	assert.Equal(t, []int{1, 1, 3, 3}, []int{got[0].Rank, got[1].Rank, got[2].Rank, got[3].Rank})
	assert.Equal(t, models.PlayerRanking{
		Rank: 1, PlayerID: 102, PlayerName: "Clara", TeamID: 11, TeamName: "B", TotalScore: 12,
	}, got[1])
}

func TestRankPlayers_MissingTotalsCountAsZero(t *testing.T) {
	teams, players := rankingFixture()

	got := RankPlayers(teams, players, map[int]int{103: 1})

	require.Len(t, got, 4)
	assert.Equal(t, 103, got[0].PlayerID)
	for _, pr := range got[1:] {
		assert.Zero(t, pr.TotalScore)
		assert.Equal(t, 2, pr.Rank)
	}
	// zero-score players stay in team-then-player order
	assert.Equal(t, []int{100, 101, 102}, []int{got[1].PlayerID, got[2].PlayerID, got[3].PlayerID})
}

func TestRankPlayers_EmptyInput(t *testing.T) {
	got := RankPlayers(nil, nil, nil)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRankTeams_UsesPlayerRankings(t *testing.T) {
	teams, players := rankingFixture()
	teams = append(teams, models.Team{ID: 12, Name: "C"})
	playerRankings := RankPlayers(teams, players, map[int]int{100: 3, 101: 4, 102: 6, 103: 1})

	got := RankTeams(teams, playerRankings)

	require.Len(t, got, 3)
	assert.Equal(t, models.TeamRanking{Rank: 1, TeamID: 10, TeamName: "A", TotalScore: 7}, got[0])
	assert.Equal(t, models.TeamRanking{Rank: 1, TeamID: 11, TeamName: "B", TotalScore: 7}, got[1])
	assert.Equal(t, models.TeamRanking{Rank: 3, TeamID: 12, TeamName: "C", TotalScore: 0}, got[2])
}

func TestRankTeams_TieKeepsTeamOrder(t *testing.T) {
	teams := []models.Team{{ID: 2, Name: "zwei"}, {ID: 1, Name: "eins"}}

	got := RankTeams(teams, nil)

	assert.Equal(t, 2, got[0].TeamID)
	assert.Equal(t, 1, got[1].TeamID)
}

func TestTablesOfRound(t *testing.T) {
	game := models.Game{ID: 1, Rounds: []int{5, 6}}
	rounds := map[int]models.Round{
		5: {ID: 5, RoundNumber: 1, Tables: []int{50, 51}},
		6: {ID: 6, RoundNumber: 2, Tables: []int{60}},
	}
	tables := map[int]models.Table{
		50: {ID: 50, TableNumber: 1},
		51: {ID: 51, TableNumber: 2},
		60: {ID: 60, TableNumber: 1},
	}

	round2 := TablesOfRound(game, rounds, tables, 2)
	require.Len(t, round2, 1)
	assert.Equal(t, 60, round2[0].ID)

	assert.Nil(t, TablesOfRound(game, rounds, tables, 3))

	all := AllTables(game, rounds, tables)
	assert.Len(t, all, 3)
	assert.Equal(t, 50, all[0].ID)
}
