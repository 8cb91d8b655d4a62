package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/knobel-manager/models"
)

func fullPayload() models.GamesPayload {
	return models.GamesPayload{Games: []models.GamePayload{
		{
			ID: 1, Name: "Winterturnier", TeamSize: 2, TableSize: 2, NumberOfRounds: 1,
			Status: models.GameStatusInProgress,
			Owners: []models.OwnerPayload{{OwnerSub: "auth0|alice"}, {OwnerSub: "auth0|bob"}},
			Teams: []models.TeamPayload{
				{ID: 10, Name: "Würfelkönige", GameID: 1, Players: []models.PlayerPayload{
					{ID: 100, Name: "Anna", TeamID: 10},
					{ID: 101, Name: "Bernd", TeamID: 10},
				}},
				{ID: 11, Name: "Pasch", GameID: 1, Players: []models.PlayerPayload{
					{ID: 102, Name: "Clara", TeamID: 11},
					{ID: 103, Name: "Dieter", TeamID: 11},
				}},
			},
			Rounds: []models.RoundPayload{
				{ID: 50, GameID: 1, RoundNumber: 1, Tables: []models.TablePayload{
					{ID: 500, RoundID: 50, TableNumber: 1,
						Players: []models.PlayerPayload{{ID: 100, Name: "Anna", TeamID: 10}, {ID: 102, Name: "Clara", TeamID: 11}},
						Scores: []models.ScorePayload{
							{ID: 9000, PlayerID: 100, TableID: 500, Score: 12},
							{ID: 9001, PlayerID: 102, TableID: 500, Score: 7},
						}},
					{ID: 501, RoundID: 50, TableNumber: 2,
						Players: []models.PlayerPayload{{ID: 101, Name: "Bernd", TeamID: 10}, {ID: 103, Name: "Dieter", TeamID: 11}}},
				}},
			},
		},
		{ID: 2, Name: "Sommerfest", TeamSize: 4, TableSize: 4, NumberOfRounds: 3, Status: models.GameStatusSetup},
	}}
}

func TestNormalize_RoundTrip(t *testing.T) {
	payload := fullPayload()

	got := Denormalize(Normalize(payload))

	assert.Equal(t, payload, got)
}

func TestNormalize_Idempotent(t *testing.T) {
	first := Normalize(fullPayload())
	second := Normalize(fullPayload())

	assert.Equal(t, first, second)
}

func TestNormalize_FlattensEntities(t *testing.T) {
	e := Normalize(fullPayload())

	assert.Equal(t, []int{1, 2}, e.GameOrder)
	assert.Len(t, e.Teams, 2)
	assert.Len(t, e.Players, 4)
	assert.Len(t, e.Rounds, 1)
	assert.Len(t, e.Tables, 2)
	assert.Len(t, e.Scores, 2)

	game := e.Games[1]
	assert.Equal(t, []string{"auth0|alice", "auth0|bob"}, game.Owners)
	assert.Equal(t, []int{10, 11}, game.Teams)
	assert.Equal(t, []int{50}, game.Rounds)
	assert.Equal(t, []int{100, 101}, e.Teams[10].Players)
	assert.Equal(t, 1, e.Teams[10].GameID)
	assert.Equal(t, 11, e.Players[103].TeamID)
	assert.Equal(t, []int{9000, 9001}, e.Tables[500].Scores)
	assert.Equal(t, 1, e.Tables[500].RoundNumber)
}

func TestNormalize_MissingOptionalCollections(t *testing.T) {
	e := Normalize(models.GamesPayload{Games: []models.GamePayload{{ID: 7, Name: "Leer"}}})

	require.Contains(t, e.Games, 7)
	game := e.Games[7]
	assert.NotNil(t, game.Teams)
	assert.Empty(t, game.Teams)
	assert.NotNil(t, game.Rounds)
	assert.Empty(t, game.Rounds)
	assert.NotNil(t, game.Owners)
	assert.Empty(t, e.Teams)
	assert.Empty(t, e.Players)
	assert.Empty(t, e.Rounds)
	assert.Empty(t, e.Tables)
	assert.Empty(t, e.Scores)
}

func TestNormalize_TeamWithoutPlayersAndTableWithoutScores(t *testing.T) {
	e := Normalize(models.GamesPayload{Games: []models.GamePayload{{
		ID:     1,
		Teams:  []models.TeamPayload{{ID: 10, Name: "Solo"}},
		Rounds: []models.RoundPayload{{ID: 5, RoundNumber: 1, Tables: []models.TablePayload{{ID: 50, TableNumber: 1}}}},
	}}})

	assert.Equal(t, []int{}, e.Teams[10].Players)
	assert.Equal(t, []int{}, e.Tables[50].Players)
	assert.Equal(t, []int{}, e.Tables[50].Scores)
}

func TestNormalize_FillsBackReferencesFromParent(t *testing.T) {
	e := Normalize(models.GamesPayload{Games: []models.GamePayload{{
		ID: 3,
		Teams: []models.TeamPayload{{ID: 30, Players: []models.PlayerPayload{{ID: 300}}}},
		Rounds: []models.RoundPayload{{ID: 31, RoundNumber: 2, Tables: []models.TablePayload{{
			ID: 310, TableNumber: 1, Scores: []models.ScorePayload{{ID: 1, PlayerID: 300, Score: 4}},
		}}}},
	}}})

	assert.Equal(t, 3, e.Teams[30].GameID)
	assert.Equal(t, 30, e.Players[300].TeamID)
	assert.Equal(t, 3, e.Rounds[31].GameID)
	assert.Equal(t, 31, e.Tables[310].RoundID)
	assert.Equal(t, 310, e.Scores[1].TableID)
}

func TestNormalize_OverlappingIDsLastWriteWins(t *testing.T) {
	e := Normalize(models.GamesPayload{Games: []models.GamePayload{
		{ID: 1, Teams: []models.TeamPayload{{ID: 10, Name: "first"}}},
		{ID: 2, Teams: []models.TeamPayload{{ID: 10, Name: "second"}}},
	}})

	assert.Equal(t, "second", e.Teams[10].Name)
	assert.Equal(t, 2, e.Teams[10].GameID)
	assert.Equal(t, []int{10}, e.Games[1].Teams)
	assert.Equal(t, []int{10}, e.Games[2].Teams)
}

func TestNormalize_DuplicateScoreForPlayerKeepsLast(t *testing.T) {
	e := NormalizeRound(1, models.RoundPayload{ID: 5, RoundNumber: 1, Tables: []models.TablePayload{{
		ID: 50, TableNumber: 1,
		Scores: []models.ScorePayload{{ID: 1, PlayerID: 100, Score: 3}, {ID: 2, PlayerID: 100, Score: 8}},
	}}})

	assert.Equal(t, []int{2}, e.Tables[50].Scores)
	assert.NotContains(t, e.Scores, 1)
	assert.Equal(t, 8, e.Scores[2].Score)
}

func TestNormalize_TablePlayersDoNotOverrideTeamPlayers(t *testing.T) {
	e := Normalize(models.GamesPayload{Games: []models.GamePayload{{
		ID:    1,
		Teams: []models.TeamPayload{{ID: 10, Players: []models.PlayerPayload{{ID: 100, Name: "Anna"}}}},
		Rounds: []models.RoundPayload{{ID: 5, RoundNumber: 1, Tables: []models.TablePayload{{
			ID: 50, Players: []models.PlayerPayload{{ID: 100, Name: "A."}},
		}}}},
	}}})

	assert.Equal(t, models.Player{ID: 100, Name: "Anna", TeamID: 10}, e.Players[100])
}

func TestNormalizeTeam(t *testing.T) {
	team, players := NormalizeTeam(4, models.TeamPayload{ID: 40, Name: "Neu", Players: []models.PlayerPayload{
		{ID: 400, Name: "Eva"}, {ID: 401, Name: "Fritz"},
	}})

	assert.Equal(t, models.Team{ID: 40, Name: "Neu", GameID: 4, Players: []int{400, 401}}, team)
	assert.Equal(t, []models.Player{{ID: 400, Name: "Eva", TeamID: 40}, {ID: 401, Name: "Fritz", TeamID: 40}}, players)
}
