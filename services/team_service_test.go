package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/knobel-manager/models"
	"github.com/Dosada05/knobel-manager/store"
)

func TestCreateTeam_LinksTeamAndPlayers(t *testing.T) {
	s := seededStore()
	remote := newFakeRemote()
	notifier := &recordingNotifier{}
	svc := NewTeamService(remote, s, notifier, discardLogger())

	team, err := svc.CreateTeam(context.Background(), 1, models.TeamInput{Name: " Grün ", Players: []string{"Eva", " ", "Frank"}})
	require.NoError(t, err)

	assert.Equal(t, 20, team.ID)
	assert.Equal(t, "Grün", team.Name)
	assert.Equal(t, []int{200, 201}, team.Players)

	game, _ := s.Game(1)
	assert.Equal(t, []int{10, 11, 20}, game.Teams)
	player, ok := s.Player(201)
	require.True(t, ok)
	assert.Equal(t, "Frank", player.Name)
	assert.Equal(t, 20, player.TeamID)
	assert.Equal(t, []models.ChangeType{models.ChangeTeamUpdated}, notifier.types())
}

func TestCreateTeam_Rejected(t *testing.T) {
	remote := newFakeRemote()
	svc := NewTeamService(remote, seededStore(), nil, discardLogger())

	_, err := svc.CreateTeam(context.Background(), 9, models.TeamInput{Name: "Grün"})
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = svc.CreateTeam(context.Background(), 1, models.TeamInput{Name: ""})
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Zero(t, remote.total())
}

func TestUpdateTeam(t *testing.T) {
	s := seededStore()
	remote := newFakeRemote()
	svc := NewTeamService(remote, s, nil, discardLogger())

	team, err := svc.UpdateTeam(context.Background(), 10, models.TeamUpdate{Name: "Rot-Weiß"})
	require.NoError(t, err)
	assert.Equal(t, "Rot-Weiß", team.Name)
	assert.Equal(t, []int{100, 101}, team.Players)
}

func TestUpdateTeam_DanglingGameFailsWithoutNetwork(t *testing.T) {
	e := store.NewEntities()
	e.Teams[10] = models.Team{ID: 10, Name: "Rot", GameID: 42}
	s := store.NewEntityStore()
	s.ReplaceAll(e)

	remote := newFakeRemote()
	svc := NewTeamService(remote, s, nil, discardLogger())

	_, err := svc.UpdateTeam(context.Background(), 10, models.TeamUpdate{Name: "Blau"})
	assert.ErrorIs(t, err, ErrGameNotFound)

	_, err = svc.UpdateTeam(context.Background(), 77, models.TeamUpdate{Name: "Blau"})
	assert.ErrorIs(t, err, ErrTeamNotFound)

	assert.ErrorIs(t, svc.DeleteTeam(context.Background(), 10), ErrGameNotFound)
	assert.Zero(t, remote.total())
}

func TestDeleteTeam_KeepsGraphConsistent(t *testing.T) {
	s := seededStore()
	remote := newFakeRemote()
	svc := NewTeamService(remote, s, nil, discardLogger())

	require.NoError(t, svc.DeleteTeam(context.Background(), 11))

	game, _ := s.Game(1)
	assert.Equal(t, []int{10}, game.Teams)
	_, ok := s.Team(11)
	assert.False(t, ok)
	for _, id := range []int{102, 103} {
		_, ok := s.Player(id)
		assert.False(t, ok, "player %d must be removed with its team", id)
	}
	_, ok = s.Player(100)
	assert.True(t, ok)
}

func TestDeleteTeam_RemoteFailureKeepsTeam(t *testing.T) {
	s := seededStore()
	remote := newFakeRemote()
	remote.deleteTeam = func(context.Context, int) error { return errBackendDown }
	svc := NewTeamService(remote, s, nil, discardLogger())

	assert.ErrorIs(t, svc.DeleteTeam(context.Background(), 11), ErrRemoteFailure)
	game, _ := s.Game(1)
	assert.Equal(t, []int{10, 11}, game.Teams)
}
