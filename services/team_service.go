package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/knobel-manager/models"
	"github.com/Dosada05/knobel-manager/store"
)

type TeamService interface {
	CreateTeam(ctx context.Context, gameID int, input models.TeamInput) (models.Team, error)
	UpdateTeam(ctx context.Context, teamID int, update models.TeamUpdate) (models.Team, error)
	DeleteTeam(ctx context.Context, teamID int) error
}

type teamService struct {
	remote   RemoteAPI
	store    *store.EntityStore
	notifier Notifier
	logger   *slog.Logger
}

func NewTeamService(remote RemoteAPI, s *store.EntityStore, notifier Notifier, logger *slog.Logger) TeamService {
	return &teamService{
		remote:   remote,
		store:    s,
		notifier: notifierOrNoop(notifier),
		logger:   logger,
	}
}

// CreateTeam creates the team with its initial players and links it to the game.
func (s *teamService) CreateTeam(ctx context.Context, gameID int, input models.TeamInput) (models.Team, error) {
	name, err := requireName("team name", input.Name)
	if err != nil {
		return models.Team{}, err
	}
	players := make([]string, 0, len(input.Players))
	for _, p := range input.Players {
		if p = strings.TrimSpace(p); p != "" {
			players = append(players, p)
		}
	}
	if _, ok := s.store.Game(gameID); !ok {
		return models.Team{}, fmt.Errorf("%w: id %d", ErrGameNotFound, gameID)
	}

	tp, err := s.remote.CreateTeam(detach(ctx), gameID, models.TeamInput{Name: name, Players: players})
	if err != nil {
		return models.Team{}, fmt.Errorf("failed to create team in game %d: %w", gameID, err)
	}
	if tp.ID == 0 {
		return models.Team{}, fmt.Errorf("%w: created team has no id", ErrEmptyResponse)
	}

	team, newPlayers := store.NormalizeTeam(gameID, tp)
	if err := s.store.AddTeam(team, newPlayers); err != nil {
		// игра могла быть удалена, пока запрос был в пути
		return models.Team{}, translateStoreError(err)
	}
	s.logger.InfoContext(ctx, "Team created", slog.Int("game_id", gameID), slog.Int("team_id", team.ID), slog.Int("players", len(newPlayers)))
	s.notifier.Publish(models.ChangeEvent{Type: models.ChangeTeamUpdated, GameID: gameID, EntityID: team.ID})

	created, _ := s.store.Team(team.ID)
	return created, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, teamID int, update models.TeamUpdate) (models.Team, error) {
	name, err := requireName("team name", update.Name)
	if err != nil {
		return models.Team{}, err
	}
	team, err := s.resolveTeam(teamID)
	if err != nil {
		return models.Team{}, err
	}

	tp, err := s.remote.UpdateTeam(detach(ctx), teamID, models.TeamUpdate{Name: name})
	if err != nil {
		return models.Team{}, fmt.Errorf("failed to update team %d: %w", teamID, err)
	}
	if tp.ID == 0 {
		return models.Team{}, fmt.Errorf("%w: team %d", ErrEmptyResponse, teamID)
	}

	if err := s.store.PatchTeam(teamID, tp.Name); err != nil {
		return models.Team{}, translateStoreError(err)
	}
	s.notifier.Publish(models.ChangeEvent{Type: models.ChangeTeamUpdated, GameID: team.GameID, EntityID: teamID})

	updated, _ := s.store.Team(teamID)
	return updated, nil
}

// DeleteTeam removes the team, unlinks it from its game and drops its players.
func (s *teamService) DeleteTeam(ctx context.Context, teamID int) error {
	team, err := s.resolveTeam(teamID)
	if err != nil {
		return err
	}

	if err := s.remote.DeleteTeam(detach(ctx), teamID); err != nil {
		return fmt.Errorf("failed to delete team %d: %w", teamID, err)
	}
	s.store.RemoveTeam(teamID)
	s.logger.InfoContext(ctx, "Team deleted", slog.Int("game_id", team.GameID), slog.Int("team_id", teamID))
	s.notifier.Publish(models.ChangeEvent{Type: models.ChangeTeamDeleted, GameID: team.GameID, EntityID: teamID})
	return nil
}

// resolveTeam follows team → game in the store. A dangling link is reported
// before any request goes out.
func (s *teamService) resolveTeam(teamID int) (models.Team, error) {
	team, ok := s.store.Team(teamID)
	if !ok {
		return models.Team{}, fmt.Errorf("%w: id %d", ErrTeamNotFound, teamID)
	}
	if _, ok := s.store.Game(team.GameID); !ok {
		return models.Team{}, fmt.Errorf("%w: game %d of team %d", ErrGameNotFound, team.GameID, teamID)
	}
	return team, nil
}
