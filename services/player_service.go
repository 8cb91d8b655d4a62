package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/knobel-manager/models"
	"github.com/Dosada05/knobel-manager/store"
)

type PlayerService interface {
	UpdatePlayer(ctx context.Context, playerID int, update models.PlayerUpdate) (models.Player, error)
	DeletePlayer(ctx context.Context, playerID int) error
}

type playerService struct {
	remote   RemoteAPI
	store    *store.EntityStore
	notifier Notifier
	logger   *slog.Logger
}

func NewPlayerService(remote RemoteAPI, s *store.EntityStore, notifier Notifier, logger *slog.Logger) PlayerService {
	return &playerService{
		remote:   remote,
		store:    s,
		notifier: notifierOrNoop(notifier),
		logger:   logger,
	}
}

func (s *playerService) UpdatePlayer(ctx context.Context, playerID int, update models.PlayerUpdate) (models.Player, error) {
	name, err := requireName("player name", update.Name)
	if err != nil {
		return models.Player{}, err
	}
	_, team, err := s.resolvePlayer(playerID)
	if err != nil {
		return models.Player{}, err
	}

	pp, err := s.remote.UpdatePlayer(detach(ctx), playerID, models.PlayerUpdate{Name: name})
	if err != nil {
		return models.Player{}, fmt.Errorf("failed to update player %d: %w", playerID, err)
	}
	if pp.ID == 0 {
		return models.Player{}, fmt.Errorf("%w: player %d", ErrEmptyResponse, playerID)
	}

	if err := s.store.PatchPlayer(playerID, pp.Name); err != nil {
		return models.Player{}, translateStoreError(err)
	}
	s.notifier.Publish(models.ChangeEvent{Type: models.ChangePlayerUpdated, GameID: team.GameID, EntityID: playerID})

	updated, _ := s.store.Player(playerID)
	return updated, nil
}

// DeletePlayer removes the player and unlinks it from its team.
func (s *playerService) DeletePlayer(ctx context.Context, playerID int) error {
	_, team, err := s.resolvePlayer(playerID)
	if err != nil {
		return err
	}

	if err := s.remote.DeletePlayer(detach(ctx), playerID); err != nil {
		return fmt.Errorf("failed to delete player %d: %w", playerID, err)
	}
	s.store.RemovePlayer(playerID)
	s.logger.InfoContext(ctx, "Player deleted", slog.Int("team_id", team.ID), slog.Int("player_id", playerID))
	s.notifier.Publish(models.ChangeEvent{Type: models.ChangePlayerDeleted, GameID: team.GameID, EntityID: playerID})
	return nil
}

// resolvePlayer follows player → team → game in the store.
func (s *playerService) resolvePlayer(playerID int) (models.Player, models.Team, error) {
	player, ok := s.store.Player(playerID)
	if !ok {
		return models.Player{}, models.Team{}, fmt.Errorf("%w: id %d", ErrPlayerNotFound, playerID)
	}
	team, ok := s.store.Team(player.TeamID)
	if !ok {
		return models.Player{}, models.Team{}, fmt.Errorf("%w: team %d of player %d", ErrTeamNotFound, player.TeamID, playerID)
	}
	if _, ok := s.store.Game(team.GameID); !ok {
		return models.Player{}, models.Team{}, fmt.Errorf("%w: game %d of team %d", ErrGameNotFound, team.GameID, team.ID)
	}
	return player, team, nil
}
