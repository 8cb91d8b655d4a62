package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Dosada05/knobel-manager/models"
	"github.com/Dosada05/knobel-manager/store"
)

type GameService interface {
	Refresh(ctx context.Context) error
	RefreshGame(ctx context.Context, gameID int) error
	CreateGame(ctx context.Context, input models.GameInput) (models.Game, error)
	UpdateGame(ctx context.Context, gameID int, update models.GameUpdate) (models.Game, error)
	DeleteGame(ctx context.Context, gameID int) error
	SetupGame(ctx context.Context, gameID int) error
}

type gameService struct {
	remote   RemoteAPI
	store    *store.EntityStore
	notifier Notifier
	logger   *slog.Logger
	fetches  singleflight.Group
	order    fetchOrder
}

func NewGameService(remote RemoteAPI, s *store.EntityStore, notifier Notifier, logger *slog.Logger) GameService {
	return &gameService{
		remote:   remote,
		store:    s,
		notifier: notifierOrNoop(notifier),
		logger:   logger,
	}
}

// Refresh replaces the store content with the remote game list. Concurrent
// refreshes share one request.
func (s *gameService) Refresh(ctx context.Context) error {
	_, err, _ := s.fetches.Do("games", func() (interface{}, error) {
		return nil, s.fetchList(ctx)
	})
	return err
}

func (s *gameService) RefreshGame(ctx context.Context, gameID int) error {
	_, err, _ := s.fetches.Do("game:"+strconv.Itoa(gameID), func() (interface{}, error) {
		return nil, s.fetchGame(ctx, gameID)
	})
	return err
}

func (s *gameService) fetchList(ctx context.Context) error {
	seq := s.order.begin()
	payload, err := s.remote.ListGames(detach(ctx))
	if err != nil {
		return fmt.Errorf("failed to list games: %w", err)
	}
	if !s.order.applyList(seq, func() { s.store.ReplaceAll(store.Normalize(payload)) }) {
		s.logger.DebugContext(ctx, "Outdated game list discarded")
		return nil
	}
	s.logger.DebugContext(ctx, "Game list refreshed", slog.Int("games", len(payload.Games)))
	s.notifier.Publish(models.ChangeEvent{Type: models.ChangeGamesRefreshed})
	return nil
}

func (s *gameService) fetchGame(ctx context.Context, gameID int) error {
	seq := s.order.begin()
	gp, err := s.remote.GetGame(detach(ctx), gameID)
	if err != nil {
		return fmt.Errorf("failed to get game %d: %w", gameID, err)
	}
	if gp.ID == 0 {
		return fmt.Errorf("%w: game %d", ErrEmptyResponse, gameID)
	}
	if !s.order.applyGame(gp.ID, seq, func() { s.store.ReplaceGame(store.NormalizeGame(gp)) }) {
		s.logger.DebugContext(ctx, "Outdated game discarded", slog.Int("game_id", gp.ID))
		return nil
	}
	s.notifier.Publish(models.ChangeEvent{Type: models.ChangeGameUpdated, GameID: gp.ID})
	return nil
}

func (s *gameService) CreateGame(ctx context.Context, input models.GameInput) (models.Game, error) {
	name, err := requireName("name", input.Name)
	if err != nil {
		return models.Game{}, err
	}
	input.Name = name
	for field, v := range map[string]int{
		"teamSize":       input.TeamSize,
		"tableSize":      input.TableSize,
		"numberOfRounds": input.NumberOfRounds,
	} {
		if err := requirePositive(field, v); err != nil {
			return models.Game{}, err
		}
	}

	gp, err := s.remote.CreateGame(detach(ctx), input)
	if err != nil {
		return models.Game{}, fmt.Errorf("failed to create game: %w", err)
	}
	if gp.ID == 0 {
		return models.Game{}, fmt.Errorf("%w: created game has no id", ErrEmptyResponse)
	}

	s.order.mutate(func() { s.store.ReplaceGame(store.NormalizeGame(gp)) })
	s.logger.InfoContext(ctx, "Game created", slog.Int("game_id", gp.ID), slog.String("name", gp.Name))
	s.notifier.Publish(models.ChangeEvent{Type: models.ChangeGameUpdated, GameID: gp.ID})

	game, _ := s.store.Game(gp.ID)
	return game, nil
}

func (s *gameService) UpdateGame(ctx context.Context, gameID int, update models.GameUpdate) (models.Game, error) {
	current, ok := s.store.Game(gameID)
	if !ok {
		return models.Game{}, fmt.Errorf("%w: id %d", ErrGameNotFound, gameID)
	}

	if update.Name != nil {
		name, err := requireName("name", *update.Name)
		if err != nil {
			return models.Game{}, err
		}
		update.Name = &name
	}
	for field, v := range map[string]*int{
		"teamSize":       update.TeamSize,
		"tableSize":      update.TableSize,
		"numberOfRounds": update.NumberOfRounds,
	} {
		if v == nil {
			continue
		}
		if err := requirePositive(field, *v); err != nil {
			return models.Game{}, err
		}
	}
	if update.Status != nil {
		if !update.Status.Valid() {
			return models.Game{}, fmt.Errorf("%w: unknown status %q", ErrValidationFailed, *update.Status)
		}
		if !isValidStatusTransition(current.Status, *update.Status) {
			return models.Game{}, fmt.Errorf("%w: from '%s' to '%s'", ErrInvalidStatusTransition, current.Status, *update.Status)
		}
	}

	gp, err := s.remote.UpdateGame(detach(ctx), gameID, update)
	if err != nil {
		return models.Game{}, fmt.Errorf("failed to update game %d: %w", gameID, err)
	}
	if gp.ID == 0 {
		return models.Game{}, fmt.Errorf("%w: game %d", ErrEmptyResponse, gameID)
	}

	s.order.mutate(func() { s.store.PatchGame(gameFromPayload(gp)) })
	s.notifier.Publish(models.ChangeEvent{Type: models.ChangeGameUpdated, GameID: gp.ID})

	game, _ := s.store.Game(gp.ID)
	return game, nil
}

// DeleteGame removes the game remotely and then drops its whole subgraph locally.
func (s *gameService) DeleteGame(ctx context.Context, gameID int) error {
	if err := s.remote.DeleteGame(detach(ctx), gameID); err != nil {
		return fmt.Errorf("failed to delete game %d: %w", gameID, err)
	}
	s.order.mutate(func() { s.store.RemoveGame(gameID) })
	s.logger.InfoContext(ctx, "Game deleted", slog.Int("game_id", gameID))
	s.notifier.Publish(models.ChangeEvent{Type: models.ChangeGameDeleted, GameID: gameID})
	return nil
}

// SetupGame lets the server generate rounds and tables. The change touches an
// unpredictable part of the graph, so both the game and the game list are
// fetched again. The fetches never join a refresh already in flight: that one
// may carry the state from before the setup.
func (s *gameService) SetupGame(ctx context.Context, gameID int) error {
	if _, ok := s.store.Game(gameID); !ok {
		return fmt.Errorf("%w: id %d", ErrGameNotFound, gameID)
	}
	if err := s.remote.SetupGame(detach(ctx), gameID); err != nil {
		return fmt.Errorf("failed to set up game %d: %w", gameID, err)
	}

	g, gCtx := errgroup.WithContext(detach(ctx))
	g.Go(func() error {
		return s.fetchGame(gCtx, gameID)
	})
	g.Go(func() error {
		return s.fetchList(gCtx)
	})
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "Refresh after game setup failed", slog.Int("game_id", gameID), slog.Any("error", err))
		return err
	}
	s.logger.InfoContext(ctx, "Game set up", slog.Int("game_id", gameID))
	return nil
}
