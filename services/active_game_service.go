package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Dosada05/knobel-manager/repositories"
	"github.com/Dosada05/knobel-manager/store"
)

const activeGameKey = "activeGameId"

// ActiveGameService persists which game the UI currently works on.
type ActiveGameService interface {
	// Get reports the stored selection. Missing or garbled values mean no
	// active game and are not an error.
	Get(ctx context.Context) (gameID int, ok bool, err error)
	Set(ctx context.Context, gameID int) error
	Clear(ctx context.Context) error
}

type activeGameService struct {
	prefs  repositories.PreferenceRepository
	store  *store.EntityStore
	logger *slog.Logger
}

func NewActiveGameService(prefs repositories.PreferenceRepository, s *store.EntityStore, logger *slog.Logger) ActiveGameService {
	return &activeGameService{prefs: prefs, store: s, logger: logger}
}

func (s *activeGameService) Get(ctx context.Context) (int, bool, error) {
	raw, err := s.prefs.Get(ctx, activeGameKey)
	if err != nil {
		if errors.Is(err, repositories.ErrPreferenceNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read active game: %w", err)
	}
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		s.logger.DebugContext(ctx, "Ignoring non-numeric active game value", slog.String("value", raw))
		return 0, false, nil
	}
	return id, true, nil
}

func (s *activeGameService) Set(ctx context.Context, gameID int) error {
	if _, ok := s.store.Game(gameID); !ok {
		return fmt.Errorf("%w: id %d", ErrGameNotFound, gameID)
	}
	if err := s.prefs.Set(ctx, activeGameKey, strconv.Itoa(gameID)); err != nil {
		return fmt.Errorf("failed to store active game: %w", err)
	}
	return nil
}

func (s *activeGameService) Clear(ctx context.Context) error {
	err := s.prefs.Delete(ctx, activeGameKey)
	if err != nil && !errors.Is(err, repositories.ErrPreferenceNotFound) {
		return fmt.Errorf("failed to clear active game: %w", err)
	}
	return nil
}
