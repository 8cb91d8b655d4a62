package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/knobel-manager/models"
	"github.com/Dosada05/knobel-manager/store"
)

// --- Общие хелперы ---

// detach keeps request values but drops cancellation: once a mutation is sent it
// runs to completion and reconciles the store even if the caller went away.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

func isValidStatusTransition(current, next models.GameStatus) bool {
	if current == next {
		return true
	}
	allowedTransitions := map[models.GameStatus][]models.GameStatus{
		models.GameStatusSetup:      {models.GameStatusInProgress, models.GameStatusCompleted},
		models.GameStatusInProgress: {models.GameStatusCompleted},
		models.GameStatusCompleted:  {},
	}
	for _, allowedNextStatus := range allowedTransitions[current] {
		if next == allowedNextStatus {
			return true
		}
	}
	return false
}

func requireName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: %s is required", ErrValidationFailed, field)
	}
	return name, nil
}

func requirePositive(field string, v int) error {
	if v <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %d", ErrValidationFailed, field, v)
	}
	return nil
}

// gameFromPayload keeps the scalar fields of a game response only.
func gameFromPayload(gp models.GamePayload) models.Game {
	g := models.Game{
		ID:             gp.ID,
		Name:           gp.Name,
		TeamSize:       gp.TeamSize,
		TableSize:      gp.TableSize,
		NumberOfRounds: gp.NumberOfRounds,
		Status:         gp.Status,
		Owners:         make([]string, 0, len(gp.Owners)),
	}
	for _, o := range gp.Owners {
		g.Owners = append(g.Owners, o.OwnerSub)
	}
	return g
}

// translateStoreError maps store sentinels onto the service taxonomy.
func translateStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrGameNotFound):
		return fmt.Errorf("%w: %w", ErrGameNotFound, err)
	case errors.Is(err, store.ErrTeamNotFound):
		return fmt.Errorf("%w: %w", ErrTeamNotFound, err)
	case errors.Is(err, store.ErrPlayerNotFound):
		return fmt.Errorf("%w: %w", ErrPlayerNotFound, err)
	case errors.Is(err, store.ErrTableNotFound):
		return fmt.Errorf("%w: %w", ErrTableNotFound, err)
	case errors.Is(err, store.ErrNotSeated):
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	default:
		return err
	}
}
