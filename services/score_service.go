package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/Dosada05/knobel-manager/models"
	"github.com/Dosada05/knobel-manager/store"
)

type ScoreService interface {
	LoadRoundTables(ctx context.Context, gameID, roundNumber int) error
	UpdateScores(ctx context.Context, gameID, roundNumber, tableNumber int, scores []models.ScoreInput) (models.Table, error)
}

type tableKey struct {
	gameID      int
	roundNumber int
	tableNumber int
}

type scoreService struct {
	remote   RemoteAPI
	store    *store.EntityStore
	notifier Notifier
	logger   *slog.Logger
	inFlight *keyedSemaphore[tableKey]
}

func NewScoreService(remote RemoteAPI, s *store.EntityStore, notifier Notifier, logger *slog.Logger) ScoreService {
	return &scoreService{
		remote:   remote,
		store:    s,
		notifier: notifierOrNoop(notifier),
		logger:   logger,
		inFlight: newKeyedSemaphore[tableKey](),
	}
}

// LoadRoundTables fetches the tables of one round and swaps them into the store.
func (s *scoreService) LoadRoundTables(ctx context.Context, gameID, roundNumber int) error {
	if _, ok := s.store.Game(gameID); !ok {
		return fmt.Errorf("%w: id %d", ErrGameNotFound, gameID)
	}
	if err := requirePositive("roundNumber", roundNumber); err != nil {
		return err
	}

	rp, err := s.remote.GetRound(detach(ctx), gameID, roundNumber)
	if err != nil {
		return fmt.Errorf("failed to get round %d of game %d: %w", roundNumber, gameID, err)
	}
	if rp.ID == 0 {
		return fmt.Errorf("%w: round %d of game %d", ErrEmptyResponse, roundNumber, gameID)
	}
	if rp.RoundNumber == 0 {
		rp.RoundNumber = roundNumber
	}

	if err := s.store.ReplaceRound(gameID, store.NormalizeRound(gameID, rp)); err != nil {
		return translateStoreError(err)
	}
	s.notifier.Publish(models.ChangeEvent{Type: models.ChangeTablesLoaded, GameID: gameID, RoundNumber: roundNumber})
	return nil
}

// UpdateScores writes the scores of one table optimistically: the store shows the
// new values, marked provisional, while the request is in flight, and returns to
// the exact previous state if it fails. Writes to the same table are serialized;
// a later write starts from the settled result of the earlier one.
func (s *scoreService) UpdateScores(ctx context.Context, gameID, roundNumber, tableNumber int, scores []models.ScoreInput) (models.Table, error) {
	if err := validateScores(scores); err != nil {
		return models.Table{}, err
	}
	table, err := s.resolveTable(gameID, roundNumber, tableNumber)
	if err != nil {
		return models.Table{}, err
	}
	if err := checkSeated(table, scores); err != nil {
		return models.Table{}, err
	}

	key := tableKey{gameID: gameID, roundNumber: roundNumber, tableNumber: tableNumber}
	release, err := s.inFlight.Acquire(ctx, key)
	if err != nil {
		return models.Table{}, err
	}
	defer release()

	// the table may have been replaced while waiting for the previous write
	table, err = s.resolveTable(gameID, roundNumber, tableNumber)
	if err != nil {
		return models.Table{}, err
	}
	if err := checkSeated(table, scores); err != nil {
		return models.Table{}, err
	}

	txID := uuid.NewString()
	log := s.logger.With(
		slog.String("tx_id", txID),
		slog.Int("game_id", gameID),
		slog.Int("round", roundNumber),
		slog.Int("table", tableNumber),
	)

	_, err = runOptimistic(detach(ctx), optimisticTx[store.TableSnapshot, models.TablePayload]{
		snapshot: func() (store.TableSnapshot, error) {
			snap, err := s.store.SnapshotTable(table.ID)
			return snap, translateStoreError(err)
		},
		apply: func() error {
			if err := s.store.ApplyProvisionalScores(table.ID, scores); err != nil {
				return translateStoreError(err)
			}
			s.notifier.Publish(models.ChangeEvent{Type: models.ChangeScoresPending, GameID: gameID, EntityID: table.ID, RoundNumber: roundNumber, TableNumber: tableNumber})
			return nil
		},
		send: func(ctx context.Context) (models.TablePayload, error) {
			return s.remote.UpdateScores(ctx, gameID, roundNumber, tableNumber, scores)
		},
		confirm: func(tp models.TablePayload) error {
			if tp.ID == 0 || (len(scores) > 0 && len(tp.Scores) == 0) {
				return fmt.Errorf("%w: scores of table %d", ErrEmptyResponse, tableNumber)
			}
			confirmed := make([]models.Score, 0, len(tp.Scores))
			for _, sp := range tp.Scores {
				if !slices.Contains(table.Players, sp.PlayerID) {
					log.WarnContext(ctx, "Server returned a score for a player not seated at the table", slog.Int("player_id", sp.PlayerID))
					continue
				}
				confirmed = append(confirmed, models.Score{ID: sp.ID, PlayerID: sp.PlayerID, TableID: table.ID, Score: sp.Score})
			}
			return translateStoreError(s.store.ConfirmTableScores(table.ID, confirmed))
		},
		restore: func(snap store.TableSnapshot) {
			s.store.RestoreTable(snap)
			log.WarnContext(ctx, "Score update rolled back")
			s.notifier.Publish(models.ChangeEvent{Type: models.ChangeScoresReverted, GameID: gameID, EntityID: table.ID, RoundNumber: roundNumber, TableNumber: tableNumber})
		},
	})
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to update scores of table %d in round %d: %w", tableNumber, roundNumber, err)
	}

	log.InfoContext(ctx, "Scores updated", slog.Int("entries", len(scores)))
	s.notifier.Publish(models.ChangeEvent{Type: models.ChangeScoresUpdated, GameID: gameID, EntityID: table.ID, RoundNumber: roundNumber, TableNumber: tableNumber})

	updated, _ := s.store.Table(table.ID)
	return updated, nil
}

func (s *scoreService) resolveTable(gameID, roundNumber, tableNumber int) (models.Table, error) {
	if _, ok := s.store.Game(gameID); !ok {
		return models.Table{}, fmt.Errorf("%w: id %d", ErrGameNotFound, gameID)
	}
	if _, ok := s.store.FindRound(gameID, roundNumber); !ok {
		return models.Table{}, fmt.Errorf("%w: round %d of game %d", ErrRoundNotFound, roundNumber, gameID)
	}
	table, ok := s.store.FindTable(gameID, roundNumber, tableNumber)
	if !ok {
		return models.Table{}, fmt.Errorf("%w: table %d in round %d of game %d", ErrTableNotFound, tableNumber, roundNumber, gameID)
	}
	return table, nil
}

// checkSeated rejects scores of players who do not sit at the table.
func checkSeated(table models.Table, scores []models.ScoreInput) error {
	for _, sc := range scores {
		if !slices.Contains(table.Players, sc.PlayerID) {
			return fmt.Errorf("%w: player %d is not seated at table %d", ErrValidationFailed, sc.PlayerID, table.TableNumber)
		}
	}
	return nil
}

func validateScores(scores []models.ScoreInput) error {
	seen := make(map[int]struct{}, len(scores))
	for _, sc := range scores {
		if sc.PlayerID <= 0 {
			return fmt.Errorf("%w: playerID must be positive", ErrValidationFailed)
		}
		if sc.Score < 0 {
			return fmt.Errorf("%w: score of player %d must not be negative", ErrValidationFailed, sc.PlayerID)
		}
		if _, dup := seen[sc.PlayerID]; dup {
			return fmt.Errorf("%w: player %d listed twice", ErrValidationFailed, sc.PlayerID)
		}
		seen[sc.PlayerID] = struct{}{}
	}
	return nil
}
