package services

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/knobel-manager/models"
	"github.com/Dosada05/knobel-manager/selectors"
	"github.com/Dosada05/knobel-manager/storage"
)

const prefetchConcurrency = 4

type ExportResult struct {
	Kind models.ReportKind `json:"kind"`
	Key  string            `json:"key"`
	URL  string            `json:"url"`
	ETag string            `json:"etag,omitempty"`
}

// ReportService builds the fully resolved data the PDF renderer consumes.
type ReportService interface {
	TablePlan(ctx context.Context, gameID int) (models.TablePlanReport, error)
	Rankings(ctx context.Context, gameID int, roundNumber *int) (models.RankingsReport, error)
	Export(ctx context.Context, gameID int, kind models.ReportKind, roundNumber *int) (ExportResult, error)
}

type reportService struct {
	selectors *selectors.Selectors
	scores    ScoreService
	uploader  storage.FileUploader // nil disables Export
	logger    *slog.Logger

	mu       sync.Mutex
	exported map[string]string
}

func NewReportService(sel *selectors.Selectors, scores ScoreService, uploader storage.FileUploader, logger *slog.Logger) ReportService {
	return &reportService{
		selectors: sel,
		scores:    scores,
		uploader:  uploader,
		logger:    logger,
		exported:  make(map[string]string),
	}
}

func (s *reportService) TablePlan(ctx context.Context, gameID int) (models.TablePlanReport, error) {
	game, ok := s.selectors.GameByID(gameID)
	if !ok {
		return models.TablePlanReport{}, fmt.Errorf("%w: id %d", ErrGameNotFound, gameID)
	}

	report := models.TablePlanReport{
		GameName:       game.Name,
		NumberOfRounds: game.NumberOfRounds,
		Tables:         []models.TableView{},
		PlayersByID:    make(map[int]models.Player),
		TeamsByID:      make(map[int]models.Team),
	}
	for _, team := range s.selectors.AllTeamsOfGame(gameID) {
		report.TeamsByID[team.ID] = team
		for _, p := range s.selectors.AllPlayersOfTeam(team.ID) {
			report.PlayersByID[p.ID] = p
		}
	}
	for round := 1; round <= game.NumberOfRounds; round++ {
		report.Tables = append(report.Tables, s.selectors.TablesOfRound(gameID, round)...)
	}

	for _, t := range report.Tables {
		for _, playerID := range t.Players {
			p, ok := report.PlayersByID[playerID]
			if !ok {
				return models.TablePlanReport{}, fmt.Errorf("%w: player %d at table %d of round %d", ErrUnresolvedReference, playerID, t.TableNumber, t.RoundNumber)
			}
			if _, ok := report.TeamsByID[p.TeamID]; !ok {
				return models.TablePlanReport{}, fmt.Errorf("%w: team %d of player %d", ErrUnresolvedReference, p.TeamID, playerID)
			}
		}
	}
	return report, nil
}

// Rankings fetches the round data first. The prefetch is best effort: a round
// that cannot be loaded is logged and left out instead of failing the report.
func (s *reportService) Rankings(ctx context.Context, gameID int, roundNumber *int) (models.RankingsReport, error) {
	game, ok := s.selectors.GameByID(gameID)
	if !ok {
		return models.RankingsReport{}, fmt.Errorf("%w: id %d", ErrGameNotFound, gameID)
	}
	if roundNumber != nil && (*roundNumber < 1 || *roundNumber > game.NumberOfRounds) {
		return models.RankingsReport{}, fmt.Errorf("%w: round %d of game %d", ErrRoundNotFound, *roundNumber, gameID)
	}

	s.prefetchRounds(ctx, game, roundNumber)

	rankings, ok := s.selectors.RankingsForGame(gameID, roundNumber)
	if !ok {
		// игра удалена во время загрузки раундов
		return models.RankingsReport{}, fmt.Errorf("%w: id %d", ErrGameNotFound, gameID)
	}
	return models.RankingsReport{
		GameName:       game.Name,
		TeamRankings:   rankings.TeamRankings,
		PlayerRankings: rankings.PlayerRankings,
		RoundNumber:    rankings.RoundNumber,
	}, nil
}

func (s *reportService) prefetchRounds(ctx context.Context, game models.Game, only *int) {
	var rounds []int
	if only != nil {
		rounds = []int{*only}
	} else {
		for r := 1; r <= game.NumberOfRounds; r++ {
			rounds = append(rounds, r)
		}
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchConcurrency)
	for _, round := range rounds {
		round := round
		g.Go(func() error {
			if err := s.scores.LoadRoundTables(gCtx, game.ID, round); err != nil {
				s.logger.WarnContext(ctx, "Skipping round in rankings report",
					slog.Int("game_id", game.ID), slog.Int("round", round), slog.Any("error", err))
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Export renders the report as JSON and stores it under a content-addressed key,
// so the renderer can cache by key. The previous export of the same report is
// removed once the new one is stored.
func (s *reportService) Export(ctx context.Context, gameID int, kind models.ReportKind, roundNumber *int) (ExportResult, error) {
	if s.uploader == nil {
		return ExportResult{}, ErrExportDisabled
	}

	var report interface{}
	var err error
	switch kind {
	case models.ReportTablePlan:
		report, err = s.TablePlan(ctx, gameID)
	case models.ReportRankings:
		report, err = s.Rankings(ctx, gameID, roundNumber)
	default:
		return ExportResult{}, fmt.Errorf("%w: unknown report kind %q", ErrValidationFailed, kind)
	}
	if err != nil {
		return ExportResult{}, err
	}

	body, err := json.Marshal(report)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to encode %s report: %w", kind, err)
	}
	sum := blake2b.Sum256(body)
	key := fmt.Sprintf("reports/game-%d/%s-%s.json", gameID, kind, hex.EncodeToString(sum[:12]))

	res, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to store %s report of game %d: %w", kind, gameID, err)
	}

	slot := exportSlot(gameID, kind, roundNumber)
	s.mu.Lock()
	previous := s.exported[slot]
	s.exported[slot] = key
	s.mu.Unlock()
	if previous != "" && previous != key {
		if err := s.uploader.Delete(ctx, previous); err != nil {
			s.logger.WarnContext(ctx, "Failed to delete outdated report", slog.String("key", previous), slog.Any("error", err))
		}
	}

	s.logger.InfoContext(ctx, "Report exported", slog.Int("game_id", gameID), slog.String("kind", string(kind)), slog.String("key", key))
	return ExportResult{Kind: kind, Key: res.Key, URL: res.Location, ETag: res.ETag}, nil
}

func exportSlot(gameID int, kind models.ReportKind, roundNumber *int) string {
	if roundNumber == nil {
		return fmt.Sprintf("%d/%s", gameID, kind)
	}
	return fmt.Sprintf("%d/%s/%d", gameID, kind, *roundNumber)
}
