package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/Dosada05/knobel-manager/models"
	"github.com/Dosada05/knobel-manager/store"
)

// fakeRemote records calls and delegates to the optional hooks. Methods without
// a hook succeed with a minimal response.
type fakeRemote struct {
	mu    sync.Mutex
	calls map[string]int

	listGames    func(ctx context.Context) (models.GamesPayload, error)
	getGame      func(ctx context.Context, gameID int) (models.GamePayload, error)
	createGame   func(ctx context.Context, input models.GameInput) (models.GamePayload, error)
	updateGame   func(ctx context.Context, gameID int, update models.GameUpdate) (models.GamePayload, error)
	deleteGame   func(ctx context.Context, gameID int) error
	createTeam   func(ctx context.Context, gameID int, input models.TeamInput) (models.TeamPayload, error)
	updateTeam   func(ctx context.Context, teamID int, update models.TeamUpdate) (models.TeamPayload, error)
	deleteTeam   func(ctx context.Context, teamID int) error
	updatePlayer func(ctx context.Context, playerID int, update models.PlayerUpdate) (models.PlayerPayload, error)
	deletePlayer func(ctx context.Context, playerID int) error
	setupGame    func(ctx context.Context, gameID int) error
	getRound     func(ctx context.Context, gameID, roundNumber int) (models.RoundPayload, error)
	updateScores func(ctx context.Context, gameID, roundNumber, tableNumber int, scores []models.ScoreInput) (models.TablePayload, error)
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{calls: make(map[string]int)}
}

func (f *fakeRemote) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeRemote) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeRemote) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeRemote) ListGames(ctx context.Context) (models.GamesPayload, error) {
	f.record("ListGames")
	if f.listGames != nil {
		return f.listGames(ctx)
	}
	return models.GamesPayload{}, nil
}

func (f *fakeRemote) GetGame(ctx context.Context, gameID int) (models.GamePayload, error) {
	f.record("GetGame")
	if f.getGame != nil {
		return f.getGame(ctx, gameID)
	}
	return models.GamePayload{ID: gameID}, nil
}

func (f *fakeRemote) CreateGame(ctx context.Context, input models.GameInput) (models.GamePayload, error) {
	f.record("CreateGame")
	if f.createGame != nil {
		return f.createGame(ctx, input)
	}
	return models.GamePayload{ID: 99, Name: input.Name, TeamSize: input.TeamSize, TableSize: input.TableSize,
		NumberOfRounds: input.NumberOfRounds, Status: models.GameStatusSetup}, nil
}

func (f *fakeRemote) UpdateGame(ctx context.Context, gameID int, update models.GameUpdate) (models.GamePayload, error) {
	f.record("UpdateGame")
	if f.updateGame != nil {
		return f.updateGame(ctx, gameID, update)
	}
	gp := models.GamePayload{ID: gameID}
	if update.Name != nil {
		gp.Name = *update.Name
	}
	if update.Status != nil {
		gp.Status = *update.Status
	}
	return gp, nil
}

func (f *fakeRemote) DeleteGame(ctx context.Context, gameID int) error {
	f.record("DeleteGame")
	if f.deleteGame != nil {
		return f.deleteGame(ctx, gameID)
	}
	return nil
}

func (f *fakeRemote) CreateTeam(ctx context.Context, gameID int, input models.TeamInput) (models.TeamPayload, error) {
	f.record("CreateTeam")
	if f.createTeam != nil {
		return f.createTeam(ctx, gameID, input)
	}
	tp := models.TeamPayload{ID: 20, Name: input.Name, GameID: gameID}
	for i, name := range input.Players {
		tp.Players = append(tp.Players, models.PlayerPayload{ID: 200 + i, Name: name, TeamID: 20})
	}
	return tp, nil
}

func (f *fakeRemote) UpdateTeam(ctx context.Context, teamID int, update models.TeamUpdate) (models.TeamPayload, error) {
	f.record("UpdateTeam")
	if f.updateTeam != nil {
		return f.updateTeam(ctx, teamID, update)
	}
	return models.TeamPayload{ID: teamID, Name: update.Name}, nil
}

func (f *fakeRemote) DeleteTeam(ctx context.Context, teamID int) error {
	f.record("DeleteTeam")
	if f.deleteTeam != nil {
		return f.deleteTeam(ctx, teamID)
	}
	return nil
}

func (f *fakeRemote) UpdatePlayer(ctx context.Context, playerID int, update models.PlayerUpdate) (models.PlayerPayload, error) {
	f.record("UpdatePlayer")
	if f.updatePlayer != nil {
		return f.updatePlayer(ctx, playerID, update)
	}
	return models.PlayerPayload{ID: playerID, Name: update.Name}, nil
}

func (f *fakeRemote) DeletePlayer(ctx context.Context, playerID int) error {
	f.record("DeletePlayer")
	if f.deletePlayer != nil {
		return f.deletePlayer(ctx, playerID)
	}
	return nil
}

func (f *fakeRemote) SetupGame(ctx context.Context, gameID int) error {
	f.record("SetupGame")
	if f.setupGame != nil {
		return f.setupGame(ctx, gameID)
	}
	return nil
}

func (f *fakeRemote) GetRound(ctx context.Context, gameID, roundNumber int) (models.RoundPayload, error) {
	f.record("GetRound")
	if f.getRound != nil {
		return f.getRound(ctx, gameID, roundNumber)
	}
	return models.RoundPayload{}, nil
}

func (f *fakeRemote) UpdateScores(ctx context.Context, gameID, roundNumber, tableNumber int, scores []models.ScoreInput) (models.TablePayload, error) {
	f.record("UpdateScores")
	if f.updateScores != nil {
		return f.updateScores(ctx, gameID, roundNumber, tableNumber, scores)
	}
	return models.TablePayload{}, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.ChangeEvent
}

func (n *recordingNotifier) Publish(e models.ChangeEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *recordingNotifier) types() []models.ChangeType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]models.ChangeType, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Type)
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// knobelPayload is one in-progress game with two teams and a scored first round:
// table 1 seats players 100 (score 5) and 102 (score 7).
func knobelPayload() models.GamesPayload {
	return models.GamesPayload{Games: []models.GamePayload{{
		ID: 1, Name: "Pfingsten", TeamSize: 2, TableSize: 2, NumberOfRounds: 2, Status: models.GameStatusInProgress,
		Teams: []models.TeamPayload{
			{ID: 10, Name: "Rot", Players: []models.PlayerPayload{{ID: 100, Name: "Anna"}, {ID: 101, Name: "Bernd"}}},
			{ID: 11, Name: "Blau", Players: []models.PlayerPayload{{ID: 102, Name: "Clara"}, {ID: 103, Name: "Dieter"}}},
		},
		Rounds: []models.RoundPayload{{ID: 5, RoundNumber: 1, Tables: []models.TablePayload{
			{ID: 50, TableNumber: 1, Players: []models.PlayerPayload{{ID: 100}, {ID: 102}},
				Scores: []models.ScorePayload{{ID: 1, PlayerID: 100, Score: 5}, {ID: 2, PlayerID: 102, Score: 7}}},
			{ID: 51, TableNumber: 2, Players: []models.PlayerPayload{{ID: 101}, {ID: 103}}},
		}}},
	}}}
}

func seededStore() *store.EntityStore {
	s := store.NewEntityStore()
	s.ReplaceAll(store.Normalize(knobelPayload()))
	return s
}

// visibleScores resolves a table's scores to player → value.
func visibleScores(s *store.EntityStore, tableID int) (map[int]int, bool) {
	out := make(map[int]int)
	var provisional bool
	s.View(func(r store.Reader) {
		t, ok := r.Table(tableID)
		if !ok {
			return
		}
		provisional = t.Provisional
		for _, id := range t.Scores {
			if sc, ok := r.Score(id); ok {
				out[sc.PlayerID] = sc.Score
			}
		}
	})
	return out, provisional
}
