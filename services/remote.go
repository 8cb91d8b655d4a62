package services

import (
	"context"

	"github.com/Dosada05/knobel-manager/models"
)

// RemoteAPI is the Knobel backend as seen by the services. Every call carries
// the bearer credential of the current session; implementations return errors
// wrapping ErrRemoteFailure or ErrEmptyResponse.
type RemoteAPI interface {
	ListGames(ctx context.Context) (models.GamesPayload, error)
	GetGame(ctx context.Context, gameID int) (models.GamePayload, error)
	CreateGame(ctx context.Context, input models.GameInput) (models.GamePayload, error)
	UpdateGame(ctx context.Context, gameID int, update models.GameUpdate) (models.GamePayload, error)
	DeleteGame(ctx context.Context, gameID int) error

	CreateTeam(ctx context.Context, gameID int, input models.TeamInput) (models.TeamPayload, error)
	UpdateTeam(ctx context.Context, teamID int, update models.TeamUpdate) (models.TeamPayload, error)
	DeleteTeam(ctx context.Context, teamID int) error

	UpdatePlayer(ctx context.Context, playerID int, update models.PlayerUpdate) (models.PlayerPayload, error)
	DeletePlayer(ctx context.Context, playerID int) error

	SetupGame(ctx context.Context, gameID int) error
	GetRound(ctx context.Context, gameID, roundNumber int) (models.RoundPayload, error)
	UpdateScores(ctx context.Context, gameID, roundNumber, tableNumber int, scores []models.ScoreInput) (models.TablePayload, error)
}

// Notifier receives a change event after every store update. Publish must not block.
type Notifier interface {
	Publish(event models.ChangeEvent)
}

type noopNotifier struct{}

func (noopNotifier) Publish(models.ChangeEvent) {}

func notifierOrNoop(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}
