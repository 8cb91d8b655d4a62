package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/knobel-manager/docs" // регистрирует swagger-спецификацию
	"github.com/Dosada05/knobel-manager/handlers"
	"github.com/Dosada05/knobel-manager/middleware"
)

const requestTimeout = 60 * time.Second

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Game       *handlers.GameHandler
	Team       *handlers.TeamHandler
	Player     *handlers.PlayerHandler
	Score      *handlers.ScoreHandler
	Report     *handlers.ReportHandler
	ActiveGame *handlers.ActiveGameHandler
	WebSocket  *handlers.WebSocketHandler
	Debug      *handlers.DebugHandler
}

func SetupRoutes(router chi.Router, h Handlers, allowedOrigins []string, logger *slog.Logger) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// WebSocket-соединения живут дольше любого таймаута запроса
	router.Route("/ws/games", func(r chi.Router) {
		r.Get("/", h.WebSocket.ServeLobby)
		r.Get("/{gameID}", h.WebSocket.ServeGame)
	})

	router.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(requestTimeout))
		r.Use(middleware.Authenticate(logger))

		r.Route("/games", func(r chi.Router) {
			r.Get("/", h.Game.ListGames)
			r.Post("/", h.Game.CreateGame)
			r.Post("/sync", h.Game.SyncGames)

			r.Route("/{gameID}", func(r chi.Router) {
				r.Get("/", h.Game.GetGameByID)
				r.Patch("/", h.Game.UpdateGame)
				r.Delete("/", h.Game.DeleteGame)
				r.Post("/setup", h.Game.SetupGame)
				r.Get("/rankings", h.Game.GetRankings)

				r.Get("/teams", h.Team.ListTeamsOfGame)
				r.Post("/teams", h.Team.CreateTeam)

				r.Get("/rounds/{roundNumber}/tables", h.Score.ListTablesOfRound)
				r.Put("/rounds/{roundNumber}/tables/{tableNumber}/scores", h.Score.UpdateScores)

				r.Get("/reports/table-plan", h.Report.GetTablePlan)
				r.Get("/reports/rankings", h.Report.GetRankings)
				r.Post("/reports/{kind}/export", h.Report.ExportReport)
			})
		})

		r.Route("/teams/{teamID}", func(r chi.Router) {
			r.Patch("/", h.Team.UpdateTeam)
			r.Delete("/", h.Team.DeleteTeam)
			r.Get("/players", h.Team.ListPlayersOfTeam)
		})

		r.Route("/players/{playerID}", func(r chi.Router) {
			r.Patch("/", h.Player.UpdatePlayer)
			r.Delete("/", h.Player.DeletePlayer)
		})

		r.Route("/active-game", func(r chi.Router) {
			r.Get("/", h.ActiveGame.GetActiveGame)
			r.Put("/", h.ActiveGame.SetActiveGame)
			r.Delete("/", h.ActiveGame.ClearActiveGame)
		})

		r.Get("/debug/store", h.Debug.DumpStore)
	})
}
