package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/Dosada05/knobel-manager/apiclient"
	"github.com/Dosada05/knobel-manager/auth"
	"github.com/Dosada05/knobel-manager/config"
	"github.com/Dosada05/knobel-manager/db"
	"github.com/Dosada05/knobel-manager/handlers"
	"github.com/Dosada05/knobel-manager/realtime"
	"github.com/Dosada05/knobel-manager/repositories"
	api "github.com/Dosada05/knobel-manager/routes"
	"github.com/Dosada05/knobel-manager/selectors"
	"github.com/Dosada05/knobel-manager/services"
	"github.com/Dosada05/knobel-manager/storage"
	"github.com/Dosada05/knobel-manager/store"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("api_url", cfg.APIURL), slog.String("state_backend", cfg.StateBackend))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Хранилище активной игры
	prefs, closePrefs, err := openPreferences(ctx, cfg)
	if err != nil {
		logger.Error("failed to open state backend", slog.String("backend", cfg.StateBackend), slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := closePrefs(); err != nil {
			logger.Error("failed to close state backend", slog.Any("error", err))
		}
	}()
	logger.Info("state backend ready", slog.String("backend", cfg.StateBackend))

	// Выгрузка отчётов в Cloudflare R2 (необязательно)
	var uploader storage.FileUploader
	r2Config := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if r2Config.Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, r2Config)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("report export disabled: R2 is not configured")
	}

	// Клиент удалённого API: токен запроса, затем файл, затем статический токен
	credentials := auth.Chain{auth.ContextProvider{}}
	if cfg.APITokenFile != "" {
		credentials = append(credentials, auth.NewFileProvider(cfg.APITokenFile))
	}
	credentials = append(credentials, auth.StaticProvider(cfg.APIToken))

	remote, err := apiclient.New(cfg.APIURL, cfg.APITimeout, credentials, logger)
	if err != nil {
		logger.Error("failed to create remote api client", slog.Any("error", err))
		os.Exit(1)
	}

	// Инициализация WebSocket Hub
	wsHub := realtime.NewHub(logger)
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	// Хранилище сущностей и сервисы
	entityStore := store.NewEntityStore()
	sel := selectors.New(entityStore)

	gameService := services.NewGameService(remote, entityStore, wsHub, logger)
	teamService := services.NewTeamService(remote, entityStore, wsHub, logger)
	playerService := services.NewPlayerService(remote, entityStore, wsHub, logger)
	scoreService := services.NewScoreService(remote, entityStore, wsHub, logger)
	reportService := services.NewReportService(sel, scoreService, uploader, logger)
	activeGameService := services.NewActiveGameService(prefs, entityStore, logger)
	logger.Info("Services initialized")

	// Первичная загрузка игр; без неё сервер всё равно стартует
	if err := gameService.Refresh(ctx); err != nil {
		logger.Warn("initial game refresh failed, starting with an empty store", slog.Any("error", err))
	}

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Game:       handlers.NewGameHandler(gameService, sel),
		Team:       handlers.NewTeamHandler(teamService, sel),
		Player:     handlers.NewPlayerHandler(playerService),
		Score:      handlers.NewScoreHandler(scoreService, sel),
		Report:     handlers.NewReportHandler(reportService),
		ActiveGame: handlers.NewActiveGameHandler(activeGameService),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, sel, cfg.CORSAllowedOrigins, logger),
		Debug:      handlers.NewDebugHandler(entityStore),
	}, cfg.CORSAllowedOrigins, logger)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
		ErrorLog:    slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}

// openPreferences builds the configured active game backend and returns its
// close func.
func openPreferences(ctx context.Context, cfg *config.Config) (repositories.PreferenceRepository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StateBackend {
	case config.BackendMemory:
		return repositories.NewMemoryPreferenceRepository(), noop, nil

	case config.BackendSQLite:
		conn, err := repositories.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		repo, err := repositories.NewSQLitePreferenceRepository(ctx, conn)
		return withDB(repo, conn, err)

	case config.BackendPostgres:
		conn, err := db.Connect(ctx, cfg.DatabaseURL, 5*time.Second)
		if err != nil {
			return nil, nil, err
		}
		repo, err := repositories.NewPostgresPreferenceRepository(ctx, conn)
		return withDB(repo, conn, err)

	case config.BackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return repositories.NewRedisPreferenceRepository(client), client.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
}

func withDB(repo repositories.PreferenceRepository, conn *sql.DB, err error) (repositories.PreferenceRepository, func() error, error) {
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return repo, conn.Close, nil
}
