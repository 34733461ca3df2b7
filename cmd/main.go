// cmd/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"github.com/rs/cors"

	"go_5_study_keep/internal/config"
	"go_5_study_keep/internal/handlers"
	"go_5_study_keep/internal/middleware"
	"go_5_study_keep/internal/repository"
	"go_5_study_keep/internal/service"
	"go_5_study_keep/internal/store"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"gorm.io/gorm"
)

func main() {
	//　設定ファイル読み込み用の一時的なロガー設定
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)
	log.Println("Log Config Loading...")

	if err := config.LoadConfig("../configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// === 設定に基づいて slog ロガーを初期化 ===
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(config.Cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", config.Cfg.Log.Level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		tintOpts := &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		}
		handler = tint.NewHandler(os.Stderr, tintOpts)
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}
		handler = slog.NewJSONHandler(os.Stderr, jsonOpts)
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	slog.Info("Application starting...")

	// 2. ストレージの初期化
	// ローカルDBはゲストスコープとオフラインキューの置き場。無いと動けない。
	localDB, err := repository.NewLocalDB(config.Cfg.Database.LocalPath, logger)
	if err != nil {
		slog.Error("Error initializing local database", slog.Any("error", err))
		os.Exit(1)
	}

	// リモートDBは繋がらなくても起動する。認証済みスコープの書き込みは
	// 接続が戻るまでオフラインキューに積まれる。
	var remoteDB *gorm.DB
	if config.Cfg.Database.RemoteURL != "" {
		remoteDB, err = repository.NewRemoteDB(config.Cfg.Database.RemoteURL, logger)
		if err != nil {
			slog.Warn("Remote database unavailable, starting in offline mode", slog.Any("error", err))
			remoteDB = nil
		}
	} else {
		slog.Warn("Remote database URL not configured, starting in offline mode")
	}

	// 3. Dependency Injection
	masteryRepo := repository.NewGormMasteryRepository()
	historyRepo := repository.NewGormHistoryRepository()
	scoreRepo := repository.NewGormScoreRepository()
	queueRepo := repository.NewGormQueueRepository()
	markerRepo := repository.NewGormMarkerRepository()

	resolver := store.ContextResolver{}
	provider := store.NewProvider(localDB, remoteDB, resolver, queueRepo, logger)

	var probe service.ConnectivityProbe
	if remoteDB != nil {
		probe = service.NewGormProbe(remoteDB)
	} else {
		probe = unreachableProbe{}
	}

	masteryService := service.NewMasteryService(provider, masteryRepo, logger)
	historyService := service.NewHistoryService(provider, historyRepo, scoreRepo, masteryRepo, logger)
	syncService := service.NewSyncService(provider, probe, queueRepo, masteryRepo, historyRepo, scoreRepo, resolver, logger)
	migrationService := service.NewMigrationService(provider, masteryRepo, historyRepo, scoreRepo, markerRepo, logger)

	masteryHandler := handlers.NewMasteryHandler(masteryService, logger)
	historyHandler := handlers.NewHistoryHandler(historyService, logger)
	syncHandler := handlers.NewSyncHandler(syncService, logger)
	migrationHandler := handlers.NewMigrationHandler(migrationService, logger)

	// 4. Setup Router
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsOptions := cors.Options{
		AllowedOrigins:   config.Cfg.CORS.AllowedOrigins,
		AllowedMethods:   config.Cfg.CORS.AllowedMethods,
		AllowedHeaders:   config.Cfg.CORS.AllowedHeaders,
		ExposedHeaders:   config.Cfg.CORS.ExposedHeaders,
		AllowCredentials: config.Cfg.CORS.AllowCredentials,
		MaxAge:           config.Cfg.CORS.MaxAge,
		Debug:            false,
	}
	corsHandler := cors.New(corsOptions)
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// API Routes
	r.Route("/api/v1", func(r chi.Router) {
		// 全ルートがアイデンティティ(JWTまたはX-Device-ID)を要求する
		r.Use(middleware.IdentityMiddleware(&config.Cfg))

		r.Route("/mastery", func(r chi.Router) {
			r.Post("/outcomes", masteryHandler.SubmitOutcome)
			r.Get("/recommendation", masteryHandler.GetRecommendation)
			r.Post("/session", masteryHandler.StartSession)
			r.Get("/", masteryHandler.ListMastery)
		})

		r.Route("/history", func(r chi.Router) {
			r.Post("/", historyHandler.SaveHistory)
			r.Get("/", historyHandler.GetHistory)
		})

		r.Route("/scores", func(r chi.Router) {
			r.Put("/", historyHandler.SaveScore)
			r.Get("/", historyHandler.GetScores)
		})

		r.Get("/progress", historyHandler.GetProgress)

		r.Route("/sync", func(r chi.Router) {
			r.Post("/drain", syncHandler.Drain)
			r.Get("/status", syncHandler.Status)
		})

		r.Post("/migration", migrationHandler.Migrate)
	})

	// Health Check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		// ローカルDBが生きていれば稼働可能(リモートはオフラインでも良い)
		ctx := r.Context()
		sqlDB, err := localDB.DB()
		if err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not get DB object", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not ping local DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// 5. Start Server
	server := &http.Server{
		Addr:         config.Cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}

// unreachableProbe はリモート接続が無いときの到達性チェックの代役
type unreachableProbe struct{}

func (unreachableProbe) Ping(ctx context.Context) error {
	return errors.New("remote store not connected")
}
