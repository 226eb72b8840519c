package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agenthands/storyweave/internal/config"
	"github.com/agenthands/storyweave/internal/driver"
	"github.com/agenthands/storyweave/internal/games"
	"github.com/agenthands/storyweave/internal/images"
	"github.com/agenthands/storyweave/internal/llm"
	"github.com/agenthands/storyweave/internal/logger"
	"github.com/agenthands/storyweave/internal/monitor"
	"github.com/agenthands/storyweave/internal/server"
	"github.com/agenthands/storyweave/internal/storage"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(logger.Config{Level: cfg.Log.Level, Encoding: cfg.Log.Encoding})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()
	zap.ReplaceGlobals(zlog)

	ctx := context.Background()

	registry, err := llm.NewRegistry(ctx, cfg.LLM, llm.NewMetrics(prometheus.DefaultRegisterer), zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize LLM providers", zap.Error(err))
	}
	defer registry.Close()
	if !registry.Configured(llm.ProviderClaude) && !registry.Configured(llm.ProviderGemini) {
		zlog.Warn("No LLM API keys configured; story generation will fail")
	}

	gameBackend, err := storage.OpenGames(ctx, cfg.Storage)
	if err != nil {
		zlog.Fatal("Failed to open game storage", zap.Error(err))
	}
	imageStore, err := images.NewStore(cfg.Storage.UploadsDir, cfg.Storage.MaxUploadBytes, zlog)
	if err != nil {
		zlog.Fatal("Failed to open image storage", zap.Error(err))
	}

	var projector games.Projector
	if cfg.Memgraph.URI != "" {
		d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, zlog)
		if err != nil {
			zlog.Warn("Memgraph unavailable, graph projection disabled", zap.Error(err))
		} else {
			defer d.Close(context.Background())
			if err := d.BuildIndices(ctx); err != nil {
				zlog.Warn("Failed to build Memgraph indices", zap.Error(err))
			}
			projector = driver.NewGameProjector(d)
		}
	}

	gameService := games.NewService(games.NewStore(gameBackend, zlog), cfg.Server.PublicBaseURL, projector, zlog)
	reporter := monitor.NewReporter(gameBackend, imageStore.Files(), zlog)

	var scheduler *monitor.Scheduler
	if cfg.Cleanup.Schedule != "" {
		scheduler, err = monitor.NewScheduler(reporter, cfg.Cleanup.Schedule, cfg.Cleanup.DaysOld, zlog)
		if err != nil {
			zlog.Fatal("Failed to schedule cleanup", zap.Error(err))
		}
		scheduler.Start()
	}

	srv := server.NewServer(server.Deps{
		Config:   cfg,
		LLM:      registry,
		Games:    gameService,
		Images:   imageStore,
		Reporter: reporter,
		Logger:   zlog,
	})

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv.SetupRouter(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLM.Timeout() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zlog.Info("Starting HTTP server",
			zap.String("addr", cfg.Addr()),
			zap.String("storage_backend", cfg.Storage.Backend),
			zap.Strings("allowed_origins", cfg.Server.AllowedOrigins))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("HTTP server listen error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zlog.Error("HTTP server forced to shutdown", zap.Error(err))
	}
	if closer, ok := gameBackend.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			zlog.Warn("Failed to close game storage", zap.Error(err))
		}
	}

	zlog.Info("Server exiting")
}
