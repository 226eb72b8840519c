// Command storagectl reports on and prunes saved games without running the
// HTTP server.
//
//	storagectl report
//	storagectl cleanup -days 30 -dry-run=false
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/agenthands/storyweave/internal/config"
	"github.com/agenthands/storyweave/internal/images"
	"github.com/agenthands/storyweave/internal/logger"
	"github.com/agenthands/storyweave/internal/monitor"
	"github.com/agenthands/storyweave/internal/storage"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s report | cleanup [-days N] [-dry-run=true|false]\n", os.Args[0])
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// Keep stdout for the JSON result.
	zlog, err := logger.New(logger.Config{Level: cfg.Log.Level, Encoding: "console", OutputPath: "stderr"})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()
	gameBackend, err := storage.OpenGames(ctx, cfg.Storage)
	if err != nil {
		zlog.Fatal("Failed to open game storage", zap.Error(err))
	}
	imageStore, err := images.NewStore(cfg.Storage.UploadsDir, cfg.Storage.MaxUploadBytes, zlog)
	if err != nil {
		zlog.Fatal("Failed to open image storage", zap.Error(err))
	}
	reporter := monitor.NewReporter(gameBackend, imageStore.Files(), zlog)

	var out any
	switch os.Args[1] {
	case "report":
		out = reporter.Health(ctx)
	case "cleanup":
		fs := flag.NewFlagSet("cleanup", flag.ExitOnError)
		days := fs.Int("days", cfg.Cleanup.DaysOld, "delete games created more than this many days ago")
		dryRun := fs.Bool("dry-run", true, "list matching games without deleting them")
		_ = fs.Parse(os.Args[2:])

		res, err := reporter.Cleanup(ctx, *days, *dryRun)
		if err != nil {
			zlog.Fatal("Cleanup failed", zap.Error(err))
		}
		out = res
	default:
		usage()
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		zlog.Fatal("Failed to write result", zap.Error(err))
	}
}
