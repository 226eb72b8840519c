package storage

import (
	"context"
	"fmt"

	"github.com/agenthands/storyweave/internal/config"
)

// OpenGames returns the game document backend selected by cfg.Backend.
func OpenGames(ctx context.Context, cfg config.StorageConfig) (Backend, error) {
	switch cfg.Backend {
	case config.BackendFS:
		fs, err := NewFS(cfg.GamesDir, ".json")
		if err != nil {
			return nil, err
		}
		return fs, nil
	case config.BackendRedis:
		r, err := NewRedisFromURL(ctx, cfg.RedisURL, DefaultRedisPrefix)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}
