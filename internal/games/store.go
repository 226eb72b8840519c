package games

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/agenthands/storyweave/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrInvalidGame  = errors.New("invalid game data")
	ErrIDExhausted  = errors.New("could not allocate a unique game id")
)

const maxIDAttempts = 5

var gameIDPattern = regexp.MustCompile(`^[0-9a-f]{8}$`)

// ValidID reports whether id has the shape of a generated game id.
func ValidID(id string) bool {
	return gameIDPattern.MatchString(id)
}

func newGameID() string {
	return uuid.New().String()[:8]
}

// Store persists games as one JSON document each on a storage.Backend.
type Store struct {
	backend storage.Backend
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

func NewStore(backend storage.Backend, logger *zap.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger.Named("games"),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   newGameID,
	}
}

// Save stores in under a fresh id with server-side timestamps.
func (s *Store) Save(ctx context.Context, in GameInput) (*SavedGame, error) {
	if in.Nodes == nil || in.Edges == nil {
		return nil, fmt.Errorf("%w: nodes and edges are required", ErrInvalidGame)
	}

	id, err := s.allocateID(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	game := &SavedGame{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Nodes:       in.Nodes,
		Edges:       in.Edges,
		GameConfig:  in.GameConfig,
		CreatedAt:   now,
		UpdatedAt:   now,
		Extra:       in.Extra,
	}

	data, err := json.MarshalIndent(game, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode game: %w", err)
	}
	if err := s.backend.Put(ctx, id, data); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	s.logger.Info("game saved",
		zap.String("game_id", id),
		zap.Int("nodes", len(game.Nodes)),
		zap.Int("edges", len(game.Edges)))
	return game, nil
}

func (s *Store) allocateID(ctx context.Context) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		exists, err := s.backend.Exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to check game id: %w", err)
		}
		if !exists {
			return id, nil
		}
		s.logger.Warn("game id collision", zap.String("game_id", id), zap.Int("attempt", i+1))
	}
	return "", ErrIDExhausted
}

func (s *Store) Get(ctx context.Context, id string) (*SavedGame, error) {
	if !ValidID(id) {
		return nil, ErrGameNotFound
	}
	data, err := s.backend.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}

	var game SavedGame
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, fmt.Errorf("failed to decode game %s: %w", id, err)
	}
	return &game, nil
}

// List returns summaries newest first. Documents that cannot be read or
// decoded are skipped.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	entries, err := s.backend.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	summaries := make([]Summary, 0, len(entries))
	for _, e := range entries {
		data, err := s.backend.Get(ctx, e.Key)
		if err != nil {
			s.logger.Debug("skipping unreadable game", zap.String("key", e.Key), zap.Error(err))
			continue
		}
		var game SavedGame
		if err := json.Unmarshal(data, &game); err != nil {
			s.logger.Debug("skipping undecodable game", zap.String("key", e.Key), zap.Error(err))
			continue
		}
		summaries = append(summaries, game.Summary())
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	err := s.backend.Delete(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrGameNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return nil
}
