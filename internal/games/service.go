package games

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Projector mirrors a saved game into a secondary store. Failures never
// fail the save.
type Projector interface {
	ProjectGame(ctx context.Context, game *SavedGame) error
}

type SaveResult struct {
	Game     *SavedGame
	ShareURL string
}

type Service struct {
	store     *Store
	baseURL   string
	projector Projector
	logger    *zap.Logger
}

// NewService wraps store. projector may be nil.
func NewService(store *Store, publicBaseURL string, projector Projector, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		baseURL:   strings.TrimRight(publicBaseURL, "/"),
		projector: projector,
		logger:    logger.Named("games"),
	}
}

func (s *Service) ShareURL(id string) string {
	return s.baseURL + "/play/" + id
}

func (s *Service) Save(ctx context.Context, in GameInput) (*SaveResult, error) {
	game, err := s.store.Save(ctx, in)
	if err != nil {
		return nil, err
	}

	if s.projector != nil {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		if err := s.projector.ProjectGame(pctx, game); err != nil {
			s.logger.Warn("graph projection failed", zap.String("game_id", game.ID), zap.Error(err))
		}
		cancel()
	}

	return &SaveResult{Game: game, ShareURL: s.ShareURL(game.ID)}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*SavedGame, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Summary, error) {
	return s.store.List(ctx)
}
