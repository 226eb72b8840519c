package monitor

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs a real (non dry-run) cleanup on a cron schedule. Specs
// take five fields, an optional leading seconds field, or descriptors such
// as "@daily".
type Scheduler struct {
	cron     *cron.Cron
	reporter *Reporter
	daysOld  int
	logger   *zap.Logger
}

func NewScheduler(reporter *Reporter, spec string, daysOld int, logger *zap.Logger) (*Scheduler, error) {
	logger = logger.Named("cleanup")
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(
		cron.WithParser(parser),
		cron.WithLogger(cron.PrintfLogger(zap.NewStdLog(logger))),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	s := &Scheduler{cron: c, reporter: reporter, daysOld: daysOld, logger: logger}
	if _, err := c.AddFunc(spec, func() { s.Run(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid CLEANUP_SCHEDULE %q: %w", spec, err)
	}
	return s, nil
}

// Run performs one sweep immediately.
func (s *Scheduler) Run(ctx context.Context) *CleanupResult {
	res, err := s.reporter.Cleanup(ctx, s.daysOld, false)
	if err != nil {
		s.logger.Error("scheduled cleanup failed", zap.Error(err))
		return nil
	}
	s.logger.Info("scheduled cleanup done",
		zap.Int("files_deleted", res.FilesDeleted),
		zap.String("space_freed", res.SpaceFreed))
	return res
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("cleanup scheduler started", zap.Int("days_old", s.daysOld))
}

// Stop halts the schedule and waits for a running sweep, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
