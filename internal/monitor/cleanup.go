package monitor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type CleanupFile struct {
	File      string    `json:"file"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
	Title     string    `json:"title"`
}

type CleanupResult struct {
	Status         string        `json:"status"`
	DryRun         bool          `json:"dry_run"`
	CutoffDate     time.Time     `json:"cutoff_date"`
	DaysOld        int           `json:"days_old"`
	FilesFound     int           `json:"files_found"`
	FilesDeleted   int           `json:"files_deleted"`
	SpaceWouldFree string        `json:"space_would_free"`
	SpaceFreed     string        `json:"space_freed"`
	Files          []CleanupFile `json:"files"`
}

// Cleanup finds games created before now minus daysOld and deletes them
// unless dryRun is set. Files listed are the candidates on a dry run and the
// ones actually removed otherwise.
func (r *Reporter) Cleanup(ctx context.Context, daysOld int, dryRun bool) (*CleanupResult, error) {
	if daysOld < 0 {
		return nil, fmt.Errorf("days_old must not be negative, got %d", daysOld)
	}
	cutoff := r.now().Add(-time.Duration(daysOld) * 24 * time.Hour)

	entries, err := r.games.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	candidates := []CleanupFile{}
	var wouldFree int64
	for _, e := range entries {
		meta, created, err := r.readMeta(ctx, e.Key)
		if err != nil {
			r.logger.Debug("skipping game in cleanup scan", zap.String("key", e.Key), zap.Error(err))
			continue
		}
		if !created.Before(cutoff) {
			continue
		}
		title := "Unknown"
		if meta.Title != nil {
			title = *meta.Title
		}
		candidates = append(candidates, CleanupFile{
			File:      e.Key + ".json",
			ID:        e.Key,
			CreatedAt: created,
			SizeBytes: e.Size,
			Title:     title,
		})
		wouldFree += e.Size
	}

	deleted := []CleanupFile{}
	var freed int64
	if !dryRun {
		for _, f := range candidates {
			if err := r.games.Delete(ctx, f.ID); err != nil {
				r.logger.Warn("failed to delete game", zap.String("game_id", f.ID), zap.Error(err))
				continue
			}
			deleted = append(deleted, f)
			freed += f.SizeBytes
		}
		r.logger.Info("cleanup finished",
			zap.Int("days_old", daysOld),
			zap.Int("found", len(candidates)),
			zap.Int("deleted", len(deleted)),
			zap.Int64("bytes_freed", freed))
	}

	files := deleted
	if dryRun {
		files = candidates
	}
	return &CleanupResult{
		Status:         "success",
		DryRun:         dryRun,
		CutoffDate:     cutoff,
		DaysOld:        daysOld,
		FilesFound:     len(candidates),
		FilesDeleted:   len(deleted),
		SpaceWouldFree: FormatBytes(float64(wouldFree)),
		SpaceFreed:     FormatBytes(float64(freed)),
		Files:          files,
	}, nil
}
