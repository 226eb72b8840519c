package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/agenthands/storyweave/internal/storage"
	"go.uber.org/zap"
)

const (
	StatusHealthy = "healthy"
	StatusCaution = "caution"
	StatusWarning = "warning"
	StatusError   = "error"

	manyGamesThreshold = 1000
)

type RecentActivity struct {
	Last24h int `json:"last_24h"`
	Last7d  int `json:"last_7d"`
	Last30d int `json:"last_30d"`
}

type GamesStats struct {
	TotalCount        int             `json:"total_count"`
	TotalSize         string          `json:"total_size"`
	TotalSizeBytes    int64           `json:"total_size_bytes"`
	AverageSize       string          `json:"average_size,omitempty"`
	AverageSizeBytes  float64         `json:"average_size_bytes"`
	LargestSize       string          `json:"largest_size,omitempty"`
	LargestSizeBytes  int64           `json:"largest_size_bytes"`
	SmallestSize      string          `json:"smallest_size,omitempty"`
	SmallestSizeBytes int64           `json:"smallest_size_bytes"`
	RecentActivity    *RecentActivity `json:"recent_activity,omitempty"`
}

type ImagesStats struct {
	TotalCount     int    `json:"total_count"`
	TotalSize      string `json:"total_size"`
	TotalSizeBytes int64  `json:"total_size_bytes"`
}

type StoragePaths struct {
	GamesDirectory  string `json:"games_directory"`
	ImagesDirectory string `json:"images_directory"`
}

type DiskStats struct {
	Total        string  `json:"total"`
	Used         string  `json:"used"`
	Free         string  `json:"free"`
	TotalBytes   uint64  `json:"total_bytes"`
	UsedBytes    uint64  `json:"used_bytes"`
	FreeBytes    uint64  `json:"free_bytes"`
	UsagePercent float64 `json:"usage_percent"`
}

type Report struct {
	Status       string        `json:"status"`
	Timestamp    time.Time     `json:"timestamp"`
	Games        GamesStats    `json:"games"`
	Images       ImagesStats   `json:"images"`
	StoragePaths *StoragePaths `json:"storage_paths,omitempty"`
	Disk         *DiskStats    `json:"disk,omitempty"`
	Warnings     []string      `json:"warnings,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// Reporter scans the game and image stores for size, age and disk usage.
// Every scan is read-only except Cleanup.
type Reporter struct {
	games  storage.Backend
	images storage.Backend
	logger *zap.Logger
	now    func() time.Time
}

func NewReporter(games, images storage.Backend, logger *zap.Logger) *Reporter {
	return &Reporter{
		games:  games,
		images: images,
		logger: logger.Named("monitor"),
		now:    time.Now,
	}
}

// gameMeta is the part of a saved game the reporter reads.
type gameMeta struct {
	CreatedAt string  `json:"createdAt"`
	Title     *string `json:"title"`
}

func (r *Reporter) readMeta(ctx context.Context, key string) (gameMeta, time.Time, error) {
	var meta gameMeta
	data, err := r.games.Get(ctx, key)
	if err != nil {
		return meta, time.Time{}, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, time.Time{}, err
	}
	if meta.CreatedAt == "" {
		return meta, time.Time{}, errors.New("missing createdAt")
	}
	created, err := parseTimestamp(meta.CreatedAt)
	return meta, created, err
}

// Health never fails; a scan error is reported as status "error".
func (r *Reporter) Health(ctx context.Context) Report {
	now := r.now()
	report, err := r.scan(ctx, now)
	if err != nil {
		r.logger.Error("storage scan failed", zap.Error(err))
		return Report{
			Status:    StatusError,
			Timestamp: now,
			Error:     err.Error(),
			Games:     GamesStats{TotalSize: "0 B"},
			Images:    ImagesStats{TotalSize: "0 B"},
		}
	}
	return report
}

func (r *Reporter) scan(ctx context.Context, now time.Time) (Report, error) {
	gameEntries, err := r.games.List(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list games: %w", err)
	}

	games := GamesStats{RecentActivity: &RecentActivity{}}
	games.TotalCount = len(gameEntries)
	smallest := int64(math.MaxInt64)
	for _, e := range gameEntries {
		games.TotalSizeBytes += e.Size
		games.LargestSizeBytes = max(games.LargestSizeBytes, e.Size)
		smallest = min(smallest, e.Size)

		_, created, err := r.readMeta(ctx, e.Key)
		if err != nil {
			r.logger.Debug("skipping game in activity scan", zap.String("key", e.Key), zap.Error(err))
			continue
		}
		age := now.Sub(created)
		if age <= 24*time.Hour {
			games.RecentActivity.Last24h++
		}
		if age <= 7*24*time.Hour {
			games.RecentActivity.Last7d++
		}
		if age <= 30*24*time.Hour {
			games.RecentActivity.Last30d++
		}
	}

	games.TotalSize = FormatBytes(float64(games.TotalSizeBytes))
	if games.TotalCount > 0 {
		games.AverageSizeBytes = round2(float64(games.TotalSizeBytes) / float64(games.TotalCount))
		games.SmallestSizeBytes = smallest
		games.LargestSize = FormatBytes(float64(games.LargestSizeBytes))
		games.SmallestSize = FormatBytes(float64(smallest))
	} else {
		games.LargestSize = "0 B"
		games.SmallestSize = "0 B"
	}
	games.AverageSize = FormatBytes(games.AverageSizeBytes)

	images := ImagesStats{}
	imageEntries, err := r.images.List(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list images: %w", err)
	}
	for _, e := range imageEntries {
		images.TotalCount++
		images.TotalSizeBytes += e.Size
	}
	images.TotalSize = FormatBytes(float64(images.TotalSizeBytes))

	report := Report{
		Status:    StatusHealthy,
		Timestamp: now,
		Games:     games,
		Images:    images,
		StoragePaths: &StoragePaths{
			GamesDirectory:  r.games.Location(),
			ImagesDirectory: r.images.Location(),
		},
	}

	if usage, ok := r.diskUsage(); ok && usage.Total > 0 {
		percent := float64(usage.Used) / float64(usage.Total) * 100
		report.Disk = &DiskStats{
			Total:        FormatBytes(float64(usage.Total)),
			Used:         FormatBytes(float64(usage.Used)),
			Free:         FormatBytes(float64(usage.Free)),
			TotalBytes:   usage.Total,
			UsedBytes:    usage.Used,
			FreeBytes:    usage.Free,
			UsagePercent: round2(percent),
		}
		report.Status, report.Warnings = classifyDisk(percent)
	}

	if games.TotalCount > manyGamesThreshold {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%d game files stored; consider running a cleanup.", games.TotalCount))
	}
	return report, nil
}

func classifyDisk(percent float64) (string, []string) {
	switch {
	case percent > 90:
		return StatusWarning, []string{"Disk usage is above 90%!"}
	case percent > 80:
		return StatusCaution, []string{"Disk usage is above 80%."}
	default:
		return StatusHealthy, nil
	}
}

// diskUsage prefers the filesystem holding the games, falling back to the
// images directory when games live elsewhere (e.g. in Redis).
func (r *Reporter) diskUsage() (storage.DiskUsage, bool) {
	for _, b := range []storage.Backend{r.games, r.images} {
		dr, ok := b.(storage.DiskReporter)
		if !ok {
			continue
		}
		usage, err := dr.DiskUsage()
		if err != nil {
			r.logger.Debug("disk usage unavailable", zap.Error(err))
			continue
		}
		return usage, true
	}
	return storage.DiskUsage{}, false
}
