package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/agenthands/storyweave/internal/storage"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidImage  = errors.New("invalid image")
	ErrImageNotFound = errors.New("image not found")
)

const (
	DefaultMaxBytes = 5 << 20
	PublicPrefix    = "/uploads/"
)

type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Result struct {
	ImageURL string `json:"imageUrl"`
	Filename string `json:"filename"`
}

// Store saves uploads under random names in a directory that is also
// served statically.
type Store struct {
	files    *storage.FS
	maxBytes int64
	logger   *zap.Logger
}

func NewStore(dir string, maxBytes int64, logger *zap.Logger) (*Store, error) {
	files, err := storage.NewFS(dir, "")
	if err != nil {
		return nil, err
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Store{files: files, maxBytes: maxBytes, logger: logger.Named("images")}, nil
}

func (s *Store) Dir() string {
	return s.files.Location()
}

// Files exposes the underlying directory store for reporting.
func (s *Store) Files() *storage.FS {
	return s.files
}

func (s *Store) Upload(ctx context.Context, up Upload) (*Result, error) {
	if up.Size > s.maxBytes {
		return nil, fmt.Errorf("%w: file size %d exceeds limit of %d bytes", ErrInvalidImage, up.Size, s.maxBytes)
	}

	// Read one byte past the limit so a lying Size is still caught.
	data, err := io.ReadAll(io.LimitReader(up.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: file exceeds limit of %d bytes", ErrInvalidImage, s.maxBytes)
	}

	contentType := declaredType(up.ContentType)
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: content type %q is not an image", ErrInvalidImage, contentType)
	}

	name := uuid.New().String() + "." + extension(up.Filename)
	if err := s.files.Put(ctx, name, data); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	s.logger.Info("image uploaded",
		zap.String("filename", name),
		zap.String("content_type", contentType),
		zap.Int("bytes", len(data)))
	return &Result{ImageURL: PublicPrefix + name, Filename: name}, nil
}

// declaredType returns the media type without parameters, or "" when the
// client gave nothing useful.
func declaredType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "application/octet-stream" {
		return ""
	}
	return ct
}

func extension(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" || strings.ContainsAny(ext, `/\`) {
		return "jpg"
	}
	return ext
}

func (s *Store) Delete(ctx context.Context, filename string) error {
	if filename == "" || filename != filepath.Base(filename) || strings.ContainsAny(filename, `/\`) {
		return ErrImageNotFound
	}
	err := s.files.Delete(ctx, filename)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrImageNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	s.logger.Info("image deleted", zap.String("filename", filename))
	return nil
}
