package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FS keeps one file per key in a single directory. With a non-empty ext
// every key maps to key+ext and List ignores other files.
type FS struct {
	dir string
	ext string
}

func NewFS(dir, ext string) (*FS, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir '%s': %w", dir, err)
	}
	return &FS{dir: dir, ext: ext}, nil
}

func (s *FS) Location() string {
	return s.dir
}

// Path returns the file path backing key.
func (s *FS) Path(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, key+s.ext), nil
}

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Put writes through a temp file and rename so readers never see a
// partially written document.
func (s *FS) Put(ctx context.Context, key string, data []byte) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".tmp-"+key+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write '%s': %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close '%s': %w", key, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod '%s': %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to store '%s': %w", key, err)
	}
	return nil
}

func (s *FS) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.Path(key)
	if err != nil {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read '%s': %w", key, err)
	}
	return data, nil
}

func (s *FS) Delete(ctx context.Context, key string) error {
	path, err := s.Path(key)
	if err != nil {
		return ErrNotFound
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete '%s': %w", key, err)
	}
	return nil
}

func (s *FS) Exists(ctx context.Context, key string) (bool, error) {
	path, err := s.Path(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to stat '%s': %w", key, err)
	}
}

// List returns regular files only. Files that vanish mid-scan are skipped.
func (s *FS) List(ctx context.Context) ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list '%s': %w", s.dir, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if !de.Type().IsRegular() || strings.HasPrefix(name, ".tmp-") {
			continue
		}
		if s.ext != "" && !strings.HasSuffix(name, s.ext) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Key:     strings.TrimSuffix(name, s.ext),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return entries, nil
}

func (s *FS) DiskUsage() (DiskUsage, error) {
	return diskUsage(s.dir)
}
