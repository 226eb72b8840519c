package games

import (
	"context"
	"errors"
	"sync"

	"github.com/agenthands/storyweave/internal/storage"
)

type MockBackend struct {
	mu      sync.Mutex
	Docs    map[string][]byte
	PutErr  error
	ListErr error
}

func NewMockBackend() *MockBackend {
	return &MockBackend{Docs: map[string][]byte{}}
}

func (m *MockBackend) Put(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	m.Docs[key] = append([]byte(nil), data...)
	return nil
}

func (m *MockBackend) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Docs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

func (m *MockBackend) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Docs[key]; !ok {
		return storage.ErrNotFound
	}
	delete(m.Docs, key)
	return nil
}

func (m *MockBackend) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Docs[key]
	return ok, nil
}

func (m *MockBackend) List(ctx context.Context) ([]storage.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []storage.Entry
	for k, v := range m.Docs {
		out = append(out, storage.Entry{Key: k, Size: int64(len(v))})
	}
	return out, nil
}

func (m *MockBackend) Location() string { return "mock" }

type MockProjector struct {
	Projected []string
	Err       error
}

func (m *MockProjector) ProjectGame(ctx context.Context, game *SavedGame) error {
	m.Projected = append(m.Projected, game.ID)
	return m.Err
}

var errBoom = errors.New("boom")
