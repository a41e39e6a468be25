package bookmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists the bookmarked identifier list under one durable, versioned
// key. Implementations are best-effort: the Manager degrades to in-memory
// operation when a store fails.
type Store interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, ids []string) error
	Clear(ctx context.Context) error
}

// FileStore keeps the serialized id array in a local JSON file. This is the
// default backend, standing in for the browser's local storage.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(_ context.Context) ([]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read bookmarks: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		// Corrupt stored value counts as "no bookmarks yet".
		return nil, nil
	}
	return ids, nil
}

func (s *FileStore) Save(_ context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal bookmarks: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create bookmark dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write bookmarks: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(_ context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove bookmarks: %w", err)
	}
	return nil
}
