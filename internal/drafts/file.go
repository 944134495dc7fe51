package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
)

type fileRecord struct {
	Values  Snapshot  `json:"values"`
	SavedAt time.Time `json:"saved_at"`
}

// FileStore writes one JSON file per owner and key under a root directory.
// Writes go to a temp file that is renamed into place.
type FileStore struct {
	fs   afero.Fs
	root string
	now  func() time.Time
	mu   sync.Mutex
}

func NewFileStore(fs afero.Fs, root string) *FileStore {
	return &FileStore{fs: fs, root: root, now: time.Now}
}

func (s *FileStore) path(owner, key string) (string, error) {
	for _, part := range []string{owner, key} {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
			return "", fmt.Errorf("invalid draft path component %q", part)
		}
	}
	return filepath.Join(s.root, owner, key+".json"), nil
}

func (s *FileStore) Save(_ context.Context, owner, key string, values Snapshot) error {
	path, err := s.path(owner, key)
	if err != nil {
		return err
	}
	data, err := json.Marshal(fileRecord{Values: clone(values), SavedAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return writeFileAtomic(s.fs, path, data)
}

func (s *FileStore) Load(_ context.Context, owner, key string) (*Draft, error) {
	path, err := s.path(owner, key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	data, err := afero.ReadFile(s.fs, path)
	s.mu.Unlock()
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	if rec.Values == nil {
		rec.Values = Snapshot{}
	}
	return &Draft{Owner: owner, Key: key, Values: rec.Values, SavedAt: rec.SavedAt}, nil
}

func (s *FileStore) Delete(_ context.Context, owner, key string) error {
	path, err := s.path(owner, key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

func writeFileAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(fs, dir, ".draft-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer fs.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	return nil
}
