package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Garsondee/Field-Command/internal/game"
)

const recordExt = ".msgpack"

// FileStore keeps one msgpack file per save record in a directory.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(name string) string {
	return filepath.Join(f.dir, name+recordExt)
}

// Save writes the record through a temporary file so a crash never leaves a
// half-written save behind.
func (f *FileStore) Save(_ context.Context, name string, s game.Snapshot) error {
	if err := checkName(name); err != nil {
		return err
	}
	b, err := Encode(s)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), f.path(name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

// Load reads a record.
func (f *FileStore) Load(_ context.Context, name string) (game.Snapshot, error) {
	if err := checkName(name); err != nil {
		return game.Snapshot{}, err
	}
	f.mu.Lock()
	b, err := os.ReadFile(f.path(name))
	f.mu.Unlock()
	if errors.Is(err, os.ErrNotExist) {
		return game.Snapshot{}, fmt.Errorf("%w: %s", ErrRecordNotFound, name)
	}
	if err != nil {
		return game.Snapshot{}, fmt.Errorf("load %s: %w", name, err)
	}
	s, err := Decode(b)
	if err != nil {
		return game.Snapshot{}, fmt.Errorf("load %s: %w", name, err)
	}
	return s, nil
}

// List returns the record names in sorted order.
func (f *FileStore) List(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), recordExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), recordExt))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a record. Deleting a missing record is ErrRecordNotFound.
func (f *FileStore) Delete(_ context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(f.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, name)
	}
	return err
}
