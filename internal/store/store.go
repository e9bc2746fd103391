// Package store persists entity manager snapshots as named save records.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Garsondee/Field-Command/internal/game"
)

var (
	// ErrRecordNotFound is returned when no save record has the given name.
	ErrRecordNotFound = errors.New("save record not found")
	// ErrCorruptRecord is returned when a stored record cannot be decoded.
	ErrCorruptRecord = errors.New("corrupt save record")
	// ErrInvalidName is returned for empty names or names with path elements.
	ErrInvalidName = errors.New("invalid save record name")
)

// Store saves and loads snapshots by slot name.
type Store interface {
	Save(ctx context.Context, name string, s game.Snapshot) error
	Load(ctx context.Context, name string) (game.Snapshot, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}

// Encode renders a snapshot in the record wire format.
func Encode(s game.Snapshot) ([]byte, error) {
	b, err := msgpack.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// Decode parses a record. Undecodable data and records of another kind are
// ErrCorruptRecord.
func Decode(b []byte) (game.Snapshot, error) {
	var s game.Snapshot
	if err := msgpack.Unmarshal(b, &s); err != nil {
		return game.Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if s.Record != game.SnapshotRecordName {
		return game.Snapshot{}, fmt.Errorf("%w: record %q", ErrCorruptRecord, s.Record)
	}
	return s, nil
}

func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Open picks the backend for a command line: Postgres when dsn is set,
// otherwise a file store rooted at dir. The returned close func is never nil.
func Open(ctx context.Context, dsn, dir string) (Store, func() error, error) {
	if dsn != "" {
		pg, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		return pg, pg.Close, nil
	}
	fs, err := NewFileStore(dir)
	if err != nil {
		return nil, nil, err
	}
	return fs, func() error { return nil }, nil
}
