package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/Garsondee/Field-Command/internal/game"
)

const queryTimeout = 5 * time.Second

// PostgresStore keeps save records as bytea rows.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore accepts an existing DB handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres connects with a connection string (e.g. os.Getenv("DATABASE_URL"))
// and makes sure the saves table exists.
func OpenPostgres(ctx context.Context, connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	s := NewPostgresStore(db)
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the saves table if it is missing.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS saves (
			name       TEXT PRIMARY KEY,
			record_id  TEXT NOT NULL,
			tick       INTEGER NOT NULL,
			data       BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("create saves table: %w", err)
	}
	return nil
}

// Close releases the DB handle.
func (p *PostgresStore) Close() error { return p.db.Close() }

// Save upserts a record.
func (p *PostgresStore) Save(ctx context.Context, name string, s game.Snapshot) error {
	if err := checkName(name); err != nil {
		return err
	}
	b, err := Encode(s)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO saves (name, record_id, tick, data)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE
		SET record_id = EXCLUDED.record_id,
		    tick = EXCLUDED.tick,
		    data = EXCLUDED.data,
		    updated_at = now()
	`, name, s.ID, s.Tick, b)
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

// Load reads a record.
func (p *PostgresStore) Load(ctx context.Context, name string) (game.Snapshot, error) {
	if err := checkName(name); err != nil {
		return game.Snapshot{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var b []byte
	err := p.db.QueryRowContext(ctx, `SELECT data FROM saves WHERE name = $1`, name).Scan(&b)
	if errors.Is(err, sql.ErrNoRows) {
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
func (p *PostgresStore) List(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	rows, err := p.db.QueryContext(ctx, `SELECT name FROM saves ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("list saves: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// Delete removes a record.
func (p *PostgresStore) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	res, err := p.db.ExecContext(ctx, `DELETE FROM saves WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, name)
	}
	return nil
}
