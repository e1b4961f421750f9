package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore returns a Store backed by the kv table of the given
// SQLite database.
func NewSQLiteStore(db *sql.DB) Store {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) Load(ctx context.Context, key string) (json.RawMessage, error) {
	row := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("could not load %q: %w", key, err)
	}
	return json.RawMessage(value), nil
}

func (s *sqliteStore) Save(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not marshal value for %q: %w", key, err)
	}

	query := "INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value"
	if _, err := s.db.ExecContext(ctx, query, key, string(payload)); err != nil {
		return fmt.Errorf("could not save %q: %w", key, err)
	}
	return nil
}
