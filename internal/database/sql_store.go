package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLStore keeps blobs in the kv_store table of a sqlite or postgres database
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore wraps an already migrated connection
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(key string) ([]byte, error) {
	var value string
	err := s.db.Get(&value, s.db.Rebind("SELECT value FROM kv_store WHERE name = ?"), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *SQLStore) Set(key string, value []byte) error {
	query := s.db.Rebind(`
		INSERT INTO kv_store (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`)
	if _, err := s.db.Exec(query, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Remove(key string) error {
	if _, err := s.db.Exec(s.db.Rebind("DELETE FROM kv_store WHERE name = ?"), key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}
