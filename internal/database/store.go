package database

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Store.Get when nothing is stored under the key
var ErrNotFound = errors.New("key not found")

// Store persists named JSON blobs. It has no logic of its own.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
}

// Backend is a Store that holds resources which must be released
type Backend interface {
	Store
	Close() error
}

// LoadJSON reads the blob stored under key and decodes it into v.
// It returns ErrNotFound when the key is absent.
func LoadJSON(store Store, key string, v any) error {
	data, err := store.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// SaveJSON encodes v and stores it under key in a single write
func SaveJSON(store Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := store.Set(key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
