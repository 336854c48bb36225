// Package kv persists small named values for the viewer's local state.
package kv

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("key not found")

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

const (
	sqliteFile = "pokedex.db"
	jsonFile   = "favorites.json"
)

// Store reads and writes raw values by key.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}

// Open returns the backend named by kind rooted at dir.
func Open(kind, dir string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", BackendSQLite:
		return NewSQLiteStore(filepath.Join(dir, sqliteFile))
	case BackendJSON:
		return NewFileStore(filepath.Join(dir, jsonFile)), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}
