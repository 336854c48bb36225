// Package favorites owns the user's favorite set and keeps it persisted.
package favorites

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/five82/pokedex/internal/kv"
)

// StorageKey is the single key the whole set is written under.
const StorageKey = "pokemon-favorites"

// ErrEmptyName is returned by ValidateName for blank input.
var ErrEmptyName = errors.New("favorite name required")

// ValidateName returns the normalized name or ErrEmptyName.
func ValidateName(name string) (string, error) {
	if name = normalize(name); name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

// Store is an ordered set of item names without duplicates.
type Store struct {
	mu      sync.RWMutex
	backend kv.Store
	logger  *slog.Logger
	names   []string
	index   map[string]struct{}

	subMu   sync.Mutex
	nextSub int
	subs    map[int]func([]string)
}

// Open hydrates the set from backend. Missing or unreadable data yields an
// empty set; problems are logged rather than returned.
func Open(backend kv.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Store{
		backend: backend,
		logger:  logger,
		index:   map[string]struct{}{},
		subs:    map[int]func([]string){},
	}
	if backend == nil {
		return s
	}

	raw, err := backend.Get(StorageKey)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		return s
	case err != nil:
		logger.Warn("favorites read failed", "key", StorageKey, "error", err)
		return s
	}

	var stored []string
	if err := json.Unmarshal(raw, &stored); err != nil {
		logger.Warn("favorites data unreadable, starting empty", "key", StorageKey, "error", err)
		return s
	}
	for _, name := range stored {
		name = normalize(name)
		if name == "" {
			continue
		}
		if _, dup := s.index[name]; dup {
			continue
		}
		s.index[name] = struct{}{}
		s.names = append(s.names, name)
	}
	logger.Debug("favorites loaded", "count", len(s.names))
	return s
}

// Toggle flips membership of name and returns whether it is now a favorite.
func (s *Store) Toggle(name string) bool {
	name = normalize(name)
	if name == "" {
		return false
	}
	s.mu.Lock()
	_, present := s.index[name]
	if present {
		s.removeLocked(name)
	} else {
		s.addLocked(name)
	}
	snapshot := s.persistLocked()
	s.mu.Unlock()

	s.publish(snapshot)
	return !present
}

// Add inserts name if it is not already present.
func (s *Store) Add(name string) {
	name = normalize(name)
	if name == "" {
		return
	}
	s.mu.Lock()
	if _, present := s.index[name]; present {
		s.mu.Unlock()
		return
	}
	s.addLocked(name)
	snapshot := s.persistLocked()
	s.mu.Unlock()

	s.publish(snapshot)
}

// Remove deletes name if it is present.
func (s *Store) Remove(name string) {
	name = normalize(name)
	s.mu.Lock()
	if _, present := s.index[name]; !present {
		s.mu.Unlock()
		return
	}
	s.removeLocked(name)
	snapshot := s.persistLocked()
	s.mu.Unlock()

	s.publish(snapshot)
}

// IsFavorite reports membership.
func (s *Store) IsFavorite(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[normalize(name)]
	return ok
}

// List returns a copy of the set in insertion order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.names)
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.names)
}

// Subscribe registers fn to receive the set after every change. The returned
// func removes the subscription.
func (s *Store) Subscribe(fn func([]string)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) addLocked(name string) {
	s.index[name] = struct{}{}
	s.names = append(s.names, name)
}

func (s *Store) removeLocked(name string) {
	delete(s.index, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
}

// persistLocked writes the whole set and returns a copy for subscribers.
// The in-memory set stays authoritative when the write fails.
func (s *Store) persistLocked() []string {
	snapshot := clone(s.names)
	if s.backend == nil {
		return snapshot
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Error("favorites encode failed", "error", err)
		return snapshot
	}
	if err := s.backend.Set(StorageKey, data); err != nil {
		s.logger.Error("favorites persist failed", "key", StorageKey, "count", len(snapshot), "error", err)
	}
	return snapshot
}

func (s *Store) publish(snapshot []string) {
	s.subMu.Lock()
	fns := make([]func([]string), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(clone(snapshot))
	}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func clone(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}
