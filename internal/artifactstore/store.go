package artifactstore

import (
	"errors"
	"fmt"
	"sync"

	"github.com/specialistvlad/declc/internal/model"
)

// ID is the arena handle of a stored artifact.
type ID int

// ErrSealed is returned by Add once the store has been sealed.
var ErrSealed = errors.New("artifact store is sealed")

// Store is an append-only arena of artifacts keyed by unit name.
type Store struct {
	mu     sync.RWMutex
	arena  []*model.Artifact
	byName map[string]ID
	sealed bool
}

// New creates an empty, unsealed store.
func New() *Store {
	return &Store{byName: make(map[string]ID)}
}

// Add stores an artifact under its unit name and returns its handle.
func (s *Store) Add(a *model.Artifact) (ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sealed {
		return 0, ErrSealed
	}
	if _, exists := s.byName[a.Unit()]; exists {
		return 0, fmt.Errorf("artifact for unit %q already stored", a.Unit())
	}
	id := ID(len(s.arena))
	s.arena = append(s.arena, a)
	s.byName[a.Unit()] = id
	return id, nil
}

// Seal ends the population phase. It is idempotent.
func (s *Store) Seal() {
	s.mu.Lock()
	s.sealed = true
	s.mu.Unlock()
}

// Sealed reports whether Seal has been called.
func (s *Store) Sealed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sealed
}

// Get returns the artifact with the given handle.
func (s *Store) Get(id ID) (*model.Artifact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id < 0 || int(id) >= len(s.arena) {
		return nil, false
	}
	return s.arena[id], true
}

// Lookup returns the handle and artifact stored for a unit name.
func (s *Store) Lookup(unit string) (ID, *model.Artifact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[unit]
	if !ok {
		return 0, nil, false
	}
	return id, s.arena[id], true
}

// Len returns the number of stored artifacts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.arena)
}

// Units returns the stored unit names in insertion order.
func (s *Store) Units() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, len(s.arena))
	for i, a := range s.arena {
		names[i] = a.Unit()
	}
	return names
}
