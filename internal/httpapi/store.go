package httpapi

import (
	"slices"
	"sync"

	"github.com/elektrokombinacija/propmap/internal/core"
	"github.com/elektrokombinacija/propmap/internal/vis/project"
)

// Store holds the data set served by the API. It is safe for concurrent
// use; readers get an immutable snapshot.
type Store struct {
	index string

	mu      sync.RWMutex
	markers []core.PropertyMarker
	locator project.Locator
}

// NewStore creates an empty store whose hit-test index is of the given kind.
func NewStore(index string) *Store {
	return &Store{
		index:   index,
		locator: project.NewLocator(index, nil),
	}
}

// Set replaces the data set.
func (s *Store) Set(markers []core.PropertyMarker) {
	markers = slices.Clone(markers)
	loc := project.NewLocator(s.index, markers)

	s.mu.Lock()
	s.markers = markers
	s.locator = loc
	s.mu.Unlock()
}

// Snapshot returns the current data set and its locator.
func (s *Store) Snapshot() ([]core.PropertyMarker, project.Locator) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.markers, s.locator
}
