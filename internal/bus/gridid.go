package bus

import (
	"sync"

	"nonagonengine/internal/engineerr"
)

// Registry hands out grid ids from the fixed MaxGridIDs pool (§6).
type Registry struct {
	mu   sync.Mutex
	used [MaxGridIDs]bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Allocate returns the lowest free grid id, or ErrGridIDExhausted if the
// pool is full.
func (r *Registry) Allocate() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, inUse := range r.used {
		if !inUse {
			r.used[i] = true
			return i, nil
		}
	}
	return 0, engineerr.ErrGridIDExhausted
}

// Release returns a grid id to the pool.
func (r *Registry) Release(gridID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gridID >= 0 && gridID < MaxGridIDs {
		r.used[gridID] = false
	}
}
