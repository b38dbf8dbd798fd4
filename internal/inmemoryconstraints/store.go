package inmemoryconstraints

import (
	"context"
	"sync"

	"github.com/specialistvlad/passorder/internal/constraint"
	"github.com/specialistvlad/passorder/internal/ctxlog"
)

// Store implements constraint.Store with a slice guarded by a mutex.
type Store struct {
	mu          sync.RWMutex
	constraints []constraint.Constraint
}

// New creates a new, empty in-memory constraint store.
func New() constraint.Store {
	return &Store{}
}

// Add appends the constraint.
func (s *Store) Add(ctx context.Context, c constraint.Constraint) error {
	s.mu.Lock()
	s.constraints = append(s.constraints, c)
	s.mu.Unlock()

	ctxlog.FromContext(ctx).Debug("Constraint added.", "first", c.First, "second", c.Second, "kind", c.Kind.String())
	return nil
}

// All returns a copy of the stored constraints in insertion order.
func (s *Store) All(ctx context.Context) []constraint.Constraint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]constraint.Constraint, len(s.constraints))
	copy(out, s.constraints)
	return out
}

// Len returns the number of stored constraints.
func (s *Store) Len(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.constraints)
}
