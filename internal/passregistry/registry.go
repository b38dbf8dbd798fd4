package passregistry

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/specialistvlad/passorder/internal/pass"
)

// Registry holds the passes of a single plugin, or of a whole build once
// plugin registries have been merged.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]pass.ID
	passes []pass.Pass
}

// New creates and initializes an empty Registry.
func New() *Registry {
	return &Registry{
		byName: make(map[string]pass.ID),
	}
}

// Register stores the pass and returns its declaration index. The ID field of
// the argument is ignored and overwritten.
func (r *Registry) Register(p pass.Pass) (pass.ID, error) {
	name := strings.TrimSpace(p.QualifiedName)
	if name == "" {
		return 0, fmt.Errorf("passregistry: qualified name is required (plugin %s)", p.Plugin)
	}
	p.QualifiedName = name

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byName[name]; ok {
		return 0, &DuplicateNameError{
			Kind:   "pass",
			Name:   name,
			Owners: []string{r.passes[existing].Plugin, p.Plugin},
		}
	}

	p.ID = pass.ID(len(r.passes))
	r.passes = append(r.passes, p)
	r.byName[name] = p.ID
	return p.ID, nil
}

// Lookup returns the pass registered under the qualified name.
func (r *Registry) Lookup(qualifiedName string) (pass.Pass, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[qualifiedName]
	if !ok {
		return pass.Pass{}, false
	}
	return r.passes[id], true
}

// Passes returns a snapshot of every pass in declaration order.
func (r *Registry) Passes() []pass.Pass {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pass.Pass, len(r.passes))
	copy(out, r.passes)
	return out
}

// Len returns the number of registered passes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.passes)
}

// Merge registers every pass of other, in other's declaration order. All
// conflicts are reported together; passes that do not conflict are still
// registered.
func (r *Registry) Merge(other *Registry) error {
	var errs []error
	for _, p := range other.Passes() {
		if _, err := r.Register(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
