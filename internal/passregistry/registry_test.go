package passregistry

import (
	"errors"
	"sync"
	"testing"

	"github.com/specialistvlad/passorder/internal/pass"
	"github.com/specialistvlad/passorder/internal/phase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLookup(t *testing.T) {
	r := New()

	id, err := r.Register(pass.Pass{QualifiedName: "a", Plugin: "p", Phase: phase.Transforming})
	require.NoError(t, err)
	assert.Equal(t, pass.ID(0), id)

	id, err = r.Register(pass.Pass{QualifiedName: " b ", Plugin: "p"})
	require.NoError(t, err)
	assert.Equal(t, pass.ID(1), id)

	got, ok := r.Lookup("b")
	require.True(t, ok, "names are trimmed on registration")
	assert.Equal(t, pass.ID(1), got.ID)

	got, ok = r.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, phase.Transforming, got.Phase)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, 2, r.Len())
}

func TestRegister_Duplicate(t *testing.T) {
	r := New()
	_, err := r.Register(pass.Pass{QualifiedName: "a", Plugin: "first"})
	require.NoError(t, err)

	_, err = r.Register(pass.Pass{QualifiedName: "a", Plugin: "second"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateQualifiedName))

	var dup *DuplicateNameError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "a", dup.Name)
	assert.Equal(t, []string{"first", "second"}, dup.Owners)
	assert.Contains(t, err.Error(), "by plugins first and second")
	assert.Equal(t, 1, r.Len(), "a failed registration leaves the registry untouched")
}

func TestRegister_EmptyName(t *testing.T) {
	r := New()
	_, err := r.Register(pass.Pass{QualifiedName: "  ", Plugin: "p"})
	assert.ErrorContains(t, err, "qualified name is required")
}

func TestPasses_DeclarationOrderSnapshot(t *testing.T) {
	r := New()
	for _, name := range []string{"c", "a", "b"} {
		_, err := r.Register(pass.Pass{QualifiedName: name})
		require.NoError(t, err)
	}

	snapshot := r.Passes()
	names := make([]string, 0, len(snapshot))
	for _, p := range snapshot {
		names = append(names, p.QualifiedName)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)

	snapshot[0].QualifiedName = "mutated"
	got, ok := r.Lookup("c")
	require.True(t, ok)
	assert.Equal(t, "c", got.QualifiedName, "snapshots must not alias registry storage")
}

func TestMerge(t *testing.T) {
	left := New()
	_, _ = left.Register(pass.Pass{QualifiedName: "x", Plugin: "L"})

	right := New()
	_, _ = right.Register(pass.Pass{QualifiedName: "y", Plugin: "R"})
	_, _ = right.Register(pass.Pass{QualifiedName: "x", Plugin: "R"})
	_, _ = right.Register(pass.Pass{QualifiedName: "z", Plugin: "R"})

	err := left.Merge(right)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateQualifiedName))

	y, ok := left.Lookup("y")
	require.True(t, ok)
	assert.Equal(t, pass.ID(1), y.ID, "merged passes are re-indexed in the target registry")
	z, ok := left.Lookup("z")
	require.True(t, ok)
	assert.Equal(t, pass.ID(2), z.ID)
}

func TestRegister_Concurrent(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	wg.Add(len(names))
	for _, name := range names {
		go func(name string) {
			defer wg.Done()
			_, err := r.Register(pass.Pass{QualifiedName: name})
			assert.NoError(t, err)
		}(name)
	}
	wg.Wait()

	assert.Equal(t, len(names), r.Len())
	seen := make(map[pass.ID]bool)
	for _, p := range r.Passes() {
		assert.False(t, seen[p.ID], "ids must be unique")
		seen[p.ID] = true
	}
}
