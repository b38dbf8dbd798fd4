package inmemoryconstraints

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/specialistvlad/passorder/internal/constraint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndAll(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, constraint.Constraint{First: "a", Second: "b", Kind: constraint.Mandatory}))
	require.NoError(t, s.Add(ctx, constraint.Constraint{First: "b", Second: "missing", Kind: constraint.Advisory}))

	all := s.All(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].First)
	assert.Equal(t, "missing", all[1].Second, "endpoints are not validated on insert")
	assert.Equal(t, 2, s.Len(ctx))
}

func TestAll_Snapshot(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, constraint.Constraint{First: "a", Second: "b"}))

	all := s.All(ctx)
	all[0].First = "mutated"
	assert.Equal(t, "a", s.All(ctx)[0].First)
}

func TestAdd_Concurrent(t *testing.T) {
	s := New()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Add(ctx, constraint.Constraint{First: fmt.Sprintf("p%d", i), Second: "sink"})
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len(ctx))
}
