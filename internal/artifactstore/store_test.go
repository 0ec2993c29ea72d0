package artifactstore

import (
	"fmt"
	"sync"
	"testing"

	"github.com/specialistvlad/declc/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func artifact(unit string) *model.Artifact {
	return model.NewArtifact("pipeline", unit, model.NewStateBuilder().Build())
}

func TestStore_AddAndLookup(t *testing.T) {
	// --- Arrange ---
	s := New()
	a, b := artifact("a.hcl"), artifact("b.hcl")

	// --- Act ---
	idA, errA := s.Add(a)
	idB, errB := s.Add(b)

	// --- Assert ---
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, ID(0), idA)
	assert.Equal(t, ID(1), idB)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"a.hcl", "b.hcl"}, s.Units())

	got, ok := s.Get(idB)
	require.True(t, ok)
	assert.Same(t, b, got)

	id, got, ok := s.Lookup("a.hcl")
	require.True(t, ok)
	assert.Equal(t, idA, id)
	assert.Same(t, a, got)

	_, ok = s.Get(ID(7))
	assert.False(t, ok)
	_, ok = s.Get(ID(-1))
	assert.False(t, ok)
	_, _, ok = s.Lookup("missing.hcl")
	assert.False(t, ok)
}

func TestStore_DuplicateUnit(t *testing.T) {
	s := New()
	_, err := s.Add(artifact("a.hcl"))
	require.NoError(t, err)

	_, err = s.Add(artifact("a.hcl"))

	assert.ErrorContains(t, err, `artifact for unit "a.hcl" already stored`)
	assert.Equal(t, 1, s.Len())
}

func TestStore_Seal(t *testing.T) {
	s := New()
	_, err := s.Add(artifact("a.hcl"))
	require.NoError(t, err)

	s.Seal()
	s.Seal()

	assert.True(t, s.Sealed())
	_, err = s.Add(artifact("b.hcl"))
	assert.ErrorIs(t, err, ErrSealed)
	_, _, ok := s.Lookup("a.hcl")
	assert.True(t, ok, "lookups keep working after seal")
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Add(artifact(fmt.Sprintf("u%d", i)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	s.Seal()

	assert.Equal(t, 50, s.Len())
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, ok := s.Lookup(fmt.Sprintf("u%d", i))
			assert.True(t, ok)
		}(i)
	}
	wg.Wait()
}
