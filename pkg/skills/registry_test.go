package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	descriptors := []*Descriptor{
		{ID: "first", Name: "first", Description: "the first skill"},
		{ID: "second", Name: "second", Description: "the second skill"},
	}
	registry := newRegistry(descriptors)

	assert.Equal(t, 2, registry.Len())

	d, err := registry.Get("second")
	require.NoError(t, err)
	assert.Equal(t, "the second skill", d.Description)

	_, err = registry.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryListPreservesOrderAndIsolation(t *testing.T) {
	registry := newRegistry([]*Descriptor{
		{ID: "c"}, {ID: "a"}, {ID: "b"},
	})

	listed := registry.List()
	require.Len(t, listed, 3)
	assert.Equal(t, "c", listed[0].ID)
	assert.Equal(t, "a", listed[1].ID)
	assert.Equal(t, "b", listed[2].ID)

	// Mutating the returned slice must not affect the registry.
	listed[0] = nil
	assert.Equal(t, "c", registry.List()[0].ID)
}
