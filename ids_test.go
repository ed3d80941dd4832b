package tydux

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}

	id1 := gen.Generate()
	id2 := gen.Generate()

	assert.NotEqual(t, id1, id2)

	parsed, err := uuid.Parse(id1)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestUUIDv7Generator_TimeSortable(t *testing.T) {
	gen := UUIDv7Generator{}

	prev := gen.Generate()
	for i := 0; i < 100; i++ {
		next := gen.Generate()
		assert.LessOrEqual(t, prev, next, "v7 ids sort by creation time")
		prev = next
	}
}

func TestFixedIDs(t *testing.T) {
	gen := NewFixedIDs("commit-1", "commit-2")

	assert.Equal(t, "commit-1", gen.Generate())
	assert.Equal(t, "commit-2", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}

func TestSequentialIDs(t *testing.T) {
	gen := NewSequentialIDs("mut")

	assert.Equal(t, "mut-1", gen.Generate())
	assert.Equal(t, "mut-2", gen.Generate())
	assert.Equal(t, "mut-3", gen.Generate())
}
