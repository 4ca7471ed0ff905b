package scheduler

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionIDGenerator(t *testing.T) {
	gen := SessionIDGenerator{}
	a := gen.Generate()
	b := gen.Generate()

	require.True(t, strings.HasPrefix(a, SessionIDPrefix))
	assert.NotEqual(t, a, b)

	u, err := uuid.Parse(strings.TrimPrefix(a, SessionIDPrefix))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), u.Version())
}

func TestRecordIDGenerator(t *testing.T) {
	u, err := uuid.Parse(RecordIDGenerator{}.Generate())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), u.Version())
}

func TestFixedGenerator(t *testing.T) {
	gen := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", gen.Generate())
	assert.Equal(t, "b", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}
