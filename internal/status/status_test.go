package status

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_StringAndParse(t *testing.T) {
	for s := NoError; s <= CannotOpenDB; s++ {
		parsed, err := Parse(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := Parse("Bogus")
	assert.Error(t, err)
}

func TestStatus_Err(t *testing.T) {
	assert.NoError(t, NoError.Err())
	assert.True(t, errors.Is(KeyNotFound.Err(), ErrKeyNotFound))
	assert.True(t, errors.Is(KeyDeleted.Err(), ErrKeyDeleted))
	assert.True(t, errors.Is(KeyAutoDeleted.Err(), ErrKeyAutoDeleted))
	assert.True(t, errors.Is(ReadError.Err(), ErrRead))
	assert.True(t, errors.Is(WriteError.Err(), ErrWrite))
	assert.True(t, errors.Is(CannotOpenDB.Err(), ErrCannotOpenDB))
}

func TestStatus_Terminal(t *testing.T) {
	assert.True(t, CannotOpenDB.Terminal())
	assert.False(t, WriteError.Terminal())
	assert.False(t, KeyNotFound.Terminal())
}

func TestReporter(t *testing.T) {
	var r Reporter
	assert.Equal(t, NoError, r.Last())

	r.Set(KeyDeleted)
	assert.Equal(t, KeyDeleted, r.Last())

	r.Set(NoError)
	assert.Equal(t, NoError, r.Last())
}
