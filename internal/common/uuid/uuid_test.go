package uuid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	id := New()
	assert.NotEqual(t, Nil, id)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestNewRandom(t *testing.T) {
	id, err := NewRandom()
	assert.NoError(t, err)
	assert.NotEqual(t, Nil, id)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestParse(t *testing.T) {
	valid := "123e4567-e89b-12d3-a456-426614174000"
	id, err := Parse(valid)
	assert.NoError(t, err)
	assert.Equal(t, valid, id.String())

	_, err = Parse("not-a-uuid")
	assert.Error(t, err)
}
