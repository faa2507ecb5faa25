package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher()
	digest, err := h.Hash("Abcdef12")
	require.NoError(t, err)

	assert.NotEqual(t, "Abcdef12", digest)
	assert.True(t, h.Compare("Abcdef12", digest))
	assert.False(t, h.Compare("abcdef12", digest))
	assert.False(t, h.Compare("", digest))

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, bcryptCost, cost)
}

func TestPasswordHasher_SaltsEachHash(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher()
	a, err := h.Hash("Abcdef12")
	require.NoError(t, err)
	b, err := h.Hash("Abcdef12")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestPasswordHasher_TooLong(t *testing.T) {
	t.Parallel()

	_, err := NewPasswordHasher().Hash(strings.Repeat("a", 73))
	assert.Error(t, err)
}

func TestPasswordHasher_CompareGarbageDigest(t *testing.T) {
	t.Parallel()

	assert.False(t, NewPasswordHasher().Compare("Abcdef12", "not-a-bcrypt-hash"))
}
