package auth

import (
	"strings"
	"testing"

	"eventnexus/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("password123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "password123", hash)

	require.NoError(t, h.Compare(hash, "password123"))
}

func TestBcryptHasher_CompareWrongPassword(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	hash, err := h.Hash("correct-horse")
	require.NoError(t, err)

	err = h.Compare(hash, "battery-staple")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestBcryptHasher_SaltsEachHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestBcryptHasher_LongPasswordsDiffer(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	base := strings.Repeat("x", 80)
	hash, err := h.Hash(base + "a")
	require.NoError(t, err)
	assert.Error(t, h.Compare(hash, base+"b"), "bytes past 72 must still matter")
}

func TestBcryptHasher_CompareMalformedHash(t *testing.T) {
	err := NewBcryptHasher(bcrypt.MinCost).Compare("not-a-hash", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}
