package users_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-academy-auth/users"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := users.HashPassword("p@ss")
	require.NoError(t, err)
	require.NotEqual(t, "p@ss", hash)

	require.True(t, users.CheckPasswordHash("p@ss", hash))
	require.False(t, users.CheckPasswordHash("wrong", hash))
}

func TestHashesAreSalted(t *testing.T) {
	first, err := users.HashPassword("p@ss")
	require.NoError(t, err)
	second, err := users.HashPassword("p@ss")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}
