package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_SaltedAndCost(t *testing.T) {
	h1, err := HashPassword("p")
	require.NoError(t, err)
	h2, err := HashPassword("p")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "each hash must carry its own salt")
	assert.True(t, strings.HasPrefix(h1, "$2a$10$"), "unexpected hash format %q", h1)

	cost, err := bcrypt.Cost([]byte(h1))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)
}

func TestCheckPassword(t *testing.T) {
	h, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, CheckPassword(h, "correct horse"))
	assert.False(t, CheckPassword(h, "battery staple"))
	assert.False(t, CheckPassword("not-a-hash", "correct horse"))
}

func TestBurnPasswordCheck_DoesNotPanic(t *testing.T) {
	BurnPasswordCheck("anything")
}
