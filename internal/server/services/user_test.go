package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/dmitrijs2005/loveletters/internal/common"
	"github.com/dmitrijs2005/loveletters/internal/server/auth"
	"github.com/dmitrijs2005/loveletters/internal/server/config"
	"github.com/dmitrijs2005/loveletters/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T, rm repomanager.RepositoryManager) *UserService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	cfg := &config.Config{
		SecretKey:             "k",
		TokenValidityDuration: time.Hour,
	}
	return NewUserService(db, rm, cfg)
}

func TestRegister_Success(t *testing.T) {
	rm := newFakeRepoManager()
	s := newUserService(t, rm)

	u, token, err := s.Register(context.Background(), "a", "a@x.com", "p")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "a", u.UserName)
	assert.NotEqual(t, "p", u.Password, "password must be stored hashed")
	assert.True(t, auth.CheckPassword(u.Password, "p"))

	id, err := s.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
}

func TestRegister_Duplicate(t *testing.T) {
	rm := newFakeRepoManager()
	s := newUserService(t, rm)

	_, _, err := s.Register(context.Background(), "a", "a@x.com", "p")
	require.NoError(t, err)

	_, _, err = s.Register(context.Background(), "b", "a@x.com", "q")
	assert.ErrorIs(t, err, common.ErrorUserExists)
	assert.Len(t, rm.u.byMail, 1)
}

func TestRegister_RepoError(t *testing.T) {
	rm := newFakeRepoManager()
	rm.u.createErr = errBoom{}
	s := newUserService(t, rm)

	_, _, err := s.Register(context.Background(), "a", "a@x.com", "p")
	if err == nil || !regexp.MustCompile(`error creating user: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestLogin_Flows(t *testing.T) {
	rm := newFakeRepoManager()
	s := newUserService(t, rm)

	_, _, err := s.Register(context.Background(), "a", "a@x.com", "p")
	require.NoError(t, err)

	t.Run("ok", func(t *testing.T) {
		token, err := s.Login(context.Background(), "a@x.com", "p")
		require.NoError(t, err)
		id, err := s.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := s.Login(context.Background(), "a@x.com", "nope")
		assert.ErrorIs(t, err, common.ErrorInvalidCredentials)
	})

	t.Run("unknown email gives same error", func(t *testing.T) {
		_, err := s.Login(context.Background(), "ghost@x.com", "p")
		assert.ErrorIs(t, err, common.ErrorInvalidCredentials)
	})
}

func TestLogin_RepoError(t *testing.T) {
	rm := newFakeRepoManager()
	rm.u.getErr = errBoom{}
	s := newUserService(t, rm)

	_, err := s.Login(context.Background(), "a@x.com", "p")
	require.Error(t, err)
	assert.False(t, errors.Is(err, common.ErrorInvalidCredentials))
	assert.Contains(t, err.Error(), "boom")
}

func TestVerifyToken_Invalid(t *testing.T) {
	s := newUserService(t, newFakeRepoManager())

	_, err := s.VerifyToken("garbage")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	expired, err := auth.GenerateToken(1, []byte("k"), -time.Minute)
	require.NoError(t, err)
	_, err = s.VerifyToken(expired)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}
