package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/goinglive/internal/common"
	"github.com/dmitrijs2005/goinglive/internal/server/auth"
	"github.com/dmitrijs2005/goinglive/internal/server/config"
	"github.com/dmitrijs2005/goinglive/internal/server/models"
)

func newUserService(t *testing.T, rm *fakeRepoManager) *UserService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	cfg := &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
	}
	return NewUserService(db, rm, cfg)
}

func seedUser(t *testing.T, rm *fakeRepoManager, login, password string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	u := &models.User{ID: "uid-" + login, UserName: login, DisplayName: "Teacher " + login, PasswordHash: hash}
	rm.u.byLogin = map[string]*models.User{login: u}
	rm.u.byID = map[string]*models.User{u.ID: u}
	return u
}

func TestRegister_HashesPassword(t *testing.T) {
	rm := newFakeRepoManager()
	s := newUserService(t, rm)

	u, err := s.Register(context.Background(), "  alice ", "pw", "")
	require.NoError(t, err)

	assert.Equal(t, "alice", u.UserName)
	assert.Equal(t, "alice", u.DisplayName)
	assert.NotEqual(t, []byte("pw"), rm.u.created.PasswordHash)
	assert.True(t, auth.CheckPassword(rm.u.created.PasswordHash, "pw"))
}

func TestRegister_Errors(t *testing.T) {
	rm := newFakeRepoManager()
	s := newUserService(t, rm)

	_, err := s.Register(context.Background(), "", "pw", "")
	require.ErrorIs(t, err, common.ErrorInvalidInput)

	_, err = s.Register(context.Background(), "bob", "", "")
	require.ErrorIs(t, err, common.ErrorInvalidInput)

	rm.u.createErr = common.ErrorConflict
	_, err = s.Register(context.Background(), "bob", "pw", "")
	require.ErrorIs(t, err, common.ErrorConflict)
	assert.Contains(t, err.Error(), "error creating user")
}

func TestLogin_Success(t *testing.T) {
	rm := newFakeRepoManager()
	u := seedUser(t, rm, "alice", "secret")
	s := newUserService(t, rm)

	tok, err := s.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.True(t, tok.ExpiresAt.After(time.Now()))

	id, err := auth.GetUserIDFromToken(tok.Token, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
}

func TestLogin_Failures(t *testing.T) {
	rm := newFakeRepoManager()
	seedUser(t, rm, "alice", "secret")
	s := newUserService(t, rm)

	_, err := s.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Login(context.Background(), "mallory", "secret")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	rm.u.getErr = errBoom{}
	_, err = s.Login(context.Background(), "alice", "secret")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestProfile(t *testing.T) {
	rm := newFakeRepoManager()
	u := seedUser(t, rm, "alice", "secret")
	s := newUserService(t, rm)

	p, err := s.Profile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, "Teacher alice", p.DisplayName)
	assert.Equal(t, u.ID, p.UserID)

	_, err = s.Profile(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	rm.u.getErr = errors.New("db down")
	_, err = s.Profile(context.Background(), u.ID)
	assert.ErrorIs(t, err, common.ErrorInternal)
}
