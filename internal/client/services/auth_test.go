package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/goinglive/internal/client/client"
	"github.com/dmitrijs2005/goinglive/internal/client/repositories/state"
)

func TestAuth_LoginRemembersUser(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{}
	repo := state.NewMemoryRepository()
	a := NewAuthService(fc, repo)

	p, err := a.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.DisplayName)

	last, err := a.LastUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", last)

	p, err = a.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
}

func TestAuth_LoginFailure(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{loginErr: client.ErrUnauthorized}
	a := NewAuthService(fc, state.NewMemoryRepository())

	_, err := a.Login(ctx, "alice", "bad")
	require.ErrorIs(t, err, client.ErrUnauthorized)

	last, err := a.LastUser(ctx)
	require.NoError(t, err)
	assert.Empty(t, last)
}

func TestAuth_LogoutForgetsEverything(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{}
	a := NewAuthService(fc, state.NewMemoryRepository())

	_, err := a.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	require.NoError(t, a.Logout(ctx))

	assert.False(t, fc.loggedIn)
	_, err = a.Profile(ctx)
	require.ErrorIs(t, err, client.ErrNoSession)
	last, _ := a.LastUser(ctx)
	assert.Empty(t, last)
}

func TestAuth_PingAndClose(t *testing.T) {
	fc := &fakeClient{pingErr: client.ErrUnavailable}
	a := NewAuthService(fc, state.NewMemoryRepository())

	require.ErrorIs(t, a.Ping(context.Background()), client.ErrUnavailable)
	require.NoError(t, a.Close(context.Background()))
	assert.True(t, fc.closed)
}
