package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/goinglive/internal/client/client"
	"github.com/dmitrijs2005/goinglive/internal/client/repositories/state"
	"github.com/dmitrijs2005/goinglive/internal/course"
)

const lastUserKey = "auth:username"

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate against the server and remember the username.
//   - Profile: resolve the current session.
//   - Logout: forget the session and the remembered username.
//   - LastUser: the username of the last successful login, if any.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*course.Profile, error)
	Profile(ctx context.Context) (*course.Profile, error)
	Logout(ctx context.Context) error
	LastUser(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	repo   state.Repository
}

// NewAuthService constructs an AuthService bound to the given API client and
// local key/value store.
func NewAuthService(c client.Client, repo state.Repository) AuthService {
	return &authService{client: c, repo: repo}
}

func (a *authService) Login(ctx context.Context, username, password string) (*course.Profile, error) {
	if err := a.client.Login(ctx, username, password); err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	p, err := a.client.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("session error: %w", err)
	}
	if err := a.repo.Set(ctx, lastUserKey, []byte(p.Username)); err != nil {
		return nil, fmt.Errorf("error saving username: %w", err)
	}
	return p, nil
}

func (a *authService) Profile(ctx context.Context) (*course.Profile, error) {
	return a.client.Session(ctx)
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.Logout()
	return a.repo.Delete(ctx, lastUserKey)
}

func (a *authService) LastUser(ctx context.Context) (string, error) {
	b, err := a.repo.Get(ctx, lastUserKey)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
