package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/goinglive/internal/client/client"
)

var (
	ErrNotLoggedIn = errors.New("not logged in, use 'login'")
	ErrNoCourse    = errors.New("no course open, use 'open <course-id>'")
)

func (a *App) loginCommand(ctx context.Context, args []string) error {
	username := ""
	if len(args) > 0 {
		username = args[0]
	} else {
		last, err := a.authService.LastUser(ctx)
		if err != nil {
			a.logger.Warn(ctx, "error reading last user", "error", err)
		}
		prompt := "Username"
		if last != "" {
			prompt = fmt.Sprintf("Username [%s]", last)
		}
		username, err = GetSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		if username == "" {
			username = last
		}
	}
	if username == "" {
		return errors.New("username is required")
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	p, err := a.authService.Login(rctx, username, password)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		return err
	}

	a.mu.Lock()
	a.profile = p
	a.mu.Unlock()
	a.setMode(ModeOnline)

	fmt.Fprintf(a.out, "Logged in as %s\n", p.DisplayName)
	return nil
}

// logoutCommand forgets the token and wipes the open course's local state.
func (a *App) logoutCommand(ctx context.Context, _ []string) error {
	if s := a.currentSession(); s != nil {
		if err := s.Logout(ctx); err != nil {
			return err
		}
	}
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}

	a.mu.Lock()
	a.profile = nil
	a.session = nil
	a.mu.Unlock()

	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		return ErrNotLoggedIn
	}
	return nil
}
