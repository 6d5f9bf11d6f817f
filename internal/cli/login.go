package cli

import (
	"context"
	"errors"
	"fmt"

	"storeadmin/internal/rest"
	"storeadmin/internal/session"
)

// Login runs the interactive login flow: prompt for credentials, exchange
// them for a token, persist the session. Bad credentials leave the session
// untouched and print an inline message instead of failing the loop.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	resp, err := a.api.Login(ctx, userName, password)
	if err != nil {
		var apiErr *rest.APIError
		switch {
		case errors.As(err, &apiErr):
			fmt.Fprintln(a.out, "Invalid credentials")
		case errors.Is(err, rest.ErrUnavailable):
			fmt.Fprintln(a.out, "Server unavailable, try again later")
		default:
			fmt.Fprintf(a.out, "Login failed: %v\n", err)
		}
		return err
	}

	user := resp.User
	if user == nil {
		// some backends answer with the token alone
		if user = session.ProfileFromToken(resp.AccessToken); user == nil {
			user = map[string]any{"email": userName}
		}
	}

	if err := a.session.Login(ctx, resp.AccessToken, user); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", displayName(user, userName))
	return nil
}

// Logout clears the session. Safe to call when already logged out.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func displayName(user map[string]any, fallback string) string {
	for _, key := range []string{"name", "email", "username"} {
		if s, ok := user[key].(string); ok && s != "" {
			return s
		}
	}
	return fallback
}
