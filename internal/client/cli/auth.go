package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spolyakov/passport/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email, a username and a password and creates a new
// account. The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.client.Register(ctx, email, username, password)
	if err != nil {
		printlnFn("Registration failed:", err.Error())
		return err
	}

	printlnFn("Registered", user.Email)
	return nil
}

// Login prompts for credentials and authenticates against the server. On
// success the returned token pair is kept in memory for later commands.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	tokens, err := a.client.Login(ctx, email, password)
	if err != nil {
		printlnFn("Login failed:", err.Error())
		return err
	}

	a.tokens = tokens
	printlnFn("Logged in")
	return nil
}

// Refresh exchanges the stored refresh token for a new pair.
func (a *App) Refresh(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Not logged in")
		return common.ErrorUnauthorized
	}

	tokens, err := a.client.Refresh(ctx, a.tokens.RefreshToken)
	if err != nil {
		printlnFn("Refresh failed:", err.Error())
		return err
	}

	a.tokens = tokens
	printlnFn("Tokens refreshed")
	return nil
}

// Whoami fetches and prints the authenticated user's profile. If the access
// token has gone stale the command refreshes the pair once and retries.
func (a *App) Whoami(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Not logged in")
		return common.ErrorUnauthorized
	}

	user, err := a.client.Me(ctx, a.tokens.AccessToken)
	if err != nil && errors.Is(err, common.ErrorUnauthorized) {
		tokens, refreshErr := a.client.Refresh(ctx, a.tokens.RefreshToken)
		if refreshErr != nil {
			printlnFn("Session expired, please log in again")
			a.tokens = nil
			return err
		}
		a.tokens = tokens
		user, err = a.client.Me(ctx, a.tokens.AccessToken)
	}
	if err != nil {
		printlnFn("Lookup failed:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("id: %s\nemail: %s\nusername: %s\nactive: %v\ncreated: %s",
		user.ID, user.Email, user.Username, user.IsActive, user.CreatedAt))
	return nil
}

// Logout tells the server goodbye and drops the in-memory tokens. Tokens stay
// valid until they expire, so dropping them is the whole client-side story.
func (a *App) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err.Error())
		return err
	}
	a.tokens = nil
	printlnFn("Logged out")
	return nil
}
