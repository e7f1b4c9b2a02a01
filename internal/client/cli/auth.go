package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/loveletters/internal/client/session"
	"github.com/dmitrijs2005/loveletters/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, email and password, creates the account
// and logs in with the returned token. The password is wiped before
// returning.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	token, err := a.api.Register(ctx, username, email, password)
	if err != nil {
		return err
	}

	if err := a.startSession(token, email); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Registered and logged in")
	return nil
}

// Login prompts for credentials and stores the session on success.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	token, err := a.api.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if err := a.startSession(token, email); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) startSession(token, email string) error {
	s, err := session.FromToken(token, email)
	if err != nil {
		return err
	}
	if err := a.store.Save(s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	a.session = s
	a.api.SetToken(token)
	return nil
}

// Logout forgets the token locally. Tokens are stateless, so the server is
// not involved.
func (a *App) Logout(ctx context.Context) error {
	if err := a.store.Clear(); err != nil {
		return err
	}
	a.session = nil
	a.api.SetToken("")
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
