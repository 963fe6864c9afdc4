package cli

import (
	"context"
	"fmt"

	"github.com/budgetbuddy/ledger/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

type authCall func(ctx context.Context, username string, password []byte) error

// authenticate prompts for credentials, runs call and, on success, pulls the
// account's records from the mirror so the local ledger shows them.
func (a *App) authenticate(ctx context.Context, call authCall) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.term())
	if err != nil {
		return err
	}

	password, err := getPassword(a.term())
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := call(ctx, userName, password); err != nil {
		return err
	}

	a.setMode(ModeOnline)
	a.println("Success!")

	if err := a.ledger.SyncAll(ctx); err != nil {
		a.println("Sync failed:", err)
	}
	return nil
}

// Register creates an account and logs in with it.
func (a *App) Register(ctx context.Context) error {
	return a.authenticate(ctx, a.auth.Register)
}

// Login authenticates against the mirror server and replaces the local
// records with the account's remote copy.
func (a *App) Login(ctx context.Context) error {
	return a.authenticate(ctx, a.auth.Login)
}

// Logout forgets the saved session. Local records stay on disk but are no
// longer visible unless they belong to the offline owner.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	a.stopWatch()
	a.println("Logged out")
	return nil
}
