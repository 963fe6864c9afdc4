package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/budgetbuddy/ledger/internal/client/mirror"
)

// ErrAccountsUnavailable is returned by account operations when the ledger
// is not backed by the mirror server.
var ErrAccountsUnavailable = errors.New("accounts need the mirror server backend")

// Authenticator is the account side of the mirror server client.
// *mirror.GRPCMirror satisfies it.
type Authenticator interface {
	Register(ctx context.Context, username, password string) (mirror.Credentials, error)
	Login(ctx context.Context, username, password string) (mirror.Credentials, error)
	Ping(ctx context.Context) error
	SetAccessToken(token string)
	Close() error
}

// AuthService defines authentication operations for the CLI.
//
// Register creates the account and logs in with it. Login and Register
// persist the session; Logout forgets it. Restore re-arms the transport with
// a token saved by an earlier run.
type AuthService interface {
	Register(ctx context.Context, username string, password []byte) error
	Login(ctx context.Context, username string, password []byte) error
	Logout(ctx context.Context) error
	Restore(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	auth    Authenticator
	session *Session
}

// NewAuthService binds accounts to session. auth may be nil for backends
// without accounts.
func NewAuthService(auth Authenticator, session *Session) AuthService {
	return &authService{auth: auth, session: session}
}

func (a *authService) Register(ctx context.Context, username string, password []byte) error {
	if a.auth == nil {
		return ErrAccountsUnavailable
	}
	creds, err := a.auth.Register(ctx, username, string(password))
	if err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return a.session.Save(ctx, username, creds)
}

func (a *authService) Login(ctx context.Context, username string, password []byte) error {
	if a.auth == nil {
		return ErrAccountsUnavailable
	}
	creds, err := a.auth.Login(ctx, username, string(password))
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	return a.session.Save(ctx, username, creds)
}

func (a *authService) Logout(ctx context.Context) error {
	if a.auth != nil {
		a.auth.SetAccessToken("")
	}
	return a.session.Clear(ctx)
}

func (a *authService) Restore(ctx context.Context) error {
	if err := a.session.Load(ctx); err != nil {
		return err
	}
	if a.auth != nil {
		a.auth.SetAccessToken(a.session.AccessToken())
	}
	return nil
}

func (a *authService) Ping(ctx context.Context) error {
	if a.auth == nil {
		return ErrAccountsUnavailable
	}
	return a.auth.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	if a.auth == nil {
		return nil
	}
	return a.auth.Close()
}
