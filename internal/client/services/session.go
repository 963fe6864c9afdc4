package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/budgetbuddy/ledger/internal/client/mirror"
	"github.com/budgetbuddy/ledger/internal/client/repositories/preferences"
	"github.com/budgetbuddy/ledger/internal/dbx"
)

// SessionDB is what the session needs from the local database.
type SessionDB interface {
	dbx.DBTX
	dbx.Beginner
}

// Session is the cached login: owner id, username and access token, persisted
// in the preferences table so a restarted client stays logged in.
//
// Without a login CurrentOwner falls back to the configured offline owner, if
// any, which lets a local-only or S3-backed ledger still scope its records.
type Session struct {
	db           SessionDB
	offlineOwner string

	mu       sync.RWMutex
	ownerID  string
	username string
	token    string
}

func NewSession(db SessionDB, offlineOwner string) *Session {
	return &Session{db: db, offlineOwner: offlineOwner}
}

// Load restores a previously saved session.
func (s *Session) Load(ctx context.Context) error {
	repo := preferences.NewSQLiteRepository(s.db)

	vals := make(map[string]string, 3)
	for _, k := range []string{preferences.KeySessionOwner, preferences.KeySessionUser, preferences.KeySessionToken} {
		v, _, err := repo.Get(ctx, k)
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		vals[k] = v
	}

	s.mu.Lock()
	s.ownerID = vals[preferences.KeySessionOwner]
	s.username = vals[preferences.KeySessionUser]
	s.token = vals[preferences.KeySessionToken]
	s.mu.Unlock()
	return nil
}

func (s *Session) Save(ctx context.Context, username string, creds mirror.Credentials) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := preferences.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, preferences.KeySessionOwner, creds.OwnerID); err != nil {
			return err
		}
		if err := repo.Set(ctx, preferences.KeySessionUser, username); err != nil {
			return err
		}
		return repo.Set(ctx, preferences.KeySessionToken, creds.AccessToken)
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.mu.Lock()
	s.ownerID = creds.OwnerID
	s.username = username
	s.token = creds.AccessToken
	s.mu.Unlock()
	return nil
}

func (s *Session) Clear(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := preferences.NewSQLiteRepository(tx)
		for _, k := range []string{preferences.KeySessionOwner, preferences.KeySessionUser, preferences.KeySessionToken} {
			if err := repo.Delete(ctx, k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.mu.Lock()
	s.ownerID, s.username, s.token = "", "", ""
	s.mu.Unlock()
	return nil
}

func (s *Session) CurrentOwner() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ownerID != "" {
		return s.ownerID, true
	}
	if s.offlineOwner != "" {
		return s.offlineOwner, true
	}
	return "", false
}

// LoggedIn is true only for a real login, not for the offline owner.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ownerID != ""
}

func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
