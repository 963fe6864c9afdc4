// Package services contains the business logic of the mirror server:
// accounts and the per-owner document collections.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/budgetbuddy/ledger/internal/common"
	"github.com/budgetbuddy/ledger/internal/cryptox"
	"github.com/budgetbuddy/ledger/internal/server/auth"
	"github.com/budgetbuddy/ledger/internal/server/config"
	"github.com/budgetbuddy/ledger/internal/server/models"
	"github.com/budgetbuddy/ledger/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

var (
	ErrEmptyUsername = errors.New("username must not be empty")
	ErrShortPassword = fmt.Errorf("password must be at least %d characters", cryptox.MinPasswordLength)
)

// Credentials is what a successful Register or Login hands back.
type Credentials struct {
	UserID      string
	AccessToken string
}

type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates an account and logs it in. A taken username yields
// common.ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, username string, password []byte) (*Credentials, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrEmptyUsername
	}
	if len(password) < cryptox.MinPasswordLength {
		return nil, ErrShortPassword
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{ID: uuid.NewString(), UserName: username, PasswordHash: hash}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issue(u.ID)
}

// Login checks the password and returns a fresh access token. Unknown users
// and wrong passwords both yield common.ErrUnauthorized.
func (s *UserService) Login(ctx context.Context, username string, password []byte) (*Credentials, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}

	if err := cryptox.CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}

	return s.issue(user.ID)
}

// Authenticate resolves an access token to its user id.
func (s *UserService) Authenticate(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

func (s *UserService) issue(userID string) (*Credentials, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrInternal
	}
	return &Credentials{UserID: userID, AccessToken: token}, nil
}
