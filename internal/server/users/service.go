// Package users implements the credential lifecycle: registration, login,
// token refresh, and access-token lookups for protected endpoints.
package users

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spolyakov/passport/internal/common"
	"github.com/spolyakov/passport/internal/server/config"
	"github.com/spolyakov/passport/internal/server/password"
	"github.com/spolyakov/passport/internal/server/token"
)

const (
	minPasswordLength = 8
	minUsernameLength = 3
	maxUsernameLength = 50
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Service orchestrates the user store, password hasher, and token codec.
// It holds no mutable state beyond its immutable collaborators and is safe
// for concurrent use.
type Service struct {
	repo       Repository
	hasher     password.Hasher
	codec      *token.Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewService(repo Repository, hasher password.Hasher, codec *token.Codec, cfg *config.Config) *Service {
	return &Service{
		repo:       repo,
		hasher:     hasher,
		codec:      codec,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}
}

// NormalizeEmail lowercases and trims an email address so that lookups and
// the unique constraint agree on one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account. Uniqueness of email and username is
// enforced by the store (common.ErrorConflict); no tokens are issued here.
func (s *Service) Register(ctx context.Context, email, username, plainPassword string) (*User, error) {
	email = NormalizeEmail(email)

	if err := validateRegistration(email, username, plainPassword); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(plainPassword)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Active:       true,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return created, nil
}

// Login verifies the email/password pair and issues a fresh token pair.
// A missing user, an inactive account, and a wrong password are
// indistinguishable to the caller: all return common.ErrorInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (*TokenPair, error) {
	user, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if !user.Active {
		return nil, common.ErrorInvalidCredentials
	}
	if !s.hasher.Verify(plainPassword, user.PasswordHash) {
		return nil, common.ErrorInvalidCredentials
	}

	return s.issueTokenPair(user.ID)
}

// Refresh exchanges a valid refresh token for a new token pair. Token
// validation failures propagate as-is; a subject that no longer exists or
// was deactivated since issuance fails with common.ErrorInvalidCredentials.
// The old refresh token is not invalidated server side: verification is
// stateless, so it stays usable until its natural expiry.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.codec.Validate(refreshToken, token.KindRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, common.ErrorInternal
	}
	if !user.Active {
		return nil, common.ErrorInvalidCredentials
	}

	return s.issueTokenPair(user.ID)
}

// AuthenticatedLookup resolves an access token to its user record. Every
// failure mode collapses to common.ErrorUnauthorized at this boundary.
func (s *Service) AuthenticatedLookup(ctx context.Context, accessToken string) (*User, error) {
	claims, err := s.codec.Validate(accessToken, token.KindAccess)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}
	if !user.Active {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// Profile returns the user record for id, or common.ErrorNotFound.
func (s *Service) Profile(ctx context.Context, id string) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

func (s *Service) issueTokenPair(userID string) (*TokenPair, error) {
	access, err := s.codec.Issue(userID, token.KindAccess, s.accessTTL)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.codec.Issue(userID, token.KindRefresh, s.refreshTTL)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func validateRegistration(email, username, plainPassword string) error {
	if email == "" || !strings.Contains(email, "@") || strings.ContainsAny(email, " \t") {
		return fmt.Errorf("invalid email: %w", common.ErrorInvalidInput)
	}
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return fmt.Errorf("username must be %d-%d characters: %w",
			minUsernameLength, maxUsernameLength, common.ErrorInvalidInput)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username may only contain letters, digits, '_' and '-': %w",
			common.ErrorInvalidInput)
	}
	if len(plainPassword) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters: %w",
			minPasswordLength, common.ErrorInvalidInput)
	}
	return nil
}
