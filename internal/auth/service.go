package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/clipstream/backend/internal/models"
)

// UserStore captures the account persistence the credential service needs.
type UserStore interface {
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (models.User, error)
	Update(ctx context.Context, user models.User) error
	SetRefreshToken(ctx context.Context, userID, token string) error
	SwapRefreshToken(ctx context.Context, userID, old, new string) (bool, error)
}

// Service implements the credential and session lifecycle: password
// verification, dual-token issuance, rotation, and revocation. Exactly one
// refresh token is valid per account at any time.
type Service struct {
	users  UserStore
	tokens *TokenIssuer
}

// NewService constructs a credential service over the given store and issuer.
func NewService(users UserStore, tokens *TokenIssuer) *Service {
	if users == nil || tokens == nil {
		panic("auth: service dependencies must not be nil")
	}
	return &Service{users: users, tokens: tokens}
}

// HashPassword derives the stored bcrypt hash for a plain-text password.
// Callers hash only when the password value actually changes.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether the plain text matches the stored hash.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// LoginResult bundles the authenticated account with its issued tokens.
type LoginResult struct {
	User   models.User
	Tokens models.TokenPair
}

// Login authenticates by username or email and starts a fresh session. The
// new refresh token overwrites any prior one, so at most one session survives.
func (s *Service) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		return LoginResult{}, err
	}

	if !VerifyPassword(password, user.Password) {
		return LoginResult{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return LoginResult{}, err
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return LoginResult{}, err
	}

	user.RefreshToken = pair.RefreshToken
	return LoginResult{User: user, Tokens: pair}, nil
}

// Refresh rotates a session: the presented refresh token must verify, must
// match the single stored token byte for byte, and is atomically replaced by
// a new pair. A concurrent rotation losing the compare-and-swap fails closed.
func (s *Service) Refresh(ctx context.Context, presented string) (models.TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(presented)
	if err != nil {
		return models.TokenPair{}, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		// An unknown account in a validly signed token is still unauthorized.
		return models.TokenPair{}, fmt.Errorf("%w: account lookup: %v", ErrInvalidToken, err)
	}

	if subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(presented)) != 1 {
		return models.TokenPair{}, fmt.Errorf("%w: token superseded", ErrInvalidToken)
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return models.TokenPair{}, err
	}

	swapped, err := s.users.SwapRefreshToken(ctx, user.ID, presented, pair.RefreshToken)
	if err != nil {
		return models.TokenPair{}, err
	}
	if !swapped {
		return models.TokenPair{}, fmt.Errorf("%w: concurrent rotation", ErrInvalidToken)
	}

	return pair, nil
}

// Logout clears the stored refresh token, immediately invalidating every
// outstanding refresh token for the account.
func (s *Service) Logout(ctx context.Context, userID string) error {
	return s.users.SetRefreshToken(ctx, userID, "")
}

// ChangePassword re-hashes and persists a new password after verifying the
// old one. Existing sessions are left intact.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPlain, newPlain, confirmPlain string) error {
	if newPlain != confirmPlain {
		return ErrPasswordMismatch
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !VerifyPassword(oldPlain, user.Password) {
		return ErrInvalidCredentials
	}

	hashed, err := HashPassword(newPlain)
	if err != nil {
		return err
	}

	user.Password = hashed
	user.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, user)
}

// IsUnauthorized reports whether the error maps to a 401 at the boundary.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrInvalidToken)
}
