// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, login, access-token refresh, and
// logout.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/bookdelivery/backend/internal/common"
	"github.com/bookdelivery/backend/internal/dbx"
	"github.com/bookdelivery/backend/internal/logging"
	"github.com/bookdelivery/backend/internal/server/auth"
	"github.com/bookdelivery/backend/internal/server/config"
	"github.com/bookdelivery/backend/internal/server/models"
	"github.com/bookdelivery/backend/internal/server/repositories/repomanager"
)

// SignupRequest carries the fields needed to create an account. Role is
// optional and defaults to CUSTOMER.
type SignupRequest struct {
	Email    string
	Username string
	FullName string
	Password string
	Role     models.Role
}

type LoginRequest struct {
	Email    string
	Password string
}

type TokenRefreshRequest struct {
	RefreshToken string
}

// JWTResponse is returned on successful login: a fresh access token, a
// fresh refresh token, and the authenticated email.
type JWTResponse struct {
	Email        string
	Token        string
	RefreshToken string
}

// TokenRefreshResponse pairs a newly minted access token with the refresh
// token that produced it. The refresh token is NOT rotated: the same string
// stays valid until its stored expiry.
type TokenRefreshResponse struct {
	AccessToken  string
	RefreshToken string
}

// Logout results. Malformed or invalid bearer headers are a normal failure
// path, not an error.
const (
	LogoutSuccess = "success"
	LogoutFailed  = "failed"
)

// AuthService orchestrates the authentication lifecycle:
//   - Register: create users (duplicate emails rejected atomically)
//   - Login: verify credentials and mint an access/refresh token pair
//   - RefreshToken: exchange an unexpired refresh token for a new access token
//   - Logout: revoke all refresh tokens of the calling user
//
// Logout does not blacklist access tokens: an outstanding access token
// stays valid until its own expiry, logout only prevents renewal.
type AuthService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	refreshTokens               *RefreshTokenService
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, rts *RefreshTokenService, l logging.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                          db,
		repomanager:                 m,
		refreshTokens:               rts,
		logger:                      l.With("module", "auth_service"),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a new user. The email must be syntactically valid and not
// already taken; the duplicate check and the insert run in one transaction.
// The password is stored as a bcrypt hash. No tokens are issued here: login
// is a separate step.
func (s *AuthService) Register(ctx context.Context, req SignupRequest) error {

	if _, err := mail.ParseAddress(req.Email); err != nil {
		return common.ErrInvalidEmail
	}

	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return common.ErrorInternal
	}

	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: hash,
		Role:         role,
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		exists, err := repo.ExistsByEmail(ctx, user.Email)
		if err != nil {
			return fmt.Errorf("error checking email: %w", err)
		}
		if exists {
			return common.ErrEmailAlreadyExists
		}

		if _, err := repo.Create(ctx, user); err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}
		return nil
	})
}

// Login authenticates the credential pair, then issues a new access token
// and a new refresh token bound to the user.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*JWTResponse, error) {

	if req.Email == "" || req.Password == "" {
		return nil, common.ErrAuthenticationFailed
	}

	if err := s.authenticate(ctx, req.Email, req.Password); err != nil {
		return nil, err
	}

	// defensive lookup: should not fail after a successful authentication
	user, err := s.repomanager.Users(s.db).FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, common.ErrorInternal
	}

	accessToken, err := auth.GenerateToken(user, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := s.refreshTokens.CreateRefreshToken(ctx, user)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &JWTResponse{
		Email:        user.Email,
		Token:        accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshToken exchanges an unexpired refresh token for a fresh access
// token. An unknown token yields common.ErrRefreshTokenNotFound; an expired
// one yields a nil response WITHOUT an error — the caller must treat that
// as "refresh denied, re-authenticate". The presented refresh token is
// returned unchanged in the success case.
func (s *AuthService) RefreshToken(ctx context.Context, req TokenRefreshRequest) (*TokenRefreshResponse, error) {

	token, err := s.refreshTokens.FindByToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, err
	}

	if s.refreshTokens.IsRefreshExpired(token) {
		return nil, nil
	}

	user, err := s.repomanager.Users(s.db).FindByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, common.ErrorInternal
	}

	accessToken, err := auth.GenerateToken(user, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenRefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: token.Token,
	}, nil
}

// Logout extracts and validates the access token from a bearer header
// value and deletes all refresh tokens of its subject user. Returns
// LogoutFailed on a malformed header or invalid token; revocation is
// idempotent and best-effort.
func (s *AuthService) Logout(ctx context.Context, bearerHeader string) string {

	token, ok := auth.ExtractTokenFromHeader(bearerHeader)
	if !ok {
		return LogoutFailed
	}

	if !auth.ValidateToken(token, s.jwtSecret) {
		return LogoutFailed
	}

	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return LogoutFailed
	}

	if err := s.refreshTokens.DeleteByUserID(ctx, userID); err != nil {
		s.logger.Error(ctx, "error revoking refresh tokens", "user_id", userID, "error", err)
		return LogoutFailed
	}

	return LogoutSuccess
}

// authenticate checks the credential pair against the stored bcrypt hash.
// Both an unknown email and a wrong password map to the same error so the
// response does not leak which part was wrong.
func (s *AuthService) authenticate(ctx context.Context, email, password string) error {
	user, err := s.repomanager.Users(s.db).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrAuthenticationFailed
		}
		return common.ErrorInternal
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return common.ErrAuthenticationFailed
	}

	return nil
}
