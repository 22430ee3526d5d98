package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bookdelivery/backend/internal/common"
	"github.com/bookdelivery/backend/internal/server/config"
	"github.com/bookdelivery/backend/internal/server/models"
	"github.com/bookdelivery/backend/internal/server/repositories/repomanager"
)

// refreshTokenBytes is the entropy of a refresh token; the hex string is
// twice as long.
const refreshTokenBytes = 32

// RefreshTokenService owns the refresh-token lifecycle: minting, lookup,
// expiry checks, and revocation. Records are never mutated, only created
// and deleted.
type RefreshTokenService struct {
	db               *sql.DB
	repomanager      repomanager.RepositoryManager
	validityDuration time.Duration
}

func NewRefreshTokenService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *RefreshTokenService {
	return &RefreshTokenService{
		db:               db,
		repomanager:      m,
		validityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// CreateRefreshToken mints a new opaque token for user, persists it with an
// expiry of now plus the configured validity, and returns the token string.
func (s *RefreshTokenService) CreateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	token, err := common.MakeRandHexString(refreshTokenBytes)
	if err != nil {
		return "", common.ErrorInternal
	}

	repo := s.repomanager.RefreshTokens(s.db)
	if err := repo.Create(ctx, user.ID, token, s.validityDuration); err != nil {
		return "", fmt.Errorf("error creating refresh token: %w", err)
	}

	return token, nil
}

// FindByToken looks up a refresh-token record by its exact token string.
// Returns common.ErrRefreshTokenNotFound for unknown tokens.
func (s *RefreshTokenService) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	record, err := s.repomanager.RefreshTokens(s.db).FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	return record, nil
}

// IsRefreshExpired reports whether the record's expiry is strictly before now.
func (s *RefreshTokenService) IsRefreshExpired(record *models.RefreshToken) bool {
	return record.Expires.Before(time.Now())
}

// DeleteByUserID removes all refresh tokens owned by userID; a user without
// tokens is a no-op, never an error.
func (s *RefreshTokenService) DeleteByUserID(ctx context.Context, userID int64) error {
	if err := s.repomanager.RefreshTokens(s.db).DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("error deleting refresh tokens: %w", err)
	}
	return nil
}
