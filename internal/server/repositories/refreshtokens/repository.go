// Package refreshtokens declares the server-side repository contract for
// managing refresh tokens in persistent storage.
package refreshtokens

import (
	"context"
	"time"

	"github.com/bookdelivery/backend/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking refresh tokens.
type Repository interface {
	// Create stores a new refresh token for userID with an expiry of now+validity.
	Create(ctx context.Context, userID int64, token string, validity time.Duration) error

	// FindByToken looks a refresh token up by its opaque token string and
	// returns its metadata. Returns common.ErrorNotFound when absent.
	FindByToken(ctx context.Context, token string) (*models.RefreshToken, error)

	// DeleteByUserID removes all refresh tokens owned by userID. Deleting
	// for a user that holds none is not an error.
	DeleteByUserID(ctx context.Context, userID int64) error
}
