// Package users declares the server-side repository contract for
// user accounts.
package users

import (
	"context"

	"github.com/bookdelivery/backend/internal/server/models"
)

// Repository defines persistence operations for user records.
type Repository interface {
	// Create inserts a new user and returns it with the generated id.
	// Inserting a duplicate email yields common.ErrEmailAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// FindByEmail looks a user up by email. Returns common.ErrorNotFound
	// when absent.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByID looks a user up by id. Returns common.ErrorNotFound when
	// absent.
	FindByID(ctx context.Context, id int64) (*models.User, error)

	// ExistsByEmail reports whether a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
