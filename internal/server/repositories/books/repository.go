// Package books declares the repository contract for the book inventory.
package books

import (
	"context"

	"github.com/bookdelivery/backend/internal/server/models"
)

type Repository interface {
	// Create inserts a new book and returns it with the generated id.
	Create(ctx context.Context, book *models.Book) (*models.Book, error)

	// FindByID returns the book with the given id, or common.ErrorNotFound.
	FindByID(ctx context.Context, id int64) (*models.Book, error)

	// FindAll returns one page of books ordered by id, plus the total
	// number of books.
	FindAll(ctx context.Context, offset, limit int64) ([]*models.Book, int64, error)

	// Update replaces the mutable fields of an existing book.
	Update(ctx context.Context, book *models.Book) (*models.Book, error)

	// UpdateStock sets the stock amount of the given book.
	UpdateStock(ctx context.Context, id int64, stock int64) (*models.Book, error)

	// DecrementStock atomically reduces stock by amount. It returns
	// common.ErrInsufficientStock when the remaining stock is too small
	// and common.ErrBookNotFound when the book does not exist.
	DecrementStock(ctx context.Context, id int64, amount int64) error
}
