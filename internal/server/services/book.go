package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bookdelivery/backend/internal/common"
	"github.com/bookdelivery/backend/internal/server/models"
	"github.com/bookdelivery/backend/internal/server/repositories/repomanager"
)

type CreateBookRequest struct {
	ISBN           string
	Name           string
	AuthorFullName string
	Stock          int64
	Price          float64
}

type UpdateBookRequest struct {
	ISBN           string
	Name           string
	AuthorFullName string
	Stock          int64
	Price          float64
}

// BookService manages the book inventory.
type BookService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewBookService(db *sql.DB, m repomanager.RepositoryManager) *BookService {
	return &BookService{db: db, repomanager: m}
}

func (s *BookService) CreateBook(ctx context.Context, req CreateBookRequest) (*models.Book, error) {
	book := &models.Book{
		ISBN:           req.ISBN,
		Name:           req.Name,
		AuthorFullName: req.AuthorFullName,
		Stock:          req.Stock,
		Price:          req.Price,
	}

	created, err := s.repomanager.Books(s.db).Create(ctx, book)
	if err != nil {
		return nil, fmt.Errorf("error creating book: %w", err)
	}

	return created, nil
}

func (s *BookService) GetBookByID(ctx context.Context, id int64) (*models.Book, error) {
	book, err := s.repomanager.Books(s.db).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrBookNotFound
		}
		return nil, fmt.Errorf("error searching book: %w", err)
	}

	return book, nil
}

// GetAllBooks returns one page of the inventory plus the total book count.
func (s *BookService) GetAllBooks(ctx context.Context, offset, limit int64) ([]*models.Book, int64, error) {
	books, total, err := s.repomanager.Books(s.db).FindAll(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing books: %w", err)
	}

	return books, total, nil
}

func (s *BookService) UpdateBook(ctx context.Context, id int64, req UpdateBookRequest) (*models.Book, error) {
	book := &models.Book{
		ID:             id,
		ISBN:           req.ISBN,
		Name:           req.Name,
		AuthorFullName: req.AuthorFullName,
		Stock:          req.Stock,
		Price:          req.Price,
	}

	updated, err := s.repomanager.Books(s.db).Update(ctx, book)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrBookNotFound
		}
		return nil, fmt.Errorf("error updating book: %w", err)
	}

	return updated, nil
}

func (s *BookService) UpdateBookStock(ctx context.Context, id int64, stock int64) (*models.Book, error) {
	updated, err := s.repomanager.Books(s.db).UpdateStock(ctx, id, stock)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrBookNotFound
		}
		return nil, fmt.Errorf("error updating stock: %w", err)
	}

	return updated, nil
}
