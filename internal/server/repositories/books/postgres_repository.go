package books

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bookdelivery/backend/internal/common"
	"github.com/bookdelivery/backend/internal/dbx"
	"github.com/bookdelivery/backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, book *models.Book) (*models.Book, error) {

	query :=
		`INSERT INTO books (isbn, name, author_full_name, stock, price)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		book.ISBN, book.Name, book.AuthorFullName, book.Stock, book.Price).Scan(&book.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return book, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Book, error) {

	query :=
		`SELECT id, isbn, name, author_full_name, stock, price FROM books
		 WHERE id = $1
		 `

	book := &models.Book{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&book.ID, &book.ISBN, &book.Name, &book.AuthorFullName, &book.Stock, &book.Price)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return book, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context, offset, limit int64) ([]*models.Book, int64, error) {

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	query :=
		`SELECT id, isbn, name, author_full_name, stock, price FROM books
		 ORDER BY id
		 LIMIT $1 OFFSET $2
		 `

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Book
	for rows.Next() {
		book := &models.Book{}
		if err := rows.Scan(&book.ID, &book.ISBN, &book.Name, &book.AuthorFullName, &book.Stock, &book.Price); err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		result = append(result, book)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return result, total, nil
}

func (r *PostgresRepository) Update(ctx context.Context, book *models.Book) (*models.Book, error) {

	query :=
		`UPDATE books
		 SET isbn = $2, name = $3, author_full_name = $4, stock = $5, price = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING id, isbn, name, author_full_name, stock, price
		 `

	updated := &models.Book{}
	err := r.db.QueryRowContext(ctx, query,
		book.ID, book.ISBN, book.Name, book.AuthorFullName, book.Stock, book.Price).Scan(
		&updated.ID, &updated.ISBN, &updated.Name, &updated.AuthorFullName, &updated.Stock, &updated.Price)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return updated, nil
}

func (r *PostgresRepository) UpdateStock(ctx context.Context, id int64, stock int64) (*models.Book, error) {

	query :=
		`UPDATE books
		 SET stock = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING id, isbn, name, author_full_name, stock, price
		 `

	updated := &models.Book{}
	err := r.db.QueryRowContext(ctx, query, id, stock).Scan(
		&updated.ID, &updated.ISBN, &updated.Name, &updated.AuthorFullName, &updated.Stock, &updated.Price)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return updated, nil
}

func (r *PostgresRepository) DecrementStock(ctx context.Context, id int64, amount int64) error {

	// single atomic statement: the stock guard and the decrement cannot race
	query :=
		`UPDATE books
		 SET stock = stock - $2, updated_at = now()
		 WHERE id = $1 AND stock >= $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, amount)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if !exists {
			return common.ErrBookNotFound
		}
		return common.ErrInsufficientStock
	}

	return nil
}
