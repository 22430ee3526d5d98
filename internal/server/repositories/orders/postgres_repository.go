package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

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

func (r *PostgresRepository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {

	query :=
		`INSERT INTO orders (user_id)
         VALUES ($1)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, order.UserID).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	itemQuery :=
		`INSERT INTO order_items (order_id, book_id, amount, price)
         VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	for i := range order.Items {
		item := &order.Items[i]
		if err := r.db.QueryRowContext(ctx, itemQuery, order.ID, item.BookID, item.Amount, item.Price).Scan(&item.ID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
	}

	return order, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Order, error) {

	query :=
		`SELECT id, user_id, created_at FROM orders
		 WHERE id = $1
		 `

	order := &models.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&order.ID, &order.UserID, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *PostgresRepository) FindByUserID(ctx context.Context, userID int64, offset, limit int64) ([]*models.Order, int64, error) {

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	query :=
		`SELECT id, user_id, created_at FROM orders
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	result, err := r.collectOrders(ctx, rows)
	if err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

func (r *PostgresRepository) FindBetweenDates(ctx context.Context, from, to time.Time, offset, limit int64) ([]*models.Order, int64, error) {

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE created_at >= $1 AND created_at < $2`, from, to).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	query :=
		`SELECT id, user_id, created_at FROM orders
		 WHERE created_at >= $1 AND created_at < $2
		 ORDER BY created_at DESC, id DESC
		 LIMIT $3 OFFSET $4
		 `

	rows, err := r.db.QueryContext(ctx, query, from, to, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	result, err := r.collectOrders(ctx, rows)
	if err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

func (r *PostgresRepository) GetOrderReports(ctx context.Context, userID *int64, offset, limit int64) ([]*models.OrderReport, int64, error) {

	filter := ""
	countFilter := ""
	args := []any{limit, offset}
	countArgs := []any{}
	if userID != nil {
		filter = "WHERE o.user_id = $3"
		countFilter = "WHERE o.user_id = $1"
		args = append(args, *userID)
		countArgs = append(countArgs, *userID)
	}

	countQuery := fmt.Sprintf(
		`SELECT COUNT(*) FROM (
		     SELECT 1 FROM orders o %s
		     GROUP BY EXTRACT(YEAR FROM o.created_at), EXTRACT(MONTH FROM o.created_at)
		 ) months`, countFilter)

	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT EXTRACT(MONTH FROM o.created_at)::int AS month,
		        EXTRACT(YEAR FROM o.created_at)::int AS year,
		        COUNT(DISTINCT o.id) AS total_order_count,
		        COALESCE(SUM(oi.amount), 0) AS total_book_count,
		        COALESCE(SUM(oi.amount * oi.price), 0) AS total_price
		 FROM orders o
		 JOIN order_items oi ON oi.order_id = o.id
		 %s
		 GROUP BY year, month
		 ORDER BY year DESC, month DESC
		 LIMIT $1 OFFSET $2`, filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.OrderReport
	for rows.Next() {
		var month int
		report := &models.OrderReport{}
		if err := rows.Scan(&month, &report.Year, &report.TotalOrderCount, &report.TotalBookCount, &report.TotalPrice); err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		report.Month = strings.ToUpper(time.Month(month).String())
		result = append(result, report)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return result, total, nil
}

func (r *PostgresRepository) collectOrders(ctx context.Context, rows *sql.Rows) ([]*models.Order, error) {
	defer rows.Close()

	var result []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.UserID, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	for _, order := range result {
		if err := r.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, order *models.Order) error {

	query :=
		`SELECT id, book_id, amount, price FROM order_items
		 WHERE order_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, order.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item := models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.BookID, &item.Amount, &item.Price); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
