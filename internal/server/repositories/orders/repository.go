// Package orders declares the repository contract for placed orders and
// the aggregated order reports.
package orders

import (
	"context"
	"time"

	"github.com/bookdelivery/backend/internal/server/models"
)

type Repository interface {
	// Create inserts an order together with its items and returns it with
	// generated ids. Callers are expected to run it inside a transaction
	// alongside the stock decrements.
	Create(ctx context.Context, order *models.Order) (*models.Order, error)

	// FindByID returns the order with its items, or common.ErrorNotFound.
	FindByID(ctx context.Context, id int64) (*models.Order, error)

	// FindByUserID returns one page of a customer's orders, newest first,
	// plus the total count.
	FindByUserID(ctx context.Context, userID int64, offset, limit int64) ([]*models.Order, int64, error)

	// FindBetweenDates returns one page of orders created in [from, to),
	// newest first, plus the total count.
	FindBetweenDates(ctx context.Context, from, to time.Time, offset, limit int64) ([]*models.Order, int64, error)

	// GetOrderReports returns one page of per-month order statistics,
	// most recent month first, plus the number of report rows. A nil
	// userID aggregates over all customers.
	GetOrderReports(ctx context.Context, userID *int64, offset, limit int64) ([]*models.OrderReport, int64, error)
}
