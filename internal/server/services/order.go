package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bookdelivery/backend/internal/common"
	"github.com/bookdelivery/backend/internal/dbx"
	"github.com/bookdelivery/backend/internal/server/models"
	"github.com/bookdelivery/backend/internal/server/repositories/repomanager"
)

type OrderItemRequest struct {
	BookID int64
	Amount int64
}

// OrderService places and queries orders. The authenticated customer
// identity is always passed in explicitly by the caller; the service never
// consults any ambient request state.
type OrderService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewOrderService(db *sql.DB, m repomanager.RepositoryManager) *OrderService {
	return &OrderService{db: db, repomanager: m}
}

// CreateOrder places an order for userID. Stock checks, stock decrements,
// and the order rows are committed in a single transaction: either every
// item is reserved or nothing is.
func (s *OrderService) CreateOrder(ctx context.Context, userID int64, items []OrderItemRequest) (*models.Order, error) {

	if len(items) == 0 {
		return nil, common.ErrEmptyOrder
	}
	for _, item := range items {
		if item.Amount <= 0 {
			return nil, fmt.Errorf("invalid amount %d for book %d", item.Amount, item.BookID)
		}
	}

	var order *models.Order
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		bookRepo := s.repomanager.Books(tx)

		orderItems := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			book, err := bookRepo.FindByID(ctx, item.BookID)
			if err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					return common.ErrBookNotFound
				}
				return fmt.Errorf("error searching book: %w", err)
			}

			if err := bookRepo.DecrementStock(ctx, book.ID, item.Amount); err != nil {
				return err
			}

			orderItems = append(orderItems, models.OrderItem{
				BookID: book.ID,
				Amount: item.Amount,
				Price:  book.Price,
			})
		}

		var err error
		order, err = s.repomanager.Orders(tx).Create(ctx, &models.Order{
			UserID: userID,
			Items:  orderItems,
		})
		if err != nil {
			return fmt.Errorf("error creating order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (s *OrderService) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.repomanager.Orders(s.db).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrOrderNotFound
		}
		return nil, fmt.Errorf("error searching order: %w", err)
	}

	return order, nil
}

// GetOrdersByCustomer returns one page of a customer's orders, newest
// first, plus the total count.
func (s *OrderService) GetOrdersByCustomer(ctx context.Context, customerID int64, offset, limit int64) ([]*models.Order, int64, error) {
	result, total, err := s.repomanager.Orders(s.db).FindByUserID(ctx, customerID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing orders: %w", err)
	}

	return result, total, nil
}

// GetOrdersBetweenDates returns one page of orders created in [from, to).
func (s *OrderService) GetOrdersBetweenDates(ctx context.Context, from, to time.Time, offset, limit int64) ([]*models.Order, int64, error) {
	if !to.After(from) {
		return nil, 0, common.ErrInvalidDateRange
	}

	result, total, err := s.repomanager.Orders(s.db).FindBetweenDates(ctx, from, to, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing orders: %w", err)
	}

	return result, total, nil
}
