package httpapi

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/bookdelivery/backend/internal/logging"
	"github.com/bookdelivery/backend/internal/server/models"
	"github.com/bookdelivery/backend/internal/server/services"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeAuthService struct {
	registerErr  error
	loginOut     *services.JWTResponse
	loginErr     error
	refreshOut   *services.TokenRefreshResponse
	refreshErr   error
	logoutResult string

	lastSignup services.SignupRequest
}

func (f *fakeAuthService) Register(_ context.Context, req services.SignupRequest) error {
	f.lastSignup = req
	return f.registerErr
}

func (f *fakeAuthService) Login(_ context.Context, _ services.LoginRequest) (*services.JWTResponse, error) {
	return f.loginOut, f.loginErr
}

func (f *fakeAuthService) RefreshToken(_ context.Context, _ services.TokenRefreshRequest) (*services.TokenRefreshResponse, error) {
	return f.refreshOut, f.refreshErr
}

func (f *fakeAuthService) Logout(_ context.Context, _ string) string {
	return f.logoutResult
}

type fakeBookService struct {
	book    *models.Book
	books   []*models.Book
	total   int64
	err     error
	lastReq any
}

func (f *fakeBookService) CreateBook(_ context.Context, req services.CreateBookRequest) (*models.Book, error) {
	f.lastReq = req
	return f.book, f.err
}

func (f *fakeBookService) GetBookByID(_ context.Context, _ int64) (*models.Book, error) {
	return f.book, f.err
}

func (f *fakeBookService) GetAllBooks(_ context.Context, _, _ int64) ([]*models.Book, int64, error) {
	return f.books, f.total, f.err
}

func (f *fakeBookService) UpdateBook(_ context.Context, _ int64, req services.UpdateBookRequest) (*models.Book, error) {
	f.lastReq = req
	return f.book, f.err
}

func (f *fakeBookService) UpdateBookStock(_ context.Context, _ int64, stock int64) (*models.Book, error) {
	f.lastReq = stock
	return f.book, f.err
}

type fakeOrderService struct {
	order  *models.Order
	orders []*models.Order
	total  int64
	err    error

	createdUserID int64
	createdItems  []services.OrderItemRequest
}

func (f *fakeOrderService) CreateOrder(_ context.Context, userID int64, items []services.OrderItemRequest) (*models.Order, error) {
	f.createdUserID = userID
	f.createdItems = items
	return f.order, f.err
}

func (f *fakeOrderService) GetOrderByID(_ context.Context, _ int64) (*models.Order, error) {
	return f.order, f.err
}

func (f *fakeOrderService) GetOrdersByCustomer(_ context.Context, _ int64, _, _ int64) ([]*models.Order, int64, error) {
	return f.orders, f.total, f.err
}

func (f *fakeOrderService) GetOrdersBetweenDates(_ context.Context, _, _ time.Time, _, _ int64) ([]*models.Order, int64, error) {
	return f.orders, f.total, f.err
}

type fakeStatisticsService struct {
	reports []*models.OrderReport
	total   int64
	err     error
}

func (f *fakeStatisticsService) GetOrderStatisticsByCustomer(_ context.Context, _ int64, _, _ int64) ([]*models.OrderReport, int64, error) {
	return f.reports, f.total, f.err
}

func (f *fakeStatisticsService) GetOrderStatistics(_ context.Context, _, _ int64) ([]*models.OrderReport, int64, error) {
	return f.reports, f.total, f.err
}
