// Package httpapi exposes the REST surface of the book delivery backend:
// authentication, book inventory, orders, and statistics endpoints.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/bookdelivery/backend/internal/logging"
	"github.com/bookdelivery/backend/internal/server/models"
	"github.com/bookdelivery/backend/internal/server/services"
)

// AuthService is the slice of the auth service the HTTP layer consumes.
type AuthService interface {
	Register(ctx context.Context, req services.SignupRequest) error
	Login(ctx context.Context, req services.LoginRequest) (*services.JWTResponse, error)
	RefreshToken(ctx context.Context, req services.TokenRefreshRequest) (*services.TokenRefreshResponse, error)
	Logout(ctx context.Context, bearerHeader string) string
}

type BookService interface {
	CreateBook(ctx context.Context, req services.CreateBookRequest) (*models.Book, error)
	GetBookByID(ctx context.Context, id int64) (*models.Book, error)
	GetAllBooks(ctx context.Context, offset, limit int64) ([]*models.Book, int64, error)
	UpdateBook(ctx context.Context, id int64, req services.UpdateBookRequest) (*models.Book, error)
	UpdateBookStock(ctx context.Context, id int64, stock int64) (*models.Book, error)
}

type OrderService interface {
	CreateOrder(ctx context.Context, userID int64, items []services.OrderItemRequest) (*models.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	GetOrdersByCustomer(ctx context.Context, customerID int64, offset, limit int64) ([]*models.Order, int64, error)
	GetOrdersBetweenDates(ctx context.Context, from, to time.Time, offset, limit int64) ([]*models.Order, int64, error)
}

type StatisticsService interface {
	GetOrderStatisticsByCustomer(ctx context.Context, customerID int64, offset, limit int64) ([]*models.OrderReport, int64, error)
	GetOrderStatistics(ctx context.Context, offset, limit int64) ([]*models.OrderReport, int64, error)
}

type Server struct {
	address    string
	logger     logging.Logger
	auth       AuthService
	books      BookService
	orders     OrderService
	statistics StatisticsService
	jwtSecret  []byte
	limiter    *rateLimiter
}

func NewServer(address string, l logging.Logger, as AuthService, bs BookService, os OrderService, ss StatisticsService, secretKey string) *Server {
	return &Server{
		address:    address,
		logger:     l.With("module", "http_server"),
		auth:       as,
		books:      bs,
		orders:     os,
		statistics: ss,
		jwtSecret:  []byte(secretKey),
		limiter:    newRateLimiter(rate.Limit(50), 100),
	}
}

// Router assembles the endpoint tree with its middleware chain.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.Use(securityHeaders)
	r.Use(s.logging)
	r.Use(s.rateLimit)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	v1.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	v1.HandleFunc("/auth/refresh-token", s.handleRefreshToken).Methods(http.MethodPost)
	v1.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)

	protected := v1.NewRoute().Subrouter()
	protected.Use(s.authenticate)

	protected.HandleFunc("/books", s.requireRole(models.RoleAdmin, s.handleCreateBook)).Methods(http.MethodPost)
	protected.HandleFunc("/books/all", s.handleGetAllBooks).Methods(http.MethodPost)
	protected.HandleFunc("/books/stock-amount/{bookId}", s.requireRole(models.RoleAdmin, s.handleUpdateBookStock)).Methods(http.MethodPut)
	protected.HandleFunc("/books/{bookId}", s.handleGetBook).Methods(http.MethodGet)
	protected.HandleFunc("/books/{bookId}", s.requireRole(models.RoleAdmin, s.handleUpdateBook)).Methods(http.MethodPut)

	protected.HandleFunc("/orders", s.handleCreateOrder).Methods(http.MethodPost)
	protected.HandleFunc("/orders/customer/{customerId}", s.handleGetOrdersByCustomer).Methods(http.MethodPost)
	protected.HandleFunc("/orders/between-dates", s.requireRole(models.RoleAdmin, s.handleGetOrdersBetweenDates)).Methods(http.MethodPost)
	protected.HandleFunc("/orders/{orderId}", s.handleGetOrder).Methods(http.MethodGet)

	protected.HandleFunc("/statistics/{customerId}", s.handleGetCustomerStatistics).Methods(http.MethodGet)
	protected.HandleFunc("/statistics", s.requireRole(models.RoleAdmin, s.handleGetStatistics)).Methods(http.MethodGet)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:         s.address,
		Handler:      s.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
