package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/bookdelivery/backend/internal/common"
	"github.com/bookdelivery/backend/internal/server/models"
	"github.com/bookdelivery/backend/internal/server/services"
)

type orderItemRequest struct {
	BookID int64 `json:"bookId"`
	Amount int64 `json:"amount"`
}

type createOrderRequest struct {
	Items []orderItemRequest `json:"orderDetails"`
}

type ordersBetweenDatesRequest struct {
	StartDate  time.Time         `json:"startDate"`
	EndDate    time.Time         `json:"endDate"`
	Pagination PaginationRequest `json:"pagination"`
}

type orderItemResponse struct {
	BookID int64   `json:"bookId"`
	Amount int64   `json:"amount"`
	Price  float64 `json:"price"`
}

type orderResponse struct {
	ID         int64               `json:"id"`
	CustomerID int64               `json:"customerId"`
	Items      []orderItemResponse `json:"orderDetails"`
	CreatedAt  time.Time           `json:"createdAt"`
}

func newOrderResponse(o *models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResponse{
			BookID: it.BookID,
			Amount: it.Amount,
			Price:  it.Price,
		})
	}
	return orderResponse{
		ID:         o.ID,
		CustomerID: o.UserID,
		Items:      items,
		CreatedAt:  o.CreatedAt,
	}
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]services.OrderItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, services.OrderItemRequest{BookID: it.BookID, Amount: it.Amount})
	}

	order, err := s.orders.CreateOrder(r.Context(), claims.UserID, items)
	switch {
	case errors.Is(err, common.ErrEmptyOrder):
		writeError(w, http.StatusBadRequest, "order must contain at least one item")
	case errors.Is(err, common.ErrBookNotFound):
		writeError(w, http.StatusNotFound, "book not found")
	case errors.Is(err, common.ErrInsufficientStock):
		writeError(w, http.StatusConflict, "insufficient stock")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "could not create order")
	default:
		writeSuccess(w, http.StatusCreated, newOrderResponse(order))
	}
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	id, err := pathID(r, "orderId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := s.orders.GetOrderByID(r.Context(), id)
	switch {
	case errors.Is(err, common.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order not found")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "could not get order")
	case claims.Role != models.RoleAdmin && order.UserID != claims.UserID:
		// customers may only read their own orders
		writeError(w, http.StatusForbidden, "insufficient privileges")
	default:
		writeSuccess(w, http.StatusOK, newOrderResponse(order))
	}
}

func (s *Server) handleGetOrdersByCustomer(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	customerID, err := pathID(r, "customerId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	if claims.Role != models.RoleAdmin && customerID != claims.UserID {
		writeError(w, http.StatusForbidden, "insufficient privileges")
		return
	}

	var page PaginationRequest
	if err := json.NewDecoder(r.Body).Decode(&page); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := page.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "page and size must be positive")
		return
	}

	orders, total, err := s.orders.GetOrdersByCustomer(r.Context(), customerID, page.Offset(), page.Size)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list orders")
		return
	}

	content := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		content = append(content, newOrderResponse(o))
	}
	writeSuccess(w, http.StatusOK, newPageResponse(content, page, total))
}

func (s *Server) handleGetOrdersBetweenDates(w http.ResponseWriter, r *http.Request) {
	var req ordersBetweenDatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Pagination.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "page and size must be positive")
		return
	}

	orders, total, err := s.orders.GetOrdersBetweenDates(r.Context(), req.StartDate, req.EndDate, req.Pagination.Offset(), req.Pagination.Size)
	switch {
	case errors.Is(err, common.ErrInvalidDateRange):
		writeError(w, http.StatusBadRequest, "end date must be after start date")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "could not list orders")
		return
	}

	content := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		content = append(content, newOrderResponse(o))
	}
	writeSuccess(w, http.StatusOK, newPageResponse(content, req.Pagination, total))
}
