package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bookdelivery/backend/internal/common"
	"github.com/bookdelivery/backend/internal/server/models"
	"github.com/bookdelivery/backend/internal/server/services"
)

type bookRequest struct {
	ISBN           string  `json:"isbn"`
	Name           string  `json:"name"`
	AuthorFullName string  `json:"authorFullName"`
	Stock          int64   `json:"stock"`
	Price          float64 `json:"price"`
}

type bookStockRequest struct {
	Stock int64 `json:"stock"`
}

type bookResponse struct {
	ID             int64   `json:"id"`
	ISBN           string  `json:"isbn"`
	Name           string  `json:"name"`
	AuthorFullName string  `json:"authorFullName"`
	Stock          int64   `json:"stock"`
	Price          float64 `json:"price"`
}

func newBookResponse(b *models.Book) bookResponse {
	return bookResponse{
		ID:             b.ID,
		ISBN:           b.ISBN,
		Name:           b.Name,
		AuthorFullName: b.AuthorFullName,
		Stock:          b.Stock,
		Price:          b.Price,
	}
}

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[key], 10, 64)
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ISBN == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "isbn and name are required")
		return
	}

	book, err := s.books.CreateBook(r.Context(), services.CreateBookRequest{
		ISBN:           req.ISBN,
		Name:           req.Name,
		AuthorFullName: req.AuthorFullName,
		Stock:          req.Stock,
		Price:          req.Price,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not create book")
		return
	}
	writeSuccess(w, http.StatusCreated, newBookResponse(book))
}

func (s *Server) handleGetAllBooks(w http.ResponseWriter, r *http.Request) {
	var page PaginationRequest
	if err := json.NewDecoder(r.Body).Decode(&page); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := page.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "page and size must be positive")
		return
	}

	books, total, err := s.books.GetAllBooks(r.Context(), page.Offset(), page.Size)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list books")
		return
	}

	content := make([]bookResponse, 0, len(books))
	for _, b := range books {
		content = append(content, newBookResponse(b))
	}
	writeSuccess(w, http.StatusOK, newPageResponse(content, page, total))
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "bookId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	book, err := s.books.GetBookByID(r.Context(), id)
	switch {
	case errors.Is(err, common.ErrBookNotFound):
		writeError(w, http.StatusNotFound, "book not found")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "could not get book")
	default:
		writeSuccess(w, http.StatusOK, newBookResponse(book))
	}
}

func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "bookId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	book, err := s.books.UpdateBook(r.Context(), id, services.UpdateBookRequest{
		ISBN:           req.ISBN,
		Name:           req.Name,
		AuthorFullName: req.AuthorFullName,
		Stock:          req.Stock,
		Price:          req.Price,
	})
	switch {
	case errors.Is(err, common.ErrBookNotFound):
		writeError(w, http.StatusNotFound, "book not found")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "could not update book")
	default:
		writeSuccess(w, http.StatusOK, newBookResponse(book))
	}
}

func (s *Server) handleUpdateBookStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "bookId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	var req bookStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Stock < 0 {
		writeError(w, http.StatusBadRequest, "stock must not be negative")
		return
	}

	book, err := s.books.UpdateBookStock(r.Context(), id, req.Stock)
	switch {
	case errors.Is(err, common.ErrBookNotFound):
		writeError(w, http.StatusNotFound, "book not found")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "could not update stock")
	default:
		writeSuccess(w, http.StatusOK, newBookResponse(book))
	}
}
