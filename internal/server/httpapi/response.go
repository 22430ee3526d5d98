package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/bookdelivery/backend/internal/common"
)

// CustomResponse is the envelope every endpoint replies with.
type CustomResponse struct {
	Time       time.Time `json:"time"`
	HttpStatus string    `json:"httpStatus"`
	IsSuccess  bool      `json:"isSuccess"`
	Response   any       `json:"response,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// PaginationRequest selects one page of a listing. Pages are 1-based.
type PaginationRequest struct {
	Page int64 `json:"page"`
	Size int64 `json:"size"`
}

func (p PaginationRequest) Validate() error {
	if p.Page < 1 || p.Size < 1 {
		return common.ErrInvalidPageRequest
	}
	return nil
}

func (p PaginationRequest) Offset() int64 {
	return (p.Page - 1) * p.Size
}

// PageResponse wraps one page of content together with paging totals.
type PageResponse struct {
	Content           any   `json:"content"`
	PageNumber        int64 `json:"pageNumber"`
	PageSize          int64 `json:"pageSize"`
	TotalElementCount int64 `json:"totalElementCount"`
	TotalPageCount    int64 `json:"totalPageCount"`
}

func newPageResponse(content any, p PaginationRequest, total int64) PageResponse {
	pages := total / p.Size
	if total%p.Size != 0 {
		pages++
	}
	return PageResponse{
		Content:           content,
		PageNumber:        p.Page,
		PageSize:          p.Size,
		TotalElementCount: total,
		TotalPageCount:    pages,
	}
}

// statusName renders an HTTP status code the way the API names it, e.g.
// 500 -> "INTERNAL_SERVER_ERROR".
func statusName(code int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_"))
}

func writeJSON(w http.ResponseWriter, code int, body CustomResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, code int, payload any) {
	writeJSON(w, code, CustomResponse{
		Time:       time.Now(),
		HttpStatus: statusName(code),
		IsSuccess:  true,
		Response:   payload,
	})
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, CustomResponse{
		Time:       time.Now(),
		HttpStatus: statusName(code),
		IsSuccess:  false,
		Error:      message,
	})
}
