package httpapi

import (
	"net/http"
	"strconv"

	"github.com/bookdelivery/backend/internal/server/models"
)

type orderReportResponse struct {
	Month           string  `json:"month"`
	Year            int     `json:"year"`
	TotalOrderCount int64   `json:"totalOrderCount"`
	TotalBookCount  int64   `json:"totalBookCount"`
	TotalPrice      float64 `json:"totalPrice"`
}

func newOrderReportResponses(reports []*models.OrderReport) []orderReportResponse {
	out := make([]orderReportResponse, 0, len(reports))
	for _, rep := range reports {
		out = append(out, orderReportResponse{
			Month:           rep.Month,
			Year:            rep.Year,
			TotalOrderCount: rep.TotalOrderCount,
			TotalBookCount:  rep.TotalBookCount,
			TotalPrice:      rep.TotalPrice,
		})
	}
	return out
}

// queryPagination reads page/size query parameters, defaulting to the first
// page of 10 entries.
func queryPagination(r *http.Request) (PaginationRequest, error) {
	page := PaginationRequest{Page: 1, Size: 10}

	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return page, err
		}
		page.Page = n
	}
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return page, err
		}
		page.Size = n
	}

	return page, page.Validate()
}

func (s *Server) handleGetCustomerStatistics(w http.ResponseWriter, r *http.Request) {
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

	page, err := queryPagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "page and size must be positive")
		return
	}

	reports, total, err := s.statistics.GetOrderStatisticsByCustomer(r.Context(), customerID, page.Offset(), page.Size)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not get statistics")
		return
	}
	writeSuccess(w, http.StatusOK, newPageResponse(newOrderReportResponses(reports), page, total))
}

func (s *Server) handleGetStatistics(w http.ResponseWriter, r *http.Request) {
	page, err := queryPagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "page and size must be positive")
		return
	}

	reports, total, err := s.statistics.GetOrderStatistics(r.Context(), page.Offset(), page.Size)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not get statistics")
		return
	}
	writeSuccess(w, http.StatusOK, newPageResponse(newOrderReportResponses(reports), page, total))
}
