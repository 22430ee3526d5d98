package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bookdelivery/backend/internal/server/models"
	"github.com/bookdelivery/backend/internal/server/repositories/repomanager"
)

// StatisticsService produces per-month order reports.
type StatisticsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewStatisticsService(db *sql.DB, m repomanager.RepositoryManager) *StatisticsService {
	return &StatisticsService{db: db, repomanager: m}
}

// GetOrderStatisticsByCustomer returns one page of monthly order totals for
// a single customer, most recent month first.
func (s *StatisticsService) GetOrderStatisticsByCustomer(ctx context.Context, customerID int64, offset, limit int64) ([]*models.OrderReport, int64, error) {
	reports, total, err := s.repomanager.Orders(s.db).GetOrderReports(ctx, &customerID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error building order report: %w", err)
	}

	return reports, total, nil
}

// GetOrderStatistics returns one page of monthly order totals across all
// customers.
func (s *StatisticsService) GetOrderStatistics(ctx context.Context, offset, limit int64) ([]*models.OrderReport, int64, error) {
	reports, total, err := s.repomanager.Orders(s.db).GetOrderReports(ctx, nil, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error building order report: %w", err)
	}

	return reports, total, nil
}
