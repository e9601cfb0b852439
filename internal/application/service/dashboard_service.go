package service

import (
	"context"

	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/google/uuid"
)

// DashboardService aggregates read-side statistics for the dashboard
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(analyticsRepo repository.AnalyticsRepository) *DashboardService {
	return &DashboardService{analyticsRepo: analyticsRepo}
}

// DashboardStats holds the aggregate figures shown on the dashboard
type DashboardStats struct {
	QuotesByStatus map[string]int64           `json:"quotes_by_status"`
	Revenue        *repository.RevenueSummary `json:"revenue"`
}

// GetStats builds the dashboard aggregates for a tenant
func (s *DashboardService) GetStats(ctx context.Context, tenantID uuid.UUID) (*DashboardStats, error) {
	counts, err := s.analyticsRepo.CountQuotesByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int64, len(counts))
	for _, c := range counts {
		byStatus[enum.QuoteStatus(c.Status).String()] = c.Count
	}

	revenue, err := s.analyticsRepo.RevenueSummary(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		QuotesByStatus: byStatus,
		Revenue:        revenue,
	}, nil
}
