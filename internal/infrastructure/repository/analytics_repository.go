package repository

import (
	"context"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	domainRepo "github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) CountQuotesByStatus(ctx context.Context, tenantID uuid.UUID) ([]domainRepo.QuoteStatusCount, error) {
	var counts []domainRepo.QuoteStatusCount
	err := r.db.WithContext(ctx).Model(&entity.Quote{}).
		Select("status, COUNT(*) as count").
		Where("tenant_id = ?", tenantID).
		Group("status").
		Scan(&counts).Error
	return counts, err
}

func (r *analyticsRepository) RevenueSummary(ctx context.Context, tenantID uuid.UUID) (*domainRepo.RevenueSummary, error) {
	var summary domainRepo.RevenueSummary

	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Select("COALESCE(SUM(montant_ttc), 0) as invoiced_ttc, COUNT(*) as invoice_count").
		Where("tenant_id = ?", tenantID).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}

	var paid struct {
		PaidTTC   float64
		PaidCount int64
	}
	err = r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Select("COALESCE(SUM(montant_ttc), 0) as paid_ttc, COUNT(*) as paid_count").
		Where("tenant_id = ? AND status = ?", tenantID, enum.InvoiceStatusPayee).
		Scan(&paid).Error
	if err != nil {
		return nil, err
	}

	summary.PaidTTC = paid.PaidTTC
	summary.PaidCount = paid.PaidCount
	summary.OutstandingTTC = summary.InvoicedTTC - summary.PaidTTC
	return &summary, nil
}
