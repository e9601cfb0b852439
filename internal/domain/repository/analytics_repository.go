package repository

import (
	"context"

	"github.com/google/uuid"
)

// QuoteStatusCount is one row of the per-status quote breakdown
type QuoteStatusCount struct {
	Status int   `json:"status"`
	Count  int64 `json:"count"`
}

// RevenueSummary aggregates invoiced and collected amounts for a tenant
type RevenueSummary struct {
	InvoicedTTC    float64 `json:"invoiced_ttc"`
	PaidTTC        float64 `json:"paid_ttc"`
	OutstandingTTC float64 `json:"outstanding_ttc"`
	InvoiceCount   int64   `json:"invoice_count"`
	PaidCount      int64   `json:"paid_count"`
}

// AnalyticsRepository defines read-side aggregate queries for the dashboard
type AnalyticsRepository interface {
	CountQuotesByStatus(ctx context.Context, tenantID uuid.UUID) ([]QuoteStatusCount, error)
	RevenueSummary(ctx context.Context, tenantID uuid.UUID) (*RevenueSummary, error)
}
