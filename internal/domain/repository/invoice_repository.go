package repository

import (
	"context"
	"time"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/pkg/pagination"
	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for invoice data operations.
// Tenant scoping follows the same ownership conjunction as quotes: id AND
// tenant_id, so cross-tenant access is indistinguishable from not-found.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.Invoice, error)
	GetWithRelations(ctx context.Context, tenantID, id uuid.UUID) (*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	List(ctx context.Context, tenantID uuid.UUID, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	ListByQuoteID(ctx context.Context, tenantID, quoteID uuid.UUID) ([]entity.Invoice, error)
	// UpdateTotals persists the frozen totals computed by the finalize
	// operation. Status is left untouched.
	UpdateTotals(ctx context.Context, tenantID, id uuid.UUID, ht, tva, ttc float64) error
	// MarkSent sets the status to envoyee unless the invoice is already
	// paid. The status guard runs inside the UPDATE's WHERE clause; a false
	// return means the guard did not hold.
	MarkSent(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
	// MarkPaid sets the status to payee and records the payment date unless
	// the invoice is already paid. Same compare-and-set contract as MarkSent.
	MarkPaid(ctx context.Context, tenantID, id uuid.UUID, paymentDate time.Time) (bool, error)
	NextSequenceNumber(ctx context.Context, tenantID uuid.UUID) (int, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.InvoiceStatus
	ClientID   *uuid.UUID
	QuoteID    *uuid.UUID
	SortBy     string
	SortOrder  string
}

// InvoiceLineRepository defines the interface for invoice line data operations
type InvoiceLineRepository interface {
	CreateBatch(ctx context.Context, lines []entity.InvoiceLine) error
	GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceLine, error)
	DeleteByInvoiceID(ctx context.Context, invoiceID uuid.UUID) error
}
