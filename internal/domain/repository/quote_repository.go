package repository

import (
	"context"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/pkg/pagination"
	"github.com/google/uuid"
)

// QuoteRepository defines the interface for quote data operations.
// Every read and write is scoped by the tenant ID; a row that exists under a
// different tenant behaves exactly like a missing row.
type QuoteRepository interface {
	Create(ctx context.Context, quote *entity.Quote) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.Quote, error)
	GetWithRelations(ctx context.Context, tenantID, id uuid.UUID) (*entity.Quote, error)
	Update(ctx context.Context, quote *entity.Quote) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, params *QuoteFilterParams) ([]entity.Quote, int64, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status enum.QuoteStatus) error
	// PromoteToPaid flips the quote to paye unless it already is. The guard
	// is part of the UPDATE's WHERE clause, which makes the promotion safe
	// to run on every read.
	PromoteToPaid(ctx context.Context, tenantID, id uuid.UUID) error
	NextSequenceNumber(ctx context.Context, tenantID uuid.UUID) (int, error)
}

// QuoteFilterParams contains filtering parameters for quote queries
type QuoteFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.QuoteStatus
	ClientID   *uuid.UUID
	SortBy     string
	SortOrder  string
}

// QuoteLineRepository defines the interface for quote line data operations
type QuoteLineRepository interface {
	CreateBatch(ctx context.Context, lines []entity.QuoteLine) error
	GetByQuoteID(ctx context.Context, quoteID uuid.UUID) ([]entity.QuoteLine, error)
	DeleteByQuoteID(ctx context.Context, quoteID uuid.UUID) error
}
