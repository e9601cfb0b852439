package repository

import (
	"context"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/google/uuid"
)

// PaymentTermsRepository defines the interface for payment-terms templates
type PaymentTermsRepository interface {
	Create(ctx context.Context, terms *entity.PaymentTerms) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.PaymentTerms, error)
	Update(ctx context.Context, terms *entity.PaymentTerms) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID) ([]entity.PaymentTerms, error)
}
