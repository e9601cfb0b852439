package repository

import (
	"context"
	"errors"

	"github.com/facturio/facturio-api/internal/domain/entity"
	domainRepo "github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type paymentTermsRepository struct {
	db *gorm.DB
}

// NewPaymentTermsRepository creates a new payment-terms repository
func NewPaymentTermsRepository(db *gorm.DB) domainRepo.PaymentTermsRepository {
	return &paymentTermsRepository{db: db}
}

func (r *paymentTermsRepository) Create(ctx context.Context, terms *entity.PaymentTerms) error {
	return r.db.WithContext(ctx).Create(terms).Error
}

func (r *paymentTermsRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.PaymentTerms, error) {
	var terms entity.PaymentTerms
	err := r.db.WithContext(ctx).
		First(&terms, "id = ? AND tenant_id = ?", id, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &terms, nil
}

func (r *paymentTermsRepository) Update(ctx context.Context, terms *entity.PaymentTerms) error {
	return r.db.WithContext(ctx).Save(terms).Error
}

func (r *paymentTermsRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&entity.PaymentTerms{}, "id = ? AND tenant_id = ?", id, tenantID).Error
}

func (r *paymentTermsRepository) List(ctx context.Context, tenantID uuid.UUID) ([]entity.PaymentTerms, error) {
	var terms []entity.PaymentTerms
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Find(&terms).Error
	return terms, err
}
