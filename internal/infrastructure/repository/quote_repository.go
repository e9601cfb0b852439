package repository

import (
	"context"
	"errors"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	domainRepo "github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type quoteRepository struct {
	db *gorm.DB
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *gorm.DB) domainRepo.QuoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) Create(ctx context.Context, quote *entity.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *quoteRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.Quote, error) {
	var quote entity.Quote
	err := r.db.WithContext(ctx).
		First(&quote, "id = ? AND tenant_id = ?", id, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *quoteRepository) GetWithRelations(ctx context.Context, tenantID, id uuid.UUID) (*entity.Quote, error) {
	var quote entity.Quote
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("PaymentTerms").
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Invoices").
		First(&quote, "id = ? AND tenant_id = ?", id, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *quoteRepository) Update(ctx context.Context, quote *entity.Quote) error {
	return r.db.WithContext(ctx).Save(quote).Error
}

func (r *quoteRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&entity.Quote{}, "id = ? AND tenant_id = ?", id, tenantID).Error
}

func (r *quoteRepository) List(ctx context.Context, tenantID uuid.UUID, params *domainRepo.QuoteFilterParams) ([]entity.Quote, int64, error) {
	var quotes []entity.Quote
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Quote{}).
		Where("tenant_id = ?", tenantID)

	if params.Search != "" {
		query = query.Where("number ILIKE ?", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.ClientID != nil {
		query = query.Where("client_id = ?", *params.ClientID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Client").
		Order(sortBy + " " + sortOrder).
		Find(&quotes).Error

	return quotes, total, err
}

func (r *quoteRepository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status enum.QuoteStatus) error {
	updates := map[string]interface{}{"status": status}
	switch status {
	case enum.QuoteStatusEnvoye:
		updates["sent_at"] = gorm.Expr("CURRENT_TIMESTAMP")
	case enum.QuoteStatusAccepte:
		updates["accepted_at"] = gorm.Expr("CURRENT_TIMESTAMP")
	}
	return r.db.WithContext(ctx).Model(&entity.Quote{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Updates(updates).Error
}

func (r *quoteRepository) PromoteToPaid(ctx context.Context, tenantID, id uuid.UUID) error {
	// Guard repeated in the WHERE clause so the promotion stays a no-op once
	// the quote is already paye.
	return r.db.WithContext(ctx).Model(&entity.Quote{}).
		Where("id = ? AND tenant_id = ? AND status <> ?", id, tenantID, enum.QuoteStatusPaye).
		Update("status", enum.QuoteStatusPaye).Error
}

func (r *quoteRepository) NextSequenceNumber(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Quote{}).
		Unscoped().
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	return int(count) + 1, err
}

type quoteLineRepository struct {
	db *gorm.DB
}

// NewQuoteLineRepository creates a new quote line repository
func NewQuoteLineRepository(db *gorm.DB) domainRepo.QuoteLineRepository {
	return &quoteLineRepository{db: db}
}

func (r *quoteLineRepository) CreateBatch(ctx context.Context, lines []entity.QuoteLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

func (r *quoteLineRepository) GetByQuoteID(ctx context.Context, quoteID uuid.UUID) ([]entity.QuoteLine, error) {
	var lines []entity.QuoteLine
	err := r.db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Order("position ASC").
		Find(&lines).Error
	return lines, err
}

func (r *quoteLineRepository) DeleteByQuoteID(ctx context.Context, quoteID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.QuoteLine{}, "quote_id = ?", quoteID).Error
}
