package repository

import (
	"context"
	"errors"
	"time"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	domainRepo "github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		First(&invoice, "id = ? AND tenant_id = ?", id, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) GetWithRelations(ctx context.Context, tenantID, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&invoice, "id = ? AND tenant_id = ?", id, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *invoiceRepository) List(ctx context.Context, tenantID uuid.UUID, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).
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

	if params.QuoteID != nil {
		query = query.Where("quote_id = ?", *params.QuoteID)
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
		Find(&invoices).Error

	return invoices, total, err
}

func (r *invoiceRepository) ListByQuoteID(ctx context.Context, tenantID, quoteID uuid.UUID) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	err := r.db.WithContext(ctx).
		Where("quote_id = ? AND tenant_id = ?", quoteID, tenantID).
		Order("created_at ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) UpdateTotals(ctx context.Context, tenantID, id uuid.UUID, ht, tva, ttc float64) error {
	return r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Updates(map[string]interface{}{
			"montant_ht":  ht,
			"montant_tva": tva,
			"montant_ttc": ttc,
		}).Error
}

func (r *invoiceRepository) MarkSent(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	// The paid guard lives in the WHERE clause: two racing sends or a send
	// racing a payment resolve on the row update itself.
	res := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("id = ? AND tenant_id = ? AND status <> ?", id, tenantID, enum.InvoiceStatusPayee).
		Update("status", enum.InvoiceStatusEnvoyee)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *invoiceRepository) MarkPaid(ctx context.Context, tenantID, id uuid.UUID, paymentDate time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("id = ? AND tenant_id = ? AND status <> ?", id, tenantID, enum.InvoiceStatusPayee).
		Updates(map[string]interface{}{
			"status":       enum.InvoiceStatusPayee,
			"payment_date": paymentDate,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *invoiceRepository) NextSequenceNumber(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Unscoped().
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	return int(count) + 1, err
}

type invoiceLineRepository struct {
	db *gorm.DB
}

// NewInvoiceLineRepository creates a new invoice line repository
func NewInvoiceLineRepository(db *gorm.DB) domainRepo.InvoiceLineRepository {
	return &invoiceLineRepository{db: db}
}

func (r *invoiceLineRepository) CreateBatch(ctx context.Context, lines []entity.InvoiceLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

func (r *invoiceLineRepository) GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceLine, error) {
	var lines []entity.InvoiceLine
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("position ASC").
		Find(&lines).Error
	return lines, err
}

func (r *invoiceLineRepository) DeleteByInvoiceID(ctx context.Context, invoiceID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.InvoiceLine{}, "invoice_id = ?", invoiceID).Error
}
