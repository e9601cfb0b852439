package service

import (
	"context"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/facturio/facturio-api/pkg/apperror"
	"github.com/facturio/facturio-api/pkg/pagination"
	"github.com/facturio/facturio-api/pkg/utils"
	"github.com/google/uuid"
)

// QuoteService handles quote lifecycle operations
type QuoteService struct {
	quoteRepo     repository.QuoteRepository
	quoteLineRepo repository.QuoteLineRepository
	invoiceRepo   repository.InvoiceRepository
	clientRepo    repository.ClientRepository
	termsRepo     repository.PaymentTermsRepository
}

// NewQuoteService creates a new quote service
func NewQuoteService(
	quoteRepo repository.QuoteRepository,
	quoteLineRepo repository.QuoteLineRepository,
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	termsRepo repository.PaymentTermsRepository,
) *QuoteService {
	return &QuoteService{
		quoteRepo:     quoteRepo,
		quoteLineRepo: quoteLineRepo,
		invoiceRepo:   invoiceRepo,
		clientRepo:    clientRepo,
		termsRepo:     termsRepo,
	}
}

// QuoteLineInput represents one line of a quote being created or updated
type QuoteLineInput struct {
	Designation string
	Quantity    float64
	UnitPrice   float64
	TaxRate     float64
}

// CreateQuoteInput represents the input for creating a quote
type CreateQuoteInput struct {
	TenantID       uuid.UUID
	ClientID       uuid.UUID
	PaymentTermsID *uuid.UUID
	Notes          *string
	Lines          []QuoteLineInput
}

// UpdateQuoteInput represents the input for updating a quote
type UpdateQuoteInput struct {
	TenantID       uuid.UUID
	ID             uuid.UUID
	ClientID       *uuid.UUID
	PaymentTermsID *uuid.UUID
	Notes          *string
	Lines          []QuoteLineInput
}

// CreateQuote creates a new draft quote with its lines. Totals are derived
// from the lines at write time.
func (s *QuoteService) CreateQuote(ctx context.Context, input *CreateQuoteInput) (*entity.Quote, error) {
	client, err := s.clientRepo.GetByID(ctx, input.TenantID, input.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.ErrClientNotFound
	}

	if input.PaymentTermsID != nil {
		terms, err := s.termsRepo.GetByID(ctx, input.TenantID, *input.PaymentTermsID)
		if err != nil {
			return nil, err
		}
		if terms == nil {
			return nil, apperror.ErrPaymentTermsNotFound
		}
	}

	seq, err := s.quoteRepo.NextSequenceNumber(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}

	lines := buildQuoteLines(uuid.Nil, input.Lines)
	totals := sumQuoteLines(lines)

	quote := &entity.Quote{
		TenantID:       input.TenantID,
		ClientID:       input.ClientID,
		PaymentTermsID: input.PaymentTermsID,
		Number:         utils.QuoteNumber(seq),
		Status:         enum.QuoteStatusBrouillon,
		MontantHT:      totals.HT,
		MontantTVA:     totals.TVA,
		MontantTTC:     totals.TTC,
		Notes:          input.Notes,
	}
	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, err
	}

	if len(lines) > 0 {
		for i := range lines {
			lines[i].QuoteID = quote.ID
		}
		if err := s.quoteLineRepo.CreateBatch(ctx, lines); err != nil {
			return nil, err
		}
	}

	return s.quoteRepo.GetWithRelations(ctx, input.TenantID, quote.ID)
}

// GetQuote retrieves a quote with its relations. Before returning it runs the
// paid reconciliation again, so a promotion missed at payment time (a crash
// between the invoice update and the quote update) heals on the next read.
func (s *QuoteService) GetQuote(ctx context.Context, tenantID, id uuid.UUID) (*entity.Quote, error) {
	quote, err := s.quoteRepo.GetWithRelations(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, apperror.ErrDevisNotFound
	}

	if quote.Status != enum.QuoteStatusPaye && allInvoicesPaid(quote.Invoices) {
		if err := s.quoteRepo.PromoteToPaid(ctx, tenantID, id); err != nil {
			return nil, err
		}
		quote.Status = enum.QuoteStatusPaye
	}

	return quote, nil
}

// ListQuotes retrieves quotes with pagination and filtering
func (s *QuoteService) ListQuotes(ctx context.Context, tenantID uuid.UUID, params *repository.QuoteFilterParams) (*pagination.PaginatedResult[entity.Quote], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	quotes, total, err := s.quoteRepo.List(ctx, tenantID, params)
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginatedResult(quotes, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// UpdateQuote updates a quote and replaces its lines. Accepted and paid
// quotes are locked against edits.
func (s *QuoteService) UpdateQuote(ctx context.Context, input *UpdateQuoteInput) (*entity.Quote, error) {
	quote, err := s.quoteRepo.GetByID(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, apperror.ErrDevisNotFound
	}
	if quote.Status.IsTerminal() {
		return nil, apperror.ErrStatusLocked
	}

	if input.ClientID != nil {
		client, err := s.clientRepo.GetByID(ctx, input.TenantID, *input.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, apperror.ErrClientNotFound
		}
		quote.ClientID = *input.ClientID
	}
	if input.PaymentTermsID != nil {
		terms, err := s.termsRepo.GetByID(ctx, input.TenantID, *input.PaymentTermsID)
		if err != nil {
			return nil, err
		}
		if terms == nil {
			return nil, apperror.ErrPaymentTermsNotFound
		}
		quote.PaymentTermsID = input.PaymentTermsID
	}
	if input.Notes != nil {
		quote.Notes = input.Notes
	}

	if input.Lines != nil {
		if err := s.quoteLineRepo.DeleteByQuoteID(ctx, quote.ID); err != nil {
			return nil, err
		}
		lines := buildQuoteLines(quote.ID, input.Lines)
		if len(lines) > 0 {
			if err := s.quoteLineRepo.CreateBatch(ctx, lines); err != nil {
				return nil, err
			}
		}
		totals := sumQuoteLines(lines)
		quote.MontantHT = totals.HT
		quote.MontantTVA = totals.TVA
		quote.MontantTTC = totals.TTC
	}

	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, err
	}

	return s.quoteRepo.GetWithRelations(ctx, input.TenantID, quote.ID)
}

// DeleteQuote soft-deletes a quote. Terminal quotes cannot be deleted.
func (s *QuoteService) DeleteQuote(ctx context.Context, tenantID, id uuid.UUID) error {
	quote, err := s.quoteRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if quote == nil {
		return apperror.ErrDevisNotFound
	}
	if quote.Status.IsTerminal() {
		return apperror.ErrStatusLocked
	}
	return s.quoteRepo.Delete(ctx, tenantID, id)
}

// SendQuote moves a draft quote to envoye and records the send time
func (s *QuoteService) SendQuote(ctx context.Context, tenantID, id uuid.UUID) (*entity.Quote, error) {
	return s.transition(ctx, tenantID, id, enum.QuoteStatusEnvoye, func(q *entity.Quote) bool {
		if len(q.Lines) == 0 {
			return false
		}
		return q.Status == enum.QuoteStatusBrouillon || q.Status == enum.QuoteStatusEnvoye
	})
}

// AcceptQuote moves a sent quote to accepte and records the acceptance time
func (s *QuoteService) AcceptQuote(ctx context.Context, tenantID, id uuid.UUID) (*entity.Quote, error) {
	return s.transition(ctx, tenantID, id, enum.QuoteStatusAccepte, func(q *entity.Quote) bool {
		return q.Status == enum.QuoteStatusEnvoye
	})
}

// RefuseQuote moves a sent quote to refuse
func (s *QuoteService) RefuseQuote(ctx context.Context, tenantID, id uuid.UUID) (*entity.Quote, error) {
	return s.transition(ctx, tenantID, id, enum.QuoteStatusRefuse, func(q *entity.Quote) bool {
		return q.Status == enum.QuoteStatusEnvoye
	})
}

func (s *QuoteService) transition(ctx context.Context, tenantID, id uuid.UUID, target enum.QuoteStatus, allowed func(*entity.Quote) bool) (*entity.Quote, error) {
	quote, err := s.quoteRepo.GetWithRelations(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, apperror.ErrDevisNotFound
	}
	if quote.Status.IsTerminal() {
		return nil, apperror.ErrStatusLocked
	}
	if !allowed(quote) {
		if target == enum.QuoteStatusEnvoye && len(quote.Lines) == 0 {
			return nil, apperror.ErrNoLignes
		}
		return nil, apperror.ErrInvalidStatus
	}

	if err := s.quoteRepo.UpdateStatus(ctx, tenantID, id, target); err != nil {
		return nil, err
	}

	return s.quoteRepo.GetWithRelations(ctx, tenantID, id)
}

func buildQuoteLines(quoteID uuid.UUID, inputs []QuoteLineInput) []entity.QuoteLine {
	lines := make([]entity.QuoteLine, 0, len(inputs))
	for i, in := range inputs {
		line := entity.QuoteLine{
			QuoteID:     quoteID,
			Position:    i + 1,
			Designation: in.Designation,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			TaxRate:     in.TaxRate,
		}
		line.ComputeAmounts()
		lines = append(lines, line)
	}
	return lines
}

func sumQuoteLines(lines []entity.QuoteLine) Totals {
	var t Totals
	for _, l := range lines {
		t.HT += l.TotalHT
		t.TVA += l.TotalTVA
		t.TTC += l.TotalTTC
	}
	return t
}

func allInvoicesPaid(invoices []entity.Invoice) bool {
	if len(invoices) == 0 {
		return false
	}
	for _, inv := range invoices {
		if inv.Status != enum.InvoiceStatusPayee {
			return false
		}
	}
	return true
}
