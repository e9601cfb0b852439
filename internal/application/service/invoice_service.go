package service

import (
	"context"
	"time"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/facturio/facturio-api/pkg/apperror"
	"github.com/facturio/facturio-api/pkg/email"
	"github.com/facturio/facturio-api/pkg/pagination"
	"github.com/facturio/facturio-api/pkg/utils"
	"github.com/google/uuid"
)

// Notifier delivers finalized invoices to clients. *notify.Dispatcher is the
// production implementation.
type Notifier interface {
	SendInvoiceEmail(to string, data email.InvoiceEmailData) error
	SendInvoiceMessage(phone string, data email.InvoiceEmailData) error
}

// InvoiceService handles invoice lifecycle operations
type InvoiceService struct {
	invoiceRepo     repository.InvoiceRepository
	invoiceLineRepo repository.InvoiceLineRepository
	quoteRepo       repository.QuoteRepository
	clientRepo      repository.ClientRepository
	dispatcher      Notifier
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	invoiceLineRepo repository.InvoiceLineRepository,
	quoteRepo repository.QuoteRepository,
	clientRepo repository.ClientRepository,
	dispatcher Notifier,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:     invoiceRepo,
		invoiceLineRepo: invoiceLineRepo,
		quoteRepo:       quoteRepo,
		clientRepo:      clientRepo,
		dispatcher:      dispatcher,
	}
}

// InvoiceLineInput represents one line of an invoice being created or updated
type InvoiceLineInput struct {
	Designation string
	Quantity    float64
	UnitPrice   float64
	TaxRate     float64
}

// CreateInvoiceInput represents the input for creating a full invoice from an
// accepted quote
type CreateInvoiceInput struct {
	TenantID uuid.UUID
	QuoteID  uuid.UUID
	DueDate  *time.Time
}

// UpdateInvoiceInput represents the input for updating a draft invoice
type UpdateInvoiceInput struct {
	TenantID uuid.UUID
	ID       uuid.UUID
	DueDate  *time.Time
	Lines    []InvoiceLineInput
}

// SendInvoiceInput represents the input for sending an invoice
type SendInvoiceInput struct {
	TenantID uuid.UUID
	ID       uuid.UUID
	// Email overrides the client's address when set
	Email *string
	// Phone overrides the client's number when set (message channel)
	Phone *string
	// Channel is "email" or "message"
	Channel string
}

// MarkPaidInput represents the input for marking an invoice as paid
type MarkPaidInput struct {
	TenantID uuid.UUID
	ID       uuid.UUID
	// PaymentDate defaults to today when nil
	PaymentDate *time.Time
}

// CreateFullInvoice creates a draft invoice covering the whole of an accepted
// quote, copying the quote's lines. Quotes billed by installments go through
// the installment service instead.
func (s *InvoiceService) CreateFullInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	quote, err := s.quoteRepo.GetWithRelations(ctx, input.TenantID, input.QuoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, apperror.ErrDevisNotFound
	}
	if quote.Status != enum.QuoteStatusAccepte {
		return nil, apperror.ErrInvalidStatus
	}

	existing, err := s.invoiceRepo.ListByQuoteID(ctx, input.TenantID, input.QuoteID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, apperror.ErrInstallmentNotEligible
	}

	seq, err := s.invoiceRepo.NextSequenceNumber(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}

	invoice := &entity.Invoice{
		TenantID:        input.TenantID,
		ClientID:        quote.ClientID,
		QuoteID:         quote.ID,
		Number:          utils.InvoiceNumber(seq, ""),
		InstallmentRole: enum.InstallmentRoleNone,
		Status:          enum.InvoiceStatusBrouillon,
		DueDate:         input.DueDate,
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	lines := make([]entity.InvoiceLine, 0, len(quote.Lines))
	for _, ql := range quote.Lines {
		line := entity.InvoiceLine{
			InvoiceID:   invoice.ID,
			Position:    ql.Position,
			Designation: ql.Designation,
			Quantity:    ql.Quantity,
			UnitPrice:   ql.UnitPrice,
			TaxRate:     ql.TaxRate,
		}
		line.ComputeAmounts()
		lines = append(lines, line)
	}
	if len(lines) > 0 {
		if err := s.invoiceLineRepo.CreateBatch(ctx, lines); err != nil {
			return nil, err
		}
	}

	return s.invoiceRepo.GetWithRelations(ctx, input.TenantID, invoice.ID)
}

// GetInvoice retrieves an invoice with its client and lines
func (s *InvoiceService) GetInvoice(ctx context.Context, tenantID, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithRelations(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.ErrFactureNotFound
	}
	return invoice, nil
}

// ListInvoices retrieves invoices with pagination and filtering
func (s *InvoiceService) ListInvoices(ctx context.Context, tenantID uuid.UUID, params *repository.InvoiceFilterParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	invoices, total, err := s.invoiceRepo.List(ctx, tenantID, params)
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginatedResult(invoices, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// UpdateDraftInvoice replaces the lines and due date of a draft invoice.
// Invoices that left brouillon are immutable.
func (s *InvoiceService) UpdateDraftInvoice(ctx context.Context, input *UpdateInvoiceInput) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.ErrFactureNotFound
	}
	if invoice.Status != enum.InvoiceStatusBrouillon {
		return nil, apperror.ErrInvalidStatus
	}

	if input.DueDate != nil {
		invoice.DueDate = input.DueDate
		if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
			return nil, err
		}
	}

	if input.Lines != nil {
		if err := s.invoiceLineRepo.DeleteByInvoiceID(ctx, invoice.ID); err != nil {
			return nil, err
		}
		lines := make([]entity.InvoiceLine, 0, len(input.Lines))
		for i, in := range input.Lines {
			line := entity.InvoiceLine{
				InvoiceID:   invoice.ID,
				Position:    i + 1,
				Designation: in.Designation,
				Quantity:    in.Quantity,
				UnitPrice:   in.UnitPrice,
				TaxRate:     in.TaxRate,
			}
			line.ComputeAmounts()
			lines = append(lines, line)
		}
		if len(lines) > 0 {
			if err := s.invoiceLineRepo.CreateBatch(ctx, lines); err != nil {
				return nil, err
			}
		}
	}

	return s.invoiceRepo.GetWithRelations(ctx, input.TenantID, invoice.ID)
}

// FinalizeInvoice recomputes the invoice totals from its lines and freezes
// them. The status is left untouched; an invoice without lines cannot be
// finalized.
func (s *InvoiceService) FinalizeInvoice(ctx context.Context, tenantID, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithRelations(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.ErrFactureNotFound
	}

	totals, err := ComputeInvoiceTotals(invoice.Lines)
	if err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.UpdateTotals(ctx, tenantID, invoice.ID, totals.HT, totals.TVA, totals.TTC); err != nil {
		return nil, err
	}

	invoice.MontantHT = totals.HT
	invoice.MontantTVA = totals.TVA
	invoice.MontantTTC = totals.TTC
	return invoice, nil
}

// SendInvoice moves an invoice to envoyee and dispatches the notification on
// the requested channel. Totals are whatever the last finalize froze; this
// operation never recomputes them. Resending an envoyee invoice is allowed;
// sending a paid one is not.
func (s *InvoiceService) SendInvoice(ctx context.Context, input *SendInvoiceInput) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithRelations(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.ErrFactureNotFound
	}
	if invoice.Status == enum.InvoiceStatusPayee {
		return nil, apperror.ErrInvalidStatus
	}

	// Resolve the recipient before any state changes so a missing contact
	// leaves the invoice untouched.
	var recipient string
	switch input.Channel {
	case "message":
		recipient = resolvePhone(input.Phone, invoice.Client)
		if recipient == "" {
			return nil, apperror.ErrMissingPhone
		}
	default:
		recipient = resolveEmail(input.Email, invoice.Client)
		if recipient == "" {
			return nil, apperror.ErrMissingEmail
		}
	}

	ok, err := s.invoiceRepo.MarkSent(ctx, input.TenantID, invoice.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.ErrInvalidStatus
	}

	data := email.InvoiceEmailData{
		Number:     invoice.Number,
		MontantTTC: invoice.MontantTTC,
	}
	if invoice.Client != nil {
		data.ClientName = invoice.Client.Name
	}
	if invoice.DueDate != nil {
		data.DueDate = invoice.DueDate.Format("02/01/2006")
	}

	if input.Channel == "message" {
		err = s.dispatcher.SendInvoiceMessage(recipient, data)
	} else {
		err = s.dispatcher.SendInvoiceEmail(recipient, data)
	}
	if err != nil {
		return nil, apperror.New(502, "NOTIFICATION_FAILED", "l'envoi de la notification a échoué")
	}

	return s.invoiceRepo.GetWithRelations(ctx, input.TenantID, invoice.ID)
}

// MarkInvoicePaid records a payment on an unpaid invoice, then reconciles
// the parent quote: once every invoice of the quote is paid, the quote
// itself is promoted to paye.
func (s *InvoiceService) MarkInvoicePaid(ctx context.Context, input *MarkPaidInput) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.ErrFactureNotFound
	}
	if invoice.Status == enum.InvoiceStatusPayee {
		return nil, apperror.ErrAlreadyPaid
	}

	// The payment date is a date, not an instant.
	now := time.Now()
	paymentDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if input.PaymentDate != nil {
		paymentDate = *input.PaymentDate
	}

	ok, err := s.invoiceRepo.MarkPaid(ctx, input.TenantID, invoice.ID, paymentDate)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.ErrAlreadyPaid
	}

	if err := s.reconcileQuote(ctx, input.TenantID, invoice.QuoteID); err != nil {
		return nil, err
	}

	return s.invoiceRepo.GetWithRelations(ctx, input.TenantID, invoice.ID)
}

// reconcileQuote promotes the quote to paye when all of its invoices are
// paid. A quote with no invoices is never promoted.
func (s *InvoiceService) reconcileQuote(ctx context.Context, tenantID, quoteID uuid.UUID) error {
	invoices, err := s.invoiceRepo.ListByQuoteID(ctx, tenantID, quoteID)
	if err != nil {
		return err
	}
	if len(invoices) == 0 {
		return nil
	}
	for _, inv := range invoices {
		if inv.Status != enum.InvoiceStatusPayee {
			return nil
		}
	}
	return s.quoteRepo.PromoteToPaid(ctx, tenantID, quoteID)
}

func resolveEmail(override *string, client *entity.Client) string {
	if override != nil && *override != "" {
		return *override
	}
	if client != nil && client.Email != nil {
		return *client.Email
	}
	return ""
}

func resolvePhone(override *string, client *entity.Client) string {
	if override != nil && *override != "" {
		return *override
	}
	if client != nil && client.Phone != nil {
		return *client.Phone
	}
	return ""
}
