package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/facturio/facturio-api/pkg/apperror"
	"github.com/facturio/facturio-api/pkg/utils"
	"github.com/google/uuid"
)

// InstallmentSlot describes one entry of a quote's payment plan: its role,
// its share of the quote total and whether an invoice may currently be
// created for it.
type InstallmentSlot struct {
	Role       enum.InstallmentRole `json:"role"`
	Percentage float64              `json:"percentage"`
	Amount     float64              `json:"amount"`
	Eligible   bool                 `json:"eligible"`
	InvoiceID  *uuid.UUID           `json:"invoice_id,omitempty"`
}

// ResolvePlan computes the installment plan for a quote. The sequencing is
// strict: acompte first, then intermediaire, then solde, where a zero
// intermediaire percentage lets solde follow the acompte directly. A
// template with all percentages at zero yields an empty plan, which is a
// valid configuration.
func ResolvePlan(terms *entity.PaymentTerms, quote *entity.Quote, invoices []entity.Invoice) []InstallmentSlot {
	if terms == nil || quote == nil {
		return nil
	}

	existing := make(map[enum.InstallmentRole]*entity.Invoice, len(invoices))
	for i := range invoices {
		inv := &invoices[i]
		if inv.InstallmentRole != enum.InstallmentRoleNone {
			existing[inv.InstallmentRole] = inv
		}
	}

	hasAcompte := existing[enum.InstallmentRoleAcompte] != nil
	hasIntermediaire := existing[enum.InstallmentRoleIntermediaire] != nil

	var plan []InstallmentSlot

	if terms.PourcentageAcompte > 0 {
		slot := InstallmentSlot{
			Role:       enum.InstallmentRoleAcompte,
			Percentage: terms.PourcentageAcompte,
			Amount:     quote.MontantTTC * terms.PourcentageAcompte / 100,
			Eligible:   !hasAcompte && quote.Status == enum.QuoteStatusAccepte,
		}
		if inv := existing[enum.InstallmentRoleAcompte]; inv != nil {
			slot.InvoiceID = &inv.ID
		}
		plan = append(plan, slot)
	}

	if terms.PourcentageIntermediaire > 0 {
		slot := InstallmentSlot{
			Role:       enum.InstallmentRoleIntermediaire,
			Percentage: terms.PourcentageIntermediaire,
			Amount:     quote.MontantTTC * terms.PourcentageIntermediaire / 100,
			Eligible:   !hasIntermediaire && hasAcompte,
		}
		if inv := existing[enum.InstallmentRoleIntermediaire]; inv != nil {
			slot.InvoiceID = &inv.ID
		}
		plan = append(plan, slot)
	}

	if terms.PourcentageSolde > 0 {
		// Solde follows the last non-zero preceding installment.
		previousDone := hasIntermediaire ||
			(terms.PourcentageIntermediaire == 0 && hasAcompte)
		slot := InstallmentSlot{
			Role:       enum.InstallmentRoleSolde,
			Percentage: terms.PourcentageSolde,
			Amount:     quote.MontantTTC * terms.PourcentageSolde / 100,
			Eligible:   existing[enum.InstallmentRoleSolde] == nil && previousDone,
		}
		if inv := existing[enum.InstallmentRoleSolde]; inv != nil {
			slot.InvoiceID = &inv.ID
		}
		plan = append(plan, slot)
	}

	return plan
}

// InstallmentService creates installment invoices from a quote's payment plan
type InstallmentService struct {
	quoteRepo       repository.QuoteRepository
	invoiceRepo     repository.InvoiceRepository
	invoiceLineRepo repository.InvoiceLineRepository
	termsRepo       repository.PaymentTermsRepository
}

// NewInstallmentService creates a new installment service
func NewInstallmentService(
	quoteRepo repository.QuoteRepository,
	invoiceRepo repository.InvoiceRepository,
	invoiceLineRepo repository.InvoiceLineRepository,
	termsRepo repository.PaymentTermsRepository,
) *InstallmentService {
	return &InstallmentService{
		quoteRepo:       quoteRepo,
		invoiceRepo:     invoiceRepo,
		invoiceLineRepo: invoiceLineRepo,
		termsRepo:       termsRepo,
	}
}

// PlanForQuote resolves the installment plan for a quote
func (s *InstallmentService) PlanForQuote(ctx context.Context, tenantID, quoteID uuid.UUID) ([]InstallmentSlot, error) {
	quote, err := s.quoteRepo.GetByID(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, apperror.ErrDevisNotFound
	}
	if quote.PaymentTermsID == nil {
		return nil, nil
	}

	terms, err := s.termsRepo.GetByID(ctx, tenantID, *quote.PaymentTermsID)
	if err != nil {
		return nil, err
	}
	if terms == nil {
		return nil, nil
	}

	invoices, err := s.invoiceRepo.ListByQuoteID(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}

	return ResolvePlan(terms, quote, invoices), nil
}

// CreateInstallmentInput represents the input for creating an installment
// invoice
type CreateInstallmentInput struct {
	TenantID uuid.UUID
	QuoteID  uuid.UUID
	Role     enum.InstallmentRole
}

// CreateInstallmentInvoice creates a draft invoice for one installment of a
// quote's payment plan. The eligibility rules of ResolvePlan are re-checked
// here so that a stale UI cannot create out-of-order installments.
func (s *InstallmentService) CreateInstallmentInvoice(ctx context.Context, input *CreateInstallmentInput) (*entity.Invoice, error) {
	quote, err := s.quoteRepo.GetByID(ctx, input.TenantID, input.QuoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, apperror.ErrDevisNotFound
	}
	if quote.PaymentTermsID == nil {
		return nil, apperror.ErrInstallmentNotEligible
	}

	terms, err := s.termsRepo.GetByID(ctx, input.TenantID, *quote.PaymentTermsID)
	if err != nil {
		return nil, err
	}
	if terms == nil {
		return nil, apperror.ErrPaymentTermsNotFound
	}

	invoices, err := s.invoiceRepo.ListByQuoteID(ctx, input.TenantID, input.QuoteID)
	if err != nil {
		return nil, err
	}

	plan := ResolvePlan(terms, quote, invoices)
	var slot *InstallmentSlot
	for i := range plan {
		if plan[i].Role == input.Role {
			slot = &plan[i]
			break
		}
	}
	if slot == nil || !slot.Eligible {
		return nil, apperror.ErrInstallmentNotEligible
	}

	seq, err := s.invoiceRepo.NextSequenceNumber(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}

	dueDate := installmentDueDate(terms, input.Role, time.Now())

	invoice := &entity.Invoice{
		TenantID:        input.TenantID,
		ClientID:        quote.ClientID,
		QuoteID:         quote.ID,
		Number:          utils.InvoiceNumber(seq, input.Role.Suffix()),
		InstallmentRole: input.Role,
		Status:          enum.InvoiceStatusBrouillon,
		DueDate:         &dueDate,
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	// A single line carrying the installment share. The amount is derived
	// from the quote total and the template percentage, never persisted on
	// the plan itself.
	line := entity.InvoiceLine{
		InvoiceID:   invoice.ID,
		Position:    1,
		Designation: installmentDesignation(input.Role, quote.Number, slot.Percentage),
		Quantity:    1,
		UnitPrice:   quote.MontantHT * slot.Percentage / 100,
		TaxRate:     taxRateFor(quote),
	}
	line.ComputeAmounts()
	if err := s.invoiceLineRepo.CreateBatch(ctx, []entity.InvoiceLine{line}); err != nil {
		return nil, err
	}

	return s.invoiceRepo.GetWithRelations(ctx, input.TenantID, invoice.ID)
}

func installmentDueDate(terms *entity.PaymentTerms, role enum.InstallmentRole, now time.Time) time.Time {
	days := 0
	switch role {
	case enum.InstallmentRoleAcompte:
		days = terms.DelaiAcompteJours
	case enum.InstallmentRoleIntermediaire:
		days = terms.DelaiIntermediaireJours
	case enum.InstallmentRoleSolde:
		days = terms.DelaiSoldeJours
	}
	return now.AddDate(0, 0, days)
}

func installmentDesignation(role enum.InstallmentRole, quoteNumber string, pct float64) string {
	var label string
	switch role {
	case enum.InstallmentRoleAcompte:
		label = "Acompte"
	case enum.InstallmentRoleIntermediaire:
		label = "Facture intermédiaire"
	case enum.InstallmentRoleSolde:
		label = "Solde"
	}
	return fmt.Sprintf("%s sur devis %s (%s%%)", label, quoteNumber, strconv.FormatFloat(pct, 'f', -1, 64))
}

// taxRateFor derives the effective tax rate of a quote from its totals, so
// installment lines carry the same rate as the underlying quote, including a
// zero rate on exempt quotes. With no HT amount the rate is moot since every
// installment amount is zero too.
func taxRateFor(quote *entity.Quote) float64 {
	if quote.MontantHT <= 0 {
		return 0
	}
	return quote.MontantTVA / quote.MontantHT * 100
}
