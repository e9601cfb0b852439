package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/pkg/apperror"
	"github.com/google/uuid"
)

func planTerms(acompte, intermediaire, solde float64) *entity.PaymentTerms {
	return &entity.PaymentTerms{
		PourcentageAcompte:       acompte,
		PourcentageIntermediaire: intermediaire,
		PourcentageSolde:         solde,
	}
}

func planQuote(status enum.QuoteStatus, ttc float64) *entity.Quote {
	return &entity.Quote{ID: uuid.New(), Status: status, MontantTTC: ttc}
}

func invoiceWithRole(role enum.InstallmentRole) entity.Invoice {
	return entity.Invoice{ID: uuid.New(), InstallmentRole: role}
}

func slotByRole(t *testing.T, plan []InstallmentSlot, role enum.InstallmentRole) InstallmentSlot {
	t.Helper()
	for _, s := range plan {
		if s.Role == role {
			return s
		}
	}
	t.Fatalf("role %v not in plan", role)
	return InstallmentSlot{}
}

func TestResolvePlanAmounts(t *testing.T) {
	plan := ResolvePlan(planTerms(30, 20, 50), planQuote(enum.QuoteStatusAccepte, 10000), nil)
	if len(plan) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(plan))
	}

	acompte := slotByRole(t, plan, enum.InstallmentRoleAcompte)
	intermediaire := slotByRole(t, plan, enum.InstallmentRoleIntermediaire)
	solde := slotByRole(t, plan, enum.InstallmentRoleSolde)

	if acompte.Amount != 3000 || intermediaire.Amount != 2000 || solde.Amount != 5000 {
		t.Fatalf("amounts = %v/%v/%v, want 3000/2000/5000", acompte.Amount, intermediaire.Amount, solde.Amount)
	}
}

func TestResolvePlanStrictOrdering(t *testing.T) {
	terms := planTerms(30, 20, 50)
	quote := planQuote(enum.QuoteStatusAccepte, 10000)

	// Nothing invoiced yet: only the acompte is eligible.
	plan := ResolvePlan(terms, quote, nil)
	if !slotByRole(t, plan, enum.InstallmentRoleAcompte).Eligible {
		t.Fatal("acompte should be eligible on an accepted quote")
	}
	if slotByRole(t, plan, enum.InstallmentRoleIntermediaire).Eligible {
		t.Fatal("intermediaire must wait for the acompte")
	}
	if slotByRole(t, plan, enum.InstallmentRoleSolde).Eligible {
		t.Fatal("solde must wait for the intermediaire")
	}

	// Acompte invoiced: the intermediaire opens, the solde stays closed.
	plan = ResolvePlan(terms, quote, []entity.Invoice{invoiceWithRole(enum.InstallmentRoleAcompte)})
	if slotByRole(t, plan, enum.InstallmentRoleAcompte).Eligible {
		t.Fatal("acompte cannot be invoiced twice")
	}
	if !slotByRole(t, plan, enum.InstallmentRoleIntermediaire).Eligible {
		t.Fatal("intermediaire should follow the acompte")
	}
	if slotByRole(t, plan, enum.InstallmentRoleSolde).Eligible {
		t.Fatal("solde must wait for the intermediaire")
	}

	// Both predecessors invoiced: only the solde remains.
	plan = ResolvePlan(terms, quote, []entity.Invoice{
		invoiceWithRole(enum.InstallmentRoleAcompte),
		invoiceWithRole(enum.InstallmentRoleIntermediaire),
	})
	if !slotByRole(t, plan, enum.InstallmentRoleSolde).Eligible {
		t.Fatal("solde should open once the intermediaire exists")
	}
}

func TestResolvePlanSkipsZeroIntermediaire(t *testing.T) {
	terms := planTerms(30, 0, 70)
	quote := planQuote(enum.QuoteStatusAccepte, 1000)

	plan := ResolvePlan(terms, quote, []entity.Invoice{invoiceWithRole(enum.InstallmentRoleAcompte)})
	if len(plan) != 2 {
		t.Fatalf("expected 2 slots for a zero intermediaire, got %d", len(plan))
	}
	if !slotByRole(t, plan, enum.InstallmentRoleSolde).Eligible {
		t.Fatal("solde should follow the acompte directly when the intermediaire is zero")
	}
}

func TestResolvePlanRequiresAcceptedQuote(t *testing.T) {
	for _, status := range []enum.QuoteStatus{enum.QuoteStatusBrouillon, enum.QuoteStatusEnvoye, enum.QuoteStatusRefuse} {
		plan := ResolvePlan(planTerms(30, 20, 50), planQuote(status, 1000), nil)
		if slotByRole(t, plan, enum.InstallmentRoleAcompte).Eligible {
			t.Fatalf("acompte eligible on %v quote", status)
		}
	}
}

func TestResolvePlanAllZeroTemplate(t *testing.T) {
	plan := ResolvePlan(planTerms(0, 0, 0), planQuote(enum.QuoteStatusAccepte, 1000), nil)
	if len(plan) != 0 {
		t.Fatalf("expected empty plan, got %d slots", len(plan))
	}
}

func TestCreateInstallmentInvoiceEndToEnd(t *testing.T) {
	f := newFixtures(t)
	terms := f.createTerms(t, 30, 20, 50)
	quote := f.createQuote(t, enum.QuoteStatusAccepte, &terms.ID, 10000)

	svc := f.installmentService()
	ctx := context.Background()

	// Out of order creation is rejected.
	_, err := svc.CreateInstallmentInvoice(ctx, &CreateInstallmentInput{
		TenantID: f.tenant.ID, QuoteID: quote.ID, Role: enum.InstallmentRoleSolde,
	})
	if !errors.Is(err, apperror.ErrInstallmentNotEligible) {
		t.Fatalf("expected ErrInstallmentNotEligible for early solde, got %v", err)
	}

	acompte, err := svc.CreateInstallmentInvoice(ctx, &CreateInstallmentInput{
		TenantID: f.tenant.ID, QuoteID: quote.ID, Role: enum.InstallmentRoleAcompte,
	})
	if err != nil {
		t.Fatalf("create acompte: %v", err)
	}
	if acompte.InstallmentRole != enum.InstallmentRoleAcompte {
		t.Fatalf("role = %v", acompte.InstallmentRole)
	}
	if !strings.HasSuffix(acompte.Number, "-A") {
		t.Fatalf("acompte number %q should carry the -A suffix", acompte.Number)
	}
	if acompte.Status != enum.InvoiceStatusBrouillon {
		t.Fatalf("new installment should be a draft, got %v", acompte.Status)
	}
	if len(acompte.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(acompte.Lines))
	}
	if math.Abs(acompte.Lines[0].TotalTTC-3000) > 1e-6 {
		t.Fatalf("acompte TTC = %v, want 3000", acompte.Lines[0].TotalTTC)
	}

	// The same installment cannot be created twice.
	_, err = svc.CreateInstallmentInvoice(ctx, &CreateInstallmentInput{
		TenantID: f.tenant.ID, QuoteID: quote.ID, Role: enum.InstallmentRoleAcompte,
	})
	if !errors.Is(err, apperror.ErrInstallmentNotEligible) {
		t.Fatalf("expected ErrInstallmentNotEligible for duplicate acompte, got %v", err)
	}

	intermediaire, err := svc.CreateInstallmentInvoice(ctx, &CreateInstallmentInput{
		TenantID: f.tenant.ID, QuoteID: quote.ID, Role: enum.InstallmentRoleIntermediaire,
	})
	if err != nil {
		t.Fatalf("create intermediaire: %v", err)
	}
	if math.Abs(intermediaire.Lines[0].TotalTTC-2000) > 1e-6 {
		t.Fatalf("intermediaire TTC = %v, want 2000", intermediaire.Lines[0].TotalTTC)
	}

	solde, err := svc.CreateInstallmentInvoice(ctx, &CreateInstallmentInput{
		TenantID: f.tenant.ID, QuoteID: quote.ID, Role: enum.InstallmentRoleSolde,
	})
	if err != nil {
		t.Fatalf("create solde: %v", err)
	}
	if math.Abs(solde.Lines[0].TotalTTC-5000) > 1e-6 {
		t.Fatalf("solde TTC = %v, want 5000", solde.Lines[0].TotalTTC)
	}
	if !strings.HasSuffix(solde.Number, "-S") {
		t.Fatalf("solde number %q should carry the -S suffix", solde.Number)
	}
}

func TestCreateInstallmentExemptQuote(t *testing.T) {
	f := newFixtures(t)
	terms := f.createTerms(t, 30, 0, 70)

	// Zero-rated quote, VAT exempt.
	quote := &entity.Quote{
		TenantID:       f.tenant.ID,
		ClientID:       f.client.ID,
		PaymentTermsID: &terms.ID,
		Number:         "DEV-EXEMPT",
		Status:         enum.QuoteStatusAccepte,
		MontantHT:      1000,
		MontantTVA:     0,
		MontantTTC:     1000,
	}
	if err := f.db.Create(quote).Error; err != nil {
		t.Fatalf("quote: %v", err)
	}

	svc := f.installmentService()
	acompte, err := svc.CreateInstallmentInvoice(context.Background(), &CreateInstallmentInput{
		TenantID: f.tenant.ID, QuoteID: quote.ID, Role: enum.InstallmentRoleAcompte,
	})
	if err != nil {
		t.Fatalf("create acompte: %v", err)
	}
	if acompte.Lines[0].TaxRate != 0 {
		t.Fatalf("tax rate = %v, an exempt quote must yield exempt installments", acompte.Lines[0].TaxRate)
	}
	if math.Abs(acompte.Lines[0].TotalTTC-300) > 1e-6 {
		t.Fatalf("acompte TTC = %v, want 300", acompte.Lines[0].TotalTTC)
	}
}

func TestCreateInstallmentTenantScoping(t *testing.T) {
	f := newFixtures(t)
	terms := f.createTerms(t, 30, 0, 70)
	quote := f.createQuote(t, enum.QuoteStatusAccepte, &terms.ID, 1000)

	svc := f.installmentService()

	_, err := svc.CreateInstallmentInvoice(context.Background(), &CreateInstallmentInput{
		TenantID: uuid.New(), QuoteID: quote.ID, Role: enum.InstallmentRoleAcompte,
	})
	if !errors.Is(err, apperror.ErrDevisNotFound) {
		t.Fatalf("cross-tenant access should read as not found, got %v", err)
	}
}
