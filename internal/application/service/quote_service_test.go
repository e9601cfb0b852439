package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/pkg/apperror"
	"github.com/google/uuid"
)

func TestCreateQuoteDerivesTotals(t *testing.T) {
	f := newFixtures(t)
	svc := f.quoteService()

	quote, err := svc.CreateQuote(context.Background(), &CreateQuoteInput{
		TenantID: f.tenant.ID,
		ClientID: f.client.ID,
		Lines: []QuoteLineInput{
			{Designation: "Pose cuisine", Quantity: 1, UnitPrice: 5000, TaxRate: 20},
			{Designation: "Fournitures", Quantity: 2, UnitPrice: 1500, TaxRate: 20},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if quote.Status != enum.QuoteStatusBrouillon {
		t.Fatalf("status = %v, want brouillon", quote.Status)
	}
	if quote.MontantHT != 8000 || quote.MontantTVA != 1600 || quote.MontantTTC != 9600 {
		t.Fatalf("totals = %v/%v/%v, want 8000/1600/9600", quote.MontantHT, quote.MontantTVA, quote.MontantTTC)
	}
	if len(quote.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(quote.Lines))
	}
}

func TestCreateQuoteUnknownClient(t *testing.T) {
	f := newFixtures(t)
	svc := f.quoteService()

	_, err := svc.CreateQuote(context.Background(), &CreateQuoteInput{
		TenantID: f.tenant.ID,
		ClientID: uuid.New(),
	})
	if !errors.Is(err, apperror.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestQuoteLifecycleTransitions(t *testing.T) {
	f := newFixtures(t)
	quote := f.createQuote(t, enum.QuoteStatusBrouillon, nil, 1200)
	svc := f.quoteService()
	ctx := context.Background()

	// Accepting a draft skips the envoye step and is rejected.
	if _, err := svc.AcceptQuote(ctx, f.tenant.ID, quote.ID); !errors.Is(err, apperror.ErrInvalidStatus) {
		t.Fatalf("accept draft: expected ErrInvalidStatus, got %v", err)
	}

	sent, err := svc.SendQuote(ctx, f.tenant.ID, quote.ID)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sent.Status != enum.QuoteStatusEnvoye {
		t.Fatalf("status = %v, want envoye", sent.Status)
	}
	if sent.SentAt == nil {
		t.Fatal("sent_at should be recorded")
	}

	accepted, err := svc.AcceptQuote(ctx, f.tenant.ID, quote.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != enum.QuoteStatusAccepte {
		t.Fatalf("status = %v, want accepte", accepted.Status)
	}
	if accepted.AcceptedAt == nil {
		t.Fatal("accepted_at should be recorded")
	}
}

func TestSendQuoteWithoutLines(t *testing.T) {
	f := newFixtures(t)
	quote := &entity.Quote{
		TenantID: f.tenant.ID,
		ClientID: f.client.ID,
		Number:   "DEV-EMPTY",
		Status:   enum.QuoteStatusBrouillon,
	}
	if err := f.db.Create(quote).Error; err != nil {
		t.Fatalf("quote: %v", err)
	}

	svc := f.quoteService()
	_, err := svc.SendQuote(context.Background(), f.tenant.ID, quote.ID)
	if !errors.Is(err, apperror.ErrNoLignes) {
		t.Fatalf("expected ErrNoLignes, got %v", err)
	}
}

func TestAcceptedQuoteIsLocked(t *testing.T) {
	f := newFixtures(t)
	quote := f.createQuote(t, enum.QuoteStatusAccepte, nil, 1200)
	svc := f.quoteService()
	ctx := context.Background()

	if _, err := svc.UpdateQuote(ctx, &UpdateQuoteInput{TenantID: f.tenant.ID, ID: quote.ID}); !errors.Is(err, apperror.ErrStatusLocked) {
		t.Fatalf("update: expected ErrStatusLocked, got %v", err)
	}
	if err := svc.DeleteQuote(ctx, f.tenant.ID, quote.ID); !errors.Is(err, apperror.ErrStatusLocked) {
		t.Fatalf("delete: expected ErrStatusLocked, got %v", err)
	}
	if _, err := svc.RefuseQuote(ctx, f.tenant.ID, quote.ID); !errors.Is(err, apperror.ErrStatusLocked) {
		t.Fatalf("refuse: expected ErrStatusLocked, got %v", err)
	}
	if _, err := svc.SendQuote(ctx, f.tenant.ID, quote.ID); !errors.Is(err, apperror.ErrStatusLocked) {
		t.Fatalf("send: expected ErrStatusLocked, got %v", err)
	}
}

func TestQuoteTenantScoping(t *testing.T) {
	f := newFixtures(t)
	quote := f.createQuote(t, enum.QuoteStatusBrouillon, nil, 1200)
	svc := f.quoteService()

	_, err := svc.GetQuote(context.Background(), uuid.New(), quote.ID)
	if !errors.Is(err, apperror.ErrDevisNotFound) {
		t.Fatalf("cross-tenant read should be not found, got %v", err)
	}
}

func TestGetQuotePromotesWhenAllInvoicesPaid(t *testing.T) {
	f := newFixtures(t)
	quote := f.createQuote(t, enum.QuoteStatusAccepte, nil, 1000)
	f.createInvoice(t, quote, enum.InstallmentRoleAcompte, enum.InvoiceStatusPayee, 300)
	f.createInvoice(t, quote, enum.InstallmentRoleSolde, enum.InvoiceStatusPayee, 700)

	svc := f.quoteService()
	got, err := svc.GetQuote(context.Background(), f.tenant.ID, quote.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != enum.QuoteStatusPaye {
		t.Fatalf("status = %v, want paye", got.Status)
	}

	var reloaded entity.Quote
	if err := f.db.First(&reloaded, "id = ?", quote.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != enum.QuoteStatusPaye {
		t.Fatalf("promotion was not persisted, status = %v", reloaded.Status)
	}
}

func TestGetQuoteNeverPromotesWithoutInvoices(t *testing.T) {
	f := newFixtures(t)
	quote := f.createQuote(t, enum.QuoteStatusAccepte, nil, 1000)

	svc := f.quoteService()
	got, err := svc.GetQuote(context.Background(), f.tenant.ID, quote.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != enum.QuoteStatusAccepte {
		t.Fatalf("status = %v, a quote with no invoices must not be promoted", got.Status)
	}
}

func TestGetQuoteDoesNotPromoteWithOpenInvoice(t *testing.T) {
	f := newFixtures(t)
	quote := f.createQuote(t, enum.QuoteStatusAccepte, nil, 1000)
	f.createInvoice(t, quote, enum.InstallmentRoleAcompte, enum.InvoiceStatusPayee, 300)
	f.createInvoice(t, quote, enum.InstallmentRoleSolde, enum.InvoiceStatusEnvoyee, 700)

	svc := f.quoteService()
	got, err := svc.GetQuote(context.Background(), f.tenant.ID, quote.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != enum.QuoteStatusAccepte {
		t.Fatalf("status = %v, want accepte while an invoice is open", got.Status)
	}
}

func TestQuoteExpiryDerivation(t *testing.T) {
	now := time.Now()
	old := now.AddDate(0, 0, -(entity.QuoteExpiryDays + 1))
	fresh := now.AddDate(0, 0, -5)

	tests := []struct {
		name      string
		status    enum.QuoteStatus
		createdAt time.Time
		want      string
	}{
		{"old sent quote expires", enum.QuoteStatusEnvoye, old, "expire"},
		{"old draft expires", enum.QuoteStatusBrouillon, old, "expire"},
		{"recent sent quote keeps its status", enum.QuoteStatusEnvoye, fresh, "envoye"},
		{"accepted quote never expires", enum.QuoteStatusAccepte, old, "accepte"},
		{"refused quote never expires", enum.QuoteStatusRefuse, old, "refuse"},
		{"paid quote never expires", enum.QuoteStatusPaye, old, "paye"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &entity.Quote{Status: tt.status, CreatedAt: tt.createdAt}
			if got := q.DisplayStatus(now); got != tt.want {
				t.Fatalf("DisplayStatus = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUpdateQuoteReplacesLines(t *testing.T) {
	f := newFixtures(t)
	quote := f.createQuote(t, enum.QuoteStatusBrouillon, nil, 1200)

	svc := f.quoteService()
	updated, err := svc.UpdateQuote(context.Background(), &UpdateQuoteInput{
		TenantID: f.tenant.ID,
		ID:       quote.ID,
		Lines: []QuoteLineInput{
			{Designation: "Nouvelle prestation", Quantity: 1, UnitPrice: 2000, TaxRate: 20},
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.Lines) != 1 || updated.Lines[0].Designation != "Nouvelle prestation" {
		t.Fatalf("lines were not replaced: %+v", updated.Lines)
	}
	if updated.MontantTTC != 2400 {
		t.Fatalf("TTC = %v, want 2400 after line replacement", updated.MontantTTC)
	}
}
