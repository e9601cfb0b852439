package service

import (
	"errors"
	"testing"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/internal/infrastructure/repository"
	"github.com/facturio/facturio-api/pkg/email"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:svc_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&entity.Tenant{},
		&entity.User{},
		&entity.Client{},
		&entity.PaymentTerms{},
		&entity.Quote{},
		&entity.QuoteLine{},
		&entity.Invoice{},
		&entity.InvoiceLine{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixtures struct {
	db     *gorm.DB
	tenant *entity.Tenant
	client *entity.Client
}

func newFixtures(t *testing.T) *fixtures {
	t.Helper()
	db := setupTestDB(t)

	tenant := &entity.Tenant{Name: "Atelier Martin", Slug: "atelier-martin-" + uuid.New().String()[:8]}
	if err := db.Create(tenant).Error; err != nil {
		t.Fatalf("tenant: %v", err)
	}

	email := "contact@dupont.fr"
	phone := "+33612345678"
	client := &entity.Client{TenantID: tenant.ID, Name: "Dupont SARL", Email: &email, Phone: &phone}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("client: %v", err)
	}

	return &fixtures{db: db, tenant: tenant, client: client}
}

func (f *fixtures) createTerms(t *testing.T, acompte, intermediaire, solde float64) *entity.PaymentTerms {
	t.Helper()
	terms := &entity.PaymentTerms{
		TenantID:                 f.tenant.ID,
		Name:                     "Echelonnement",
		PourcentageAcompte:       acompte,
		PourcentageIntermediaire: intermediaire,
		PourcentageSolde:         solde,
		DelaiSoldeJours:          30,
	}
	if err := f.db.Create(terms).Error; err != nil {
		t.Fatalf("terms: %v", err)
	}
	return terms
}

func (f *fixtures) createQuote(t *testing.T, status enum.QuoteStatus, termsID *uuid.UUID, ttc float64) *entity.Quote {
	t.Helper()
	quote := &entity.Quote{
		TenantID:       f.tenant.ID,
		ClientID:       f.client.ID,
		PaymentTermsID: termsID,
		Number:         "DEV-" + uuid.New().String()[:6],
		Status:         status,
		MontantHT:      ttc / 1.2,
		MontantTVA:     ttc - ttc/1.2,
		MontantTTC:     ttc,
	}
	if err := f.db.Create(quote).Error; err != nil {
		t.Fatalf("quote: %v", err)
	}
	line := &entity.QuoteLine{
		QuoteID:     quote.ID,
		Position:    1,
		Designation: "Prestation",
		Quantity:    1,
		UnitPrice:   ttc / 1.2,
		TaxRate:     20,
	}
	line.ComputeAmounts()
	if err := f.db.Create(line).Error; err != nil {
		t.Fatalf("quote line: %v", err)
	}
	return quote
}

func (f *fixtures) createInvoice(t *testing.T, quote *entity.Quote, role enum.InstallmentRole, status enum.InvoiceStatus, ttc float64) *entity.Invoice {
	t.Helper()
	invoice := &entity.Invoice{
		TenantID:        f.tenant.ID,
		ClientID:        f.client.ID,
		QuoteID:         quote.ID,
		Number:          "FAC-" + uuid.New().String()[:6] + role.Suffix(),
		InstallmentRole: role,
		Status:          status,
		MontantHT:       ttc / 1.2,
		MontantTVA:      ttc - ttc/1.2,
		MontantTTC:      ttc,
	}
	if err := f.db.Create(invoice).Error; err != nil {
		t.Fatalf("invoice: %v", err)
	}
	line := &entity.InvoiceLine{
		InvoiceID:   invoice.ID,
		Position:    1,
		Designation: "Prestation",
		Quantity:    1,
		UnitPrice:   ttc / 1.2,
		TaxRate:     20,
	}
	line.ComputeAmounts()
	if err := f.db.Create(line).Error; err != nil {
		t.Fatalf("invoice line: %v", err)
	}
	return invoice
}

func (f *fixtures) quoteService() *QuoteService {
	return NewQuoteService(
		repository.NewQuoteRepository(f.db),
		repository.NewQuoteLineRepository(f.db),
		repository.NewInvoiceRepository(f.db),
		repository.NewClientRepository(f.db),
		repository.NewPaymentTermsRepository(f.db),
	)
}

// stubNotifier records deliveries instead of sending them
type stubNotifier struct {
	emails   []string
	messages []string
	fail     bool
}

func (n *stubNotifier) SendInvoiceEmail(to string, data email.InvoiceEmailData) error {
	if n.fail {
		return errSendFailed
	}
	n.emails = append(n.emails, to)
	return nil
}

func (n *stubNotifier) SendInvoiceMessage(phone string, data email.InvoiceEmailData) error {
	if n.fail {
		return errSendFailed
	}
	n.messages = append(n.messages, phone)
	return nil
}

var errSendFailed = errors.New("send failed")

func (f *fixtures) invoiceService(n Notifier) *InvoiceService {
	if n == nil {
		n = &stubNotifier{}
	}
	return NewInvoiceService(
		repository.NewInvoiceRepository(f.db),
		repository.NewInvoiceLineRepository(f.db),
		repository.NewQuoteRepository(f.db),
		repository.NewClientRepository(f.db),
		n,
	)
}

func (f *fixtures) installmentService() *InstallmentService {
	return NewInstallmentService(
		repository.NewQuoteRepository(f.db),
		repository.NewInvoiceRepository(f.db),
		repository.NewInvoiceLineRepository(f.db),
		repository.NewPaymentTermsRepository(f.db),
	)
}

func (f *fixtures) historyService() *HistoryService {
	return NewHistoryService(repository.NewQuoteRepository(f.db))
}
