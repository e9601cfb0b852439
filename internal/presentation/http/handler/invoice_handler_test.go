package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/facturio/facturio-api/internal/application/service"
	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/internal/infrastructure/repository"
	"github.com/facturio/facturio-api/pkg/email"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type noopNotifier struct{}

func (noopNotifier) SendInvoiceEmail(string, email.InvoiceEmailData) error   { return nil }
func (noopNotifier) SendInvoiceMessage(string, email.InvoiceEmailData) error { return nil }

type handlerFixtures struct {
	db     *gorm.DB
	tenant *entity.Tenant
	client *entity.Client
	router *gin.Engine
}

func newHandlerFixtures(t *testing.T) *handlerFixtures {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:hdl_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&entity.Tenant{},
		&entity.Client{},
		&entity.Quote{},
		&entity.QuoteLine{},
		&entity.Invoice{},
		&entity.InvoiceLine{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	tenant := &entity.Tenant{Name: "Atelier Martin", Slug: "atelier-" + uuid.New().String()[:8]}
	if err := db.Create(tenant).Error; err != nil {
		t.Fatalf("tenant: %v", err)
	}
	contact := "contact@dupont.fr"
	client := &entity.Client{TenantID: tenant.ID, Name: "Dupont SARL", Email: &contact}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("client: %v", err)
	}

	invoiceService := service.NewInvoiceService(
		repository.NewInvoiceRepository(db),
		repository.NewInvoiceLineRepository(db),
		repository.NewQuoteRepository(db),
		repository.NewClientRepository(db),
		noopNotifier{},
	)
	h := NewInvoiceHandler(invoiceService)

	router := gin.New()
	authed := router.Group("", func(c *gin.Context) {
		c.Set("tenant_id", tenant.ID)
	})
	authed.GET("/invoices/:id", h.Get)
	authed.POST("/invoices/:id/finalize", h.Finalize)
	authed.POST("/invoices/:id/send", h.Send)
	authed.POST("/invoices/:id/pay", h.MarkPaid)
	router.GET("/anon/invoices/:id", h.Get)

	return &handlerFixtures{db: db, tenant: tenant, client: client, router: router}
}

func (f *handlerFixtures) createInvoice(t *testing.T, status enum.InvoiceStatus) *entity.Invoice {
	t.Helper()
	quote := &entity.Quote{
		TenantID: f.tenant.ID,
		ClientID: f.client.ID,
		Number:   "DEV-" + uuid.New().String()[:6],
		Status:   enum.QuoteStatusAccepte,
	}
	if err := f.db.Create(quote).Error; err != nil {
		t.Fatalf("quote: %v", err)
	}
	invoice := &entity.Invoice{
		TenantID:   f.tenant.ID,
		ClientID:   f.client.ID,
		QuoteID:    quote.ID,
		Number:     "FAC-" + uuid.New().String()[:6],
		Status:     status,
		MontantHT:  1000,
		MontantTVA: 200,
		MontantTTC: 1200,
	}
	if err := f.db.Create(invoice).Error; err != nil {
		t.Fatalf("invoice: %v", err)
	}
	line := &entity.InvoiceLine{
		InvoiceID:   invoice.ID,
		Position:    1,
		Designation: "Prestation",
		Quantity:    1,
		UnitPrice:   1000,
		TaxRate:     20,
	}
	line.ComputeAmounts()
	if err := f.db.Create(line).Error; err != nil {
		t.Fatalf("line: %v", err)
	}
	return invoice
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  struct {
		Code string `json:"code"`
	} `json:"errors"`
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) (int, envelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestInvoiceGetEndpoint(t *testing.T) {
	f := newHandlerFixtures(t)
	invoice := f.createInvoice(t, enum.InvoiceStatusBrouillon)

	code, env := doRequest(t, f.router, http.MethodGet, "/invoices/"+invoice.ID.String(), "")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("status = %d, success = %v", code, env.Success)
	}

	code, env = doRequest(t, f.router, http.MethodGet, "/invoices/"+uuid.New().String(), "")
	if code != http.StatusNotFound {
		t.Fatalf("unknown id: status = %d, want 404", code)
	}
	if env.Errors.Code != "FACTURE_NOT_FOUND" {
		t.Fatalf("code = %q, want FACTURE_NOT_FOUND", env.Errors.Code)
	}

	code, _ = doRequest(t, f.router, http.MethodGet, "/invoices/not-a-uuid", "")
	if code != http.StatusBadRequest {
		t.Fatalf("bad id: status = %d, want 400", code)
	}

	code, _ = doRequest(t, f.router, http.MethodGet, "/anon/invoices/"+invoice.ID.String(), "")
	if code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated: status = %d, want 401", code)
	}
}

func TestInvoiceLifecycleEndpoints(t *testing.T) {
	f := newHandlerFixtures(t)
	invoice := f.createInvoice(t, enum.InvoiceStatusBrouillon)
	path := "/invoices/" + invoice.ID.String()

	code, _ := doRequest(t, f.router, http.MethodPost, path+"/finalize", "")
	if code != http.StatusOK {
		t.Fatalf("finalize: status = %d", code)
	}

	code, _ = doRequest(t, f.router, http.MethodPost, path+"/send", "")
	if code != http.StatusOK {
		t.Fatalf("send: status = %d", code)
	}

	code, _ = doRequest(t, f.router, http.MethodPost, path+"/pay", `{"payment_date":"2026-08-01"}`)
	if code != http.StatusOK {
		t.Fatalf("pay: status = %d", code)
	}

	code, env := doRequest(t, f.router, http.MethodPost, path+"/pay", "")
	if code != http.StatusBadRequest || env.Errors.Code != "ALREADY_PAID" {
		t.Fatalf("repay: status = %d, code = %q", code, env.Errors.Code)
	}

	code, env = doRequest(t, f.router, http.MethodPost, path+"/send", "")
	if code != http.StatusBadRequest || env.Errors.Code != "INVALID_STATUS" {
		t.Fatalf("send paid: status = %d, code = %q", code, env.Errors.Code)
	}
}
