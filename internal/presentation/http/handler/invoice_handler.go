package handler

import (
	"strconv"
	"time"

	"github.com/facturio/facturio-api/internal/application/service"
	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/facturio/facturio-api/internal/presentation/http/dto/request"
	"github.com/facturio/facturio-api/internal/presentation/http/dto/response"
	"github.com/facturio/facturio-api/pkg/pagination"
	"github.com/facturio/facturio-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// List handles listing invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.InvoiceFilterParams{
		Pagination: &pagination.PaginationParams{Page: page, PerPage: perPage},
		Search:     c.Query("search"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status, valid := enum.ParseInvoiceStatus(statusStr)
		if !valid {
			response.BadRequest(c, "Invalid status parameter")
			return
		}
		params.Status = &status
	}
	if clientIDStr := c.Query("client_id"); clientIDStr != "" {
		clientID, err := utils.ParseUUID(clientIDStr)
		if err != nil {
			response.BadRequest(c, "Invalid client_id parameter")
			return
		}
		params.ClientID = &clientID
	}
	if quoteIDStr := c.Query("quote_id"); quoteIDStr != "" {
		quoteID, err := utils.ParseUUID(quoteIDStr)
		if err != nil {
			response.BadRequest(c, "Invalid quote_id parameter")
			return
		}
		params.QuoteID = &quoteID
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), tenantID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Get handles retrieving a single invoice with its derived display status
func (h *InvoiceHandler) Get(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), tenantID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", gin.H{
		"invoice":        invoice,
		"display_status": invoice.DisplayStatus(time.Now()),
	})
}

// Create handles creating a full invoice from an accepted quote
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	var req request.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	quoteID, err := utils.ParseUUID(req.QuoteID)
	if err != nil {
		response.BadRequest(c, "Invalid quote_id")
		return
	}

	input := &service.CreateInvoiceInput{
		TenantID: tenantID,
		QuoteID:  quoteID,
	}
	if req.DueDate != nil {
		dueDate, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			response.BadRequest(c, "Invalid due_date")
			return
		}
		input.DueDate = &dueDate
	}

	invoice, err := h.invoiceService.CreateFullInvoice(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", invoice)
}

// Update handles updating a draft invoice
func (h *InvoiceHandler) Update(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req request.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateInvoiceInput{
		TenantID: tenantID,
		ID:       id,
	}
	if req.DueDate != nil {
		dueDate, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			response.BadRequest(c, "Invalid due_date")
			return
		}
		input.DueDate = &dueDate
	}
	if req.Lines != nil {
		lines := make([]service.InvoiceLineInput, 0, len(req.Lines))
		for _, l := range req.Lines {
			lines = append(lines, service.InvoiceLineInput{
				Designation: l.Designation,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				TaxRate:     l.EffectiveTaxRate(),
			})
		}
		input.Lines = lines
	}

	invoice, err := h.invoiceService.UpdateDraftInvoice(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice updated successfully", invoice)
}

// Finalize handles recomputing and freezing an invoice's totals
func (h *InvoiceHandler) Finalize(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.FinalizeInvoice(c.Request.Context(), tenantID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice finalized successfully", gin.H{
		"invoice_id":  invoice.ID,
		"status":      invoice.Status,
		"montant_ht":  invoice.MontantHT,
		"montant_tva": invoice.MontantTVA,
		"montant_ttc": invoice.MontantTTC,
	})
}

// Send handles finalizing and sending an invoice
func (h *InvoiceHandler) Send(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// The body is optional; an empty send uses the client's stored contact.
	var req request.SendInvoiceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	invoice, err := h.invoiceService.SendInvoice(c.Request.Context(), &service.SendInvoiceInput{
		TenantID: tenantID,
		ID:       id,
		Email:    req.Email,
		Phone:    req.Phone,
		Channel:  req.Channel,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice sent successfully", invoice)
}

// MarkPaid handles recording a payment on an invoice
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req request.MarkPaidRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	input := &service.MarkPaidInput{
		TenantID: tenantID,
		ID:       id,
	}
	if req.PaymentDate != nil {
		paymentDate, err := time.Parse("2006-01-02", *req.PaymentDate)
		if err != nil {
			response.BadRequest(c, "Invalid payment_date")
			return
		}
		input.PaymentDate = &paymentDate
	}

	invoice, err := h.invoiceService.MarkInvoicePaid(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice marked as paid", invoice)
}
