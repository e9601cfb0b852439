package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/facturio/facturio-api/internal/application/service"
	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/facturio/facturio-api/internal/presentation/http/dto/request"
	"github.com/facturio/facturio-api/internal/presentation/http/dto/response"
	"github.com/facturio/facturio-api/pkg/pagination"
	"github.com/facturio/facturio-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QuoteHandler handles quote-related HTTP requests
type QuoteHandler struct {
	quoteService       *service.QuoteService
	installmentService *service.InstallmentService
	historyService     *service.HistoryService
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(
	quoteService *service.QuoteService,
	installmentService *service.InstallmentService,
	historyService *service.HistoryService,
) *QuoteHandler {
	return &QuoteHandler{
		quoteService:       quoteService,
		installmentService: installmentService,
		historyService:     historyService,
	}
}

// List handles listing quotes
func (h *QuoteHandler) List(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.QuoteFilterParams{
		Pagination: &pagination.PaginationParams{Page: page, PerPage: perPage},
		Search:     c.Query("search"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status, valid := enum.ParseQuoteStatus(statusStr)
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

	result, err := h.quoteService.ListQuotes(c.Request.Context(), tenantID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Quotes retrieved successfully", result)
}

// Get handles retrieving a single quote with its derived display status and
// installment plan
func (h *QuoteHandler) Get(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	quote, err := h.quoteService.GetQuote(c.Request.Context(), tenantID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	plan, err := h.installmentService.PlanForQuote(c.Request.Context(), tenantID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quote retrieved successfully", gin.H{
		"quote":          quote,
		"display_status": quote.DisplayStatus(time.Now()),
		"plan":           plan,
	})
}

// Create handles creating a quote
func (h *QuoteHandler) Create(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	var req request.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	clientID, err := utils.ParseUUID(req.ClientID)
	if err != nil {
		response.BadRequest(c, "Invalid client_id")
		return
	}

	input := &service.CreateQuoteInput{
		TenantID: tenantID,
		ClientID: clientID,
		Notes:    req.Notes,
		Lines:    toQuoteLineInputs(req.Lines),
	}
	if req.PaymentTermsID != nil {
		termsID, err := utils.ParseUUID(*req.PaymentTermsID)
		if err != nil {
			response.BadRequest(c, "Invalid payment_terms_id")
			return
		}
		input.PaymentTermsID = &termsID
	}

	quote, err := h.quoteService.CreateQuote(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Quote created successfully", quote)
}

// Update handles updating a quote
func (h *QuoteHandler) Update(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req request.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateQuoteInput{
		TenantID: tenantID,
		ID:       id,
		Notes:    req.Notes,
	}
	if req.ClientID != nil {
		clientID, err := utils.ParseUUID(*req.ClientID)
		if err != nil {
			response.BadRequest(c, "Invalid client_id")
			return
		}
		input.ClientID = &clientID
	}
	if req.PaymentTermsID != nil {
		termsID, err := utils.ParseUUID(*req.PaymentTermsID)
		if err != nil {
			response.BadRequest(c, "Invalid payment_terms_id")
			return
		}
		input.PaymentTermsID = &termsID
	}
	if req.Lines != nil {
		input.Lines = toQuoteLineInputs(req.Lines)
	}

	quote, err := h.quoteService.UpdateQuote(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quote updated successfully", quote)
}

// Delete handles deleting a quote
func (h *QuoteHandler) Delete(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.quoteService.DeleteQuote(c.Request.Context(), tenantID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quote deleted successfully", nil)
}

// Send handles sending a quote to the client
func (h *QuoteHandler) Send(c *gin.Context) {
	h.transition(c, h.quoteService.SendQuote, "Quote sent successfully")
}

// Accept handles accepting a quote
func (h *QuoteHandler) Accept(c *gin.Context) {
	h.transition(c, h.quoteService.AcceptQuote, "Quote accepted successfully")
}

// Refuse handles refusing a quote
func (h *QuoteHandler) Refuse(c *gin.Context) {
	h.transition(c, h.quoteService.RefuseQuote, "Quote refused successfully")
}

// History returns the projected event timeline of a quote
func (h *QuoteHandler) History(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	events, err := h.historyService.QuoteHistory(c.Request.Context(), tenantID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quote history retrieved successfully", events)
}

// Plan returns the installment plan of a quote
func (h *QuoteHandler) Plan(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	plan, err := h.installmentService.PlanForQuote(c.Request.Context(), tenantID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Installment plan retrieved successfully", plan)
}

// CreateInstallment creates an invoice for one installment of the plan
func (h *QuoteHandler) CreateInstallment(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req request.CreateInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	role, valid := enum.ParseInstallmentRole(req.Role)
	if !valid {
		response.BadRequest(c, "Invalid role")
		return
	}

	invoice, err := h.installmentService.CreateInstallmentInvoice(c.Request.Context(), &service.CreateInstallmentInput{
		TenantID: tenantID,
		QuoteID:  id,
		Role:     role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Installment invoice created successfully", invoice)
}

type quoteTransition func(ctx context.Context, tenantID, id uuid.UUID) (*entity.Quote, error)

func (h *QuoteHandler) transition(c *gin.Context, fn quoteTransition, message string) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	quote, err := fn(c.Request.Context(), tenantID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, message, gin.H{
		"quote":          quote,
		"display_status": quote.DisplayStatus(time.Now()),
	})
}

func toQuoteLineInputs(lines []request.LineRequest) []service.QuoteLineInput {
	inputs := make([]service.QuoteLineInput, 0, len(lines))
	for _, l := range lines {
		inputs = append(inputs, service.QuoteLineInput{
			Designation: l.Designation,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.EffectiveTaxRate(),
		})
	}
	return inputs
}
