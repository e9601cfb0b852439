package handler

import (
	"strconv"

	"github.com/facturio/facturio-api/internal/application/service"
	"github.com/facturio/facturio-api/internal/presentation/http/dto/request"
	"github.com/facturio/facturio-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentTermsHandler handles installment template HTTP requests
type PaymentTermsHandler struct {
	termsService *service.PaymentTermsService
}

// NewPaymentTermsHandler creates a new payment-terms handler
func NewPaymentTermsHandler(termsService *service.PaymentTermsService) *PaymentTermsHandler {
	return &PaymentTermsHandler{termsService: termsService}
}

// List handles listing templates
func (h *PaymentTermsHandler) List(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	templates, err := h.termsService.ListTemplates(c.Request.Context(), tenantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment terms retrieved successfully", templates)
}

// Get handles retrieving a single template
func (h *PaymentTermsHandler) Get(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	terms, err := h.termsService.GetTemplate(c.Request.Context(), tenantID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment terms retrieved successfully", terms)
}

// Suggest returns the first template whose amount range covers the given TTC
func (h *PaymentTermsHandler) Suggest(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	montant, err := strconv.ParseFloat(c.Query("montant_ttc"), 64)
	if err != nil {
		response.BadRequest(c, "Invalid montant_ttc parameter")
		return
	}

	terms, err := h.termsService.SuggestTemplate(c.Request.Context(), tenantID, montant)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment terms suggestion", terms)
}

// Create handles creating a template
func (h *PaymentTermsHandler) Create(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	var req request.PaymentTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	terms, err := h.termsService.CreateTemplate(c.Request.Context(), termsInput(tenantID, &req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment terms created successfully", terms)
}

// Update handles updating a template
func (h *PaymentTermsHandler) Update(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req request.PaymentTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	terms, err := h.termsService.UpdateTemplate(c.Request.Context(), id, termsInput(tenantID, &req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment terms updated successfully", terms)
}

// Delete handles deleting a template
func (h *PaymentTermsHandler) Delete(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.termsService.DeleteTemplate(c.Request.Context(), tenantID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment terms deleted successfully", nil)
}

func termsInput(tenantID uuid.UUID, req *request.PaymentTermsRequest) *service.PaymentTermsInput {
	return &service.PaymentTermsInput{
		TenantID:                 tenantID,
		Name:                     req.Name,
		PourcentageAcompte:       req.PourcentageAcompte,
		PourcentageIntermediaire: req.PourcentageIntermediaire,
		PourcentageSolde:         req.PourcentageSolde,
		DelaiAcompteJours:        req.DelaiAcompteJours,
		DelaiIntermediaireJours:  req.DelaiIntermediaireJours,
		DelaiSoldeJours:          req.DelaiSoldeJours,
		MontantMin:               req.MontantMin,
		MontantMax:               req.MontantMax,
	}
}
