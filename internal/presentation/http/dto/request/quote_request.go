package request

// LineRequest represents one line item of a quote or invoice. TaxRate is a
// pointer so an explicit 0 (exempt line) is distinguishable from an absent
// field, which defaults to the standard 20%.
type LineRequest struct {
	Designation string   `json:"designation" binding:"required,min=1,max=500"`
	Quantity    float64  `json:"quantity" binding:"required,gt=0"`
	UnitPrice   float64  `json:"unit_price" binding:"min=0"`
	TaxRate     *float64 `json:"tax_rate" binding:"omitempty,min=0,max=100"`
}

// EffectiveTaxRate returns the requested tax rate, defaulting to 20 when the
// field was omitted
func (l *LineRequest) EffectiveTaxRate() float64 {
	if l.TaxRate == nil {
		return 20
	}
	return *l.TaxRate
}

// CreateQuoteRequest represents a quote creation request
type CreateQuoteRequest struct {
	ClientID       string        `json:"client_id" binding:"required,uuid"`
	PaymentTermsID *string       `json:"payment_terms_id" binding:"omitempty,uuid"`
	Notes          *string       `json:"notes"`
	Lines          []LineRequest `json:"lines" binding:"dive"`
}

// UpdateQuoteRequest represents a quote update request. A nil Lines field
// leaves the existing lines untouched.
type UpdateQuoteRequest struct {
	ClientID       *string       `json:"client_id" binding:"omitempty,uuid"`
	PaymentTermsID *string       `json:"payment_terms_id" binding:"omitempty,uuid"`
	Notes          *string       `json:"notes"`
	Lines          []LineRequest `json:"lines" binding:"omitempty,dive"`
}
