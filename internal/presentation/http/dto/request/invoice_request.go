package request

// CreateInvoiceRequest represents a full invoice creation request
type CreateInvoiceRequest struct {
	QuoteID string  `json:"quote_id" binding:"required,uuid"`
	DueDate *string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
}

// CreateInstallmentRequest represents an installment invoice creation request
type CreateInstallmentRequest struct {
	Role string `json:"role" binding:"required,oneof=acompte intermediaire solde"`
}

// UpdateInvoiceRequest represents a draft invoice update request
type UpdateInvoiceRequest struct {
	DueDate *string       `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Lines   []LineRequest `json:"lines" binding:"omitempty,dive"`
}

// SendInvoiceRequest represents an invoice send request. The channel picks
// the delivery route; contact overrides fall back to the client record.
type SendInvoiceRequest struct {
	Channel string  `json:"channel" binding:"omitempty,oneof=email message"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
}

// MarkPaidRequest represents a mark-paid request. A missing payment date
// defaults to today.
type MarkPaidRequest struct {
	PaymentDate *string `json:"payment_date" binding:"omitempty,datetime=2006-01-02"`
}
