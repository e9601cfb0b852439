package entity

import (
	"time"

	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice represents a billing document (facture) for part or all of a
// quote's value. Totals are only written by the finalize operation.
type Invoice struct {
	ID              uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	TenantID        uuid.UUID            `gorm:"type:uuid;not null;index" json:"tenant_id"`
	ClientID        uuid.UUID            `gorm:"type:uuid;not null;index" json:"client_id"`
	QuoteID         uuid.UUID            `gorm:"type:uuid;not null;index" json:"quote_id"`
	Number          string               `gorm:"size:100;unique;not null" json:"number"`
	InstallmentRole enum.InstallmentRole `gorm:"default:0" json:"installment_role"`
	Status          enum.InvoiceStatus   `gorm:"default:0" json:"status"`
	MontantHT       float64              `gorm:"type:decimal(15,2);default:0" json:"montant_ht"`
	MontantTVA      float64              `gorm:"type:decimal(15,2);default:0" json:"montant_tva"`
	MontantTTC      float64              `gorm:"type:decimal(15,2);default:0" json:"montant_ttc"`
	DueDate         *time.Time           `gorm:"type:date" json:"due_date,omitempty"`
	PaymentDate     *time.Time           `gorm:"type:date" json:"payment_date,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	DeletedAt       gorm.DeletedAt       `gorm:"index" json:"-"`

	// Relationships
	Tenant Tenant        `gorm:"foreignKey:TenantID" json:"-"`
	Client *Client       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Quote  *Quote        `gorm:"foreignKey:QuoteID" json:"-"`
	Lines  []InvoiceLine `gorm:"foreignKey:InvoiceID" json:"lines,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// IsOverdue reports whether a sent invoice is past its due date. Display
// derivation only; status is never persisted as en_retard by the core.
func (i *Invoice) IsOverdue(now time.Time) bool {
	if i.Status != enum.InvoiceStatusEnvoyee || i.DueDate == nil {
		return false
	}
	return now.After(*i.DueDate)
}

// DisplayStatus returns the client-facing status, substituting en_retard for
// sent invoices past due
func (i *Invoice) DisplayStatus(now time.Time) string {
	if i.IsOverdue(now) {
		return enum.InvoiceStatusEnRetard.String()
	}
	return i.Status.String()
}

// InvoiceLine represents an ordered line item of an invoice
type InvoiceLine struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Position    int            `gorm:"not null" json:"position"`
	Designation string         `gorm:"size:500;not null" json:"designation"`
	Quantity    float64        `gorm:"type:decimal(10,2);not null" json:"quantity"`
	UnitPrice   float64        `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	TaxRate     float64        `gorm:"type:decimal(5,2);default:20" json:"tax_rate"`
	TotalHT     float64        `gorm:"type:decimal(15,2);not null" json:"total_ht"`
	TotalTVA    float64        `gorm:"type:decimal(15,2);not null" json:"total_tva"`
	TotalTTC    float64        `gorm:"type:decimal(15,2);not null" json:"total_ttc"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new invoice line
func (l *InvoiceLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceLine model
func (InvoiceLine) TableName() string {
	return "invoice_lines"
}

// ComputeAmounts fills the derived per-line totals from quantity, unit price
// and tax rate
func (l *InvoiceLine) ComputeAmounts() {
	l.TotalHT = l.Quantity * l.UnitPrice
	l.TotalTVA = l.TotalHT * l.TaxRate / 100
	l.TotalTTC = l.TotalHT + l.TotalTVA
}
