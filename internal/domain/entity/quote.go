package entity

import (
	"time"

	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuoteExpiryDays is how long a quote stays valid before the display layer
// reports it as expired.
const QuoteExpiryDays = 30

// Quote represents a commercial proposal (devis) sent to a client.
// Monetary totals are derived from the lines and never edited directly.
type Quote struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	TenantID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"tenant_id"`
	ClientID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"client_id"`
	PaymentTermsID *uuid.UUID       `gorm:"type:uuid;index" json:"payment_terms_id,omitempty"`
	Number         string           `gorm:"size:100;unique;not null" json:"number"`
	Status         enum.QuoteStatus `gorm:"default:0" json:"status"`
	MontantHT      float64          `gorm:"type:decimal(15,2);default:0" json:"montant_ht"`
	MontantTVA     float64          `gorm:"type:decimal(15,2);default:0" json:"montant_tva"`
	MontantTTC     float64          `gorm:"type:decimal(15,2);default:0" json:"montant_ttc"`
	Notes          *string          `gorm:"type:text" json:"notes,omitempty"`
	SentAt         *time.Time       `json:"sent_at,omitempty"`
	AcceptedAt     *time.Time       `json:"accepted_at,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Tenant       Tenant        `gorm:"foreignKey:TenantID" json:"-"`
	Client       *Client       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	PaymentTerms *PaymentTerms `gorm:"foreignKey:PaymentTermsID" json:"payment_terms,omitempty"`
	Lines        []QuoteLine   `gorm:"foreignKey:QuoteID" json:"lines,omitempty"`
	Invoices     []Invoice     `gorm:"foreignKey:QuoteID" json:"invoices,omitempty"`
}

// BeforeCreate generates a UUID before creating a new quote
func (q *Quote) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Quote model
func (Quote) TableName() string {
	return "quotes"
}

// IsExpired reports whether the quote should display as expired: older than
// QuoteExpiryDays and not yet accepted or refused. Pure derivation, nothing
// is persisted.
func (q *Quote) IsExpired(now time.Time) bool {
	if q.Status == enum.QuoteStatusAccepte || q.Status == enum.QuoteStatusRefuse || q.Status == enum.QuoteStatusPaye {
		return false
	}
	return now.Sub(q.CreatedAt) > QuoteExpiryDays*24*time.Hour
}

// DisplayStatus returns the client-facing status, substituting the derived
// expired state where applicable.
func (q *Quote) DisplayStatus(now time.Time) string {
	if q.IsExpired(now) {
		return enum.QuoteStatusExpire
	}
	return q.Status.String()
}

// QuoteLine represents an ordered line item of a quote
type QuoteLine struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	QuoteID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"quote_id"`
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
	Quote Quote `gorm:"foreignKey:QuoteID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new quote line
func (l *QuoteLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the QuoteLine model
func (QuoteLine) TableName() string {
	return "quote_lines"
}

// ComputeAmounts fills the derived per-line totals from quantity, unit price
// and tax rate
func (l *QuoteLine) ComputeAmounts() {
	l.TotalHT = l.Quantity * l.UnitPrice
	l.TotalTVA = l.TotalHT * l.TaxRate / 100
	l.TotalTTC = l.TotalHT + l.TotalTVA
}
