package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentTerms is a reusable installment template applied to quotes.
// Percentages across present installments are expected to sum to 100, but
// this is never enforced or normalized here; partial and all-zero templates
// are accepted configurations.
type PaymentTerms struct {
	ID                       uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID                 uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name                     string         `gorm:"size:255;not null" json:"name"`
	PourcentageAcompte       float64        `gorm:"type:decimal(5,2);default:0" json:"pourcentage_acompte"`
	PourcentageIntermediaire float64        `gorm:"type:decimal(5,2);default:0" json:"pourcentage_intermediaire"`
	PourcentageSolde         float64        `gorm:"type:decimal(5,2);default:0" json:"pourcentage_solde"`
	DelaiAcompteJours        int            `gorm:"default:0" json:"delai_acompte_jours"`
	DelaiIntermediaireJours  int            `gorm:"default:0" json:"delai_intermediaire_jours"`
	DelaiSoldeJours          int            `gorm:"default:30" json:"delai_solde_jours"`
	MontantMin               float64        `gorm:"type:decimal(15,2);default:0" json:"montant_min"`
	MontantMax               float64        `gorm:"type:decimal(15,2);default:0" json:"montant_max"`
	CreatedAt                time.Time      `json:"created_at"`
	UpdatedAt                time.Time      `json:"updated_at"`
	DeletedAt                gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new template
func (p *PaymentTerms) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PaymentTerms model
func (PaymentTerms) TableName() string {
	return "payment_terms"
}

// AppliesTo reports whether the template's amount range covers the given
// TTC amount. A zero MontantMax means no upper bound.
func (p *PaymentTerms) AppliesTo(montantTTC float64) bool {
	if montantTTC < p.MontantMin {
		return false
	}
	if p.MontantMax > 0 && montantTTC > p.MontantMax {
		return false
	}
	return true
}
