package service

import (
	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/pkg/apperror"
)

// Totals carries summed HT/TVA/TTC amounts
type Totals struct {
	HT  float64 `json:"ht"`
	TVA float64 `json:"tva"`
	TTC float64 `json:"ttc"`
}

// ComputeInvoiceTotals sums the precomputed per-line amounts of an invoice.
// An empty line set is a precondition violation, not a zero-total result:
// the finalize flow must never freeze totals for an invoice without lines.
func ComputeInvoiceTotals(lines []entity.InvoiceLine) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, apperror.ErrNoLignes
	}
	var t Totals
	for _, l := range lines {
		t.HT += l.TotalHT
		t.TVA += l.TotalTVA
		t.TTC += l.TotalTTC
	}
	return t, nil
}

// ComputeQuoteTotals sums the precomputed per-line amounts of a quote
func ComputeQuoteTotals(lines []entity.QuoteLine) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, apperror.ErrNoLignes
	}
	var t Totals
	for _, l := range lines {
		t.HT += l.TotalHT
		t.TVA += l.TotalTVA
		t.TTC += l.TotalTTC
	}
	return t, nil
}
