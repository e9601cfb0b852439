package handler

import (
	"testing"

	"github.com/facturio/facturio-api/internal/presentation/http/dto/request"
)

func TestToQuoteLineInputsTaxRate(t *testing.T) {
	zero := 0.0
	reduced := 5.5

	inputs := toQuoteLineInputs([]request.LineRequest{
		{Designation: "Taux normal", Quantity: 1, UnitPrice: 100},
		{Designation: "Exonere", Quantity: 1, UnitPrice: 100, TaxRate: &zero},
		{Designation: "Taux reduit", Quantity: 1, UnitPrice: 100, TaxRate: &reduced},
	})

	if inputs[0].TaxRate != 20 {
		t.Fatalf("omitted rate = %v, want the 20%% default", inputs[0].TaxRate)
	}
	if inputs[1].TaxRate != 0 {
		t.Fatalf("explicit zero rate = %v, want 0", inputs[1].TaxRate)
	}
	if inputs[2].TaxRate != 5.5 {
		t.Fatalf("explicit rate = %v, want 5.5", inputs[2].TaxRate)
	}
}
