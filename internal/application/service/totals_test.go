package service

import (
	"errors"
	"math"
	"testing"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/pkg/apperror"
)

func line(qty, unit, tax float64) entity.InvoiceLine {
	l := entity.InvoiceLine{Quantity: qty, UnitPrice: unit, TaxRate: tax}
	l.ComputeAmounts()
	return l
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeInvoiceTotals(t *testing.T) {
	tests := []struct {
		name    string
		lines   []entity.InvoiceLine
		wantHT  float64
		wantTVA float64
		wantTTC float64
	}{
		{
			name:    "single line standard rate",
			lines:   []entity.InvoiceLine{line(1, 1000, 20)},
			wantHT:  1000,
			wantTVA: 200,
			wantTTC: 1200,
		},
		{
			name:    "quantity multiplies unit price",
			lines:   []entity.InvoiceLine{line(3, 250, 20)},
			wantHT:  750,
			wantTVA: 150,
			wantTTC: 900,
		},
		{
			name: "mixed tax rates sum per line",
			lines: []entity.InvoiceLine{
				line(1, 100, 20),
				line(2, 50, 10),
				line(1, 30, 0),
			},
			wantHT:  230,
			wantTVA: 30,
			wantTTC: 260,
		},
		{
			name:    "zero rate line",
			lines:   []entity.InvoiceLine{line(4, 25, 0)},
			wantHT:  100,
			wantTVA: 0,
			wantTTC: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeInvoiceTotals(tt.lines)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almostEqual(got.HT, tt.wantHT) || !almostEqual(got.TVA, tt.wantTVA) || !almostEqual(got.TTC, tt.wantTTC) {
				t.Fatalf("got HT=%v TVA=%v TTC=%v, want HT=%v TVA=%v TTC=%v",
					got.HT, got.TVA, got.TTC, tt.wantHT, tt.wantTVA, tt.wantTTC)
			}
			if !almostEqual(got.TTC, got.HT+got.TVA) {
				t.Fatalf("TTC %v does not equal HT+TVA %v", got.TTC, got.HT+got.TVA)
			}
		})
	}
}

func TestComputeInvoiceTotalsEmptyLines(t *testing.T) {
	_, err := ComputeInvoiceTotals(nil)
	if !errors.Is(err, apperror.ErrNoLignes) {
		t.Fatalf("expected ErrNoLignes, got %v", err)
	}

	_, err = ComputeInvoiceTotals([]entity.InvoiceLine{})
	if !errors.Is(err, apperror.ErrNoLignes) {
		t.Fatalf("expected ErrNoLignes for empty slice, got %v", err)
	}
}

func TestComputeInvoiceTotalsIdempotent(t *testing.T) {
	lines := []entity.InvoiceLine{line(2, 149.99, 20), line(1, 50, 10)}

	first, err := ComputeInvoiceTotals(lines)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	second, err := ComputeInvoiceTotals(lines)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if first != second {
		t.Fatalf("totals changed between passes: %+v vs %+v", first, second)
	}
}

func TestComputeQuoteTotals(t *testing.T) {
	ql := entity.QuoteLine{Quantity: 2, UnitPrice: 500, TaxRate: 20}
	ql.ComputeAmounts()

	got, err := ComputeQuoteTotals([]entity.QuoteLine{ql})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got.HT, 1000) || !almostEqual(got.TVA, 200) || !almostEqual(got.TTC, 1200) {
		t.Fatalf("got %+v", got)
	}

	if _, err := ComputeQuoteTotals(nil); !errors.Is(err, apperror.ErrNoLignes) {
		t.Fatalf("expected ErrNoLignes, got %v", err)
	}
}
