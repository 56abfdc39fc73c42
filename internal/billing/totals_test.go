package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yoquelvisdev08/factura/internal/billing"
	"github.com/yoquelvisdev08/factura/internal/models"
)

const tolerance = 1e-9

func TestCalculateLine(t *testing.T) {
	tests := []struct {
		name              string
		item              models.LineItem
		wantSubtotal      float64
		wantAfterDiscount float64
		wantTax           float64
		wantTotal         float64
	}{
		{
			name: "line with tax and no discount",
			item: models.LineItem{
				Quantity:       2,
				UnitPrice:      100,
				TaxRatePercent: 18,
			},
			wantSubtotal:      200,
			wantAfterDiscount: 200,
			wantTax:           36,
			wantTotal:         236,
		},
		{
			name: "discount applies before tax",
			item: models.LineItem{
				Quantity:        2,
				UnitPrice:       100,
				TaxRatePercent:  18,
				DiscountPercent: 10,
			},
			wantSubtotal:      200,
			wantAfterDiscount: 180,
			wantTax:           32.4,
			wantTotal:         212.4,
		},
		{
			name: "zero quantity yields zero amounts",
			item: models.LineItem{
				Quantity:       0,
				UnitPrice:      500,
				TaxRatePercent: 18,
			},
			wantSubtotal:      0,
			wantAfterDiscount: 0,
			wantTax:           0,
			wantTotal:         0,
		},
		{
			name: "full discount",
			item: models.LineItem{
				Quantity:        3,
				UnitPrice:       50,
				TaxRatePercent:  18,
				DiscountPercent: 100,
			},
			wantSubtotal:      150,
			wantAfterDiscount: 0,
			wantTax:           0,
			wantTotal:         0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amounts := billing.CalculateLine(tt.item)

			assert.InDelta(t, tt.wantSubtotal, amounts.Subtotal, tolerance)
			assert.InDelta(t, tt.wantAfterDiscount, amounts.AfterDiscount, tolerance)
			assert.InDelta(t, tt.wantTax, amounts.Tax, tolerance)
			assert.InDelta(t, tt.wantTotal, amounts.Total, tolerance)
		})
	}
}

func TestCalculateTotals(t *testing.T) {
	items := []models.LineItem{
		{Quantity: 2, UnitPrice: 100, TaxRatePercent: 18, DiscountPercent: 10},
		{Quantity: 1, UnitPrice: 50, TaxRatePercent: 18},
	}

	totals := billing.CalculateTotals(items, 0)

	assert.InDelta(t, 230, totals.Subtotal, tolerance)
	assert.InDelta(t, 230, totals.SubtotalAfterDiscount, tolerance)
	assert.InDelta(t, 41.4, totals.Tax, tolerance)
	assert.InDelta(t, 271.4, totals.Total, tolerance)
}

func TestCalculateTotals_GlobalDiscountDoesNotTouchTax(t *testing.T) {
	items := []models.LineItem{
		{Quantity: 2, UnitPrice: 100, TaxRatePercent: 18},
	}

	totals := billing.CalculateTotals(items, 10)

	// El descuento global reduce el subtotal pero nunca el impuesto
	assert.InDelta(t, 200, totals.Subtotal, tolerance)
	assert.InDelta(t, 180, totals.SubtotalAfterDiscount, tolerance)
	assert.InDelta(t, 36, totals.Tax, tolerance)
	assert.InDelta(t, 216, totals.Total, tolerance)
}

func TestCalculateTotals_Identity(t *testing.T) {
	items := []models.LineItem{
		{Quantity: 3, UnitPrice: 33.33, TaxRatePercent: 18, DiscountPercent: 5},
		{Quantity: 1.5, UnitPrice: 99.99, TaxRatePercent: 16, DiscountPercent: 12.5},
		{Quantity: 7, UnitPrice: 0.07, TaxRatePercent: 0},
	}

	totals := billing.CalculateTotals(items, 7.5)

	assert.InDelta(t, totals.SubtotalAfterDiscount+totals.Tax, totals.Total, tolerance)
}

func TestCalculateTotals_NoItems(t *testing.T) {
	totals := billing.CalculateTotals(nil, 25)

	assert.Zero(t, totals.Subtotal)
	assert.Zero(t, totals.SubtotalAfterDiscount)
	assert.Zero(t, totals.Tax)
	assert.Zero(t, totals.Total)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "plain integer", input: "42", want: 42},
		{name: "decimal", input: "3.14", want: 3.14},
		{name: "surrounding whitespace", input: "  18 ", want: 18},
		{name: "empty string", input: "", want: 0},
		{name: "non numeric", input: "abc", want: 0},
		{name: "partial number", input: "12abc", want: 0},
		{name: "negative", input: "-5", want: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, billing.ParseAmount(tt.input))
		})
	}
}
