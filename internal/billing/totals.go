// Package billing contiene el cálculo monetario puro y el ensamblado del
// documento de factura. No hace I/O: todas las funciones son deterministas
// sobre sus entradas.
package billing

import (
	"strconv"
	"strings"

	"github.com/yoquelvisdev08/factura/internal/models"
)

// LineAmounts representa los montos derivados de una línea
type LineAmounts struct {
	Subtotal      float64
	AfterDiscount float64
	Tax           float64
	Total         float64
}

// CalculateLine calcula los montos de una línea. El descuento por línea se
// aplica antes del impuesto; invertir ese orden cambia el total, así que el
// orden es parte del contrato, no un detalle.
func CalculateLine(item models.LineItem) LineAmounts {
	subtotal := item.Quantity * item.UnitPrice
	afterDiscount := subtotal * (1 - item.DiscountPercent/100)
	tax := afterDiscount * (item.TaxRatePercent / 100)

	return LineAmounts{
		Subtotal:      subtotal,
		AfterDiscount: afterDiscount,
		Tax:           tax,
		Total:         afterDiscount + tax,
	}
}

// CalculateTotals calcula los agregados del documento. El descuento global se
// aplica solo al subtotal, nunca al impuesto; el impuesto se calcula sobre los
// montos ya descontados por línea, antes del descuento global. Los valores se
// acumulan con precisión completa: el redondeo a 2 decimales ocurre únicamente
// al formatear para mostrar o renderizar.
func CalculateTotals(items []models.LineItem, globalDiscountPercent float64) models.Totals {
	var subtotal, tax float64
	for _, item := range items {
		amounts := CalculateLine(item)
		subtotal += amounts.AfterDiscount
		tax += amounts.Tax
	}

	afterGlobal := subtotal * (1 - globalDiscountPercent/100)

	return models.Totals{
		Subtotal:              subtotal,
		SubtotalAfterDiscount: afterGlobal,
		Tax:                   tax,
		Total:                 afterGlobal + tax,
	}
}

// ParseAmount coerce un campo numérico del formulario. Texto vacío o no
// numérico vale cero; nunca es un error.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return value
}
