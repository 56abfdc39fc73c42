package billing_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoquelvisdev08/factura/internal/billing"
	"github.com/yoquelvisdev08/factura/internal/models"
)

func sampleForm() *models.FormState {
	return &models.FormState{
		EmpresaNombre:    "Acme SRL",
		EmpresaRNC:       "101-00000-1",
		EmpresaDireccion: "Av. Principal 1",
		EmpresaEmail:     "facturas@acme.do",
		ClienteNombre:    "Cliente Uno",
		ClienteRNC:       "402-00000-2",
		NumeroFactura:    "FAC-123456-001",
		Fecha:            "2026-08-30",
		Moneda:           "RD$",
		Items: []models.FormLineItem{
			{Descripcion: "Servicio A", Cantidad: "2", PrecioUnitario: "100", Impuesto: "18", Descuento: "10"},
			{Descripcion: "Servicio B", Cantidad: "1", PrecioUnitario: "50", Impuesto: "18"},
		},
	}
}

func TestAssemble(t *testing.T) {
	doc, err := billing.Assemble(sampleForm())
	require.NoError(t, err)

	assert.Equal(t, "Acme SRL", doc.Issuer.Name)
	assert.Equal(t, "Cliente Uno", doc.Recipient.Name)
	assert.Equal(t, "FAC-123456-001", doc.DocumentNumber)
	require.Len(t, doc.Items, 2)
	assert.Equal(t, 2.0, doc.Items[0].Quantity)
	assert.Equal(t, 10.0, doc.Items[0].DiscountPercent)

	assert.InDelta(t, 230, doc.Totals.Subtotal, tolerance)
	assert.InDelta(t, 41.4, doc.Totals.Tax, tolerance)
	assert.InDelta(t, 271.4, doc.Totals.Total, tolerance)
	assert.NotEmpty(t, doc.QRPayload)
}

func TestAssemble_NoItems(t *testing.T) {
	form := sampleForm()
	form.Items = nil

	_, err := billing.Assemble(form)
	assert.ErrorIs(t, err, billing.ErrNoItems)
}

func TestAssemble_Idempotent(t *testing.T) {
	first, err := billing.Assemble(sampleForm())
	require.NoError(t, err)
	second, err := billing.Assemble(sampleForm())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAssemble_CoercesBadNumerics(t *testing.T) {
	form := sampleForm()
	form.Items = []models.FormLineItem{
		{Descripcion: "Línea rara", Cantidad: "abc", PrecioUnitario: "", Impuesto: "x"},
	}
	form.DescuentoGlobal = "no aplica"

	doc, err := billing.Assemble(form)
	require.NoError(t, err)

	assert.Zero(t, doc.Items[0].Quantity)
	assert.Zero(t, doc.Items[0].UnitPrice)
	assert.Zero(t, doc.GlobalDiscountPercent)
	assert.Zero(t, doc.Totals.Total)
}

func TestAssemble_GeneratesNumberWhenEmpty(t *testing.T) {
	form := sampleForm()
	form.NumeroFactura = ""

	doc, err := billing.Assemble(form)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^FAC-\d{6}-\d{3}$`), doc.DocumentNumber)
}

func TestAssemble_PreservesUserEditedNumber(t *testing.T) {
	form := sampleForm()
	form.NumeroFactura = "MI-NUMERO-99"

	doc, err := billing.Assemble(form)
	require.NoError(t, err)

	assert.Equal(t, "MI-NUMERO-99", doc.DocumentNumber)
}

func TestGenerateInvoiceNumber(t *testing.T) {
	number := billing.GenerateInvoiceNumber()

	assert.True(t, strings.HasPrefix(number, "FAC-"))
	assert.Regexp(t, regexp.MustCompile(`^FAC-\d{6}-\d{3}$`), number)
}
