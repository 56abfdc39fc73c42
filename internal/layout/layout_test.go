package layout_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoquelvisdev08/factura/internal/layout"
	"github.com/yoquelvisdev08/factura/internal/models"
)

func sampleDocument() *models.InvoiceDocument {
	return &models.InvoiceDocument{
		Issuer: models.Party{
			Name:    "Acme SRL",
			TaxID:   "101-00000-1",
			Address: "Av. Principal 1",
			Email:   "facturas@acme.do",
		},
		Recipient: models.Party{
			Name:  "Cliente Uno",
			TaxID: "402-00000-2",
		},
		DocumentNumber: "FAC-123456-001",
		IssueDate:      "2026-08-30",
		DueDate:        "2026-09-30",
		Currency:       "RD$",
		PaymentMethod:  "Transferencia",
		Notes:          "Pago a 30 días",
		Items: []models.LineItem{
			{Description: "Servicio A", Quantity: 2, UnitPrice: 100, TaxRatePercent: 18, DiscountPercent: 10},
			{Description: "Servicio B", Quantity: 1, UnitPrice: 50, TaxRatePercent: 18},
		},
		Totals: models.Totals{
			Subtotal:              230,
			SubtotalAfterDiscount: 230,
			Tax:                   41.4,
			Total:                 271.4,
		},
		QRPayload: `{"emisor":"Acme SRL"}`,
	}
}

func buildFor(template models.Template) *layout.Tree {
	return layout.Build(sampleDocument(), template, models.DefaultTheme(template))
}

func TestBuild_ContentIdenticalAcrossTemplates(t *testing.T) {
	profesional := buildFor(models.TemplateProfesional).TextContent()
	moderna := buildFor(models.TemplateModerna).TextContent()
	clasica := buildFor(models.TemplateClasica).TextContent()

	// Cambiar de plantilla cambia la presentación, nunca el contenido
	assert.Equal(t, profesional, moderna)
	assert.Equal(t, profesional, clasica)
}

func TestBuild_TableContent(t *testing.T) {
	tree := buildFor(models.TemplateProfesional)

	require.Len(t, tree.Table.Columns, 5)
	var totalPct float64
	for _, col := range tree.Table.Columns {
		totalPct += col.WidthPct
	}
	assert.Equal(t, 100.0, totalPct)

	require.Len(t, tree.Table.Rows, 2)
	first := tree.Table.Rows[0]
	require.Len(t, first, 5)
	assert.Equal(t, "Servicio A", first[0].Text)
	assert.Equal(t, "2", first[1].Text)
	assert.Equal(t, "RD$ 100.00", first[2].Text)
	assert.Equal(t, "RD$ 32.40", first[3].Text)
	assert.Equal(t, "RD$ 212.40", first[4].Text)
}

func TestBuild_TotalsRows(t *testing.T) {
	doc := sampleDocument()
	doc.GlobalDiscountPercent = 10
	doc.Totals = models.Totals{Subtotal: 230, SubtotalAfterDiscount: 207, Tax: 41.4, Total: 248.4}

	tree := layout.Build(doc, models.TemplateModerna, models.DefaultTheme(models.TemplateModerna))

	require.Len(t, tree.Totals.Rows, 4)
	assert.Equal(t, "Subtotal", tree.Totals.Rows[0].Label)
	assert.Equal(t, "Descuento Global (10%)", tree.Totals.Rows[1].Label)
	assert.Equal(t, "RD$ 23.00", tree.Totals.Rows[1].Value)
	assert.Equal(t, "ITBIS", tree.Totals.Rows[2].Label)
	assert.Equal(t, "TOTAL", tree.Totals.Rows[3].Label)
	assert.True(t, tree.Totals.Rows[3].Emphasis)
	assert.Equal(t, "RD$ 248.40", tree.Totals.Rows[3].Value)
}

func TestBuild_NoGlobalDiscountRowWhenZero(t *testing.T) {
	tree := buildFor(models.TemplateProfesional)

	require.Len(t, tree.Totals.Rows, 3)
	for _, row := range tree.Totals.Rows {
		assert.NotContains(t, row.Label, "Descuento")
	}
}

func TestBuild_OmitsEmptyOptionalFields(t *testing.T) {
	doc := sampleDocument()
	doc.Issuer.Logo = ""
	doc.Issuer.Signature = ""
	doc.QRPayload = ""
	doc.DueDate = ""
	doc.Notes = ""

	tree := layout.Build(doc, models.TemplateClasica, models.DefaultTheme(models.TemplateClasica))

	assert.Empty(t, tree.Header.Logo)
	assert.Empty(t, tree.Footer.Signature)
	assert.Empty(t, tree.Footer.QRPayload)
	assert.Empty(t, tree.Footer.QRCaption.Text)
	for _, line := range tree.Header.Meta {
		assert.NotContains(t, line.Text, "Vencimiento")
	}
	for _, line := range tree.Footer.Lines {
		assert.NotContains(t, line.Text, "Notas")
	}
}

func TestBuild_FooterAnchoredToBottom(t *testing.T) {
	small := sampleDocument()
	small.Items = small.Items[:1]

	big := sampleDocument()
	for i := 0; i < 10; i++ {
		big.Items = append(big.Items, models.LineItem{Description: "Extra", Quantity: 1, UnitPrice: 10})
	}

	theme := models.DefaultTheme(models.TemplateProfesional)
	smallTree := layout.Build(small, models.TemplateProfesional, theme)
	bigTree := layout.Build(big, models.TemplateProfesional, theme)

	// El pie no depende del número de líneas
	assert.Equal(t, smallTree.Footer.Y, bigTree.Footer.Y)
	assert.Less(t, smallTree.Footer.Y, layout.PageHeightMM)

	// Los totales sí crecen con la tabla
	assert.Greater(t, bigTree.Totals.Y, smallTree.Totals.Y)
}

func TestBuild_TemplateTreatmentsDiffer(t *testing.T) {
	profesional := buildFor(models.TemplateProfesional)
	moderna := buildFor(models.TemplateModerna)
	clasica := buildFor(models.TemplateClasica)

	assert.Equal(t, "FACTURA", profesional.Page.WatermarkText)
	assert.Empty(t, moderna.Page.WatermarkText)

	assert.NotEmpty(t, profesional.Table.ZebraFill)
	assert.Empty(t, moderna.Table.ZebraFill)
	assert.NotEmpty(t, moderna.Table.RowBorderColor)

	assert.False(t, profesional.Parties.BorderLeft)
	assert.True(t, clasica.Parties.BorderLeft)
	assert.NotEmpty(t, clasica.Parties.FillColor)
}

func TestBuild_AppliesSecondaryHighlightAndWeight(t *testing.T) {
	theme := models.DefaultTheme(models.TemplateProfesional)
	theme.SecondaryColor = "#123456"
	theme.HighlightColor = "#654321"
	theme.FontWeight = "bold"

	tree := layout.Build(sampleDocument(), models.TemplateProfesional, theme)

	// El nombre de cada parte toma el color secundario
	require.NotEmpty(t, tree.Parties.Issuer.Lines)
	assert.Equal(t, "#123456", tree.Parties.Issuer.Lines[0].Style.Color)
	require.NotEmpty(t, tree.Parties.Recipient.Lines)
	assert.Equal(t, "#123456", tree.Parties.Recipient.Lines[0].Style.Color)

	// El número de documento toma el color de resalte
	require.NotEmpty(t, tree.Header.Meta)
	assert.Equal(t, "#654321", tree.Header.Meta[0].Style.Color)

	// La nota del pie también usa el secundario
	var notesLine *layout.TextLine
	for i, line := range tree.Footer.Lines {
		if strings.HasPrefix(line.Text, "Notas:") {
			notesLine = &tree.Footer.Lines[i]
		}
	}
	require.NotNil(t, notesLine)
	assert.Equal(t, "#123456", notesLine.Style.Color)

	// fontWeight: bold engrosa las celdas del cuerpo
	require.NotEmpty(t, tree.Table.Rows)
	for _, cell := range tree.Table.Rows[0] {
		assert.True(t, cell.Bold)
	}

	normal := layout.Build(sampleDocument(), models.TemplateProfesional, models.DefaultTheme(models.TemplateProfesional))
	assert.False(t, normal.Table.Rows[0][0].Bold)
}

func TestBuild_SinglePageItemCapacity(t *testing.T) {
	doc := sampleDocument()
	for len(doc.Items) < 13 {
		doc.Items = append(doc.Items, models.LineItem{Description: "Extra", Quantity: 1, UnitPrice: 10})
	}

	tree := layout.Build(doc, models.TemplateProfesional, models.DefaultTheme(models.TemplateProfesional))

	// Hasta trece líneas los totales quedan por encima del pie fijo
	totalsBottom := tree.Totals.Y + float64(len(tree.Totals.Rows))*7
	assert.LessOrEqual(t, totalsBottom, tree.Footer.Y)
}

func TestTint(t *testing.T) {
	// Fracción 0 devuelve el fondo, fracción 1 devuelve el color
	assert.Equal(t, "#ffffff", layout.Tint("#10B981", "#ffffff", 0))
	assert.Equal(t, "#10b981", layout.Tint("#10B981", "#ffffff", 1))

	mid := layout.Tint("#000000", "#ffffff", 0.5)
	r, g, b := layout.SplitHex(mid)
	assert.InDelta(t, 127, r, 1)
	assert.InDelta(t, 127, g, 1)
	assert.InDelta(t, 127, b, 1)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "RD$ 123.46", layout.FormatMoney("RD$", 123.456))
	assert.Equal(t, "0.00", layout.FormatMoney("", 0))
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "2", layout.FormatQuantity(2))
	assert.Equal(t, "1.5", layout.FormatQuantity(1.5))
	assert.Equal(t, "0", layout.FormatQuantity(0))
}
