package render_test

import (
	"bytes"
	"html"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoquelvisdev08/factura/internal/layout"
	"github.com/yoquelvisdev08/factura/internal/models"
	"github.com/yoquelvisdev08/factura/internal/render"
)

// PNG de 1x1 para probar logos y firmas
const tinyPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func sampleDocument() *models.InvoiceDocument {
	return &models.InvoiceDocument{
		Issuer: models.Party{
			Name:  "Acme SRL",
			TaxID: "101-00000-1",
			Email: "facturas@acme.do",
		},
		Recipient: models.Party{
			Name:  "Cliente Uno",
			TaxID: "402-00000-2",
		},
		DocumentNumber: "FAC-123456-001",
		IssueDate:      "2026-08-30",
		Currency:       "RD$",
		PaymentMethod:  "Transferencia",
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
		QRPayload: `{"emisor":"Acme SRL","numeroFactura":"FAC-123456-001"}`,
	}
}

func buildTree(doc *models.InvoiceDocument, template models.Template) *layout.Tree {
	return layout.Build(doc, template, models.DefaultTheme(template))
}

func TestPDFRenderer_Render(t *testing.T) {
	renderer := render.NewPDFRenderer(testLogger())

	for _, template := range []models.Template{models.TemplateProfesional, models.TemplateModerna, models.TemplateClasica} {
		t.Run(string(template), func(t *testing.T) {
			pdf, err := renderer.Render(buildTree(sampleDocument(), template))
			require.NoError(t, err)

			assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
			assert.Contains(t, string(pdf[len(pdf)-16:]), "%%EOF")
		})
	}
}

func TestPDFRenderer_EmbedsOptionalImages(t *testing.T) {
	renderer := render.NewPDFRenderer(testLogger())

	bare := sampleDocument()
	bare.Issuer.Logo = ""
	bare.Issuer.Signature = ""
	bare.QRPayload = ""

	full := sampleDocument()
	full.Issuer.Logo = tinyPNG
	full.Issuer.Signature = tinyPNG

	barePDF, err := renderer.Render(buildTree(bare, models.TemplateProfesional))
	require.NoError(t, err)
	fullPDF, err := renderer.Render(buildTree(full, models.TemplateProfesional))
	require.NoError(t, err)

	// Las imágenes embebidas agrandan el artefacto
	assert.Greater(t, len(fullPDF), len(barePDF))
}

func TestPDFRenderer_SkipsBrokenImages(t *testing.T) {
	renderer := render.NewPDFRenderer(testLogger())

	doc := sampleDocument()
	doc.Issuer.Logo = "data:image/png;base64,@@no-es-base64@@"
	doc.Issuer.Signature = "no-es-un-data-uri"

	pdf, err := renderer.Render(buildTree(doc, models.TemplateModerna))

	// Un recurso roto se omite; nunca tumba el render
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}

func TestHTMLRenderer_ContentParity(t *testing.T) {
	renderer := render.NewHTMLRenderer(testLogger())

	for _, template := range []models.Template{models.TemplateProfesional, models.TemplateModerna, models.TemplateClasica} {
		t.Run(string(template), func(t *testing.T) {
			tree := buildTree(sampleDocument(), template)

			page, err := renderer.Render(tree)
			require.NoError(t, err)

			// Todo el texto del árbol aparece en la vista previa
			for _, text := range tree.TextContent() {
				assert.Contains(t, string(page), html.EscapeString(text))
			}
		})
	}
}

func TestHTMLRenderer_PageGeometry(t *testing.T) {
	renderer := render.NewHTMLRenderer(testLogger())

	page, err := renderer.Render(buildTree(sampleDocument(), models.TemplateProfesional))
	require.NoError(t, err)

	markup := string(page)
	assert.Contains(t, markup, "width: 210mm")
	assert.Contains(t, markup, "height: 297mm")
	assert.Contains(t, markup, "<meta charset=\"utf-8\">")
}

func TestHTMLRenderer_QRAsDataURI(t *testing.T) {
	renderer := render.NewHTMLRenderer(testLogger())

	withQR, err := renderer.Render(buildTree(sampleDocument(), models.TemplateClasica))
	require.NoError(t, err)
	assert.Contains(t, string(withQR), "data:image/png;base64,")
	assert.Contains(t, string(withQR), "Escanee para verificar")

	doc := sampleDocument()
	doc.QRPayload = ""
	withoutQR, err := renderer.Render(buildTree(doc, models.TemplateClasica))
	require.NoError(t, err)
	assert.NotContains(t, string(withoutQR), "Escanee para verificar")
}

func TestHTMLRenderer_SkipsBrokenImages(t *testing.T) {
	renderer := render.NewHTMLRenderer(testLogger())

	doc := sampleDocument()
	doc.Issuer.Logo = "javascript:alert(1)"

	page, err := renderer.Render(buildTree(doc, models.TemplateModerna))

	require.NoError(t, err)
	assert.NotContains(t, string(page), "javascript:")
}

func TestHTMLRenderer_RejectsCraftedDataURI(t *testing.T) {
	renderer := render.NewHTMLRenderer(testLogger())

	// Un data URI con comillas en el encabezado nunca debe llegar al markup
	doc := sampleDocument()
	doc.Issuer.Logo = `data:image/png" onerror="alert(1),QUJD`
	doc.Issuer.Signature = `data:text/html;base64,PHNjcmlwdD4=`

	page, err := renderer.Render(buildTree(doc, models.TemplateProfesional))

	require.NoError(t, err)
	markup := string(page)
	assert.NotContains(t, markup, "onerror")
	assert.NotContains(t, markup, "text/html")
}

func TestHTMLRenderer_ReserializesImageURIs(t *testing.T) {
	renderer := render.NewHTMLRenderer(testLogger())

	doc := sampleDocument()
	doc.Issuer.Logo = tinyPNG

	page, err := renderer.Render(buildTree(doc, models.TemplateProfesional))

	require.NoError(t, err)
	// El src sale de los bytes decodificados, no del valor del formulario
	assert.Contains(t, string(page), "src=\""+tinyPNG+"\"")
}

func TestHTMLRenderer_EscapesUserContent(t *testing.T) {
	renderer := render.NewHTMLRenderer(testLogger())

	doc := sampleDocument()
	doc.Items[0].Description = `<script>alert("x")</script>`

	page, err := renderer.Render(buildTree(doc, models.TemplateProfesional))

	require.NoError(t, err)
	assert.NotContains(t, string(page), "<script>")
}
