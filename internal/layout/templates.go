package layout

import (
	"fmt"

	"github.com/yoquelvisdev08/factura/internal/billing"
	"github.com/yoquelvisdev08/factura/internal/models"
)

// templateParams parametriza la geometría y el tratamiento visual de una
// plantilla. Las tres plantillas comparten el mismo motor; solo difieren en
// estos parámetros.
type templateParams struct {
	PaddingMM float64

	Watermark bool

	HeaderBorderBottom bool

	PartiesFillFraction float64
	PartiesBorderLeft   bool

	ZebraFraction     float64
	RowBorderFraction float64

	TotalEmphasisBoost float64
}

var templateCatalog = map[models.Template]templateParams{
	models.TemplateProfesional: {
		PaddingMM:          18,
		Watermark:          true,
		ZebraFraction:      0.04,
		TotalEmphasisBoost: 3,
	},
	models.TemplateModerna: {
		PaddingMM:           14,
		HeaderBorderBottom:  true,
		PartiesFillFraction: 0.06,
		RowBorderFraction:   0.25,
		TotalEmphasisBoost:  2,
	},
	models.TemplateClasica: {
		PaddingMM:           18,
		HeaderBorderBottom:  true,
		PartiesFillFraction: 0.05,
		PartiesBorderLeft:   true,
		RowBorderFraction:   0.2,
		TotalEmphasisBoost:  2,
	},
}

// Geometría fija del motor, en milímetros
const (
	headerHeightMM = 34.0
	partiesTitleMM = 7.0
	partyLineMM    = 5.0
	partiesGapMM   = 8.0
	tableHeaderMM  = 9.0
	tableRowMM     = 8.0
	totalsGapMM    = 6.0
	footerHeightMM = 52.0
	logoWidthMM    = 30.0
)

// Build construye el árbol de bloques a partir del documento ensamblado, la
// plantilla elegida y el tema ya resuelto. Las posiciones verticales se
// derivan únicamente del número de líneas, nunca del resultado de pintar:
// un logo o firma que falte no desplaza el resto del documento.
func Build(doc *models.InvoiceDocument, template models.Template, theme models.Theme) *Tree {
	params, ok := templateCatalog[template]
	if !ok {
		params = templateCatalog[models.TemplateProfesional]
	}

	bodySize := float64(theme.BodyFontSize)
	headerSize := float64(theme.HeaderFontSize)

	tree := &Tree{
		Page: Page{
			PaddingMM:        params.PaddingMM,
			BackgroundColor:  theme.BackgroundColor,
			FontFamily:       theme.FontFamily,
			HeaderFontFamily: theme.HeaderFontFamily,
		},
	}

	if params.Watermark {
		tree.Page.WatermarkText = "FACTURA"
		tree.Page.WatermarkColor = Tint(theme.PrimaryColor, theme.BackgroundColor, 0.05)
	}

	buildHeader(tree, doc, theme, params, headerSize, bodySize)
	buildParties(tree, doc, theme, params, bodySize)
	buildTable(tree, doc, theme, params, bodySize)
	buildTotals(tree, doc, theme, params, bodySize)
	buildFooter(tree, doc, theme, params, bodySize)

	return tree
}

func buildHeader(tree *Tree, doc *models.InvoiceDocument, theme models.Theme, params templateParams, headerSize, bodySize float64) {
	header := HeaderBlock{
		Y:           params.PaddingMM,
		Logo:        doc.Issuer.Logo,
		LogoWidthMM: logoWidthMM,
		Title: TextLine{
			Text:  "FACTURA",
			Style: TextStyle{SizePt: headerSize, Bold: true, Color: theme.HeaderColor},
		},
		BorderBottom: params.HeaderBorderBottom,
		BorderColor:  theme.PrimaryColor,
	}

	header.Meta = append(header.Meta, TextLine{
		Text:  fmt.Sprintf("N° %s", doc.DocumentNumber),
		Style: TextStyle{SizePt: bodySize + 1, Bold: true, Color: theme.HighlightColor},
	})
	if doc.IssueDate != "" {
		header.Meta = append(header.Meta, TextLine{
			Text:  fmt.Sprintf("Fecha: %s", doc.IssueDate),
			Style: TextStyle{SizePt: bodySize, Color: theme.SubtextColor},
		})
	}
	if doc.DueDate != "" {
		header.Meta = append(header.Meta, TextLine{
			Text:  fmt.Sprintf("Vencimiento: %s", doc.DueDate),
			Style: TextStyle{SizePt: bodySize, Color: theme.SubtextColor},
		})
	}

	tree.Header = header
}

func buildParties(tree *Tree, doc *models.InvoiceDocument, theme models.Theme, params templateParams, bodySize float64) {
	parties := PartiesBlock{
		Y:           params.PaddingMM + headerHeightMM,
		BorderLeft:  params.PartiesBorderLeft,
		BorderColor: theme.PrimaryColor,
		Issuer:      buildPartySection("De", doc.Issuer, theme, bodySize),
		Recipient:   buildPartySection("Para", doc.Recipient, theme, bodySize),
	}
	if params.PartiesFillFraction > 0 {
		parties.FillColor = Tint(theme.PrimaryColor, theme.BackgroundColor, params.PartiesFillFraction)
	}

	tree.Parties = parties
}

// buildPartySection arma las líneas de una parte, omitiendo los campos vacíos
func buildPartySection(title string, party models.Party, theme models.Theme, bodySize float64) PartySection {
	section := PartySection{
		Title: TextLine{
			Text:  title,
			Style: TextStyle{SizePt: bodySize, Bold: true, Color: theme.PrimaryColor},
		},
	}

	subtext := TextStyle{SizePt: bodySize, Color: theme.SubtextColor}

	if party.Name != "" {
		section.Lines = append(section.Lines, TextLine{
			Text:  party.Name,
			Style: TextStyle{SizePt: bodySize + 1, Bold: true, Color: theme.SecondaryColor},
		})
	}
	if party.TaxID != "" {
		section.Lines = append(section.Lines, TextLine{Text: fmt.Sprintf("RNC: %s", party.TaxID), Style: subtext})
	}
	if party.Address != "" {
		section.Lines = append(section.Lines, TextLine{Text: party.Address, Style: subtext})
	}
	if party.Phone != "" {
		section.Lines = append(section.Lines, TextLine{Text: fmt.Sprintf("Tel: %s", party.Phone), Style: subtext})
	}
	if party.Email != "" {
		section.Lines = append(section.Lines, TextLine{Text: party.Email, Style: subtext})
	}

	return section
}

func buildTable(tree *Tree, doc *models.InvoiceDocument, theme models.Theme, params templateParams, bodySize float64) {
	table := TableBlock{
		Y:               tree.Parties.Y + partiesHeight(tree.Parties) + partiesGapMM,
		HeaderFill:      theme.PrimaryColor,
		HeaderTextColor: contrastText(theme.PrimaryColor),
		RowHeightMM:     tableRowMM,
		TextColor:       theme.TextColor,
		FontSizePt:      bodySize,
		Columns: []Column{
			{WidthPct: 40, Align: AlignLeft},
			{WidthPct: 15, Align: AlignCenter},
			{WidthPct: 15, Align: AlignRight},
			{WidthPct: 15, Align: AlignRight},
			{WidthPct: 15, Align: AlignRight},
		},
		HeaderCells: []string{"Descripción", "Cant.", "Precio", "ITBIS", "Total"},
	}

	if params.ZebraFraction > 0 {
		table.ZebraFill = Tint(theme.PrimaryColor, theme.BackgroundColor, params.ZebraFraction)
	}
	if params.RowBorderFraction > 0 {
		table.RowBorderColor = Tint(theme.PrimaryColor, theme.BackgroundColor, params.RowBorderFraction)
	}

	// fontWeight: bold engrosa el cuerpo de la tabla completo
	bodyBold := theme.FontWeight == "bold"
	for _, item := range doc.Items {
		amounts := billing.CalculateLine(item)
		table.Rows = append(table.Rows, []Cell{
			{Text: item.Description, Align: AlignLeft, Bold: bodyBold},
			{Text: FormatQuantity(item.Quantity), Align: AlignCenter, Bold: bodyBold},
			{Text: FormatMoney(doc.Currency, item.UnitPrice), Align: AlignRight, Bold: bodyBold},
			{Text: FormatMoney(doc.Currency, amounts.Tax), Align: AlignRight, Bold: bodyBold},
			{Text: FormatMoney(doc.Currency, amounts.Total), Align: AlignRight, Bold: true},
		})
	}

	tree.Table = table
}

func buildTotals(tree *Tree, doc *models.InvoiceDocument, theme models.Theme, params templateParams, bodySize float64) {
	totals := TotalsBlock{
		Y:              tree.Table.Y + tableHeaderMM + float64(len(tree.Table.Rows))*tableRowMM + totalsGapMM,
		LabelColor:     theme.SubtextColor,
		FontSizePt:     bodySize,
		EmphasisSizePt: bodySize + params.TotalEmphasisBoost,
	}

	totals.Rows = append(totals.Rows, TotalRow{
		Label: "Subtotal",
		Value: FormatMoney(doc.Currency, doc.Totals.Subtotal),
		Color: theme.TextColor,
	})
	if doc.GlobalDiscountPercent > 0 {
		totals.Rows = append(totals.Rows, TotalRow{
			Label: fmt.Sprintf("Descuento Global (%s%%)", FormatQuantity(doc.GlobalDiscountPercent)),
			Value: FormatMoney(doc.Currency, doc.Totals.Subtotal-doc.Totals.SubtotalAfterDiscount),
			Color: theme.AccentColor,
		})
	}
	totals.Rows = append(totals.Rows, TotalRow{
		Label: "ITBIS",
		Value: FormatMoney(doc.Currency, doc.Totals.Tax),
		Color: theme.TextColor,
	})
	totals.Rows = append(totals.Rows, TotalRow{
		Label:    "TOTAL",
		Value:    FormatMoney(doc.Currency, doc.Totals.Total),
		Emphasis: true,
		Color:    theme.PrimaryColor,
	})

	tree.Totals = totals
}

func buildFooter(tree *Tree, doc *models.InvoiceDocument, theme models.Theme, params templateParams, bodySize float64) {
	footer := FooterBlock{
		Y:           PageHeightMM - footerHeightMM,
		BorderTop:   true,
		BorderColor: theme.BorderColor,
		Signature:   doc.Issuer.Signature,
		QRPayload:   doc.QRPayload,
	}

	subtext := TextStyle{SizePt: bodySize - 1, Color: theme.SubtextColor}

	if doc.PaymentMethod != "" {
		footer.Lines = append(footer.Lines, TextLine{
			Text:  fmt.Sprintf("Método de Pago: %s", doc.PaymentMethod),
			Style: subtext,
		})
	}
	if doc.PaymentTerms != "" {
		footer.Lines = append(footer.Lines, TextLine{
			Text:  fmt.Sprintf("Condiciones: %s", doc.PaymentTerms),
			Style: subtext,
		})
	}
	if doc.Notes != "" {
		footer.Lines = append(footer.Lines, TextLine{
			Text:  fmt.Sprintf("Notas: %s", doc.Notes),
			Style: TextStyle{SizePt: bodySize - 1, Italic: true, Color: theme.SecondaryColor},
		})
	}

	if footer.Signature != "" {
		footer.SignatureCaption = TextLine{Text: "Firma Autorizada", Style: subtext}
	}
	if footer.QRPayload != "" {
		footer.QRCaption = TextLine{Text: "Escanee para verificar", Style: subtext}
	}

	tree.Footer = footer
}

// partiesHeight calcula la altura del bloque de partes a partir de la sección
// más larga
func partiesHeight(parties PartiesBlock) float64 {
	lines := len(parties.Issuer.Lines)
	if n := len(parties.Recipient.Lines); n > lines {
		lines = n
	}
	return partiesTitleMM + float64(lines)*partyLineMM + 4
}

// contrastText elige texto blanco o negro según la luminosidad del fondo
func contrastText(hex string) string {
	r, g, b := splitHex(hex)
	luma := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	if luma > 186 {
		return "#000000"
	}
	return "#ffffff"
}
