package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/sirupsen/logrus"

	"github.com/yoquelvisdev08/factura/internal/layout"
)

// PDFRenderer pinta el árbol de bloques sobre una página A4 con gofpdf.
// Es el renderizador del artefacto final descargable.
type PDFRenderer struct {
	logger *logrus.Logger
}

// NewPDFRenderer crea una nueva instancia del renderizador PDF
func NewPDFRenderer(logger *logrus.Logger) *PDFRenderer {
	return &PDFRenderer{
		logger: logger,
	}
}

// Render genera los bytes del PDF a partir del árbol. Los recursos
// opcionales que fallen al decodificar se omiten sin placeholder y sin
// alterar la posición del resto de los bloques.
func (r *PDFRenderer) Render(tree *layout.Tree) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	family := pdfFontFamily(tree.Page.FontFamily)
	headerFamily := pdfFontFamily(tree.Page.HeaderFontFamily)

	if tree.Page.BackgroundColor != "" && tree.Page.BackgroundColor != "#ffffff" {
		setFillHex(pdf, tree.Page.BackgroundColor)
		pdf.Rect(0, 0, layout.PageWidthMM, layout.PageHeightMM, "F")
	}

	if tree.Page.WatermarkText != "" {
		r.drawWatermark(pdf, tr, tree, headerFamily)
	}

	padding := tree.Page.PaddingMM
	contentW := layout.PageWidthMM - 2*padding

	r.drawHeader(pdf, tr, tree, family, headerFamily, padding, contentW)
	r.drawParties(pdf, tr, tree, family, padding, contentW)
	r.drawTable(pdf, tr, tree, family, padding, contentW)
	r.drawTotals(pdf, tr, tree, family, padding, contentW)
	r.drawFooter(pdf, tr, tree, family, padding, contentW)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error generating PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) drawWatermark(pdf *gofpdf.Fpdf, tr func(string) string, tree *layout.Tree, headerFamily string) {
	pdf.TransformBegin()
	pdf.TransformRotate(45, layout.PageWidthMM/2, layout.PageHeightMM/2)
	setTextHex(pdf, tree.Page.WatermarkColor)
	pdf.SetFont(headerFamily, "B", 80)
	width := pdf.GetStringWidth(tree.Page.WatermarkText)
	pdf.Text(layout.PageWidthMM/2-width/2, layout.PageHeightMM/2, tr(tree.Page.WatermarkText))
	pdf.TransformEnd()
}

func (r *PDFRenderer) drawHeader(pdf *gofpdf.Fpdf, tr func(string) string, tree *layout.Tree, family, headerFamily string, padding, contentW float64) {
	header := tree.Header

	if header.Logo != "" {
		r.drawImage(pdf, header.Logo, "logo", padding, header.Y, header.LogoWidthMM)
	}

	// Título y metadatos alineados a la derecha
	pdf.SetFont(headerFamily, pdfFontStyle(header.Title.Style), header.Title.Style.SizePt)
	setTextHex(pdf, header.Title.Style.Color)
	pdf.SetXY(padding, header.Y)
	pdf.CellFormat(contentW, 10, tr(header.Title.Text), "", 1, "R", false, 0, "")

	y := header.Y + 12
	for _, line := range header.Meta {
		pdf.SetFont(family, pdfFontStyle(line.Style), line.Style.SizePt)
		setTextHex(pdf, line.Style.Color)
		pdf.SetXY(padding, y)
		pdf.CellFormat(contentW, 5, tr(line.Text), "", 1, "R", false, 0, "")
		y += 5
	}

	if header.BorderBottom {
		setDrawHex(pdf, header.BorderColor)
		pdf.SetLineWidth(0.6)
		lineY := tree.Parties.Y - 4
		pdf.Line(padding, lineY, padding+contentW, lineY)
	}
}

func (r *PDFRenderer) drawParties(pdf *gofpdf.Fpdf, tr func(string) string, tree *layout.Tree, family string, padding, contentW float64) {
	parties := tree.Parties
	height := tree.Table.Y - parties.Y - 6

	if parties.FillColor != "" {
		setFillHex(pdf, parties.FillColor)
		pdf.Rect(padding, parties.Y, contentW, height, "F")
	}
	if parties.BorderLeft {
		setFillHex(pdf, parties.BorderColor)
		pdf.Rect(padding, parties.Y, 1.5, height, "F")
	}

	colW := contentW/2 - 6
	r.drawPartySection(pdf, tr, parties.Issuer, family, padding+4, parties.Y+3, colW)
	r.drawPartySection(pdf, tr, parties.Recipient, family, padding+contentW/2+4, parties.Y+3, colW)
}

func (r *PDFRenderer) drawPartySection(pdf *gofpdf.Fpdf, tr func(string) string, section layout.PartySection, family string, x, y, width float64) {
	pdf.SetFont(family, pdfFontStyle(section.Title.Style), section.Title.Style.SizePt)
	setTextHex(pdf, section.Title.Style.Color)
	pdf.SetXY(x, y)
	pdf.CellFormat(width, 6, tr(section.Title.Text), "", 1, "L", false, 0, "")

	y += 7
	for _, line := range section.Lines {
		pdf.SetFont(family, pdfFontStyle(line.Style), line.Style.SizePt)
		setTextHex(pdf, line.Style.Color)
		pdf.SetXY(x, y)
		pdf.CellFormat(width, 5, tr(line.Text), "", 1, "L", false, 0, "")
		y += 5
	}
}

func (r *PDFRenderer) drawTable(pdf *gofpdf.Fpdf, tr func(string) string, tree *layout.Tree, family string, padding, contentW float64) {
	table := tree.Table

	widths := make([]float64, len(table.Columns))
	for i, col := range table.Columns {
		widths[i] = contentW * col.WidthPct / 100
	}

	// Encabezado de la tabla
	setFillHex(pdf, table.HeaderFill)
	setTextHex(pdf, table.HeaderTextColor)
	pdf.SetFont(family, "B", table.FontSizePt)
	pdf.SetXY(padding, table.Y)
	for i, cell := range table.HeaderCells {
		pdf.CellFormat(widths[i], 9, tr(cell), "", 0, string(table.Columns[i].Align), true, 0, "")
	}
	pdf.Ln(-1)

	y := table.Y + 9
	for rowIdx, row := range table.Rows {
		fill := false
		if table.ZebraFill != "" && rowIdx%2 == 1 {
			setFillHex(pdf, table.ZebraFill)
			fill = true
		}

		pdf.SetXY(padding, y)
		for i, cell := range row {
			style := ""
			if cell.Bold {
				style = "B"
			}
			pdf.SetFont(family, style, table.FontSizePt)
			setTextHex(pdf, table.TextColor)
			pdf.CellFormat(widths[i], table.RowHeightMM, tr(cell.Text), "", 0, string(cell.Align), fill, 0, "")
		}

		y += table.RowHeightMM
		if table.RowBorderColor != "" {
			setDrawHex(pdf, table.RowBorderColor)
			pdf.SetLineWidth(0.2)
			pdf.Line(padding, y, padding+contentW, y)
		}
	}
}

func (r *PDFRenderer) drawTotals(pdf *gofpdf.Fpdf, tr func(string) string, tree *layout.Tree, family string, padding, contentW float64) {
	totals := tree.Totals
	boxW := 80.0
	labelW := 45.0
	x := padding + contentW - boxW

	y := totals.Y
	for _, row := range totals.Rows {
		size := totals.FontSizePt
		style := ""
		if row.Emphasis {
			size = totals.EmphasisSizePt
			style = "B"
		}

		pdf.SetFont(family, style, size)
		setTextHex(pdf, totals.LabelColor)
		pdf.SetXY(x, y)
		pdf.CellFormat(labelW, 7, tr(row.Label), "", 0, "L", false, 0, "")

		setTextHex(pdf, row.Color)
		pdf.CellFormat(boxW-labelW, 7, tr(row.Value), "", 1, "R", false, 0, "")
		y += 7
	}
}

func (r *PDFRenderer) drawFooter(pdf *gofpdf.Fpdf, tr func(string) string, tree *layout.Tree, family string, padding, contentW float64) {
	footer := tree.Footer

	if footer.BorderTop {
		setDrawHex(pdf, footer.BorderColor)
		pdf.SetLineWidth(0.3)
		pdf.Line(padding, footer.Y, padding+contentW, footer.Y)
	}

	y := footer.Y + 5
	for _, line := range footer.Lines {
		pdf.SetFont(family, pdfFontStyle(line.Style), line.Style.SizePt)
		setTextHex(pdf, line.Style.Color)
		pdf.SetXY(padding, y)
		pdf.CellFormat(contentW-70, 5, tr(line.Text), "", 1, "L", false, 0, "")
		y += 5
	}

	// Firma y QR en la esquina inferior derecha, posiciones fijas
	if footer.Signature != "" {
		sigX := padding + contentW - 65
		r.drawImage(pdf, footer.Signature, "signature", sigX, footer.Y+4, 35)
		pdf.SetFont(family, pdfFontStyle(footer.SignatureCaption.Style), footer.SignatureCaption.Style.SizePt)
		setTextHex(pdf, footer.SignatureCaption.Style.Color)
		pdf.SetXY(sigX, footer.Y+24)
		pdf.CellFormat(35, 4, tr(footer.SignatureCaption.Text), "", 1, "C", false, 0, "")
	}

	if footer.QRPayload != "" {
		png, err := encodeQRImage(footer.QRPayload)
		if err != nil {
			r.logger.WithError(err).Warn("Skipping QR code in PDF")
			return
		}
		qrX := padding + contentW - 24
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader("qr", opts, imageReader(png))
		pdf.ImageOptions("qr", qrX, footer.Y+4, 24, 24, false, opts, 0, "")

		pdf.SetFont(family, pdfFontStyle(footer.QRCaption.Style), footer.QRCaption.Style.SizePt)
		setTextHex(pdf, footer.QRCaption.Style.Color)
		pdf.SetXY(qrX-8, footer.Y+29)
		pdf.CellFormat(40, 4, tr(footer.QRCaption.Text), "", 1, "C", false, 0, "")
	}
}

// drawImage registra y pinta una imagen que llega como data URI.
// Si la imagen no decodifica se omite y el resto del documento no se mueve.
func (r *PDFRenderer) drawImage(pdf *gofpdf.Fpdf, uri, name string, x, y, width float64) {
	format, data, err := decodeDataURI(uri)
	if err != nil {
		r.logger.WithError(err).WithField("image", name).Warn("Skipping image in PDF")
		return
	}

	opts := gofpdf.ImageOptions{ImageType: format, ReadDpi: false}
	pdf.RegisterImageOptionsReader(name, opts, imageReader(data))
	pdf.ImageOptions(name, x, y, width, 0, false, opts, 0, "")
}

func setFillHex(pdf *gofpdf.Fpdf, hex string) {
	red, green, blue := layout.SplitHex(hex)
	pdf.SetFillColor(red, green, blue)
}

func setTextHex(pdf *gofpdf.Fpdf, hex string) {
	red, green, blue := layout.SplitHex(hex)
	pdf.SetTextColor(red, green, blue)
}

func setDrawHex(pdf *gofpdf.Fpdf, hex string) {
	red, green, blue := layout.SplitHex(hex)
	pdf.SetDrawColor(red, green, blue)
}
