package render

import (
	"encoding/base64"
	"fmt"
	"html"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yoquelvisdev08/factura/internal/layout"
)

// HTMLRenderer pinta el árbol de bloques como una página HTML autocontenida
// para la vista previa en el navegador. Usa las mismas posiciones en
// milímetros que el PDF, así que la vista previa es el mismo documento.
type HTMLRenderer struct {
	logger *logrus.Logger
}

// NewHTMLRenderer crea una nueva instancia del renderizador de vista previa
func NewHTMLRenderer(logger *logrus.Logger) *HTMLRenderer {
	return &HTMLRenderer{
		logger: logger,
	}
}

// Render genera el documento HTML de vista previa
func (r *HTMLRenderer) Render(tree *layout.Tree) ([]byte, error) {
	var b strings.Builder

	padding := tree.Page.PaddingMM
	contentW := layout.PageWidthMM - 2*padding

	b.WriteString("<!DOCTYPE html>\n<html lang=\"es\">\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<title>Vista previa de factura</title>\n")
	b.WriteString(fmt.Sprintf("<style>\nbody { margin: 0; background: #525659; font-family: %s, sans-serif; }\n", cssFont(tree.Page.FontFamily)))
	b.WriteString(fmt.Sprintf(".page { position: relative; width: %.0fmm; height: %.0fmm; margin: 10mm auto; background: %s; box-shadow: 0 2px 8px rgba(0,0,0,0.4); overflow: hidden; }\n",
		layout.PageWidthMM, layout.PageHeightMM, tree.Page.BackgroundColor))
	b.WriteString(".block { position: absolute; }\n</style>\n</head>\n<body>\n<div class=\"page\">\n")

	if tree.Page.WatermarkText != "" {
		b.WriteString(fmt.Sprintf("<div class=\"block\" style=\"top: 120mm; left: 0; width: %.0fmm; text-align: center; transform: rotate(-45deg); font-size: 80pt; font-weight: bold; color: %s;\">%s</div>\n",
			layout.PageWidthMM, tree.Page.WatermarkColor, html.EscapeString(tree.Page.WatermarkText)))
	}

	r.writeHeader(&b, tree, padding, contentW)
	r.writeParties(&b, tree, padding, contentW)
	r.writeTable(&b, tree, padding, contentW)
	r.writeTotals(&b, tree, padding, contentW)
	r.writeFooter(&b, tree, padding, contentW)

	b.WriteString("</div>\n</body>\n</html>\n")

	return []byte(b.String()), nil
}

func (r *HTMLRenderer) writeHeader(b *strings.Builder, tree *layout.Tree, padding, contentW float64) {
	header := tree.Header

	if header.Logo != "" {
		if format, data, err := decodeDataURI(header.Logo); err != nil {
			r.logger.WithError(err).WithField("image", "logo").Warn("Skipping image in preview")
		} else {
			b.WriteString(fmt.Sprintf("<img class=\"block\" style=\"top: %.1fmm; left: %.1fmm; width: %.1fmm;\" src=\"%s\" alt=\"\">\n",
				header.Y, padding, header.LogoWidthMM, sanitizedDataURI(format, data)))
		}
	}

	b.WriteString(fmt.Sprintf("<div class=\"block\" style=\"top: %.1fmm; left: %.1fmm; width: %.1fmm; text-align: right; %s\">%s</div>\n",
		header.Y, padding, contentW, cssText(header.Title.Style, tree.Page.HeaderFontFamily), html.EscapeString(header.Title.Text)))

	y := header.Y + 12
	for _, line := range header.Meta {
		b.WriteString(fmt.Sprintf("<div class=\"block\" style=\"top: %.1fmm; left: %.1fmm; width: %.1fmm; text-align: right; %s\">%s</div>\n",
			y, padding, contentW, cssText(line.Style, tree.Page.FontFamily), html.EscapeString(line.Text)))
		y += 5
	}

	if header.BorderBottom {
		b.WriteString(fmt.Sprintf("<div class=\"block\" style=\"top: %.1fmm; left: %.1fmm; width: %.1fmm; border-bottom: 0.6mm solid %s;\"></div>\n",
			tree.Parties.Y-4, padding, contentW, header.BorderColor))
	}
}

func (r *HTMLRenderer) writeParties(b *strings.Builder, tree *layout.Tree, padding, contentW float64) {
	parties := tree.Parties
	height := tree.Table.Y - parties.Y - 6

	if parties.FillColor != "" {
		b.WriteString(fmt.Sprintf("<div class=\"block\" style=\"top: %.1fmm; left: %.1fmm; width: %.1fmm; height: %.1fmm; background: %s;\"></div>\n",
			parties.Y, padding, contentW, height, parties.FillColor))
	}
	if parties.BorderLeft {
		b.WriteString(fmt.Sprintf("<div class=\"block\" style=\"top: %.1fmm; left: %.1fmm; width: 1.5mm; height: %.1fmm; background: %s;\"></div>\n",
			parties.Y, padding, height, parties.BorderColor))
	}

	colW := contentW/2 - 6
	r.writePartySection(b, tree, parties.Issuer, padding+4, parties.Y+3, colW)
	r.writePartySection(b, tree, parties.Recipient, padding+contentW/2+4, parties.Y+3, colW)
}

func (r *HTMLRenderer) writePartySection(b *strings.Builder, tree *layout.Tree, section layout.PartySection, x, y, width float64) {
	b.WriteString(fmt.Sprintf("<div class=\"block\" style=\"top: %.1fmm; left: %.1fmm; width: %.1fmm; %s\">%s</div>\n",
		y, x, width, cssText(section.Title.Style, tree.Page.FontFamily), html.EscapeString(section.Title.Text)))

	y += 7
	for _, line := range section.Lines {
		b.WriteString(fmt.Sprintf("<div class=\"block\" style=\"top: %.1fmm; left: %.1fmm; width: %.1fmm; %s\">%s</div>\n",
			y, x, width, cssText(line.Style, tree.Page.FontFamily), html.EscapeString(line.Text)))
		y += 5
	}
}

func (r *HTMLRenderer) writeTable(b *strings.Builder, tree *layout.Tree, padding, contentW float64) {
	table := tree.Table

	x := padding
	for i, cell := range table.HeaderCells {
		colW := contentW * table.Columns[i].WidthPct / 100
		b.WriteString(fmt.Sprintf("<div class=\"block\" style=\"top: %.1fmm; left: %.1fmm; width: %.1fmm; height: 9mm; line-height: 9mm; background: %s; color: %s; font-size: %.1fpt; font-weight: bold; %s\">%s</div>\n",
			table.Y, x, colW, table.HeaderFill, table.HeaderTextColor, table.FontSizePt, cssAlign(table.Columns[i].Align), html.EscapeString(cell)))
		x += colW
	}

	y := table.Y + 9
	for rowIdx, row := range table.Rows {
		if table.ZebraFill != "" && rowIdx%2 == 1 {
			b.WriteString(fmt.Sprintf("<div class=\"block\" style=\"top: %.1fmm; left: %.1fmm; width: %.1fmm; height: %.1fmm; background: %s;\"></div>\n",
				y, padding, contentW, table.RowHeightMM, table.ZebraFill))
		}

		x = padding
		for i, cell := range row {
			colW := contentW * table.Columns[i].WidthPct / 100
			weight := ""
			if cell.Bold {
				weight = "font-weight: bold; "
			}
			b.WriteString(fmt.Sprintf("<div class=\"block\" style=\"top: %.1fmm; left: %.1fmm; width: %.1fmm; height: %.1fmm; line-height: %.1fmm; color: %s; font-size: %.1fpt; %s%s\">%s</div>\n",
				y, x, colW, table.RowHeightMM, table.RowHeightMM, table.TextColor, table.FontSizePt, weight, cssAlign(cell.Align), html.EscapeString(cell.Text)))
			x += colW
		}

		y += table.RowHeightMM
		if table.RowBorderColor != "" {
			b.WriteString(fmt.Sprintf("<div class=\"block\" style=\"top: %.1fmm; left: %.1fmm; width: %.1fmm; border-bottom: 0.2mm solid %s;\"></div>\n",
				y, padding, contentW, table.RowBorderColor))
		}
	}
}

func (r *HTMLRenderer) writeTotals(b *strings.Builder, tree *layout.Tree, padding, contentW float64) {
	totals := tree.Totals
	boxW := 80.0
	labelW := 45.0
	x := padding + contentW - boxW

	y := totals.Y
	for _, row := range totals.Rows {
		size := totals.FontSizePt
		weight := ""
		if row.Emphasis {
			size = totals.EmphasisSizePt
			weight = "font-weight: bold; "
		}

		b.WriteString(fmt.Sprintf("<div class=\"block\" style=\"top: %.1fmm; left: %.1fmm; width: %.1fmm; color: %s; font-size: %.1fpt; %s\">%s</div>\n",
			y, x, labelW, totals.LabelColor, size, weight, html.EscapeString(row.Label)))
		b.WriteString(fmt.Sprintf("<div class=\"block\" style=\"top: %.1fmm; left: %.1fmm; width: %.1fmm; text-align: right; color: %s; font-size: %.1fpt; %s\">%s</div>\n",
			y, x+labelW, boxW-labelW, row.Color, size, weight, html.EscapeString(row.Value)))
		y += 7
	}
}

func (r *HTMLRenderer) writeFooter(b *strings.Builder, tree *layout.Tree, padding, contentW float64) {
	footer := tree.Footer

	if footer.BorderTop {
		b.WriteString(fmt.Sprintf("<div class=\"block\" style=\"top: %.1fmm; left: %.1fmm; width: %.1fmm; border-top: 0.3mm solid %s;\"></div>\n",
			footer.Y, padding, contentW, footer.BorderColor))
	}

	y := footer.Y + 5
	for _, line := range footer.Lines {
		b.WriteString(fmt.Sprintf("<div class=\"block\" style=\"top: %.1fmm; left: %.1fmm; width: %.1fmm; %s\">%s</div>\n",
			y, padding, contentW-70, cssText(line.Style, tree.Page.FontFamily), html.EscapeString(line.Text)))
		y += 5
	}

	if footer.Signature != "" {
		sigX := padding + contentW - 65
		if format, data, err := decodeDataURI(footer.Signature); err != nil {
			r.logger.WithError(err).WithField("image", "signature").Warn("Skipping image in preview")
		} else {
			b.WriteString(fmt.Sprintf("<img class=\"block\" style=\"top: %.1fmm; left: %.1fmm; width: 35mm;\" src=\"%s\" alt=\"\">\n",
				footer.Y+4, sigX, sanitizedDataURI(format, data)))
		}
		b.WriteString(fmt.Sprintf("<div class=\"block\" style=\"top: %.1fmm; left: %.1fmm; width: 35mm; text-align: center; %s\">%s</div>\n",
			footer.Y+24, sigX, cssText(footer.SignatureCaption.Style, tree.Page.FontFamily), html.EscapeString(footer.SignatureCaption.Text)))
	}

	if footer.QRPayload != "" {
		qrX := padding + contentW - 24
		png, err := encodeQRImage(footer.QRPayload)
		if err != nil {
			r.logger.WithError(err).Warn("Skipping QR code in preview")
		} else {
			b.WriteString(fmt.Sprintf("<img class=\"block\" style=\"top: %.1fmm; left: %.1fmm; width: 24mm;\" src=\"data:image/png;base64,%s\" alt=\"\">\n",
				footer.Y+4, qrX, base64.StdEncoding.EncodeToString(png)))
		}
		b.WriteString(fmt.Sprintf("<div class=\"block\" style=\"top: %.1fmm; left: %.1fmm; width: 40mm; text-align: center; %s\">%s</div>\n",
			footer.Y+29, qrX-8, cssText(footer.QRCaption.Style, tree.Page.FontFamily), html.EscapeString(footer.QRCaption.Text)))
	}
}

// cssText arma las declaraciones CSS de un estilo de texto
func cssText(style layout.TextStyle, family string) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("font-family: %s, sans-serif;", cssFont(family)))
	parts = append(parts, fmt.Sprintf("font-size: %.1fpt;", style.SizePt))
	parts = append(parts, fmt.Sprintf("color: %s;", style.Color))
	if style.Bold {
		parts = append(parts, "font-weight: bold;")
	}
	if style.Italic {
		parts = append(parts, "font-style: italic;")
	}
	return strings.Join(parts, " ")
}

func cssAlign(align layout.Align) string {
	switch align {
	case layout.AlignCenter:
		return "text-align: center;"
	case layout.AlignRight:
		return "text-align: right;"
	}
	return "text-align: left;"
}

// cssFont sanea el nombre de familia para interpolarlo en CSS
func cssFont(family string) string {
	family = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ', r == '-':
			return r
		}
		return -1
	}, family)
	if family == "" {
		return "Helvetica"
	}
	return family
}
