// Package layout construye el árbol de bloques abstracto de una factura:
// la única fuente de verdad que consumen ambos renderizadores. El árbol
// lleva posiciones en milímetros sobre A4 y estilos ya resueltos desde el
// tema, de modo que pintar es lo único que le queda a cada renderizador.
package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Dimensiones de página A4 en milímetros
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
)

// Align representa la alineación horizontal de una celda o texto
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// TextStyle representa el estilo resuelto de un texto
type TextStyle struct {
	SizePt float64
	Bold   bool
	Italic bool
	Color  string
}

// TextLine representa una línea de texto con su estilo
type TextLine struct {
	Text  string
	Style TextStyle
}

// Page representa los parámetros de página comunes a todos los bloques
type Page struct {
	PaddingMM        float64
	BackgroundColor  string
	FontFamily       string
	HeaderFontFamily string
	WatermarkText    string
	WatermarkColor   string
}

// HeaderBlock representa el encabezado: logo opcional, título y metadatos
type HeaderBlock struct {
	Y            float64
	Logo         string
	LogoWidthMM  float64
	Title        TextLine
	Meta         []TextLine
	BorderBottom bool
	BorderColor  string
}

// PartySection representa uno de los dos bloques de información de parte
type PartySection struct {
	Title TextLine
	Lines []TextLine
}

// PartiesBlock representa los bloques de emisor y cliente, lado a lado
type PartiesBlock struct {
	Y           float64
	FillColor   string
	BorderLeft  bool
	BorderColor string
	Issuer      PartySection
	Recipient   PartySection
}

// Column representa una columna de la tabla de líneas
type Column struct {
	WidthPct float64
	Align    Align
}

// Cell representa una celda de la tabla
type Cell struct {
	Text  string
	Align Align
	Bold  bool
}

// TableBlock representa la tabla de líneas facturables
type TableBlock struct {
	Y               float64
	Columns         []Column
	HeaderCells     []string
	HeaderFill      string
	HeaderTextColor string
	Rows            [][]Cell
	RowHeightMM     float64
	ZebraFill       string
	RowBorderColor  string
	TextColor       string
	FontSizePt      float64
}

// TotalRow representa una fila del bloque de totales
type TotalRow struct {
	Label    string
	Value    string
	Emphasis bool
	Color    string
}

// TotalsBlock representa el resumen de totales, alineado a la derecha
type TotalsBlock struct {
	Y              float64
	Rows           []TotalRow
	LabelColor     string
	FontSizePt     float64
	EmphasisSizePt float64
}

// FooterBlock representa el pie: pago, notas y los elementos opcionales.
// Va anclado a la parte baja de la página; su posición no depende del
// contenido que lo precede ni de que un recurso opcional cargue o no.
type FooterBlock struct {
	Y                float64
	BorderTop        bool
	BorderColor      string
	Lines            []TextLine
	Signature        string
	SignatureCaption TextLine
	QRPayload        string
	QRCaption        TextLine
}

// Tree representa el documento completo listo para pintar. El contenido y
// el orden de los campos es idéntico entre plantillas; solo cambian
// espaciados, colores, bordes y énfasis tipográfico.
type Tree struct {
	Page    Page
	Header  HeaderBlock
	Parties PartiesBlock
	Table   TableBlock
	Totals  TotalsBlock
	Footer  FooterBlock
}

// FormatMoney formatea un monto para mostrar: moneda + 2 decimales.
// Este es el único punto donde los montos se redondean.
func FormatMoney(currency string, amount float64) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", amount)
	}
	return fmt.Sprintf("%s %.2f", currency, amount)
}

// FormatQuantity formatea una cantidad sin decimales de relleno
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// Tint mezcla un color hex con el fondo en la fracción dada, produciendo un
// color sólido equivalente al hex-con-alfa que usaban las plantillas
// originales. Ambos renderizadores reciben colores sólidos.
func Tint(hex, background string, fraction float64) string {
	r1, g1, b1 := splitHex(hex)
	r2, g2, b2 := splitHex(background)

	blend := func(a, b int) int {
		v := int(float64(a)*fraction + float64(b)*(1-fraction))
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		return v
	}

	return fmt.Sprintf("#%02x%02x%02x", blend(r1, r2), blend(g1, g2), blend(b1, b2))
}

// SplitHex descompone un color #rrggbb en sus componentes RGB.
// Entrada inválida cae a negro.
func SplitHex(hex string) (r, g, b int) {
	return splitHex(hex)
}

func splitHex(hex string) (r, g, b int) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) < 6 {
		return 0, 0, 0
	}
	parse := func(s string) int {
		v, err := strconv.ParseInt(s, 16, 32)
		if err != nil {
			return 0
		}
		return int(v)
	}
	return parse(hex[0:2]), parse(hex[2:4]), parse(hex[4:6])
}

// TextContent retorna todo el texto visible del árbol, en orden de lectura.
// Es la referencia contra la que se verifica la paridad de contenido entre
// renderizadores.
func (t *Tree) TextContent() []string {
	var out []string
	add := func(s string) {
		if s != "" {
			out = append(out, s)
		}
	}

	add(t.Header.Title.Text)
	for _, line := range t.Header.Meta {
		add(line.Text)
	}
	for _, section := range []PartySection{t.Parties.Issuer, t.Parties.Recipient} {
		add(section.Title.Text)
		for _, line := range section.Lines {
			add(line.Text)
		}
	}
	for _, h := range t.Table.HeaderCells {
		add(h)
	}
	for _, row := range t.Table.Rows {
		for _, cell := range row {
			add(cell.Text)
		}
	}
	for _, row := range t.Totals.Rows {
		add(row.Label)
		add(row.Value)
	}
	for _, line := range t.Footer.Lines {
		add(line.Text)
	}
	add(t.Footer.SignatureCaption.Text)
	add(t.Footer.QRCaption.Text)

	return out
}
