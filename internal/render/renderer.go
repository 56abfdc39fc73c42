// Package render contiene los dos renderizadores del árbol de bloques: el
// walker PDF para el artefacto final y el walker HTML para la vista previa.
// Ninguno de los dos decide contenido ni posiciones; eso ya viene resuelto
// en el árbol, así que ambos producen el mismo documento.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/yoquelvisdev08/factura/internal/layout"
)

// Tamaño del PNG del código QR, en píxeles
const qrImageSize = 280

// dataURIPattern acota los data URIs aceptados como imagen embebida.
// El encabezado se valida completo: nada entre el tipo MIME y el payload.
var dataURIPattern = regexp.MustCompile(`^data:image/(png|jpe?g|gif);base64,`)

// decodeDataURI separa un data URI base64 en su formato y sus bytes.
// Las imágenes del formulario (logo, firma) llegan en este formato; todo lo
// que no calce con el patrón estricto se rechaza.
func decodeDataURI(uri string) (format string, data []byte, err error) {
	match := dataURIPattern.FindStringSubmatch(uri)
	if match == nil {
		return "", nil, fmt.Errorf("unsupported or malformed data URI")
	}

	switch match[1] {
	case "png":
		format = "PNG"
	case "gif":
		format = "GIF"
	default:
		format = "JPG"
	}

	data, err = base64.StdEncoding.DecodeString(uri[len(match[0]):])
	if err != nil {
		return "", nil, fmt.Errorf("decoding data URI: %w", err)
	}
	return format, data, nil
}

// sanitizedDataURI reserializa una imagen ya decodificada como data URI
// limpio. La vista previa nunca interpola el URI original del formulario.
func sanitizedDataURI(format string, data []byte) string {
	mime := "image/jpeg"
	switch format {
	case "PNG":
		mime = "image/png"
	case "GIF":
		mime = "image/gif"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
}

// encodeQRImage genera el PNG del código QR a partir del payload
func encodeQRImage(payload string) ([]byte, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("encoding qr: %w", err)
	}
	return png, nil
}

// pdfFontFamily mapea la familia tipográfica del tema a una fuente core de
// PDF. Las webfonts del tema no existen en el PDF; caen a la core más cercana.
func pdfFontFamily(family string) string {
	f := strings.ToLower(family)
	switch {
	case strings.Contains(f, "times"), strings.Contains(f, "georgia"), strings.Contains(f, "serif"):
		return "Times"
	case strings.Contains(f, "courier"), strings.Contains(f, "mono"):
		return "Courier"
	default:
		return "Helvetica"
	}
}

// pdfFontStyle arma el string de estilo B/I de gofpdf
func pdfFontStyle(style layout.TextStyle) string {
	var s string
	if style.Bold {
		s += "B"
	}
	if style.Italic {
		s += "I"
	}
	return s
}

// imageReader envuelve bytes de imagen para registrarlos en el PDF
func imageReader(data []byte) *bytes.Reader {
	return bytes.NewReader(data)
}
