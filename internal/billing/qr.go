package billing

import (
	"encoding/json"
	"fmt"

	"github.com/yoquelvisdev08/factura/internal/models"
)

// qrPayload representa el resumen de verificación embebido en el QR.
// El orden de los campos es fijo y el monto va formateado a 2 decimales,
// de modo que codificar el mismo documento produce bytes idénticos.
type qrPayload struct {
	Emisor        string `json:"emisor"`
	RNCEmisor     string `json:"rncEmisor"`
	Cliente       string `json:"cliente"`
	RNCCliente    string `json:"rncCliente"`
	NumeroFactura string `json:"numeroFactura"`
	Fecha         string `json:"fecha"`
	Total         string `json:"total"`
	Moneda        string `json:"moneda"`
}

// EncodeQRPayload serializa el resumen de verificación del documento.
// Retorna ok=false cuando falta el nombre del emisor, el del cliente o el
// número de documento; en ese caso el documento se renderiza sin QR.
func EncodeQRPayload(doc *models.InvoiceDocument) (string, bool) {
	if doc.Issuer.Name == "" || doc.Recipient.Name == "" || doc.DocumentNumber == "" {
		return "", false
	}

	payload := qrPayload{
		Emisor:        doc.Issuer.Name,
		RNCEmisor:     doc.Issuer.TaxID,
		Cliente:       doc.Recipient.Name,
		RNCCliente:    doc.Recipient.TaxID,
		NumeroFactura: doc.DocumentNumber,
		Fecha:         doc.IssueDate,
		Total:         fmt.Sprintf("%.2f", doc.Totals.Total),
		Moneda:        doc.Currency,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		// Marshal de un struct plano de strings no falla en la práctica
		return "", false
	}

	return string(data), true
}
