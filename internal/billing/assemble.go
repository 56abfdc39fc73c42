package billing

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/yoquelvisdev08/factura/internal/models"
)

// ErrNoItems se reporta cuando el formulario llega sin líneas; sin al menos
// una línea no hay documento razonable que producir.
var ErrNoItems = fmt.Errorf("invoice has no line items")

const invoiceNumberPrefix = "FAC"

// GenerateInvoiceNumber genera un número de documento con unicidad práctica
// dentro de una sesión: prefijo + últimos 6 dígitos del timestamp en
// milisegundos + 3 dígitos aleatorios. Se genera una sola vez; después el
// número es texto editable por el usuario y no se regenera.
func GenerateInvoiceNumber() string {
	millis := strconv.FormatInt(time.Now().UnixMilli(), 10)
	suffix := millis[len(millis)-6:]
	return fmt.Sprintf("%s-%s-%03d", invoiceNumberPrefix, suffix, rand.Intn(1000))
}

// Assemble construye el InvoiceDocument canónico a partir del estado del
// formulario. Es idempotente: puede llamarse en cada edición y, con el mismo
// formulario, produce los mismos totales y conserva el número de documento.
func Assemble(form *models.FormState) (*models.InvoiceDocument, error) {
	if len(form.Items) == 0 {
		return nil, ErrNoItems
	}

	items := make([]models.LineItem, len(form.Items))
	for i, row := range form.Items {
		items[i] = models.LineItem{
			Description:     row.Descripcion,
			Quantity:        ParseAmount(row.Cantidad),
			UnitPrice:       ParseAmount(row.PrecioUnitario),
			TaxRatePercent:  ParseAmount(row.Impuesto),
			DiscountPercent: ParseAmount(row.Descuento),
		}
	}

	number := form.NumeroFactura
	if number == "" {
		number = GenerateInvoiceNumber()
	}

	doc := &models.InvoiceDocument{
		Issuer: models.Party{
			Name:      form.EmpresaNombre,
			TaxID:     form.EmpresaRNC,
			Address:   form.EmpresaDireccion,
			Phone:     form.EmpresaTelefono,
			Email:     form.EmpresaEmail,
			Logo:      form.EmpresaLogo,
			Signature: form.EmpresaFirma,
		},
		Recipient: models.Party{
			Name:    form.ClienteNombre,
			TaxID:   form.ClienteRNC,
			Address: form.ClienteDireccion,
			Phone:   form.ClienteTelefono,
			Email:   form.ClienteEmail,
		},
		DocumentNumber:        number,
		IssueDate:             form.Fecha,
		DueDate:               form.Vencimiento,
		Currency:              form.Moneda,
		PaymentMethod:         form.MetodoPago,
		PaymentTerms:          form.CondicionesPago,
		Items:                 items,
		GlobalDiscountPercent: ParseAmount(form.DescuentoGlobal),
		Notes:                 form.Notas,
	}

	doc.Totals = CalculateTotals(doc.Items, doc.GlobalDiscountPercent)

	// El QR solo se emite con datos completos; nunca codificamos un
	// resumen parcial que pueda inducir a error al verificar.
	if payload, ok := EncodeQRPayload(doc); ok {
		doc.QRPayload = payload
	}

	return doc, nil
}
