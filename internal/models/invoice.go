package models

// FormLineItem representa una línea tal como llega del formulario.
// Los campos numéricos viajan como texto; la coerción a número ocurre
// en el ensamblado del documento.
type FormLineItem struct {
	Descripcion    string `json:"descripcion"`
	Cantidad       string `json:"cantidad"`
	PrecioUnitario string `json:"precioUnitario"`
	Impuesto       string `json:"impuesto"`
	Descuento      string `json:"descuento"`
}

// FormState representa el estado completo del formulario de factura rápida
type FormState struct {
	// Información del emisor
	EmpresaNombre    string `json:"empresaNombre"`
	EmpresaRNC       string `json:"empresaRNC"`
	EmpresaDireccion string `json:"empresaDireccion"`
	EmpresaTelefono  string `json:"empresaTelefono"`
	EmpresaEmail     string `json:"empresaEmail"`
	EmpresaLogo      string `json:"empresaLogo,omitempty"`
	EmpresaFirma     string `json:"empresaFirma,omitempty"`

	// Información del cliente
	ClienteNombre    string `json:"clienteNombre"`
	ClienteRNC       string `json:"clienteRNC"`
	ClienteEmail     string `json:"clienteEmail"`
	ClienteDireccion string `json:"clienteDireccion"`
	ClienteTelefono  string `json:"clienteTelefono"`

	// Detalles de factura
	NumeroFactura   string `json:"numeroFactura"`
	Fecha           string `json:"fecha"`
	Vencimiento     string `json:"vencimiento"`
	Moneda          string `json:"moneda"`
	MetodoPago      string `json:"metodoPago"`
	CondicionesPago string `json:"condicionesPago"`

	// Items de la factura
	Items []FormLineItem `json:"items"`

	// Extras
	DescuentoGlobal string `json:"descuentoGlobal"`
	Notas           string `json:"notas"`
}

// Party representa una de las dos partes del documento (emisor o cliente)
type Party struct {
	Name      string `json:"name"`
	TaxID     string `json:"tax_id"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Logo      string `json:"logo,omitempty"`
	Signature string `json:"signature,omitempty"`
}

// LineItem representa una línea facturable ya coercida a números
type LineItem struct {
	Description     string  `json:"description"`
	Quantity        float64 `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	TaxRatePercent  float64 `json:"tax_rate_percent"`
	DiscountPercent float64 `json:"discount_percent"`
}

// Totals representa los totales derivados del documento.
// Siempre son función pura de las líneas y el descuento global;
// solo quedan congelados en el artefacto renderizado.
type Totals struct {
	Subtotal              float64 `json:"subtotal"`
	SubtotalAfterDiscount float64 `json:"subtotal_after_discount"`
	Tax                   float64 `json:"tax"`
	Total                 float64 `json:"total"`
}

// InvoiceDocument representa el modelo canónico del documento en memoria,
// independiente del renderizador
type InvoiceDocument struct {
	Issuer    Party `json:"issuer"`
	Recipient Party `json:"recipient"`

	DocumentNumber string `json:"document_number"`
	IssueDate      string `json:"issue_date"`
	DueDate        string `json:"due_date"`
	Currency       string `json:"currency"`
	PaymentMethod  string `json:"payment_method"`
	PaymentTerms   string `json:"payment_terms"`

	Items                 []LineItem `json:"items"`
	GlobalDiscountPercent float64    `json:"global_discount_percent"`
	Notes                 string     `json:"notes"`

	Totals    Totals `json:"totals"`
	QRPayload string `json:"qr_payload,omitempty"`
}

// RenderRequest representa el cuerpo de los endpoints de render:
// el formulario completo más la selección visual
type RenderRequest struct {
	FormState
	Template Template        `json:"template"`
	Theme    *ThemeOverrides `json:"theme,omitempty"`
}
