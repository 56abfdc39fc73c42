package email

import (
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"

	"github.com/yoquelvisdev08/factura/internal/layout"
	"github.com/yoquelvisdev08/factura/internal/models"
)

// ResendService maneja el envío de correos electrónicos usando Resend API
type ResendService struct {
	client    *resend.Client
	fromEmail string
	logger    *logrus.Logger
}

// NewResendService crea una nueva instancia de ResendService
func NewResendService(apiKey, fromEmail string, logger *logrus.Logger) *ResendService {
	return &ResendService{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		logger:    logger,
	}
}

// SendInvoiceEmail envía la factura al cliente con el PDF adjunto. Si
// downloadURL no está vacío el correo incluye además el enlace de descarga.
func (s *ResendService) SendInvoiceEmail(doc *models.InvoiceDocument, pdfData []byte, downloadURL string) error {
	if doc.Recipient.Email == "" {
		return fmt.Errorf("recipient has no email address")
	}

	subject := fmt.Sprintf("Factura %s - %s", doc.DocumentNumber, doc.Issuer.Name)

	downloadSection := ""
	if downloadURL != "" {
		downloadSection = fmt.Sprintf(`
            <div style="text-align: center; margin: 20px 0;">
                <a href="%s" class="button">Descargar Factura</a>
            </div>`, downloadURL)
	}

	htmlContent := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Factura</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #f8f9fa; padding: 20px; text-align: center; border-radius: 8px; }
        .content { padding: 20px; }
        .footer { margin-top: 30px; padding: 20px; background-color: #f8f9fa; border-radius: 8px; font-size: 14px; color: #666; }
        .total { font-size: 18px; font-weight: bold; color: #007bff; }
        .button { display: inline-block; padding: 12px 24px; background-color: #007bff; color: #fff; text-decoration: none; border-radius: 6px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Factura</h1>
            <p>Número: %s</p>
            <p>Fecha: %s</p>
        </div>

        <div class="content">
            <h2>Hola %s,</h2>

            <p>Adjunto encontrarás tu factura con los siguientes detalles:</p>

            <ul>
                <li><strong>Emisor:</strong> %s</li>
                <li><strong>Documento:</strong> %s</li>
                <li><strong>Total:</strong> <span class="total">%s</span></li>
            </ul>
%s
        </div>

        <div class="footer">
            <p>Este es un email automático del sistema de facturación.</p>
            <p>Si tienes alguna pregunta, responde a este correo.</p>
        </div>
    </div>
</body>
</html>`,
		doc.DocumentNumber,
		doc.IssueDate,
		doc.Recipient.Name,
		doc.Issuer.Name,
		doc.DocumentNumber,
		layout.FormatMoney(doc.Currency, doc.Totals.Total),
		downloadSection)

	request := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{doc.Recipient.Email},
		Subject: subject,
		Html:    htmlContent,
		Attachments: []*resend.Attachment{
			{
				Filename:    fmt.Sprintf("factura-%s.pdf", doc.DocumentNumber),
				Content:     pdfData,
				ContentType: "application/pdf",
			},
		},
	}

	result, err := s.client.Emails.Send(request)
	if err != nil {
		return fmt.Errorf("error sending email via Resend: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"email_id": result.Id,
		"to":       doc.Recipient.Email,
		"subject":  subject,
	}).Info("Email sent successfully via Resend")

	return nil
}
