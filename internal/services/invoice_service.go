package services

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yoquelvisdev08/factura/internal/billing"
	"github.com/yoquelvisdev08/factura/internal/database"
	"github.com/yoquelvisdev08/factura/internal/email"
	"github.com/yoquelvisdev08/factura/internal/layout"
	"github.com/yoquelvisdev08/factura/internal/models"
	"github.com/yoquelvisdev08/factura/internal/render"
)

// InvoiceService maneja el ensamblado y renderizado de facturas
type InvoiceService struct {
	pdfRenderer   *render.PDFRenderer
	htmlRenderer  *render.HTMLRenderer
	cache         *database.Redis
	cacheTTL      time.Duration
	storage       *database.StorageClient
	documentRepo  *database.DocumentRepository
	resendService *email.ResendService
	logger        *logrus.Logger
}

// NewInvoiceService crea una nueva instancia del servicio. La caché, el
// almacenamiento, el repositorio de documentos y el email pueden ser nil;
// el renderizado funciona sin ellos.
func NewInvoiceService(cache *database.Redis, cacheTTL time.Duration, storage *database.StorageClient, documentRepo *database.DocumentRepository, resendService *email.ResendService, logger *logrus.Logger) *InvoiceService {
	return &InvoiceService{
		pdfRenderer:   render.NewPDFRenderer(logger),
		htmlRenderer:  render.NewHTMLRenderer(logger),
		cache:         cache,
		cacheTTL:      cacheTTL,
		storage:       storage,
		documentRepo:  documentRepo,
		resendService: resendService,
		logger:        logger,
	}
}

// Assemble construye el documento canónico a partir del request
func (s *InvoiceService) Assemble(req *models.RenderRequest) (*models.InvoiceDocument, error) {
	if !req.Template.IsValid() {
		return nil, fmt.Errorf("unknown template: %q", req.Template)
	}

	doc, err := billing.Assemble(&req.FormState)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// buildTree ensambla el documento y construye su árbol de bloques
func (s *InvoiceService) buildTree(req *models.RenderRequest) (*models.InvoiceDocument, *layout.Tree, error) {
	doc, err := s.Assemble(req)
	if err != nil {
		return nil, nil, err
	}

	theme := models.ResolveTheme(req.Template, req.Theme)
	tree := layout.Build(doc, req.Template, theme)

	return doc, tree, nil
}

// Preview genera la vista previa HTML de la factura
func (s *InvoiceService) Preview(req *models.RenderRequest) ([]byte, error) {
	_, tree, err := s.buildTree(req)
	if err != nil {
		return nil, err
	}

	page, err := s.htmlRenderer.Render(tree)
	if err != nil {
		return nil, fmt.Errorf("error rendering preview: %w", err)
	}

	return page, nil
}

// GeneratePDF genera el PDF de la factura y retorna los bytes junto al
// nombre de archivo sugerido. Los renders repetidos del mismo documento
// salen de la caché cuando Redis está disponible.
func (s *InvoiceService) GeneratePDF(req *models.RenderRequest) ([]byte, string, error) {
	doc, err := s.Assemble(req)
	if err != nil {
		return nil, "", err
	}

	theme := models.ResolveTheme(req.Template, req.Theme)
	tree := layout.Build(doc, req.Template, theme)

	fileName := fmt.Sprintf("factura-%s.pdf", doc.DocumentNumber)
	cacheKey := s.cacheKey(doc, req.Template, theme)

	if s.cache != nil && cacheKey != "" {
		if data, found, err := s.cache.GetBytes(cacheKey); err == nil && found {
			s.logger.WithField("key", cacheKey).Debug("PDF cache hit")
			return data, fileName, nil
		}
	}

	pdfData, err := s.pdfRenderer.Render(tree)
	if err != nil {
		return nil, "", fmt.Errorf("error rendering PDF: %w", err)
	}

	if s.cache != nil && cacheKey != "" {
		if err := s.cache.SetBytesWithTTL(cacheKey, pdfData, s.cacheTTL); err != nil {
			s.logger.WithError(err).Warn("Could not cache generated PDF")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"document_number": doc.DocumentNumber,
		"template":        req.Template,
		"pdf_size":        len(pdfData),
	}).Info("Invoice PDF generated")

	return pdfData, fileName, nil
}

// GenerateAndStore genera el PDF, lo sube al almacenamiento y lo asocia al
// documento del usuario
func (s *InvoiceService) GenerateAndStore(ctx context.Context, ownerID, documentID uuid.UUID, req *models.RenderRequest) ([]byte, string, error) {
	if s.storage == nil || s.documentRepo == nil {
		return nil, "", fmt.Errorf("storage is not configured")
	}

	// Verificar propiedad antes de generar nada
	if _, err := s.documentRepo.GetByID(ownerID, documentID); err != nil {
		return nil, "", err
	}

	pdfData, fileName, err := s.GeneratePDF(req)
	if err != nil {
		return nil, "", err
	}

	objectKey := fmt.Sprintf("%s/%s/%s", ownerID, documentID, fileName)
	filePath, err := s.storage.UploadFile(ctx, objectKey, pdfData, "application/pdf")
	if err != nil {
		return nil, "", fmt.Errorf("error storing PDF: %w", err)
	}

	if err := s.documentRepo.SetFilePath(ownerID, documentID, filePath); err != nil {
		return nil, "", err
	}

	return pdfData, fileName, nil
}

// SendInvoiceEmail genera el PDF y lo envía por correo al cliente. El
// documento se ensambla una sola vez: el adjunto y el cuerpo del correo
// siempre refieren al mismo número. Cuando hay almacenamiento configurado
// se sube una copia y el correo incluye su enlace de descarga.
func (s *InvoiceService) SendInvoiceEmail(ctx context.Context, req *models.RenderRequest) error {
	if s.resendService == nil {
		return fmt.Errorf("email is not configured")
	}

	doc, err := s.Assemble(req)
	if err != nil {
		return err
	}

	theme := models.ResolveTheme(req.Template, req.Theme)
	tree := layout.Build(doc, req.Template, theme)

	pdfData, err := s.pdfRenderer.Render(tree)
	if err != nil {
		return fmt.Errorf("error rendering PDF: %w", err)
	}

	var downloadURL string
	if s.storage != nil {
		fileName := fmt.Sprintf("factura-%s.pdf", doc.DocumentNumber)
		objectKey := fmt.Sprintf("email/%s/%s", uuid.New(), fileName)
		if _, err := s.storage.UploadFile(ctx, objectKey, pdfData, "application/pdf"); err != nil {
			s.logger.WithError(err).Warn("Could not store emailed PDF")
		} else {
			downloadURL = s.storage.PublicURL(objectKey)
		}
	}

	return s.resendService.SendInvoiceEmail(doc, pdfData, downloadURL)
}

// cacheKey deriva la clave de caché del documento ya ensamblado junto a la
// plantilla y el tema resueltos. El número de documento forma parte de la
// clave: un número recién generado nunca reutiliza el artefacto de otro.
func (s *InvoiceService) cacheKey(doc *models.InvoiceDocument, template models.Template, theme models.Theme) string {
	payload := struct {
		Document *models.InvoiceDocument `json:"document"`
		Template models.Template         `json:"template"`
		Theme    models.Theme            `json:"theme"`
	}{doc, template, theme}

	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("factura:pdf:%x", sha256.Sum256(data))
}
