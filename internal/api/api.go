package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yoquelvisdev08/factura/internal/billing"
	"github.com/yoquelvisdev08/factura/internal/database"
	"github.com/yoquelvisdev08/factura/internal/models"
	"github.com/yoquelvisdev08/factura/internal/services"
)

// API maneja todos los endpoints de la API
type API struct {
	invoiceService  *services.InvoiceService
	documentService *services.DocumentService
	logger          *logrus.Logger
}

// NewAPI crea una nueva instancia de la API
func NewAPI(invoiceService *services.InvoiceService, documentService *services.DocumentService, logger *logrus.Logger) *API {
	return &API{
		invoiceService:  invoiceService,
		documentService: documentService,
		logger:          logger,
	}
}

// AssembleInvoice ensambla el documento canónico y lo retorna como JSON,
// con los totales y el payload del QR ya calculados
func (api *API) AssembleInvoice(c *gin.Context) {
	req, ok := api.bindRenderRequest(c)
	if !ok {
		return
	}

	doc, err := api.invoiceService.Assemble(req)
	if err != nil {
		api.renderError(c, err, "Error assembling invoice")
		return
	}

	c.JSON(http.StatusOK, doc)
}

// PreviewInvoice genera la vista previa HTML de la factura
func (api *API) PreviewInvoice(c *gin.Context) {
	req, ok := api.bindRenderRequest(c)
	if !ok {
		return
	}

	page, err := api.invoiceService.Preview(req)
	if err != nil {
		api.renderError(c, err, "Error rendering preview")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// GenerateInvoicePDF genera el PDF de la factura. Con el query param
// document_id el artefacto además se sube al almacenamiento y queda
// asociado al documento del usuario.
func (api *API) GenerateInvoicePDF(c *gin.Context) {
	req, ok := api.bindRenderRequest(c)
	if !ok {
		return
	}

	var pdfData []byte
	var fileName string
	var err error

	if documentID := c.Query("document_id"); documentID != "" {
		ownerID, authOK := api.getOwnerID(c)
		if !authOK {
			return
		}

		id, parseErr := uuid.Parse(documentID)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid document_id", []models.ErrorDetail{
				{Field: "document_id", Issue: "must be a valid UUID"},
			}))
			return
		}

		pdfData, fileName, err = api.invoiceService.GenerateAndStore(c.Request.Context(), ownerID, id, req)
	} else {
		pdfData, fileName, err = api.invoiceService.GeneratePDF(req)
	}

	if err != nil {
		api.renderError(c, err, "Error generating PDF")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "application/pdf", pdfData)
}

// EmailInvoice genera el PDF y lo envía por correo al cliente
func (api *API) EmailInvoice(c *gin.Context) {
	req, ok := api.bindRenderRequest(c)
	if !ok {
		return
	}

	if err := api.invoiceService.SendInvoiceEmail(c.Request.Context(), req); err != nil {
		api.renderError(c, err, "Error sending invoice email")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

// CreateDocument registra un documento del usuario
func (api *API) CreateDocument(c *gin.Context) {
	ownerID, ok := api.getOwnerID(c)
	if !ok {
		return
	}

	var req models.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.logger.WithError(err).Error("Error binding create document request")
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", []models.ErrorDetail{
			{Field: "body", Issue: err.Error()},
		}))
		return
	}

	doc, err := api.documentService.Create(ownerID, &req)
	if err != nil {
		api.logger.WithError(err).Error("Error creating document")
		c.JSON(http.StatusInternalServerError, models.NewInternalError("Error creating document"))
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// ListDocuments lista los documentos del usuario
func (api *API) ListDocuments(c *gin.Context) {
	ownerID, ok := api.getOwnerID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	response, err := api.documentService.List(
		ownerID,
		models.DocumentType(c.Query("type")),
		models.DocumentStatus(c.Query("status")),
		limit, offset,
	)
	if err != nil {
		api.logger.WithError(err).Error("Error listing documents")
		c.JSON(http.StatusInternalServerError, models.NewInternalError("Error listing documents"))
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetDocument obtiene un documento del usuario
func (api *API) GetDocument(c *gin.Context) {
	ownerID, id, ok := api.getOwnerAndDocumentID(c)
	if !ok {
		return
	}

	doc, err := api.documentService.Get(ownerID, id)
	if err != nil {
		api.documentError(c, err, "Error getting document")
		return
	}

	c.JSON(http.StatusOK, doc)
}

// UpdateDocument aplica una actualización parcial al documento
func (api *API) UpdateDocument(c *gin.Context) {
	ownerID, id, ok := api.getOwnerAndDocumentID(c)
	if !ok {
		return
	}

	var req models.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", []models.ErrorDetail{
			{Field: "body", Issue: err.Error()},
		}))
		return
	}

	doc, err := api.documentService.Update(ownerID, id, &req)
	if err != nil {
		api.documentError(c, err, "Error updating document")
		return
	}

	c.JSON(http.StatusOK, doc)
}

// DeleteDocument elimina un documento del usuario
func (api *API) DeleteDocument(c *gin.Context) {
	ownerID, id, ok := api.getOwnerAndDocumentID(c)
	if !ok {
		return
	}

	if err := api.documentService.Delete(c.Request.Context(), ownerID, id); err != nil {
		api.documentError(c, err, "Error deleting document")
		return
	}

	c.Status(http.StatusNoContent)
}

// DownloadDocumentFile descarga el artefacto asociado al documento
func (api *API) DownloadDocumentFile(c *gin.Context) {
	ownerID, id, ok := api.getOwnerAndDocumentID(c)
	if !ok {
		return
	}

	data, fileName, err := api.documentService.DownloadFile(c.Request.Context(), ownerID, id)
	if err != nil {
		api.documentError(c, err, "Error downloading document file")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "application/pdf", data)
}

// HealthCheck reporta la salud del servicio y sus dependencias
func (api *API) HealthCheck(db *database.DB, cache *database.Redis) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":  "ok",
			"service": "factura-service",
		}

		if db != nil {
			if err := db.HealthCheck(); err != nil {
				health["database"] = "unhealthy"
				health["status"] = "degraded"
			} else {
				health["database"] = "ok"
			}
		}
		if cache != nil {
			if err := cache.HealthCheck(); err != nil {
				health["cache"] = "unhealthy"
			} else {
				health["cache"] = "ok"
			}
		}

		c.JSON(http.StatusOK, health)
	}
}

// bindRenderRequest parsea y valida el cuerpo de los endpoints de render
func (api *API) bindRenderRequest(c *gin.Context) (*models.RenderRequest, bool) {
	var req models.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.logger.WithError(err).Error("Error binding render request")
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", []models.ErrorDetail{
			{Field: "body", Issue: err.Error()},
		}))
		return nil, false
	}

	if req.Template == "" {
		req.Template = models.TemplateProfesional
	}
	if !req.Template.IsValid() {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Unknown template", []models.ErrorDetail{
			{Field: "template", Issue: "must be one of profesional, moderna, clasica"},
		}))
		return nil, false
	}

	return &req, true
}

// getOwnerID obtiene el ID del usuario desde el header de identidad
func (api *API) getOwnerID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetHeader("X-User-ID")
	if raw == "" {
		c.JSON(http.StatusUnauthorized, models.NewUnauthorizedError("Missing X-User-ID header"))
		return uuid.Nil, false
	}

	ownerID, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.NewUnauthorizedError("Invalid X-User-ID header"))
		return uuid.Nil, false
	}

	return ownerID, true
}

// getOwnerAndDocumentID obtiene el usuario y el ID del documento de la ruta
func (api *API) getOwnerAndDocumentID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	ownerID, ok := api.getOwnerID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid document id", []models.ErrorDetail{
			{Field: "id", Issue: "must be a valid UUID"},
		}))
		return uuid.Nil, uuid.Nil, false
	}

	return ownerID, id, true
}

// renderError traduce los errores del pipeline de render a respuestas HTTP
func (api *API) renderError(c *gin.Context, err error, logMessage string) {
	if errors.Is(err, billing.ErrNoItems) {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invoice has no line items", []models.ErrorDetail{
			{Field: "items", Issue: "at least one line item is required"},
		}))
		return
	}
	if errors.Is(err, database.ErrDocumentNotFound) {
		c.JSON(http.StatusNotFound, models.NewNotFoundError("Document not found"))
		return
	}

	api.logger.WithError(err).Error(logMessage)
	c.JSON(http.StatusInternalServerError, models.NewInternalError(logMessage))
}

// documentError traduce los errores del archivo de documentos
func (api *API) documentError(c *gin.Context, err error, logMessage string) {
	if errors.Is(err, database.ErrDocumentNotFound) {
		c.JSON(http.StatusNotFound, models.NewNotFoundError("Document not found"))
		return
	}

	api.logger.WithError(err).Error(logMessage)
	c.JSON(http.StatusInternalServerError, models.NewInternalError(logMessage))
}
