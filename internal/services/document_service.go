package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yoquelvisdev08/factura/internal/database"
	"github.com/yoquelvisdev08/factura/internal/models"
)

// DocumentService maneja el archivo de documentos del usuario: facturas
// guardadas, contratos y documentos legales
type DocumentService struct {
	documentRepo *database.DocumentRepository
	storage      *database.StorageClient
	logger       *logrus.Logger
}

// NewDocumentService crea una nueva instancia del servicio
func NewDocumentService(documentRepo *database.DocumentRepository, storage *database.StorageClient, logger *logrus.Logger) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		storage:      storage,
		logger:       logger,
	}
}

// Create registra un nuevo documento del usuario
func (s *DocumentService) Create(ownerID uuid.UUID, req *models.CreateDocumentRequest) (*models.DocumentRecord, error) {
	status := req.Status
	if status == "" {
		status = models.DocumentStatusDraft
	}

	now := time.Now()
	doc := &models.DocumentRecord{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Data:        req.Data,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.documentRepo.Create(doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// Get obtiene un documento del usuario
func (s *DocumentService) Get(ownerID, id uuid.UUID) (*models.DocumentRecord, error) {
	return s.documentRepo.GetByID(ownerID, id)
}

// List lista los documentos del usuario con filtros opcionales
func (s *DocumentService) List(ownerID uuid.UUID, docType models.DocumentType, status models.DocumentStatus, limit, offset int) (*models.DocumentListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	docs, total, err := s.documentRepo.List(ownerID, docType, status, limit, offset)
	if err != nil {
		return nil, err
	}

	if docs == nil {
		docs = []models.DocumentRecord{}
	}

	return &models.DocumentListResponse{
		Items: docs,
		Total: total,
	}, nil
}

// Update aplica una actualización parcial al documento
func (s *DocumentService) Update(ownerID, id uuid.UUID, req *models.UpdateDocumentRequest) (*models.DocumentRecord, error) {
	return s.documentRepo.Update(ownerID, id, req)
}

// Delete elimina el documento y su artefacto almacenado, si lo hay
func (s *DocumentService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	doc, err := s.documentRepo.GetByID(ownerID, id)
	if err != nil {
		return err
	}

	if doc.FilePath != nil && s.storage != nil {
		if err := s.storage.DeleteFile(ctx, *doc.FilePath); err != nil {
			s.logger.WithError(err).WithField("file", *doc.FilePath).Warn("Could not delete stored file")
		}
	}

	return s.documentRepo.Delete(ownerID, id)
}

// DownloadFile descarga el artefacto asociado al documento
func (s *DocumentService) DownloadFile(ctx context.Context, ownerID, id uuid.UUID) ([]byte, string, error) {
	if s.storage == nil {
		return nil, "", fmt.Errorf("storage is not configured")
	}

	doc, err := s.documentRepo.GetByID(ownerID, id)
	if err != nil {
		return nil, "", err
	}
	if doc.FilePath == nil || *doc.FilePath == "" {
		return nil, "", fmt.Errorf("document has no generated file")
	}

	data, err := s.storage.DownloadFile(ctx, *doc.FilePath)
	if err != nil {
		return nil, "", err
	}

	fileName := fmt.Sprintf("documento-%s.pdf", doc.ID)
	return data, fileName, nil
}
