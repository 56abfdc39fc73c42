package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DocumentType representa el tipo de documento almacenado
type DocumentType string

const (
	DocumentTypeInvoice  DocumentType = "invoice"
	DocumentTypeContract DocumentType = "contract"
	DocumentTypeLegal    DocumentType = "legal"
)

// DocumentStatus representa el estado del documento
type DocumentStatus string

const (
	DocumentStatusDraft     DocumentStatus = "draft"
	DocumentStatusPending   DocumentStatus = "pending"
	DocumentStatusCompleted DocumentStatus = "completed"
	DocumentStatusCancelled DocumentStatus = "cancelled"
)

// DocumentRecord representa un registro genérico de documento.
// El core solo provee el payload JSON y lo lee de vuelta sin cambios;
// el control de acceso y la mecánica de almacenamiento quedan fuera.
type DocumentRecord struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	OwnerID     uuid.UUID       `json:"user_id" db:"user_id"`
	Type        DocumentType    `json:"type" db:"type"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	Status      DocumentStatus  `json:"status" db:"status"`
	Data        json.RawMessage `json:"data" db:"data"`
	FilePath    *string         `json:"file_path,omitempty" db:"file_path"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// CreateDocumentRequest representa el request para crear un documento
type CreateDocumentRequest struct {
	Type        DocumentType    `json:"type" binding:"required,oneof=invoice contract legal"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      DocumentStatus  `json:"status"`
	Data        json.RawMessage `json:"data"`
}

// UpdateDocumentRequest representa el request para actualizar un documento.
// Los campos nil no se tocan.
type UpdateDocumentRequest struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Status      *DocumentStatus `json:"status,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
}

// DocumentListResponse representa la respuesta del listado de documentos
type DocumentListResponse struct {
	Items []DocumentRecord `json:"items"`
	Total int              `json:"total"`
}
