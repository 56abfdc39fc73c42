package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yoquelvisdev08/factura/internal/models"
)

// ErrDocumentNotFound se reporta cuando el documento no existe o no
// pertenece al usuario
var ErrDocumentNotFound = fmt.Errorf("document not found")

// DocumentRepository maneja las operaciones de base de datos para documentos
type DocumentRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewDocumentRepository crea una nueva instancia del repositorio
func NewDocumentRepository(db *DB, logger *logrus.Logger) *DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserta un nuevo documento
func (r *DocumentRepository) Create(doc *models.DocumentRecord) error {
	query := `
		INSERT INTO documents (
			id, user_id, type, title, description, status, data, file_path,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecWithTimeout(query,
		doc.ID, doc.OwnerID, doc.Type, doc.Title, doc.Description,
		doc.Status, doc.Data, doc.FilePath, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting document: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"document_id": doc.ID,
		"type":        doc.Type,
	}).Info("Document created")

	return nil
}

// GetByID obtiene un documento del usuario por ID
func (r *DocumentRepository) GetByID(ownerID, id uuid.UUID) (*models.DocumentRecord, error) {
	query := `
		SELECT id, user_id, type, title, description, status, data, file_path,
			created_at, updated_at
		FROM documents
		WHERE id = $1 AND user_id = $2
	`

	var doc models.DocumentRecord
	err := r.db.QueryRowWithTimeout(query, id, ownerID).Scan(
		&doc.ID, &doc.OwnerID, &doc.Type, &doc.Title, &doc.Description,
		&doc.Status, &doc.Data, &doc.FilePath, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("error querying document: %w", err)
	}

	return &doc, nil
}

// List obtiene los documentos del usuario, filtrables por tipo y estado
func (r *DocumentRepository) List(ownerID uuid.UUID, docType models.DocumentType, status models.DocumentStatus, limit, offset int) ([]models.DocumentRecord, int, error) {
	conditions := []string{"user_id = $1"}
	args := []interface{}{ownerID}

	if docType != "" {
		args = append(args, docType)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if status != "" {
		args = append(args, status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM documents WHERE " + where
	if err := r.db.QueryRowWithTimeout(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting documents: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT id, user_id, type, title, description, status, data, file_path,
			created_at, updated_at
		FROM documents
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.QueryWithTimeout(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying documents: %w", err)
	}
	defer rows.Close()

	var docs []models.DocumentRecord
	for rows.Next() {
		var doc models.DocumentRecord
		if err := rows.Scan(
			&doc.ID, &doc.OwnerID, &doc.Type, &doc.Title, &doc.Description,
			&doc.Status, &doc.Data, &doc.FilePath, &doc.CreatedAt, &doc.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating documents: %w", err)
	}

	return docs, total, nil
}

// Update aplica una actualización parcial; los campos nil no se tocan
func (r *DocumentRepository) Update(ownerID, id uuid.UUID, update *models.UpdateDocumentRequest) (*models.DocumentRecord, error) {
	sets := []string{}
	args := []interface{}{}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		addSet("title", *update.Title)
	}
	if update.Description != nil {
		addSet("description", *update.Description)
	}
	if update.Status != nil {
		addSet("status", *update.Status)
	}
	if update.Data != nil {
		addSet("data", update.Data)
	}
	addSet("updated_at", time.Now())

	args = append(args, id, ownerID)
	query := fmt.Sprintf(
		"UPDATE documents SET %s WHERE id = $%d AND user_id = $%d",
		strings.Join(sets, ", "), len(args)-1, len(args),
	)

	// La actualización y la relectura van en la misma transacción para que
	// el documento retornado sea exactamente el que quedó escrito
	var doc models.DocumentRecord
	err := r.db.WithTransaction(func(tx *sql.Tx) error {
		result, err := tx.Exec(query, args...)
		if err != nil {
			return fmt.Errorf("error updating document: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("error checking update result: %w", err)
		}
		if affected == 0 {
			return ErrDocumentNotFound
		}

		selectQuery := `
			SELECT id, user_id, type, title, description, status, data, file_path,
				created_at, updated_at
			FROM documents
			WHERE id = $1 AND user_id = $2
		`
		return tx.QueryRow(selectQuery, id, ownerID).Scan(
			&doc.ID, &doc.OwnerID, &doc.Type, &doc.Title, &doc.Description,
			&doc.Status, &doc.Data, &doc.FilePath, &doc.CreatedAt, &doc.UpdatedAt,
		)
	})
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// SetFilePath asocia la ruta del artefacto generado y marca el documento
// como completado
func (r *DocumentRepository) SetFilePath(ownerID, id uuid.UUID, filePath string) error {
	query := `
		UPDATE documents
		SET file_path = $1, status = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5
	`

	result, err := r.db.ExecWithTimeout(query, filePath, models.DocumentStatusCompleted, time.Now(), id, ownerID)
	if err != nil {
		return fmt.Errorf("error setting document file path: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking update result: %w", err)
	}
	if affected == 0 {
		return ErrDocumentNotFound
	}

	return nil
}

// Delete elimina un documento del usuario
func (r *DocumentRepository) Delete(ownerID, id uuid.UUID) error {
	result, err := r.db.ExecWithTimeout("DELETE FROM documents WHERE id = $1 AND user_id = $2", id, ownerID)
	if err != nil {
		return fmt.Errorf("error deleting document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrDocumentNotFound
	}

	r.logger.WithField("document_id", id).Info("Document deleted")

	return nil
}
