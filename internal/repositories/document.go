package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"streamforms/internal/apperrors"
	"streamforms/internal/models"
)

type DocumentRepository interface {
	Create(document *models.GeneratedDocument) error
	FindByID(id uuid.UUID) (*models.GeneratedDocument, error)
	FindByTemplate(templateID uuid.UUID) ([]models.GeneratedDocument, error)
	Delete(id uuid.UUID) error
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Create implements DocumentRepository.
func (r *documentRepository) Create(document *models.GeneratedDocument) error {
	if err := r.db.Create(document).Error; err != nil {
		return fmt.Errorf("failed to create generated document: %w", err)
	}

	return nil
}

// FindByID implements DocumentRepository.
func (r *documentRepository) FindByID(id uuid.UUID) (*models.GeneratedDocument, error) {
	var document models.GeneratedDocument
	if err := r.db.Where("id = ?", id).First(&document).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("generated document %s: %w", id, apperrors.ErrNotFound)
		}

		return nil, fmt.Errorf("failed to find generated document: %w", err)
	}

	return &document, nil
}

// FindByTemplate implements DocumentRepository.
func (r *documentRepository) FindByTemplate(templateID uuid.UUID) ([]models.GeneratedDocument, error) {
	var documents []models.GeneratedDocument
	if err := r.db.Where("template_id = ?", templateID).Order("created_at desc").Find(&documents).Error; err != nil {
		return nil, fmt.Errorf("failed to list generated documents: %w", err)
	}

	return documents, nil
}

// Delete implements DocumentRepository.
func (r *documentRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.GeneratedDocument{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete generated document: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("generated document %s: %w", id, apperrors.ErrNotFound)
	}

	return nil
}
