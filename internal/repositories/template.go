package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"streamforms/internal/apperrors"
	"streamforms/internal/models"
)

type TemplateRepository interface {
	Create(template *models.Template) error
	FindByID(id uuid.UUID) (*models.Template, error)
	FindAll() ([]models.Template, error)
	UpdateSchema(id uuid.UUID, fields models.JSONMap, keyField *string) error
	UpdateName(id uuid.UUID, name string) error
	UpdateKeyField(id uuid.UUID, keyField *string) error
	UpdateFile(id uuid.UUID, filename, originalName, filePath string) error
	Delete(id uuid.UUID) error
}

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

// Create implements TemplateRepository.
func (r *templateRepository) Create(template *models.Template) error {
	if err := r.db.Create(template).Error; err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}

	return nil
}

// FindByID implements TemplateRepository.
func (r *templateRepository) FindByID(id uuid.UUID) (*models.Template, error) {
	var template models.Template
	if err := r.db.Where("id = ?", id).First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("template %s: %w", id, apperrors.ErrNotFound)
		}

		return nil, fmt.Errorf("failed to find template: %w", err)
	}

	return &template, nil
}

// FindAll implements TemplateRepository.
func (r *templateRepository) FindAll() ([]models.Template, error) {
	var templates []models.Template
	if err := r.db.Order("created_at desc").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	return templates, nil
}

// UpdateSchema persists the extracted field schema and the key field as one
// atomic update, bumping updated_at alongside them.
func (r *templateRepository) UpdateSchema(id uuid.UUID, fields models.JSONMap, keyField *string) error {
	updates := map[string]interface{}{
		"fields":     fields,
		"key_field":  keyField,
		"updated_at": time.Now(),
	}

	if err := r.db.Model(&models.Template{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update template schema: %w", err)
	}

	return nil
}

// UpdateName implements TemplateRepository.
func (r *templateRepository) UpdateName(id uuid.UUID, name string) error {
	updates := map[string]interface{}{
		"name":       name,
		"updated_at": time.Now(),
	}

	if err := r.db.Model(&models.Template{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to rename template: %w", err)
	}

	return nil
}

// UpdateKeyField implements TemplateRepository.
func (r *templateRepository) UpdateKeyField(id uuid.UUID, keyField *string) error {
	updates := map[string]interface{}{
		"key_field":  keyField,
		"updated_at": time.Now(),
	}

	if err := r.db.Model(&models.Template{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update key field: %w", err)
	}

	return nil
}

// UpdateFile implements TemplateRepository.
func (r *templateRepository) UpdateFile(id uuid.UUID, filename, originalName, filePath string) error {
	updates := map[string]interface{}{
		"filename":           filename,
		"original_file_name": originalName,
		"file_path":          filePath,
		"updated_at":         time.Now(),
	}

	if err := r.db.Model(&models.Template{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update template file: %w", err)
	}

	return nil
}

// Delete removes the template and cascades to its generated documents.
func (r *templateRepository) Delete(id uuid.UUID) error {
	template, err := r.FindByID(id)
	if err != nil {
		return err
	}

	if err := r.db.Select("Documents").Delete(template).Error; err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	return nil
}
