package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"streamforms/internal/apperrors"
	"streamforms/internal/models"
)

type StreamRepository interface {
	Create(stream *models.Stream) error
	FindByID(id uint) (*models.Stream, error)
	FindAll() ([]models.Stream, error)
	FindActive() ([]models.Stream, error)
	Update(stream *models.Stream) error
	Delete(id uint) error
}

type streamRepository struct {
	db *gorm.DB
}

func NewStreamRepository(db *gorm.DB) StreamRepository {
	return &streamRepository{db: db}
}

// Create implements StreamRepository.
func (r *streamRepository) Create(stream *models.Stream) error {
	if err := r.db.Create(stream).Error; err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// FindByID implements StreamRepository.
func (r *streamRepository) FindByID(id uint) (*models.Stream, error) {
	var stream models.Stream
	if err := r.db.Where("id = ?", id).First(&stream).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("stream %d: %w", id, apperrors.ErrNotFound)
		}

		return nil, fmt.Errorf("failed to find stream: %w", err)
	}

	return &stream, nil
}

// FindAll returns every stream, newest first.
func (r *streamRepository) FindAll() ([]models.Stream, error) {
	var streams []models.Stream
	if err := r.db.Order("created_at desc").Find(&streams).Error; err != nil {
		return nil, fmt.Errorf("failed to list streams: %w", err)
	}

	return streams, nil
}

// FindActive returns streams flagged active, newest first.
func (r *streamRepository) FindActive() ([]models.Stream, error) {
	var streams []models.Stream
	if err := r.db.Where("is_active = ?", true).Order("created_at desc").Find(&streams).Error; err != nil {
		return nil, fmt.Errorf("failed to list active streams: %w", err)
	}

	return streams, nil
}

// Update implements StreamRepository.
func (r *streamRepository) Update(stream *models.Stream) error {
	if err := r.db.Save(stream).Error; err != nil {
		return fmt.Errorf("failed to update stream: %w", err)
	}

	return nil
}

// Delete implements StreamRepository.
func (r *streamRepository) Delete(id uint) error {
	result := r.db.Where("id = ?", id).Delete(&models.Stream{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete stream: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("stream %d: %w", id, apperrors.ErrNotFound)
	}

	return nil
}
