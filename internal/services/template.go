package services

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"streamforms/internal/apperrors"
	"streamforms/internal/models"
	"streamforms/internal/repositories"
	"streamforms/pkg/logger"
)

// TemplateService orchestrates the placeholder extractor, schema builder and
// filler around persisted templates. It owns no algorithm of its own.
type TemplateService interface {
	RefreshSchema(id uuid.UUID) (*models.Template, error)
	SetKeyField(id uuid.UUID, keyField *string) (*models.Template, error)
	Render(id uuid.UUID, values map[string]string) (*bytes.Buffer, *models.Template, error)
}

type templateService struct {
	templateRepo repositories.TemplateRepository
	placeholders PlaceholderService
	filler       FillerService

	// refreshMu serializes RefreshSchema per template id. Renders stay
	// lock-free: they only read the stored file.
	mu        sync.Mutex
	refreshMu map[uuid.UUID]*sync.Mutex
}

func NewTemplateService(
	templateRepo repositories.TemplateRepository,
	placeholders PlaceholderService,
	filler FillerService,
) TemplateService {
	return &templateService{
		templateRepo: templateRepo,
		placeholders: placeholders,
		filler:       filler,
		refreshMu:    make(map[uuid.UUID]*sync.Mutex),
	}
}

// RefreshSchema re-extracts placeholders from the template file and persists
// the derived schema. Idempotent on an unchanged file. An already-set key
// field is never overwritten; when unset, the smallest sorted key becomes
// the default. On any failure the previously stored schema stays intact.
func (s *templateService) RefreshSchema(id uuid.UUID) (*models.Template, error) {
	lock := s.refreshLock(id)
	lock.Lock()
	defer lock.Unlock()

	template, err := s.templateRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	keys, err := s.placeholders.ExtractFromFile(template.FilePath)
	if err != nil {
		return nil, err
	}

	fields := s.placeholders.BuildSchema(keys)
	keyField := s.placeholders.DefaultKeyField(keys, template.KeyField)

	if err := s.templateRepo.UpdateSchema(id, fields, keyField); err != nil {
		return nil, err
	}

	logger.Sugar.Infow("template schema refreshed",
		"template_id", id,
		"fields", len(fields),
	)

	template.Fields = fields
	template.KeyField = keyField
	return template, nil
}

// SetKeyField updates the designated key field after checking it against the
// schema. A nil or empty key field clears the designation.
func (s *templateService) SetKeyField(id uuid.UUID, keyField *string) (*models.Template, error) {
	template, err := s.templateRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if keyField != nil && *keyField != "" {
		if _, ok := template.Fields[*keyField]; !ok {
			return nil, fmt.Errorf("key field %q is not a schema key: %w", *keyField, apperrors.ErrValidation)
		}
	}

	if err := s.templateRepo.UpdateKeyField(id, keyField); err != nil {
		return nil, err
	}

	template.KeyField = keyField
	return template, nil
}

// Render fills the template's current file with the given values.
func (s *templateService) Render(id uuid.UUID, values map[string]string) (*bytes.Buffer, *models.Template, error) {
	template, err := s.templateRepo.FindByID(id)
	if err != nil {
		return nil, nil, err
	}

	if values == nil {
		values = map[string]string{}
	}

	buf, err := s.filler.Fill(template.FilePath, template.SchemaKeys(), values)
	if err != nil {
		return nil, nil, err
	}

	return buf, template, nil
}

func (s *templateService) refreshLock(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.refreshMu[id]
	if !ok {
		lock = &sync.Mutex{}
		s.refreshMu[id] = lock
	}
	return lock
}
