package services

import (
	"bytes"
	"time"

	"github.com/google/uuid"

	"streamforms/internal/models"
	"streamforms/internal/repositories"
)

// DocumentService creates generated-document records and renders their
// output on demand against the parent template's current file.
type DocumentService interface {
	CreateDocument(templateID uuid.UUID, values map[string]string, createdBy *string) (*models.GeneratedDocument, error)
	RenderDocument(id uuid.UUID) (*bytes.Buffer, *models.GeneratedDocument, *models.Template, error)
}

type documentService struct {
	documentRepo repositories.DocumentRepository
	templateRepo repositories.TemplateRepository
	templates    TemplateService
}

func NewDocumentService(
	documentRepo repositories.DocumentRepository,
	templateRepo repositories.TemplateRepository,
	templates TemplateService,
) DocumentService {
	return &documentService{
		documentRepo: documentRepo,
		templateRepo: templateRepo,
		templates:    templates,
	}
}

// CreateDocument stores a value mapping against a template and caches the
// key field's value for display. Values for keys outside the template schema
// are kept but never substituted.
func (s *documentService) CreateDocument(templateID uuid.UUID, values map[string]string, createdBy *string) (*models.GeneratedDocument, error) {
	template, err := s.templateRepo.FindByID(templateID)
	if err != nil {
		return nil, err
	}

	if values == nil {
		values = map[string]string{}
	}

	keyFieldValue := ""
	if template.KeyField != nil {
		keyFieldValue = values[*template.KeyField]
	}

	document := &models.GeneratedDocument{
		ID:            uuid.New(),
		TemplateID:    template.ID,
		CreatedBy:     createdBy,
		FieldValues:   models.JSONMap(values),
		KeyFieldValue: keyFieldValue,
		CreatedAt:     time.Now(),
	}

	if err := s.documentRepo.Create(document); err != nil {
		return nil, err
	}

	return document, nil
}

// RenderDocument regenerates the binary output from the document's stored
// values and the template's current file and schema.
func (s *documentService) RenderDocument(id uuid.UUID) (*bytes.Buffer, *models.GeneratedDocument, *models.Template, error) {
	document, err := s.documentRepo.FindByID(id)
	if err != nil {
		return nil, nil, nil, err
	}

	buf, template, err := s.templates.Render(document.TemplateID, document.FieldValues)
	if err != nil {
		return nil, nil, nil, err
	}

	return buf, document, template, nil
}
