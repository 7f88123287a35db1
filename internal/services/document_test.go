package services

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"streamforms/internal/apperrors"
	"streamforms/internal/config"
	"streamforms/internal/models"
	"streamforms/internal/repositories"
	"streamforms/pkg/logger"
)

func setupDocumentService(t *testing.T) (DocumentService, TemplateService, repositories.TemplateRepository, string) {
	t.Helper()
	logger.Init("development")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Template{}, &models.GeneratedDocument{}))

	templateRepo := repositories.NewTemplateRepository(db)
	documentRepo := repositories.NewDocumentRepository(db)
	templateSvc := NewTemplateService(templateRepo, NewPlaceholderService(), NewFillerService(config.EngineNaive))
	documentSvc := NewDocumentService(documentRepo, templateRepo, templateSvc)

	return documentSvc, templateSvc, templateRepo, t.TempDir()
}

func TestCreateDocumentCachesKeyFieldValue(t *testing.T) {
	docSvc, tplSvc, repo, dir := setupDocumentService(t)
	path := filepath.Join(dir, "form.docx")
	writeDocxFile(t, path, "Client: [CLIENT], Qty: [QUANTITY]")
	template := createTemplate(t, repo, path)

	_, err := tplSvc.RefreshSchema(template.ID)
	require.NoError(t, err)

	document, err := docSvc.CreateDocument(template.ID, map[string]string{
		"CLIENT":   "Acme",
		"QUANTITY": "12",
	}, nil)
	require.NoError(t, err)

	// CLIENT is the smallest sorted key, so it became the key field.
	assert.Equal(t, "Acme", document.KeyFieldValue)
	assert.Equal(t, "Acme", document.DisplayName())
}

func TestCreateDocumentMissingTemplate(t *testing.T) {
	docSvc, _, _, _ := setupDocumentService(t)

	_, err := docSvc.CreateDocument(uuid.New(), map[string]string{"A": "1"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRenderDocumentUsesCurrentTemplateFile(t *testing.T) {
	docSvc, tplSvc, repo, dir := setupDocumentService(t)
	path := filepath.Join(dir, "form.docx")
	writeDocxFile(t, path, "Hello [NAME]")
	template := createTemplate(t, repo, path)

	_, err := tplSvc.RefreshSchema(template.ID)
	require.NoError(t, err)

	document, err := docSvc.CreateDocument(template.ID, map[string]string{"NAME": "Alice"}, nil)
	require.NoError(t, err)

	buf, _, _, err := docSvc.RenderDocument(document.ID)
	require.NoError(t, err)
	assert.Contains(t, collectDocumentText(parseDocxBuffer(t, buf)), "Hello Alice")

	// Editing the template file changes later renders of the same document.
	writeDocxFile(t, path, "Goodbye [NAME]")
	buf, _, _, err = docSvc.RenderDocument(document.ID)
	require.NoError(t, err)
	assert.Contains(t, collectDocumentText(parseDocxBuffer(t, buf)), "Goodbye Alice")
}
