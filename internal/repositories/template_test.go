package repositories

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"streamforms/internal/apperrors"
	"streamforms/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Stream{},
		&models.Template{},
		&models.GeneratedDocument{},
	))

	return db
}

func newTemplate() *models.Template {
	return &models.Template{
		ID:               uuid.New(),
		Name:             "Shipment Form",
		Filename:         "tpl_abc.docx",
		OriginalFileName: "shipment.docx",
		FilePath:         "/uploads/tpl_abc.docx",
		Fields:           models.JSONMap{},
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
}

func TestTemplateCreateAndFind(t *testing.T) {
	repo := NewTemplateRepository(setupTestDB(t))

	template := newTemplate()
	require.NoError(t, repo.Create(template))

	found, err := repo.FindByID(template.ID)
	require.NoError(t, err)
	assert.Equal(t, template.Name, found.Name)
	assert.Equal(t, models.JSONMap{}, found.Fields)
	assert.Nil(t, found.KeyField)
}

func TestTemplateFindByIDNotFound(t *testing.T) {
	repo := NewTemplateRepository(setupTestDB(t))

	_, err := repo.FindByID(uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTemplateUpdateSchemaIsAtomic(t *testing.T) {
	repo := NewTemplateRepository(setupTestDB(t))

	template := newTemplate()
	template.UpdatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Create(template))

	keyField := "CLIENT"
	fields := models.JSONMap{"CLIENT": "Client", "QUANTITY": "Quantity"}
	require.NoError(t, repo.UpdateSchema(template.ID, fields, &keyField))

	found, err := repo.FindByID(template.ID)
	require.NoError(t, err)
	assert.Equal(t, fields, found.Fields)
	require.NotNil(t, found.KeyField)
	assert.Equal(t, "CLIENT", *found.KeyField)
	assert.True(t, found.UpdatedAt.After(template.UpdatedAt), "updated_at should be bumped with the schema")
}

func TestTemplateDeleteCascadesDocuments(t *testing.T) {
	db := setupTestDB(t)
	templateRepo := NewTemplateRepository(db)
	documentRepo := NewDocumentRepository(db)

	template := newTemplate()
	require.NoError(t, templateRepo.Create(template))

	document := &models.GeneratedDocument{
		ID:          uuid.New(),
		TemplateID:  template.ID,
		FieldValues: models.JSONMap{"CLIENT": "Acme"},
		CreatedAt:   time.Now(),
	}
	require.NoError(t, documentRepo.Create(document))

	require.NoError(t, templateRepo.Delete(template.ID))

	_, err := templateRepo.FindByID(template.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = documentRepo.FindByID(document.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDocumentFindByTemplate(t *testing.T) {
	db := setupTestDB(t)
	templateRepo := NewTemplateRepository(db)
	documentRepo := NewDocumentRepository(db)

	template := newTemplate()
	require.NoError(t, templateRepo.Create(template))

	for _, client := range []string{"Acme", "Globex"} {
		require.NoError(t, documentRepo.Create(&models.GeneratedDocument{
			ID:            uuid.New(),
			TemplateID:    template.ID,
			FieldValues:   models.JSONMap{"CLIENT": client},
			KeyFieldValue: client,
			CreatedAt:     time.Now(),
		}))
	}

	documents, err := documentRepo.FindByTemplate(template.ID)
	require.NoError(t, err)
	assert.Len(t, documents, 2)
}

func TestDocumentFieldValuesRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	templateRepo := NewTemplateRepository(db)
	documentRepo := NewDocumentRepository(db)

	template := newTemplate()
	require.NoError(t, templateRepo.Create(template))

	values := models.JSONMap{"CLIENT": "Acme", "NOTE": "rush order"}
	document := &models.GeneratedDocument{
		ID:          uuid.New(),
		TemplateID:  template.ID,
		FieldValues: values,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, documentRepo.Create(document))

	found, err := documentRepo.FindByID(document.ID)
	require.NoError(t, err)
	assert.Equal(t, values, found.FieldValues)
}

func TestDocumentDeleteNotFound(t *testing.T) {
	repo := NewDocumentRepository(setupTestDB(t))

	err := repo.Delete(uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
