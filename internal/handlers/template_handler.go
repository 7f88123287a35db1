package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"streamforms/internal/models"
	"streamforms/internal/repositories"
	"streamforms/internal/services"
)

type TemplateHandler struct {
	templateRepo    repositories.TemplateRepository
	templateService services.TemplateService
	storageService  services.StorageService
	maxFileSize     int64
}

func NewTemplateHandler(
	templateRepo repositories.TemplateRepository,
	templateService services.TemplateService,
	storageService services.StorageService,
	maxFileSize int64,
) *TemplateHandler {
	return &TemplateHandler{
		templateRepo:    templateRepo,
		templateService: templateService,
		storageService:  storageService,
		maxFileSize:     maxFileSize,
	}
}

// HandleUpload stores an uploaded .docx, creates the template record and
// runs the initial schema extraction. A failed extraction rolls back the
// record and the stored file.
func (h *TemplateHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file provided. Upload a .docx as 'file'.",
		})
	}

	if fileHeader.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename, filePath, err := h.storageService.SaveFile(fileHeader)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save template file: %v", err),
		})
	}

	name := c.FormValue("name")
	if name == "" {
		name = strings.TrimSuffix(fileHeader.Filename, ".docx")
	}

	template := models.Template{
		ID:               uuid.New(),
		Name:             name,
		Filename:         filename,
		OriginalFileName: fileHeader.Filename,
		FilePath:         filePath,
		Fields:           models.JSONMap{},
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.templateRepo.Create(&template); err != nil {
		h.storageService.DeleteFile(filename)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save template record: %v", err),
		})
	}

	refreshed, err := h.templateService.RefreshSchema(template.ID)
	if err != nil {
		// Roll back: a template whose file cannot be parsed is useless.
		h.templateRepo.Delete(template.ID)
		h.storageService.DeleteFile(filename)
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(refreshed)
}

func (h *TemplateHandler) HandleList(c *fiber.Ctx) error {
	templates, err := h.templateRepo.FindAll()
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(templates)
}

func (h *TemplateHandler) HandleGet(c *fiber.Ctx) error {
	id, err := parseTemplateID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid template ID format",
		})
	}

	template, err := h.templateRepo.FindByID(id)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(template)
}

// HandleUpdate renames the template, changes the key field, or replaces the
// underlying file (which re-runs extraction).
func (h *TemplateHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := parseTemplateID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid template ID format",
		})
	}

	template, err := h.templateRepo.FindByID(id)
	if err != nil {
		return errorResponse(c, err)
	}

	// A multipart request replaces the file; a JSON body updates metadata.
	if fileHeader, ferr := c.FormFile("file"); ferr == nil {
		if fileHeader.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize),
			})
		}

		filename, filePath, err := h.storageService.SaveFile(fileHeader)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to save template file: %v", err),
			})
		}

		oldFilename := template.Filename
		if err := h.templateRepo.UpdateFile(id, filename, fileHeader.Filename, filePath); err != nil {
			h.storageService.DeleteFile(filename)
			return errorResponse(c, err)
		}
		if oldFilename != "" {
			h.storageService.DeleteFile(oldFilename)
		}

		refreshed, err := h.templateService.RefreshSchema(id)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(refreshed)
	}

	var req models.TemplateUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name != nil && *req.Name != "" {
		if err := h.templateRepo.UpdateName(id, *req.Name); err != nil {
			return errorResponse(c, err)
		}
		template.Name = *req.Name
	}

	if req.KeyField != nil {
		updated, err := h.templateService.SetKeyField(id, req.KeyField)
		if err != nil {
			return errorResponse(c, err)
		}
		template.KeyField = updated.KeyField
	}

	return c.JSON(template)
}

func (h *TemplateHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := parseTemplateID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid template ID format",
		})
	}

	template, err := h.templateRepo.FindByID(id)
	if err != nil {
		return errorResponse(c, err)
	}

	if err := h.templateRepo.Delete(id); err != nil {
		return errorResponse(c, err)
	}

	if template.Filename != "" {
		h.storageService.DeleteFile(template.Filename)
	}

	return c.JSON(fiber.Map{
		"message": "Template deleted",
	})
}

func (h *TemplateHandler) HandleRefresh(c *fiber.Ctx) error {
	id, err := parseTemplateID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid template ID format",
		})
	}

	template, err := h.templateService.RefreshSchema(id)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(template)
}

// HandleRender fills the template with ad-hoc values and streams the result.
func (h *TemplateHandler) HandleRender(c *fiber.Ctx) error {
	id, err := parseTemplateID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid template ID format",
		})
	}

	var req models.RenderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	buf, template, err := h.templateService.Render(id, req.FieldValues)
	if err != nil {
		return errorResponse(c, err)
	}

	return sendDocx(c, buf.Bytes(), fmt.Sprintf("%s.docx", template.Name))
}

func parseTemplateID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

func sendDocx(c *fiber.Ctx, data []byte, filename string) error {
	c.Set(fiber.HeaderContentType, services.DocxMIMEType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}
