package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"streamforms/internal/models"
	"streamforms/internal/repositories"
	"streamforms/internal/services"
)

type DocumentHandler struct {
	documentRepo    repositories.DocumentRepository
	documentService services.DocumentService
}

func NewDocumentHandler(
	documentRepo repositories.DocumentRepository,
	documentService services.DocumentService,
) *DocumentHandler {
	return &DocumentHandler{
		documentRepo:    documentRepo,
		documentService: documentService,
	}
}

func (h *DocumentHandler) HandleCreate(c *fiber.Ctx) error {
	templateID, err := parseTemplateID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid template ID format",
		})
	}

	var req models.DocumentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	document, err := h.documentService.CreateDocument(templateID, req.FieldValues, req.CreatedBy)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(document)
}

func (h *DocumentHandler) HandleListByTemplate(c *fiber.Ctx) error {
	templateID, err := parseTemplateID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid template ID format",
		})
	}

	documents, err := h.documentRepo.FindByTemplate(templateID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(documents)
}

func (h *DocumentHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document ID format",
		})
	}

	document, err := h.documentRepo.FindByID(id)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(document)
}

func (h *DocumentHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document ID format",
		})
	}

	if err := h.documentRepo.Delete(id); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Document deleted",
	})
}

// HandleRender regenerates the document from its stored values against the
// template's current file and streams the result.
func (h *DocumentHandler) HandleRender(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document ID format",
		})
	}

	buf, document, template, err := h.documentService.RenderDocument(id)
	if err != nil {
		return errorResponse(c, err)
	}

	filename := fmt.Sprintf("%s_%s.docx", template.Name, document.DisplayName())
	return sendDocx(c, buf.Bytes(), filename)
}
