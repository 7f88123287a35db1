package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"streamforms/internal/models"
	"streamforms/internal/repositories"
)

type StreamHandler struct {
	streamRepo repositories.StreamRepository
}

func NewStreamHandler(streamRepo repositories.StreamRepository) *StreamHandler {
	return &StreamHandler{
		streamRepo: streamRepo,
	}
}

func (h *StreamHandler) HandleList(c *fiber.Ctx) error {
	streams, err := h.streamRepo.FindAll()
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(streams)
}

func (h *StreamHandler) HandleGet(c *fiber.Ctx) error {
	id, err := parseStreamID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid stream ID",
		})
	}

	stream, err := h.streamRepo.FindByID(id)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(stream)
}

func (h *StreamHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.StreamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name == "" || req.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name and url are required",
		})
	}

	stream := models.Stream{
		Name:        req.Name,
		URL:         req.URL,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		stream.IsActive = *req.IsActive
	}

	if err := h.streamRepo.Create(&stream); err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(stream)
}

func (h *StreamHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := parseStreamID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid stream ID",
		})
	}

	stream, err := h.streamRepo.FindByID(id)
	if err != nil {
		return errorResponse(c, err)
	}

	var req models.StreamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name != "" {
		stream.Name = req.Name
	}
	if req.URL != "" {
		stream.URL = req.URL
	}
	if req.Description != nil {
		stream.Description = req.Description
	}
	if req.IsActive != nil {
		stream.IsActive = *req.IsActive
	}

	if err := h.streamRepo.Update(stream); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(stream)
}

func (h *StreamHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := parseStreamID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid stream ID",
		})
	}

	if err := h.streamRepo.Delete(id); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Stream deleted",
	})
}

func parseStreamID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err
}
