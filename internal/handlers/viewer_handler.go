package handlers

import (
	"github.com/gofiber/fiber/v2"

	"streamforms/internal/repositories"
)

// ViewerHandler serves the server-rendered HLS viewer pages.
type ViewerHandler struct {
	streamRepo repositories.StreamRepository
}

func NewViewerHandler(streamRepo repositories.StreamRepository) *ViewerHandler {
	return &ViewerHandler{
		streamRepo: streamRepo,
	}
}

// HandleIndex lists the active streams.
func (h *ViewerHandler) HandleIndex(c *fiber.Ctx) error {
	streams, err := h.streamRepo.FindActive()
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Render("index", fiber.Map{
		"Title":   "HLS Viewer",
		"Streams": streams,
	})
}

// HandleGate shows the player page for a single stream.
func (h *ViewerHandler) HandleGate(c *fiber.Ctx) error {
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

	return c.Render("gate", fiber.Map{
		"Title":  stream.Name,
		"Stream": stream,
	})
}
