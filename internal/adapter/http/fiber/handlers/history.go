package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/reelvoice/reelvoice/internal/ports"
)

type HistoryHandler struct {
	history ports.HistoryService
	log     *zap.Logger
}

func NewHistoryHandler(history ports.HistoryService, log *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		log:     log,
	}
}

func (h *HistoryHandler) GetTranscript(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	records, err := h.history.Transcript(c.Context(), sessionID)
	if err != nil {
		h.log.Error("Failed to load transcript", zap.Error(err),
			zap.String("session_id", sessionID))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load transcript"})
	}

	return c.JSON(fiber.Map{
		"session_id": sessionID,
		"turns":      records,
	})
}
