package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/reelvoice/reelvoice/internal/adapter/alexa"
	"github.com/reelvoice/reelvoice/internal/ports"
)

type AlexaHandler struct {
	dialogue      ports.DialogueService
	applicationID string
	log           *zap.Logger
}

// NewAlexaHandler builds the webhook handler. applicationID is the skill ID
// callers must present; an empty value disables the check.
func NewAlexaHandler(dialogue ports.DialogueService, applicationID string, log *zap.Logger) *AlexaHandler {
	return &AlexaHandler{
		dialogue:      dialogue,
		applicationID: applicationID,
		log:           log,
	}
}

func (h *AlexaHandler) HandleWebhook(c *fiber.Ctx) error {
	var env alexa.RequestEnvelope
	if err := c.BodyParser(&env); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	if h.applicationID != "" && env.Session.Application.ApplicationID != h.applicationID {
		h.log.Warn("Rejected webhook call from unknown application",
			zap.String("application_id", env.Session.Application.ApplicationID))
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Unknown application"})
	}

	switch env.Request.Type {
	case alexa.RequestTypeLaunch:
		return c.JSON(alexa.Welcome())
	case alexa.RequestTypeSessionEnded:
		return c.SendStatus(fiber.StatusOK)
	case alexa.RequestTypeIntent:
		return h.handleTurn(c, &env)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unsupported request type"})
	}
}

func (h *AlexaHandler) handleTurn(c *fiber.Ctx, env *alexa.RequestEnvelope) error {
	req, err := env.TurnRequest()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session attributes"})
	}

	result, err := h.dialogue.HandleTurn(c.Context(), env.Session.SessionID, req)
	if err != nil {
		h.log.Error("Failed to handle dialogue turn", zap.Error(err),
			zap.String("session_id", env.Session.SessionID))
		return c.Status(fiber.StatusBadGateway).JSON(alexa.Apology())
	}

	return c.JSON(alexa.NewResponse(result))
}
