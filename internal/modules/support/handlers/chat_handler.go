package handlers

import (
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/services"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/apperr"
	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat godoc
// @Summary Send a chat turn
// @Description Forward the widget history to the assistant and return its reply. A diagnostic is returned once the assistant has enough details.
// @Tags Widget
// @Accept json
// @Produce json
// @Param request body services.ChatRequest true "Chat turn"
// @Success 200 {object} services.ChatResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/chat [post]
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req services.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	resp, err := h.chatService.Chat(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}
