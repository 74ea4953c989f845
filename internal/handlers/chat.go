package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/tarostudio/portal-api/internal/errors"
	"github.com/tarostudio/portal-api/internal/services"
)

// ChatHandler powers the public lead-capture chat widget.
type ChatHandler struct {
	chatService *services.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// Message answers a visitor message with a canned or AI response.
func (h *ChatHandler) Message(c *gin.Context) {
	type ChatRequest struct {
		Message string `json:"message" binding:"required"`
		Name    string `json:"name"`
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "A message is required")
		return
	}

	reply, err := h.chatService.HandleMessage(c.Request.Context(), services.ChatInput{
		Message: req.Message,
		Name:    req.Name,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to process message")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response":      reply.Response,
		"lead_captured": reply.LeadCaptured,
	})
}
