package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sumaichat/internal/model"
	"sumaichat/internal/service"
)

// ChatHandler handles turn-processing HTTP requests
type ChatHandler struct {
	orchestrator *service.Orchestrator
}

// NewChatHandler creates a new chat handler
func NewChatHandler(orchestrator *service.Orchestrator) *ChatHandler {
	return &ChatHandler{
		orchestrator: orchestrator,
	}
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response := h.orchestrator.ProcessTurn(c.Request.Context(), req)
	c.JSON(http.StatusOK, response)
}
