package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sumaichat/internal/service"
)

// SessionHandler handles session inspection HTTP requests
type SessionHandler struct {
	sessions *service.SessionStore
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.SessionStore) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
	}
}

// List handles GET /api/v1/sessions
func (h *SessionHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessions": h.sessions.List()})
}

// Messages handles GET /api/v1/chat/:session_id/messages
func (h *SessionHandler) Messages(c *gin.Context) {
	sess := h.sessions.Get(c.Param("session_id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sess.ID,
		"messages":   sess.Messages(),
	})
}

// State handles GET /api/v1/chat/:session_id/state
func (h *SessionHandler) State(c *gin.Context) {
	sess := h.sessions.Get(c.Param("session_id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sess.ID,
		"filters":    sess.Filter(),
		"count":      sess.CountSnapshot(),
	})
}

// constraintsRequest carries price/room-type constraints supplied from
// outside the extraction engine; the area field is deliberately absent.
type constraintsRequest struct {
	MinPrice *int    `json:"min_price"`
	MaxPrice *int    `json:"max_price"`
	RoomType *string `json:"room_type"`
}

// UpdateConstraints handles PUT /api/v1/chat/:session_id/filters
func (h *SessionHandler) UpdateConstraints(c *gin.Context) {
	sess := h.sessions.Get(c.Param("session_id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	var req constraintsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	filters := sess.MergeConstraints(req.MinPrice, req.MaxPrice, req.RoomType)
	c.JSON(http.StatusOK, gin.H{
		"session_id": sess.ID,
		"filters":    filters,
	})
}
