package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sumaichat/internal/service"
)

// UploadHandler handles file upload HTTP requests
type UploadHandler struct {
	files    *service.FileStore
	sessions *service.SessionStore
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(files *service.FileStore, sessions *service.SessionStore) *UploadHandler {
	return &UploadHandler{
		files:    files,
		sessions: sessions,
	}
}

// Upload handles POST /api/v1/upload
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	// An unknown or missing session id starts a fresh session, same as /chat.
	sess := h.sessions.GetOrCreate(c.PostForm("session_id"))

	info := h.files.Save(file.Filename, file.Size, sess.ID)
	c.JSON(http.StatusOK, info)
}
