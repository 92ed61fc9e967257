package service

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"sumaichat/internal/model"
)

// FileStore keeps metadata for files uploaded during a session. Contents
// are not persisted; only the bookkeeping needed to reference an upload
// from a later turn is held, in memory, for the session's lifetime.
type FileStore struct {
	mu    sync.RWMutex
	files map[string]model.FileUploadResponse
}

// NewFileStore creates an empty file store
func NewFileStore() *FileStore {
	return &FileStore{
		files: make(map[string]model.FileUploadResponse),
	}
}

// Save records an upload and returns its metadata.
func (f *FileStore) Save(filename string, size int64, sessionID string) model.FileUploadResponse {
	f.mu.Lock()
	defer f.mu.Unlock()

	info := model.FileUploadResponse{
		FileID:          uuid.NewString(),
		Filename:        filename,
		FileType:        detectFileType(filename),
		FileSize:        size,
		UploadTimestamp: time.Now(),
		SessionID:       sessionID,
	}
	f.files[info.FileID] = info
	return info
}

// Get returns the metadata for an upload, if known.
func (f *FileStore) Get(fileID string) (model.FileUploadResponse, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	info, ok := f.files[fileID]
	return info, ok
}

func detectFileType(filename string) model.FileType {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return model.FileTypeOther
	}
	switch strings.ToLower(filename[idx+1:]) {
	case "jpg", "jpeg", "png", "gif", "bmp":
		return model.FileTypeImage
	case "pdf":
		return model.FileTypePDF
	default:
		return model.FileTypeOther
	}
}
