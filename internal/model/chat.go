package model

import "time"

// MessageRole identifies who produced a chat message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// ChatMessage is a single turn entry in a session's history.
type ChatMessage struct {
	ID        string      `json:"id"`
	SessionID string      `json:"session_id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// PropertySummary is one row of the property table the assistant service
// may attach to a reply.
type PropertySummary struct {
	Address     string `json:"address"`
	Price       string `json:"price"`
	Years       string `json:"years"`
	FloorPlan   string `json:"floor_plan"`
	StationInfo string `json:"station_info"`
	URL         string `json:"url,omitempty"`
}

// AssistantRequest is the request body sent to the conversational service.
type AssistantRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// AssistantResponse is the conversational service's reply.
type AssistantResponse struct {
	SessionID     string            `json:"session_id"`
	MessageID     string            `json:"message_id"`
	ResponseText  string            `json:"response_text"`
	AgentUsed     string            `json:"agent_used,omitempty"`
	PropertyTable []PropertySummary `json:"property_table,omitempty"`
}

// ChatRequest is one inbound turn from the chat UI.
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the combined result of one turn: the assistant reply
// plus the session's updated filter state and count snapshot.
type ChatResponse struct {
	MessageID     string            `json:"message_id"`
	SessionID     string            `json:"session_id"`
	Response      string            `json:"response"`
	Timestamp     time.Time         `json:"timestamp"`
	AgentUsed     string            `json:"agent_used,omitempty"`
	PropertyTable []PropertySummary `json:"property_table,omitempty"`
	Filters       FilterState       `json:"filters"`
	Count         *CountSnapshot    `json:"count,omitempty"`
}

// FileType classifies an uploaded file by extension.
type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypePDF   FileType = "pdf"
	FileTypeOther FileType = "other"
)

// FileUploadResponse describes an accepted upload.
type FileUploadResponse struct {
	FileID          string    `json:"file_id"`
	Filename        string    `json:"filename"`
	FileType        FileType  `json:"file_type"`
	FileSize        int64     `json:"file_size"`
	UploadTimestamp time.Time `json:"upload_timestamp"`
	SessionID       string    `json:"session_id"`
}

// SessionSummary is one row of the session listing endpoint.
type SessionSummary struct {
	SessionID    string    `json:"session_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	MessageCount int       `json:"message_count"`
}
