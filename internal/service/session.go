package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"sumaichat/internal/geo"
	"sumaichat/internal/model"
)

// Session holds everything one conversation owns: turn history, the
// running filter state, the displayed count snapshot and the sequence
// counters that keep stale count responses from overwriting fresh ones.
// State is session-scoped and volatile; nothing here is ever persisted
// or shared across sessions.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu              sync.Mutex
	lastActivity    time.Time
	messages        []model.ChatMessage
	filter          model.FilterState
	count           *model.CountSnapshot
	remoteSessionID string
	nextSeq         uint64
	lastAppliedSeq  uint64
}

// AppendMessage records a turn entry and returns it.
func (s *Session) AppendMessage(role model.MessageRole, content string) model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := model.ChatMessage{
		ID:        uuid.NewString(),
		SessionID: s.ID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	s.messages = append(s.messages, msg)
	s.lastActivity = msg.Timestamp
	return msg
}

// Messages returns a copy of the turn history.
func (s *Session) Messages() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// ReduceMessage runs the extraction pipeline against the current filter
// state atomically. When the message carried a reset or area signal the
// new state is installed and a count-query sequence number is allocated;
// sequence numbers are strictly increasing per session across all turns.
// On NoMatch the state is untouched and the returned sequence is zero.
func (s *Session) ReduceMessage(message string) (geo.Extraction, model.FilterState, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ex, next := geo.Apply(message, s.filter)
	if ex.Kind == geo.NoMatch {
		return ex, s.filter, 0
	}
	s.filter = next
	s.nextSeq++
	return ex, s.filter, s.nextSeq
}

// MergeConstraints installs price and room-type constraints coming from
// outside the extraction engine. The area is never touched here, and a
// nil argument leaves the corresponding constraint as-is.
func (s *Session) MergeConstraints(minPrice, maxPrice *int, roomType *string) model.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if minPrice != nil {
		s.filter.MinPrice = minPrice
	}
	if maxPrice != nil {
		s.filter.MaxPrice = maxPrice
	}
	if roomType != nil {
		s.filter.RoomType = roomType
	}
	return s.filter
}

// Filter returns the current filter state.
func (s *Session) Filter() model.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// ApplyCount installs a count response as the session's snapshot, unless a
// response from a later request already landed. Stale responses are
// discarded silently; the caller gets false only so it can log.
func (s *Session) ApplyCount(seq uint64, resp *model.CountResponse) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.lastAppliedSeq {
		return false
	}
	s.count = &model.CountSnapshot{Count: resp.Count, Filters: resp.Filters, Seq: seq}
	s.lastAppliedSeq = seq
	return true
}

// CountSnapshot returns the last applied count, or nil when no count query
// has succeeded yet.
func (s *Session) CountSnapshot() *model.CountSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.count == nil {
		return nil
	}
	snapshot := *s.count
	return &snapshot
}

// RemoteSessionID returns the assistant-side session identifier, if any.
func (s *Session) RemoteSessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remoteSessionID
}

// SetRemoteSessionID records the assistant-side session identifier.
func (s *Session) SetRemoteSessionID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remoteSessionID = id
}

// Summary returns the listing row for this session.
func (s *Session) Summary() model.SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return model.SessionSummary{
		SessionID:    s.ID,
		CreatedAt:    s.CreatedAt,
		LastActivity: s.lastActivity,
		MessageCount: len(s.messages),
	}
}

// SessionStore is the in-memory registry of active sessions.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session with an empty filter state.
func (st *SessionStore) Create() *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := time.Now()
	sess := &Session{
		ID:           uuid.NewString(),
		CreatedAt:    now,
		lastActivity: now,
	}
	st.sessions[sess.ID] = sess
	return sess
}

// Get returns the session with the given id, or nil.
func (st *SessionStore) Get(id string) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[id]
}

// GetOrCreate returns the session with the given id, creating a fresh one
// when the id is empty or unknown.
func (st *SessionStore) GetOrCreate(id string) *Session {
	if id != "" {
		if sess := st.Get(id); sess != nil {
			return sess
		}
	}
	return st.Create()
}

// List returns summaries of all active sessions.
func (st *SessionStore) List() []model.SessionSummary {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]model.SessionSummary, 0, len(st.sessions))
	for _, sess := range st.sessions {
		out = append(out, sess.Summary())
	}
	return out
}
