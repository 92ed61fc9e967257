package service

import (
	"context"
	"log"
	"sync"

	"sumaichat/internal/geo"
	"sumaichat/internal/model"
)

// assistantFailureReply is appended as a synthetic assistant turn when the
// conversational call fails or returns a malformed body.
const assistantFailureReply = "申し訳ございません。応答の取得中にエラーが発生しました。再度お試しください。"

// Orchestrator sequences one inbound turn: location extraction, filter
// state update, the count query and the conversational call. The two
// network calls run concurrently; the count query is always issued first
// but neither waits on the other's result.
type Orchestrator struct {
	sessions  *SessionStore
	count     *CountClient
	assistant *AssistantClient
}

// NewOrchestrator creates a new turn orchestrator
func NewOrchestrator(sessions *SessionStore, count *CountClient, assistant *AssistantClient) *Orchestrator {
	return &Orchestrator{
		sessions:  sessions,
		count:     count,
		assistant: assistant,
	}
}

// Sessions exposes the session store to the read-only handlers.
func (o *Orchestrator) Sessions() *SessionStore {
	return o.sessions
}

// ProcessTurn handles one user message end to end and returns the combined
// view the UI renders: reply text, property table, the updated filter
// state and the current count snapshot.
//
// Failure containment per turn:
//   - count call fails -> previous snapshot and filter state stay intact,
//     nothing user-visible;
//   - assistant call fails or is malformed -> a synthetic assistant turn
//     carries a generic failure message;
//   - a count response from an overtaken request is discarded by the
//     session's sequence check, never applied.
func (o *Orchestrator) ProcessTurn(ctx context.Context, req model.ChatRequest) *model.ChatResponse {
	sess := o.sessions.GetOrCreate(req.SessionID)
	sess.AppendMessage(model.RoleUser, req.Message)

	// Extraction and reduction are synchronous and local; only the two
	// round-trips below leave this goroutine.
	extraction, filter, seq := sess.ReduceMessage(req.Message)

	var wg sync.WaitGroup
	if extraction.Kind != geo.NoMatch {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := o.count.Count(ctx, model.CountRequestFromFilter(filter))
			if err != nil {
				log.Printf("count query %d failed, keeping previous snapshot: %v", seq, err)
				return
			}
			if !sess.ApplyCount(seq, resp) {
				log.Printf("count query %d arrived after a newer one, discarded", seq)
			}
		}()
	}

	// The raw message goes to the assistant regardless of the extraction
	// outcome; the reply arrives independently of the count result.
	reply, agentUsed, table := o.chatTurn(ctx, sess, req.Message)
	msg := sess.AppendMessage(model.RoleAssistant, reply)

	wg.Wait()

	return &model.ChatResponse{
		MessageID:     msg.ID,
		SessionID:     sess.ID,
		Response:      reply,
		Timestamp:     msg.Timestamp,
		AgentUsed:     agentUsed,
		PropertyTable: table,
		Filters:       sess.Filter(),
		Count:         sess.CountSnapshot(),
	}
}

func (o *Orchestrator) chatTurn(ctx context.Context, sess *Session, message string) (reply, agentUsed string, table []model.PropertySummary) {
	resp, err := o.assistant.Chat(ctx, model.AssistantRequest{
		Message:   message,
		SessionID: sess.RemoteSessionID(),
	})
	if err != nil {
		log.Printf("assistant call failed for session %s: %v", sess.ID, err)
		return assistantFailureReply, "", nil
	}

	sess.SetRemoteSessionID(resp.SessionID)
	return resp.ResponseText, resp.AgentUsed, resp.PropertyTable
}
