package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"sumaichat/internal/config"
	"sumaichat/internal/model"
)

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

// echoCountHandler answers every count request with the given count and an
// echo of the filters it received, per the count service contract.
func echoCountHandler(count int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.CountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(model.CountResponse{Count: count, Filters: req.Filter()})
	}
}

func staticAssistantHandler(reply string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"session_id":    "remote-1",
			"message_id":    "msg-1",
			"response_text": reply,
			"agent_used":    "property_search",
		})
	}
}

func newTestOrchestrator(t *testing.T, countHandler, assistantHandler http.HandlerFunc) (*Orchestrator, func()) {
	t.Helper()

	countSrv := httptest.NewServer(countHandler)
	assistantSrv := httptest.NewServer(assistantHandler)

	orch := NewOrchestrator(
		NewSessionStore(),
		NewCountClient(&config.CountConfig{BaseURL: countSrv.URL, Timeout: 5}),
		NewAssistantClient(&config.AssistantConfig{BaseURL: assistantSrv.URL, Timeout: 5}),
	)
	return orch, func() {
		countSrv.Close()
		assistantSrv.Close()
	}
}

func TestProcessTurn_AreaQueryUpdatesFilterAndCount(t *testing.T) {
	orch, cleanup := newTestOrchestrator(t, echoCountHandler(42), staticAssistantHandler("船橋市の物件をご案内します。"))
	defer cleanup()

	resp := orch.ProcessTurn(context.Background(), model.ChatRequest{Message: "千葉県船橋市の物件を見せて"})

	if resp.Filters.Area != "千葉県船橋市" {
		t.Errorf("Expected area 千葉県船橋市, got %q", resp.Filters.Area)
	}
	if resp.Count == nil {
		t.Fatal("Expected a count snapshot")
	}
	if resp.Count.Count != 42 {
		t.Errorf("Expected count 42, got %d", resp.Count.Count)
	}
	if resp.Response != "船橋市の物件をご案内します。" {
		t.Errorf("Unexpected reply: %q", resp.Response)
	}
	if resp.AgentUsed != "property_search" {
		t.Errorf("Expected agent_used forwarded, got %q", resp.AgentUsed)
	}
}

func TestProcessTurn_NoMatchIssuesNoCountQuery(t *testing.T) {
	var countCalls int64
	countHandler := func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&countCalls, 1)
		echoCountHandler(1)(w, r)
	}

	orch, cleanup := newTestOrchestrator(t, countHandler, staticAssistantHandler("こんにちは！"))
	defer cleanup()

	resp := orch.ProcessTurn(context.Background(), model.ChatRequest{Message: "こんにちは"})

	if atomic.LoadInt64(&countCalls) != 0 {
		t.Errorf("Expected no count query for NoMatch, got %d calls", countCalls)
	}
	if resp.Filters.Area != "" {
		t.Errorf("Expected untouched filter state, got area %q", resp.Filters.Area)
	}
	if resp.Count != nil {
		t.Error("Expected no count snapshot without a count query")
	}
}

func TestProcessTurn_ResetClearsAreaAndKeepsConstraints(t *testing.T) {
	var mu sync.Mutex
	var lastReq model.CountRequest
	countHandler := func(w http.ResponseWriter, r *http.Request) {
		var req model.CountRequest
		json.NewDecoder(r.Body).Decode(&req)
		mu.Lock()
		lastReq = req
		mu.Unlock()
		json.NewEncoder(w).Encode(model.CountResponse{Count: 9999, Filters: req.Filter()})
	}

	orch, cleanup := newTestOrchestrator(t, countHandler, staticAssistantHandler("全国で検索します。"))
	defer cleanup()

	// Seed the session with an area plus externally supplied constraints.
	sess := orch.Sessions().Create()
	sess.MergeConstraints(intPtr(30000000), intPtr(80000000), strPtr("3LDK"))
	first := orch.ProcessTurn(context.Background(), model.ChatRequest{
		Message:   "東京都世田谷区で探して",
		SessionID: sess.ID,
	})
	if first.Filters.Area != "東京都世田谷区" {
		t.Fatalf("Setup turn failed, area %q", first.Filters.Area)
	}

	resp := orch.ProcessTurn(context.Background(), model.ChatRequest{
		Message:   "全国で探したい",
		SessionID: sess.ID,
	})

	if resp.Filters.Area != "" {
		t.Errorf("Expected area cleared, got %q", resp.Filters.Area)
	}
	if resp.Filters.MinPrice == nil || *resp.Filters.MinPrice != 30000000 {
		t.Error("Expected min price to survive the reset")
	}
	if resp.Filters.RoomType == nil || *resp.Filters.RoomType != "3LDK" {
		t.Error("Expected room type to survive the reset")
	}
	// The count request for the reset turn must carry the full filter
	// state: no area, constraints intact.
	mu.Lock()
	gotReq := lastReq
	mu.Unlock()
	if gotReq.Area != "" {
		t.Errorf("Expected nationwide count request, got area %q", gotReq.Area)
	}
	if gotReq.MaxPrice == nil || *gotReq.MaxPrice != 80000000 {
		t.Error("Expected max price in count request after reset")
	}
}

func TestProcessTurn_CountFailureKeepsPreviousSnapshot(t *testing.T) {
	var fail atomic.Bool
	countHandler := func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		echoCountHandler(7)(w, r)
	}

	orch, cleanup := newTestOrchestrator(t, countHandler, staticAssistantHandler("はい"))
	defer cleanup()

	sess := orch.Sessions().Create()
	first := orch.ProcessTurn(context.Background(), model.ChatRequest{
		Message:   "北海道の物件",
		SessionID: sess.ID,
	})
	if first.Count == nil || first.Count.Count != 7 {
		t.Fatalf("Setup turn failed: %+v", first.Count)
	}

	fail.Store(true)
	resp := orch.ProcessTurn(context.Background(), model.ChatRequest{
		Message:   "千葉県の物件",
		SessionID: sess.ID,
	})

	// Filter advances, snapshot stays on the last success.
	if resp.Filters.Area != "千葉県" {
		t.Errorf("Expected filter updated despite count failure, got %q", resp.Filters.Area)
	}
	if resp.Count == nil || resp.Count.Count != 7 {
		t.Errorf("Expected previous snapshot preserved, got %+v", resp.Count)
	}
	if resp.Count.Filters.Area != "北海道" {
		t.Errorf("Expected snapshot filters from the last success, got %q", resp.Count.Filters.Area)
	}
}

func TestProcessTurn_AssistantFailureYieldsSyntheticTurn(t *testing.T) {
	assistantHandler := func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}

	orch, cleanup := newTestOrchestrator(t, echoCountHandler(3), assistantHandler)
	defer cleanup()

	resp := orch.ProcessTurn(context.Background(), model.ChatRequest{Message: "東京都の物件"})

	if resp.Response != assistantFailureReply {
		t.Errorf("Expected synthetic failure reply, got %q", resp.Response)
	}
	// The failure is contained to the chat side: the count still applied.
	if resp.Count == nil || resp.Count.Count != 3 {
		t.Errorf("Expected count applied despite assistant failure, got %+v", resp.Count)
	}

	// The synthetic turn is part of the history like any other reply.
	sess := orch.Sessions().Get(resp.SessionID)
	msgs := sess.Messages()
	if len(msgs) != 2 {
		t.Fatalf("Expected user+assistant turns, got %d", len(msgs))
	}
	if msgs[1].Role != model.RoleAssistant || msgs[1].Content != assistantFailureReply {
		t.Errorf("Expected synthetic assistant turn, got %+v", msgs[1])
	}
}

func TestProcessTurn_MalformedAssistantResponseYieldsSyntheticTurn(t *testing.T) {
	assistantHandler := func(w http.ResponseWriter, r *http.Request) {
		// 200 OK but response_text is missing.
		json.NewEncoder(w).Encode(map[string]any{
			"session_id": "remote-1",
			"message_id": "msg-1",
		})
	}

	orch, cleanup := newTestOrchestrator(t, echoCountHandler(1), assistantHandler)
	defer cleanup()

	resp := orch.ProcessTurn(context.Background(), model.ChatRequest{Message: "こんにちは"})
	if resp.Response != assistantFailureReply {
		t.Errorf("Expected synthetic failure reply for malformed response, got %q", resp.Response)
	}
}

func TestProcessTurn_ReusesRemoteSessionID(t *testing.T) {
	var mu sync.Mutex
	var gotSessionIDs []string
	assistantHandler := func(w http.ResponseWriter, r *http.Request) {
		var req model.AssistantRequest
		json.NewDecoder(r.Body).Decode(&req)
		mu.Lock()
		gotSessionIDs = append(gotSessionIDs, req.SessionID)
		mu.Unlock()
		staticAssistantHandler("了解です。")(w, r)
	}

	orch, cleanup := newTestOrchestrator(t, echoCountHandler(1), assistantHandler)
	defer cleanup()

	first := orch.ProcessTurn(context.Background(), model.ChatRequest{Message: "こんにちは"})
	orch.ProcessTurn(context.Background(), model.ChatRequest{Message: "ありがとう", SessionID: first.SessionID})

	mu.Lock()
	ids := append([]string(nil), gotSessionIDs...)
	mu.Unlock()
	if len(ids) != 2 {
		t.Fatalf("Expected 2 assistant calls, got %d", len(ids))
	}
	if ids[0] != "" {
		t.Errorf("Expected empty remote session id on the first turn, got %q", ids[0])
	}
	if ids[1] != "remote-1" {
		t.Errorf("Expected remote session id forwarded on the second turn, got %q", ids[1])
	}
}

func TestSession_StaleCountResponseDiscarded(t *testing.T) {
	store := NewSessionStore()
	sess := store.Create()

	_, _, seq1 := sess.ReduceMessage("東京都の物件")
	_, _, seq2 := sess.ReduceMessage("千葉県の物件")
	if seq2 <= seq1 {
		t.Fatalf("Expected increasing sequence numbers, got %d then %d", seq1, seq2)
	}

	// The second turn's response lands first.
	applied := sess.ApplyCount(seq2, &model.CountResponse{Count: 200, Filters: model.FilterState{Area: "千葉県"}})
	if !applied {
		t.Fatal("Expected fresh response to apply")
	}

	// The first turn's response arrives late and must be discarded.
	applied = sess.ApplyCount(seq1, &model.CountResponse{Count: 100, Filters: model.FilterState{Area: "東京都"}})
	if applied {
		t.Error("Expected stale response to be discarded")
	}

	snapshot := sess.CountSnapshot()
	if snapshot == nil || snapshot.Count != 200 {
		t.Errorf("Expected snapshot to stay at 200, got %+v", snapshot)
	}
	if snapshot.Filters.Area != "千葉県" {
		t.Errorf("Expected snapshot filters from the newer turn, got %q", snapshot.Filters.Area)
	}

	// Equal sequence numbers re-apply: the guard is >=, not >.
	applied = sess.ApplyCount(seq2, &model.CountResponse{Count: 201, Filters: model.FilterState{Area: "千葉県"}})
	if !applied {
		t.Error("Expected response with equal sequence number to apply")
	}
}

func TestCountClient_RoundTripEchoMatchesFilter(t *testing.T) {
	srv := httptest.NewServer(echoCountHandler(5))
	defer srv.Close()

	client := NewCountClient(&config.CountConfig{BaseURL: srv.URL, Timeout: 5})

	filter := model.FilterState{
		Area:     "東京都世田谷区南烏山",
		MinPrice: intPtr(20000000),
		MaxPrice: intPtr(60000000),
		RoomType: strPtr("2LDK"),
	}

	resp, err := client.Count(context.Background(), model.CountRequestFromFilter(filter))
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if !resp.Filters.Equal(filter) {
		t.Errorf("Expected echoed filters to equal the state that produced them:\nsent: %+v\ngot:  %+v", filter, resp.Filters)
	}
}

func TestCountClient_MalformedResponseIsTyped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// count field missing entirely
		json.NewEncoder(w).Encode(map[string]any{"filters": model.FilterState{}})
	}))
	defer srv.Close()

	client := NewCountClient(&config.CountConfig{BaseURL: srv.URL, Timeout: 5})

	_, err := client.Count(context.Background(), model.CountRequest{})
	if err == nil {
		t.Fatal("Expected an error for malformed response")
	}
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected MalformedResponseError, got %T: %v", err, err)
	}
	if malformed.Field != "count" {
		t.Errorf("Expected missing field 'count', got %q", malformed.Field)
	}
}
