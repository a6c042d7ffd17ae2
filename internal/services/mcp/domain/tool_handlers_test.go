package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	apperrors "github.com/ctavolazzi/AI-DnD-sub002/internal/platform/errors"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/session"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func newTestManager() *session.Manager {
	counter := 0
	return session.NewManager(session.Config{
		IDGenerator: func() (string, error) {
			counter++
			return fmt.Sprintf("sess%d", counter), nil
		},
	})
}

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func createTestSession(t *testing.T, manager SessionService, input SessionCreateInput) SessionResult {
	t.Helper()
	handler := SessionCreateHandler(manager)
	_, result, err := handler(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return result
}

func assertErrorCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s", code)
	}
	appErr, ok := apperrors.From(err)
	if !ok {
		t.Fatalf("expected coded error, got %v", err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s", code, appErr.Code)
	}
}

func TestSessionCreateHandler(t *testing.T) {
	t.Run("success with defaults", func(t *testing.T) {
		handler := SessionCreateHandler(newTestManager())
		_, result, err := handler(context.Background(), nil, SessionCreateInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.SessionID != "sess1" {
			t.Errorf("expected session id %q, got %q", "sess1", result.SessionID)
		}
		if result.TurnIndex != 0 {
			t.Errorf("expected cursor at setup frame, got turn index %d", result.TurnIndex)
		}
		if len(result.Frames) != 1 {
			t.Fatalf("expected 1 visible frame, got %d", len(result.Frames))
		}
		if result.Frames[0].Turn != 0 {
			t.Errorf("expected setup frame turn 0, got %d", result.Frames[0].Turn)
		}
		if len(result.Frames[0].Players) != 3 || len(result.Frames[0].Enemies) != 3 {
			t.Errorf("expected stock 3v3 roster, got %dv%d",
				len(result.Frames[0].Players), len(result.Frames[0].Enemies))
		}
		if result.QuestHook == "" {
			t.Error("expected a quest hook")
		}
		if result.IsComplete {
			t.Error("expected an incomplete session")
		}
		if result.Conclusion != "" {
			t.Errorf("expected no conclusion yet, got %q", result.Conclusion)
		}
	})

	t.Run("same seed replays the same story", func(t *testing.T) {
		manager := newTestManager()
		input := SessionCreateInput{Turns: intPtr(4), Seed: int64Ptr(99)}
		first := createTestSession(t, manager, input)
		second := createTestSession(t, manager, input)
		if first.SessionID == second.SessionID {
			t.Fatal("expected distinct session ids")
		}
		if first.QuestHook != second.QuestHook {
			t.Errorf("expected identical quest hooks, got %q and %q", first.QuestHook, second.QuestHook)
		}
	})

	t.Run("localizes narration", func(t *testing.T) {
		manager := newTestManager()
		english := createTestSession(t, manager, SessionCreateInput{Seed: int64Ptr(9)})
		portuguese := createTestSession(t, manager, SessionCreateInput{Seed: int64Ptr(9), Locale: "pt-BR"})
		if english.QuestHook == portuguese.QuestHook {
			t.Errorf("expected locale-specific quest hooks, both were %q", english.QuestHook)
		}
	})

	t.Run("rejects unsupported locale", func(t *testing.T) {
		handler := SessionCreateHandler(newTestManager())
		_, _, err := handler(context.Background(), nil, SessionCreateInput{Locale: "fr-FR"})
		assertErrorCode(t, err, apperrors.CodeLocaleUnsupported)
	})

	t.Run("rejects turns out of range", func(t *testing.T) {
		handler := SessionCreateHandler(newTestManager())
		for _, turns := range []int{0, -3, 21} {
			_, _, err := handler(context.Background(), nil, SessionCreateInput{Turns: intPtr(turns)})
			assertErrorCode(t, err, apperrors.CodeTurnsOutOfRange)
		}
	})

	t.Run("nil manager", func(t *testing.T) {
		handler := SessionCreateHandler(nil)
		_, _, err := handler(context.Background(), nil, SessionCreateInput{})
		if err == nil {
			t.Fatal("expected error for missing manager")
		}
	})
}

func TestSessionGetHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		manager := newTestManager()
		created := createTestSession(t, manager, SessionCreateInput{})
		handler := SessionGetHandler(manager)
		_, result, err := handler(context.Background(), nil, SessionGetInput{SessionID: created.SessionID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.SessionID != created.SessionID {
			t.Errorf("expected session id %q, got %q", created.SessionID, result.SessionID)
		}
		if result.QuestHook != created.QuestHook {
			t.Errorf("expected quest hook %q, got %q", created.QuestHook, result.QuestHook)
		}
		if result.TurnIndex != 0 || len(result.Frames) != 1 {
			t.Errorf("expected an untouched cursor, got index %d with %d frames",
				result.TurnIndex, len(result.Frames))
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		handler := SessionGetHandler(newTestManager())
		_, _, err := handler(context.Background(), nil, SessionGetInput{SessionID: "missing"})
		assertErrorCode(t, err, apperrors.CodeSessionNotFound)
	})

	t.Run("nil manager", func(t *testing.T) {
		handler := SessionGetHandler(nil)
		_, _, err := handler(context.Background(), nil, SessionGetInput{SessionID: "sess1"})
		if err == nil {
			t.Fatal("expected error for missing manager")
		}
	})
}

func TestSessionAdvanceHandler(t *testing.T) {
	t.Run("reveals requested frames", func(t *testing.T) {
		manager := newTestManager()
		created := createTestSession(t, manager, SessionCreateInput{})
		handler := SessionAdvanceHandler(manager)
		_, result, err := handler(context.Background(), nil, SessionAdvanceInput{
			SessionID: created.SessionID,
			Steps:     intPtr(2),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.TurnIndex != 2 {
			t.Errorf("expected turn index 2, got %d", result.TurnIndex)
		}
		if len(result.Frames) != 3 {
			t.Errorf("expected 3 visible frames, got %d", len(result.Frames))
		}
	})

	t.Run("defaults to one step", func(t *testing.T) {
		manager := newTestManager()
		created := createTestSession(t, manager, SessionCreateInput{})
		handler := SessionAdvanceHandler(manager)
		_, result, err := handler(context.Background(), nil, SessionAdvanceInput{SessionID: created.SessionID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.TurnIndex != 1 {
			t.Errorf("expected turn index 1, got %d", result.TurnIndex)
		}
	})

	t.Run("clamps at the final frame", func(t *testing.T) {
		manager := newTestManager()
		created := createTestSession(t, manager, SessionCreateInput{Turns: intPtr(2)})
		handler := SessionAdvanceHandler(manager)
		_, result, err := handler(context.Background(), nil, SessionAdvanceInput{
			SessionID: created.SessionID,
			Steps:     intPtr(5),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsComplete {
			t.Fatal("expected a complete session")
		}
		if result.Conclusion == "" {
			t.Error("expected a conclusion on the complete payload")
		}
		if !result.Frames[len(result.Frames)-1].IsFinal {
			t.Error("expected the last visible frame to be final")
		}

		_, again, err := handler(context.Background(), nil, SessionAdvanceInput{
			SessionID: created.SessionID,
			Steps:     intPtr(5),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again.TurnIndex != result.TurnIndex {
			t.Errorf("expected the cursor to hold at %d, got %d", result.TurnIndex, again.TurnIndex)
		}
	})

	t.Run("rejects steps out of range", func(t *testing.T) {
		manager := newTestManager()
		created := createTestSession(t, manager, SessionCreateInput{})
		handler := SessionAdvanceHandler(manager)
		for _, steps := range []int{0, -1, 6} {
			_, _, err := handler(context.Background(), nil, SessionAdvanceInput{
				SessionID: created.SessionID,
				Steps:     intPtr(steps),
			})
			assertErrorCode(t, err, apperrors.CodeStepsOutOfRange)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		handler := SessionAdvanceHandler(newTestManager())
		_, _, err := handler(context.Background(), nil, SessionAdvanceInput{SessionID: "missing"})
		assertErrorCode(t, err, apperrors.CodeSessionNotFound)
	})
}

func TestSessionListHandler(t *testing.T) {
	t.Run("empty manager", func(t *testing.T) {
		handler := SessionListHandler(newTestManager())
		_, result, err := handler(context.Background(), nil, SessionListInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.SessionIDs) != 0 {
			t.Errorf("expected no sessions, got %v", result.SessionIDs)
		}
	})

	t.Run("lists sessions sorted", func(t *testing.T) {
		manager := newTestManager()
		createTestSession(t, manager, SessionCreateInput{})
		createTestSession(t, manager, SessionCreateInput{})
		handler := SessionListHandler(manager)
		_, result, err := handler(context.Background(), nil, SessionListInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.SessionIDs) != 2 {
			t.Fatalf("expected 2 sessions, got %v", result.SessionIDs)
		}
		if result.SessionIDs[0] != "sess1" || result.SessionIDs[1] != "sess2" {
			t.Errorf("expected [sess1 sess2], got %v", result.SessionIDs)
		}
	})

	t.Run("nil manager", func(t *testing.T) {
		handler := SessionListHandler(nil)
		_, _, err := handler(context.Background(), nil, SessionListInput{})
		if err == nil {
			t.Fatal("expected error for missing manager")
		}
	})
}

func TestSessionResourceHandler(t *testing.T) {
	t.Run("reads session payload", func(t *testing.T) {
		manager := newTestManager()
		created := createTestSession(t, manager, SessionCreateInput{})
		handler := SessionResourceHandler(manager)
		result, err := handler(context.Background(), &mcp.ReadResourceRequest{
			Params: &mcp.ReadResourceParams{URI: "session://sess1"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Contents) != 1 {
			t.Fatalf("expected 1 content entry, got %d", len(result.Contents))
		}
		content := result.Contents[0]
		if content.URI != "session://sess1" {
			t.Errorf("expected the request URI echoed back, got %q", content.URI)
		}
		if content.MIMEType != "application/json" {
			t.Errorf("expected application/json, got %q", content.MIMEType)
		}
		var payload SessionResult
		if err := json.Unmarshal([]byte(content.Text), &payload); err != nil {
			t.Fatalf("decode resource payload: %v", err)
		}
		if payload.SessionID != created.SessionID {
			t.Errorf("expected session id %q, got %q", created.SessionID, payload.SessionID)
		}
		if payload.QuestHook != created.QuestHook {
			t.Errorf("expected quest hook %q, got %q", created.QuestHook, payload.QuestHook)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		handler := SessionResourceHandler(newTestManager())
		_, err := handler(context.Background(), &mcp.ReadResourceRequest{
			Params: &mcp.ReadResourceParams{URI: "session://missing"},
		})
		if err == nil {
			t.Fatal("expected error for unknown session")
		}
	})

	t.Run("malformed URI", func(t *testing.T) {
		handler := SessionResourceHandler(newTestManager())
		for _, uri := range []string{"campaign://sess1", "session://", "session:// "} {
			_, err := handler(context.Background(), &mcp.ReadResourceRequest{
				Params: &mcp.ReadResourceParams{URI: uri},
			})
			if err == nil {
				t.Errorf("expected error for URI %q", uri)
			}
		}
	})

	t.Run("missing request", func(t *testing.T) {
		handler := SessionResourceHandler(newTestManager())
		if _, err := handler(context.Background(), nil); err == nil {
			t.Fatal("expected error for missing request")
		}
	})
}

func TestSessionListResourceHandler(t *testing.T) {
	t.Run("lists active sessions", func(t *testing.T) {
		manager := newTestManager()
		createTestSession(t, manager, SessionCreateInput{})
		createTestSession(t, manager, SessionCreateInput{})
		handler := SessionListResourceHandler(manager)
		result, err := handler(context.Background(), &mcp.ReadResourceRequest{
			Params: &mcp.ReadResourceParams{URI: "session://"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Contents) != 1 {
			t.Fatalf("expected 1 content entry, got %d", len(result.Contents))
		}
		var payload SessionListResult
		if err := json.Unmarshal([]byte(result.Contents[0].Text), &payload); err != nil {
			t.Fatalf("decode listing payload: %v", err)
		}
		if len(payload.SessionIDs) != 2 {
			t.Errorf("expected 2 sessions, got %v", payload.SessionIDs)
		}
	})

	t.Run("tolerates missing request", func(t *testing.T) {
		handler := SessionListResourceHandler(newTestManager())
		result, err := handler(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Contents[0].URI != "session://" {
			t.Errorf("expected the default listing URI, got %q", result.Contents[0].URI)
		}
	})
}
