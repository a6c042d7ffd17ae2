package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/websocket"

	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/session"
)

type wsTestFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func newWatchServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newTestHandler(t))
	t.Cleanup(srv.Close)
	return srv
}

func dialWatch(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

func readWatchFrame(t *testing.T, conn *websocket.Conn) wsTestFrame {
	t.Helper()
	_ = conn.SetDeadline(time.Now().Add(2 * time.Second))
	var got wsTestFrame
	if err := json.NewDecoder(conn).Decode(&got); err != nil {
		t.Fatalf("decode server frame: %v", err)
	}
	return got
}

func createSessionOverHTTP(t *testing.T, srv *httptest.Server, body string) session.Payload {
	t.Helper()
	resp, err := http.Post(srv.URL+"/sessions", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var payload session.Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode session payload: %v", err)
	}
	return payload
}

func advanceSessionOverHTTP(t *testing.T, srv *httptest.Server, sessionID, body string) session.Payload {
	t.Helper()
	resp, err := http.Post(srv.URL+"/sessions/"+sessionID+"/advance", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("advance session: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("advance session status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var payload session.Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode advance payload: %v", err)
	}
	return payload
}

func TestWatchSendsSnapshotOnConnect(t *testing.T) {
	srv := newWatchServer(t)
	created := createSessionOverHTTP(t, srv, `{"mode":"demo","turns":3,"seed":7}`)

	conn := dialWatch(t, srv, "/sessions/"+created.SessionID+"/watch")

	frame := readWatchFrame(t, conn)
	if frame.Type != "watch.snapshot" {
		t.Fatalf("frame type = %q, want watch.snapshot", frame.Type)
	}

	var snapshot session.Payload
	if err := json.Unmarshal(frame.Payload, &snapshot); err != nil {
		t.Fatalf("decode snapshot payload: %v", err)
	}
	if snapshot.SessionID != created.SessionID {
		t.Fatalf("snapshot session id = %q, want %q", snapshot.SessionID, created.SessionID)
	}
	if snapshot.TurnIndex != 0 || len(snapshot.Frames) != 1 {
		t.Fatalf("snapshot: turn index %d with %d frames", snapshot.TurnIndex, len(snapshot.Frames))
	}
}

func TestWatchStreamsAdvanceBroadcasts(t *testing.T) {
	srv := newWatchServer(t)
	created := createSessionOverHTTP(t, srv, `{"mode":"demo","turns":3,"seed":7}`)

	conn := dialWatch(t, srv, "/sessions/"+created.SessionID+"/watch")
	if frame := readWatchFrame(t, conn); frame.Type != "watch.snapshot" {
		t.Fatalf("frame type = %q, want watch.snapshot", frame.Type)
	}

	advanced := advanceSessionOverHTTP(t, srv, created.SessionID, `{"steps":2}`)
	if advanced.TurnIndex != 2 {
		t.Fatalf("advance turn index = %d, want 2", advanced.TurnIndex)
	}

	frame := readWatchFrame(t, conn)
	if frame.Type != "watch.frames" {
		t.Fatalf("frame type = %q, want watch.frames", frame.Type)
	}

	var update watchFramesPayload
	if err := json.Unmarshal(frame.Payload, &update); err != nil {
		t.Fatalf("decode frames payload: %v", err)
	}
	if update.SessionID != created.SessionID {
		t.Fatalf("update session id = %q, want %q", update.SessionID, created.SessionID)
	}
	if len(update.Frames) != 2 {
		t.Fatalf("expected 2 revealed frames, got %d", len(update.Frames))
	}
	if update.Frames[0].Turn != 1 {
		t.Fatalf("first revealed frame turn = %d, want 1", update.Frames[0].Turn)
	}
	if update.TurnIndex != advanced.TurnIndex {
		t.Fatalf("update turn index = %d, want %d", update.TurnIndex, advanced.TurnIndex)
	}
	if update.IsComplete != advanced.IsComplete {
		t.Fatalf("update is_complete = %v, want %v", update.IsComplete, advanced.IsComplete)
	}
}

func TestWatchBroadcastsToEveryWatcher(t *testing.T) {
	srv := newWatchServer(t)
	created := createSessionOverHTTP(t, srv, `{"mode":"demo","turns":4,"seed":2}`)

	first := dialWatch(t, srv, "/sessions/"+created.SessionID+"/watch")
	second := dialWatch(t, srv, "/sessions/"+created.SessionID+"/watch")
	for _, conn := range []*websocket.Conn{first, second} {
		if frame := readWatchFrame(t, conn); frame.Type != "watch.snapshot" {
			t.Fatalf("frame type = %q, want watch.snapshot", frame.Type)
		}
	}

	advanceSessionOverHTTP(t, srv, created.SessionID, `{"steps":1}`)

	for i, conn := range []*websocket.Conn{first, second} {
		frame := readWatchFrame(t, conn)
		if frame.Type != "watch.frames" {
			t.Fatalf("watcher %d: frame type = %q, want watch.frames", i, frame.Type)
		}
		var update watchFramesPayload
		if err := json.Unmarshal(frame.Payload, &update); err != nil {
			t.Fatalf("watcher %d: decode frames payload: %v", i, err)
		}
		if len(update.Frames) != 1 || update.Frames[0].Turn != 1 {
			t.Fatalf("watcher %d: unexpected revealed frames %+v", i, update.Frames)
		}
	}
}

func TestWatchUnknownSessionSendsError(t *testing.T) {
	srv := newWatchServer(t)

	conn := dialWatch(t, srv, "/sessions/ghost/watch")

	frame := readWatchFrame(t, conn)
	if frame.Type != "watch.error" {
		t.Fatalf("frame type = %q, want watch.error", frame.Type)
	}

	var payload watchErrorPayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if payload.Code != "SESSION_NOT_FOUND" {
		t.Fatalf("error code = %q, want SESSION_NOT_FOUND", payload.Code)
	}
}
