package rest

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync"

	"golang.org/x/net/websocket"

	apperrors "github.com/ctavolazzi/AI-DnD-sub002/internal/platform/errors"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/domain"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/session"
)

type wsFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type watchFramesPayload struct {
	SessionID  string             `json:"session_id"`
	Frames     []domain.TurnFrame `json:"frames"`
	TurnIndex  int                `json:"turn_index"`
	IsComplete bool               `json:"is_complete"`
}

type watchErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type wsPeer struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

func newWSPeer(encoder *json.Encoder) *wsPeer {
	return &wsPeer{encoder: encoder}
}

func (p *wsPeer) writeFrame(frame wsFrame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.encoder.Encode(frame)
}

// Hub fans advance notifications out to websocket watchers, keyed by
// session ID.
type Hub struct {
	mu       sync.Mutex
	watchers map[string]map[*wsPeer]struct{}
}

// NewHub returns an empty watcher registry.
func NewHub() *Hub {
	return &Hub{watchers: make(map[string]map[*wsPeer]struct{})}
}

func (h *Hub) join(sessionID string, peer *wsPeer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	peers, ok := h.watchers[sessionID]
	if !ok {
		peers = make(map[*wsPeer]struct{})
		h.watchers[sessionID] = peers
	}
	peers[peer] = struct{}{}
}

func (h *Hub) leave(sessionID string, peer *wsPeer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	peers, ok := h.watchers[sessionID]
	if !ok {
		return
	}
	delete(peers, peer)
	if len(peers) == 0 {
		delete(h.watchers, sessionID)
	}
}

func (h *Hub) peersFor(sessionID string) []*wsPeer {
	h.mu.Lock()
	defer h.mu.Unlock()
	peers := make([]*wsPeer, 0, len(h.watchers[sessionID]))
	for peer := range h.watchers[sessionID] {
		peers = append(peers, peer)
	}
	return peers
}

// Broadcast pushes newly revealed frames to every watcher of the
// session. Its signature matches the session manager's advance hook.
func (h *Hub) Broadcast(sessionID string, revealed []domain.TurnFrame, payload session.Payload) {
	if h == nil || len(revealed) == 0 {
		return
	}
	frame := wsFrame{
		Type: "watch.frames",
		Payload: mustJSON(watchFramesPayload{
			SessionID:  sessionID,
			Frames:     revealed,
			TurnIndex:  payload.TurnIndex,
			IsComplete: payload.IsComplete,
		}),
	}
	for _, peer := range h.peersFor(sessionID) {
		_ = peer.writeFrame(frame)
	}
}

func (h *handler) handleWatchSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.watchConn(conn, sessionID)
	}).ServeHTTP(w, r)
}

// watchConn sends one snapshot of the session and then streams advance
// broadcasts until the client goes away. Watchers never send frames;
// the read loop only notices the disconnect.
func (h *handler) watchConn(conn *websocket.Conn, sessionID string) {
	defer func() {
		_ = conn.Close()
	}()

	peer := newWSPeer(json.NewEncoder(conn))

	payload, err := h.manager.Get(sessionID)
	if err != nil {
		code := apperrors.CodeUnknown
		if domainErr, ok := apperrors.From(err); ok {
			code = domainErr.Code
		}
		_ = peer.writeFrame(wsFrame{
			Type:    "watch.error",
			Payload: mustJSON(watchErrorPayload{Code: string(code), Message: "session unavailable"}),
		})
		return
	}

	// Register before the snapshot goes out: a client that has read its
	// snapshot must already be subscribed to advance broadcasts.
	if h.hub != nil {
		h.hub.join(sessionID, peer)
		defer h.hub.leave(sessionID, peer)
	}

	_ = peer.writeFrame(wsFrame{Type: "watch.snapshot", Payload: mustJSON(payload)})

	_, _ = io.Copy(io.Discard, conn)
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("failed to marshal websocket frame payload: %v", err)
		return nil
	}
	return b
}
