// Package rest serves the showcase JSON API: session lifecycle, the
// archive browser, and the live watch websocket.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	apperrors "github.com/ctavolazzi/AI-DnD-sub002/internal/platform/errors"
	errorsi18n "github.com/ctavolazzi/AI-DnD-sub002/internal/platform/errors/i18n"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/i18n"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/session"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/storage"
)

const (
	defaultTurns = 6
	defaultSeed  = 11

	minAdvanceSteps = 1
	maxAdvanceSteps = 5
)

// SessionService is the slice of the session manager the facade uses.
type SessionService interface {
	Create(ctx context.Context, params session.CreateParams) (session.Payload, error)
	Get(id string) (session.Payload, error)
	Advance(id string, steps int) (session.Payload, error)
	ActiveIDs() []string
}

// RunArchive reads archived runs for the archive endpoints.
type RunArchive interface {
	GetRun(ctx context.Context, runID string) (storage.RunRecord, error)
	ListRuns(ctx context.Context, req storage.ListRunsRequest) (storage.RunPage, error)
}

type handler struct {
	manager SessionService
	archive RunArchive
	hub     *Hub
}

// NewHandler builds the showcase routes. The hub receives advance
// broadcasts and fans them out to websocket watchers; archive may be
// nil when no archive store is configured.
func NewHandler(manager SessionService, archive RunArchive, hub *Hub) http.Handler {
	h := &handler{manager: manager, archive: archive, hub: hub}

	mux := http.NewServeMux()
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.HandleFunc("/sessions", h.handleSessions)
	mux.HandleFunc("/sessions/", h.handleSessionRoutes)
	mux.HandleFunc("/archive/runs", h.handleArchiveList)
	mux.HandleFunc("/archive/runs/", h.handleArchiveRoutes)
	return mux
}

type createSessionRequest struct {
	Mode  string `json:"mode"`
	Turns *int   `json:"turns,omitempty"`
	Seed  *int64 `json:"seed,omitempty"`
}

type advanceSessionRequest struct {
	Steps *int `json:"steps,omitempty"`
}

func (h *handler) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleCreateSession(w, r)
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.manager.ActiveIDs())
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (h *handler) handleSessionRoutes(w http.ResponseWriter, r *http.Request) {
	parts := splitPathParts(strings.TrimPrefix(r.URL.Path, "/sessions/"))

	// /sessions/{id}
	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleGetSession(w, r, parts[0])
		return
	}
	// /sessions/{id}/advance
	if len(parts) == 2 && parts[1] == "advance" {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		h.handleAdvanceSession(w, r, parts[0])
		return
	}
	// /sessions/{id}/watch
	if len(parts) == 2 && parts[1] == "watch" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleWatchSession(w, r, parts[0])
		return
	}
	http.NotFound(w, r)
}

func (h *handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if req.Mode != "demo" {
		h.writeError(w, r, apperrors.WithMetadata(apperrors.CodeModeUnsupported,
			"mode must be \"demo\"", map[string]string{"Mode": req.Mode}))
		return
	}

	turns := defaultTurns
	if req.Turns != nil {
		turns = *req.Turns
	}
	seed := int64(defaultSeed)
	if req.Seed != nil {
		seed = *req.Seed
	}

	payload, err := h.manager.Create(r.Context(), session.CreateParams{
		Turns:  turns,
		Seed:   seed,
		Locale: i18n.Locale(i18n.ResolveTag(r)),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, payload)
}

func (h *handler) handleGetSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	payload, err := h.manager.Get(sessionID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *handler) handleAdvanceSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req advanceSessionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	steps := 1
	if req.Steps != nil {
		steps = *req.Steps
	}
	if steps < minAdvanceSteps || steps > maxAdvanceSteps {
		h.writeError(w, r, apperrors.WithMetadata(apperrors.CodeStepsOutOfRange,
			"steps out of range", map[string]string{"Min": "1", "Max": "5"}))
		return
	}

	payload, err := h.manager.Advance(sessionID, steps)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError renders a coded error with its localized message and the
// HTTP status mapped from its code. Non-domain errors become 500s.
func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	code := apperrors.CodeUnknown
	var metadata map[string]string
	if domainErr, ok := apperrors.From(err); ok {
		code = domainErr.Code
		metadata = domainErr.Metadata
	}
	if status >= http.StatusInternalServerError {
		log.Printf("showcase api: %v", err)
	}

	locale := i18n.Locale(i18n.ResolveTag(r))
	message := errorsi18n.GetCatalog(locale).Format(string(code), metadata)
	writeJSON(w, status, errorResponse{Error: errorBody{Code: string(code), Message: message}})
}

// decodeJSONBody fills dst from the request body. An absent or empty
// body leaves dst at its zero value so defaults apply.
func decodeJSONBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperrors.Wrap(apperrors.CodeRequestInvalid, "invalid request body", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("showcase api: encode response: %v", err)
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

func splitPathParts(path string) []string {
	rawParts := strings.Split(path, "/")
	parts := make([]string, 0, len(rawParts))
	for _, part := range rawParts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	return parts
}
