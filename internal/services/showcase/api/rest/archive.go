package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/ctavolazzi/AI-DnD-sub002/internal/platform/errors"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/storage"
)

type listRunsResponse struct {
	Runs          []runView `json:"runs"`
	NextPageToken string    `json:"next_page_token,omitempty"`
}

// runView is the wire shape of an archived run. Frames carries the full
// transcript on detail reads and is omitted from listings.
type runView struct {
	RunID      string          `json:"run_id"`
	Seed       int64           `json:"seed"`
	Turns      int             `json:"turns"`
	Locale     string          `json:"locale"`
	Outcome    string          `json:"outcome"`
	FrameCount int             `json:"frame_count"`
	QuestHook  string          `json:"quest_hook"`
	Conclusion string          `json:"conclusion"`
	CreatedAt  string          `json:"created_at"`
	Frames     json.RawMessage `json:"frames,omitempty"`
}

func runViewFrom(record storage.RunRecord, includeFrames bool) runView {
	view := runView{
		RunID:      record.RunID,
		Seed:       record.Seed,
		Turns:      record.Turns,
		Locale:     record.Locale,
		Outcome:    record.Outcome,
		FrameCount: record.FrameCount,
		QuestHook:  record.QuestHook,
		Conclusion: record.Conclusion,
		CreatedAt:  record.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if includeFrames {
		view.Frames = json.RawMessage(record.Transcript)
	}
	return view
}

func (h *handler) handleArchiveList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	if h.archive == nil {
		h.writeError(w, r, apperrors.New(apperrors.CodeArchiveUnavailable, "archive is not configured"))
		return
	}

	query := r.URL.Query()
	var pageSize int32
	if raw := strings.TrimSpace(query.Get("page_size")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, r, apperrors.WithMetadata(apperrors.CodeRequestInvalid,
				"page_size must be an integer", map[string]string{"PageSize": raw}))
			return
		}
		pageSize = int32(parsed)
	}

	page, err := h.archive.ListRuns(r.Context(), storage.ListRunsRequest{
		Filter:    query.Get("filter"),
		OrderBy:   query.Get("order_by"),
		PageSize:  pageSize,
		PageToken: query.Get("page_token"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	views := make([]runView, 0, len(page.Runs))
	for _, record := range page.Runs {
		views = append(views, runViewFrom(record, false))
	}
	writeJSON(w, http.StatusOK, listRunsResponse{Runs: views, NextPageToken: page.NextPageToken})
}

func (h *handler) handleArchiveRoutes(w http.ResponseWriter, r *http.Request) {
	parts := splitPathParts(strings.TrimPrefix(r.URL.Path, "/archive/runs/"))

	// /archive/runs/{id}
	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		if h.archive == nil {
			h.writeError(w, r, apperrors.New(apperrors.CodeArchiveUnavailable, "archive is not configured"))
			return
		}
		record, err := h.archive.GetRun(r.Context(), parts[0])
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, runViewFrom(record, true))
		return
	}
	http.NotFound(w, r)
}
