package storage

import (
	"context"
	"time"

	"github.com/ctavolazzi/AI-DnD-sub002/internal/platform/errors"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New(errors.CodeNotFound, "record not found")

// RunRecord is one archived simulation run. The transcript holds the
// full frame timeline as JSON so finished runs can be replayed without
// keeping their session in memory.
type RunRecord struct {
	RunID      string
	Seed       int64
	Turns      int
	Locale     string
	Outcome    string
	FrameCount int
	QuestHook  string
	Conclusion string
	Transcript []byte
	CreatedAt  time.Time
}

// ListRunsRequest narrows and pages an archive listing. Filter uses the
// AIP-160 grammar over run_id, outcome, locale, seed, turns, frame_count,
// and created_at. OrderBy accepts "created_at" or "created_at desc" and
// defaults to newest first.
type ListRunsRequest struct {
	Filter    string
	OrderBy   string
	PageSize  int32
	PageToken string
}

// RunPage describes a page of archived runs.
type RunPage struct {
	Runs          []RunRecord
	NextPageToken string
}

// RunStore persists archived showcase runs.
type RunStore interface {
	CreateRun(ctx context.Context, record RunRecord) error
	GetRun(ctx context.Context, runID string) (RunRecord, error)
	ListRuns(ctx context.Context, req ListRunsRequest) (RunPage, error)
}
