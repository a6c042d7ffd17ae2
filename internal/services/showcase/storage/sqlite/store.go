// Package sqlite persists archived runs in a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/ctavolazzi/AI-DnD-sub002/internal/platform/errors"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/platform/pagination"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/platform/storage/sqlitemigrate"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/storage"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/storage/cursor"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/storage/filter"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

const (
	defaultListRunsPageSize = 20
	maxListRunsPageSize     = 100
)

const insertRunQuery = `
INSERT INTO runs (run_id, seed, turns, locale, outcome, frame_count, quest_hook, conclusion, transcript, created_at_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`

const getRunQuery = `
SELECT seq, run_id, seed, turns, locale, outcome, frame_count, quest_hook, conclusion, transcript, created_at_ms
FROM runs
WHERE run_id = ?;
`

// Timestamps are stored as UTC millisecond counts. toMillis and
// fromMillis are the only conversion points.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store implements run archival over SQLite.
type Store struct {
	sqlDB *sql.DB
}

// dsnOptions tunes the archive connection for concurrent readers with a
// single writer.
const dsnOptions = "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"

// Open opens the archive database at path and brings its schema up to
// date with the bundled migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("archive path is required")
	}

	sqlDB, err := sql.Open("sqlite", filepath.Clean(path)+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping archive db: %w", err)
	}

	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the archive database handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateRun inserts one finished run.
func (s *Store) CreateRun(ctx context.Context, record storage.RunRecord) error {
	if strings.TrimSpace(record.RunID) == "" {
		return fmt.Errorf("run id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, insertRunQuery,
		record.RunID,
		record.Seed,
		record.Turns,
		record.Locale,
		record.Outcome,
		record.FrameCount,
		record.QuestHook,
		record.Conclusion,
		record.Transcript,
		toMillis(record.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", record.RunID, err)
	}
	return nil
}

// GetRun loads one archived run by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (storage.RunRecord, error) {
	row := s.sqlDB.QueryRowContext(ctx, getRunQuery, runID)

	record, _, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.RunRecord{}, storage.ErrNotFound
		}
		return storage.RunRecord{}, fmt.Errorf("get run %s: %w", runID, err)
	}
	return record, nil
}

// ListRuns returns one page of archived runs. Filters use the AIP-160
// grammar and page tokens are opaque cursors bound to the filter and
// sort order that produced them.
func (s *Store) ListRuns(ctx context.Context, req storage.ListRunsRequest) (storage.RunPage, error) {
	pageSize := pagination.Limits{
		Default: defaultListRunsPageSize,
		Max:     maxListRunsPageSize,
	}.Clamp(req.PageSize)

	orderBy, err := pagination.Order{
		Default: "created_at desc",
		Allowed: []string{"created_at", "created_at desc"},
	}.Normalize(strings.TrimSpace(req.OrderBy))
	if err != nil {
		return storage.RunPage{}, apperrors.WithMetadata(apperrors.CodeRequestInvalid,
			"order_by must be 'created_at' or 'created_at desc'",
			map[string]string{"OrderBy": req.OrderBy})
	}
	descending := orderBy == "created_at desc"

	filterStr := strings.TrimSpace(req.Filter)
	var cond filter.SQLCondition
	if filterStr != "" {
		cond, err = filter.ParseRunFilter(filterStr)
		if err != nil {
			return storage.RunPage{}, apperrors.Wrap(apperrors.CodeFilterInvalid, "invalid filter", err)
		}
	}

	var cursorSeq uint64
	var cursorDir cursor.Direction
	if token := strings.TrimSpace(req.PageToken); token != "" {
		c, err := cursor.Decode(token)
		if err != nil {
			return storage.RunPage{}, apperrors.Wrap(apperrors.CodePageTokenInvalid, "invalid page token", err)
		}
		if err := c.Validate(filterStr, orderBy); err != nil {
			return storage.RunPage{}, apperrors.Wrap(apperrors.CodePageTokenInvalid, "invalid page token", err)
		}
		cursorSeq = c.Seq
		cursorDir = c.Dir
	}

	plan := buildListRunsPagePlan(listRunsPlanRequest{
		pageSize:     pageSize,
		descending:   descending,
		filterClause: cond.Clause,
		filterParams: cond.Params,
		cursorSeq:    cursorSeq,
		cursorDir:    cursorDir,
	})

	query := fmt.Sprintf(`
SELECT seq, run_id, seed, turns, locale, outcome, frame_count, quest_hook, conclusion, transcript, created_at_ms
FROM runs
WHERE %s
%s
%s;`, plan.whereClause, plan.orderClause, plan.limitClause)

	rows, err := s.sqlDB.QueryContext(ctx, query, plan.params...)
	if err != nil {
		return storage.RunPage{}, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []storage.RunRecord
	var seqs []uint64
	for rows.Next() {
		record, seq, err := scanRun(rows)
		if err != nil {
			return storage.RunPage{}, fmt.Errorf("scan run: %w", err)
		}
		records = append(records, record)
		seqs = append(seqs, seq)
	}
	if err := rows.Err(); err != nil {
		return storage.RunPage{}, fmt.Errorf("iterate runs: %w", err)
	}

	page := storage.RunPage{Runs: records}
	if len(records) > pageSize {
		// The extra probe row proved another page exists; the token
		// points at the last run actually returned.
		page.Runs = records[:pageSize]
		token, err := cursor.Encode(cursor.Next(seqs[pageSize-1], descending, filterStr, orderBy))
		if err != nil {
			return storage.RunPage{}, fmt.Errorf("encode page token: %w", err)
		}
		page.NextPageToken = token
	}
	return page, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (storage.RunRecord, uint64, error) {
	var record storage.RunRecord
	var seq uint64
	var createdAtMillis int64
	err := row.Scan(
		&seq,
		&record.RunID,
		&record.Seed,
		&record.Turns,
		&record.Locale,
		&record.Outcome,
		&record.FrameCount,
		&record.QuestHook,
		&record.Conclusion,
		&record.Transcript,
		&createdAtMillis,
	)
	if err != nil {
		return storage.RunRecord{}, 0, err
	}
	record.CreatedAt = fromMillis(createdAtMillis)
	return record, seq, nil
}
