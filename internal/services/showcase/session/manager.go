package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	apperrors "github.com/ctavolazzi/AI-DnD-sub002/internal/platform/errors"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/platform/i18n/catalog"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/platform/id"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/platform/timeouts"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/domain"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/i18n"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/storage"
)

// AdvanceListener observes cursor movement. It receives the frames the
// advance newly revealed and the resulting payload, and is called
// outside the manager lock.
type AdvanceListener func(sessionID string, revealed []domain.TurnFrame, payload Payload)

// Archiver persists finished runs for later browsing.
type Archiver interface {
	CreateRun(ctx context.Context, record storage.RunRecord) error
}

// Config wires manager dependencies. Zero values select the real clock
// and ID generator; Archive and OnAdvance are optional.
type Config struct {
	Clock       func() time.Time
	IDGenerator func() (string, error)
	Archive     Archiver
	OnAdvance   AdvanceListener
}

// Manager owns the session table. One mutex guards creation, lookups,
// and cursor movement; simulation itself runs outside the lock because
// every run draws from its own random source.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	clock     func() time.Time
	generator func() (string, error)
	archive   Archiver
	onAdvance AdvanceListener
}

// CreateParams describes one session to create. Locale defaults to the
// base locale and Roster to the stock lineup.
type CreateParams struct {
	Turns  int
	Seed   int64
	Locale string
	Roster domain.Roster
}

// NewManager returns an empty session table with the given dependencies.
func NewManager(cfg Config) *Manager {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	generator := cfg.IDGenerator
	if generator == nil {
		generator = id.NewID
	}
	return &Manager{
		sessions:  map[string]*Session{},
		clock:     clock,
		generator: generator,
		archive:   cfg.Archive,
		onAdvance: cfg.OnAdvance,
	}
}

// Create runs a full simulation synchronously, archives the finished
// run, registers the session with its cursor at the setup frame, and
// returns the visible payload. The archive write happens before the
// session becomes visible, so every live session has a durable record.
func (m *Manager) Create(ctx context.Context, params CreateParams) (Payload, error) {
	locale := params.Locale
	if locale == "" {
		locale = catalog.BaseLocale
	}

	sim, err := domain.NewSimulator(domain.Config{
		Turns:     params.Turns,
		Seed:      params.Seed,
		Roster:    params.Roster,
		Templates: i18n.PackForLocale(locale),
	})
	if err != nil {
		return Payload{}, codedSimulatorError(err)
	}
	result := sim.Run()

	sessionID, err := m.generator()
	if err != nil {
		return Payload{}, fmt.Errorf("generate session id: %w", err)
	}

	now := m.clock()
	s := &Session{
		ID:         sessionID,
		Locale:     locale,
		Seed:       params.Seed,
		Turns:      params.Turns,
		Result:     result,
		Cursor:     0,
		CreatedAt:  now,
		LastAccess: now,
	}

	if m.archive != nil {
		archiveCtx, cancel := context.WithTimeout(ctx, timeouts.ArchiveWrite)
		err := m.archive.CreateRun(archiveCtx, runRecord(s))
		cancel()
		if err != nil {
			log.Printf("archive run %s: %v", s.ID, err)
			return Payload{}, apperrors.Wrap(apperrors.CodeArchiveUnavailable, "archive run", err)
		}
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return buildPayload(s), nil
}

// Get returns the payload at the session's current cursor.
func (m *Manager) Get(id string) (Payload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Payload{}, notFound(id)
	}
	s.LastAccess = m.clock()
	return buildPayload(s), nil
}

// Advance moves the cursor forward by steps, clamped at the final frame.
// Advancing a completed session is a no-op, not an error.
func (m *Manager) Advance(id string, steps int) (Payload, error) {
	if steps < 1 {
		return Payload{}, apperrors.New(apperrors.CodeStepsOutOfRange, "steps must be positive")
	}

	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return Payload{}, notFound(id)
	}

	previous := s.Cursor
	s.Cursor += steps
	if last := len(s.Result.Frames) - 1; s.Cursor > last {
		s.Cursor = last
	}
	s.LastAccess = m.clock()

	var revealed []domain.TurnFrame
	if s.Cursor > previous {
		revealed = append(revealed, s.Result.Frames[previous+1:s.Cursor+1]...)
	}
	payload := buildPayload(s)
	listener := m.onAdvance
	m.mu.Unlock()

	if listener != nil && len(revealed) > 0 {
		listener(id, revealed, payload)
	}
	return payload, nil
}

// ActiveIDs returns all registered session IDs in sorted order.
func (m *Manager) ActiveIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EvictIdle drops sessions idle longer than maxIdle and, when capacity
// is positive, the least recently used sessions above that capacity. It
// reports how many sessions were removed. Archived transcripts survive
// eviction, so a dropped run is still readable from the archive.
func (m *Manager) EvictIdle(maxIdle time.Duration, capacity int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	removed := 0
	if maxIdle > 0 {
		for id, s := range m.sessions {
			if now.Sub(s.LastAccess) > maxIdle {
				delete(m.sessions, id)
				removed++
			}
		}
	}

	if capacity > 0 && len(m.sessions) > capacity {
		ordered := make([]*Session, 0, len(m.sessions))
		for _, s := range m.sessions {
			ordered = append(ordered, s)
		}
		sort.Slice(ordered, func(i, j int) bool {
			return ordered[i].LastAccess.Before(ordered[j].LastAccess)
		})
		for _, s := range ordered[:len(m.sessions)-capacity] {
			delete(m.sessions, s.ID)
			removed++
		}
	}
	return removed
}

func notFound(id string) error {
	return apperrors.WithMetadata(apperrors.CodeSessionNotFound, "session not found",
		map[string]string{"SessionID": id})
}

func codedSimulatorError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidTurns):
		return apperrors.WithMetadata(apperrors.CodeTurnsOutOfRange, err.Error(),
			map[string]string{"Min": "1", "Max": "20"})
	case errors.Is(err, domain.ErrEmptyRoster):
		return apperrors.Wrap(apperrors.CodeScenarioRosterEmpty, err.Error(), err)
	case errors.Is(err, domain.ErrInvalidRosterEntry):
		return apperrors.Wrap(apperrors.CodeScenarioCombatantBad, err.Error(), err)
	default:
		return apperrors.Wrap(apperrors.CodeUnknown, "simulation setup failed", err)
	}
}

func runRecord(s *Session) storage.RunRecord {
	transcript, err := json.Marshal(s.Result.Frames)
	if err != nil {
		// This should be unreachable: frames hold only plain values.
		panic(err)
	}
	return storage.RunRecord{
		RunID:      s.ID,
		Seed:       s.Seed,
		Turns:      s.Turns,
		Locale:     s.Locale,
		Outcome:    s.Result.Outcome.String(),
		FrameCount: len(s.Result.Frames),
		QuestHook:  s.Result.QuestHook,
		Conclusion: s.Result.Conclusion,
		Transcript: transcript,
		CreatedAt:  s.CreatedAt,
	}
}
