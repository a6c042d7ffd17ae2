// Package session owns the in-memory table of showcase sessions and the
// playback rules over precomputed frame timelines. A session never
// reveals frames beyond its cursor, and the cursor only ever moves
// forward.
package session

import (
	"time"

	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/domain"
)

// Session wraps one precomputed simulation run with a playback cursor.
// The result is immutable once computed; only Cursor and LastAccess
// change, both under the manager's lock.
type Session struct {
	ID         string
	Locale     string
	Seed       int64
	Turns      int
	Result     domain.ShowcaseResult
	Cursor     int
	CreatedAt  time.Time
	LastAccess time.Time
}

// Payload is the caller-visible view of a session: the frames up to and
// including the cursor, never beyond. Conclusion is only set once the
// visible last frame is final.
type Payload struct {
	SessionID  string             `json:"session_id"`
	QuestHook  string             `json:"quest_hook"`
	Frames     []domain.TurnFrame `json:"frames"`
	Conclusion *string            `json:"conclusion"`
	IsComplete bool               `json:"is_complete"`
	TurnIndex  int                `json:"turn_index"`
}

func buildPayload(s *Session) Payload {
	visible := s.Result.Frames[:s.Cursor+1]
	payload := Payload{
		SessionID: s.ID,
		QuestHook: s.Result.QuestHook,
		Frames:    append([]domain.TurnFrame(nil), visible...),
		TurnIndex: s.Cursor,
	}
	payload.IsComplete = visible[len(visible)-1].IsFinal
	if payload.IsComplete {
		conclusion := s.Result.Conclusion
		payload.Conclusion = &conclusion
	}
	return payload
}
