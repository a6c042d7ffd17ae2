package domain

import (
	"errors"
	"math/rand"
)

// MaxTurns caps how many combat turns a single run may simulate.
const MaxTurns = 20

// ErrInvalidTurns indicates a turn limit outside the supported range.
var ErrInvalidTurns = errors.New("turns must be between 1 and 20")

// ErrEmptyRoster indicates a side with no combatants.
var ErrEmptyRoster = errors.New("party and enemy rosters must not be empty")

// ErrInvalidRosterEntry indicates a roster entry missing required stats.
var ErrInvalidRosterEntry = errors.New("roster entries need a name, positive base hit points, guard, and damage die")

// Config assembles one simulation run.
type Config struct {
	Turns     int
	Seed      int64
	Roster    Roster    // zero value selects DefaultRoster
	Templates Templates // narration pack, typically a locale pack
}

// Simulator drives a fixed number of combat turns against an
// instance-local random source and produces the full frame timeline in
// one synchronous pass. The same seed and turn limit always reproduce
// the same timeline, no matter how many simulators run concurrently.
type Simulator struct {
	turnLimit int
	rng       *rand.Rand
	narrator  *Narrator
	players   []*Combatant
	enemies   []*Combatant
	questHook string
}

// NewSimulator validates the config, seeds the run's private random
// source, rolls both rosters' hit points, and generates the quest hook.
func NewSimulator(cfg Config) (*Simulator, error) {
	if cfg.Turns < 1 || cfg.Turns > MaxTurns {
		return nil, ErrInvalidTurns
	}
	roster := cfg.Roster
	if len(roster.Party) == 0 && len(roster.Enemies) == 0 {
		roster = DefaultRoster()
	}
	if len(roster.Party) == 0 || len(roster.Enemies) == 0 {
		return nil, ErrEmptyRoster
	}
	for _, side := range [][]RosterEntry{roster.Party, roster.Enemies} {
		for _, entry := range side {
			if entry.Name == "" || entry.BaseHP < 1 || entry.HPDie < 0 || entry.Guard < 1 || entry.DamageDie < 1 {
				return nil, ErrInvalidRosterEntry
			}
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	s := &Simulator{
		turnLimit: cfg.Turns,
		rng:       rng,
		narrator:  NewNarrator(cfg.Templates),
		players:   buildSide(rng, roster.Party),
		enemies:   buildSide(rng, roster.Enemies),
	}
	s.questHook = s.narrator.QuestHook(names(s.players))
	return s, nil
}

// Run simulates the whole timeline and returns it. The first frame is
// the turn-0 setup snapshot, then one frame per simulated combat turn,
// then a closing frame that reuses the last turn number with IsFinal
// set. Combat stops the moment either side is wiped even when turns
// remain, so the timeline holds between 3 and turnLimit+2 frames.
func (s *Simulator) Run() ShowcaseResult {
	frames := make([]TurnFrame, 0, s.turnLimit+2)
	var cumulative []string

	setup := []string{s.narrator.Scene(), s.narrator.Intro(names(s.players))}
	cumulative = appendEvents(cumulative, setup)
	frames = append(frames, s.snapshotFrame(0, setup, cumulative, false))

	outcome := OutcomeInProgress
	turn := 0
	for t := 1; t <= s.turnLimit; t++ {
		turn = t
		var events []string
		if t%2 == 1 {
			events = append(events, s.narrator.Encounter())
		}
		events = append(events, resolveRound(s.rng, s.narrator, s.players, s.enemies)...)
		if speaker := firstAlive(s.players); speaker != nil && anyAlive(s.enemies) {
			events = append(events, s.narrator.Dialogue(speaker.Name))
		}

		cumulative = appendEvents(cumulative, events)
		frames = append(frames, s.snapshotFrame(t, events, cumulative, false))

		outcome = EvaluateOutcome(s.players, s.enemies)
		if outcome.Terminal() {
			break
		}
	}
	if outcome == OutcomeInProgress {
		outcome = OutcomeTurnLimitReached
	}

	conclusion := s.narrator.Conclusion()
	finale := []string{s.narrator.OutcomeLine(outcome), conclusion}
	cumulative = appendEvents(cumulative, finale)
	frames = append(frames, s.snapshotFrame(turn, finale, cumulative, true))

	return ShowcaseResult{
		QuestHook:  s.questHook,
		Frames:     frames,
		Conclusion: conclusion,
		Outcome:    outcome,
	}
}

func (s *Simulator) snapshotFrame(turn int, events, cumulative []string, final bool) TurnFrame {
	return TurnFrame{
		Turn:             turn,
		Players:          snapshotAll(s.players),
		Enemies:          snapshotAll(s.enemies),
		NewEvents:        append(make([]string, 0, len(events)), events...),
		CumulativeEvents: append(make([]string, 0, len(cumulative)), cumulative...),
		IsFinal:          final,
	}
}
