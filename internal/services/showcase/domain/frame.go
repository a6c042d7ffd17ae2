package domain

// maxCumulativeEvents bounds the rolling event log carried by each frame.
const maxCumulativeEvents = 50

// TurnFrame is an immutable snapshot of every combatant and all narration
// at one turn boundary. Frames form a strictly ordered, append-only
// sequence; once produced a frame is never mutated.
type TurnFrame struct {
	Turn             int         `json:"turn"`
	Players          []Combatant `json:"players"`
	Enemies          []Combatant `json:"enemies"`
	NewEvents        []string    `json:"new_events"`
	CumulativeEvents []string    `json:"cumulative_events"`
	IsFinal          bool        `json:"is_final"`
}

// ShowcaseResult bundles the whole precomputed timeline of one run.
type ShowcaseResult struct {
	QuestHook  string
	Frames     []TurnFrame
	Conclusion string
	Outcome    Outcome
}

// appendEvents extends the cumulative log, keeping only the newest
// maxCumulativeEvents entries.
func appendEvents(cumulative, events []string) []string {
	cumulative = append(cumulative, events...)
	if len(cumulative) > maxCumulativeEvents {
		cumulative = cumulative[len(cumulative)-maxCumulativeEvents:]
	}
	return cumulative
}
