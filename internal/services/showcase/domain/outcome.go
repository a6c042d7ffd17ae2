package domain

// Outcome is the game-over state of a simulation run.
type Outcome int

const (
	OutcomeInProgress Outcome = iota
	OutcomeDefeat
	OutcomeVictory
	OutcomeTurnLimitReached
)

// String returns the wire form used in payloads and archive rows.
func (o Outcome) String() string {
	switch o {
	case OutcomeInProgress:
		return "IN_PROGRESS"
	case OutcomeDefeat:
		return "DEFEAT"
	case OutcomeVictory:
		return "VICTORY"
	case OutcomeTurnLimitReached:
		return "TURN_LIMIT_REACHED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the run is over and no further combat turns
// may be simulated.
func (o Outcome) Terminal() bool {
	return o != OutcomeInProgress
}

// OutcomeFromString maps a wire form back to its Outcome. The bool is
// false for unrecognized values.
func OutcomeFromString(s string) (Outcome, bool) {
	switch s {
	case "IN_PROGRESS":
		return OutcomeInProgress, true
	case "DEFEAT":
		return OutcomeDefeat, true
	case "VICTORY":
		return OutcomeVictory, true
	case "TURN_LIMIT_REACHED":
		return OutcomeTurnLimitReached, true
	default:
		return OutcomeInProgress, false
	}
}

// EvaluateOutcome inspects both rosters and reports whether either side
// has been wiped. Defeat is checked before victory so a run can never
// read as won while every player is down. Turn-limit exhaustion is
// decided by the simulator loop, not here.
func EvaluateOutcome(players, enemies []*Combatant) Outcome {
	if !anyAlive(players) {
		return OutcomeDefeat
	}
	if !anyAlive(enemies) {
		return OutcomeVictory
	}
	return OutcomeInProgress
}
