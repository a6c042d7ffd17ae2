// Package check grades die faces against difficulty numbers. Damage
// policy stays with the caller; this package only decides how well a
// roll did.
package check

// Outcome classifies one resolved check.
type Outcome int

const (
	// OutcomeGraze is a face below the difficulty.
	OutcomeGraze Outcome = iota
	// OutcomeHit is a face that meets or beats the difficulty.
	OutcomeHit
	// OutcomeCrit is the maximal face of the die. It hits no matter how
	// high the difficulty is.
	OutcomeCrit
)

// Result carries the grade of a check and how far the face landed from
// the difficulty. Margin is negative for a graze.
type Result struct {
	Outcome Outcome
	Margin  int
}

// Hit reports whether the check counts as at least a hit.
func (r Result) Hit() bool { return r.Outcome != OutcomeGraze }

// Check grades the face shown by a die with the given number of sides
// against difficulty.
func Check(face, sides, difficulty int) Result {
	result := Result{Outcome: OutcomeGraze, Margin: face - difficulty}
	switch {
	case sides > 0 && face == sides:
		result.Outcome = OutcomeCrit
	case face >= difficulty:
		result.Outcome = OutcomeHit
	}
	return result
}
