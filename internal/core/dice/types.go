// Package dice provides deterministic, seedable dice rolling shared by the
// combat engine and the MCP dice tool.
package dice

import "errors"

// ErrMissingDice indicates a roll request without any dice specs.
var ErrMissingDice = errors.New("at least one dice spec is required")

// ErrInvalidDiceSpec indicates a dice spec with a non-positive side or count.
var ErrInvalidDiceSpec = errors.New("dice spec must have positive sides and count")

// Spec describes a homogeneous group of dice to roll.
type Spec struct {
	// Sides is the number of faces per die.
	Sides int
	// Count is how many dice of this size to roll.
	Count int
}

// Request describes a seeded roll of one or more dice specs.
type Request struct {
	// Dice lists the specs to roll, in order.
	Dice []Spec
	// Seed initializes the random stream for this request.
	Seed int64
}

// Roll is the outcome of one Spec.
type Roll struct {
	// Sides echoes the spec's die size.
	Sides int
	// Results holds each die value in roll order.
	Results []int
	// Total is the sum of Results.
	Total int
}

// Result is the outcome of a whole Request.
type Result struct {
	// Rolls mirrors the request specs in order.
	Rolls []Roll
	// Total is the sum of every die rolled.
	Total int
}
