package dice

import "math/rand"

// RollDice rolls every spec in the request against a random stream seeded
// from Request.Seed.
//
// The same seed and the same spec slice always yield the same Result,
// which is what makes a combat run or a recorded tool call replayable.
// Specs are rolled in slice order and Result.Rolls preserves that order,
// so the nth roll always answers the nth spec.
//
// RollDice returns ErrMissingDice for an empty request and
// ErrInvalidDiceSpec when any spec has non-positive sides or count.
func RollDice(request Request) (Result, error) {
	rng := rand.New(rand.NewSource(request.Seed))
	return RollWithRng(rng, request.Dice)
}

// RollWithRng rolls the specs against a caller-owned random stream. The
// combat engine feeds one seeded stream through an entire run this way,
// so every attack and hit-point roll draws from the same sequence
// instead of reseeding per call.
func RollWithRng(rng *rand.Rand, specs []Spec) (Result, error) {
	if len(specs) == 0 {
		return Result{}, ErrMissingDice
	}

	result := Result{Rolls: make([]Roll, 0, len(specs))}
	for _, spec := range specs {
		if spec.Sides <= 0 || spec.Count <= 0 {
			return Result{}, ErrInvalidDiceSpec
		}

		roll := Roll{Sides: spec.Sides, Results: make([]int, spec.Count)}
		for i := range roll.Results {
			value := rng.Intn(spec.Sides) + 1
			roll.Results[i] = value
			roll.Total += value
		}

		result.Rolls = append(result.Rolls, roll)
		result.Total += roll.Total
	}
	return result, nil
}
