package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/ctavolazzi/AI-DnD-sub002/internal/core/dice"
	apperrors "github.com/ctavolazzi/AI-DnD-sub002/internal/platform/errors"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/random"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RollDiceSpec describes one homogeneous group of dice to roll.
type RollDiceSpec struct {
	Sides int `json:"sides" jsonschema:"number of sides per die"`
	Count int `json:"count" jsonschema:"how many dice of this size to roll"`
}

// RollDiceInput is the roll_dice tool input.
type RollDiceInput struct {
	Dice []RollDiceSpec `json:"dice" jsonschema:"groups of dice to roll"`
	Seed *int64         `json:"seed,omitempty" jsonschema:"optional seed; the same seed and specs reproduce the same rolls"`
}

// RollDiceRoll reports one spec's outcome.
type RollDiceRoll struct {
	Sides   int   `json:"sides" jsonschema:"number of sides per die"`
	Results []int `json:"results" jsonschema:"face values in draw order"`
	Total   int   `json:"total" jsonschema:"sum of this group's results"`
}

// RollDiceResult is the roll_dice tool output.
type RollDiceResult struct {
	Rolls    []RollDiceRoll `json:"rolls" jsonschema:"per-spec results in request order"`
	Total    int            `json:"total" jsonschema:"grand total across all specs"`
	SeedUsed int64          `json:"seed_used" jsonschema:"seed that produced these rolls"`
}

// RollDiceTool is the roll_dice tool descriptor.
func RollDiceTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_dice",
		Description: "Rolls arbitrary dice pools with a reproducible seed.",
	}
}

// RollDiceHandler executes a seeded dice roll. When the input carries no
// seed the handler picks one and echoes it back, so any roll can be
// replayed by repeating the request with seed_used.
func RollDiceHandler() mcp.ToolHandlerFor[RollDiceInput, RollDiceResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input RollDiceInput) (*mcp.CallToolResult, RollDiceResult, error) {
		var seed int64
		if input.Seed != nil {
			seed = *input.Seed
		} else {
			picked, err := random.NewSeed()
			if err != nil {
				return nil, RollDiceResult{}, fmt.Errorf("pick dice seed: %w", err)
			}
			seed = picked
		}

		specs := make([]dice.Spec, 0, len(input.Dice))
		for _, spec := range input.Dice {
			specs = append(specs, dice.Spec{Sides: spec.Sides, Count: spec.Count})
		}

		result, err := dice.RollDice(dice.Request{Dice: specs, Seed: seed})
		if err != nil {
			return nil, RollDiceResult{}, codedRollError(err)
		}

		rolls := make([]RollDiceRoll, 0, len(result.Rolls))
		for _, roll := range result.Rolls {
			rolls = append(rolls, RollDiceRoll{
				Sides:   roll.Sides,
				Results: roll.Results,
				Total:   roll.Total,
			})
		}

		return nil, RollDiceResult{Rolls: rolls, Total: result.Total, SeedUsed: seed}, nil
	}
}

func codedRollError(err error) error {
	switch {
	case errors.Is(err, dice.ErrMissingDice):
		return apperrors.Wrap(apperrors.CodeDiceMissing, err.Error(), err)
	case errors.Is(err, dice.ErrInvalidDiceSpec):
		return apperrors.Wrap(apperrors.CodeDiceInvalidSpec, err.Error(), err)
	default:
		return fmt.Errorf("dice roll failed: %w", err)
	}
}
