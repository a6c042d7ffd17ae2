package scenario

import (
	"math"

	"github.com/Shopify/go-lua"
)

// decodeValue converts the lua value at index into the Go value the scenario
// decoder works with: strings, numbers, booleans, slices, and maps.
// Anything else decodes as nil and fails validation later with a clear
// message instead of failing here.
func decodeValue(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return intOrFloat(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return decodeTable(state, index)
	default:
		return nil
	}
}

// decodeTable decodes a lua table as a []any when its keys form the
// contiguous range 1..n, and as a map[string]any otherwise. Scenario
// scripts use both shapes: arrays for rosters, maps for combatants.
func decodeTable(state *lua.State, index int) any {
	if state.TypeOf(index) != lua.TypeTable {
		return nil
	}
	index = state.AbsIndex(index)

	if n := sequenceLength(state, index); n > 0 {
		items := make([]any, 0, n)
		for i := 1; i <= n; i++ {
			state.RawGetInt(index, i)
			items = append(items, decodeValue(state, -1))
			state.Pop(1)
		}
		return items
	}
	return decodeFields(state, index)
}

// sequenceLength returns n when the table at index has exactly the keys
// 1..n, and -1 otherwise. It bails out of the iteration on the first
// non-positive or non-integer key, popping the pending key and value to
// keep the stack balanced.
func sequenceLength(state *lua.State, index int) int {
	count := 0
	highest := 0

	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) != lua.TypeNumber {
			state.Pop(2)
			return -1
		}
		key, ok := state.ToInteger(-2)
		if !ok || key < 1 {
			state.Pop(2)
			return -1
		}
		count++
		if key > highest {
			highest = key
		}
		state.Pop(1)
	}

	if count == 0 || highest != count {
		return -1
	}
	return count
}

// decodeFields collects the string-keyed pairs of the table at index.
// Numeric keys in a mixed table are dropped rather than guessed at.
func decodeFields(state *lua.State, index int) map[string]any {
	fields := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return fields
	}
	index = state.AbsIndex(index)

	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			fields[key] = decodeValue(state, -1)
		}
		state.Pop(1)
	}
	return fields
}

// intOrFloat keeps lua integers as Go ints so counts and seeds
// survive the float round-trip.
func intOrFloat(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
