// Package domain contains the deterministic combat showcase mechanics.
//
// This package provides the pure logic for one simulated adventure run:
//
//   - Combatant state (hit points, alive flag, per-class combat tuning)
//   - Round resolution (attack rolls, damage, defeat detection)
//   - The Narrator, a deterministic template cycler standing in for an
//     LLM-backed storyteller
//   - The Simulator, which plays a full run eagerly and emits an
//     immutable frame timeline
//
// Everything here is synchronous and in-memory. Randomness comes from an
// instance-local source seeded at construction, so two runs built with
// the same seed and turn limit produce identical timelines regardless of
// what happens in other goroutines. The mechanics are built on top of the
// generic primitives in internal/core/dice.
package domain
