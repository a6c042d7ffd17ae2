package domain

import (
	"math/rand"

	"github.com/ctavolazzi/AI-DnD-sub002/internal/core/dice"
)

// RosterEntry seeds one combatant before hit-point variance is rolled.
// MaxHP becomes BaseHP plus one roll of the HPDie when HPDie is positive,
// so a seeded run always fields the same stat lines.
type RosterEntry struct {
	Name      string
	CharClass string
	BaseHP    int
	HPDie     int
	Guard     int
	DamageDie int
}

// Roster fixes both sides of a run before the first turn.
type Roster struct {
	Party   []RosterEntry
	Enemies []RosterEntry
}

// DefaultRoster returns the stock demo party and enemy lineup.
func DefaultRoster() Roster {
	return Roster{
		Party: []RosterEntry{
			{Name: "Aldric", CharClass: "Fighter", BaseHP: 12, HPDie: 8, Guard: 12, DamageDie: 8},
			{Name: "Mira", CharClass: "Wizard", BaseHP: 8, HPDie: 4, Guard: 10, DamageDie: 10},
			{Name: "Tobbin", CharClass: "Rogue", BaseHP: 10, HPDie: 6, Guard: 13, DamageDie: 6},
		},
		Enemies: []RosterEntry{
			{Name: "Goblin Skirmisher", CharClass: "Goblin", BaseHP: 6, HPDie: 4, Guard: 9, DamageDie: 4},
			{Name: "Goblin Archer", CharClass: "Goblin", BaseHP: 5, HPDie: 4, Guard: 10, DamageDie: 4},
			{Name: "Orc Bruiser", CharClass: "Orc", BaseHP: 10, HPDie: 6, Guard: 11, DamageDie: 6},
		},
	}
}

// build rolls the entry's hit-point variance and returns the combatant at
// full health.
func (e RosterEntry) build(rng *rand.Rand) Combatant {
	maxHP := e.BaseHP
	if e.HPDie > 0 {
		result, err := dice.RollWithRng(rng, []dice.Spec{{Sides: e.HPDie, Count: 1}})
		if err != nil {
			// This should be unreachable: the die size is positive here.
			panic(err)
		}
		maxHP += result.Total
	}
	return Combatant{
		Name:      e.Name,
		CharClass: e.CharClass,
		HP:        maxHP,
		MaxHP:     maxHP,
		Alive:     true,
		Guard:     e.Guard,
		DamageDie: e.DamageDie,
	}
}

func buildSide(rng *rand.Rand, entries []RosterEntry) []*Combatant {
	out := make([]*Combatant, len(entries))
	for i, e := range entries {
		c := e.build(rng)
		out[i] = &c
	}
	return out
}
