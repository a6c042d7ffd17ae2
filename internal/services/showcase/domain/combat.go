package domain

import (
	"math/rand"

	"github.com/ctavolazzi/AI-DnD-sub002/internal/core/check"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/core/dice"
)

// resolveRound plays one full round: every living player strikes the
// first living enemy in roster order, then every living enemy strikes
// back the same way. The round ends the moment one side is wiped, and
// every attack lands at least a point of damage, so a round between two
// standing sides always moves someone's hit points.
func resolveRound(rng *rand.Rand, narrator *Narrator, players, enemies []*Combatant) []string {
	events := attackPhase(rng, narrator, players, enemies, nil)
	return attackPhase(rng, narrator, enemies, players, events)
}

func attackPhase(rng *rand.Rand, narrator *Narrator, attackers, defenders []*Combatant, events []string) []string {
	for _, attacker := range attackers {
		if !attacker.Alive {
			continue
		}
		defender := firstAlive(defenders)
		if defender == nil {
			return events
		}
		events = append(events, resolveAttack(rng, narrator, attacker, defender)...)
	}
	return events
}

// attackDieSides is the die every attack is rolled on.
const attackDieSides = 20

// resolveAttack rolls a d20 against the defender's guard. Meeting the
// guard lands one roll of the attacker's damage die and a natural 20
// lands two. A miss still grazes for a single point, so hit points only
// ever move toward zero.
func resolveAttack(rng *rand.Rand, narrator *Narrator, attacker, defender *Combatant) []string {
	attackRoll, err := dice.RollWithRng(rng, []dice.Spec{{Sides: attackDieSides, Count: 1}})
	if err != nil {
		// This should be unreachable: the d20 spec is hardcoded and valid.
		panic(err)
	}

	grade := check.Check(attackRoll.Total, attackDieSides, defender.Guard)

	var damage int
	var action string
	switch {
	case grade.Outcome == check.OutcomeCrit:
		damage = rollDamage(rng, attacker.DamageDie, 2)
		action = narrator.templates.ActionCrit
	case grade.Hit():
		damage = rollDamage(rng, attacker.DamageDie, 1)
		action = narrator.templates.ActionHit
	default:
		damage = 1
		action = narrator.templates.ActionGraze
	}

	defender.ApplyDamage(damage)
	events := []string{narrator.CombatLine(attacker.Name, defender.Name, action, damage)}
	if !defender.Alive {
		events = append(events, narrator.FallLine(defender.Name))
	}
	return events
}

func rollDamage(rng *rand.Rand, sides, count int) int {
	result, err := dice.RollWithRng(rng, []dice.Spec{{Sides: sides, Count: count}})
	if err != nil {
		// This should be unreachable: damage dice are validated at setup.
		panic(err)
	}
	return result.Total
}
