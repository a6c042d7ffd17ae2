// Package scenario loads combat rosters and run settings from lua
// scripts for the demo CLI. A script returns one table:
//
//	return {
//	    name = "Bandit Ambush",
//	    turns = 8,
//	    seed = 42,
//	    party = {
//	        { name = "Kessa", class = "Ranger", hp = 11, guard = 12 },
//	    },
//	    enemies = {
//	        { name = "Bandit", class = "Outlaw", hp = 7, guard = 10, damage_die = 4 },
//	    },
//	}
//
// hp_die and damage_die are optional per combatant; hp_die defaults to 0
// (no variance) and damage_die to 6. seed is optional so callers can pick
// their own.
package scenario

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"

	apperrors "github.com/ctavolazzi/AI-DnD-sub002/internal/platform/errors"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/domain"
)

const (
	minTurns = 1
	maxTurns = 20

	defaultDamageDie = 6
)

// Scenario is a loaded combat setup. HasSeed reports whether the script
// pinned a seed; when false the caller chooses one.
type Scenario struct {
	Name    string
	Turns   int
	Seed    int64
	HasSeed bool
	Roster  domain.Roster
}

// LoadFile runs the lua script at path and decodes the scenario table it
// returns. The file name stands in for a missing scenario name.
func LoadFile(path string) (Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return Scenario{}, apperrors.Wrap(apperrors.CodeScenarioScriptFailure, "load scenario script", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return Scenario{}, apperrors.Wrap(apperrors.CodeScenarioScriptFailure, "run scenario script", err)
	}
	if state.TypeOf(-1) != lua.TypeTable {
		state.Pop(1)
		return Scenario{}, apperrors.New(apperrors.CodeScenarioInvalid, "scenario script must return a table")
	}
	data := decodeFields(state, -1)
	state.Pop(1)

	fallbackName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return scenarioFromTable(fallbackName, data)
}

func scenarioFromTable(fallbackName string, data map[string]any) (Scenario, error) {
	sc := Scenario{Name: fallbackName}

	if raw, ok := data["name"]; ok {
		name, ok := raw.(string)
		if !ok {
			return Scenario{}, apperrors.New(apperrors.CodeScenarioInvalid, "scenario name must be a string")
		}
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			sc.Name = trimmed
		}
	}

	if raw, ok := data["turns"]; ok {
		turns, ok := raw.(int)
		if !ok || turns < minTurns || turns > maxTurns {
			return Scenario{}, apperrors.New(apperrors.CodeScenarioTurnsInvalid,
				fmt.Sprintf("scenario turns must be an integer between %d and %d", minTurns, maxTurns))
		}
		sc.Turns = turns
	}

	if raw, ok := data["seed"]; ok {
		seed, ok := raw.(int)
		if !ok {
			return Scenario{}, apperrors.New(apperrors.CodeScenarioInvalid, "scenario seed must be an integer")
		}
		sc.Seed = int64(seed)
		sc.HasSeed = true
	}

	party, err := rosterEntries(data, "party")
	if err != nil {
		return Scenario{}, err
	}
	enemies, err := rosterEntries(data, "enemies")
	if err != nil {
		return Scenario{}, err
	}
	if len(party) == 0 || len(enemies) == 0 {
		return Scenario{}, apperrors.New(apperrors.CodeScenarioRosterEmpty,
			"scenario must field both a party and enemies")
	}
	sc.Roster = domain.Roster{Party: party, Enemies: enemies}
	return sc, nil
}

func rosterEntries(data map[string]any, key string) ([]domain.RosterEntry, error) {
	raw, ok := data[key]
	if !ok {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, apperrors.New(apperrors.CodeScenarioInvalid,
			fmt.Sprintf("scenario %s must be an array of combatant tables", key))
	}

	entries := make([]domain.RosterEntry, 0, len(list))
	for i, item := range list {
		table, ok := item.(map[string]any)
		if !ok {
			return nil, apperrors.New(apperrors.CodeScenarioCombatantBad,
				fmt.Sprintf("scenario %s entry %d must be a table", key, i+1))
		}
		entry, err := entryFromTable(table)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func entryFromTable(table map[string]any) (domain.RosterEntry, error) {
	name, _ := table["name"].(string)
	name = strings.TrimSpace(name)
	class, _ := table["class"].(string)
	class = strings.TrimSpace(class)

	bad := func(message string) error {
		return apperrors.WithMetadata(apperrors.CodeScenarioCombatantBad, message,
			map[string]string{"Name": name})
	}

	if name == "" {
		return domain.RosterEntry{}, bad("scenario combatant is missing a name")
	}
	if class == "" {
		return domain.RosterEntry{}, bad("scenario combatant is missing a class")
	}

	hp, err := requiredInt(table, "hp")
	if err != nil || hp < 1 {
		return domain.RosterEntry{}, bad("scenario combatant hp must be a positive integer")
	}
	guard, err := requiredInt(table, "guard")
	if err != nil || guard < 1 {
		return domain.RosterEntry{}, bad("scenario combatant guard must be a positive integer")
	}
	hpDie, err := optionalInt(table, "hp_die", 0)
	if err != nil || hpDie < 0 {
		return domain.RosterEntry{}, bad("scenario combatant hp_die must be a non-negative integer")
	}
	damageDie, err := optionalInt(table, "damage_die", defaultDamageDie)
	if err != nil || damageDie < 1 {
		return domain.RosterEntry{}, bad("scenario combatant damage_die must be a positive integer")
	}

	return domain.RosterEntry{
		Name:      name,
		CharClass: class,
		BaseHP:    hp,
		HPDie:     hpDie,
		Guard:     guard,
		DamageDie: damageDie,
	}, nil
}

func requiredInt(table map[string]any, key string) (int, error) {
	raw, ok := table[key]
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}
	value, ok := raw.(int)
	if !ok {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return value, nil
}

func optionalInt(table map[string]any, key string, fallback int) (int, error) {
	raw, ok := table[key]
	if !ok {
		return fallback, nil
	}
	value, ok := raw.(int)
	if !ok {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return value, nil
}
