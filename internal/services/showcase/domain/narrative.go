package domain

import (
	"strconv"
	"strings"
)

// Templates is the fixed, ordered narration pack behind a Narrator. The
// list fields are cycled in round-robin order and the single-string
// fields are used verbatim. Placeholders are substituted literally:
// {location}, {party}, {attacker}, {defender}, {action}, {damage},
// {player}, {context}, {name}.
type Templates struct {
	Scenes      []string
	Locations   []string
	Quests      []string
	Intros      []string
	Encounters  []string
	Combat      []string
	Dialogue    []string
	Actions     []string
	Contexts    []string
	Conclusions []string

	ActionHit    string
	ActionCrit   string
	ActionGraze  string
	Fall         string
	VictoryLine  string
	DefeatLine   string
	StandoffLine string
}

// Narrator produces deterministic narration by cycling each template list
// with its own counter. Cycling order is the only source of variation, so
// identical call sequences yield identical text. A Narrator performs no
// I/O and holds no randomness; restart it by constructing a new one.
type Narrator struct {
	templates Templates

	sceneIdx      int
	locationIdx   int
	questIdx      int
	introIdx      int
	encounterIdx  int
	combatIdx     int
	dialogueIdx   int
	actionIdx     int
	contextIdx    int
	conclusionIdx int
}

// NewNarrator returns a Narrator cycling the provided pack from the top.
func NewNarrator(templates Templates) *Narrator {
	return &Narrator{templates: templates}
}

func next(list []string, idx *int) string {
	if len(list) == 0 {
		return ""
	}
	out := list[*idx%len(list)]
	*idx++
	return out
}

func fill(template string, pairs ...string) string {
	return strings.NewReplacer(pairs...).Replace(template)
}

// Scene returns the next scene description, set in the next location.
func (n *Narrator) Scene() string {
	location := next(n.templates.Locations, &n.locationIdx)
	return fill(next(n.templates.Scenes, &n.sceneIdx), "{location}", location)
}

// QuestHook returns the next quest hook for the named party.
func (n *Narrator) QuestHook(party []string) string {
	return fill(next(n.templates.Quests, &n.questIdx), "{party}", strings.Join(party, ", "))
}

// Intro returns the next introduction line for the named party.
func (n *Narrator) Intro(party []string) string {
	return fill(next(n.templates.Intros, &n.introIdx), "{party}", strings.Join(party, ", "))
}

// Encounter returns the next random-encounter flavor line. Encounters
// never mutate combat state.
func (n *Narrator) Encounter() string {
	return next(n.templates.Encounters, &n.encounterIdx)
}

// CombatLine narrates one resolved attack.
func (n *Narrator) CombatLine(attacker, defender, action string, damage int) string {
	return fill(next(n.templates.Combat, &n.combatIdx),
		"{attacker}", attacker,
		"{defender}", defender,
		"{action}", action,
		"{damage}", strconv.Itoa(damage),
	)
}

// Dialogue returns the next in-character line for the named player,
// pairing independently cycled actions and contexts.
func (n *Narrator) Dialogue(player string) string {
	return fill(next(n.templates.Dialogue, &n.dialogueIdx),
		"{player}", player,
		"{action}", next(n.templates.Actions, &n.actionIdx),
		"{context}", next(n.templates.Contexts, &n.contextIdx),
	)
}

// Conclusion returns the next closing line.
func (n *Narrator) Conclusion() string {
	return next(n.templates.Conclusions, &n.conclusionIdx)
}

// FallLine narrates a combatant dropping to zero hit points.
func (n *Narrator) FallLine(name string) string {
	return fill(n.templates.Fall, "{name}", name)
}

// OutcomeLine announces a terminal outcome on the final frame.
func (n *Narrator) OutcomeLine(outcome Outcome) string {
	switch outcome {
	case OutcomeVictory:
		return n.templates.VictoryLine
	case OutcomeDefeat:
		return n.templates.DefeatLine
	default:
		return n.templates.StandoffLine
	}
}
