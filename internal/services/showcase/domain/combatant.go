package domain

// Combatant is the battle-relevant state of one party member or enemy.
// Name and CharClass are fixed at creation. HP and Alive change only
// during round resolution, and Alive always equals HP > 0. Guard and
// DamageDie tune attack resolution and stay out of serialized snapshots.
type Combatant struct {
	Name      string `json:"name"`
	CharClass string `json:"char_class"`
	HP        int    `json:"hp"`
	MaxHP     int    `json:"max_hp"`
	Alive     bool   `json:"alive"`

	Guard     int `json:"-"`
	DamageDie int `json:"-"`
}

// ApplyDamage reduces HP by amount, clamping at zero, and flips the Alive
// flag the moment HP reaches zero. It reports HP before and after the hit.
func (c *Combatant) ApplyDamage(amount int) (before, after int) {
	before = c.HP
	c.HP -= amount
	if c.HP < 0 {
		c.HP = 0
	}
	c.Alive = c.HP > 0
	return before, c.HP
}

// snapshotAll copies combatants by value so frames never alias live state.
func snapshotAll(combatants []*Combatant) []Combatant {
	out := make([]Combatant, len(combatants))
	for i, c := range combatants {
		out[i] = *c
	}
	return out
}

// firstAlive returns the first living combatant in roster order, or nil
// when the whole side is down.
func firstAlive(combatants []*Combatant) *Combatant {
	for _, c := range combatants {
		if c.Alive {
			return c
		}
	}
	return nil
}

func anyAlive(combatants []*Combatant) bool {
	return firstAlive(combatants) != nil
}

func names(combatants []*Combatant) []string {
	out := make([]string, len(combatants))
	for i, c := range combatants {
		out[i] = c.Name
	}
	return out
}
