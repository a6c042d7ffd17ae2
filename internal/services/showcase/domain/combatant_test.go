package domain

import "testing"

func TestApplyDamage(t *testing.T) {
	tcs := []struct {
		name       string
		hp         int
		damage     int
		wantAfter  int
		wantAlive  bool
		wantBefore int
	}{
		{name: "survivable hit", hp: 10, damage: 3, wantBefore: 10, wantAfter: 7, wantAlive: true},
		{name: "exact kill", hp: 4, damage: 4, wantBefore: 4, wantAfter: 0, wantAlive: false},
		{name: "overkill clamps at zero", hp: 2, damage: 9, wantBefore: 2, wantAfter: 0, wantAlive: false},
		{name: "zero damage", hp: 5, damage: 0, wantBefore: 5, wantAfter: 5, wantAlive: true},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			c := Combatant{Name: "x", HP: tc.hp, MaxHP: 10, Alive: tc.hp > 0}
			before, after := c.ApplyDamage(tc.damage)
			if before != tc.wantBefore || after != tc.wantAfter {
				t.Fatalf("ApplyDamage(%d) = (%d, %d), want (%d, %d)", tc.damage, before, after, tc.wantBefore, tc.wantAfter)
			}
			if c.HP != tc.wantAfter || c.Alive != tc.wantAlive {
				t.Fatalf("combatant after damage = (hp %d, alive %t), want (hp %d, alive %t)", c.HP, c.Alive, tc.wantAfter, tc.wantAlive)
			}
		})
	}
}

func TestEvaluateOutcome(t *testing.T) {
	up := func(name string) *Combatant {
		return &Combatant{Name: name, HP: 5, MaxHP: 5, Alive: true}
	}
	down := func(name string) *Combatant {
		return &Combatant{Name: name, HP: 0, MaxHP: 5, Alive: false}
	}

	tcs := []struct {
		name    string
		players []*Combatant
		enemies []*Combatant
		want    Outcome
	}{
		{name: "both sides standing", players: []*Combatant{up("p")}, enemies: []*Combatant{up("e")}, want: OutcomeInProgress},
		{name: "players wiped", players: []*Combatant{down("p")}, enemies: []*Combatant{up("e")}, want: OutcomeDefeat},
		{name: "enemies wiped", players: []*Combatant{up("p")}, enemies: []*Combatant{down("e")}, want: OutcomeVictory},
		{name: "one survivor per side", players: []*Combatant{down("p1"), up("p2")}, enemies: []*Combatant{up("e1"), down("e2")}, want: OutcomeInProgress},
		{name: "defeat beats victory when both wiped", players: []*Combatant{down("p")}, enemies: []*Combatant{down("e")}, want: OutcomeDefeat},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			if got := EvaluateOutcome(tc.players, tc.enemies); got != tc.want {
				t.Fatalf("EvaluateOutcome = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    string
	}{
		{OutcomeInProgress, "IN_PROGRESS"},
		{OutcomeDefeat, "DEFEAT"},
		{OutcomeVictory, "VICTORY"},
		{OutcomeTurnLimitReached, "TURN_LIMIT_REACHED"},
		{Outcome(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.outcome.String(); got != tt.want {
				t.Fatalf("Outcome(%d).String() = %q, want %q", tt.outcome, got, tt.want)
			}
		})
	}
}

func TestOutcomeFromStringRoundTrip(t *testing.T) {
	for _, outcome := range []Outcome{OutcomeInProgress, OutcomeDefeat, OutcomeVictory, OutcomeTurnLimitReached} {
		parsed, ok := OutcomeFromString(outcome.String())
		if !ok || parsed != outcome {
			t.Fatalf("OutcomeFromString(%q) = (%v, %t), want (%v, true)", outcome.String(), parsed, ok, outcome)
		}
	}
	if _, ok := OutcomeFromString("SOMETHING_ELSE"); ok {
		t.Fatal("OutcomeFromString accepted an unknown value")
	}
}

func TestOutcomeTerminal(t *testing.T) {
	if OutcomeInProgress.Terminal() {
		t.Fatal("IN_PROGRESS must not be terminal")
	}
	for _, outcome := range []Outcome{OutcomeDefeat, OutcomeVictory, OutcomeTurnLimitReached} {
		if !outcome.Terminal() {
			t.Fatalf("%v must be terminal", outcome)
		}
	}
}
