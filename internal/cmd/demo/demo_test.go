package demo

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Turns != 6 {
		t.Fatalf("expected default turns 6, got %d", cfg.Turns)
	}
	if cfg.Seed != 0 {
		t.Fatalf("expected seed 0 (pick one), got %d", cfg.Seed)
	}
	if cfg.Lang != "en-US" {
		t.Fatalf("expected default lang en-US, got %q", cfg.Lang)
	}
	if cfg.Scenario != "" {
		t.Fatalf("expected no scenario by default, got %q", cfg.Scenario)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("AI_DND_DEMO_TURNS", "9")
	t.Setenv("AI_DND_DEMO_LANG", "pt-BR")

	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-seed", "42", "-turns", "4"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Turns != 4 {
		t.Fatalf("expected flag to win over env, got turns %d", cfg.Turns)
	}
	if cfg.Seed != 42 {
		t.Fatalf("expected seed 42, got %d", cfg.Seed)
	}
	if cfg.Lang != "pt-BR" {
		t.Fatalf("expected env lang pt-BR, got %q", cfg.Lang)
	}
}

func TestRunRendersStockRun(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), Config{Turns: 3, Seed: 11, Lang: "en-US"}, &out)
	if err != nil {
		t.Fatalf("run demo: %v", err)
	}

	rendered := out.String()
	for _, want := range []string{
		"Running 3 turns with seed 11",
		"Quest: ",
		"Turn 1",
		"Final turn ",
		"Party",
		"Enemies",
		"Aldric the Fighter",
		"Outcome: ",
		"Conclusion: ",
	} {
		if !strings.Contains(rendered, want) {
			t.Errorf("expected output to contain %q\noutput:\n%s", want, rendered)
		}
	}
}

func TestRunIsDeterministicPerSeed(t *testing.T) {
	render := func() string {
		var out bytes.Buffer
		if err := Run(context.Background(), Config{Turns: 5, Seed: 21, Lang: "en-US"}, &out); err != nil {
			t.Fatalf("run demo: %v", err)
		}
		return out.String()
	}
	if render() != render() {
		t.Error("expected identical output for one seed")
	}
}

func TestRunPicksSeedWhenZero(t *testing.T) {
	var out bytes.Buffer
	if err := Run(context.Background(), Config{Turns: 3, Lang: "en-US"}, &out); err != nil {
		t.Fatalf("run demo: %v", err)
	}
	if strings.Contains(out.String(), "with seed 0") {
		t.Error("expected a picked seed, got seed 0 in the header")
	}
}

func TestRunLocalizesOutput(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), Config{Turns: 3, Seed: 11, Lang: "pt-BR"}, &out)
	if err != nil {
		t.Fatalf("run demo: %v", err)
	}

	rendered := out.String()
	for _, want := range []string{
		"Executando 3 turnos com semente 11",
		"Missão: ",
		"Conclusão: ",
	} {
		if !strings.Contains(rendered, want) {
			t.Errorf("expected output to contain %q\noutput:\n%s", want, rendered)
		}
	}
}

func TestRunRejectsUnknownLanguage(t *testing.T) {
	err := Run(context.Background(), Config{Turns: 3, Seed: 11, Lang: "fr-FR"}, nil)
	if err == nil {
		t.Fatal("expected error for unsupported language")
	}
}

func TestRunLoadsScenario(t *testing.T) {
	script := `return {
  name = "Cave Ambush",
  turns = 4,
  seed = 17,
  party = {
    { name = "Kessa", class = "Ranger", hp = 11, guard = 12 },
  },
  enemies = {
    { name = "Cave Bat", class = "Beast", hp = 5, guard = 9 },
  },
}`
	path := filepath.Join(t.TempDir(), "cave.lua")
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	var out bytes.Buffer
	err := Run(context.Background(), Config{Turns: 6, Lang: "en-US", Scenario: path}, &out)
	if err != nil {
		t.Fatalf("run demo: %v", err)
	}

	rendered := out.String()
	for _, want := range []string{
		"Loaded scenario Cave Ambush",
		"Running 4 turns with seed 17",
		"Kessa the Ranger",
		"Cave Bat the Beast",
	} {
		if !strings.Contains(rendered, want) {
			t.Errorf("expected output to contain %q\noutput:\n%s", want, rendered)
		}
	}
}

func TestRunExplicitSeedBeatsScenario(t *testing.T) {
	script := `return {
  name = "Seeded",
  seed = 17,
  party = { { name = "Kessa", class = "Ranger", hp = 11, guard = 12 } },
  enemies = { { name = "Cave Bat", class = "Beast", hp = 5, guard = 9 } },
}`
	path := filepath.Join(t.TempDir(), "seeded.lua")
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	var out bytes.Buffer
	err := Run(context.Background(), Config{Turns: 3, Seed: 5, Lang: "en-US", Scenario: path}, &out)
	if err != nil {
		t.Fatalf("run demo: %v", err)
	}
	if !strings.Contains(out.String(), "with seed 5") {
		t.Errorf("expected the explicit seed to win, output:\n%s", out.String())
	}
}

func TestRunRejectsBrokenScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.lua")
	if err := os.WriteFile(path, []byte(`return "not a table"`), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	err := Run(context.Background(), Config{Turns: 3, Seed: 11, Lang: "en-US", Scenario: path}, nil)
	if err == nil {
		t.Fatal("expected error for a scenario that is not a table")
	}
}
