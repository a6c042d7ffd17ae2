// Package demo parses demo command flags and renders one simulation run
// to a terminal.
package demo

import (
	"context"
	"flag"
	"fmt"
	"io"

	entrypoint "github.com/ctavolazzi/AI-DnD-sub002/internal/platform/cmd"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/random"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/domain"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/i18n"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/scenario"
	"golang.org/x/text/message"
)

// Config holds demo command configuration.
type Config struct {
	Turns    int    `env:"AI_DND_DEMO_TURNS" envDefault:"6"`
	Seed     int64  `env:"AI_DND_DEMO_SEED"  envDefault:"0"`
	Lang     string `env:"AI_DND_DEMO_LANG"  envDefault:"en-US"`
	Scenario string `env:"AI_DND_DEMO_SCENARIO"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.IntVar(&cfg.Turns, "turns", cfg.Turns, "combat turns to simulate (a scenario's turn count wins)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 picks one; repeat a seed to replay a run)")
	fs.StringVar(&cfg.Lang, "lang", cfg.Lang, "narration language (en-US or pt-BR)")
	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to a lua scenario file (empty uses the stock roster)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run simulates one showcase run and renders every frame to out. The
// whole timeline is computed before anything prints, the same as the
// server does it.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}

	tag, ok := i18n.ParseTag(cfg.Lang)
	if cfg.Lang != "" && !ok {
		return fmt.Errorf("language %q is not supported", cfg.Lang)
	}
	locale := i18n.Locale(tag)
	printer := i18n.Printer(tag)
	line := func(key message.Reference, args ...any) {
		printer.Fprintf(out, key, args...)
		fmt.Fprintln(out)
	}

	turns := cfg.Turns
	seed := cfg.Seed
	roster := domain.Roster{}

	if cfg.Scenario != "" {
		loaded, err := scenario.LoadFile(cfg.Scenario)
		if err != nil {
			return fmt.Errorf("load scenario: %w", err)
		}
		roster = loaded.Roster
		if loaded.Turns > 0 {
			turns = loaded.Turns
		}
		if seed == 0 && loaded.HasSeed {
			seed = loaded.Seed
		}
		line("showcase.scenario_loaded", loaded.Name)
	}
	if seed == 0 {
		picked, err := random.NewSeed()
		if err != nil {
			return fmt.Errorf("pick seed: %w", err)
		}
		seed = picked
	}

	sim, err := domain.NewSimulator(domain.Config{
		Turns:     turns,
		Seed:      seed,
		Roster:    roster,
		Templates: i18n.PackForLocale(locale),
	})
	if err != nil {
		return fmt.Errorf("set up simulation: %w", err)
	}
	result := sim.Run()

	line("showcase.run_header", turns, seed)
	line("showcase.quest", result.QuestHook)

	for _, frame := range result.Frames {
		fmt.Fprintln(out)
		switch {
		case frame.IsFinal:
			line("showcase.final_turn", frame.Turn)
		case frame.Turn > 0:
			line("showcase.turn", frame.Turn)
		}
		for _, event := range frame.NewEvents {
			fmt.Fprintf(out, "  %s\n", event)
		}
		if !frame.IsFinal {
			renderRoster(out, printer, frame)
		}
	}

	fmt.Fprintln(out)
	line("showcase.outcome", result.Outcome.String())
	line("showcase.conclusion", result.Conclusion)
	return nil
}

func renderRoster(out io.Writer, printer *message.Printer, frame domain.TurnFrame) {
	sides := []struct {
		key     string
		members []domain.Combatant
	}{
		{"showcase.party", frame.Players},
		{"showcase.enemies", frame.Enemies},
	}
	for _, side := range sides {
		printer.Fprintf(out, side.key)
		fmt.Fprintln(out)
		for _, member := range side.members {
			fmt.Fprint(out, "  ")
			if member.Alive {
				printer.Fprintf(out, "showcase.combatant_line", member.Name, member.CharClass, member.HP, member.MaxHP)
			} else {
				printer.Fprintf(out, "showcase.combatant_down", member.Name, member.CharClass)
			}
			fmt.Fprintln(out)
		}
	}
}
