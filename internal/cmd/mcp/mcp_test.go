package mcp

import (
	"flag"
	"testing"
)

func TestParseConfigEnvDefaults(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "" {
		t.Fatalf("expected archiving disabled by default, got %q", cfg.DBPath)
	}
}

func TestParseConfigFlagsWinOverEnv(t *testing.T) {
	t.Setenv("AI_DND_MCP_DB_PATH", "env/archive.db")

	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "env/archive.db" {
		t.Fatalf("expected env db path, got %q", cfg.DBPath)
	}

	fs = flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err = ParseConfig(fs, []string{"-db-path", "flag/archive.db"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "flag/archive.db" {
		t.Fatalf("expected flag to win over env, got %q", cfg.DBPath)
	}
}
