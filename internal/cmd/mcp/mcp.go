// Package mcp parses MCP command flags and composes the stdio entrypoint.
package mcp

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/ctavolazzi/AI-DnD-sub002/internal/platform/cmd"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/mcp/service"
)

// Config carries the settings for the stdio MCP binary.
type Config struct {
	DBPath string `env:"AI_DND_MCP_DB_PATH" envDefault:""`
}

// ParseConfig reads settings from the environment, then lets command
// line flags override them.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "run archive sqlite path (empty disables archiving)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter on stdio.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(context.Context) error {
		if err := service.Run(ctx, service.Config{DBPath: cfg.DBPath}); err != nil {
			return fmt.Errorf("run MCP service: %w", err)
		}
		return nil
	})
}
