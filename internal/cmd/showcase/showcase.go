// Package showcase parses showcase command flags and composes the HTTP
// entrypoint.
package showcase

import (
	"context"
	"flag"
	"fmt"
	"time"

	entrypoint "github.com/ctavolazzi/AI-DnD-sub002/internal/platform/cmd"
	server "github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/app"
)

// Config carries the settings for the showcase HTTP binary.
type Config struct {
	HTTPAddr      string        `env:"AI_DND_SHOWCASE_HTTP_ADDR" envDefault:":8080"`
	DBPath        string        `env:"AI_DND_SHOWCASE_DB_PATH"   envDefault:"data/showcase.db"`
	SessionTTL    time.Duration `env:"AI_DND_SESSION_TTL"        envDefault:"30m"`
	SessionCap    int           `env:"AI_DND_SESSION_CAP"        envDefault:"0"`
	SweepSchedule string        `env:"AI_DND_SESSION_SWEEP"      envDefault:"@every 1m"`
}

// ParseConfig reads settings from the environment, then lets command
// line flags override them.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "showcase HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "run archive sqlite path")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "evict sessions idle longer than this (0 disables)")
	fs.IntVar(&cfg.SessionCap, "session-cap", cfg.SessionCap, "maximum live sessions kept (0 unbounded)")
	fs.StringVar(&cfg.SweepSchedule, "session-sweep", cfg.SweepSchedule, "cron schedule for the idle-session sweep")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run builds the showcase app and serves it.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceShowcase, func(context.Context) error {
		if err := server.Run(ctx, server.Config{
			HTTPAddr:      cfg.HTTPAddr,
			DBPath:        cfg.DBPath,
			SessionTTL:    cfg.SessionTTL,
			SessionCap:    cfg.SessionCap,
			SweepSchedule: cfg.SweepSchedule,
		}); err != nil {
			return fmt.Errorf("serve showcase: %w", err)
		}
		return nil
	})
}
