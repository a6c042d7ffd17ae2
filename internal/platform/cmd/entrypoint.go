// Package cmd holds the startup helpers shared by every binary: config
// loading, flag parsing, and telemetry bring-up around the run loop.
package cmd

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/ctavolazzi/AI-DnD-sub002/internal/platform/config"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/platform/otel"
)

// otelShutdownTimeout bounds how long a stopping service waits for the
// trace exporter to flush.
const otelShutdownTimeout = 5 * time.Second

// Service names used for telemetry resources and log prefixes.
const (
	ServiceShowcase = "showcase"
	ServiceMCP      = "mcp"
	ServiceDemo     = "demo"
)

// ParseConfig fills cfg from environment variables.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config destination must not be nil")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags. Commands call it after ParseConfig
// has applied environment defaults, so flags win over the environment.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag set must not be nil")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// RunWithTelemetry brings up the OpenTelemetry provider for the named
// service, invokes run, and flushes telemetry on the way out.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return errors.New("service name must not be empty")
	}
	if run == nil {
		return errors.New("run function must not be nil")
	}

	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.Printf("%s: flush traces: %v", service, err)
		}
	}()

	return run(ctx)
}
