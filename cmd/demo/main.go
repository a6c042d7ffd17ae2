// Package main runs one showcase combat simulation in the terminal.
//
// The demo uses the same simulator and narration packs as the server
// and never touches the network.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/ctavolazzi/AI-DnD-sub002/internal/platform/config"

	democmd "github.com/ctavolazzi/AI-DnD-sub002/internal/cmd/demo"
)

func main() {
	cfg, err := democmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := democmd.Run(ctx, cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
