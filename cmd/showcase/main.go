// Package main starts the showcase HTTP service and handles termination.
//
// The process serves deterministic combat sessions, the run archive, and
// the websocket watch endpoint.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	showcasecmd "github.com/ctavolazzi/AI-DnD-sub002/internal/cmd/showcase"
)

func main() {
	cfg, err := showcasecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[SHOWCASE] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := showcasecmd.Run(ctx, cfg); err != nil {
		log.Fatalf("serve showcase: %v", err)
	}
}
