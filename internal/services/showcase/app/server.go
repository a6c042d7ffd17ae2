// Package server hosts the showcase HTTP process: the session manager,
// the sqlite run archive, the websocket watch hub, and the idle-session
// sweep.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ctavolazzi/AI-DnD-sub002/internal/platform/timeouts"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/api/rest"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/session"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/storage/sqlite"
)

const defaultDBPath = "data/showcase.db"

// Config defines the inputs for the showcase transport boundary.
type Config struct {
	HTTPAddr          string
	DBPath            string
	SessionTTL        time.Duration
	SessionCap        int
	SweepSchedule     string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Server hosts the showcase HTTP process.
type Server struct {
	httpAddr        string
	shutdownTimeout time.Duration
	httpServer      *http.Server
	store           *sqlite.Store
	manager         *session.Manager
	sweeper         *cron.Cron
}

// withDefaults fills unset timeouts and the archive path.
func (c Config) withDefaults() Config {
	if c.ReadHeaderTimeout <= 0 {
		c.ReadHeaderTimeout = timeouts.ReadHeader
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = timeouts.Shutdown
	}
	if strings.TrimSpace(c.DBPath) == "" {
		c.DBPath = defaultDBPath
	}
	return c
}

// NewServer wires the session manager, archive store, and watch hub into
// an HTTP server. The idle-session sweep only runs when a TTL or a
// capacity is configured.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http listen address is required")
	}
	config = config.withDefaults()
	dbPath := strings.TrimSpace(config.DBPath)

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create archive dir: %w", err)
		}
	}
	store, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open archive store: %w", err)
	}

	hub := rest.NewHub()
	manager := session.NewManager(session.Config{
		Archive:   store,
		OnAdvance: hub.Broadcast,
	})

	var sweeper *cron.Cron
	if config.SessionTTL > 0 || config.SessionCap > 0 {
		schedule := strings.TrimSpace(config.SweepSchedule)
		if schedule == "" {
			schedule = "@every 1m"
		}
		ttl, capacity := config.SessionTTL, config.SessionCap
		sweeper = cron.New()
		if _, err := sweeper.AddFunc(schedule, func() {
			if removed := manager.EvictIdle(ttl, capacity); removed > 0 {
				log.Printf("session sweep evicted %d sessions", removed)
			}
		}); err != nil {
			if closeErr := store.Close(); closeErr != nil {
				log.Printf("close archive store: %v", closeErr)
			}
			return nil, fmt.Errorf("schedule session sweep %q: %w", schedule, err)
		}
		sweeper.Start()
	}

	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           rest.NewHandler(manager, store, hub),
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}

	return &Server{
		httpAddr:        httpAddr,
		shutdownTimeout: config.ShutdownTimeout,
		httpServer:      httpServer,
		store:           store,
		manager:         manager,
		sweeper:         sweeper,
	}, nil
}

// Run builds the showcase app and serves it until ctx is canceled.
func Run(ctx context.Context, config Config) error {
	server, err := NewServer(config)
	if err != nil {
		return fmt.Errorf("init showcase server: %w", err)
	}
	defer server.Close()

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve showcase: %w", err)
	}
	return nil
}

// ListenAndServe serves HTTP until ctx is canceled, then shuts down
// gracefully within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("showcase server is nil")
	}
	if ctx == nil {
		return errors.New("context must not be nil")
	}

	failed := make(chan error, 1)
	log.Printf("showcase server listening on %s", s.httpAddr)
	go func() {
		failed <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return s.shutdown()
	case err := <-failed:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// shutdown drains in-flight requests within the configured timeout.
func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("stop http server: %w", err)
	}
	return nil
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.sweeper != nil {
		<-s.sweeper.Stop().Done()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close archive store: %v", err)
		}
	}
}
