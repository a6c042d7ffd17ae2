package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctavolazzi/AI-DnD-sub002/internal/platform/branding"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/mcp/domain"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/session"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/storage/sqlite"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// implementation describes this server in the MCP handshake.
func implementation() *mcp.Implementation {
	return &mcp.Implementation{Name: branding.AppName + " MCP", Version: "0.1.0"}
}

// Config carries MCP server settings.
type Config struct {
	// DBPath locates the run archive database. Empty disables archiving
	// and sessions then live only in memory.
	DBPath string
}

// Server hosts the showcase tool surface for MCP clients. It owns a
// private session manager, so sessions created over stdio are separate
// from any HTTP server's table.
type Server struct {
	mcpServer *mcp.Server
	manager   *session.Manager
	store     *sqlite.Store
}

// NewServer assembles the session manager, the optional run archive, and
// the tool and resource registrations.
func NewServer(cfg Config) (*Server, error) {
	var store *sqlite.Store
	managerCfg := session.Config{}

	if path := strings.TrimSpace(cfg.DBPath); path != "" {
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
		opened, err := sqlite.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open archive store: %w", err)
		}
		store = opened
		managerCfg.Archive = opened
	}

	manager := session.NewManager(managerCfg)

	mcpServer := mcp.NewServer(implementation(), nil)

	mcp.AddTool(mcpServer, domain.SessionCreateTool(), domain.SessionCreateHandler(manager))
	mcp.AddTool(mcpServer, domain.SessionGetTool(), domain.SessionGetHandler(manager))
	mcp.AddTool(mcpServer, domain.SessionAdvanceTool(), domain.SessionAdvanceHandler(manager))
	mcp.AddTool(mcpServer, domain.SessionListTool(), domain.SessionListHandler(manager))
	mcp.AddTool(mcpServer, domain.RollDiceTool(), domain.RollDiceHandler())

	mcpServer.AddResourceTemplate(domain.SessionResourceTemplate(), domain.SessionResourceHandler(manager))
	mcpServer.AddResource(domain.SessionListResource(), domain.SessionListResourceHandler(manager))

	return &Server{mcpServer: mcpServer, manager: manager, store: store}, nil
}

// ensureParentDir creates the directory that will hold path, when the
// path names one.
func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}
	return nil
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serve(ctx, &mcp.StdioTransport{})
}

// ready reports whether the server was assembled by NewServer.
func (s *Server) ready() bool {
	return s != nil && s.mcpServer != nil
}

// serve runs the MCP loop on the given transport, then closes the
// archive store. Serve failures and close failures are both reported.
func (s *Server) serve(ctx context.Context, transport mcp.Transport) error {
	if !s.ready() {
		return errors.New("MCP server is not assembled")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	runErr := ignoreCancellation(s.mcpServer.Run(ctx, transport))
	if runErr != nil {
		runErr = fmt.Errorf("run MCP transport: %w", runErr)
	}
	if closeErr := s.Close(); closeErr != nil {
		if runErr != nil {
			return fmt.Errorf("%v; close archive store: %w", runErr, closeErr)
		}
		return fmt.Errorf("close archive store: %w", closeErr)
	}
	return runErr
}

// ignoreCancellation treats a context-driven stop as a clean exit.
func ignoreCancellation(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil
	}
	return err
}

// Close releases the archive store. It is safe to call more than once.
func (s *Server) Close() error {
	if s == nil {
		return nil
	}
	store := s.store
	s.store = nil
	if store == nil {
		return nil
	}
	return store.Close()
}

// Run is the service entrypoint for MCP and blocks until context
// cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := NewServer(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}
