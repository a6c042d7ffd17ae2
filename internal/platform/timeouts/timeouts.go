// Package timeouts collects the deadline constants shared across the
// showcase binaries so the same operation never has two competing
// budgets.
package timeouts

import "time"

// ReadHeader bounds how long the HTTP server waits for a client to send
// request headers.
const ReadHeader = 5 * time.Second

// Shutdown bounds graceful HTTP shutdown; in-flight requests past it
// are dropped.
const Shutdown = 5 * time.Second

// MCPCall bounds a single MCP tool invocation against the in-process
// session manager.
const MCPCall = 10 * time.Second

// ArchiveWrite bounds persisting one completed run record to the
// archive store.
const ArchiveWrite = 5 * time.Second
