package domain

import "github.com/ctavolazzi/AI-DnD-sub002/internal/platform/timeouts"

// callTimeout caps the time for a single manager call from an MCP tool
// handler. Session creation runs a full simulation plus an archive write,
// so it gets the shared MCP call budget rather than an ad-hoc one.
const callTimeout = timeouts.MCPCall
