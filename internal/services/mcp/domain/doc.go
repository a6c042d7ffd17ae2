// Package domain translates MCP tool calls into showcase session
// commands. Handlers validate tool input the way the REST facade
// validates requests, route the call to the in-process session manager,
// and shape the answer as structured output MCP clients can render.
//
// Tool results carry the same visible-frame payload the HTTP API
// serves, so a client mixing transports always sees one consistent
// cursor.
package domain
