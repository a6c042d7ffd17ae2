// Package service runs the MCP server over stdio.
//
// It is the transport adapter layer: the package assembles the session
// manager, registers tools and resources, and delegates business meaning
// to the handlers in the MCP domain package.
package service
