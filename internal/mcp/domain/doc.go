// Package domain defines the MCP tools that plan and roll simulated dice.
//
// Handlers are pure functions over a settings snapshot, so the same tool set
// serves any transport.
package domain
