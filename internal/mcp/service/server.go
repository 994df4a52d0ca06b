// Package service serves the dice tools over MCP.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/dice-instructor/internal/mcp/domain"
	"github.com/louisbranch/dice-instructor/internal/settings"
)

const (
	serverName    = "Dice Instructor MCP"
	serverVersion = "0.1.0"
)

// Config wires the MCP server.
type Config struct {
	// Settings are the defaults for tool calls that do not override them.
	Settings settings.Settings
	// Locale is the default message locale.
	Locale string
}

// New builds the MCP server with every dice tool registered.
func New(cfg Config) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	mcp.AddTool(server, domain.InstructionsTool(), domain.InstructionsHandler(cfg.Settings, cfg.Locale))
	mcp.AddTool(server, domain.RollTool(), domain.RollHandler(cfg.Settings, cfg.Locale))
	return server
}

// Serve runs the server on stdio until the client disconnects or ctx ends.
func Serve(ctx context.Context, cfg Config) error {
	return serveWithTransport(ctx, New(cfg), &mcp.StdioTransport{})
}

// serveWithTransport treats cancellation as a clean stop.
func serveWithTransport(ctx context.Context, server *mcp.Server, transport mcp.Transport) error {
	if server == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	err := server.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
