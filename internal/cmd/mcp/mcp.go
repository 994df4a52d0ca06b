// Package mcp parses MCP command flags and serves the dice tools on stdio
// or HTTP.
package mcp

import (
	"context"
	"flag"
	"fmt"

	"github.com/louisbranch/dice-instructor/internal/mcp/service"
	entrypoint "github.com/louisbranch/dice-instructor/internal/platform/cmd"
	"github.com/louisbranch/dice-instructor/internal/settings"
)

const (
	transportStdio = "stdio"
	transportHTTP  = "http"
)

// Config holds MCP command configuration. The settings are the defaults of
// tool calls that do not override them.
type Config struct {
	AvailableDice string `env:"AVAILABLE_DICE" envDefault:"4,6,8,10,12,20,100"`
	MaxRollCount  int    `env:"MAX_ROLL_COUNT" envDefault:"3"`
	Locale        string `env:"LOCALE"         envDefault:"en-US"`
	HTTPAddr      string `env:"MCP_HTTP_ADDR"  envDefault:"localhost:8081"`
	Transport     string `env:"MCP_TRANSPORT"  envDefault:"stdio"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.AvailableDice, "dice", cfg.AvailableDice, "default available dice sides")
	fs.IntVar(&cfg.MaxRollCount, "max-roll-count", cfg.MaxRollCount, "default maximum number of dice in a compound roll")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "default message locale")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) serviceConfig() (service.Config, error) {
	available, err := settings.ParseDiceList(c.AvailableDice)
	if err != nil {
		return service.Config{}, err
	}
	defaults, err := settings.New(available, c.MaxRollCount)
	if err != nil {
		return service.Config{}, err
	}
	return service.Config{Settings: defaults, Locale: c.Locale}, nil
}

// Run serves the MCP tools until the client disconnects or ctx ends.
func Run(ctx context.Context, cfg Config) error {
	serviceCfg, err := cfg.serviceConfig()
	if err != nil {
		return fmt.Errorf("configure settings: %w", err)
	}
	var serve func(context.Context) error
	switch cfg.Transport {
	case transportStdio:
		serve = func(ctx context.Context) error { return service.Serve(ctx, serviceCfg) }
	case transportHTTP:
		serve = func(ctx context.Context) error { return service.ServeHTTP(ctx, serviceCfg, cfg.HTTPAddr) }
	default:
		return fmt.Errorf("unknown transport %q (want %s or %s)", cfg.Transport, transportStdio, transportHTTP)
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, serve)
}
