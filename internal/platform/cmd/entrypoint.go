// Package cmd holds the startup plumbing shared by every command: config
// loading, flag parsing and telemetry lifecycle.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/louisbranch/dice-instructor/internal/platform/config"
	platformotel "github.com/louisbranch/dice-instructor/internal/platform/otel"
	"github.com/louisbranch/dice-instructor/internal/platform/timeouts"
)

// Command names, used for telemetry service names.
const (
	ServiceInstructor = "instructor"
	ServiceMCP        = "mcp"
	ServiceScenario   = "scenario"
)

// ParseConfig loads environment defaults into cfg. Tags name variables
// without the config.EnvPrefix.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses flags over values already loaded by ParseConfig. The
// commands take no positional arguments.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if extra := fs.Args(); len(extra) > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(extra, " "))
	}
	return nil
}

// RunWithTelemetry sets up tracing for service, runs it inside a root span
// and flushes spans once run returns.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) (err error) {
	service = strings.TrimSpace(service)
	switch {
	case service == "":
		return errors.New("service name is required")
	case run == nil:
		return errors.New("run function is required")
	}

	shutdown, err := platformotel.Setup(ctx, ServiceName(service))
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), timeouts.TelemetryShutdown)
		defer cancel()
		if shutdownErr := shutdown(flushCtx); shutdownErr != nil {
			log.Printf("%s otel shutdown: %v", service, shutdownErr)
		}
	}()

	ctx, span := otel.Tracer(ServiceName(service)).Start(ctx, service+".run")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	return run(ctx)
}

// ServiceName returns the telemetry service name for a command.
func ServiceName(service string) string {
	return "dice-instructor-" + strings.TrimSpace(service)
}
