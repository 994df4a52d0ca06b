// Package main runs the dice instructor command loop.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	instructorcmd "github.com/louisbranch/dice-instructor/internal/cmd/instructor"
	"github.com/louisbranch/dice-instructor/internal/platform/config"
	apperrors "github.com/louisbranch/dice-instructor/internal/platform/errors"
)

func main() {
	cfg, err := instructorcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := instructorcmd.Run(ctx, cfg, os.Stdin, os.Stdout, os.Stderr); err != nil {
		config.Exitf("Error: %s", apperrors.UserMessage(err, cfg.Locale))
	}
}
