// Package instructor runs the line-oriented command loop that answers "how
// do I roll a dN with the dice I have".
package instructor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/dice-instructor/internal/platform/errors"
	"github.com/louisbranch/dice-instructor/internal/presenter"
	"github.com/louisbranch/dice-instructor/internal/settings"
)

const tracerName = "github.com/louisbranch/dice-instructor/internal/instructor"

// Config wires an Instructor.
type Config struct {
	// Settings are the initial settings.
	Settings settings.Settings
	// Store persists settings changes. Nil keeps changes in memory.
	Store settings.Store
	// Locale selects the message catalog.
	Locale string
	// Out receives command output.
	Out io.Writer
	// ErrOut receives error messages and timing logs.
	ErrOut io.Writer
}

// Instructor dispatches commands against the current settings.
type Instructor struct {
	settings  settings.Settings
	store     settings.Store
	presenter *presenter.Presenter
	out       io.Writer
	errOut    io.Writer
	logger    *log.Logger
	tracer    trace.Tracer
	now       func() time.Time
	seed      func(input string) (int64, error)
}

// New builds an Instructor. Missing writers discard output.
func New(cfg Config) *Instructor {
	out := cfg.Out
	if out == nil {
		out = io.Discard
	}
	errOut := cfg.ErrOut
	if errOut == nil {
		errOut = io.Discard
	}
	return &Instructor{
		settings:  cfg.Settings,
		store:     cfg.Store,
		presenter: presenter.New(cfg.Locale),
		out:       out,
		errOut:    errOut,
		logger:    log.New(errOut, "", 0),
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
		seed:      resolveSeed,
	}
}

// Settings returns the current settings.
func (i *Instructor) Settings() settings.Settings {
	return i.settings
}

// Locale returns the resolved message locale.
func (i *Instructor) Locale() string {
	return i.presenter.Locale()
}

// Execute runs one command line. It reports stop when the line asks to end
// the session. Blank lines do nothing.
func (i *Instructor) Execute(ctx context.Context, line string) (stop bool, err error) {
	word, args, _ := strings.Cut(strings.TrimSpace(line), " ")
	if word == "" {
		return false, nil
	}
	cmd, ok := commands[word]
	if !ok {
		return false, apperrors.WithMetadata(
			apperrors.CodeCommandUnknown,
			fmt.Sprintf("unknown command %q", word),
			map[string]string{"Command": word},
		)
	}
	args = strings.TrimSpace(args)
	if cmd.needsArgs && args == "" {
		return false, apperrors.WithMetadata(
			apperrors.CodeCommandArgumentMissing,
			fmt.Sprintf("command %s requires arguments", word),
			map[string]string{"Command": word},
		)
	}
	if cmd.stop {
		return true, nil
	}

	ctx, span := i.tracer.Start(ctx, "instructor."+word)
	defer span.End()

	start := i.now()
	err = cmd.run(i, ctx, args)
	i.logger.Printf("command took %dms", i.now().Sub(start).Milliseconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return false, err
}

// Run prints the welcome line and executes commands read from in until the
// exit command, the end of input, or ctx is done. Command errors are reported
// to the error writer and never end the loop.
func (i *Instructor) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines, readErr := readLines(ctx, in)
	i.println(i.presenter.Text("commands.welcome"))
	for {
		fmt.Fprint(i.out, i.presenter.Text("commands.prompt"))
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil && ctx.Err() == nil {
					return fmt.Errorf("read command: %w", err)
				}
				return nil
			}
			stop, err := i.Execute(ctx, line)
			if err != nil {
				i.report(line, err)
			}
			if stop {
				return nil
			}
		}
	}
}

// report writes the localized message for err. Failures that are not caused
// by user input are also logged with their cause.
func (i *Instructor) report(line string, err error) {
	if !apperrors.GetCode(err).Validation() {
		i.logger.Printf("%s: %v", strings.TrimSpace(line), err)
	}
	fmt.Fprintln(i.errOut, apperrors.UserMessage(err, i.Locale()))
}

func (i *Instructor) println(text string) {
	fmt.Fprintln(i.out, text)
}

// readLines feeds lines from in until EOF or ctx is done. The error channel
// receives exactly one value before lines is closed.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				readErr <- ctx.Err()
				return
			}
		}
		readErr <- scanner.Err()
	}()
	return lines, readErr
}
