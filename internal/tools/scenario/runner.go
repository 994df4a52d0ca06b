package scenario

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/louisbranch/dice-instructor/internal/instructor"
	apperrors "github.com/louisbranch/dice-instructor/internal/platform/errors"
	"github.com/louisbranch/dice-instructor/internal/platform/timeouts"
	"github.com/louisbranch/dice-instructor/internal/settings"
)

// AssertionMode controls how failed expectations are handled.
type AssertionMode int

const (
	// AssertionStrict stops the scenario at the first failed expectation.
	AssertionStrict AssertionMode = iota
	// AssertionLogOnly logs failed expectations and keeps going.
	AssertionLogOnly
)

// ParseAssertionMode parses "strict" or "log".
func ParseAssertionMode(value string) (AssertionMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "strict":
		return AssertionStrict, nil
	case "log":
		return AssertionLogOnly, nil
	default:
		return AssertionStrict, fmt.Errorf("unknown assertion mode %q", value)
	}
}

// Config controls scenario execution.
type Config struct {
	Timeout    time.Duration
	Assertions AssertionMode
	Verbose    bool
	Logger     *log.Logger
	// Settings are the starting settings of every scenario.
	Settings settings.Settings
	Locale   string
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:    timeouts.ScenarioStep,
		Assertions: AssertionStrict,
		Settings:   settings.Default(),
		Locale:     "en-US",
	}
}

// Runner executes scenarios against an in-process instructor.
type Runner struct {
	assertions AssertionMode
	logger     *log.Logger
	verbose    bool
	timeout    time.Duration
	settings   settings.Settings
	locale     string
	failures   int
}

type scenarioState struct {
	instructor *instructor.Instructor
	out        *bytes.Buffer
	lastOutput string
	lastErr    error
}

// NewRunner applies config defaults and builds a Runner.
func NewRunner(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = timeouts.ScenarioStep
	}
	start := cfg.Settings
	if len(start.AvailableDice()) == 0 {
		start = settings.Default()
	}
	return &Runner{
		assertions: cfg.Assertions,
		logger:     logger,
		verbose:    cfg.Verbose,
		timeout:    timeout,
		settings:   start,
		locale:     cfg.Locale,
	}
}

// RunFile loads and executes a scenario file.
func RunFile(ctx context.Context, cfg Config, path string) error {
	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return err
	}
	return NewRunner(cfg).RunScenario(ctx, scenario)
}

// Failures counts expectations that failed in log-only mode.
func (r *Runner) Failures() int {
	return r.failures
}

// RunScenario executes the scenario steps against a fresh instructor.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return errors.New("scenario is required")
	}
	r.logf("scenario start: %s (%d steps)", scenario.Name, len(scenario.Steps))

	var out bytes.Buffer
	errOut := io.Discard
	if r.verbose {
		errOut = r.logger.Writer()
	}
	state := &scenarioState{
		instructor: instructor.New(instructor.Config{
			Settings: r.settings,
			Locale:   r.locale,
			Out:      &out,
			ErrOut:   errOut,
		}),
		out: &out,
	}

	for index, step := range scenario.Steps {
		stepNumber := index + 1
		r.logf("step %d/%d start: %s", stepNumber, len(scenario.Steps), step.Kind)
		stepStart := time.Now()
		stepCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.runStep(stepCtx, state, step)
		cancel()
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", stepNumber, step.Kind, err)
		}
		r.logf("step %d/%d done: %s (%s)", stepNumber, len(scenario.Steps), step.Kind, time.Since(stepStart))
	}
	if err := r.checkUnexpectedError(state); err != nil {
		return fmt.Errorf("end of scenario: %w", err)
	}
	r.logf("scenario done: %s", scenario.Name)
	return nil
}

func (r *Runner) runStep(ctx context.Context, state *scenarioState, step Step) error {
	switch step.Kind {
	case StepCommand:
		if err := r.checkUnexpectedError(state); err != nil {
			return err
		}
		line := stepString(step, "line")
		state.out.Reset()
		_, err := state.instructor.Execute(ctx, line)
		state.lastOutput = state.out.String()
		state.lastErr = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return r.failf("%s: %v", line, err)
		}
		return nil
	case StepExpectContains:
		text := stepString(step, "text")
		if !strings.Contains(state.lastOutput, text) {
			return r.assertf("output %q does not contain %q", state.lastOutput, text)
		}
		return nil
	case StepExpectNotContains:
		text := stepString(step, "text")
		if strings.Contains(state.lastOutput, text) {
			return r.assertf("output %q contains %q", state.lastOutput, text)
		}
		return nil
	case StepExpectError:
		code := stepString(step, "code")
		err := state.lastErr
		state.lastErr = nil
		if err == nil {
			return r.assertf("expected error %s, command succeeded", code)
		}
		if got := apperrors.GetCode(err); string(got) != code {
			return r.assertf("error code = %s, want %s", got, code)
		}
		return nil
	default:
		return r.failf("unknown step kind %q", step.Kind)
	}
}

// checkUnexpectedError reports a command error no expect_error consumed.
func (r *Runner) checkUnexpectedError(state *scenarioState) error {
	if state.lastErr == nil {
		return nil
	}
	err := state.lastErr
	state.lastErr = nil
	return r.assertf("unexpected error: %s", apperrors.UserMessage(err, state.instructor.Locale()))
}

func (r *Runner) failf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

func (r *Runner) assertf(format string, args ...any) error {
	if r.assertions == AssertionLogOnly {
		r.failures++
		r.logger.Printf("assertion failed: "+format, args...)
		return nil
	}
	return fmt.Errorf(format, args...)
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}
