package scenario

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"
)

func runFixture(t *testing.T, cfg Config, content string) error {
	t.Helper()
	return RunFile(context.Background(), cfg, writeScenarioFixture(t, content))
}

func TestRunScenarioPasses(t *testing.T) {
	err := runFixture(t, DefaultConfig(), `local s = Scenario.new("d7")
s:calc(7):expect_contains("Roll 1d8 and discard any results above 7")
s:set_max_rolls(1):show():expect_contains("Max roll count: 1")
s:calc(1):expect_error("TARGET_TOO_SMALL")
s:roll(7, 42):expect_contains("with seed 42.")
return s
`)
	if err != nil {
		t.Fatalf("run scenario: %v", err)
	}
}

func TestRunScenarioFailsOnMissingText(t *testing.T) {
	err := runFixture(t, DefaultConfig(), `local s = Scenario.new("miss")
s:calc(7):expect_contains("Roll 1d9")
return s
`)
	if err == nil || !strings.Contains(err.Error(), "step 2 (expect_contains)") {
		t.Fatalf("error = %v, want expect_contains failure", err)
	}
}

func TestRunScenarioFailsOnUnexpectedText(t *testing.T) {
	err := runFixture(t, DefaultConfig(), `local s = Scenario.new("unexpected")
s:calc(7):expect_not_contains("Roll 1d8")
return s
`)
	if err == nil {
		t.Fatal("expected expect_not_contains failure")
	}
}

func TestRunScenarioFailsOnUnconsumedError(t *testing.T) {
	err := runFixture(t, DefaultConfig(), `local s = Scenario.new("unconsumed")
s:calc(1):calc(7)
return s
`)
	if err == nil || !strings.Contains(err.Error(), "unexpected error") {
		t.Fatalf("error = %v, want unexpected error", err)
	}

	err = runFixture(t, DefaultConfig(), `local s = Scenario.new("trailing")
s:command("bogus")
return s
`)
	if err == nil || !strings.Contains(err.Error(), "end of scenario") {
		t.Fatalf("error = %v, want end of scenario failure", err)
	}
}

func TestRunScenarioFailsOnWrongErrorCode(t *testing.T) {
	err := runFixture(t, DefaultConfig(), `local s = Scenario.new("code")
s:calc(1):expect_error("TARGET_INVALID")
return s
`)
	if err == nil || !strings.Contains(err.Error(), "want TARGET_INVALID") {
		t.Fatalf("error = %v, want code mismatch", err)
	}

	err = runFixture(t, DefaultConfig(), `local s = Scenario.new("success")
s:calc(7):expect_error("TARGET_INVALID")
return s
`)
	if err == nil || !strings.Contains(err.Error(), "command succeeded") {
		t.Fatalf("error = %v, want success mismatch", err)
	}
}

func TestRunScenarioLogOnlyCountsFailures(t *testing.T) {
	var logs bytes.Buffer
	cfg := DefaultConfig()
	cfg.Assertions = AssertionLogOnly
	cfg.Logger = log.New(&logs, "", 0)

	scenario, err := LoadScenarioFromFile(writeScenarioFixture(t, `local s = Scenario.new("log")
s:calc(7):expect_contains("Roll 1d9"):expect_contains("Roll 1d8")
return s
`))
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	runner := NewRunner(cfg)
	if err := runner.RunScenario(context.Background(), scenario); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
	if runner.Failures() != 1 {
		t.Fatalf("failures = %d, want 1", runner.Failures())
	}
	if !strings.Contains(logs.String(), "assertion failed") {
		t.Fatalf("expected assertion log, got %q", logs.String())
	}
}

func TestRunScenarioLocale(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Locale = "pt-BR"
	err := runFixture(t, cfg, `local s = Scenario.new("pt")
s:calc(7):expect_contains("Role 1d8 e descarte qualquer resultado acima de 7")
return s
`)
	if err != nil {
		t.Fatalf("run scenario: %v", err)
	}
}

func TestRunScenarioVerboseLogsSteps(t *testing.T) {
	var logs bytes.Buffer
	cfg := DefaultConfig()
	cfg.Verbose = true
	cfg.Logger = log.New(&logs, "", 0)

	if err := runFixture(t, cfg, `return Scenario.new("quiet"):show()`); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
	for _, want := range []string{"scenario start: quiet", "step 1/1 done: command", "scenario done: quiet"} {
		if !strings.Contains(logs.String(), want) {
			t.Fatalf("logs missing %q: %q", want, logs.String())
		}
	}
}

func TestRunScenarioHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	scenario := &Scenario{Name: "cancel", Steps: []Step{{Kind: StepCommand, Args: map[string]any{"line": "calc 7"}}}}
	if err := NewRunner(DefaultConfig()).RunScenario(ctx, scenario); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestRunScenarioRejectsUnknownStep(t *testing.T) {
	scenario := &Scenario{Name: "bad", Steps: []Step{{Kind: "dance"}}}
	if err := NewRunner(DefaultConfig()).RunScenario(context.Background(), scenario); err == nil {
		t.Fatal("expected unknown step error")
	}
	if err := NewRunner(DefaultConfig()).RunScenario(context.Background(), nil); err == nil {
		t.Fatal("expected nil scenario error")
	}
}

func TestParseAssertionMode(t *testing.T) {
	for input, want := range map[string]AssertionMode{"": AssertionStrict, "strict": AssertionStrict, "LOG": AssertionLogOnly} {
		got, err := ParseAssertionMode(input)
		if err != nil || got != want {
			t.Fatalf("ParseAssertionMode(%q) = %v, %v", input, got, err)
		}
	}
	if _, err := ParseAssertionMode("loud"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
