package config

import (
	"bytes"
	"os"
	"testing"
)

func TestExitfWritesMessageAndExitsWithCode1(t *testing.T) {
	var out bytes.Buffer
	code := -1
	exitWriter = &out
	exit = func(c int) { code = c }
	t.Cleanup(func() {
		exitWriter = os.Stderr
		exit = os.Exit
	})

	Exitf("fatal: %s", "something broke")

	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if out.String() != "fatal: something broke\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}
