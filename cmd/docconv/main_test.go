package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-docconv/internal/config"
)

// testEnv returns an Environment capturing output in buffers.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
		Config: config.DefaultConfig(),
	}
	return env, &stdout, &stderr
}

// ---------------------------------------------------------------------------
// TestRun - Subcommand dispatch
// ---------------------------------------------------------------------------

func TestRun(t *testing.T) {
	t.Run("no args prints usage", func(t *testing.T) {
		env, _, stderr := testEnv()
		if code := run(nil, env); code != ExitUsage {
			t.Errorf("run() = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(stderr.String(), "Usage") {
			t.Errorf("stderr = %q, want usage text", stderr.String())
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		env, _, stderr := testEnv()
		if code := run([]string{"transmogrify"}, env); code != ExitUsage {
			t.Errorf("run() = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(stderr.String(), `unknown command: "transmogrify"`) {
			t.Errorf("stderr = %q", stderr.String())
		}
	})

	t.Run("version", func(t *testing.T) {
		env, stdout, _ := testEnv()
		if code := run([]string{"version"}, env); code != ExitSuccess {
			t.Errorf("run() = %d, want %d", code, ExitSuccess)
		}
		if !strings.Contains(stdout.String(), "docconv "+Version) {
			t.Errorf("stdout = %q", stdout.String())
		}
	})

	t.Run("help", func(t *testing.T) {
		env, stdout, _ := testEnv()
		if code := run([]string{"help"}, env); code != ExitSuccess {
			t.Errorf("run() = %d, want %d", code, ExitSuccess)
		}
		if !strings.Contains(stdout.String(), "convert") || !strings.Contains(stdout.String(), "doctor") {
			t.Errorf("stdout = %q", stdout.String())
		}
	})

	t.Run("help for convert", func(t *testing.T) {
		env, stdout, _ := testEnv()
		if code := run([]string{"help", "convert"}, env); code != ExitSuccess {
			t.Errorf("run() = %d, want %d", code, ExitSuccess)
		}
		if !strings.Contains(stdout.String(), "--type") {
			t.Errorf("stdout = %q", stdout.String())
		}
	})

	t.Run("convert without input", func(t *testing.T) {
		env, _, stderr := testEnv()
		if code := run([]string{"convert", "-o", "out.pdf"}, env); code != ExitUsage {
			t.Errorf("run() = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(stderr.String(), ErrNoInput.Error()) {
			t.Errorf("stderr = %q", stderr.String())
		}
	})

	t.Run("convert without output", func(t *testing.T) {
		env, _, stderr := testEnv()
		if code := run([]string{"convert", "-i", "in.docx"}, env); code != ExitUsage {
			t.Errorf("run() = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(stderr.String(), ErrNoOutput.Error()) {
			t.Errorf("stderr = %q", stderr.String())
		}
	})

	t.Run("convert with bad flag", func(t *testing.T) {
		env, _, _ := testEnv()
		if code := run([]string{"convert", "--bogus"}, env); code != ExitUsage {
			t.Errorf("run() = %d, want %d", code, ExitUsage)
		}
	})

	t.Run("convert with missing config", func(t *testing.T) {
		env, _, stderr := testEnv()
		args := []string{"convert", "-i", "in.docx", "-o", "out.pdf", "-c", "/nonexistent/config.yaml"}
		if code := run(args, env); code != ExitUsage {
			t.Errorf("run() = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(stderr.String(), "config") {
			t.Errorf("stderr = %q", stderr.String())
		}
	})
}
