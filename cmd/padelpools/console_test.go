package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/abrezinsky/padelpools/internal/logger"
)

func newTestConsole() (*console, *bytes.Buffer, *bool) {
	var out bytes.Buffer
	quit := false
	c := &console{
		log:  logger.NewWithWriter(&bytes.Buffer{}, slog.LevelInfo),
		out:  &out,
		quit: func() { quit = true },
	}
	return c, &out, &quit
}

func TestConsole_ToggleHTTPLogging(t *testing.T) {
	c, out, _ := newTestConsole()

	c.handleKey('h')
	if !c.log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging enabled")
	}
	c.handleKey('H')
	if c.log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging disabled")
	}
	if !strings.Contains(out.String(), "HTTP logging disabled") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestConsole_CycleLogLevel(t *testing.T) {
	c, _, _ := newTestConsole()

	want := []slog.Level{slog.LevelWarn, slog.LevelError, slog.LevelDebug, slog.LevelInfo}
	for _, level := range want {
		c.handleKey('l')
		if got := c.log.GetLevel(); got != level {
			t.Fatalf("expected level %v, got %v", level, got)
		}
	}
}

func TestConsole_Quit(t *testing.T) {
	for _, key := range []byte{'q', 'Q', 0x03} {
		c, _, quit := newTestConsole()
		if c.handleKey(key) {
			t.Errorf("key %q: expected handleKey to stop", key)
		}
		if !*quit {
			t.Errorf("key %q: expected quit to be called", key)
		}
	}
}

func TestConsole_Run(t *testing.T) {
	c, out, quit := newTestConsole()

	// keys after q are never read
	c.run(strings.NewReader("?xhqh"))

	if !*quit {
		t.Error("expected quit")
	}
	if !c.log.IsHTTPLoggingEnabled() {
		t.Error("expected the single h before q to enable HTTP logging")
	}
	if !strings.Contains(out.String(), "Keyboard shortcuts") {
		t.Error("expected help output")
	}
}

func TestConsole_RunStopsAtEOF(t *testing.T) {
	c, _, quit := newTestConsole()
	c.run(strings.NewReader("h"))
	if *quit {
		t.Error("EOF must not request quit")
	}
}
