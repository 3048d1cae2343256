package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Output: &buf, Component: ComponentLedger})
	l.Info("run appended", FieldDistance, 5.0)

	out := buf.String()
	if !strings.Contains(out, "component=ledger") {
		t.Fatalf("missing component in %q", out)
	}
	if !strings.Contains(out, "distance_km=5") {
		t.Fatalf("missing field in %q", out)
	}

	buf.Reset()
	l.WithComponent(ComponentStore).Warn("slow read")
	if !strings.Contains(buf.String(), "component=store") {
		t.Fatalf("WithComponent not applied: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogErrorFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf, Component: ComponentStore})
	l.LogError(context.Background(), "write failed", errors.New("disk full"), OpSet, NewFields().WithComponent("ignored"))
	out := buf.String()
	for _, want := range []string{"error=\"disk full\"", "operation=set", "component=store"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestContextLogger(t *testing.T) {
	l := Discard().WithComponent(ComponentHTTP).With(FieldRequestID, "req-1")
	got := FromContext(NewContext(context.Background(), l))
	if got != l {
		t.Fatalf("logger not propagated: %+v", got)
	}
	if FromContext(context.Background()).Component() != "unknown" {
		t.Fatalf("expected fallback logger")
	}
}
