package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestWithAttrsOverridesByKey(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New(&buf, "info"))
	ctx = WithAttrs(ctx, slog.String("component", "server"), slog.String("route", "/api/dashboard"))
	ctx = WithAttrs(ctx, slog.String("component", "dashboard"))

	Info(ctx, "rendered", slog.Int("rows", 12))

	line := buf.String()
	for _, want := range []string{"component=dashboard", "route=/api/dashboard", "rows=12", "msg=rendered"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %q", line, want)
		}
	}
	if strings.Contains(line, "component=server") {
		t.Errorf("overridden attr still present: %q", line)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New(&buf, "warn"))

	Debug(ctx, "hidden")
	Info(ctx, "hidden too")
	Warn(ctx, "shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("below-level lines were written: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestAttrsReturnsCopy(t *testing.T) {
	ctx := WithAttrs(context.Background(), slog.String("a", "1"))
	got := Attrs(ctx)
	got[0] = slog.String("a", "mutated")
	if Attrs(ctx)[0].Value.String() != "1" {
		t.Fatal("Attrs exposed internal slice")
	}
	if Attrs(nil) != nil {
		t.Fatal("nil ctx should have no attrs")
	}
}
