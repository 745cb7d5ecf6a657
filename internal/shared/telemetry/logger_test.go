package telemetry

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInfoWritesFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	t.Cleanup(Replace(zap.New(core)))

	Info("fit.analyze.start", map[string]any{"stage": "jd", "attempt": 2})
	Error("fit.analyze.fail", map[string]any{"error": errors.New("boom")})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["stage"] != "jd" {
		t.Fatalf("expected stage field, got %v", ctx)
	}
	if entries[1].Level != zap.ErrorLevel {
		t.Fatalf("expected error level, got %s", entries[1].Level)
	}
	if entries[1].ContextMap()["error"] != "boom" {
		t.Fatalf("expected error text, got %v", entries[1].ContextMap())
	}
}

func TestInitAcceptsUnknownLevel(t *testing.T) {
	if err := Init("not-a-level", "console"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := Init("debug", "json"); err != nil {
		t.Fatalf("init: %v", err)
	}
}
