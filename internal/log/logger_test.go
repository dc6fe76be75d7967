package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newJSONLogger(buf *bytes.Buffer, level slog.Level) *Logger {
	return New(Config{Level: level, Format: "json", Component: ComponentExpense, Output: buf})
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return m
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidateFormat(t *testing.T) {
	for _, ok := range []string{"", "text", "json", "JSON"} {
		if err := ValidateFormat(ok); err != nil {
			t.Errorf("ValidateFormat(%q) = %v", ok, err)
		}
	}
	if err := ValidateFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf, slog.LevelInfo)

	logger.InfoContext(context.Background(), "Expense added", FieldExpenseID, "e1")
	line := decodeLine(t, &buf)
	if line[FieldComponent] != ComponentExpense || line[FieldExpenseID] != "e1" {
		t.Errorf("unexpected line %v", line)
	}

	buf.Reset()
	logger.WithComponent(ComponentBudget).WarnContext(context.Background(), "Budget cleared")
	if line := decodeLine(t, &buf); line[FieldComponent] != ComponentBudget {
		t.Errorf("component = %v, want %s", line[FieldComponent], ComponentBudget)
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf, slog.LevelWarn)
	logger.DebugContext(context.Background(), "hidden")
	logger.InfoContext(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn, got %q", buf.String())
	}
}

func TestStructuredLogger_LogError(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newJSONLogger(&buf, slog.LevelInfo))

	sl.LogError(context.Background(), "Failed to save", errors.New("disk full"), ComponentStorage, OpCreate, nil)
	line := decodeLine(t, &buf)
	if line[FieldError] != "disk full" || line[FieldOperation] != OpCreate || line[FieldComponent] != ComponentStorage {
		t.Errorf("unexpected line %v", line)
	}
	if line["level"] != "ERROR" {
		t.Errorf("level = %v", line["level"])
	}
}

func TestStructuredLogger_LogHTTPEndLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{200, "INFO"},
		{404, "WARN"},
		{503, "ERROR"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		sl := NewStructuredLogger(newJSONLogger(&buf, slog.LevelInfo))
		r := httptest.NewRequest(http.MethodGet, "/api/expenses?month=2025-03", nil)

		sl.LogHTTPEnd(context.Background(), r, tt.status, 3, "10.0.0.1")
		line := decodeLine(t, &buf)
		if line["level"] != tt.level {
			t.Errorf("status %d: level = %v, want %s", tt.status, line["level"], tt.level)
		}
		if line[FieldPath] != "/api/expenses" || line[FieldQuery] != "month=2025-03" {
			t.Errorf("status %d: request fields missing: %v", tt.status, line)
		}
	}
}

func TestContextMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf, slog.LevelInfo)

	var got *Logger
	h := Middleware(logger)(RequestIDMiddleware(func(*http.Request) string { return "req_1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = FromContext(r.Context())
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got == nil || got.Component() != ComponentExpense {
		t.Fatalf("logger not propagated: %+v", got)
	}
	got.InfoContext(context.Background(), "hello")
	if line := decodeLine(t, &buf); line[FieldRequestID] != "req_1" {
		t.Errorf("request id = %v", line[FieldRequestID])
	}

	if fallback := FromContext(context.Background()); fallback.Component() != "unknown" {
		t.Errorf("fallback component = %q", fallback.Component())
	}
}
