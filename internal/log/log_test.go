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

func jsonLogger(buf *bytes.Buffer) *Logger {
	return New(Config{Level: slog.LevelDebug, Format: FormatJSON, Output: buf, Component: ComponentApp})
}

func decodeLast(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	return entry
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf).WithComponent(ComponentStore)
	l.Info("hello", "k", "v")

	entry := decodeLast(t, &buf)
	if entry[FieldComponent] != ComponentStore {
		t.Fatalf("component = %v, want %s", entry[FieldComponent], ComponentStore)
	}
	if entry["k"] != "v" {
		t.Fatalf("missing attribute: %v", entry)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
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

func TestTextFormatUsesTint(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Format: FormatText, Output: &buf, Component: ComponentApp})
	l.Info("started")
	if !bytes.Contains(buf.Bytes(), []byte("started")) {
		t.Fatalf("expected message in output: %q", buf.String())
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	l := FromContext(context.Background())
	if l == nil || l.Component() != "unknown" {
		t.Fatalf("unexpected fallback logger: %+v", l)
	}
}

func TestMiddlewareChain(t *testing.T) {
	var buf bytes.Buffer
	base := jsonLogger(&buf)

	var got *Logger
	h := Middleware(base)(RequestIDMiddleware(func(*http.Request) string { return "req_1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = FromContext(r.Context())
			got.Info("inside")
		})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if got == nil {
		t.Fatalf("logger not propagated")
	}
	if entry := decodeLast(t, &buf); entry[FieldRequestID] != "req_1" {
		t.Fatalf("request id missing: %v", entry)
	}
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(jsonLogger(&buf))
	ctx := context.Background()

	sl.LogMutation(ctx, OpCreate, 3, NewFields().WithCategory("c1", "Ăn sáng"))
	entry := decodeLast(t, &buf)
	if entry[FieldOperation] != OpCreate || entry[FieldCategoryID] != "c1" || entry[FieldComponent] != ComponentStore {
		t.Fatalf("unexpected mutation entry: %v", entry)
	}

	buf.Reset()
	sl.LogSkipped(ctx, 0, 3, 2024)
	if buf.Len() != 0 {
		t.Fatalf("zero skipped must not log")
	}
	sl.LogSkipped(ctx, 2, 3, 2024)
	entry = decodeLast(t, &buf)
	if entry["level"] != "WARN" || entry[FieldSkipped] != float64(2) {
		t.Fatalf("unexpected skip entry: %v", entry)
	}

	sl.LogError(ctx, "boom", errors.New("bad"), ComponentHTTP, OpRead, NewFields())
	entry = decodeLast(t, &buf)
	if entry[FieldError] != "bad" || entry[FieldComponent] != ComponentHTTP {
		t.Fatalf("unexpected error entry: %v", entry)
	}

	buf.Reset()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?month=3", nil)
	sl.LogHTTPEnd(ctx, req, http.StatusNotFound, 5, "127.0.0.1")
	entry = decodeLast(t, &buf)
	if entry["level"] != "WARN" || entry[FieldStatusCode] != float64(404) {
		t.Fatalf("unexpected http entry: %v", entry)
	}
}
