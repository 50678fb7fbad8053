package observability

import (
	"errors"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
)

func TestShouldSkipUptraceLog(t *testing.T) {
	t.Parallel()

	if !shouldSkipUptraceLog("http request", []any{"method", "GET", "path", "/healthz", "status", 200}) {
		t.Fatalf("expected healthy probe log to be skipped")
	}
	if shouldSkipUptraceLog("http request", []any{"path", "/healthz", "status", 503}) {
		t.Fatalf("did not expect failing probe log to be skipped")
	}
	if shouldSkipUptraceLog("http request", []any{"path", "/v1/leagues", "status", 200}) {
		t.Fatalf("did not expect non-health log to be skipped")
	}
	if shouldSkipUptraceLog("match filled, now in progress", []any{"path", "/healthz"}) {
		t.Fatalf("did not expect non-request event to be skipped")
	}
}

func TestLogAttributes(t *testing.T) {
	t.Parallel()

	attrs := logAttributes([]any{"match_id", int64(42), "team", 2, 7, "x", "payload"})
	if len(attrs) != 4 {
		t.Fatalf("expected 4 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "match_id" || attrs[0].Value.AsInt64() != 42 {
		t.Fatalf("unexpected match_id attribute")
	}
	if attrs[1].Key != "team" || attrs[1].Value.AsInt64() != 2 {
		t.Fatalf("unexpected team attribute")
	}
	if attrs[2].Key != "arg_2" || attrs[2].Value.AsString() != "x" {
		t.Fatalf("unexpected fallback key: %q", attrs[2].Key)
	}
	if attrs[3].Key != "payload" || attrs[3].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected payload attribute")
	}
}

func TestLogValue(t *testing.T) {
	t.Parallel()

	if v := logValue([]int64{3, 5}); v.Kind() != otellog.KindSlice || len(v.AsSlice()) != 2 {
		t.Fatalf("expected id slice, got %s", v.Kind())
	}
	if v := logValue(errors.New("boom")); v.AsString() != "boom" {
		t.Fatalf("unexpected error value %q", v.AsString())
	}
	if v := logValue(1500 * time.Millisecond); v.AsString() != "1.5s" {
		t.Fatalf("unexpected duration value %q", v.AsString())
	}
	if v := logValue(uint64(1) << 63); v.Kind() != otellog.KindString {
		t.Fatalf("expected overflowing uint as string, got %s", v.Kind())
	}
	if v := logValue(struct{ A int }{A: 1}); v.AsString() != "{1}" {
		t.Fatalf("unexpected fallback value %q", v.AsString())
	}
}
