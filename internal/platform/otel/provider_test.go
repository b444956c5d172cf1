package otel

import (
	"context"
	"testing"
)

func TestSetupDisabledWithoutEndpoint(t *testing.T) {
	t.Setenv("ROLLWATCH_OTEL_ENDPOINT", "")

	shutdown, err := Setup(context.Background(), "test")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected a shutdown function")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
}

func TestSetupDisabledExplicitly(t *testing.T) {
	t.Setenv("ROLLWATCH_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("ROLLWATCH_OTEL_ENABLED", "false")

	shutdown, err := Setup(context.Background(), "test")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
}

func TestRecordErrorNilSafe(t *testing.T) {
	// Must not panic on nil span or nil error.
	RecordError(nil, nil)
}
