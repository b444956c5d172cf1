package scenario

import (
	"context"
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Timeout != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %v", cfg.Timeout)
	}
	if cfg.Verbose {
		t.Fatal("expected verbose to default to false")
	}
}

func TestParseConfigFlags(t *testing.T) {
	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-scenario", "roll.lua", "-verbose", "-timeout", "3s"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Scenario != "roll.lua" {
		t.Fatalf("expected scenario path, got %q", cfg.Scenario)
	}
	if !cfg.Verbose {
		t.Fatal("expected verbose to be enabled")
	}
	if cfg.Timeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %v", cfg.Timeout)
	}
}

func TestRunRequiresScenarioPath(t *testing.T) {
	if err := Run(context.Background(), Config{}, nil); err == nil {
		t.Fatal("expected error for missing scenario path")
	}
}
