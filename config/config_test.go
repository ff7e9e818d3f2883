package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestUnmarshalConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
[mysql]
dsn = "user:pass@tcp(localhost:3306)/reachh"
`)
	c, err := UnmarshalConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Api.Port != ":9000" {
		t.Fatalf("default port not applied, got %q", c.Api.Port)
	}
	if c.Verify.BatchSize != 100 || c.Verify.MatchThreshold != 0.5 {
		t.Fatalf("verify defaults not applied: %+v", c.Verify)
	}
	if c.Scraper.PollMaxAttempts != 30 || c.Scraper.PollIntervalSec != 10 {
		t.Fatalf("poll defaults not applied: %+v", c.Scraper)
	}
	if c.TaskServer.Configured() {
		t.Fatal("task server must not be configured without url and key")
	}
}

func TestUnmarshalConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
[api]
port = ":8080"

[verify]
batch_size = 25
match_threshold = 0.8

[task_server]
url = "https://tasks.example.com"
api_key = "k"
`)
	c, err := UnmarshalConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Api.Port != ":8080" {
		t.Fatalf("port override lost, got %q", c.Api.Port)
	}
	if c.Verify.BatchSize != 25 || c.Verify.MatchThreshold != 0.8 {
		t.Fatalf("verify overrides lost: %+v", c.Verify)
	}
	if !c.TaskServer.Configured() {
		t.Fatal("task server should be configured")
	}
}

func TestUnmarshalConfigRejectsBadThreshold(t *testing.T) {
	path := writeConfig(t, `
[verify]
match_threshold = 1.5
`)
	if _, err := UnmarshalConfig(path); err == nil {
		t.Fatal("expected error for threshold above 1")
	}
}
