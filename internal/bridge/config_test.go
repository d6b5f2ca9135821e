package bridge

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected 127.0.0.1, got %s", cfg.Host)
	}
	if cfg.Port != 53135 {
		t.Errorf("Expected port 53135, got %d", cfg.Port)
	}
	if cfg.PollEvery != 2 {
		t.Errorf("Expected poll cadence 2, got %d", cfg.PollEvery)
	}
	if cfg.ReadBudget != 65536 {
		t.Errorf("Expected read budget 65536, got %d", cfg.ReadBudget)
	}
	if cfg.LineBudget != 50 {
		t.Errorf("Expected line budget 50, got %d", cfg.LineBudget)
	}
	if cfg.QueueCapacity != 200 {
		t.Errorf("Expected queue cap 200, got %d", cfg.QueueCapacity)
	}
	if cfg.FallbackTick != 50*time.Millisecond {
		t.Errorf("Expected fallback tick 50ms, got %s", cfg.FallbackTick)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PB_BRIDGE_PORT", "60000")
	t.Setenv("PB_POLL_EVERY", "4")
	t.Setenv("PB_FALLBACK_TICK", "100ms")
	t.Setenv("PB_JOURNAL_PATH", "/tmp/events.jsonl")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Port != 60000 {
		t.Errorf("Expected port 60000, got %d", cfg.Port)
	}
	if cfg.PollEvery != 4 {
		t.Errorf("Expected poll cadence 4, got %d", cfg.PollEvery)
	}
	if cfg.FallbackTick != 100*time.Millisecond {
		t.Errorf("Expected 100ms tick, got %s", cfg.FallbackTick)
	}
	if cfg.JournalPath != "/tmp/events.jsonl" {
		t.Errorf("Expected journal path set, got %q", cfg.JournalPath)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "PB_BRIDGE_PORT", "70000"},
		{"zero poll cadence", "PB_POLL_EVERY", "0"},
		{"read budget below chunk", "PB_READ_BUDGET", "100"},
		{"zero line budget", "PB_LINE_BUDGET", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := LoadConfig(); err == nil {
				t.Errorf("Expected error for %s=%s", tc.key, tc.value)
			}
		})
	}
}
