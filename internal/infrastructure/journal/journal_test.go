package journal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Belzedar94/PokeBot/pkg/api"
)

func badgeEvent(n int) api.Event {
	return api.Event{Type: api.EventBadgeEarned, T: 100.5, BadgeCount: &n}
}

func TestWriteAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}
	w.Append(badgeEvent(1))
	w.Append(badgeEvent(2))
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close journal: %v", err)
	}

	events, skipped, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load journal: %v", err)
	}
	if skipped != 0 {
		t.Errorf("Expected no skipped lines, got %d", skipped)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if *events[1].BadgeCount != 2 {
		t.Errorf("Expected badge_count 2, got %d", *events[1].BadgeCount)
	}
}

func TestAppendAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	w1, err := NewWriter(path)
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}
	w1.Append(badgeEvent(1))
	w1.Close()

	// Process restart: the journal keeps growing, not truncating.
	w2, err := NewWriter(path)
	if err != nil {
		t.Fatalf("Failed to reopen journal: %v", err)
	}
	w2.Append(badgeEvent(2))
	w2.Close()

	events, _, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load journal: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("Expected 2 events across restarts, got %d", len(events))
	}
}

func TestLoadSkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}
	w.Append(badgeEvent(1))
	w.Close()

	// Crash mid-write: a torn trailing line.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("Failed to append garbage: %v", err)
	}
	f.WriteString(`{"type":"badge_ea`)
	f.Close()

	events, skipped, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load journal: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("Expected 1 intact event, got %d", len(events))
	}
	if skipped != 1 {
		t.Errorf("Expected 1 skipped line, got %d", skipped)
	}
}

func TestAppendAfterCloseIsSilent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}
	w.Close()

	// Must not panic or resurrect the file handle.
	w.Append(badgeEvent(1))

	events, _, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load journal: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("Expected nothing written after close, got %d", len(events))
	}
}
