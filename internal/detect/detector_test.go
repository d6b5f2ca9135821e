package detect

import (
	"testing"

	"github.com/Belzedar94/PokeBot/pkg/api"
)

// collector накапливает все, что детектор решил отправить.
type collector struct {
	events []api.Event
}

func (c *collector) emit(e api.Event) { c.events = append(c.events, e) }

func (c *collector) ofType(typ string) []api.Event {
	var out []api.Event
	for _, e := range c.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func intp(v int) *int { return &v }

func strp(v string) *string { return &v }

func snapWithBadges(n int) *api.Snapshot {
	return &api.Snapshot{T: 1.0, BadgeCount: intp(n)}
}

func member(uid string, hp int) api.PartyMember {
	return api.PartyMember{
		UID:       strp(uid),
		Species:   strp("PIKACHU"),
		Name:      strp("Spark"),
		Level:     intp(12),
		CurrentHP: intp(hp),
		MaxHP:     intp(36),
	}
}

func snapWithParty(members ...api.PartyMember) *api.Snapshot {
	return &api.Snapshot{T: 1.0, Party: members}
}

func TestBadgeIncrease(t *testing.T) {
	c := &collector{}
	d := NewDetector(c.emit)

	// First observation establishes the baseline, no event.
	d.Observe(snapWithBadges(2))
	if len(c.events) != 0 {
		t.Fatalf("Expected no events on first poll, got %d", len(c.events))
	}

	d.Observe(snapWithBadges(3))
	got := c.ofType(api.EventBadgeEarned)
	if len(got) != 1 {
		t.Fatalf("Expected 1 badge event, got %d", len(got))
	}
	if *got[0].BadgeCount != 3 {
		t.Errorf("Expected badge_count 3, got %d", *got[0].BadgeCount)
	}

	// Same count again: no new event.
	d.Observe(snapWithBadges(3))
	if len(c.ofType(api.EventBadgeEarned)) != 1 {
		t.Error("Expected no event for unchanged count")
	}
}

func TestBadgeDecreaseIsSilentButRemembered(t *testing.T) {
	c := &collector{}
	d := NewDetector(c.emit)

	d.Observe(snapWithBadges(5))
	// Save loaded: count drops. Not an event.
	d.Observe(snapWithBadges(2))
	if len(c.events) != 0 {
		t.Fatalf("Expected no event on decrease, got %d", len(c.events))
	}

	// The memory must now be 2, so 2 -> 3 is an increase.
	d.Observe(snapWithBadges(3))
	if len(c.ofType(api.EventBadgeEarned)) != 1 {
		t.Error("Expected badge event after re-increase past lowered baseline")
	}
}

func TestBadgeUnreadableSkipsCycle(t *testing.T) {
	c := &collector{}
	d := NewDetector(c.emit)

	d.Observe(snapWithBadges(2))
	// Badges unreadable this cycle: memory must stay at 2.
	d.Observe(&api.Snapshot{T: 1.0})
	d.Observe(snapWithBadges(3))

	if len(c.ofType(api.EventBadgeEarned)) != 1 {
		t.Error("Expected 2->3 to survive an unreadable cycle in between")
	}
}

func TestRosterAcquisition(t *testing.T) {
	c := &collector{}
	d := NewDetector(c.emit)

	// First poll with one member: baseline only, no flood.
	d.Observe(snapWithParty(member("pid:1", 30)))
	if len(c.events) != 0 {
		t.Fatalf("Expected no events on first roster poll, got %d", len(c.events))
	}

	d.Observe(snapWithParty(member("pid:1", 30), member("pid:2", 20)))
	got := c.ofType(api.EventPokemonAcquired)
	if len(got) != 1 {
		t.Fatalf("Expected 1 acquisition, got %d", len(got))
	}
	if *got[0].UID != "pid:2" {
		t.Errorf("Expected pid:2 acquired, got %s", *got[0].UID)
	}
}

func TestRosterEmptyPreviousSuppresses(t *testing.T) {
	c := &collector{}
	d := NewDetector(c.emit)

	d.Observe(snapWithParty(member("pid:1", 30)))
	// Whole-party read failure: empty roster this cycle.
	d.Observe(snapWithParty())
	// Recovery: the full party "reappears". Must NOT flood acquisitions.
	d.Observe(snapWithParty(member("pid:1", 30), member("pid:2", 20)))

	if got := c.ofType(api.EventPokemonAcquired); len(got) != 0 {
		t.Errorf("Expected no acquisitions after empty-roster cycle, got %d", len(got))
	}
}

func TestFainting(t *testing.T) {
	c := &collector{}
	d := NewDetector(c.emit)

	d.Observe(snapWithParty(member("pid:1", 30)))
	d.Observe(snapWithParty(member("pid:1", 0)))

	got := c.ofType(api.EventPokemonDeath)
	if len(got) != 1 {
		t.Fatalf("Expected 1 death event, got %d", len(got))
	}
	if *got[0].UID != "pid:1" {
		t.Errorf("Expected pid:1 fainted, got %s", *got[0].UID)
	}

	// Still at zero: no repeat.
	d.Observe(snapWithParty(member("pid:1", 0)))
	if len(c.ofType(api.EventPokemonDeath)) != 1 {
		t.Error("Expected no repeated death while hp stays 0")
	}

	// Revive then faint again: a fresh event.
	d.Observe(snapWithParty(member("pid:1", 15)))
	d.Observe(snapWithParty(member("pid:1", 0)))
	if len(c.ofType(api.EventPokemonDeath)) != 2 {
		t.Error("Expected second death after revive")
	}
}

func TestNoteBadgeCountPreventsDuplicate(t *testing.T) {
	c := &collector{}
	d := NewDetector(c.emit)

	d.Observe(snapWithBadges(2))
	// The hook already emitted badge_earned for count 3 and told us.
	d.NoteBadgeCount(3)

	d.Observe(snapWithBadges(3))
	if len(c.ofType(api.EventBadgeEarned)) != 0 {
		t.Error("Expected poll to stay silent after hook reported the same count")
	}
}

func TestNoteAcquiredPreventsDuplicate(t *testing.T) {
	c := &collector{}
	d := NewDetector(c.emit)

	d.Observe(snapWithParty(member("pid:1", 30)))
	// Hook reported the catch of pid:2 already.
	d.NoteAcquired("pid:2")

	d.Observe(snapWithParty(member("pid:1", 30), member("pid:2", 20)))
	if got := c.ofType(api.EventPokemonAcquired); len(got) != 0 {
		t.Errorf("Expected no duplicate acquisition, got %d", len(got))
	}
}

func TestNoteAcquiredBeforeFirstPollIsIgnored(t *testing.T) {
	c := &collector{}
	d := NewDetector(c.emit)

	// Hook fires before any poll. Recording it would make the first
	// real poll flood acquisitions for the rest of the party.
	d.NoteAcquired("pid:2")

	d.Observe(snapWithParty(member("pid:1", 30), member("pid:2", 20)))
	if len(c.events) != 0 {
		t.Errorf("Expected first poll to stay a pure baseline, got %d events", len(c.events))
	}
}

func TestNilSnapshotIsNoop(t *testing.T) {
	c := &collector{}
	d := NewDetector(c.emit)
	d.Observe(nil)
	if len(c.events) != 0 {
		t.Errorf("Expected nil snapshot to be ignored, got %d events", len(c.events))
	}
}
