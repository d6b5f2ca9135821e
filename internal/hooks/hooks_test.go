package hooks

import (
	"testing"

	"github.com/Belzedar94/PokeBot/internal/detect"
	"github.com/Belzedar94/PokeBot/internal/sim"
	"github.com/Belzedar94/PokeBot/internal/snapshot"
	"github.com/Belzedar94/PokeBot/pkg/api"
)

func setup(t *testing.T) (*sim.Host, *[]api.Event, Installed) {
	t.Helper()

	h := sim.NewHost()
	events := &[]api.Event{}
	emit := func(e api.Event) { *events = append(*events, e) }

	snap := snapshot.New(h)
	det := detect.NewDetector(emit)
	in := Install(h, emit, snap, det)
	return h, events, in
}

func TestInstallDetectsCapabilities(t *testing.T) {
	_, _, in := setup(t)
	if !in.CreatureStored || !in.BadgeGranted {
		t.Errorf("Expected both hooks installed on sim host, got %+v", in)
	}

	// A host with no observer capabilities installs nothing.
	bare := struct{}{}
	in = Install(bare, func(api.Event) {}, snapshot.New(bare), detect.NewDetector(func(api.Event) {}))
	if in.CreatureStored || in.BadgeGranted {
		t.Errorf("Expected no hooks on bare host, got %+v", in)
	}
}

func TestCatchEmitsImmediately(t *testing.T) {
	h, events, _ := setup(t)

	h.Catch("PIKACHU", "Spark", 12)

	if len(*events) != 1 {
		t.Fatalf("Expected 1 event right after catch, got %d", len(*events))
	}
	ev := (*events)[0]
	if ev.Type != api.EventPokemonAcquired {
		t.Errorf("Expected pokemon_acquired, got %s", ev.Type)
	}
	if ev.Species == nil || *ev.Species != "PIKACHU" {
		t.Errorf("Expected species PIKACHU, got %v", ev.Species)
	}
	if ev.MapID == nil || *ev.MapID != 1 {
		t.Errorf("Expected current map 1 on event, got %v", ev.MapID)
	}
	if ev.UID == nil {
		t.Error("Expected uid on acquisition event")
	}
}

func TestBadgeEmitsImmediately(t *testing.T) {
	h, events, _ := setup(t)

	h.GrantBadge()
	h.GrantBadge()

	if len(*events) != 2 {
		t.Fatalf("Expected 2 badge events, got %d", len(*events))
	}
	second := (*events)[1]
	if second.Type != api.EventBadgeEarned {
		t.Errorf("Expected badge_earned, got %s", second.Type)
	}
	if second.BadgeCount == nil || *second.BadgeCount != 2 {
		t.Errorf("Expected badge_count 2, got %v", second.BadgeCount)
	}
}

func TestHookedBadgeNotDuplicatedByPoll(t *testing.T) {
	h := sim.NewHost()
	var events []api.Event
	emit := func(e api.Event) { events = append(events, e) }

	snap := snapshot.New(h)
	det := detect.NewDetector(emit)
	Install(h, emit, snap, det)

	// Establish the poll baseline first, then grant via the hook.
	det.Observe(snap.Take())
	h.GrantBadge()

	// The next poll sees the same count the hook reported: no duplicate.
	det.Observe(snap.Take())

	badges := 0
	for _, e := range events {
		if e.Type == api.EventBadgeEarned {
			badges++
		}
	}
	if badges != 1 {
		t.Errorf("Expected exactly 1 badge event across hook+poll, got %d", badges)
	}
}

func TestHookedCatchNotDuplicatedByPoll(t *testing.T) {
	h := sim.NewHost()
	var events []api.Event
	emit := func(e api.Event) { events = append(events, e) }

	snap := snapshot.New(h)
	det := detect.NewDetector(emit)
	Install(h, emit, snap, det)

	// Non-empty baseline so NoteAcquired has a set to update.
	h.Catch("BULBASAUR", "Bulba", 5) // hook event #1 (baseline not yet polled)
	det.Observe(snap.Take())         // baseline poll, no events

	h.Catch("PIKACHU", "Spark", 12) // hook event #2
	det.Observe(snap.Take())        // must not re-report Spark

	acquired := 0
	for _, e := range events {
		if e.Type == api.EventPokemonAcquired {
			acquired++
		}
	}
	if acquired != 2 {
		t.Errorf("Expected 2 acquisitions total (hook only), got %d", acquired)
	}
}
