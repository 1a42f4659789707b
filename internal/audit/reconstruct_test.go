package audit

import (
	"reflect"
	"testing"
	"time"
)

func TestReconstructEmptyInput(t *testing.T) {
	entries := Reconstruct(nil, nil)
	if len(entries) != 0 {
		t.Fatalf("expected empty result, got %d entries", len(entries))
	}
	entries = Reconstruct([]Event{}, []Actor{})
	if len(entries) != 0 {
		t.Fatalf("expected empty result, got %d entries", len(entries))
	}
}

func TestReconstructUnknownActorSentinel(t *testing.T) {
	now := time.Now()
	events := []Event{
		{ID: 1, ActorUserID: 10, Action: "hall_created", OccurredAt: now},
		{ID: 2, ActorUserID: 99, Action: "hall_updated", OccurredAt: now.Add(time.Minute)},
	}
	actors := []Actor{{UserID: 10, Name: "سارة"}}

	entries := Reconstruct(events, actors)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ActorName != UnknownActorName {
		t.Fatalf("expected sentinel for missing actor, got %q", entries[0].ActorName)
	}
	if entries[1].ActorName != "سارة" {
		t.Fatalf("expected resolved name, got %q", entries[1].ActorName)
	}
}

func TestReconstructDescendingOrder(t *testing.T) {
	t1 := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)
	events := []Event{
		{ID: 1, ActorUserID: 1, Action: "hall_created", OccurredAt: t1},
		{ID: 3, ActorUserID: 1, Action: "hall_deleted", OccurredAt: t3},
		{ID: 2, ActorUserID: 1, Action: "hall_updated", OccurredAt: t2},
	}
	entries := Reconstruct(events, nil)
	got := []time.Time{entries[0].OccurredAt, entries[1].OccurredAt, entries[2].OccurredAt}
	want := []time.Time{t3, t2, t1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestReconstructTieBreaksByID(t *testing.T) {
	at := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	events := []Event{
		{ID: 5, ActorUserID: 1, Action: "hall_created", OccurredAt: at},
		{ID: 9, ActorUserID: 1, Action: "hall_updated", OccurredAt: at},
	}
	entries := Reconstruct(events, nil)
	if entries[0].ID != 9 || entries[1].ID != 5 {
		t.Fatalf("expected id tie-break descending, got %d then %d", entries[0].ID, entries[1].ID)
	}
}

func TestClassifyKnownAndUnknownCodes(t *testing.T) {
	if got := Classify("hall_created"); got != CategoryCreate {
		t.Fatalf("hall_created = %q, want create", got)
	}
	if got := Classify("subject_updated"); got != CategoryUpdate {
		t.Fatalf("subject_updated = %q, want update", got)
	}
	if got := Classify("user_deleted"); got != CategoryDelete {
		t.Fatalf("user_deleted = %q, want delete", got)
	}
	if got := Classify("hall_archived"); got != CategoryOther {
		t.Fatalf("hall_archived = %q, want other", got)
	}
	// Substring classification is the documented contract: verb-suffixed
	// variants still classify by the embedded verb.
	if got := Classify("user_created_by_import"); got != CategoryCreate {
		t.Fatalf("user_created_by_import = %q, want create", got)
	}
}

func TestActionLabels(t *testing.T) {
	if got := ActionLabel("hall_created"); got != "إنشاء قاعة" {
		t.Fatalf("hall_created label = %q", got)
	}
	if got := ActionLabel("hall_archived"); got != "hall_archived" {
		t.Fatalf("unknown code must pass through verbatim, got %q", got)
	}
}

func TestDetailRendering(t *testing.T) {
	events := []Event{{
		ID:          1,
		ActorUserID: 1,
		Action:      "hall_created",
		Details:     map[string]any{"room": "A1", "capacity": float64(30)},
		OccurredAt:  time.Now(),
	}}
	entries := Reconstruct(events, nil)
	want := []string{"capacity: 30", "room: A1"}
	if !reflect.DeepEqual(entries[0].DetailLines, want) {
		t.Fatalf("detail lines = %v, want %v", entries[0].DetailLines, want)
	}
}

func TestDetailRenderingPlaceholderAndScalars(t *testing.T) {
	events := []Event{
		{ID: 1, ActorUserID: 1, Action: "hall_deleted", OccurredAt: time.Now().Add(time.Minute)},
		{ID: 2, ActorUserID: 1, Action: "hall_updated", Details: map[string]any{"active": true, "note": nil, "rate": 12.5}, OccurredAt: time.Now()},
	}
	entries := Reconstruct(events, nil)
	if !reflect.DeepEqual(entries[0].DetailLines, []string{"-"}) {
		t.Fatalf("nil details should render placeholder, got %v", entries[0].DetailLines)
	}
	want := []string{"active: true", "note: null", "rate: 12.5"}
	if !reflect.DeepEqual(entries[1].DetailLines, want) {
		t.Fatalf("scalar details = %v, want %v", entries[1].DetailLines, want)
	}
}

func TestDistinctActorIDs(t *testing.T) {
	events := []Event{
		{ID: 1, ActorUserID: 7},
		{ID: 2, ActorUserID: 3},
		{ID: 3, ActorUserID: 7},
	}
	got := DistinctActorIDs(events)
	if !reflect.DeepEqual(got, []int64{7, 3}) {
		t.Fatalf("distinct ids = %v", got)
	}
}
