package audit

import (
	"fmt"
	"sort"
)

// UnknownActorName is the sentinel shown when an event's actor has no
// directory entry. A missing join degrades the display, it never fails it.
const UnknownActorName = "Unknown User"

// detailPlaceholder renders for events without a details payload.
const detailPlaceholder = "-"

// Reconstruct joins events against the actor directory and produces the
// display-ready log, most recent first. It never errors: unknown actors and
// unknown action codes degrade to sentinel values.
func Reconstruct(events []Event, actors []Actor) []Entry {
	names := make(map[int64]string, len(actors))
	for _, actor := range actors {
		names[actor.UserID] = actor.Name
	}

	entries := make([]Entry, 0, len(events))
	for _, event := range events {
		name, ok := names[event.ActorUserID]
		if !ok || name == "" {
			name = UnknownActorName
		}
		entries = append(entries, Entry{
			ID:          event.ID,
			ActorName:   name,
			ActionCode:  event.Action,
			ActionLabel: ActionLabel(event.Action),
			Category:    Classify(event.Action),
			DetailLines: renderDetails(event.Details),
			OccurredAt:  event.OccurredAt,
		})
	}

	// The source orders events descending already; re-sorting pins the
	// contract here and makes ties deterministic.
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].OccurredAt.Equal(entries[j].OccurredAt) {
			return entries[i].OccurredAt.After(entries[j].OccurredAt)
		}
		return entries[i].ID > entries[j].ID
	})
	return entries
}

// DistinctActorIDs collects the unique actor IDs across events, in first
// appearance order. The directory query fetches exactly this set.
func DistinctActorIDs(events []Event) []int64 {
	seen := make(map[int64]struct{}, len(events))
	ids := make([]int64, 0, len(events))
	for _, event := range events {
		if _, ok := seen[event.ActorUserID]; ok {
			continue
		}
		seen[event.ActorUserID] = struct{}{}
		ids = append(ids, event.ActorUserID)
	}
	return ids
}

func renderDetails(details map[string]any) []string {
	if len(details) == 0 {
		return []string{detailPlaceholder}
	}
	keys := make([]string, 0, len(details))
	for key := range details {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", key, stringify(details[key])))
	}
	return lines
}

// stringify converts any scalar detail value to a display string without
// panicking. JSON payloads decode to string, float64, bool and nil.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case float64:
		// Trim the ".0" that fmt would add for integral JSON numbers.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
