package audit

import "time"

// Event is one append-only row from audit_logs. This package only reads
// events; recording happens through shared.AuditRecorder.
type Event struct {
	ID          int64
	ActorUserID int64
	Action      string
	Details     map[string]any
	OccurredAt  time.Time
}

// Actor is a directory entry mapping a user ID to a display name.
type Actor struct {
	UserID int64
	Name   string
}

// Category is the presentational grouping of an action code. It drives
// badge styling only and carries no authorization meaning.
type Category string

const (
	CategoryCreate Category = "create"
	CategoryUpdate Category = "update"
	CategoryDelete Category = "delete"
	CategoryOther  Category = "other"
)

// Entry is the display-ready projection of an event: actor name resolved,
// action localized and classified, details flattened. Entries are built per
// query and never persisted.
type Entry struct {
	ID          int64
	ActorName   string
	ActionCode  string
	ActionLabel string
	Category    Category
	DetailLines []string
	OccurredAt  time.Time
}

// ViewModel bundles the audit page data for templates.
type ViewModel struct {
	Entries []Entry
	Empty   bool
}
