package shared

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Action codes recorded in audit_logs. Codes follow the <noun>_<verb>
// convention; the audit page classifies them by verb suffix.
const (
	ActionUserCreated    = "user_created"
	ActionUserUpdated    = "user_updated"
	ActionUserDeleted    = "user_deleted"
	ActionBookingCreated = "booking_created"
	ActionBookingUpdated = "booking_updated"
	ActionBookingDeleted = "booking_deleted"
	ActionTeacherCreated = "teacher_created"
	ActionTeacherUpdated = "teacher_updated"
	ActionTeacherDeleted = "teacher_deleted"
	ActionHallCreated    = "hall_created"
	ActionHallUpdated    = "hall_updated"
	ActionHallDeleted    = "hall_deleted"
	ActionSubjectCreated = "subject_created"
	ActionSubjectUpdated = "subject_updated"
	ActionSubjectDeleted = "subject_deleted"
	ActionStageCreated   = "stage_created"
	ActionStageUpdated   = "stage_updated"
	ActionStageDeleted   = "stage_deleted"
)

// AuditEntry represents a record stored in audit_logs.
type AuditEntry struct {
	ActorUserID int64
	Action      string
	Details     map[string]any
	At          time.Time
}

// AuditSink accepts audit entries. Satisfied by AuditRecorder; services
// depend on the interface so tests can capture entries in memory.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// AuditRecorder appends privileged actions into audit_logs.
type AuditRecorder struct {
	pool *pgxpool.Pool
}

// NewAuditRecorder returns a new AuditRecorder.
func NewAuditRecorder(pool *pgxpool.Pool) *AuditRecorder {
	return &AuditRecorder{pool: pool}
}

// Record persists the log entry. The log is append-only; nothing in the
// application updates or deletes rows in audit_logs.
func (r *AuditRecorder) Record(ctx context.Context, entry AuditEntry) error {
	if r == nil {
		return errors.New("audit recorder not initialised")
	}
	if entry.Action == "" {
		return errors.New("audit entry requires an action code")
	}
	if entry.ActorUserID <= 0 {
		return errors.New("audit entry requires an actor")
	}
	var details []byte
	if entry.Details != nil {
		encoded, err := json.Marshal(entry.Details)
		if err != nil {
			return err
		}
		details = encoded
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (actor_user_id, action, details, created_at) VALUES ($1, $2, $3, COALESCE($4, NOW()))`,
		entry.ActorUserID, entry.Action, details, nullableTime(entry.At))
	return err
}

var _ AuditSink = (*AuditRecorder)(nil)

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
