package bookings

import (
	"context"
	"errors"
	"log/slog"

	"github.com/scienceclub/hallhub/internal/shared"
)

// IdempotencyChecker guards create requests against double submission.
// Satisfied by shared.IdempotencyStore.
type IdempotencyChecker interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key string) error
}

// CacheInvalidator drops derived caches after a booking mutation.
// Satisfied by the reports service.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Service wraps booking business rules: time validation, hall overlap
// rejection and idempotent creation.
type Service struct {
	repo        Repository
	idempotency IdempotencyChecker
	audit       shared.AuditSink
	invalidator CacheInvalidator
	logger      *slog.Logger
}

// NewService builds a Service instance. invalidator may be nil when no
// derived caches exist (tests, the worker binary).
func NewService(repo Repository, idempotency IdempotencyChecker, audit shared.AuditSink, invalidator CacheInvalidator, logger *slog.Logger) *Service {
	return &Service{repo: repo, idempotency: idempotency, audit: audit, invalidator: invalidator, logger: logger}
}

// ListBookings returns all bookings with resource names.
func (s *Service) ListBookings(ctx context.Context) ([]BookingView, error) {
	return s.repo.ListBookings(ctx)
}

// GetBooking returns one booking.
func (s *Service) GetBooking(ctx context.Context, id int64) (*Booking, error) {
	return s.repo.GetBooking(ctx, id)
}

// CreateBooking validates, checks the hall for overlap and inserts the
// booking. A repeated idempotency key returns the conflict error without
// touching the bookings table.
func (s *Service) CreateBooking(ctx context.Context, actorID int64, idempotencyKey string, booking Booking) (int64, error) {
	if err := booking.Validate(); err != nil {
		return 0, err
	}
	if idempotencyKey != "" {
		if err := s.idempotency.CheckAndInsert(ctx, idempotencyKey, "bookings"); err != nil {
			return 0, err
		}
	}
	count, err := s.repo.CountOverlapping(ctx, booking.HallID, booking.StartsAt, booking.EndsAt, 0)
	if err != nil {
		s.releaseKey(ctx, idempotencyKey)
		return 0, err
	}
	if count > 0 {
		s.releaseKey(ctx, idempotencyKey)
		return 0, ErrHallBusy
	}
	booking.CreatedBy = actorID
	id, err := s.repo.CreateBooking(ctx, booking)
	if err != nil {
		s.releaseKey(ctx, idempotencyKey)
		return 0, err
	}
	s.record(ctx, actorID, shared.ActionBookingCreated, map[string]any{
		"booking_id": id,
		"hall_id":    booking.HallID,
		"starts_at":  booking.StartsAt,
	})
	s.invalidate(ctx)
	return id, nil
}

// UpdateBooking validates and rewrites a booking, re-checking overlap
// against every booking except the one being edited.
func (s *Service) UpdateBooking(ctx context.Context, actorID, id int64, booking Booking) error {
	if err := booking.Validate(); err != nil {
		return err
	}
	count, err := s.repo.CountOverlapping(ctx, booking.HallID, booking.StartsAt, booking.EndsAt, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrHallBusy
	}
	if err := s.repo.UpdateBooking(ctx, id, booking); err != nil {
		return err
	}
	s.record(ctx, actorID, shared.ActionBookingUpdated, map[string]any{
		"booking_id": id,
		"hall_id":    booking.HallID,
	})
	s.invalidate(ctx)
	return nil
}

// DeleteBooking removes a booking.
func (s *Service) DeleteBooking(ctx context.Context, actorID, id int64) error {
	if err := s.repo.DeleteBooking(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorID, shared.ActionBookingDeleted, map[string]any{"booking_id": id})
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx); err != nil && s.logger != nil {
		s.logger.Warn("invalidate report cache", slog.Any("error", err))
	}
}

// releaseKey frees an idempotency key after a failed create so the client
// can retry with the same key.
func (s *Service) releaseKey(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.idempotency.Delete(ctx, key); err != nil && s.logger != nil {
		s.logger.Warn("release idempotency key", slog.String("key", key), slog.Any("error", err))
	}
}

func (s *Service) record(ctx context.Context, actorID int64, action string, details map[string]any) {
	err := s.audit.Record(ctx, shared.AuditEntry{
		ActorUserID: actorID,
		Action:      action,
		Details:     details,
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("record audit entry", slog.String("action", action), slog.Any("error", err))
	}
}

// IsConflict reports whether the error is a duplicate submission.
func IsConflict(err error) bool {
	return errors.Is(err, shared.ErrIdempotencyConflict)
}
