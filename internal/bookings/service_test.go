package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scienceclub/hallhub/internal/shared"
)

type stubRepo struct {
	bookings map[int64]Booking
	nextID   int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{bookings: make(map[int64]Booking), nextID: 1}
}

func (s *stubRepo) ListBookings(ctx context.Context) ([]BookingView, error) {
	return nil, nil
}

func (s *stubRepo) GetBooking(ctx context.Context, id int64) (*Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &b, nil
}

func (s *stubRepo) CountOverlapping(ctx context.Context, hallID int64, start, end time.Time, excludeID int64) (int, error) {
	count := 0
	for id, b := range s.bookings {
		if id == excludeID || b.HallID != hallID {
			continue
		}
		if Overlaps(start, end, b.StartsAt, b.EndsAt) {
			count++
		}
	}
	return count, nil
}

func (s *stubRepo) CreateBooking(ctx context.Context, booking Booking) (int64, error) {
	id := s.nextID
	s.nextID++
	booking.ID = id
	s.bookings[id] = booking
	return id, nil
}

func (s *stubRepo) UpdateBooking(ctx context.Context, id int64, booking Booking) error {
	if _, ok := s.bookings[id]; !ok {
		return shared.ErrNotFound
	}
	booking.ID = id
	s.bookings[id] = booking
	return nil
}

func (s *stubRepo) DeleteBooking(ctx context.Context, id int64) error {
	if _, ok := s.bookings[id]; !ok {
		return shared.ErrNotFound
	}
	delete(s.bookings, id)
	return nil
}

type stubIdempotency struct {
	seen    map[string]bool
	deleted []string
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{seen: make(map[string]bool)}
}

func (s *stubIdempotency) CheckAndInsert(ctx context.Context, key, module string) error {
	if s.seen[key] {
		return shared.ErrIdempotencyConflict
	}
	s.seen[key] = true
	return nil
}

func (s *stubIdempotency) Delete(ctx context.Context, key string) error {
	delete(s.seen, key)
	s.deleted = append(s.deleted, key)
	return nil
}

type memorySink struct {
	entries []shared.AuditEntry
}

func (m *memorySink) Record(ctx context.Context, entry shared.AuditEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func validBooking(hallID int64, start time.Time) Booking {
	return Booking{
		HallID:    hallID,
		TeacherID: 1,
		SubjectID: 1,
		StageID:   1,
		StartsAt:  start,
		EndsAt:    start.Add(2 * time.Hour),
		Price:     150,
	}
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	repo := newStubRepo()
	sink := &memorySink{}
	service := NewService(repo, newStubIdempotency(), sink, nil, nil)

	base := time.Date(2026, 9, 1, 16, 0, 0, 0, time.UTC)
	_, err := service.CreateBooking(context.Background(), 1, "k1", validBooking(5, base))
	require.NoError(t, err)

	// Overlaps the middle of the first booking.
	_, err = service.CreateBooking(context.Background(), 1, "k2", validBooking(5, base.Add(time.Hour)))
	require.ErrorIs(t, err, ErrHallBusy)

	// Back-to-back is allowed: ranges are half-open.
	_, err = service.CreateBooking(context.Background(), 1, "k3", validBooking(5, base.Add(2*time.Hour)))
	require.NoError(t, err)

	// Same time in another hall is allowed.
	_, err = service.CreateBooking(context.Background(), 1, "k4", validBooking(6, base))
	require.NoError(t, err)
}

func TestCreateBookingIdempotency(t *testing.T) {
	repo := newStubRepo()
	idem := newStubIdempotency()
	service := NewService(repo, idem, &memorySink{}, nil, nil)

	base := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	_, err := service.CreateBooking(context.Background(), 1, "same-key", validBooking(1, base))
	require.NoError(t, err)

	_, err = service.CreateBooking(context.Background(), 1, "same-key", validBooking(1, base.Add(6*time.Hour)))
	require.ErrorIs(t, err, shared.ErrIdempotencyConflict)
	require.Len(t, repo.bookings, 1)
}

func TestCreateBookingReleasesKeyOnOverlapFailure(t *testing.T) {
	repo := newStubRepo()
	idem := newStubIdempotency()
	service := NewService(repo, idem, &memorySink{}, nil, nil)

	base := time.Date(2026, 9, 3, 12, 0, 0, 0, time.UTC)
	_, err := service.CreateBooking(context.Background(), 1, "first", validBooking(2, base))
	require.NoError(t, err)

	_, err = service.CreateBooking(context.Background(), 1, "retryable", validBooking(2, base))
	require.ErrorIs(t, err, ErrHallBusy)
	require.Contains(t, idem.deleted, "retryable")

	// The key is usable again once the conflict is resolved.
	_, err = service.CreateBooking(context.Background(), 1, "retryable", validBooking(2, base.Add(3*time.Hour)))
	require.NoError(t, err)
}

func TestCreateBookingValidation(t *testing.T) {
	service := NewService(newStubRepo(), newStubIdempotency(), &memorySink{}, nil, nil)

	base := time.Date(2026, 9, 4, 9, 0, 0, 0, time.UTC)

	inverted := validBooking(1, base)
	inverted.EndsAt = base.Add(-time.Hour)
	_, err := service.CreateBooking(context.Background(), 1, "", inverted)
	require.ErrorIs(t, err, ErrInvalidTimeRange)

	negative := validBooking(1, base)
	negative.Price = -10
	_, err = service.CreateBooking(context.Background(), 1, "", negative)
	require.ErrorIs(t, err, ErrInvalidPrice)
}

func TestUpdateBookingSkipsSelfOverlap(t *testing.T) {
	repo := newStubRepo()
	sink := &memorySink{}
	service := NewService(repo, newStubIdempotency(), sink, nil, nil)

	base := time.Date(2026, 9, 5, 14, 0, 0, 0, time.UTC)
	id, err := service.CreateBooking(context.Background(), 1, "", validBooking(3, base))
	require.NoError(t, err)

	// Re-saving the same slot must not collide with itself.
	updated := validBooking(3, base.Add(30*time.Minute))
	require.NoError(t, service.UpdateBooking(context.Background(), 1, id, updated))

	var actions []string
	for _, entry := range sink.entries {
		actions = append(actions, entry.Action)
	}
	require.Equal(t, []string{shared.ActionBookingCreated, shared.ActionBookingUpdated}, actions)
}

func TestDeleteBookingRecordsAudit(t *testing.T) {
	repo := newStubRepo()
	sink := &memorySink{}
	service := NewService(repo, newStubIdempotency(), sink, nil, nil)

	base := time.Date(2026, 9, 6, 18, 0, 0, 0, time.UTC)
	id, err := service.CreateBooking(context.Background(), 4, "", validBooking(1, base))
	require.NoError(t, err)

	require.NoError(t, service.DeleteBooking(context.Background(), 4, id))
	require.Empty(t, repo.bookings)

	last := sink.entries[len(sink.entries)-1]
	require.Equal(t, shared.ActionBookingDeleted, last.Action)
	require.Equal(t, int64(4), last.ActorUserID)
}
