package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scienceclub/hallhub/internal/shared"
)

// Repository defines persistence operations for bookings.
type Repository interface {
	ListBookings(ctx context.Context) ([]BookingView, error)
	GetBooking(ctx context.Context, id int64) (*Booking, error)
	CountOverlapping(ctx context.Context, hallID int64, start, end time.Time, excludeID int64) (int, error)
	CreateBooking(ctx context.Context, booking Booking) (int64, error)
	UpdateBooking(ctx context.Context, id int64, booking Booking) error
	DeleteBooking(ctx context.Context, id int64) error
}

// PGRepository implements Repository on PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ListBookings returns all bookings joined with resource names, newest first.
func (r *PGRepository) ListBookings(ctx context.Context) ([]BookingView, error) {
	const query = `
		SELECT b.id, b.hall_id, b.teacher_id, b.subject_id, b.stage_id,
		       b.starts_at, b.ends_at, b.price, b.created_by, b.created_at, b.updated_at,
		       h.name, t.name, sub.name, st.name
		FROM bookings b
		JOIN halls h ON h.id = b.hall_id
		JOIN teachers t ON t.id = b.teacher_id
		JOIN subjects sub ON sub.id = b.subject_id
		JOIN stages st ON st.id = b.stage_id
		ORDER BY b.starts_at DESC, b.id DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []BookingView
	for rows.Next() {
		var v BookingView
		err := rows.Scan(
			&v.ID, &v.HallID, &v.TeacherID, &v.SubjectID, &v.StageID,
			&v.StartsAt, &v.EndsAt, &v.Price, &v.CreatedBy, &v.CreatedAt, &v.UpdatedAt,
			&v.HallName, &v.TeacherName, &v.SubjectName, &v.StageName,
		)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// GetBooking fetches one booking by id.
func (r *PGRepository) GetBooking(ctx context.Context, id int64) (*Booking, error) {
	const query = `
		SELECT id, hall_id, teacher_id, subject_id, stage_id, starts_at, ends_at, price, created_by, created_at, updated_at
		FROM bookings WHERE id = $1`
	var b Booking
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.HallID, &b.TeacherID, &b.SubjectID, &b.StageID,
		&b.StartsAt, &b.EndsAt, &b.Price, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// CountOverlapping counts bookings for the hall whose half-open time range
// intersects [start, end). excludeID skips the booking being edited.
func (r *PGRepository) CountOverlapping(ctx context.Context, hallID int64, start, end time.Time, excludeID int64) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM bookings
		WHERE hall_id = $1
		  AND starts_at < $3
		  AND $2 < ends_at
		  AND id <> $4`
	var count int
	err := r.pool.QueryRow(ctx, query, hallID, start, end, excludeID).Scan(&count)
	return count, err
}

// CreateBooking inserts a booking and returns its id.
func (r *PGRepository) CreateBooking(ctx context.Context, booking Booking) (int64, error) {
	const query = `
		INSERT INTO bookings (hall_id, teacher_id, subject_id, stage_id, starts_at, ends_at, price, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id`
	var id int64
	err := r.pool.QueryRow(ctx, query,
		booking.HallID, booking.TeacherID, booking.SubjectID, booking.StageID,
		booking.StartsAt, booking.EndsAt, booking.Price, booking.CreatedBy,
	).Scan(&id)
	return id, err
}

// UpdateBooking rewrites a booking.
func (r *PGRepository) UpdateBooking(ctx context.Context, id int64, booking Booking) error {
	const query = `
		UPDATE bookings
		SET hall_id = $2, teacher_id = $3, subject_id = $4, stage_id = $5,
		    starts_at = $6, ends_at = $7, price = $8, updated_at = NOW()
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id,
		booking.HallID, booking.TeacherID, booking.SubjectID, booking.StageID,
		booking.StartsAt, booking.EndsAt, booking.Price,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteBooking removes a booking.
func (r *PGRepository) DeleteBooking(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
