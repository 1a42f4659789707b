package bookings

import (
	"errors"
	"time"
)

// Booking represents a hall reservation for a class session.
type Booking struct {
	ID        int64
	HallID    int64
	TeacherID int64
	SubjectID int64
	StageID   int64
	StartsAt  time.Time
	EndsAt    time.Time
	Price     float64
	CreatedBy int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookingView is a booking joined with its resource names for display.
type BookingView struct {
	Booking
	HallName    string
	TeacherName string
	SubjectName string
	StageName   string
}

var (
	// ErrHallBusy indicates the hall is already booked for an overlapping
	// time range.
	ErrHallBusy = errors.New("hall already booked for this time range")
	// ErrInvalidTimeRange indicates the booking ends before it starts.
	ErrInvalidTimeRange = errors.New("booking must end after it starts")
	// ErrInvalidPrice indicates a negative price.
	ErrInvalidPrice = errors.New("price must not be negative")
)

// Validate checks the internal consistency of a booking.
func (b Booking) Validate() error {
	if b.HallID <= 0 || b.TeacherID <= 0 || b.SubjectID <= 0 || b.StageID <= 0 {
		return errors.New("booking requires hall, teacher, subject and stage")
	}
	if !b.EndsAt.After(b.StartsAt) {
		return ErrInvalidTimeRange
	}
	if b.Price < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// Overlaps reports whether two time ranges intersect. Ranges are half-open:
// a booking ending exactly when another starts does not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
