package resources

import "time"

// Hall represents a bookable classroom or lecture hall.
type Hall struct {
	ID         int64
	Name       string
	Capacity   int
	HourlyRate float64
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Teacher represents a tutor who can be assigned to bookings.
type Teacher struct {
	ID        int64
	Name      string
	Phone     string
	Specialty string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subject represents a taught subject.
type Subject struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stage represents an educational stage (grade band).
type Stage struct {
	ID        int64
	Name      string
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}
