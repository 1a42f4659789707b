package reports

import "time"

// HallIncome aggregates bookings and income for one hall.
type HallIncome struct {
	HallID       int64   `json:"hall_id"`
	HallName     string  `json:"hall_name"`
	BookingCount int     `json:"booking_count"`
	Income       float64 `json:"income"`
}

// Summary is the financial overview for a date range.
type Summary struct {
	TotalIncome  float64      `json:"total_income"`
	BookingCount int          `json:"booking_count"`
	Halls        []HallIncome `json:"halls"`
}

// GroupReport aggregates bookings by subject, stage and teacher.
type GroupReport struct {
	SubjectName  string  `json:"subject_name"`
	StageName    string  `json:"stage_name"`
	TeacherName  string  `json:"teacher_name"`
	BookingCount int     `json:"booking_count"`
	Income       float64 `json:"income"`
}

// Range is an inclusive date range for report queries.
type Range struct {
	From time.Time
	To   time.Time
}
