package students

import "time"

// Student represents an enrolled student.
type Student struct {
	ID           int64
	SerialNumber int
	Name         string
	MobilePhone  string
	ParentPhone  string
	City         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewStudentInput carries the fields required to register a student.
type NewStudentInput struct {
	Name        string
	MobilePhone string
	ParentPhone string
	City        string
}
