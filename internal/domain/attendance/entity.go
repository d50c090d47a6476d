package attendance

import (
	"time"
)

// Status is the attendance outcome recorded for an employee on a given day.
type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusPresent || s == StatusAbsent
}

type Attendance struct {
	ID           string
	EmployeeName string
	EmployeeID   string
	Date         time.Time
	Status       Status
	CreatedAt    time.Time
}
