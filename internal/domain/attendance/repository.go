package attendance

import (
	"context"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create stores a new attendance record and returns it with its assigned ID
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// List retrieves records matching the filter, newest date first
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, error)

	// Delete removes a record; ErrAttendanceNotFound when nothing matched
	Delete(ctx context.Context, id string) error
}
