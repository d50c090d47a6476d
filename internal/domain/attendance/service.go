package attendance

import (
	"context"
)

// EventAttendanceAdded is broadcast after a record is created.
const EventAttendanceAdded = "attendance:added"

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// ListAttendance retrieves records filtered by free-text query and date
	ListAttendance(ctx context.Context, filter AttendanceFilter) ([]AttendanceResponse, error)

	// CreateAttendance validates and stores a record, then announces it to stream subscribers
	CreateAttendance(ctx context.Context, req CreateAttendanceRequest) (AttendanceResponse, error)

	// DeleteAttendance permanently removes a record
	DeleteAttendance(ctx context.Context, id string) error
}
