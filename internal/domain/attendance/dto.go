package attendance

import (
	"strings"

	"github.com/cmlabs-hris/attendance-tracker/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CreateAttendanceRequest struct {
	EmployeeName string `json:"employeeName" validate:"notblank,max=255"`
	EmployeeID   string `json:"employeeID" validate:"notblank,max=64"`
	Date         string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status       Status `json:"status" validate:"oneof=Present Absent"`
}

// Normalize trims the free-text fields in place.
func (r *CreateAttendanceRequest) Normalize() {
	r.EmployeeName = strings.TrimSpace(r.EmployeeName)
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	r.Date = strings.TrimSpace(r.Date)
}

func (r *CreateAttendanceRequest) Validate() error {
	r.Normalize()
	return validator.Struct(r)
}

type AttendanceResponse struct {
	ID           string `json:"id"`
	EmployeeName string `json:"employeeName"`
	EmployeeID   string `json:"employeeID"`
	Date         string `json:"date"`
	Status       Status `json:"status"`
}

// NewAttendanceResponse converts an entity into its wire form.
func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:           a.ID,
		EmployeeName: a.EmployeeName,
		EmployeeID:   a.EmployeeID,
		Date:         a.Date.Format(validator.DateLayout),
		Status:       a.Status,
	}
}

type AttendanceFilter struct {
	// Query matches employee name or employee ID, case-insensitive substring
	Query string `json:"q,omitempty"`
	Date  string `json:"date,omitempty"` // YYYY-MM-DD
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	f.Query = strings.TrimSpace(f.Query)
	f.Date = strings.TrimSpace(f.Date)

	if f.Date != "" {
		if _, valid := validator.IsValidDate(f.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ErrorResponse is the failure body returned by the attendance API.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}
