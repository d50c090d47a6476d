package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-tracker/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-tracker/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	hub *sse.Hub
	now func() time.Time
}

func NewAttendanceService(repo attendance.AttendanceRepository, hub *sse.Hub) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: repo,
		hub:                  hub,
		now:                  time.Now,
	}
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	records, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, attendance.NewAttendanceResponse(record))
	}

	return responses, nil
}

// CreateAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CreateAttendance(ctx context.Context, req attendance.CreateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date := s.now().UTC().Truncate(24 * time.Hour)
	if req.Date != "" {
		parsed, _ := validator.IsValidDate(req.Date)
		date = parsed
	}

	created, err := s.AttendanceRepository.Create(ctx, attendance.Attendance{
		EmployeeName: req.EmployeeName,
		EmployeeID:   req.EmployeeID,
		Date:         date,
		Status:       req.Status,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	result := attendance.NewAttendanceResponse(created)

	if s.hub != nil {
		s.hub.Publish(sse.Event{
			Event: attendance.EventAttendanceAdded,
			Data:  result,
		})
	}

	slog.Info("Attendance recorded", "id", result.ID, "employee_id", result.EmployeeID, "date", result.Date, "status", result.Status)

	return result, nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return attendance.ErrInvalidID
	}

	if err := s.AttendanceRepository.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("Attendance deleted", "id", id)
	return nil
}
