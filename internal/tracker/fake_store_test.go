package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cmlabs-hris/attendance-tracker/internal/domain/attendance"
)

var errNetwork = errors.New("connection refused")

// fakeStore is an in-memory stand-in for the attendance API. It applies the same
// q/date narrowing the real service does.
type fakeStore struct {
	mu        sync.Mutex
	records   []Record
	nextID    int
	listErr   error
	createErr error
	deleteErr error

	listCalls   []attendance.AttendanceFilter
	createCalls []attendance.CreateAttendanceRequest
	deleteCalls []string
}

func newFakeStore(records ...Record) *fakeStore {
	return &fakeStore{records: records, nextID: len(records)}
}

func (s *fakeStore) List(_ context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listCalls = append(s.listCalls, filter)
	if s.listErr != nil {
		return nil, s.listErr
	}
	return Filter(s.records, filter.Query, filter.Date), nil
}

func (s *fakeStore) Create(_ context.Context, req attendance.CreateAttendanceRequest) (attendance.AttendanceResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.createCalls = append(s.createCalls, req)
	if s.createErr != nil {
		return attendance.AttendanceResponse{}, s.createErr
	}
	s.nextID++
	created := Record{
		ID:           fmt.Sprintf("rec-%d", s.nextID),
		EmployeeName: req.EmployeeName,
		EmployeeID:   req.EmployeeID,
		Date:         req.Date,
		Status:       req.Status,
	}
	s.records = append(s.records, created)
	return created, nil
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteCalls = append(s.deleteCalls, id)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	var found bool
	s.records, found = removeByID(s.records, id)
	if !found {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

func (s *fakeStore) creates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.createCalls)
}

func (s *fakeStore) lists() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listCalls)
}
