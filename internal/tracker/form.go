package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-tracker/internal/client"
	"github.com/cmlabs-hris/attendance-tracker/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker/internal/pkg/notify"
	"github.com/cmlabs-hris/attendance-tracker/internal/pkg/validator"
)

const (
	MsgMissingFields    = "Please fill in both employee name and ID."
	MsgRecordSaved      = "Attendance recorded successfully!"
	MsgSaveFailed       = "Error saving attendance. Please try again."
	MsgFetchFailed      = "Error fetching records."
	MsgDeleteFailed     = "Error deleting record."
	DeleteConfirmPrompt = "Are you sure you want to delete this record?"
)

var (
	ErrMissingFields    = errors.New("employee name and ID are required")
	ErrSubmitInProgress = errors.New("a submission is already in progress")
	ErrInvalidStatus    = errors.New("status must be Present or Absent")
)

// Creator is the part of the attendance API the entry form needs.
type Creator interface {
	Create(ctx context.Context, req attendance.CreateAttendanceRequest) (attendance.AttendanceResponse, error)
}

type FormOptions struct {
	// Publisher receives attendance:added after every successful submission.
	Publisher  notify.Publisher
	MessageTTL time.Duration
	Now        func() time.Time
	Logger     *slog.Logger
}

// FormFields is a snapshot of the editable inputs.
type FormFields struct {
	EmployeeName string
	EmployeeID   string
	Status       attendance.Status
}

// RecordEntryForm collects one attendance entry and submits it.
type RecordEntryForm struct {
	store     Creator
	publisher notify.Publisher
	now       func() time.Time
	logger    *slog.Logger
	flash     *Flash

	mu         sync.Mutex
	fields     FormFields
	submitting bool
}

func NewRecordEntryForm(store Creator, opts FormOptions) *RecordEntryForm {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &RecordEntryForm{
		store:     store,
		publisher: opts.Publisher,
		now:       opts.Now,
		logger:    opts.Logger.With("component", "record_entry_form"),
		flash:     NewFlash(opts.MessageTTL),
		fields:    FormFields{Status: attendance.StatusPresent},
	}
}

func (f *RecordEntryForm) SetEmployeeName(name string) error {
	return f.edit(func(fields *FormFields) { fields.EmployeeName = name })
}

func (f *RecordEntryForm) SetEmployeeID(id string) error {
	return f.edit(func(fields *FormFields) { fields.EmployeeID = id })
}

func (f *RecordEntryForm) SetStatus(status attendance.Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return f.edit(func(fields *FormFields) { fields.Status = status })
}

// Inputs are locked while a submission is outstanding.
func (f *RecordEntryForm) edit(apply func(*FormFields)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitting {
		return ErrSubmitInProgress
	}
	apply(&f.fields)
	return nil
}

func (f *RecordEntryForm) Fields() FormFields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

func (f *RecordEntryForm) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

func (f *RecordEntryForm) Message() Message {
	return f.flash.Current()
}

// Close cancels the pending message timer.
func (f *RecordEntryForm) Close() {
	f.flash.Stop()
}

// Submit validates the inputs and creates a record dated today. On success the
// inputs are reset and attendance:added is published; on failure they are kept.
func (f *RecordEntryForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmitInProgress
	}

	name := strings.TrimSpace(f.fields.EmployeeName)
	id := strings.TrimSpace(f.fields.EmployeeID)
	if name == "" || id == "" {
		f.flash.Show(MsgMissingFields, MessageError)
		f.mu.Unlock()
		return ErrMissingFields
	}

	req := attendance.CreateAttendanceRequest{
		EmployeeName: name,
		EmployeeID:   id,
		Date:         f.now().UTC().Format(validator.DateLayout),
		Status:       f.fields.Status,
	}
	f.submitting = true
	f.mu.Unlock()

	created, err := f.store.Create(ctx, req)

	f.mu.Lock()
	f.submitting = false
	if err != nil {
		text := MsgSaveFailed
		if remote, ok := client.RemoteMessage(err); ok {
			text = remote
		}
		f.flash.Show(text, MessageError)
		f.mu.Unlock()

		f.logger.Error("Failed to save attendance", "employee_id", req.EmployeeID, "error", err)
		return fmt.Errorf("submit attendance: %w", err)
	}

	f.flash.Show(MsgRecordSaved, MessageSuccess)
	f.fields = FormFields{Status: attendance.StatusPresent}
	f.mu.Unlock()

	f.logger.Info("Attendance submitted", "id", created.ID, "employee_id", req.EmployeeID, "date", req.Date)

	if f.publisher != nil {
		f.publisher.Publish(attendance.EventAttendanceAdded)
	}
	return nil
}
