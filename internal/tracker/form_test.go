package tracker

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-tracker/internal/client"
	"github.com/cmlabs-hris/attendance-tracker/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker/internal/pkg/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 5, 23, 30, 0, 0, time.UTC) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestForm(store Creator, n *notify.Notifier) *RecordEntryForm {
	return NewRecordEntryForm(store, FormOptions{
		Publisher:  n,
		MessageTTL: time.Hour,
		Now:        fixedNow,
		Logger:     discardLogger(),
	})
}

func countEvents(n *notify.Notifier) *int {
	count := new(int)
	n.Subscribe(attendance.EventAttendanceAdded, func() { *count++ })
	return count
}

func TestRecordEntryForm_Defaults(t *testing.T) {
	form := newTestForm(newFakeStore(), notify.New())

	assert.Equal(t, FormFields{Status: attendance.StatusPresent}, form.Fields())
	assert.False(t, form.Submitting())
	assert.True(t, form.Message().IsZero())
}

func TestRecordEntryForm_Submit_MissingFields(t *testing.T) {
	cases := []struct {
		name, employeeName, employeeID string
	}{
		{"both empty", "", ""},
		{"name empty", "", "E100"},
		{"id whitespace", "Jane Doe", "   "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			n := notify.New()
			events := countEvents(n)
			form := newTestForm(store, n)
			require.NoError(t, form.SetEmployeeName(tc.employeeName))
			require.NoError(t, form.SetEmployeeID(tc.employeeID))

			err := form.Submit(context.Background())

			assert.ErrorIs(t, err, ErrMissingFields)
			assert.Equal(t, 0, store.creates())
			assert.Equal(t, 0, *events)
			assert.Equal(t, Message{Text: MsgMissingFields, Kind: MessageError}, form.Message())
			assert.Equal(t, tc.employeeName, form.Fields().EmployeeName)
		})
	}
}

func TestRecordEntryForm_Submit_Success(t *testing.T) {
	store := newFakeStore()
	n := notify.New()
	events := countEvents(n)
	form := newTestForm(store, n)

	require.NoError(t, form.SetEmployeeName("  Jane Doe "))
	require.NoError(t, form.SetEmployeeID("E100"))
	require.NoError(t, form.SetStatus(attendance.StatusAbsent))

	require.NoError(t, form.Submit(context.Background()))

	require.Len(t, store.createCalls, 1)
	assert.Equal(t, attendance.CreateAttendanceRequest{
		EmployeeName: "Jane Doe",
		EmployeeID:   "E100",
		Date:         "2024-03-05",
		Status:       attendance.StatusAbsent,
	}, store.createCalls[0])

	assert.Equal(t, 1, *events)
	assert.Equal(t, FormFields{Status: attendance.StatusPresent}, form.Fields())
	assert.Equal(t, Message{Text: MsgRecordSaved, Kind: MessageSuccess}, form.Message())
	assert.False(t, form.Submitting())
}

func TestRecordEntryForm_Submit_Failure(t *testing.T) {
	t.Run("network error", func(t *testing.T) {
		store := newFakeStore()
		store.createErr = errNetwork
		n := notify.New()
		events := countEvents(n)
		form := newTestForm(store, n)
		require.NoError(t, form.SetEmployeeName("Jane Doe"))
		require.NoError(t, form.SetEmployeeID("E100"))

		err := form.Submit(context.Background())

		assert.ErrorIs(t, err, errNetwork)
		assert.Equal(t, 0, *events)
		assert.Equal(t, Message{Text: MsgSaveFailed, Kind: MessageError}, form.Message())
		assert.Equal(t, "Jane Doe", form.Fields().EmployeeName)
		assert.Equal(t, "E100", form.Fields().EmployeeID)
		assert.False(t, form.Submitting())
	})

	t.Run("server message is shown", func(t *testing.T) {
		store := newFakeStore()
		store.createErr = &client.APIError{StatusCode: http.StatusUnprocessableEntity, Message: "employeeID: employeeID must not exceed 64 characters"}
		form := newTestForm(store, notify.New())
		require.NoError(t, form.SetEmployeeName("Jane Doe"))
		require.NoError(t, form.SetEmployeeID("E100"))

		err := form.Submit(context.Background())

		require.Error(t, err)
		assert.Equal(t, "employeeID: employeeID must not exceed 64 characters", form.Message().Text)
		assert.Equal(t, MessageError, form.Message().Kind)
	})
}

// blockingCreator holds Create until release is closed.
type blockingCreator struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingCreator) Create(ctx context.Context, req attendance.CreateAttendanceRequest) (attendance.AttendanceResponse, error) {
	close(b.started)
	<-b.release
	return attendance.AttendanceResponse{ID: "1", EmployeeName: req.EmployeeName}, nil
}

func TestRecordEntryForm_LockedWhileSubmitting(t *testing.T) {
	creator := &blockingCreator{started: make(chan struct{}), release: make(chan struct{})}
	form := newTestForm(creator, notify.New())
	require.NoError(t, form.SetEmployeeName("Jane Doe"))
	require.NoError(t, form.SetEmployeeID("E100"))

	done := make(chan error, 1)
	go func() { done <- form.Submit(context.Background()) }()
	<-creator.started

	assert.True(t, form.Submitting())
	assert.ErrorIs(t, form.Submit(context.Background()), ErrSubmitInProgress)
	assert.ErrorIs(t, form.SetEmployeeName("Bob"), ErrSubmitInProgress)
	assert.ErrorIs(t, form.SetStatus(attendance.StatusAbsent), ErrSubmitInProgress)

	close(creator.release)
	require.NoError(t, <-done)
	assert.False(t, form.Submitting())
	assert.NoError(t, form.SetEmployeeName("Bob"))
}

func TestRecordEntryForm_SetStatus_Invalid(t *testing.T) {
	form := newTestForm(newFakeStore(), notify.New())

	assert.ErrorIs(t, form.SetStatus("Late"), ErrInvalidStatus)
	assert.Equal(t, attendance.StatusPresent, form.Fields().Status)
}

func TestRecordEntryForm_NilPublisher(t *testing.T) {
	store := newFakeStore()
	form := NewRecordEntryForm(store, FormOptions{Now: fixedNow, Logger: discardLogger()})
	defer form.Close()
	require.NoError(t, form.SetEmployeeName("Jane Doe"))
	require.NoError(t, form.SetEmployeeID("E100"))

	assert.NoError(t, form.Submit(context.Background()))
	assert.Equal(t, 1, store.creates())
}
