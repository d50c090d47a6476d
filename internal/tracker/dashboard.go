package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-tracker/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker/internal/pkg/notify"
)

var (
	ErrDeleteCancelled = errors.New("delete cancelled")
	ErrAlreadyActive   = errors.New("dashboard is already active")
)

const (
	EmptyNoRecords = "No attendance records available. Start by adding some records."
	EmptyNoMatches = "No records match your current filters."
)

// RecordStore is the part of the attendance API the dashboard needs.
type RecordStore interface {
	List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, error)
	Delete(ctx context.Context, id string) error
}

type DashboardOptions struct {
	// Subscriber delivers attendance:added; nil disables refresh-on-create.
	Subscriber notify.Subscriber
	// Confirmer guards Delete; nil approves every deletion.
	Confirmer  Confirmer
	MessageTTL time.Duration
	Logger     *slog.Logger
}

// RecordDashboard keeps a locally filtered view of the remote attendance collection.
//
// The record set is whatever the last completed fetch returned; the visible set and
// stats are always recomputed from it and the current query and date filter. Fetches
// carry the filter values current at call time, and the local filter is applied on
// top, so the visible set never depends on what the server chose to filter.
type RecordDashboard struct {
	store      RecordStore
	subscriber notify.Subscriber
	confirmer  Confirmer
	logger     *slog.Logger
	flash      *Flash

	mu          sync.Mutex
	records     []Record
	visible     []Record
	stats       Stats
	query       string
	dateFilter  string
	inFlight    int
	unsubscribe func()
}

func NewRecordDashboard(store RecordStore, opts DashboardOptions) *RecordDashboard {
	if opts.Confirmer == nil {
		opts.Confirmer = AlwaysConfirm
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &RecordDashboard{
		store:      store,
		subscriber: opts.Subscriber,
		confirmer:  opts.Confirmer,
		logger:     opts.Logger.With("component", "record_dashboard"),
		flash:      NewFlash(opts.MessageTTL),
		records:    []Record{},
		visible:    []Record{},
	}
}

// Activate subscribes to attendance:added and performs the initial fetch. Every
// notification triggers a Refresh with ctx until the returned func is called. The
// subscription stays in place even if the initial fetch fails.
func (d *RecordDashboard) Activate(ctx context.Context) (deactivate func(), err error) {
	d.mu.Lock()
	if d.unsubscribe != nil {
		d.mu.Unlock()
		return nil, ErrAlreadyActive
	}
	unsubscribe := func() {}
	if d.subscriber != nil {
		unsubscribe = d.subscriber.Subscribe(attendance.EventAttendanceAdded, func() {
			_ = d.Refresh(ctx)
		})
	}
	d.unsubscribe = unsubscribe
	d.mu.Unlock()

	deactivate = func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.unsubscribe != nil {
			d.unsubscribe()
			d.unsubscribe = nil
		}
		d.flash.Stop()
	}

	return deactivate, d.Refresh(ctx)
}

// Refresh refetches the record set. On failure the current set is kept.
func (d *RecordDashboard) Refresh(ctx context.Context) error {
	d.mu.Lock()
	filter := attendance.AttendanceFilter{Query: d.query, Date: d.dateFilter}
	d.inFlight++
	d.mu.Unlock()

	records, err := d.store.List(ctx, filter)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.inFlight--

	if err != nil {
		d.flash.Show(MsgFetchFailed, MessageError)
		d.logger.Error("Failed to fetch attendance records", "q", filter.Query, "date", filter.Date, "error", err)
		return fmt.Errorf("refresh attendance: %w", err)
	}

	records, dropped := keepKnownStatus(records)
	if dropped > 0 {
		d.logger.Warn("Ignoring attendance records with unknown status", "count", dropped)
	}
	// Last response to resolve wins.
	d.records = records
	d.applyLocalFilterLocked()
	return nil
}

func (d *RecordDashboard) SetQuery(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.query = query
	d.applyLocalFilterLocked()
}

func (d *RecordDashboard) SetDate(date string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dateFilter = date
	d.applyLocalFilterLocked()
}

func (d *RecordDashboard) ClearFilters() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.query = ""
	d.dateFilter = ""
	d.applyLocalFilterLocked()
}

// Delete asks for confirmation, deletes id remotely and drops it from the local set
// without refetching.
func (d *RecordDashboard) Delete(ctx context.Context, id string) error {
	ok, err := d.confirmer.Confirm(ctx, DeleteConfirmPrompt)
	if err != nil {
		return fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		return ErrDeleteCancelled
	}

	if err := d.store.Delete(ctx, id); err != nil {
		d.flash.Show(MsgDeleteFailed, MessageError)
		d.logger.Error("Failed to delete attendance record", "id", id, "error", err)
		return fmt.Errorf("delete attendance %s: %w", id, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.records, _ = removeByID(d.records, id)
	d.applyLocalFilterLocked()
	return nil
}

func (d *RecordDashboard) applyLocalFilterLocked() {
	d.visible = Filter(d.records, d.query, d.dateFilter)
	d.stats = ComputeStats(d.visible)
}

func (d *RecordDashboard) Records() []Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.records)
}

func (d *RecordDashboard) Visible() []Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.visible)
}

func (d *RecordDashboard) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

func (d *RecordDashboard) Query() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.query
}

func (d *RecordDashboard) DateFilter() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dateFilter
}

func (d *RecordDashboard) HasFilters() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.query != "" || d.dateFilter != ""
}

func (d *RecordDashboard) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inFlight > 0
}

func (d *RecordDashboard) Message() Message {
	return d.flash.Current()
}

// EmptyStateText explains an empty visible set, or returns "" when records are shown.
func (d *RecordDashboard) EmptyStateText() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch {
	case len(d.visible) > 0:
		return ""
	case len(d.records) == 0:
		return EmptyNoRecords
	default:
		return EmptyNoMatches
	}
}
