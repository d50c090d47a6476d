package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/cmlabs-hris/attendance-tracker/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker/internal/pkg/validator"
	"github.com/google/uuid"
)

const schema = `
CREATE TABLE IF NOT EXISTS attendance_records (
	id            TEXT PRIMARY KEY,
	employee_name TEXT NOT NULL,
	employee_id   TEXT NOT NULL,
	date          TEXT NOT NULL,
	status        TEXT NOT NULL CHECK (status IN ('Present', 'Absent')),
	created_at    TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_attendance_records_date
	ON attendance_records (date DESC, created_at DESC);
`

// driverName is go-sqlite3 with ulower registered on every connection. SQLite's own
// lower() folds ASCII only; ulower folds like strings.ToLower, matching the client filter.
const driverName = "sqlite3_attendance"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("ulower", strings.ToLower, true)
		},
	})
}

// withConnParams appends the connection options to dsn, which may already carry a query.
func withConnParams(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on&_busy_timeout=5000"
}

type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// New opens the SQLite database at dsn (":memory:" works for tests) and applies the schema.
func New(ctx context.Context, dsn string) (*Repository, error) {
	db, err := sql.Open(driverName, withConnParams(dsn))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	return &Repository{db: db, now: time.Now}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Create implements attendance.AttendanceRepository.
func (r *Repository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}
	a.ID = id.String()
	a.CreatedAt = r.now().UTC()

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO attendance_records (id, employee_name, employee_id, date, status, created_at)
		VALUES (?,?,?,?,?,?)`,
		a.ID, a.EmployeeName, a.EmployeeID,
		a.Date.Format(validator.DateLayout), string(a.Status), a.CreatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return a, nil
}

// List implements attendance.AttendanceRepository.
func (r *Repository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, error) {
	var (
		where []string
		args  []interface{}
	)

	if filter.Query != "" {
		where = append(where, "(instr(ulower(employee_name), ulower(?)) > 0 OR instr(ulower(employee_id), ulower(?)) > 0)")
		args = append(args, filter.Query, filter.Query)
	}
	if filter.Date != "" {
		where = append(where, "date = ?")
		args = append(args, filter.Date)
	}

	query := `SELECT id, employee_name, employee_id, date, status, created_at FROM attendance_records`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		var (
			a      attendance.Attendance
			date   string
			status string
		)
		if err := rows.Scan(&a.ID, &a.EmployeeName, &a.EmployeeID, &date, &status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		parsed, ok := validator.IsValidDate(date)
		if !ok {
			return nil, fmt.Errorf("attendance %s has malformed date %q", a.ID, date)
		}
		a.Date = parsed
		a.Status = attendance.Status(status)
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return records, nil
}

// Delete implements attendance.AttendanceRepository.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attendance_records WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if n == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}
