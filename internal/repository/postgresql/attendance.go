package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-tracker/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-tracker/internal/pkg/validator"
	"github.com/google/uuid"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{
		db: db,
	}
}

// Migrate creates the attendance table and its lookup index when missing.
func Migrate(ctx context.Context, db *database.DB) error {
	return WithTransaction(ctx, db, func(ctx context.Context) error {
		q := GetQuerier(ctx, db)

		if _, err := q.Exec(ctx, `
			CREATE TABLE IF NOT EXISTS attendance_records (
				id            UUID PRIMARY KEY,
				employee_name TEXT NOT NULL,
				employee_id   TEXT NOT NULL,
				date          DATE NOT NULL,
				status        TEXT NOT NULL CHECK (status IN ('Present', 'Absent')),
				created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)
		`); err != nil {
			return fmt.Errorf("failed to create attendance_records: %w", err)
		}

		// Folded copies of name and ID are written by Create with strings.ToLower, so
		// matching does not depend on the database collation. Rows from before the
		// columns existed are backfilled with lower().
		if _, err := q.Exec(ctx, `
			ALTER TABLE attendance_records
				ADD COLUMN IF NOT EXISTS employee_name_folded TEXT,
				ADD COLUMN IF NOT EXISTS employee_id_folded TEXT
		`); err != nil {
			return fmt.Errorf("failed to add folded columns: %w", err)
		}
		if _, err := q.Exec(ctx, `
			UPDATE attendance_records
			SET employee_name_folded = lower(employee_name),
				employee_id_folded = lower(employee_id)
			WHERE employee_name_folded IS NULL OR employee_id_folded IS NULL
		`); err != nil {
			return fmt.Errorf("failed to backfill folded columns: %w", err)
		}

		if _, err := q.Exec(ctx, `
			CREATE INDEX IF NOT EXISTS idx_attendance_records_date
			ON attendance_records (date DESC, created_at DESC)
		`); err != nil {
			return fmt.Errorf("failed to create attendance_records index: %w", err)
		}

		return nil
	})
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}
	newAttendance.ID = id.String()

	query := `
		INSERT INTO attendance_records (id, employee_name, employee_id, date, status, employee_name_folded, employee_id_folded)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err = q.QueryRow(ctx, query,
		newAttendance.ID,
		newAttendance.EmployeeName,
		newAttendance.EmployeeID,
		newAttendance.Date,
		string(newAttendance.Status),
		strings.ToLower(newAttendance.EmployeeName),
		strings.ToLower(newAttendance.EmployeeID),
	).Scan(&newAttendance.CreatedAt)

	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	where := "TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.Query != "" {
		where += fmt.Sprintf(
			" AND (strpos(employee_name_folded, $%d) > 0 OR strpos(employee_id_folded, $%d) > 0)",
			argIdx, argIdx,
		)
		args = append(args, strings.ToLower(filter.Query))
		argIdx++
	}

	if filter.Date != "" {
		date, valid := validator.IsValidDate(filter.Date)
		if !valid {
			return nil, fmt.Errorf("invalid date filter %q", filter.Date)
		}
		where += fmt.Sprintf(" AND date = $%d", argIdx)
		args = append(args, date)
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT id, employee_name, employee_id, date, status, created_at
		FROM attendance_records
		WHERE %s
		ORDER BY date DESC, created_at DESC, id DESC
	`, where)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		var (
			att    attendance.Attendance
			status string
			date   time.Time
		)
		if err := rows.Scan(&att.ID, &att.EmployeeName, &att.EmployeeID, &date, &status, &att.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		att.Date = date
		att.Status = attendance.Status(status)
		records = append(records, att)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}

	return records, nil
}

// Delete implements attendance.AttendanceRepository.
func (a *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}
