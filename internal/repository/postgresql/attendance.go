package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/utils"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, staff_id, store_id, date::text, check_in, check_out, is_late, status,
	latitude, longitude, origin, marked_by, version, created_at, updated_at`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID, &a.StaffID, &a.StoreID, &a.Date, &a.CheckIn, &a.CheckOut, &a.IsLate, &a.Status,
		&a.Latitude, &a.Longitude, &a.Origin, &a.MarkedBy, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (r *attendanceRepository) list(ctx context.Context, query string, args ...interface{}) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return records, nil
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		a.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO attendances (
			id, staff_id, store_id, date, check_in, check_out, is_late, status,
			latitude, longitude, origin, marked_by, version
		) VALUES (
			$1, $2, $3, $4::date, $5, $6, $7, $8, $9, $10, $11, $12, 1
		)
		ON CONFLICT (staff_id, date) DO NOTHING
		RETURNING version, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.ID, a.StaffID, a.StoreID, a.Date, a.CheckIn, a.CheckOut, a.IsLate, a.Status,
		a.Latitude, a.Longitude, a.Origin, a.MarkedBy,
	).Scan(&a.Version, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAlreadyMarked
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return a, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1`

	a, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return a, nil
}

// GetByStaffAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByStaffAndDate(ctx context.Context, staffID string, date string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE staff_id = $1 AND date = $2::date`

	a, err := scanAttendance(q.QueryRow(ctx, query, staffID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by staff and date: %w", err)
	}
	return &a, nil
}

// GetByStaffAndMonth implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByStaffAndMonth(ctx context.Context, staffID string, year, month int) ([]attendance.Attendance, error) {
	first, last := utils.MonthBounds(year, month)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE staff_id = $1 AND date BETWEEN $2::date AND $3::date
		ORDER BY date
	`
	return r.list(ctx, query, staffID, first, last)
}

// ListByStoreAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByStoreAndDate(ctx context.Context, storeID string, date string) ([]attendance.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE store_id = $1 AND date = $2::date
		ORDER BY staff_id
	`
	return r.list(ctx, query, storeID, date)
}

// ListOpenBefore implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListOpenBefore(ctx context.Context, date string) ([]attendance.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE check_in IS NOT NULL AND check_out IS NULL AND date < $1::date
		ORDER BY date, staff_id
	`
	return r.list(ctx, query, date)
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepository) Update(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances SET
			check_in = $3, check_out = $4, is_late = $5, status = $6,
			origin = $7, marked_by = $8, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING ` + attendanceColumns

	updated, err := scanAttendance(q.QueryRow(ctx, query,
		a.ID, a.Version, a.CheckIn, a.CheckOut, a.IsLate, a.Status, a.Origin, a.MarkedBy,
	))
	if err != nil {
		if err != pgx.ErrNoRows {
			return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
		}
		if _, getErr := r.GetByID(ctx, a.ID); getErr != nil {
			return attendance.Attendance{}, getErr
		}
		return attendance.Attendance{}, attendance.ErrConcurrentUpdate
	}
	return updated, nil
}
