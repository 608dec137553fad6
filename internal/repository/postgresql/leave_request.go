package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/utils"
)

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

const leaveRequestColumns = `
	id, staff_id, store_id, leave_date::text, type, reason, status,
	approved_by, rejection_reason, decided_at, created_at, updated_at`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var req leave.LeaveRequest
	err := row.Scan(
		&req.ID, &req.StaffID, &req.StoreID, &req.LeaveDate, &req.Type, &req.Reason, &req.Status,
		&req.ApprovedBy, &req.RejectionReason, &req.DecidedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	return req, err
}

func (r *leaveRequestRepository) list(ctx context.Context, query string, args ...interface{}) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}
	return requests, nil
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	if req.ID == "" {
		req.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO leave_requests (
			id, staff_id, store_id, leave_date, type, reason, status,
			approved_by, rejection_reason, decided_at
		) VALUES (
			$1, $2, $3, $4::date, $5, $6, $7, $8, $9, $10
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID, req.StaffID, req.StoreID, req.LeaveDate, req.Type, req.Reason, req.Status,
		req.ApprovedBy, req.RejectionReason, req.DecidedAt,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return leave.LeaveRequest{}, leave.ErrDuplicateRequest
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return req, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1`

	req, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return req, nil
}

// GetApprovedByStaffAndMonth implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetApprovedByStaffAndMonth(ctx context.Context, staffID string, year, month int) ([]leave.LeaveRequest, error) {
	first, last := utils.MonthBounds(year, month)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE staff_id = $1 AND status = 'approved' AND leave_date BETWEEN $2::date AND $3::date
		ORDER BY leave_date
	`
	return r.list(ctx, query, staffID, first, last)
}

// ListByStaff implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListByStaff(ctx context.Context, staffID string) ([]leave.LeaveRequest, error) {
	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE staff_id = $1
		ORDER BY leave_date DESC, created_at DESC
	`
	return r.list(ctx, query, staffID)
}

// ListByStore implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListByStore(ctx context.Context, storeID string, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	whereClauses := []string{"store_id = $1"}
	args := []interface{}{storeID}
	argIndex := 2

	if filter.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}
	if filter.From != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("leave_date >= $%d::date", argIndex))
		args = append(args, *filter.From)
		argIndex++
	}
	if filter.To != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("leave_date <= $%d::date", argIndex))
		args = append(args, *filter.To)
	}

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE ` + strings.Join(whereClauses, " AND ") + `
		ORDER BY leave_date DESC, created_at DESC
	`
	return r.list(ctx, query, args...)
}

// Update implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Update(ctx context.Context, req leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests SET
			status = $2, approved_by = $3, rejection_reason = $4, decided_at = $5, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query, req.ID, req.Status, req.ApprovedBy, req.RejectionReason, req.DecidedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return leave.ErrDuplicateRequest
		}
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, req.ID); err != nil {
			return err
		}
		return leave.ErrLeaveAlreadyProcessed
	}
	return nil
}
