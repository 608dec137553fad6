package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/database"
)

type staffRepository struct {
	db *database.DB
}

func NewStaffRepository(db *database.DB) user.StaffRepository {
	return &staffRepository{db: db}
}

// GetByID implements user.StaffRepository.
func (r *staffRepository) GetByID(ctx context.Context, id string) (user.StaffProfile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, store_id, name, monthly_salary, status, created_at, updated_at
		FROM staff
		WHERE id = $1
	`

	var p user.StaffProfile
	err := q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.StoreID, &p.Name, &p.MonthlySalary, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.StaffProfile{}, user.ErrStaffNotFound
		}
		return user.StaffProfile{}, fmt.Errorf("failed to get staff: %w", err)
	}
	return p, nil
}

// ListActiveByStore implements user.StaffRepository.
func (r *staffRepository) ListActiveByStore(ctx context.Context, storeID string) ([]user.StaffProfile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, store_id, name, monthly_salary, status, created_at, updated_at
		FROM staff
		WHERE store_id = $1 AND status IN ('active', 'on_notice')
		ORDER BY name
	`

	rows, err := q.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	var staff []user.StaffProfile
	for rows.Next() {
		var p user.StaffProfile
		if err := rows.Scan(&p.ID, &p.StoreID, &p.Name, &p.MonthlySalary, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan staff: %w", err)
		}
		staff = append(staff, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate staff: %w", err)
	}
	return staff, nil
}
