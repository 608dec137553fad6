package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/database"
)

// ========== ADVANCES ==========

type advanceRepository struct {
	db *database.DB
}

func NewAdvanceRepository(db *database.DB) payroll.AdvanceRepository {
	return &advanceRepository{db: db}
}

const advanceColumns = `
	id, staff_id, amount, given_on::text, issued_by, note,
	deducted, deducted_year, deducted_month, created_at`

func scanAdvance(row pgx.Row) (payroll.SalaryAdvance, error) {
	var a payroll.SalaryAdvance
	err := row.Scan(
		&a.ID, &a.StaffID, &a.Amount, &a.GivenOn, &a.IssuedBy, &a.Note,
		&a.Deducted, &a.DeductedYear, &a.DeductedMonth, &a.CreatedAt,
	)
	return a, err
}

func (r *advanceRepository) Create(ctx context.Context, advance payroll.SalaryAdvance) (payroll.SalaryAdvance, error) {
	q := GetQuerier(ctx, r.db)

	if advance.ID == "" {
		advance.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO salary_advances (id, staff_id, amount, given_on, issued_by, note)
		VALUES ($1, $2, $3, $4::date, $5, $6)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		advance.ID, advance.StaffID, advance.Amount, advance.GivenOn, advance.IssuedBy, advance.Note,
	).Scan(&advance.CreatedAt)
	if err != nil {
		return payroll.SalaryAdvance{}, fmt.Errorf("failed to create salary advance: %w", err)
	}

	advance.Deducted = false
	return advance, nil
}

func (r *advanceRepository) GetUndeducted(ctx context.Context, staffID string) ([]payroll.SalaryAdvance, error) {
	return undeductedAdvances(ctx, GetQuerier(ctx, r.db), staffID, false)
}

func undeductedAdvances(ctx context.Context, q database.Querier, staffID string, forUpdate bool) ([]payroll.SalaryAdvance, error) {
	query := `
		SELECT ` + advanceColumns + `
		FROM salary_advances
		WHERE staff_id = $1 AND deducted = FALSE
		ORDER BY given_on, created_at
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	rows, err := q.Query(ctx, query, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary advances: %w", err)
	}
	defer rows.Close()

	advances := make([]payroll.SalaryAdvance, 0)
	for rows.Next() {
		a, err := scanAdvance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary advance: %w", err)
		}
		advances = append(advances, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary advances: %w", err)
	}
	return advances, nil
}

// ========== MONTHLY SALARIES ==========

type salaryRepository struct {
	db *database.DB
}

func NewSalaryRepository(db *database.DB) payroll.SalaryRepository {
	return &salaryRepository{db: db}
}

const salaryColumns = `
	id, staff_id, store_id, year, month, base_salary, daily_salary, working_days,
	present_days, absent_days, late_days, leaves_used, late_penalty, absent_deduction,
	advance_deduction, bonus, final_amount, locked, locked_by, calculated_at, created_at`

func scanSalary(row pgx.Row) (payroll.MonthlySalaryRecord, error) {
	var s payroll.MonthlySalaryRecord
	err := row.Scan(
		&s.ID, &s.StaffID, &s.StoreID, &s.Year, &s.Month, &s.BaseSalary, &s.DailySalary, &s.WorkingDays,
		&s.PresentDays, &s.AbsentDays, &s.LateDays, &s.LeavesUsed, &s.LatePenalty, &s.AbsentDeduction,
		&s.AdvanceDeduction, &s.Bonus, &s.FinalAmount, &s.Locked, &s.LockedBy, &s.CalculatedAt, &s.CreatedAt,
	)
	return s, err
}

func (r *salaryRepository) GetByStaffAndPeriod(ctx context.Context, staffID string, year, month int) (*payroll.MonthlySalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryColumns + ` FROM monthly_salaries WHERE staff_id = $1 AND year = $2 AND month = $3`

	s, err := scanSalary(q.QueryRow(ctx, query, staffID, year, month))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get monthly salary: %w", err)
	}
	return &s, nil
}

func (r *salaryRepository) ListByStaff(ctx context.Context, staffID string) ([]payroll.MonthlySalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + salaryColumns + `
		FROM monthly_salaries
		WHERE staff_id = $1
		ORDER BY year DESC, month DESC
	`

	rows, err := q.Query(ctx, query, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly salaries: %w", err)
	}
	defer rows.Close()

	records := make([]payroll.MonthlySalaryRecord, 0)
	for rows.Next() {
		s, err := scanSalary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan monthly salary: %w", err)
		}
		records = append(records, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monthly salaries: %w", err)
	}
	return records, nil
}

// Lock implements payroll.SalaryRepository. The period row and the staff member's undeducted
// advances are locked for the duration of the transaction.
func (r *salaryRepository) Lock(ctx context.Context, record payroll.MonthlySalaryRecord, advanceIDs []string) (payroll.MonthlySalaryRecord, error) {
	if record.ID == "" {
		record.ID = uuid.Must(uuid.NewV7()).String()
	}
	if advanceIDs == nil {
		advanceIDs = []string{}
	}

	err := WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		var locked bool
		err := q.QueryRow(txCtx,
			`SELECT locked FROM monthly_salaries WHERE staff_id = $1 AND year = $2 AND month = $3 FOR UPDATE`,
			record.StaffID, record.Year, record.Month,
		).Scan(&locked)
		if err != nil && err != pgx.ErrNoRows {
			return fmt.Errorf("failed to check salary lock: %w", err)
		}
		if locked {
			return payroll.ErrAlreadyLocked
		}

		current, err := undeductedAdvances(txCtx, q, record.StaffID, true)
		if err != nil {
			return err
		}
		if !payroll.SameAdvanceSet(current, advanceIDs) {
			return payroll.ErrAdvancesChanged
		}

		upsert := `
			INSERT INTO monthly_salaries (
				id, staff_id, store_id, year, month, base_salary, daily_salary, working_days,
				present_days, absent_days, late_days, leaves_used, late_penalty, absent_deduction,
				advance_deduction, bonus, final_amount, locked, locked_by, calculated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, TRUE, $18, $19
			)
			ON CONFLICT (staff_id, year, month) DO UPDATE SET
				base_salary = EXCLUDED.base_salary,
				daily_salary = EXCLUDED.daily_salary,
				working_days = EXCLUDED.working_days,
				present_days = EXCLUDED.present_days,
				absent_days = EXCLUDED.absent_days,
				late_days = EXCLUDED.late_days,
				leaves_used = EXCLUDED.leaves_used,
				late_penalty = EXCLUDED.late_penalty,
				absent_deduction = EXCLUDED.absent_deduction,
				advance_deduction = EXCLUDED.advance_deduction,
				bonus = EXCLUDED.bonus,
				final_amount = EXCLUDED.final_amount,
				locked = TRUE,
				locked_by = EXCLUDED.locked_by,
				calculated_at = EXCLUDED.calculated_at
			WHERE monthly_salaries.locked = FALSE
			RETURNING ` + salaryColumns

		stored, err := scanSalary(q.QueryRow(txCtx, upsert,
			record.ID, record.StaffID, record.StoreID, record.Year, record.Month,
			record.BaseSalary, record.DailySalary, record.WorkingDays,
			record.PresentDays, record.AbsentDays, record.LateDays, record.LeavesUsed,
			record.LatePenalty, record.AbsentDeduction, record.AdvanceDeduction,
			record.Bonus, record.FinalAmount, record.LockedBy, record.CalculatedAt,
		))
		if err != nil {
			if err == pgx.ErrNoRows {
				return payroll.ErrAlreadyLocked
			}
			return fmt.Errorf("failed to store monthly salary: %w", err)
		}

		if len(advanceIDs) > 0 {
			tag, err := q.Exec(txCtx, `
				UPDATE salary_advances
				SET deducted = TRUE, deducted_year = $2, deducted_month = $3
				WHERE id = ANY($1) AND deducted = FALSE
			`, advanceIDs, record.Year, record.Month)
			if err != nil {
				return fmt.Errorf("failed to mark advances deducted: %w", err)
			}
			if int(tag.RowsAffected()) != len(advanceIDs) {
				return payroll.ErrAdvancesChanged
			}
		}

		record = stored
		return nil
	})
	if err != nil {
		return payroll.MonthlySalaryRecord{}, err
	}
	return record, nil
}
