package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/payroll"
)

type advanceRepository struct {
	db *DB
}

func NewAdvanceRepository(db *DB) payroll.AdvanceRepository {
	return &advanceRepository{db: db}
}

func (r *advanceRepository) Create(ctx context.Context, advance payroll.SalaryAdvance) (payroll.SalaryAdvance, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if advance.ID == "" {
		advance.ID = newID()
	}
	advance.Deducted = false
	advance.DeductedYear = nil
	advance.DeductedMonth = nil
	advance.CreatedAt = r.db.now()
	r.db.advances[advance.ID] = advance
	return advance, nil
}

func (r *advanceRepository) GetUndeducted(ctx context.Context, staffID string) ([]payroll.SalaryAdvance, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	return undeducted(r.db, staffID), nil
}

func undeducted(db *DB, staffID string) []payroll.SalaryAdvance {
	out := make([]payroll.SalaryAdvance, 0)
	for _, a := range db.advances {
		if a.StaffID == staffID && !a.Deducted {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GivenOn < out[j].GivenOn })
	return out
}

type salaryRepository struct {
	db *DB
}

func NewSalaryRepository(db *DB) payroll.SalaryRepository {
	return &salaryRepository{db: db}
}

func periodKey(staffID string, year, month int) string {
	return fmt.Sprintf("%s/%04d-%02d", staffID, year, month)
}

func (r *salaryRepository) GetByStaffAndPeriod(ctx context.Context, staffID string, year, month int) (*payroll.MonthlySalaryRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	rec, ok := r.db.salaries[periodKey(staffID, year, month)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *salaryRepository) ListByStaff(ctx context.Context, staffID string) ([]payroll.MonthlySalaryRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]payroll.MonthlySalaryRecord, 0)
	for _, rec := range r.db.salaries {
		if rec.StaffID == staffID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out, nil
}

func (r *salaryRepository) Lock(ctx context.Context, record payroll.MonthlySalaryRecord, advanceIDs []string) (payroll.MonthlySalaryRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	key := periodKey(record.StaffID, record.Year, record.Month)
	if existing, ok := r.db.salaries[key]; ok && existing.Locked {
		return payroll.MonthlySalaryRecord{}, payroll.ErrAlreadyLocked
	}

	current := undeducted(r.db, record.StaffID)
	if !payroll.SameAdvanceSet(current, advanceIDs) {
		return payroll.MonthlySalaryRecord{}, payroll.ErrAdvancesChanged
	}

	year, month := record.Year, record.Month
	for _, a := range current {
		a.Deducted = true
		a.DeductedYear = &year
		a.DeductedMonth = &month
		r.db.advances[a.ID] = a
	}

	if record.ID == "" {
		record.ID = newID()
	}
	record.Locked = true
	record.CreatedAt = r.db.now()
	r.db.salaries[key] = record
	return record, nil
}
