// Package memory is a process-local storage backend. A single mutex serialises every operation,
// so compound writes such as a salary lock are atomic.
package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/store"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
)

type DB struct {
	mu         sync.Mutex
	stores     map[string]store.Store
	staff      map[string]user.StaffProfile
	attendance map[string]attendance.Attendance
	leaves     map[string]leave.LeaveRequest
	advances   map[string]payroll.SalaryAdvance
	salaries   map[string]payroll.MonthlySalaryRecord
	now        func() time.Time
}

func NewDB() *DB {
	return &DB{
		stores:     make(map[string]store.Store),
		staff:      make(map[string]user.StaffProfile),
		attendance: make(map[string]attendance.Attendance),
		leaves:     make(map[string]leave.LeaveRequest),
		advances:   make(map[string]payroll.SalaryAdvance),
		salaries:   make(map[string]payroll.MonthlySalaryRecord),
		now:        time.Now,
	}
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// PutStore inserts or replaces a store.
func (db *DB) PutStore(s store.Store) store.Store {
	db.mu.Lock()
	defer db.mu.Unlock()

	if s.ID == "" {
		s.ID = newID()
	}
	now := db.now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	s.Holidays = append([]store.Holiday(nil), s.Holidays...)
	db.stores[s.ID] = s
	return s
}

// PutStaff inserts or replaces a staff profile.
func (db *DB) PutStaff(p user.StaffProfile) user.StaffProfile {
	db.mu.Lock()
	defer db.mu.Unlock()

	if p.ID == "" {
		p.ID = newID()
	}
	now := db.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = user.EmploymentActive
	}
	db.staff[p.ID] = p
	return p
}

type seedFile struct {
	Stores []struct {
		ID           string          `json:"id"`
		Name         string          `json:"name"`
		Latitude     float64         `json:"latitude"`
		Longitude    float64         `json:"longitude"`
		RadiusMeters float64         `json:"radius_meters"`
		ShiftStart   string          `json:"shift_start"`
		ShiftEnd     string          `json:"shift_end"`
		Timezone     string          `json:"timezone"`
		Holidays     []store.Holiday `json:"holidays"`
	} `json:"stores"`
	Staff []struct {
		ID            string          `json:"id"`
		StoreID       string          `json:"store_id"`
		Name          string          `json:"name"`
		MonthlySalary decimal.Decimal `json:"monthly_salary"`
		Status        string          `json:"status"`
	} `json:"staff"`
}

// LoadSeed reads stores and staff from a JSON document.
func (db *DB) LoadSeed(r io.Reader) error {
	var seed seedFile
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return fmt.Errorf("decode seed: %w", err)
	}

	for _, s := range seed.Stores {
		db.PutStore(store.Store{
			ID:           s.ID,
			Name:         s.Name,
			Latitude:     s.Latitude,
			Longitude:    s.Longitude,
			RadiusMeters: s.RadiusMeters,
			ShiftStart:   s.ShiftStart,
			ShiftEnd:     s.ShiftEnd,
			Timezone:     s.Timezone,
			Holidays:     s.Holidays,
		})
	}
	for _, p := range seed.Staff {
		db.PutStaff(user.StaffProfile{
			ID:            p.ID,
			StoreID:       p.StoreID,
			Name:          p.Name,
			MonthlySalary: p.MonthlySalary,
			Status:        user.EmploymentStatus(p.Status),
		})
	}
	return nil
}
