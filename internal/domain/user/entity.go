package user

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleSuperAdmin Role = "super_admin" // Manages every store
	RoleAdmin      Role = "admin"       // Manages the stores assigned to them
	RoleStaff      Role = "staff"       // Works at exactly one store
)

type EmploymentStatus string

const (
	EmploymentActive   EmploymentStatus = "active"
	EmploymentOnNotice EmploymentStatus = "on_notice"
	EmploymentLeft     EmploymentStatus = "left"
)

// StaffProfile is the payroll-relevant view of a staff member.
type StaffProfile struct {
	ID            string
	StoreID       string
	Name          string
	MonthlySalary decimal.Decimal
	Status        EmploymentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsEmployed reports whether the staff member still accrues attendance.
func (s StaffProfile) IsEmployed() bool {
	return s.Status == EmploymentActive || s.Status == EmploymentOnNotice
}
