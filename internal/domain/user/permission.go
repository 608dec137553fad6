package user

type Permission string

const (
	// Attendance
	PermissionAttendanceSelf    Permission = "attendance.self"
	PermissionAttendanceMark    Permission = "attendance.mark"
	PermissionAttendanceViewAll Permission = "attendance.view_all"

	// Leave
	PermissionLeaveApply   Permission = "leave.apply"
	PermissionLeaveViewAll Permission = "leave.view_all"
	PermissionLeaveDecide  Permission = "leave.decide"

	// Salary
	PermissionSalaryViewOwn Permission = "salary.view_own"
	PermissionSalaryManage  Permission = "salary.manage"

	// Stores
	PermissionStoreView     Permission = "store.view"
	PermissionStoreHolidays Permission = "store.holidays"
	PermissionStoreFreeze   Permission = "store.freeze"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleSuperAdmin: {
		PermissionAttendanceMark,
		PermissionAttendanceViewAll,
		PermissionLeaveViewAll,
		PermissionLeaveDecide,
		PermissionSalaryManage,
		PermissionStoreView,
		PermissionStoreHolidays,
		PermissionStoreFreeze,
	},
	RoleAdmin: {
		PermissionAttendanceMark,
		PermissionAttendanceViewAll,
		PermissionLeaveViewAll,
		PermissionLeaveDecide,
		PermissionSalaryManage,
		PermissionStoreView,
		PermissionStoreHolidays,
	},
	RoleStaff: {
		PermissionAttendanceSelf,
		PermissionLeaveApply,
		PermissionSalaryViewOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
