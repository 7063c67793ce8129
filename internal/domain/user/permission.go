package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"
	PermissionEditOwnProfile Permission = "profile.edit_own"

	// Leave Management
	PermissionLeaveViewOwn Permission = "leave.view_own"
	PermissionLeaveCreate  Permission = "leave.create"
	PermissionLeaveViewAll Permission = "leave.view_all"
	PermissionLeaveApprove Permission = "leave.approve"

	// Attendance Management
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceCreate  Permission = "attendance.create"
	PermissionAttendanceViewAll Permission = "attendance.view_all"

	// Employee Management
	PermissionEmployeeViewAll      Permission = "employee.view_all"
	PermissionEmployeeManageStatus Permission = "employee.manage_status"

	// Payroll
	PermissionPayrollViewOwn Permission = "payroll.view_own"
	PermissionPayrollViewAll Permission = "payroll.view_all"
	PermissionPayrollManage  Permission = "payroll.manage"

	// Dashboard
	PermissionDashboardAdmin Permission = "dashboard.admin"
)

var employeePermissions = []Permission{
	PermissionViewOwnProfile,
	PermissionEditOwnProfile,
	PermissionLeaveViewOwn,
	PermissionLeaveCreate,
	PermissionAttendanceViewOwn,
	PermissionAttendanceCreate,
	PermissionPayrollViewOwn,
}

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: append([]Permission{
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionAttendanceViewAll,
		PermissionEmployeeViewAll,
		PermissionEmployeeManageStatus,
		PermissionPayrollViewAll,
		PermissionPayrollManage,
		PermissionDashboardAdmin,
	}, employeePermissions...),
	RoleHR: append([]Permission{
		PermissionLeaveViewAll,
		PermissionAttendanceViewAll,
		PermissionEmployeeViewAll,
		PermissionPayrollViewAll,
		PermissionDashboardAdmin,
	}, employeePermissions...),
	RoleEmployee: employeePermissions,
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
