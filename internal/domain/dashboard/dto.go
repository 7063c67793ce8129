package dashboard

// Yearly leave allowance per type. Unpaid leave has no cap.
const (
	PaidLeaveAllowance = 12
	SickLeaveAllowance = 8
)

type AdminStatsResponse struct {
	Date             string `json:"date"`
	TotalEmployees   int64  `json:"total_employees"`
	PresentToday     int64  `json:"present_today"`
	PendingLeaves    int64  `json:"pending_leaves"`
	TotalDepartments int64  `json:"total_departments"`
}

type LeaveBalance struct {
	Allowance int64 `json:"allowance"`
	Used      int64 `json:"used"`
	Remaining int64 `json:"remaining"`
}

// NewLeaveBalance never reports a negative remainder.
func NewLeaveBalance(allowance, used int64) LeaveBalance {
	remaining := allowance - used
	if remaining < 0 {
		remaining = 0
	}
	return LeaveBalance{Allowance: allowance, Used: used, Remaining: remaining}
}

type EmployeeStatsResponse struct {
	Month                string                  `json:"month"` // YYYY-MM
	DaysPresentThisMonth int64                   `json:"days_present_this_month"`
	LeaveBalance         map[string]LeaveBalance `json:"leave_balance"`
	UnpaidLeaveDaysUsed  int64                   `json:"unpaid_leave_days_used"`
	PendingRequests      int64                   `json:"pending_requests"`
}

// StatsResponse is returned by GET /dashboard/stats; exactly one field is set.
type StatsResponse struct {
	Admin    *AdminStatsResponse    `json:"admin,omitempty"`
	Employee *EmployeeStatsResponse `json:"employee,omitempty"`
}
