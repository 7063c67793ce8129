package memory

import (
	"context"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/dashboard"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
)

type dashboardRepository struct {
	s *Store
}

func NewDashboardRepository(s *Store) dashboard.DashboardRepository {
	return &dashboardRepository{s: s}
}

func attended(status attendance.Status) bool {
	return status == attendance.StatusPresent || status == attendance.StatusLate || status == attendance.StatusHalfDay
}

func (r *dashboardRepository) CountActiveEmployees(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, u := range r.s.users {
		if u.Role != user.RoleAdmin && u.Status == user.StatusActive {
			n++
		}
	}
	return n, nil
}

func (r *dashboardRepository) CountPresent(_ context.Context, date time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seen := make(map[string]bool)
	for _, a := range r.s.attendances {
		if sameDay(a.Date, date) && attended(a.Status) {
			seen[a.EmployeeID] = true
		}
	}
	return int64(len(seen)), nil
}

func (r *dashboardRepository) CountPendingLeaves(_ context.Context, employeeID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, lr := range r.s.leaves {
		if lr.Status == leave.LeaveRequestStatusPending && (employeeID == "" || lr.EmployeeID == employeeID) {
			n++
		}
	}
	return n, nil
}

func (r *dashboardRepository) CountDepartments(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	departments := make(map[string]bool)
	for _, p := range r.s.profiles {
		if p.Department != nil && *p.Department != "" {
			departments[*p.Department] = true
		}
	}
	return int64(len(departments)), nil
}

func (r *dashboardRepository) CountDaysPresent(_ context.Context, employeeID string, from, to time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, a := range r.s.attendances {
		k := dayKey(a.Date)
		if a.EmployeeID == employeeID && k >= dayKey(from) && k <= dayKey(to) && attended(a.Status) {
			n++
		}
	}
	return n, nil
}

func (r *dashboardRepository) ApprovedLeaveDays(_ context.Context, employeeID string, year int) (map[string]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	used := make(map[string]int64)
	for _, lr := range r.s.leaves {
		if lr.EmployeeID == employeeID && lr.Status == leave.LeaveRequestStatusApproved && lr.StartDate.Year() == year {
			used[string(lr.Type)] += int64(lr.TotalDays())
		}
	}
	return used, nil
}
