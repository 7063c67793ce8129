package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/dashboard"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/clock"
)

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	clock clock.Clock
}

func NewDashboardService(dashboardRepo dashboard.DashboardRepository, clk clock.Clock) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: dashboardRepo,
		clock:               clk,
	}
}

// GetAdminStats runs one aggregate query per goroutine
func (s *DashboardServiceImpl) GetAdminStats(ctx context.Context) (*dashboard.AdminStatsResponse, error) {
	today := clock.DateOf(s.clock.Now())
	stats := &dashboard.AdminStatsResponse{Date: today.Format("2006-01-02")}

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Active employees
	g.Go(func() error {
		n, err := s.CountActiveEmployees(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count employees: %w", err)
		}
		stats.TotalEmployees = n
		return nil
	})

	// 2. Present today
	g.Go(func() error {
		n, err := s.CountPresent(gCtx, today)
		if err != nil {
			return fmt.Errorf("failed to count present employees: %w", err)
		}
		stats.PresentToday = n
		return nil
	})

	// 3. Pending leave requests
	g.Go(func() error {
		n, err := s.CountPendingLeaves(gCtx, "")
		if err != nil {
			return fmt.Errorf("failed to count pending leaves: %w", err)
		}
		stats.PendingLeaves = n
		return nil
	})

	// 4. Departments
	g.Go(func() error {
		n, err := s.CountDepartments(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count departments: %w", err)
		}
		stats.TotalDepartments = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return stats, nil
}

// GetEmployeeStats implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetEmployeeStats(ctx context.Context, employeeID string) (*dashboard.EmployeeStatsResponse, error) {
	today := clock.DateOf(s.clock.Now())
	monthStart := today.AddDate(0, 0, 1-today.Day())

	var (
		daysPresent int64
		pending     int64
		used        map[string]int64
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.CountDaysPresent(gCtx, employeeID, monthStart, today)
		if err != nil {
			return fmt.Errorf("failed to count days present: %w", err)
		}
		daysPresent = n
		return nil
	})

	g.Go(func() error {
		n, err := s.CountPendingLeaves(gCtx, employeeID)
		if err != nil {
			return fmt.Errorf("failed to count pending leaves: %w", err)
		}
		pending = n
		return nil
	})

	g.Go(func() error {
		m, err := s.ApprovedLeaveDays(gCtx, employeeID, today.Year())
		if err != nil {
			return fmt.Errorf("failed to sum approved leave days: %w", err)
		}
		used = m
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dashboard.EmployeeStatsResponse{
		Month:                today.Format("2006-01"),
		DaysPresentThisMonth: daysPresent,
		LeaveBalance: map[string]dashboard.LeaveBalance{
			string(leave.LeaveTypePaid): dashboard.NewLeaveBalance(dashboard.PaidLeaveAllowance, used[string(leave.LeaveTypePaid)]),
			string(leave.LeaveTypeSick): dashboard.NewLeaveBalance(dashboard.SickLeaveAllowance, used[string(leave.LeaveTypeSick)]),
		},
		UnpaidLeaveDaysUsed: used[string(leave.LeaveTypeUnpaid)],
		PendingRequests:     pending,
	}, nil
}
