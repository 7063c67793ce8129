package fixtures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/auth"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/clock"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/cron"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func strPtr(s string) *string { return &s }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// DemoPassword is shared by every seeded account.
const DemoPassword = "password123"

// HistoryDays is how many days of attendance are replayed before today.
const HistoryDays = 14

var ErrAlreadySeeded = errors.New("demo data already present")

// ==========================================
// DEMO ACCOUNTS
// ==========================================

type DemoUser struct {
	EmployeeCode string
	Email        string
	FirstName    string
	LastName     string
	Department   string
	Position     string
	Role         user.Role
	BasicSalary  decimal.Decimal
}

func DemoUsers() []DemoUser {
	return []DemoUser{
		{"ADM001", "admin@dayflow.local", "Amara", "Okafor", "Management", "Director", user.RoleAdmin, dec("120000")},
		{"HR001", "hr@dayflow.local", "Henrik", "Larsen", "Human Resources", "HR Manager", user.RoleHR, dec("80000")},
		{"EMP001", "priya@dayflow.local", "Priya", "Nair", "Engineering", "Backend Engineer", user.RoleEmployee, dec("65000")},
		{"EMP002", "mateo@dayflow.local", "Mateo", "Rossi", "Engineering", "Frontend Engineer", user.RoleEmployee, dec("62000")},
		{"EMP003", "yuki@dayflow.local", "Yuki", "Tanaka", "Finance", "Accountant", user.RoleEmployee, dec("55000")},
		{"EMP004", "lena@dayflow.local", "Lena", "Schmidt", "Sales", "Account Executive", user.RoleEmployee, dec("50000")},
	}
}

// ==========================================
// SEEDER
// ==========================================

// Services are the seeder's dependencies. Their clocks must be the
// Seeder's Clock so history can be replayed day by day.
type Services struct {
	Auth           auth.AuthService
	Attendance     attendance.AttendanceService
	Leave          leave.LeaveService
	Payroll        payroll.PayrollService
	AttendanceRepo attendance.AttendanceRepository
}

type Seeder struct {
	clock *ReplayClock
	jobs  *cron.AttendanceJobs
	svc   Services
}

func NewSeeder(clk *ReplayClock, svc Services) *Seeder {
	return &Seeder{
		clock: clk,
		jobs:  cron.NewAttendanceJobs(svc.AttendanceRepo, clk),
		svc:   svc,
	}
}

// ReplayClock is a settable clock.Clock.
type ReplayClock struct {
	mu  sync.Mutex
	now time.Time
}

var _ clock.Clock = (*ReplayClock)(nil)

func NewReplayClock(now time.Time) *ReplayClock {
	return &ReplayClock{now: now}
}

func (c *ReplayClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ReplayClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type seededUser struct {
	DemoUser
	ID string
}

// Seed creates the demo accounts, leave requests, attendance for the
// HistoryDays before today and payroll for the previous and current month.
func (s *Seeder) Seed(ctx context.Context, today time.Time) error {
	today = clock.DateOf(today)
	start := today.AddDate(0, 0, -HistoryDays)

	s.clock.Set(at(start, -24*time.Hour))
	users, err := s.seedUsers(ctx)
	if err != nil {
		return err
	}

	onLeave, err := s.seedLeave(ctx, users, start)
	if err != nil {
		return err
	}

	holiday := start.AddDate(0, 0, 3)
	for holiday.Weekday() == time.Saturday || holiday.Weekday() == time.Sunday {
		holiday = holiday.AddDate(0, 0, 1)
	}

	for d := start; d.Before(today); d = d.AddDate(0, 0, 1) {
		if err := s.seedDay(ctx, users, onLeave, d, d.Equal(start), d.Equal(holiday)); err != nil {
			return err
		}
	}

	// Yesterday's absences are only visible once today has started
	s.clock.Set(at(today, 5*time.Minute))
	if err := s.jobs.MarkAbsentEmployees(ctx); err != nil {
		return err
	}

	if err := s.seedPayroll(ctx, users, today); err != nil {
		return err
	}

	slog.Info("demo data seeded", "users", len(users), "from", start.Format("2006-01-02"), "to", today.AddDate(0, 0, -1).Format("2006-01-02"))
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context) ([]seededUser, error) {
	var users []seededUser
	for _, u := range DemoUsers() {
		created, err := s.svc.Auth.CreateAccount(ctx, auth.SignupRequest{
			EmployeeCode: u.EmployeeCode,
			Email:        u.Email,
			Password:     DemoPassword,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			Department:   u.Department,
			Position:     u.Position,
			Role:         u.Role,
		})
		if err != nil {
			if errors.Is(err, user.ErrEmailExists) || errors.Is(err, user.ErrEmployeeCodeExists) {
				return nil, ErrAlreadySeeded
			}
			return nil, fmt.Errorf("failed to create %s: %w", u.Email, err)
		}
		users = append(users, seededUser{DemoUser: u, ID: created.ID})
	}
	return users, nil
}

// seedLeave files one approved, one rejected and one pending request and
// returns the approved days per user.
func (s *Seeder) seedLeave(ctx context.Context, users []seededUser, start time.Time) (map[string]map[string]bool, error) {
	admin := users[0]
	onLeave := make(map[string]map[string]bool)

	// Approved: two working days for the first engineer
	approvedStart := start.AddDate(0, 0, 7)
	for approvedStart.Weekday() == time.Saturday || approvedStart.Weekday() == time.Sunday {
		approvedStart = approvedStart.AddDate(0, 0, 1)
	}
	approvedEnd := approvedStart.AddDate(0, 0, 1)

	requests := []struct {
		employee seededUser
		req      leave.CreateLeaveRequest
		decision string
		comment  string
	}{
		{users[2], leave.CreateLeaveRequest{Type: string(leave.LeaveTypePaid), StartDate: day(approvedStart), EndDate: day(approvedEnd), Reason: "Family visit"}, string(leave.LeaveRequestStatusApproved), "Enjoy"},
		{users[4], leave.CreateLeaveRequest{Type: string(leave.LeaveTypeUnpaid), StartDate: day(start.AddDate(0, 0, 2)), EndDate: day(start.AddDate(0, 0, 2)), Reason: "Moving house"}, string(leave.LeaveRequestStatusRejected), "Quarter close, please reschedule"},
		{users[3], leave.CreateLeaveRequest{Type: string(leave.LeaveTypeSick), StartDate: day(start.AddDate(0, 0, HistoryDays+3)), EndDate: day(start.AddDate(0, 0, HistoryDays+4)), Reason: "Minor surgery"}, "", ""},
	}

	for _, r := range requests {
		created, err := s.svc.Leave.CreateRequest(ctx, r.employee.ID, r.req)
		if err != nil {
			return nil, fmt.Errorf("failed to create leave for %s: %w", r.employee.Email, err)
		}
		if r.decision == "" {
			continue
		}

		_, err = s.svc.Leave.Decide(ctx, created.ID, admin.ID, leave.DecideLeaveRequest{Status: r.decision, AdminComment: strPtr(r.comment)})
		if err != nil {
			return nil, fmt.Errorf("failed to decide leave %s: %w", created.ID, err)
		}

		if r.decision == string(leave.LeaveRequestStatusApproved) {
			days := make(map[string]bool)
			for d := approvedStart; !d.After(approvedEnd); d = d.AddDate(0, 0, 1) {
				days[day(d)] = true
			}
			onLeave[r.employee.ID] = days
		}
	}

	return onLeave, nil
}

func (s *Seeder) seedDay(ctx context.Context, users []seededUser, onLeave map[string]map[string]bool, date time.Time, first, holiday bool) error {
	// Jobs for the new day run just after midnight
	s.clock.Set(at(date, 5*time.Minute))
	if !first {
		if err := s.jobs.MarkAbsentEmployees(ctx); err != nil {
			return err
		}
	}
	if err := s.jobs.MarkNonWorkingDays(ctx); err != nil {
		return err
	}
	if holiday {
		if _, err := s.svc.AttendanceRepo.InsertPlaceholders(ctx, date, attendance.StatusHoliday); err != nil {
			return fmt.Errorf("failed to mark holiday: %w", err)
		}
		return nil
	}
	if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
		return nil
	}

	dayIndex := date.YearDay()
	for i, u := range users {
		if u.Role == user.RoleAdmin || onLeave[u.ID][day(date)] {
			continue
		}
		// Every so often someone simply does not show up
		if (dayIndex+i)%11 == 0 {
			continue
		}

		// 08:40 to 09:52, so a few check-ins land after the cutoff
		s.clock.Set(at(date, 8*time.Hour+40*time.Minute+time.Duration((dayIndex*7+i*13)%73)*time.Minute))
		if _, err := s.svc.Attendance.CheckIn(ctx, u.ID, attendance.CheckInRequest{Location: strPtr("Head Office")}); err != nil {
			return fmt.Errorf("failed to check in %s on %s: %w", u.Email, day(date), err)
		}

		// One engineer forgets to check out now and then; the auto-close job tidies up
		if i == 3 && dayIndex%4 == 0 {
			continue
		}

		s.clock.Set(at(date, 17*time.Hour+time.Duration((dayIndex*5+i*17)%90)*time.Minute))
		if _, err := s.svc.Attendance.CheckOut(ctx, u.ID, attendance.CheckOutRequest{Location: strPtr("Head Office")}); err != nil {
			return fmt.Errorf("failed to check out %s on %s: %w", u.Email, day(date), err)
		}
	}

	// Close anything left open before the next day begins
	s.clock.Set(at(date, 24*time.Hour+time.Minute))
	return s.jobs.AutoCloseStaleSessions(ctx)
}

// seedPayroll pays last month and leaves the current month pending.
func (s *Seeder) seedPayroll(ctx context.Context, users []seededUser, today time.Time) error {
	lastMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, -1, 0)

	periods := []struct {
		month time.Month
		year  int
		paid  bool
	}{
		{lastMonth.Month(), lastMonth.Year(), true},
		{today.Month(), today.Year(), false},
	}

	for _, period := range periods {
		for _, u := range users {
			basic := u.BasicSalary.Div(decimal.NewFromInt(12)).Round(2)
			record, err := s.svc.Payroll.CreatePayroll(ctx, payroll.CreatePayrollRequest{
				EmployeeID:          u.ID,
				Month:               int(period.month),
				Year:                period.year,
				BasicSalary:         basic,
				HouseRentAllowance:  basic.Mul(dec("0.2")).Round(2),
				MedicalAllowance:    dec("150"),
				ConveyanceAllowance: dec("100"),
				SpecialAllowance:    basic.Mul(dec("0.05")).Round(2),
				ProvidentFund:       basic.Mul(dec("0.12")).Round(2),
				ProfessionalTax:     dec("20"),
				IncomeTax:           basic.Mul(dec("0.1")).Round(2),
			})
			if err != nil {
				return fmt.Errorf("failed to create payroll for %s: %w", u.Email, err)
			}
			if !period.paid {
				continue
			}
			if _, err := s.svc.Payroll.UpdateStatus(ctx, record.ID, payroll.UpdatePayrollStatusRequest{Status: string(payroll.PayrollStatusPaid)}); err != nil {
				return fmt.Errorf("failed to mark payroll paid: %w", err)
			}
		}
	}
	return nil
}

func at(date time.Time, offset time.Duration) time.Time {
	return date.Add(offset)
}

func day(t time.Time) string {
	return t.Format("2006-01-02")
}
