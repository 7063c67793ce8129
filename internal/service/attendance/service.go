package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/clock"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	clock clock.Clock
}

func NewAttendanceService(attendanceRepo attendance.AttendanceRepository, clk clock.Clock) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		clock:                clk,
	}
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, employeeID string, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.clock.Now()
	today := clock.DateOf(now)

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing != nil && existing.HasCheckedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	// The repository re-checks check_in IS NULL atomically; a concurrent
	// check-in that won the race surfaces here as ErrAlreadyCheckedIn.
	saved, err := a.AttendanceRepository.CheckIn(ctx, attendance.Attendance{
		EmployeeID:      employeeID,
		Date:            today,
		CheckIn:         &now,
		CheckInLocation: req.Location,
		Status:          attendance.StatusAt(now),
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check in: %w", err)
	}

	slog.Info("employee checked in", "employee_id", employeeID, "status", saved.Status)
	return a.toResponse(saved), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, employeeID string, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.clock.Now()
	today := clock.DateOf(now)

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing == nil || !existing.HasCheckedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if existing.HasCheckedOut() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	workHours := decimal.Zero
	if now.After(*existing.CheckIn) {
		workHours = attendance.WorkHours(*existing.CheckIn, now)
	}

	saved, err := a.AttendanceRepository.CheckOut(ctx, existing.ID, now, req.Location, workHours)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedOut) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check out: %w", err)
	}

	slog.Info("employee checked out", "employee_id", employeeID, "work_hours", workHours.StringFixed(2))
	return a.toResponse(saved), nil
}

// GetToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetToday(ctx context.Context, employeeID string) (*attendance.AttendanceResponse, error) {
	today := clock.DateOf(a.clock.Now())

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing == nil {
		return nil, nil
	}

	resp := a.toResponse(*existing)
	return &resp, nil
}

// GetHistory implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetHistory(ctx context.Context, employeeID string, filter attendance.HistoryFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.AttendanceRepository.ListByEmployee(ctx, employeeID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to get attendance history: %w", err)
	}

	return a.toListResponse(records, total, filter.Page, filter.Limit), nil
}

// GetWeekly implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetWeekly(ctx context.Context, employeeID string) (attendance.WeeklyAttendanceResponse, error) {
	monday, sunday := clock.WeekBounds(a.clock.Now())

	records, err := a.AttendanceRepository.ListByDateRange(ctx, employeeID, monday, sunday)
	if err != nil {
		return attendance.WeeklyAttendanceResponse{}, fmt.Errorf("failed to get weekly attendance: %w", err)
	}

	days := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		days = append(days, a.toResponse(rec))
	}

	return attendance.WeeklyAttendanceResponse{
		WeekStart: monday.Format("2006-01-02"),
		WeekEnd:   sunday.Format("2006-01-02"),
		Days:      days,
	}, nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	return a.toListResponse(records, total, filter.Page, filter.Limit), nil
}

func (a *AttendanceServiceImpl) toListResponse(records []attendance.Attendance, total int64, page, limit int) attendance.ListAttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, a.toResponse(rec))
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	showing := fmt.Sprintf("%d-%d of %d", (page-1)*limit+1, min(page*limit, int(total)), total)
	if total == 0 || (page-1)*limit >= int(total) {
		showing = fmt.Sprintf("0 of %d", total)
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}
}

// toResponse renders times as HH:MM in the attendance zone.
func (a *AttendanceServiceImpl) toResponse(rec attendance.Attendance) attendance.AttendanceResponse {
	loc := a.clock.Now().Location()

	resp := attendance.AttendanceResponse{
		ID:               rec.ID,
		EmployeeID:       rec.EmployeeID,
		EmployeeName:     rec.EmployeeName,
		Date:             rec.Date.Format("2006-01-02"),
		Day:              rec.Date.Weekday().String(),
		CheckIn:          clockTime(rec.CheckIn, loc),
		CheckOut:         clockTime(rec.CheckOut, loc),
		CheckInLocation:  rec.CheckInLocation,
		CheckOutLocation: rec.CheckOutLocation,
		Status:           string(rec.Status),
	}
	if rec.WorkHours != nil {
		hours := rec.WorkHours.InexactFloat64()
		resp.WorkHours = &hours
	}
	return resp
}

func clockTime(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	formatted := t.In(loc).Format("15:04")
	return &formatted
}
