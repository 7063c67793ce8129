package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/clock"
)

// Sessions left open past midnight are closed at this local hour.
const autoCloseHour = 18

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	clock          clock.Clock
}

func NewAttendanceJobs(attendanceRepo attendance.AttendanceRepository, clk clock.Clock) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		clock:          clk,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("auto_close_stale_sessions", interval, j.AutoCloseStaleSessions)
	scheduler.AddJob("mark_non_working_days", interval, j.MarkNonWorkingDays)
	scheduler.AddJob("mark_absent_employees", interval, j.MarkAbsentEmployees)
}

// AutoCloseStaleSessions closes records from previous days that were
// checked in but never checked out. They are closed at 18:00 on their own
// date, or at the check-in time if that was later, and marked half-day.
func (j *AttendanceJobs) AutoCloseStaleSessions(ctx context.Context) error {
	now := j.clock.Now()
	today := clock.DateOf(now)

	staleSessions, err := j.attendanceRepo.GetStaleOpenSessions(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to get stale sessions: %w", err)
	}
	if len(staleSessions) == 0 {
		return nil
	}

	closedCount := 0
	for _, session := range staleSessions {
		if session.CheckIn == nil {
			continue
		}

		y, m, d := session.Date.Date()
		closeAt := time.Date(y, m, d, autoCloseHour, 0, 0, 0, now.Location())
		if closeAt.Before(*session.CheckIn) {
			closeAt = *session.CheckIn
		}

		closed, err := j.attendanceRepo.CloseSession(ctx, session.ID, closeAt,
			attendance.WorkHours(*session.CheckIn, closeAt), attendance.StatusHalfDay)
		if err != nil {
			slog.Error("failed to auto-close attendance", "attendance_id", session.ID, "error", err)
			continue
		}
		if closed {
			closedCount++
		}
	}

	slog.Info("auto-closed stale attendances", "closed", closedCount, "found", len(staleSessions))
	return nil
}

// MarkNonWorkingDays writes weekend placeholders for today on Saturdays
// and Sundays. Holidays are loaded by the seeder.
func (j *AttendanceJobs) MarkNonWorkingDays(ctx context.Context) error {
	today := clock.DateOf(j.clock.Now())
	if !isWeekend(today) {
		return nil
	}

	inserted, err := j.attendanceRepo.InsertPlaceholders(ctx, today, attendance.StatusWeekend)
	if err != nil {
		return fmt.Errorf("failed to mark weekend: %w", err)
	}
	if inserted > 0 {
		slog.Info("marked weekend", "date", today.Format("2006-01-02"), "employees", inserted)
	}
	return nil
}

// MarkAbsentEmployees marks yesterday absent for employees with no record,
// when yesterday was a working day.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	yesterday := clock.DateOf(j.clock.Now()).AddDate(0, 0, -1)
	if isWeekend(yesterday) {
		return nil
	}

	inserted, err := j.attendanceRepo.InsertPlaceholders(ctx, yesterday, attendance.StatusAbsent)
	if err != nil {
		return fmt.Errorf("failed to mark absent employees: %w", err)
	}
	if inserted > 0 {
		slog.Info("marked absent", "date", yesterday.Format("2006-01-02"), "employees", inserted)
	}
	return nil
}

func isWeekend(day time.Time) bool {
	return day.Weekday() == time.Saturday || day.Weekday() == time.Sunday
}
