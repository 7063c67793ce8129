package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn records the first check-in of today for employeeID
	CheckIn(ctx context.Context, employeeID string, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes today's record for employeeID
	CheckOut(ctx context.Context, employeeID string, req CheckOutRequest) (AttendanceResponse, error)

	// GetToday returns today's record, or nil when there is none
	GetToday(ctx context.Context, employeeID string) (*AttendanceResponse, error)

	GetHistory(ctx context.Context, employeeID string, filter HistoryFilter) (ListAttendanceResponse, error)

	// GetWeekly returns the Monday to Sunday week containing today
	GetWeekly(ctx context.Context, employeeID string) (WeeklyAttendanceResponse, error)

	// ListAttendance retrieves attendance records of all employees (admin/hr)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
}
