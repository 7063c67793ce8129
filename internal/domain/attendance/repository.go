package attendance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns nil when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// CheckIn creates the (employee, date) row or fills a placeholder row.
	// It only writes while check_in is unset and returns ErrAlreadyCheckedIn otherwise.
	CheckIn(ctx context.Context, record Attendance) (Attendance, error)

	// CheckOut writes the check-out of record id only while check_in is set
	// and check_out is unset. Returns ErrAlreadyCheckedOut when the guard fails.
	CheckOut(ctx context.Context, id string, at time.Time, location *string, workHours decimal.Decimal) (Attendance, error)

	// ListByEmployee returns records ordered by date descending plus the total count.
	ListByEmployee(ctx context.Context, employeeID string, filter HistoryFilter) ([]Attendance, int64, error)

	// ListByDateRange returns records between from and to inclusive, ordered by date ascending.
	ListByDateRange(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)

	// List retrieves attendance records for all employees with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// GetStaleOpenSessions returns checked-in records without check-out dated before the given day.
	GetStaleOpenSessions(ctx context.Context, before time.Time) ([]Attendance, error)

	// CloseSession closes an open record with the given status. Returns false if it was closed concurrently.
	CloseSession(ctx context.Context, id string, at time.Time, workHours decimal.Decimal, status Status) (bool, error)

	// InsertPlaceholders adds a record with the given status for every active
	// employee that has none on date. Returns the number of rows inserted.
	InsertPlaceholders(ctx context.Context, date time.Time, status Status) (int64, error)
}
