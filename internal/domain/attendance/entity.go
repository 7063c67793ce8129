package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusHalfDay Status = "half-day"
	StatusLate    Status = "late"
	StatusWeekend Status = "weekend"
	StatusHoliday Status = "holiday"
)

func ValidStatuses() []string {
	return []string{
		string(StatusPresent), string(StatusAbsent), string(StatusHalfDay),
		string(StatusLate), string(StatusWeekend), string(StatusHoliday),
	}
}

// Check-ins after 09:30 local time are late. 09:30 itself is on time.
const (
	LateCutoffHour   = 9
	LateCutoffMinute = 30
)

type Attendance struct {
	ID               string
	EmployeeID       string
	Date             time.Time
	CheckIn          *time.Time
	CheckOut         *time.Time
	CheckInLocation  *string
	CheckOutLocation *string
	Status           Status
	WorkHours        *decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined fields
	EmployeeName *string
}

func (a *Attendance) HasCheckedIn() bool {
	return a.CheckIn != nil
}

func (a *Attendance) HasCheckedOut() bool {
	return a.CheckOut != nil
}

// StatusAt classifies a check-in by wall-clock time in t's location.
func StatusAt(t time.Time) Status {
	h, m := t.Hour(), t.Minute()
	if h > LateCutoffHour || (h == LateCutoffHour && m > LateCutoffMinute) {
		return StatusLate
	}
	return StatusPresent
}

// WorkHours is the elapsed time between in and out in hours, rounded to 2 places.
func WorkHours(in, out time.Time) decimal.Decimal {
	seconds := decimal.NewFromInt(int64(out.Sub(in) / time.Second))
	return seconds.Div(decimal.NewFromInt(3600)).Round(2)
}
