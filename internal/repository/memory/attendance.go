package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
)

type attendanceRepository struct {
	s *Store
}

func NewAttendanceRepository(s *Store) attendance.AttendanceRepository {
	return &attendanceRepository{s: s}
}

func (r *attendanceRepository) find(employeeID string, date time.Time) (attendance.Attendance, bool) {
	for _, a := range r.s.attendances {
		if a.EmployeeID == employeeID && sameDay(a.Date, date) {
			return a, true
		}
	}
	return attendance.Attendance{}, false
}

func (r *attendanceRepository) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.find(employeeID, date)
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *attendanceRepository) CheckIn(_ context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	existing, ok := r.find(record.EmployeeID, record.Date)
	if ok {
		if existing.CheckIn != nil {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		existing.CheckIn = record.CheckIn
		existing.CheckInLocation = record.CheckInLocation
		existing.Status = record.Status
		existing.UpdatedAt = now
		r.s.attendances[existing.ID] = existing
		return existing, nil
	}

	record.ID = r.s.newID()
	record.CreatedAt = now
	record.UpdatedAt = now
	r.s.attendances[record.ID] = record
	return record, nil
}

func (r *attendanceRepository) CheckOut(_ context.Context, id string, at time.Time, location *string, workHours decimal.Decimal) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.attendances[id]
	if !ok || a.CheckIn == nil || a.CheckOut != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}
	a.CheckOut = &at
	a.CheckOutLocation = location
	a.WorkHours = &workHours
	a.UpdatedAt = time.Now()
	r.s.attendances[id] = a
	return a, nil
}

func (r *attendanceRepository) ListByEmployee(_ context.Context, employeeID string, filter attendance.HistoryFilter) ([]attendance.Attendance, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var items []attendance.Attendance
	for _, a := range r.s.attendances {
		if a.EmployeeID != employeeID || !inRange(a.Date, filter.StartDate, filter.EndDate) {
			continue
		}
		items = append(items, a)
	}
	sortByKey(items, func(x, y attendance.Attendance) bool { return dayKey(x.Date) > dayKey(y.Date) })
	return page(items, filter.Page, filter.Limit), int64(len(items)), nil
}

func (r *attendanceRepository) ListByDateRange(_ context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var items []attendance.Attendance
	for _, a := range r.s.attendances {
		k := dayKey(a.Date)
		if a.EmployeeID == employeeID && k >= dayKey(from) && k <= dayKey(to) {
			items = append(items, a)
		}
	}
	sortByKey(items, func(x, y attendance.Attendance) bool { return dayKey(x.Date) < dayKey(y.Date) })
	return items, nil
}

func (r *attendanceRepository) List(_ context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var items []attendance.Attendance
	for _, a := range r.s.attendances {
		if filter.EmployeeID != nil && a.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Date != nil && !inRange(a.Date, filter.Date, filter.Date) {
			continue
		}
		if !inRange(a.Date, filter.StartDate, filter.EndDate) {
			continue
		}
		if filter.Status != nil && string(a.Status) != *filter.Status {
			continue
		}
		a.EmployeeName = r.s.displayName(a.EmployeeID)
		items = append(items, a)
	}
	sortByKey(items, func(x, y attendance.Attendance) bool { return dayKey(x.Date) > dayKey(y.Date) })
	return page(items, filter.Page, filter.Limit), int64(len(items)), nil
}

func (r *attendanceRepository) GetStaleOpenSessions(_ context.Context, before time.Time) ([]attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var items []attendance.Attendance
	for _, a := range r.s.attendances {
		if a.CheckIn != nil && a.CheckOut == nil && dayKey(a.Date) < dayKey(before) {
			items = append(items, a)
		}
	}
	sortByKey(items, func(x, y attendance.Attendance) bool { return dayKey(x.Date) < dayKey(y.Date) })
	return items, nil
}

func (r *attendanceRepository) CloseSession(_ context.Context, id string, at time.Time, workHours decimal.Decimal, status attendance.Status) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.attendances[id]
	if !ok || a.CheckIn == nil || a.CheckOut != nil {
		return false, nil
	}
	a.CheckOut = &at
	a.WorkHours = &workHours
	a.Status = status
	a.UpdatedAt = time.Now()
	r.s.attendances[id] = a
	return true, nil
}

func (r *attendanceRepository) InsertPlaceholders(_ context.Context, date time.Time, status attendance.Status) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var inserted int64
	for _, u := range r.s.users {
		if u.Status != user.StatusActive || u.Role == user.RoleAdmin {
			continue
		}
		if _, ok := r.find(u.ID, date); ok {
			continue
		}
		if r.s.onApprovedLeave(u.ID, date) {
			continue
		}
		now := time.Now()
		id := r.s.newID()
		r.s.attendances[id] = attendance.Attendance{
			ID:         id,
			EmployeeID: u.ID,
			Date:       date,
			Status:     status,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		inserted++
	}
	return inserted, nil
}

// inRange treats nil or unparsable bounds as open.
func inRange(date time.Time, start, end *string) bool {
	k := dayKey(date)
	if start != nil {
		if s, err := time.Parse("2006-01-02", *start); err == nil && k < dayKey(s) {
			return false
		}
	}
	if end != nil {
		if e, err := time.Parse("2006-01-02", *end); err == nil && k > dayKey(e) {
			return false
		}
	}
	return true
}
