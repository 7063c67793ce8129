package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.date, a.check_in, a.check_out,
	a.check_in_location, a.check_out_location, a.status, a.work_hours,
	a.created_at, a.updated_at`

// Same columns for RETURNING clauses, which cannot use the table alias.
const attendanceReturning = `
	id, employee_id, date, check_in, check_out,
	check_in_location, check_out_location, status, work_hours,
	created_at, updated_at`

func scanAttendance(row pgx.Row, extra ...any) (attendance.Attendance, error) {
	var att attendance.Attendance
	var workHours decimal.NullDecimal

	dest := []any{
		&att.ID, &att.EmployeeID, &att.Date, &att.CheckIn, &att.CheckOut,
		&att.CheckInLocation, &att.CheckOutLocation, &att.Status, &workHours,
		&att.CreatedAt, &att.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return attendance.Attendance{}, err
	}
	if workHours.Valid {
		att.WorkHours = &workHours.Decimal
	}
	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.date = $2::date`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	return &att, nil
}

// CheckIn implements attendance.AttendanceRepository.
func (a *attendanceRepository) CheckIn(ctx context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	// A placeholder row (weekend, holiday, absent) has no check-in and is
	// taken over; a row that already has one is left untouched.
	query := `
		INSERT INTO attendances (employee_id, date, check_in, check_in_location, status)
		VALUES ($1, $2::date, $3, $4, $5)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET check_in = EXCLUDED.check_in,
			check_in_location = EXCLUDED.check_in_location,
			status = EXCLUDED.status,
			updated_at = NOW()
		WHERE attendances.check_in IS NULL
		RETURNING ` + attendanceReturning

	att, err := scanAttendance(q.QueryRow(ctx, query,
		record.EmployeeID, record.Date, record.CheckIn, record.CheckInLocation, record.Status,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to check in: %w", err)
	}
	return att, nil
}

// CheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) CheckOut(ctx context.Context, id string, at time.Time, location *string, workHours decimal.Decimal) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_out = $2, check_out_location = $3, work_hours = $4, updated_at = NOW()
		WHERE id = $1 AND check_in IS NOT NULL AND check_out IS NULL
		RETURNING ` + attendanceReturning

	att, err := scanAttendance(q.QueryRow(ctx, query, id, at, location, workHours))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.Attendance{}, fmt.Errorf("failed to check out: %w", err)
	}
	return att, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, filter attendance.HistoryFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "a.employee_id = $1"
	args := []interface{}{employeeID}
	argIdx := 2

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d::date", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d::date", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM attendances a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM attendances a
		WHERE %s
		ORDER BY a.date DESC
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return attendances, total, nil
}

// ListByDateRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDateRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.date BETWEEN $2::date AND $3::date
		ORDER BY a.date ASC`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	return attendances, rows.Err()
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND a.date = $%d::date", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d::date", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d::date", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM attendances a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s,
			NULLIF(TRIM(CONCAT(ep.first_name, ' ', ep.last_name)), '') AS employee_name
		FROM attendances a
		LEFT JOIN employee_profiles ep ON ep.user_id = a.employee_id
		WHERE %s
		ORDER BY a.date DESC, ep.first_name ASC
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		var name *string
		att, err := scanAttendance(rows, &name)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		att.EmployeeName = name
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return attendances, total, nil
}

// GetStaleOpenSessions implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetStaleOpenSessions(ctx context.Context, before time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.check_in IS NOT NULL AND a.check_out IS NULL AND a.date < $1::date
		ORDER BY a.date ASC`

	rows, err := q.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale sessions: %w", err)
	}
	defer rows.Close()

	var sessions []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		sessions = append(sessions, att)
	}
	return sessions, rows.Err()
}

// CloseSession implements attendance.AttendanceRepository.
func (a *attendanceRepository) CloseSession(ctx context.Context, id string, at time.Time, workHours decimal.Decimal, status attendance.Status) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_out = $2, work_hours = $3, status = $4, updated_at = NOW()
		WHERE id = $1 AND check_in IS NOT NULL AND check_out IS NULL
	`
	tag, err := q.Exec(ctx, query, id, at, workHours, status)
	if err != nil {
		return false, fmt.Errorf("failed to close session: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// InsertPlaceholders implements attendance.AttendanceRepository.
func (a *attendanceRepository) InsertPlaceholders(ctx context.Context, date time.Time, status attendance.Status) (int64, error) {
	q := GetQuerier(ctx, a.db)

	// Employees on approved leave that day keep no placeholder.
	query := `
		INSERT INTO attendances (employee_id, date, status)
		SELECT u.id, $1::date, $2::varchar
		FROM users u
		WHERE u.status = 'active'
		  AND u.role IN ('employee', 'hr')
		  AND NOT EXISTS (
			SELECT 1 FROM leave_requests lr
			WHERE lr.employee_id = u.id
			  AND lr.status = 'approved'
			  AND $1::date BETWEEN lr.start_date AND lr.end_date
		  )
		ON CONFLICT (employee_id, date) DO NOTHING
	`
	tag, err := q.Exec(ctx, query, date, string(status))
	if err != nil {
		return 0, fmt.Errorf("failed to insert %s placeholders: %w", status, err)
	}
	return tag.RowsAffected(), nil
}
