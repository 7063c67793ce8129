package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/dashboard"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/database"
)

type dashboardRepository struct {
	db *database.DB
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) count(ctx context.Context, what, query string, args ...interface{}) (int64, error) {
	q := GetQuerier(ctx, r.db)
	var n int64
	if err := q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", what, err)
	}
	return n, nil
}

func (r *dashboardRepository) CountActiveEmployees(ctx context.Context) (int64, error) {
	return r.count(ctx, "employees",
		`SELECT COUNT(*) FROM users WHERE role IN ('employee', 'hr') AND status = 'active'`)
}

func (r *dashboardRepository) CountPresent(ctx context.Context, date time.Time) (int64, error) {
	return r.count(ctx, "present employees", `
		SELECT COUNT(DISTINCT employee_id)
		FROM attendances
		WHERE date = $1::date AND status IN ('present', 'late', 'half-day')`, date)
}

func (r *dashboardRepository) CountPendingLeaves(ctx context.Context, employeeID string) (int64, error) {
	if employeeID == "" {
		return r.count(ctx, "pending leaves",
			`SELECT COUNT(*) FROM leave_requests WHERE status = 'pending'`)
	}
	return r.count(ctx, "pending leaves",
		`SELECT COUNT(*) FROM leave_requests WHERE status = 'pending' AND employee_id = $1`, employeeID)
}

func (r *dashboardRepository) CountDepartments(ctx context.Context) (int64, error) {
	return r.count(ctx, "departments", `
		SELECT COUNT(DISTINCT department)
		FROM employee_profiles
		WHERE department IS NOT NULL AND department <> ''`)
}

func (r *dashboardRepository) CountDaysPresent(ctx context.Context, employeeID string, from, to time.Time) (int64, error) {
	return r.count(ctx, "days present", `
		SELECT COUNT(*)
		FROM attendances
		WHERE employee_id = $1
		  AND date BETWEEN $2::date AND $3::date
		  AND status IN ('present', 'late', 'half-day')`, employeeID, from, to)
}

func (r *dashboardRepository) ApprovedLeaveDays(ctx context.Context, employeeID string, year int) (map[string]int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT type, COALESCE(SUM(end_date - start_date + 1), 0)
		FROM leave_requests
		WHERE employee_id = $1
		  AND status = 'approved'
		  AND EXTRACT(YEAR FROM start_date) = $2
		GROUP BY type
	`
	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to sum approved leave days: %w", err)
	}
	defer rows.Close()

	used := make(map[string]int64)
	for rows.Next() {
		var leaveType string
		var days int64
		if err := rows.Scan(&leaveType, &days); err != nil {
			return nil, fmt.Errorf("failed to scan leave days: %w", err)
		}
		used[leaveType] = days
	}
	return used, rows.Err()
}
