package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// Users without a profile row still list, with empty names.
const employeeSelect = `
	SELECT u.id, u.employee_code, u.email, u.role, u.status,
		   COALESCE(ep.first_name, ''), COALESCE(ep.last_name, ''),
		   ep.phone, ep.address, ep.department, ep.position,
		   ep.date_of_joining, ep.date_of_birth, ep.gender, ep.marital_status,
		   ep.emergency_contact, ep.employment_type, ep.salary,
		   u.created_at, GREATEST(u.updated_at, COALESCE(ep.updated_at, u.updated_at))
	FROM users u
	LEFT JOIN employee_profiles ep ON ep.user_id = u.id`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	var salary decimal.NullDecimal
	err := row.Scan(
		&e.UserID, &e.EmployeeCode, &e.Email, &e.Role, &e.Status,
		&e.FirstName, &e.LastName,
		&e.Phone, &e.Address, &e.Department, &e.Position,
		&e.DateOfJoining, &e.DateOfBirth, &e.Gender, &e.MaritalStatus,
		&e.EmergencyContact, &e.EmploymentType, &salary,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	if salary.Valid {
		e.Salary = &salary.Decimal
	}
	return e, nil
}

// CreateProfile implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) CreateProfile(ctx context.Context, p employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	var salary decimal.NullDecimal
	if p.Salary != nil {
		salary = decimal.NewNullDecimal(*p.Salary)
	}

	query := `
		INSERT INTO employee_profiles (
			user_id, first_name, last_name, phone, address, department, position,
			date_of_joining, date_of_birth, gender, marital_status,
			emergency_contact, employment_type, salary
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::date, $9::date, $10, $11, $12, $13, $14)
	`
	_, err := q.Exec(ctx, query,
		p.UserID, p.FirstName, p.LastName, p.Phone, p.Address, p.Department, p.Position,
		p.DateOfJoining, p.DateOfBirth, p.Gender, p.MaritalStatus,
		p.EmergencyContact, p.EmploymentType, salary,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return employee.ErrProfileExists
		}
		return fmt.Errorf("failed to create employee profile: %w", err)
	}
	return nil
}

// GetByUserID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, employeeSelect+` WHERE u.id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// UpdateProfile implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateProfile(ctx context.Context, userID string, req employee.UpdateProfileRequest) error {
	q := GetQuerier(ctx, r.db)

	setClause := "updated_at = NOW()"
	args := []interface{}{userID}
	argIdx := 2

	set := func(column string, value interface{}) {
		setClause += fmt.Sprintf(", %s = $%d", column, argIdx)
		args = append(args, value)
		argIdx++
	}

	if req.FirstName != nil {
		set("first_name", *req.FirstName)
	}
	if req.LastName != nil {
		set("last_name", *req.LastName)
	}
	if req.Phone != nil {
		set("phone", *req.Phone)
	}
	if req.Address != nil {
		set("address", *req.Address)
	}
	if req.DateOfBirthValue != nil {
		set("date_of_birth", *req.DateOfBirthValue)
	}
	if req.Gender != nil {
		set("gender", *req.Gender)
	}
	if req.MaritalStatus != nil {
		set("marital_status", *req.MaritalStatus)
	}
	if req.EmergencyContact != nil {
		set("emergency_contact", *req.EmergencyContact)
	}

	tag, err := q.Exec(ctx, "UPDATE employee_profiles SET "+setClause+" WHERE user_id = $1", args...)
	if err != nil {
		return fmt.Errorf("failed to update employee profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "u.role IN ('employee', 'hr')"
	args := []interface{}{}
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		baseWhere += fmt.Sprintf(` AND (
			ep.first_name ILIKE $%d OR
			ep.last_name ILIKE $%d OR
			u.email ILIKE $%d OR
			u.employee_code ILIKE $%d
		)`, argIdx, argIdx, argIdx, argIdx)
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Department != nil && *filter.Department != "" {
		baseWhere += fmt.Sprintf(" AND ep.department = $%d", argIdx)
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND u.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := `SELECT COUNT(*) FROM users u LEFT JOIN employee_profiles ep ON ep.user_id = u.id WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	selectQuery := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY ep.first_name ASC NULLS LAST, u.employee_code ASC
		LIMIT $%d OFFSET $%d
	`, employeeSelect, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, total, nil
}
