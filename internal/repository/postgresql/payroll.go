package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/database"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

const payrollSelect = `
	SELECT pr.id, pr.employee_id, pr.month, pr.year, pr.basic_salary,
		   pr.house_rent_allowance, pr.medical_allowance, pr.conveyance_allowance, pr.special_allowance,
		   pr.provident_fund, pr.professional_tax, pr.income_tax,
		   pr.total_allowances, pr.total_deductions, pr.gross_salary, pr.net_salary,
		   pr.status, pr.paid_at, pr.created_at, pr.updated_at,
		   NULLIF(TRIM(CONCAT(ep.first_name, ' ', ep.last_name)), '') AS employee_name,
		   u.employee_code, ep.department
	FROM payroll_records pr
	LEFT JOIN users u ON u.id = pr.employee_id
	LEFT JOIN employee_profiles ep ON ep.user_id = pr.employee_id`

func scanPayroll(row pgx.Row) (payroll.PayrollRecord, error) {
	var p payroll.PayrollRecord
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.Month, &p.Year, &p.BasicSalary,
		&p.HouseRentAllowance, &p.MedicalAllowance, &p.ConveyanceAllowance, &p.SpecialAllowance,
		&p.ProvidentFund, &p.ProfessionalTax, &p.IncomeTax,
		&p.TotalAllowances, &p.TotalDeductions, &p.GrossSalary, &p.NetSalary,
		&p.Status, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt,
		&p.EmployeeName, &p.EmployeeCode, &p.Department,
	)
	return p, err
}

// Create implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) Create(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_records (
			employee_id, month, year, basic_salary,
			house_rent_allowance, medical_allowance, conveyance_allowance, special_allowance,
			provident_fund, professional_tax, income_tax,
			total_allowances, total_deductions, gross_salary, net_salary, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		record.EmployeeID, record.Month, record.Year, record.BasicSalary,
		record.HouseRentAllowance, record.MedicalAllowance, record.ConveyanceAllowance, record.SpecialAllowance,
		record.ProvidentFund, record.ProfessionalTax, record.IncomeTax,
		record.TotalAllowances, record.TotalDeductions, record.GrossSalary, record.NetSalary, record.Status,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return payroll.PayrollRecord{}, payroll.ErrPayrollExists
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}
	return record, nil
}

// GetByID implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPayroll(q.QueryRow(ctx, payrollSelect+` WHERE pr.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return p, nil
}

// List implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND pr.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Month != nil {
		baseWhere += fmt.Sprintf(" AND pr.month = $%d", argIdx)
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		baseWhere += fmt.Sprintf(" AND pr.year = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM payroll_records pr WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	selectQuery := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY pr.year DESC, pr.month DESC, pr.created_at DESC
		LIMIT $%d OFFSET $%d
	`, payrollSelect, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payroll records: %w", err)
	}

	return records, total, nil
}

// ListByPeriod implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ListByPeriod(ctx context.Context, month, year int) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := payrollSelect + `
		WHERE pr.month = $1 AND pr.year = $2
		ORDER BY ep.first_name ASC NULLS LAST, u.employee_code ASC`

	rows, err := q.Query(ctx, query, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll period: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, p)
	}
	return records, rows.Err()
}

// UpdateStatus implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) UpdateStatus(ctx context.Context, id string, status payroll.PayrollStatus, paidAt *time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE payroll_records SET status = $2, paid_at = $3, updated_at = NOW() WHERE id = $1`,
		id, status, paidAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollNotFound
	}
	return nil
}
