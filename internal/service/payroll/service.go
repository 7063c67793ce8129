package payroll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/clock"
)

type PayrollServiceImpl struct {
	payroll.PayrollRepository
	userRepo user.UserRepository
	clock    clock.Clock
}

func NewPayrollService(payrollRepo payroll.PayrollRepository, userRepo user.UserRepository, clk clock.Clock) payroll.PayrollService {
	return &PayrollServiceImpl{
		PayrollRepository: payrollRepo,
		userRepo:          userRepo,
		clock:             clk,
	}
}

// ListPayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListPayroll(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	records, total, err := s.PayrollRepository.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollResponse{}, fmt.Errorf("failed to list payroll records: %w", err)
	}

	responses := make([]payroll.PayrollResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, toResponse(record))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 || (filter.Page-1)*filter.Limit >= int(total) {
		showing = fmt.Sprintf("0 of %d", total)
	}

	return payroll.ListPayrollResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Records:    responses,
	}, nil
}

// GetPayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayroll(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	record, err := s.PayrollRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollNotFound) {
			return payroll.PayrollResponse{}, err
		}
		return payroll.PayrollResponse{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return toResponse(record), nil
}

// CreatePayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) CreatePayroll(ctx context.Context, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	if _, err := s.userRepo.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return payroll.PayrollResponse{}, employee.ErrEmployeeNotFound
		}
		return payroll.PayrollResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	created, err := s.PayrollRepository.Create(ctx, req.ToRecord())
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollExists) {
			return payroll.PayrollResponse{}, err
		}
		return payroll.PayrollResponse{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	slog.Info("payroll record created", "id", created.ID, "employee_id", created.EmployeeID, "period", fmt.Sprintf("%04d-%02d", created.Year, created.Month))
	return s.GetPayroll(ctx, created.ID)
}

// UpdateStatus implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdateStatus(ctx context.Context, id string, req payroll.UpdatePayrollStatusRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	status := payroll.PayrollStatus(req.Status)
	var paidAt *time.Time
	if status == payroll.PayrollStatusPaid {
		now := s.clock.Now()
		paidAt = &now
	}

	if err := s.PayrollRepository.UpdateStatus(ctx, id, status, paidAt); err != nil {
		if errors.Is(err, payroll.ErrPayrollNotFound) {
			return payroll.PayrollResponse{}, err
		}
		return payroll.PayrollResponse{}, fmt.Errorf("failed to update payroll status: %w", err)
	}

	return s.GetPayroll(ctx, id)
}

var exportHeader = []interface{}{
	"Employee Code", "Employee Name", "Department", "Period",
	"Basic Salary", "House Rent", "Medical", "Conveyance", "Special",
	"Total Allowances", "Provident Fund", "Professional Tax", "Income Tax",
	"Total Deductions", "Gross Salary", "Net Salary", "Status", "Paid At",
}

// ExportPayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) ExportPayroll(ctx context.Context, req payroll.ExportPayrollRequest, w io.Writer) error {
	if err := req.Validate(); err != nil {
		return err
	}

	records, err := s.PayrollRepository.ListByPeriod(ctx, req.Month, req.Year)
	if err != nil {
		return fmt.Errorf("failed to list payroll records: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close workbook", "error", err)
		}
	}()

	const sheet = "Payroll"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	period := fmt.Sprintf("%04d-%02d", req.Year, req.Month)
	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			deref(record.EmployeeCode),
			employee.DisplayName(deref(record.EmployeeName), ""),
			deref(record.Department),
			period,
			record.BasicSalary.InexactFloat64(),
			record.HouseRentAllowance.InexactFloat64(),
			record.MedicalAllowance.InexactFloat64(),
			record.ConveyanceAllowance.InexactFloat64(),
			record.SpecialAllowance.InexactFloat64(),
			record.TotalAllowances.InexactFloat64(),
			record.ProvidentFund.InexactFloat64(),
			record.ProfessionalTax.InexactFloat64(),
			record.IncomeTax.InexactFloat64(),
			record.TotalDeductions.InexactFloat64(),
			record.GrossSalary.InexactFloat64(),
			record.NetSalary.InexactFloat64(),
			string(record.Status),
			"",
		}
		if record.PaidAt != nil {
			row[len(row)-1] = record.PaidAt.Format("2006-01-02")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write payroll row: %w", err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "R", 16); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	slog.Info("payroll exported", "period", period, "records", len(records))
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toResponse(record payroll.PayrollRecord) payroll.PayrollResponse {
	resp := payroll.PayrollResponse{
		ID:                  record.ID,
		EmployeeID:          record.EmployeeID,
		EmployeeName:        record.EmployeeName,
		EmployeeCode:        record.EmployeeCode,
		Month:               record.Month,
		Year:                record.Year,
		BasicSalary:         record.BasicSalary,
		HouseRentAllowance:  record.HouseRentAllowance,
		MedicalAllowance:    record.MedicalAllowance,
		ConveyanceAllowance: record.ConveyanceAllowance,
		SpecialAllowance:    record.SpecialAllowance,
		ProvidentFund:       record.ProvidentFund,
		ProfessionalTax:     record.ProfessionalTax,
		IncomeTax:           record.IncomeTax,
		TotalAllowances:     record.TotalAllowances,
		TotalDeductions:     record.TotalDeductions,
		GrossSalary:         record.GrossSalary,
		NetSalary:           record.NetSalary,
		Status:              string(record.Status),
		CreatedAt:           record.CreatedAt.Format(time.RFC3339),
	}
	if record.PaidAt != nil {
		paidAt := record.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}
	return resp
}
