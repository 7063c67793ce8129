package payroll

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/clock"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
	"github.com/dayflow-hr/dayflow-backend/internal/repository/memory"
)

var paidNow = time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)

type payrollFixture struct {
	svc   payroll.PayrollService
	store *memory.Store
}

func newPayrollFixture(t *testing.T) payrollFixture {
	t.Helper()
	store := memory.NewStore()
	svc := NewPayrollService(memory.NewPayrollRepository(store), memory.NewUserRepository(store), clock.Func(func() time.Time { return paidNow }))
	return payrollFixture{svc: svc, store: store}
}

func (f payrollFixture) seedEmployee(t *testing.T, code, firstName, lastName string) string {
	t.Helper()
	ctx := context.Background()
	u, err := memory.NewUserRepository(f.store).Create(ctx, user.User{EmployeeCode: code, Email: code + "@dayflow.test", Role: user.RoleEmployee})
	require.NoError(t, err)
	department := "Engineering"
	require.NoError(t, memory.NewEmployeeRepository(f.store).CreateProfile(ctx, employee.Employee{
		UserID:     u.ID,
		FirstName:  firstName,
		LastName:   lastName,
		Department: &department,
	}))
	return u.ID
}

func createRequest(employeeID string, month int) payroll.CreatePayrollRequest {
	return payroll.CreatePayrollRequest{
		EmployeeID:          employeeID,
		Month:               month,
		Year:                2026,
		BasicSalary:         decimal.RequireFromString("50000"),
		HouseRentAllowance:  decimal.RequireFromString("10000"),
		MedicalAllowance:    decimal.RequireFromString("1250.5"),
		ConveyanceAllowance: decimal.RequireFromString("1600"),
		SpecialAllowance:    decimal.RequireFromString("0.1"),
		ProvidentFund:       decimal.RequireFromString("6000"),
		ProfessionalTax:     decimal.RequireFromString("200.25"),
		IncomeTax:           decimal.RequireFromString("4500"),
	}
}

func TestPayrollService_CreatePayroll(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)
	employeeID := f.seedEmployee(t, "EMP001", "Ada", "Lovelace")

	// Act
	resp, err := f.svc.CreatePayroll(ctx, createRequest(employeeID, 4))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "12850.6", resp.TotalAllowances.String())
	assert.Equal(t, "10700.25", resp.TotalDeductions.String())
	assert.Equal(t, "62850.6", resp.GrossSalary.String())
	assert.Equal(t, "52150.35", resp.NetSalary.String())
	require.NotNil(t, resp.EmployeeName)
	assert.Equal(t, "Ada Lovelace", *resp.EmployeeName)
	assert.Nil(t, resp.PaidAt)
}

func TestPayrollService_CreatePayroll_Errors(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)
	employeeID := f.seedEmployee(t, "EMP001", "Ada", "Lovelace")

	_, err := f.svc.CreatePayroll(ctx, createRequest(employeeID, 4))
	require.NoError(t, err)

	_, err = f.svc.CreatePayroll(ctx, createRequest(employeeID, 4))
	assert.ErrorIs(t, err, payroll.ErrPayrollExists)

	_, err = f.svc.CreatePayroll(ctx, createRequest("00000000-0000-0000-0000-000000000000", 4))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	bad := createRequest(employeeID, 13)
	bad.BasicSalary = decimal.Zero
	bad.IncomeTax = decimal.RequireFromString("-1")
	_, err = f.svc.CreatePayroll(ctx, bad)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs.ToMap(), 3)
}

func TestPayrollService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)
	employeeID := f.seedEmployee(t, "EMP001", "Ada", "Lovelace")

	created, err := f.svc.CreatePayroll(ctx, createRequest(employeeID, 4))
	require.NoError(t, err)

	paid, err := f.svc.UpdateStatus(ctx, created.ID, payroll.UpdatePayrollStatusRequest{Status: "paid"})
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, paidNow.Format(time.RFC3339), *paid.PaidAt)

	pending, err := f.svc.UpdateStatus(ctx, created.ID, payroll.UpdatePayrollStatusRequest{Status: "pending"})
	require.NoError(t, err)
	assert.Nil(t, pending.PaidAt)

	_, err = f.svc.UpdateStatus(ctx, "00000000-0000-0000-0000-000000000000", payroll.UpdatePayrollStatusRequest{Status: "paid"})
	assert.ErrorIs(t, err, payroll.ErrPayrollNotFound)
}

func TestPayrollService_ListPayroll(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)
	first := f.seedEmployee(t, "EMP001", "Ada", "Lovelace")
	second := f.seedEmployee(t, "EMP002", "Alan", "Turing")

	for _, month := range []int{2, 3, 4} {
		_, err := f.svc.CreatePayroll(ctx, createRequest(first, month))
		require.NoError(t, err)
	}
	_, err := f.svc.CreatePayroll(ctx, createRequest(second, 4))
	require.NoError(t, err)

	own, err := f.svc.ListPayroll(ctx, payroll.PayrollFilter{EmployeeID: &first})
	require.NoError(t, err)
	assert.Equal(t, int64(3), own.TotalCount)
	assert.Equal(t, 12, own.Limit)
	require.Len(t, own.Records, 3)
	assert.Equal(t, 4, own.Records[0].Month)

	april := 4
	period, err := f.svc.ListPayroll(ctx, payroll.PayrollFilter{Month: &april})
	require.NoError(t, err)
	assert.Equal(t, int64(2), period.TotalCount)
}

// Test the exported workbook can be read back
func TestPayrollService_ExportPayroll(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)
	first := f.seedEmployee(t, "EMP001", "Ada", "Lovelace")
	second := f.seedEmployee(t, "EMP002", "Alan", "Turing")

	_, err := f.svc.CreatePayroll(ctx, createRequest(second, 4))
	require.NoError(t, err)
	_, err = f.svc.CreatePayroll(ctx, createRequest(first, 4))
	require.NoError(t, err)
	_, err = f.svc.CreatePayroll(ctx, createRequest(first, 5))
	require.NoError(t, err)

	// Act
	var buf bytes.Buffer
	req := payroll.ExportPayrollRequest{Month: 4, Year: 2026}
	require.NoError(t, f.svc.ExportPayroll(ctx, req, &buf))

	// Assert
	assert.Equal(t, "payroll-2026-04.xlsx", req.FileName())

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Payroll")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Employee Code", rows[0][0])
	assert.Equal(t, "EMP001", rows[1][0])
	assert.Equal(t, "Ada Lovelace", rows[1][1])
	assert.Equal(t, "2026-04", rows[1][3])
	assert.Equal(t, "52150.35", rows[1][15])
	assert.Equal(t, "EMP002", rows[2][0])
}

func TestPayrollService_ExportPayroll_InvalidPeriod(t *testing.T) {
	f := newPayrollFixture(t)

	var buf bytes.Buffer
	err := f.svc.ExportPayroll(context.Background(), payroll.ExportPayrollRequest{Month: 0, Year: 1999}, &buf)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Zero(t, buf.Len())
}
