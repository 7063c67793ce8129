package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type PayrollStatus string

const (
	PayrollStatusPending PayrollStatus = "pending"
	PayrollStatusPaid    PayrollStatus = "paid"
)

func ValidStatuses() []string {
	return []string{string(PayrollStatusPending), string(PayrollStatusPaid)}
}

// PayrollRecord is one employee's pay for one month.
type PayrollRecord struct {
	ID          string
	EmployeeID  string
	Month       int
	Year        int
	BasicSalary decimal.Decimal

	// Allowances
	HouseRentAllowance  decimal.Decimal
	MedicalAllowance    decimal.Decimal
	ConveyanceAllowance decimal.Decimal
	SpecialAllowance    decimal.Decimal

	// Deductions
	ProvidentFund   decimal.Decimal
	ProfessionalTax decimal.Decimal
	IncomeTax       decimal.Decimal

	TotalAllowances decimal.Decimal
	TotalDeductions decimal.Decimal
	GrossSalary     decimal.Decimal
	NetSalary       decimal.Decimal

	Status    PayrollStatus
	PaidAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
	Department   *string
}

// CalculateTotals derives the totals from the individual components.
func (p *PayrollRecord) CalculateTotals() {
	p.TotalAllowances = p.HouseRentAllowance.
		Add(p.MedicalAllowance).
		Add(p.ConveyanceAllowance).
		Add(p.SpecialAllowance)
	p.TotalDeductions = p.ProvidentFund.
		Add(p.ProfessionalTax).
		Add(p.IncomeTax)
	p.GrossSalary = p.BasicSalary.Add(p.TotalAllowances)
	p.NetSalary = p.GrossSalary.Sub(p.TotalDeductions)
}
