package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
)

// ========== RECORD DTOs ==========

type CreatePayrollRequest struct {
	EmployeeID  string          `json:"employee_id"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	BasicSalary decimal.Decimal `json:"basic_salary"`

	HouseRentAllowance  decimal.Decimal `json:"house_rent_allowance"`
	MedicalAllowance    decimal.Decimal `json:"medical_allowance"`
	ConveyanceAllowance decimal.Decimal `json:"conveyance_allowance"`
	SpecialAllowance    decimal.Decimal `json:"special_allowance"`

	ProvidentFund   decimal.Decimal `json:"provident_fund"`
	ProfessionalTax decimal.Decimal `json:"professional_tax"`
	IncomeTax       decimal.Decimal `json:"income_tax"`
}

func (r *CreatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be a valid UUID"})
	}
	validatePeriod(r.Month, r.Year, &errs)

	if !r.BasicSalary.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "basic_salary", Message: "must be greater than 0"})
	}

	amounts := []struct {
		field string
		value decimal.Decimal
	}{
		{"house_rent_allowance", r.HouseRentAllowance},
		{"medical_allowance", r.MedicalAllowance},
		{"conveyance_allowance", r.ConveyanceAllowance},
		{"special_allowance", r.SpecialAllowance},
		{"provident_fund", r.ProvidentFund},
		{"professional_tax", r.ProfessionalTax},
		{"income_tax", r.IncomeTax},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: a.field, Message: "must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToRecord builds a pending record with computed totals.
func (r *CreatePayrollRequest) ToRecord() PayrollRecord {
	record := PayrollRecord{
		EmployeeID:          r.EmployeeID,
		Month:               r.Month,
		Year:                r.Year,
		BasicSalary:         r.BasicSalary,
		HouseRentAllowance:  r.HouseRentAllowance,
		MedicalAllowance:    r.MedicalAllowance,
		ConveyanceAllowance: r.ConveyanceAllowance,
		SpecialAllowance:    r.SpecialAllowance,
		ProvidentFund:       r.ProvidentFund,
		ProfessionalTax:     r.ProfessionalTax,
		IncomeTax:           r.IncomeTax,
		Status:              PayrollStatusPending,
	}
	record.CalculateTotals()
	return record
}

type UpdatePayrollStatusRequest struct {
	Status string `json:"status"`
}

func (r *UpdatePayrollStatusRequest) Validate() error {
	if !validator.IsInSlice(r.Status, ValidStatuses()) {
		return validator.ValidationErrors{{Field: "status", Message: "must be 'pending' or 'paid'"}}
	}
	return nil
}

type PayrollFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Month      *int    `json:"month,omitempty"`
	Year       *int    `json:"year,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *PayrollFilter) Validate() error {
	var errs validator.ValidationErrors

	validator.Pagination(&f.Page, &f.Limit, 12, 100, &errs)

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be a valid UUID"})
	}
	if f.Month != nil && (*f.Month < 1 || *f.Month > 12) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if f.Year != nil && (*f.Year < 2000 || *f.Year > 2100) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 2100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ExportPayrollRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *ExportPayrollRequest) Validate() error {
	var errs validator.ValidationErrors
	validatePeriod(r.Month, r.Year, &errs)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// FileName is the attachment name of the exported workbook.
func (r *ExportPayrollRequest) FileName() string {
	return fmt.Sprintf("payroll-%04d-%02d.xlsx", r.Year, r.Month)
}

func validatePeriod(month, year int, errs *validator.ValidationErrors) {
	if month < 1 || month > 12 {
		*errs = append(*errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if year < 2000 || year > 2100 {
		*errs = append(*errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 2100"})
	}
}

type PayrollResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	Month        int     `json:"month"`
	Year         int     `json:"year"`

	BasicSalary         decimal.Decimal `json:"basic_salary"`
	HouseRentAllowance  decimal.Decimal `json:"house_rent_allowance"`
	MedicalAllowance    decimal.Decimal `json:"medical_allowance"`
	ConveyanceAllowance decimal.Decimal `json:"conveyance_allowance"`
	SpecialAllowance    decimal.Decimal `json:"special_allowance"`
	ProvidentFund       decimal.Decimal `json:"provident_fund"`
	ProfessionalTax     decimal.Decimal `json:"professional_tax"`
	IncomeTax           decimal.Decimal `json:"income_tax"`
	TotalAllowances     decimal.Decimal `json:"total_allowances"`
	TotalDeductions     decimal.Decimal `json:"total_deductions"`
	GrossSalary         decimal.Decimal `json:"gross_salary"`
	NetSalary           decimal.Decimal `json:"net_salary"`

	Status    string  `json:"status"`
	PaidAt    *string `json:"paid_at,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type ListPayrollResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Showing    string            `json:"showing"`
	Records    []PayrollResponse `json:"records"`
}
