package memory

import (
	"context"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
)

type payrollRepository struct {
	s *Store
}

func NewPayrollRepository(s *Store) payroll.PayrollRepository {
	return &payrollRepository{s: s}
}

// withJoins must be called with mu held.
func (r *payrollRepository) withJoins(p payroll.PayrollRecord) payroll.PayrollRecord {
	p.EmployeeName = r.s.displayName(p.EmployeeID)
	if u, ok := r.s.users[p.EmployeeID]; ok {
		code := u.EmployeeCode
		p.EmployeeCode = &code
	}
	if prof, ok := r.s.profiles[p.EmployeeID]; ok {
		p.Department = prof.Department
	}
	return p
}

func (r *payrollRepository) Create(_ context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.payrolls {
		if p.EmployeeID == record.EmployeeID && p.Month == record.Month && p.Year == record.Year {
			return payroll.PayrollRecord{}, payroll.ErrPayrollExists
		}
	}
	now := time.Now()
	record.ID = r.s.newID()
	record.CreatedAt = now
	record.UpdatedAt = now
	r.s.payrolls[record.ID] = record
	return record, nil
}

func (r *payrollRepository) GetByID(_ context.Context, id string) (payroll.PayrollRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.payrolls[id]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollNotFound
	}
	return r.withJoins(p), nil
}

func (r *payrollRepository) List(_ context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var items []payroll.PayrollRecord
	for _, p := range r.s.payrolls {
		if filter.EmployeeID != nil && p.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Month != nil && p.Month != *filter.Month {
			continue
		}
		if filter.Year != nil && p.Year != *filter.Year {
			continue
		}
		items = append(items, r.withJoins(p))
	}
	sortByKey(items, func(x, y payroll.PayrollRecord) bool {
		if x.Year != y.Year {
			return x.Year > y.Year
		}
		if x.Month != y.Month {
			return x.Month > y.Month
		}
		return r.s.seq[x.ID] > r.s.seq[y.ID]
	})
	return page(items, filter.Page, filter.Limit), int64(len(items)), nil
}

func (r *payrollRepository) ListByPeriod(_ context.Context, month, year int) ([]payroll.PayrollRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var items []payroll.PayrollRecord
	for _, p := range r.s.payrolls {
		if p.Month == month && p.Year == year {
			items = append(items, r.withJoins(p))
		}
	}
	sortByKey(items, func(x, y payroll.PayrollRecord) bool {
		var xn, yn string
		if x.EmployeeName != nil {
			xn = *x.EmployeeName
		}
		if y.EmployeeName != nil {
			yn = *y.EmployeeName
		}
		return xn < yn
	})
	return items, nil
}

func (r *payrollRepository) UpdateStatus(_ context.Context, id string, status payroll.PayrollStatus, paidAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.payrolls[id]
	if !ok {
		return payroll.ErrPayrollNotFound
	}
	p.Status = status
	p.PaidAt = paidAt
	p.UpdatedAt = time.Now()
	r.s.payrolls[id] = p
	return nil
}
