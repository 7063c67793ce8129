package memory

import (
	"context"
	"strings"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
)

type employeeRepository struct {
	s *Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func (r *employeeRepository) CreateProfile(_ context.Context, p employee.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[p.UserID]; !ok {
		return employee.ErrEmployeeNotFound
	}
	if _, ok := r.s.profiles[p.UserID]; ok {
		return employee.ErrProfileExists
	}
	p.UpdatedAt = time.Now()
	r.s.profiles[p.UserID] = p
	return nil
}

// join must be called with mu held.
func (r *employeeRepository) join(u user.User) employee.Employee {
	e := r.s.profiles[u.ID]
	e.UserID = u.ID
	e.EmployeeCode = u.EmployeeCode
	e.Email = u.Email
	e.Role = u.Role
	e.Status = u.Status
	e.CreatedAt = u.CreatedAt
	if e.UpdatedAt.Before(u.UpdatedAt) {
		e.UpdatedAt = u.UpdatedAt
	}
	return e
}

func (r *employeeRepository) GetByUserID(_ context.Context, userID string) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.join(u), nil
}

func (r *employeeRepository) UpdateProfile(_ context.Context, userID string, req employee.UpdateProfileRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.profiles[userID]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	if req.FirstName != nil {
		p.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		p.LastName = *req.LastName
	}
	if req.Phone != nil {
		p.Phone = req.Phone
	}
	if req.Address != nil {
		p.Address = req.Address
	}
	if req.DateOfBirthValue != nil {
		p.DateOfBirth = req.DateOfBirthValue
	}
	if req.Gender != nil {
		g := employee.Gender(*req.Gender)
		p.Gender = &g
	}
	if req.MaritalStatus != nil {
		m := employee.MaritalStatus(*req.MaritalStatus)
		p.MaritalStatus = &m
	}
	if req.EmergencyContact != nil {
		p.EmergencyContact = req.EmergencyContact
	}
	p.UpdatedAt = time.Now()
	r.s.profiles[userID] = p
	return nil
}

func (r *employeeRepository) List(_ context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var items []employee.Employee
	for _, u := range r.s.users {
		if u.Role == user.RoleAdmin {
			continue
		}
		e := r.join(u)
		if filter.Search != nil && *filter.Search != "" {
			needle := strings.ToLower(*filter.Search)
			haystack := strings.ToLower(strings.Join([]string{e.FirstName, e.LastName, e.Email, e.EmployeeCode}, " "))
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		if filter.Department != nil && (e.Department == nil || *e.Department != *filter.Department) {
			continue
		}
		if filter.Status != nil && string(e.Status) != *filter.Status {
			continue
		}
		items = append(items, e)
	}
	sortByKey(items, func(x, y employee.Employee) bool {
		if x.FirstName != y.FirstName {
			return x.FirstName < y.FirstName
		}
		return x.EmployeeCode < y.EmployeeCode
	})
	return page(items, filter.Page, filter.Limit), int64(len(items)), nil
}
