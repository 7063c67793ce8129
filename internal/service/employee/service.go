package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/database"
)

type EmployeeServiceImpl struct {
	tx           database.Transactor
	employeeRepo employee.EmployeeRepository
	userRepo     user.UserRepository
}

func NewEmployeeService(tx database.Transactor, employeeRepo employee.EmployeeRepository, userRepo user.UserRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:           tx,
		employeeRepo: employeeRepo,
		userRepo:     userRepo,
	}
}

// GetProfile implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetProfile(ctx context.Context, userID string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return toResponse(emp), nil
}

// UpdateProfile implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateProfile(ctx context.Context, userID string, req employee.UpdateProfileRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if req.IsEmpty() {
		return s.GetProfile(ctx, userID)
	}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		err := s.employeeRepo.UpdateProfile(txCtx, userID, req)
		if !errors.Is(err, employee.ErrEmployeeNotFound) {
			return err
		}

		// Accounts created without a profile get one on first edit.
		if _, err := s.userRepo.GetByID(txCtx, userID); err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return employee.ErrEmployeeNotFound
			}
			return fmt.Errorf("failed to get user: %w", err)
		}
		if err := s.employeeRepo.CreateProfile(txCtx, employee.Employee{UserID: userID}); err != nil && !errors.Is(err, employee.ErrProfileExists) {
			return fmt.Errorf("failed to create employee profile: %w", err)
		}
		return s.employeeRepo.UpdateProfile(txCtx, userID, req)
	})
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee profile: %w", err)
	}

	slog.Info("employee profile updated", "user_id", userID)
	return s.GetProfile(ctx, userID)
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, toResponse(emp))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 || (filter.Page-1)*filter.Limit >= int(total) {
		showing = fmt.Sprintf("0 of %d", total)
	}

	return employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Employees:  responses,
	}, nil
}

// UpdateStatus implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateStatus(ctx context.Context, actorID string, id string, req employee.UpdateStatusRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if actorID == id {
		return employee.EmployeeResponse{}, user.ErrCannotChangeOwnState
	}

	if err := s.userRepo.UpdateStatus(ctx, id, user.Status(req.Status)); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update account status: %w", err)
	}

	slog.Info("account status changed", "user_id", id, "status", req.Status, "actor_id", actorID)
	return s.GetProfile(ctx, id)
}

func toResponse(emp employee.Employee) employee.EmployeeResponse {
	resp := employee.EmployeeResponse{
		ID:               emp.UserID,
		EmployeeCode:     emp.EmployeeCode,
		Email:            emp.Email,
		Role:             string(emp.Role),
		Status:           string(emp.Status),
		FirstName:        emp.FirstName,
		LastName:         emp.LastName,
		FullName:         emp.FullName(),
		Phone:            emp.Phone,
		Address:          emp.Address,
		Department:       emp.Department,
		Position:         emp.Position,
		EmergencyContact: emp.EmergencyContact,
	}
	if emp.DateOfJoining != nil {
		v := emp.DateOfJoining.Format("2006-01-02")
		resp.DateOfJoining = &v
	}
	if emp.DateOfBirth != nil {
		v := emp.DateOfBirth.Format("2006-01-02")
		resp.DateOfBirth = &v
	}
	if emp.Gender != nil {
		v := string(*emp.Gender)
		resp.Gender = &v
	}
	if emp.MaritalStatus != nil {
		v := string(*emp.MaritalStatus)
		resp.MaritalStatus = &v
	}
	if emp.EmploymentType != nil {
		v := string(*emp.EmploymentType)
		resp.EmploymentType = &v
	}
	if emp.Salary != nil {
		v := emp.Salary.InexactFloat64()
		resp.Salary = &v
	}
	return resp
}
