package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/clock"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/database"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	tx    database.Transactor
	clock clock.Clock
}

func NewLeaveService(tx database.Transactor, leaveRequestRepo leave.LeaveRequestRepository, clk clock.Clock) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveRequestRepository: leaveRequestRepo,
		tx:                     tx,
		clock:                  clk,
	}
}

// CreateRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateRequest(ctx context.Context, employeeID string, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	startDate, endDate := req.Dates()
	if endDate.Before(startDate) {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidDateRange
	}

	var created leave.LeaveRequest
	err := l.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := l.LeaveRequestRepository.LockEmployee(txCtx, employeeID); err != nil {
			return fmt.Errorf("failed to lock employee leave requests: %w", err)
		}

		overlap, err := l.LeaveRequestRepository.HasPendingOverlap(txCtx, employeeID, startDate, endDate)
		if err != nil {
			return fmt.Errorf("failed to check overlapping leave requests: %w", err)
		}
		if overlap {
			return leave.ErrOverlappingRequest
		}

		created, err = l.LeaveRequestRepository.Create(txCtx, leave.LeaveRequest{
			EmployeeID: employeeID,
			Type:       leave.LeaveType(req.Type),
			StartDate:  startDate,
			EndDate:    endDate,
			Reason:     req.Reason,
			Status:     leave.LeaveRequestStatusPending,
		})
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("leave request created", "id", created.ID, "employee_id", employeeID, "type", req.Type)

	// Re-read to pick up the employee name join.
	request, err := l.LeaveRequestRepository.GetByID(ctx, created.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return toResponse(request), nil
}

// ListRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListRequests(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	requests, total, err := l.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, toResponse(request))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 || (filter.Page-1)*filter.Limit >= int(total) {
		showing = fmt.Sprintf("0 of %d", total)
	}

	return leave.ListLeaveRequestResponse{
		TotalCount:    total,
		Page:          filter.Page,
		Limit:         filter.Limit,
		TotalPages:    totalPages,
		Showing:       showing,
		LeaveRequests: responses,
	}, nil
}

// GetRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) GetRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	request, err := l.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequestResponse{}, err
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return toResponse(request), nil
}

// Decide implements leave.LeaveService.
func (l *LeaveServiceImpl) Decide(ctx context.Context, id string, reviewerID string, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := l.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequestResponse{}, err
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	// Nobody reviews their own request
	if request.EmployeeID == reviewerID {
		return leave.LeaveRequestResponse{}, user.ErrForbidden
	}

	next := leave.LeaveRequestStatus(req.Status)
	if !request.Status.CanTransitionTo(next) {
		return leave.LeaveRequestResponse{}, leave.ErrAlreadyProcessed
	}

	// A concurrent reviewer may have decided in between; the write only
	// matches a row that is still pending.
	decided, err := l.LeaveRequestRepository.Decide(ctx, id, next, req.AdminComment, reviewerID, l.clock.Now())
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to update leave request: %w", err)
	}
	if !decided {
		return leave.LeaveRequestResponse{}, leave.ErrAlreadyProcessed
	}

	slog.Info("leave request decided", "id", id, "status", next, "reviewer_id", reviewerID)

	request, err = l.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return toResponse(request), nil
}

func toResponse(request leave.LeaveRequest) leave.LeaveRequestResponse {
	resp := leave.LeaveRequestResponse{
		ID:           request.ID,
		EmployeeID:   request.EmployeeID,
		EmployeeName: "Unknown",
		Type:         string(request.Type),
		StartDate:    request.StartDate.Format("2006-01-02"),
		EndDate:      request.EndDate.Format("2006-01-02"),
		TotalDays:    request.TotalDays(),
		Reason:       request.Reason,
		Status:       string(request.Status),
		AdminComment: request.AdminComment,
		ReviewedBy:   request.ReviewedBy,
		CreatedAt:    request.CreatedAt.Format(time.RFC3339),
	}
	if request.EmployeeName != nil {
		resp.EmployeeName = employee.DisplayName(*request.EmployeeName, "")
	}
	if request.ReviewedAt != nil {
		reviewedAt := request.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &reviewedAt
	}
	return resp
}
