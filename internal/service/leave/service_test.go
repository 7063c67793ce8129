package leave

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/clock"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
	"github.com/dayflow-hr/dayflow-backend/internal/repository/memory"
)

var fixedNow = time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)

type leaveFixture struct {
	svc   leave.LeaveService
	store *memory.Store
	now   *time.Time
}

func newLeaveFixture(t *testing.T) leaveFixture {
	t.Helper()
	store := memory.NewStore()
	now := fixedNow
	svc := NewLeaveService(store, memory.NewLeaveRequestRepository(store), clock.Func(func() time.Time { return now }))
	return leaveFixture{svc: svc, store: store, now: &now}
}

// createEmployee registers a user with an optional profile name
func (f leaveFixture) createEmployee(t *testing.T, firstName, lastName string) string {
	t.Helper()
	ctx := context.Background()
	u, err := memory.NewUserRepository(f.store).Create(ctx, user.User{
		EmployeeCode: "EMP" + uuid.NewString()[:6],
		Email:        uuid.NewString() + "@dayflow.test",
		Role:         user.RoleEmployee,
	})
	require.NoError(t, err)

	if firstName != "" || lastName != "" {
		err = memory.NewEmployeeRepository(f.store).CreateProfile(ctx, employee.Employee{
			UserID:    u.ID,
			FirstName: firstName,
			LastName:  lastName,
		})
		require.NoError(t, err)
	}
	return u.ID
}

func request(leaveType, start, end string) leave.CreateLeaveRequest {
	return leave.CreateLeaveRequest{Type: leaveType, StartDate: start, EndDate: end, Reason: "family matters"}
}

func TestLeaveService_CreateRequest_Success(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	employeeID := f.createEmployee(t, "Ada", "Lovelace")

	// Act
	resp, err := f.svc.CreateRequest(ctx, employeeID, request("paid", "2026-01-10", "2026-01-12"))

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "Ada Lovelace", resp.EmployeeName)
	assert.Equal(t, 3, resp.TotalDays)
	assert.Nil(t, resp.ReviewedBy)
	assert.Nil(t, resp.ReviewedAt)
	assert.Nil(t, resp.AdminComment)
}

func TestLeaveService_CreateRequest_UnknownName(t *testing.T) {
	f := newLeaveFixture(t)
	employeeID := f.createEmployee(t, "", "")

	resp, err := f.svc.CreateRequest(context.Background(), employeeID, request("sick", "2026-01-10", "2026-01-10"))
	require.NoError(t, err)
	assert.Equal(t, "Unknown", resp.EmployeeName)
	assert.Equal(t, 1, resp.TotalDays)
}

func TestLeaveService_CreateRequest_InvalidInput(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	employeeID := f.createEmployee(t, "Ada", "Lovelace")

	_, err := f.svc.CreateRequest(ctx, employeeID, request("paid", "2026-01-12", "2026-01-10"))
	assert.ErrorIs(t, err, leave.ErrInvalidDateRange)

	_, err = f.svc.CreateRequest(ctx, employeeID, request("vacation", "2026-01-10", "01/12/2026"))
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "type")
	assert.Contains(t, verrs.ToMap(), "end_date")

	blank := request("paid", "2026-01-10", "2026-01-10")
	blank.Reason = "   "
	_, err = f.svc.CreateRequest(ctx, employeeID, blank)
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "reason")
}

// Test the overlap rule: only pending requests block a new range
func TestLeaveService_CreateRequest_OverlapScenario(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	employeeID := f.createEmployee(t, "Ada", "Lovelace")
	reviewerID := f.createEmployee(t, "Grace", "Hopper")

	first, err := f.svc.CreateRequest(ctx, employeeID, request("paid", "2026-01-10", "2026-01-12"))
	require.NoError(t, err)

	_, err = f.svc.CreateRequest(ctx, employeeID, request("sick", "2026-01-11", "2026-01-13"))
	assert.ErrorIs(t, err, leave.ErrOverlappingRequest)

	// touching bounds overlap
	_, err = f.svc.CreateRequest(ctx, employeeID, request("unpaid", "2026-01-12", "2026-01-12"))
	assert.ErrorIs(t, err, leave.ErrOverlappingRequest)

	_, err = f.svc.CreateRequest(ctx, employeeID, request("unpaid", "2026-01-20", "2026-01-21"))
	assert.NoError(t, err)

	// another employee is unaffected
	other := f.createEmployee(t, "Alan", "Turing")
	_, err = f.svc.CreateRequest(ctx, other, request("paid", "2026-01-10", "2026-01-12"))
	assert.NoError(t, err)

	_, err = f.svc.Decide(ctx, first.ID, reviewerID, leave.DecideLeaveRequest{Status: "rejected"})
	require.NoError(t, err)

	_, err = f.svc.CreateRequest(ctx, employeeID, request("sick", "2026-01-11", "2026-01-13"))
	assert.NoError(t, err)
}

func TestLeaveService_CreateRequest_ConcurrentOverlap(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	employeeID := f.createEmployee(t, "Ada", "Lovelace")

	const workers = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateRequest(ctx, employeeID, request("paid", "2026-02-02", "2026-02-06"))
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, leave.ErrOverlappingRequest)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
}

func TestLeaveService_Decide(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	employeeID := f.createEmployee(t, "Ada", "Lovelace")
	reviewerID := f.createEmployee(t, "Grace", "Hopper")

	created, err := f.svc.CreateRequest(ctx, employeeID, request("paid", "2026-01-10", "2026-01-12"))
	require.NoError(t, err)

	comment := "  enjoy  "
	decided, err := f.svc.Decide(ctx, created.ID, reviewerID, leave.DecideLeaveRequest{Status: "approved", AdminComment: &comment})
	require.NoError(t, err)

	assert.Equal(t, "approved", decided.Status)
	require.NotNil(t, decided.AdminComment)
	assert.Equal(t, "enjoy", *decided.AdminComment)
	require.NotNil(t, decided.ReviewedBy)
	assert.Equal(t, reviewerID, *decided.ReviewedBy)
	require.NotNil(t, decided.ReviewedAt)
	assert.Equal(t, fixedNow.Format(time.RFC3339), *decided.ReviewedAt)

	// terminal states never change, whoever asks and whenever
	*f.now = fixedNow.Add(2 * time.Hour)
	otherReviewerID := f.createEmployee(t, "Linus", "Torvalds")
	other := "changed my mind"
	_, err = f.svc.Decide(ctx, created.ID, otherReviewerID, leave.DecideLeaveRequest{Status: "rejected", AdminComment: &other})
	assert.ErrorIs(t, err, leave.ErrAlreadyProcessed)

	got, err := f.svc.GetRequest(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", got.Status)
	require.NotNil(t, got.AdminComment)
	assert.Equal(t, "enjoy", *got.AdminComment)
	require.NotNil(t, got.ReviewedBy)
	assert.Equal(t, reviewerID, *got.ReviewedBy)
	require.NotNil(t, got.ReviewedAt)
	assert.Equal(t, fixedNow.Format(time.RFC3339), *got.ReviewedAt)
}

func TestLeaveService_Decide_OwnRequest(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	employeeID := f.createEmployee(t, "Ada", "Lovelace")

	created, err := f.svc.CreateRequest(ctx, employeeID, request("sick", "2026-02-02", "2026-02-02"))
	require.NoError(t, err)

	// Act
	_, err = f.svc.Decide(ctx, created.ID, employeeID, leave.DecideLeaveRequest{Status: "approved"})

	// Assert
	assert.ErrorIs(t, err, user.ErrForbidden)

	got, err := f.svc.GetRequest(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", got.Status)
	assert.Nil(t, got.ReviewedBy)
}

func TestLeaveService_Decide_Errors(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	reviewerID := f.createEmployee(t, "Grace", "Hopper")

	_, err := f.svc.Decide(ctx, uuid.NewString(), reviewerID, leave.DecideLeaveRequest{Status: "approved"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	var verrs validator.ValidationErrors
	_, err = f.svc.Decide(ctx, uuid.NewString(), reviewerID, leave.DecideLeaveRequest{Status: "pending"})
	assert.ErrorAs(t, err, &verrs)
}

// Test that racing reviewers record exactly one decision
func TestLeaveService_Decide_Concurrent(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	employeeID := f.createEmployee(t, "Ada", "Lovelace")

	created, err := f.svc.CreateRequest(ctx, employeeID, request("paid", "2026-03-02", "2026-03-03"))
	require.NoError(t, err)

	reviewers := make([]string, 8)
	for i := range reviewers {
		reviewers[i] = f.createEmployee(t, "Reviewer", "")
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []string
	)
	for i, reviewerID := range reviewers {
		status := "approved"
		if i%2 == 1 {
			status = "rejected"
		}
		wg.Add(1)
		go func(reviewerID, status string) {
			defer wg.Done()
			_, err := f.svc.Decide(ctx, created.ID, reviewerID, leave.DecideLeaveRequest{Status: status})
			if err == nil {
				mu.Lock()
				winners = append(winners, reviewerID)
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, leave.ErrAlreadyProcessed)
		}(reviewerID, status)
	}
	wg.Wait()

	require.Len(t, winners, 1)
	got, err := f.svc.GetRequest(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, winners[0], *got.ReviewedBy)
}

func TestLeaveService_ListRequests(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	first := f.createEmployee(t, "Ada", "Lovelace")
	second := f.createEmployee(t, "Alan", "Turing")

	_, err := f.svc.CreateRequest(ctx, first, request("paid", "2026-01-10", "2026-01-12"))
	require.NoError(t, err)
	_, err = f.svc.CreateRequest(ctx, first, request("sick", "2026-02-10", "2026-02-10"))
	require.NoError(t, err)
	_, err = f.svc.CreateRequest(ctx, second, request("unpaid", "2026-01-10", "2026-01-12"))
	require.NoError(t, err)

	all, err := f.svc.ListRequests(ctx, leave.LeaveRequestFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.TotalCount)
	assert.Equal(t, 10, all.Limit)
	// newest first
	assert.Equal(t, "unpaid", all.LeaveRequests[0].Type)

	own, err := f.svc.ListRequests(ctx, leave.LeaveRequestFilter{EmployeeID: &first, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), own.TotalCount)
	assert.Equal(t, 2, own.TotalPages)
	assert.Equal(t, "1-1 of 2", own.Showing)
	require.Len(t, own.LeaveRequests, 1)
	assert.Equal(t, "sick", own.LeaveRequests[0].Type)
}
