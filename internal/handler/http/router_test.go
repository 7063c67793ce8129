package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/auth"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/clock"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/jwt"
	"github.com/dayflow-hr/dayflow-backend/internal/repository/memory"
	attendanceService "github.com/dayflow-hr/dayflow-backend/internal/service/attendance"
	authService "github.com/dayflow-hr/dayflow-backend/internal/service/auth"
	dashboardService "github.com/dayflow-hr/dayflow-backend/internal/service/dashboard"
	employeeService "github.com/dayflow-hr/dayflow-backend/internal/service/employee"
	leaveService "github.com/dayflow-hr/dayflow-backend/internal/service/leave"
	payrollService "github.com/dayflow-hr/dayflow-backend/internal/service/payroll"
)

const (
	handlerTestAccessExp  = "1h"
	handlerTestRefreshExp = "24h"
	handlerTestSecret     = "test-secret-key-for-jwt"
	handlerTestPassword   = "password123"
)

// Wednesday 09:00 UTC
var handlerTestNow = time.Date(2026, time.April, 15, 9, 0, 0, 0, time.UTC)

type apiFixture struct {
	router *chi.Mux
	auth   auth.AuthService
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func newAPIFixture(t *testing.T, loginRate rate.Limit, loginBurst int) apiFixture {
	t.Helper()

	store := memory.NewStore()
	clk := clock.Func(func() time.Time { return handlerTestNow })

	jwtSvc, err := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp, nil, false)
	require.NoError(t, err)

	users := memory.NewUserRepository(store)
	employees := memory.NewEmployeeRepository(store)

	authSvc := authService.NewAuthService(store, users, employees, jwtSvc)
	router := NewRouter(
		RouterOptions{
			AllowedOrigins: []string{"http://localhost:5173"},
			Env:            "test",
			LogLevel:       slog.LevelError,
			LoginRate:      loginRate,
			LoginBurst:     loginBurst,
		},
		jwtSvc,
		users,
		NewAuthHandler(jwtSvc, authSvc),
		NewAttendanceHandler(attendanceService.NewAttendanceService(memory.NewAttendanceRepository(store), clk)),
		NewLeaveHandler(leaveService.NewLeaveService(store, memory.NewLeaveRequestRepository(store), clk)),
		NewEmployeeHandler(employeeService.NewEmployeeService(store, employees, users)),
		NewPayrollHandler(payrollService.NewPayrollService(memory.NewPayrollRepository(store), users, clk)),
		NewDashboardHandler(dashboardService.NewDashboardService(memory.NewDashboardRepository(store), clk)),
	)

	return apiFixture{router: router, auth: authSvc}
}

// createAccount registers a user directly and returns an access token.
func (f apiFixture) createAccount(t *testing.T, code, email string, role user.Role) (string, string) {
	t.Helper()
	created, err := f.auth.CreateAccount(context.Background(), auth.SignupRequest{
		EmployeeCode: code,
		Email:        email,
		Password:     handlerTestPassword,
		FirstName:    "Test",
		LastName:     code,
		Department:   "Engineering",
		Role:         role,
	})
	require.NoError(t, err)

	tokens, err := f.auth.Login(context.Background(), auth.LoginRequest{Identifier: email, Password: handlerTestPassword})
	require.NoError(t, err)
	return created.ID, tokens.AccessToken
}

func (f apiFixture) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestRouter_SignupLoginMe(t *testing.T) {
	f := newAPIFixture(t, rate.Inf, 1)

	// Signup
	rec, env := f.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"employee_code": "EMP001",
		"email":         "ada@example.com",
		"password":      handlerTestPassword,
		"first_name":    "Ada",
		"last_name":     "Lovelace",
		"role":          "admin",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var signup auth.TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &signup))
	assert.Equal(t, "employee", signup.User.Role, "self signup can never pick its role")

	var refreshCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "refresh_token" {
			refreshCookie = c
		}
	}
	require.NotNil(t, refreshCookie)
	assert.True(t, refreshCookie.HttpOnly)

	// Login with the employee code
	rec, env = f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"identifier": "EMP001",
		"password":   handlerTestPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login auth.TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &login))

	// Me
	rec, env = f.do(t, http.MethodGet, "/api/v1/auth/me", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me auth.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "ada@example.com", me.Email)
	assert.Equal(t, "Ada", me.FirstName)
}

func TestRouter_RequiresAuthentication(t *testing.T) {
	f := newAPIFixture(t, rate.Inf, 1)

	paths := []string{
		"/api/v1/auth/me",
		"/api/v1/attendance/today",
		"/api/v1/leave",
		"/api/v1/payroll",
		"/api/v1/employees/profile",
		"/api/v1/dashboard/stats",
	}
	for _, path := range paths {
		rec, env := f.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		require.NotNil(t, env.Error, path)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	}

	rec, _ := f.do(t, http.MethodGet, "/api/v1/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RolePermissions(t *testing.T) {
	f := newAPIFixture(t, rate.Inf, 1)
	_, adminToken := f.createAccount(t, "ADM001", "admin@example.com", user.RoleAdmin)
	_, hrToken := f.createAccount(t, "HR001", "hr@example.com", user.RoleHR)
	employeeID, employeeToken := f.createAccount(t, "EMP001", "emp@example.com", user.RoleEmployee)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		want   int
	}{
		{"employee lists employees", http.MethodGet, "/api/v1/employees", employeeToken, nil, http.StatusForbidden},
		{"hr lists employees", http.MethodGet, "/api/v1/employees", hrToken, nil, http.StatusOK},
		{"employee lists attendance", http.MethodGet, "/api/v1/attendance", employeeToken, nil, http.StatusForbidden},
		{"hr lists attendance", http.MethodGet, "/api/v1/attendance", hrToken, nil, http.StatusOK},
		{"employee exports payroll", http.MethodGet, "/api/v1/payroll/export?month=4&year=2026", employeeToken, nil, http.StatusForbidden},
		{"hr creates payroll", http.MethodPost, "/api/v1/payroll", hrToken, map[string]interface{}{}, http.StatusForbidden},
		{"hr changes status", http.MethodPatch, "/api/v1/employees/" + employeeID + "/status", hrToken, map[string]string{"status": "inactive"}, http.StatusForbidden},
		{"hr creates account", http.MethodPost, "/api/v1/auth/accounts", hrToken, map[string]string{}, http.StatusForbidden},
		{"hr decides leave", http.MethodPatch, "/api/v1/leave/" + employeeID + "/status", hrToken, map[string]string{"status": "approved"}, http.StatusForbidden},
		{"admin gets employee", http.MethodGet, "/api/v1/employees/" + employeeID, adminToken, nil, http.StatusOK},
		{"malformed id", http.MethodGet, "/api/v1/employees/not-a-uuid", adminToken, nil, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := f.do(t, tc.method, tc.path, tc.token, tc.body)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_AttendanceFlow(t *testing.T) {
	f := newAPIFixture(t, rate.Inf, 1)
	_, token := f.createAccount(t, "EMP001", "emp@example.com", user.RoleEmployee)

	// Nothing yet today
	rec, env := f.do(t, http.MethodGet, "/api/v1/attendance/today", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, []string{"", "null"}, string(env.Data))

	// Check in without a body
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/check-in", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	raw := httptest.NewRecorder()
	f.router.ServeHTTP(raw, req)
	require.Equal(t, http.StatusCreated, raw.Code, raw.Body.String())

	// Second check-in conflicts
	rec, env = f.do(t, http.MethodPost, "/api/v1/attendance/check-in", token, map[string]string{"location": "HQ"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	rec, env = f.do(t, http.MethodGet, "/api/v1/attendance/today", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var today struct {
		Status  string `json:"status"`
		CheckIn string `json:"check_in"`
		Day     string `json:"day"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &today))
	assert.Equal(t, "present", today.Status)
	assert.Equal(t, "09:00", today.CheckIn)
	assert.Equal(t, "Wednesday", today.Day)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/attendance/history?limit=500", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/attendance/weekly", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_LeaveOwnershipAndDecision(t *testing.T) {
	f := newAPIFixture(t, rate.Inf, 1)
	_, adminToken := f.createAccount(t, "ADM001", "admin@example.com", user.RoleAdmin)
	ownerID, ownerToken := f.createAccount(t, "EMP001", "owner@example.com", user.RoleEmployee)
	_, otherToken := f.createAccount(t, "EMP002", "other@example.com", user.RoleEmployee)

	rec, env := f.do(t, http.MethodPost, "/api/v1/leave", ownerToken, map[string]string{
		"type":       "paid",
		"start_date": "2026-05-04",
		"end_date":   "2026-05-06",
		"reason":     "Family trip",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID         string `json:"id"`
		EmployeeID string `json:"employee_id"`
		TotalDays  int    `json:"total_days"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, ownerID, created.EmployeeID)
	assert.Equal(t, 3, created.TotalDays)

	// Other employees can neither read nor list it
	rec, _ = f.do(t, http.MethodGet, "/api/v1/leave/"+created.ID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = f.do(t, http.MethodGet, "/api/v1/leave?employee_id="+ownerID, otherToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		TotalCount int64 `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, int64(0), list.TotalCount)

	// Employees cannot decide
	rec, _ = f.do(t, http.MethodPatch, "/api/v1/leave/"+created.ID+"/status", ownerToken, map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = f.do(t, http.MethodPatch, "/api/v1/leave/"+created.ID+"/status", adminToken, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Leave request approved", env.Message)

	rec, _ = f.do(t, http.MethodPatch, "/api/v1/leave/"+created.ID+"/status", adminToken, map[string]string{"status": "rejected"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/leave/"+created.ID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_LeaveReviewIsAdminOnly(t *testing.T) {
	f := newAPIFixture(t, rate.Inf, 1)
	_, adminToken := f.createAccount(t, "ADM001", "admin@example.com", user.RoleAdmin)
	_, hrToken := f.createAccount(t, "HR001", "hr@example.com", user.RoleHR)

	file := func(token, start string) string {
		t.Helper()
		rec, env := f.do(t, http.MethodPost, "/api/v1/leave", token, map[string]string{
			"type":       "paid",
			"start_date": start,
			"end_date":   start,
			"reason":     "Conference",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var created struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &created))
		return created.ID
	}

	// Test 1: HR files leave but cannot review it, its own or anyone's
	hrRequest := file(hrToken, "2026-05-04")
	rec, _ := f.do(t, http.MethodPatch, "/api/v1/leave/"+hrRequest+"/status", hrToken, map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Test 2: an admin cannot approve their own request
	adminRequest := file(adminToken, "2026-05-05")
	rec, _ = f.do(t, http.MethodPatch, "/api/v1/leave/"+adminRequest+"/status", adminToken, map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := f.do(t, http.MethodGet, "/api/v1/leave/"+adminRequest, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var still struct {
		Status     string  `json:"status"`
		ReviewedBy *string `json:"reviewed_by"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &still))
	assert.Equal(t, "pending", still.Status)
	assert.Nil(t, still.ReviewedBy)

	// Test 3: the admin reviews the HR request
	rec, _ = f.do(t, http.MethodPatch, "/api/v1/leave/"+hrRequest+"/status", adminToken, map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRouter_SuspendedAccountLosesAccess(t *testing.T) {
	f := newAPIFixture(t, rate.Inf, 1)
	_, adminToken := f.createAccount(t, "ADM001", "admin@example.com", user.RoleAdmin)
	employeeID, employeeToken := f.createAccount(t, "EMP001", "emp@example.com", user.RoleEmployee)

	rec, _ := f.do(t, http.MethodPatch, "/api/v1/employees/"+employeeID+"/status", adminToken, map[string]string{"status": "suspended"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The token issued before the suspension is refused everywhere
	rec, env := f.do(t, http.MethodPost, "/api/v1/attendance/check-in", employeeToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, env.Error)

	rec, _ = f.do(t, http.MethodPost, "/api/v1/leave", employeeToken, map[string]string{
		"type":       "sick",
		"start_date": "2026-05-04",
		"end_date":   "2026-05-04",
		"reason":     "Flu",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/attendance/today", employeeToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Reactivation restores the same token
	rec, _ = f.do(t, http.MethodPatch, "/api/v1/employees/"+employeeID+"/status", adminToken, map[string]string{"status": "active"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = f.do(t, http.MethodPost, "/api/v1/attendance/check-in", employeeToken, nil)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestRouter_PageOutOfRange(t *testing.T) {
	f := newAPIFixture(t, rate.Inf, 1)
	_, token := f.createAccount(t, "EMP001", "emp@example.com", user.RoleEmployee)

	for _, path := range []string{
		"/api/v1/attendance/history?page=9223372036854775807",
		"/api/v1/leave?page=9223372036854775807",
		"/api/v1/payroll?page=4611686018427387904",
	} {
		rec, env := f.do(t, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, path)
		require.NotNil(t, env.Error, path)
		assert.Contains(t, env.Error.Details, "page", path)
	}
}

func TestRouter_Logout(t *testing.T) {
	f := newAPIFixture(t, rate.Inf, 1)
	_, token := f.createAccount(t, "EMP001", "emp@example.com", user.RoleEmployee)

	rec, _ := f.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = f.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Logging out again is harmless
	rec, _ = f.do(t, http.MethodPost, "/api/v1/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_LoginRateLimit(t *testing.T) {
	f := newAPIFixture(t, rate.Every(time.Minute), 3)

	body := map[string]string{"identifier": "nobody@example.com", "password": "wrong-password"}
	for i := 0; i < 3; i++ {
		rec, _ := f.do(t, http.MethodPost, "/api/v1/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec, env := f.do(t, http.MethodPost, "/api/v1/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "TOO_MANY_REQUESTS", env.Error.Code)
}

func TestRouter_PayrollExport(t *testing.T) {
	f := newAPIFixture(t, rate.Inf, 1)
	_, adminToken := f.createAccount(t, "ADM001", "admin@example.com", user.RoleAdmin)
	employeeID, employeeToken := f.createAccount(t, "EMP001", "emp@example.com", user.RoleEmployee)

	rec, env := f.do(t, http.MethodPost, "/api/v1/payroll", adminToken, map[string]interface{}{
		"employee_id":  employeeID,
		"month":        4,
		"year":         2026,
		"basic_salary": "50000",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var record struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &record))

	// The owner can read the record
	rec, _ = f.do(t, http.MethodGet, "/api/v1/payroll/"+record.ID, employeeToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/payroll/export?month=4&year=2026", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="payroll-2026-04.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.NotZero(t, rec.Body.Len())

	rec, _ = f.do(t, http.MethodGet, "/api/v1/payroll/export?month=13&year=2026", adminToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_DashboardStatsByRole(t *testing.T) {
	f := newAPIFixture(t, rate.Inf, 1)
	_, adminToken := f.createAccount(t, "ADM001", "admin@example.com", user.RoleAdmin)
	_, employeeToken := f.createAccount(t, "EMP001", "emp@example.com", user.RoleEmployee)

	rec, env := f.do(t, http.MethodGet, "/api/v1/dashboard/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var adminStats map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &adminStats))
	assert.Contains(t, adminStats, "admin")
	assert.NotContains(t, adminStats, "employee")

	rec, env = f.do(t, http.MethodGet, "/api/v1/dashboard/stats", employeeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var employeeStats map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &employeeStats))
	assert.Contains(t, employeeStats, "employee")
	assert.NotContains(t, employeeStats, "admin")
}

func TestRouter_RequestID(t *testing.T) {
	f := newAPIFixture(t, rate.Inf, 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}
