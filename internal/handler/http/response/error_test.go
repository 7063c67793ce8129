package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/auth"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleError_StatusCodes(t *testing.T) {
	cases := []struct {
		err  error
		code int
		kind string
	}{
		{auth.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{auth.ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{auth.ErrRefreshTokenRevoked, http.StatusUnauthorized, "UNAUTHORIZED"},
		{auth.ErrAccountInactive, http.StatusForbidden, "FORBIDDEN"},
		{user.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{user.ErrEmailExists, http.StatusConflict, "CONFLICT"},
		{user.ErrEmployeeCodeExists, http.StatusConflict, "CONFLICT"},
		{user.ErrCannotChangeOwnState, http.StatusBadRequest, "BAD_REQUEST"},
		{attendance.ErrAlreadyCheckedIn, http.StatusConflict, "CONFLICT"},
		{attendance.ErrNotCheckedIn, http.StatusBadRequest, "BAD_REQUEST"},
		{attendance.ErrAlreadyCheckedOut, http.StatusConflict, "CONFLICT"},
		{leave.ErrInvalidDateRange, http.StatusBadRequest, "BAD_REQUEST"},
		{leave.ErrOverlappingRequest, http.StatusConflict, "CONFLICT"},
		{leave.ErrLeaveRequestNotFound, http.StatusNotFound, "NOT_FOUND"},
		{leave.ErrAlreadyProcessed, http.StatusConflict, "CONFLICT"},
		{employee.ErrEmployeeNotFound, http.StatusNotFound, "NOT_FOUND"},
		{payroll.ErrPayrollNotFound, http.StatusNotFound, "NOT_FOUND"},
		{payroll.ErrPayrollExists, http.StatusConflict, "CONFLICT"},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			// wrapped errors map the same way
			HandleError(rec, fmt.Errorf("context: %w", tc.err))

			assert.Equal(t, tc.code, rec.Code)
			resp := decode(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.kind, resp.Error.Code)
		})
	}
}

// Distinct sentinels sharing a status keep distinct messages
func TestHandleError_DistinctMessages(t *testing.T) {
	seen := make(map[string]error)
	for _, err := range []error{
		attendance.ErrAlreadyCheckedIn, attendance.ErrAlreadyCheckedOut,
		leave.ErrOverlappingRequest, leave.ErrAlreadyProcessed,
		user.ErrEmailExists, user.ErrEmployeeCodeExists, payroll.ErrPayrollExists,
	} {
		rec := httptest.NewRecorder()
		HandleError(rec, err)
		msg := decode(t, rec).Error.Message
		if prev, ok := seen[msg]; ok {
			t.Fatalf("%v and %v share message %q", prev, err, msg)
		}
		seen[msg] = err
	}
}

func TestHandleError_Validation(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{{Field: "email", Message: "email is required"}})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, map[string]string{"email": "email is required"}, resp.Error.Details)
}

func TestHandleError_UnknownHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, errors.New(`failed to query: ERROR: relation "users" does not exist`))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation")
}

func TestTooManyRequests(t *testing.T) {
	rec := httptest.NewRecorder()
	TooManyRequests(rec, 1500*time.Millisecond)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
}
