package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/auth"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/handler/http/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PayrollHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

// List implements PayrollHandler. Employees only see their own records.
func (h *payrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := payroll.PayrollFilter{
		EmployeeID: queryString(r, "employee_id"),
		Month:      queryIntPtr(r, "month"),
		Year:       queryIntPtr(r, "year"),
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	}
	if !identity.Can(user.PermissionPayrollViewAll) {
		filter.EmployeeID = &identity.UserID
	}

	result, err := h.payrollService.ListPayroll(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements PayrollHandler.
func (h *payrollHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id, ok := pathUUID(r)
	if !ok {
		response.HandleError(w, payroll.ErrPayrollNotFound)
		return
	}

	result, err := h.payrollService.GetPayroll(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result.EmployeeID != identity.UserID && !identity.Can(user.PermissionPayrollViewAll) {
		response.HandleError(w, user.ErrForbidden)
		return
	}

	response.Success(w, result)
}

// Create implements PayrollHandler.
func (h *payrollHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreatePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreatePayroll decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.CreatePayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll record created successfully", result)
}

// UpdateStatus implements PayrollHandler.
func (h *payrollHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r)
	if !ok {
		response.HandleError(w, payroll.ErrPayrollNotFound)
		return
	}

	var req payroll.UpdatePayrollStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdatePayrollStatus decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.UpdateStatus(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll status updated successfully", result)
}

// Export implements PayrollHandler. The workbook is built in memory first so
// a failure still produces a JSON error instead of a truncated file.
func (h *payrollHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	req := payroll.ExportPayrollRequest{
		Month: queryInt(r, "month"),
		Year:  queryInt(r, "year"),
	}

	var buf bytes.Buffer
	if err := h.payrollService.ExportPayroll(r.Context(), req, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, xlsxContentType, req.FileName())
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write payroll export", "error", err)
	}
}
