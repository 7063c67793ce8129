package http

import (
	"net/http"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/auth"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/dashboard"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/handler/http/response"
)

type DashboardHandler interface {
	// GetStats returns company counts for admin/hr, personal stats otherwise
	GetStats(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetStats handles GET /dashboard/stats
func (h *dashboardHandlerImpl) GetStats(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var stats dashboard.StatsResponse
	if identity.Can(user.PermissionDashboardAdmin) {
		stats.Admin, err = h.dashboardService.GetAdminStats(r.Context())
	} else {
		stats.Employee, err = h.dashboardService.GetEmployeeStats(r.Context(), identity.UserID)
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}
