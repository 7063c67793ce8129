package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/time/rate"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/handler/http/middleware"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/jwt"
)

type RouterOptions struct {
	AllowedOrigins []string
	Env            string
	LogLevel       slog.Level

	// Login throttling per client address
	LoginRate  rate.Limit
	LoginBurst int
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	users user.UserRepository,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	employeeHandler EmployeeHandler,
	payrollHandler PayrollHandler,
	dashboardHandler DashboardHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "dayflow"),
		slog.String("version", "v1.0.0"),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "Retry-After", "X-Request-ID"},
		MaxAge:           300,
	}))

	r.Use(middleware.RequestID)
	r.Use(chiMiddleware.RealIP)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimitByIP(opts.LoginRate, opts.LoginBurst)).Post("/login", authHandler.Login)
			r.Post("/signup", authHandler.Signup)
			r.Post("/refresh", authHandler.RefreshToken)

			// Logout works with an expired or missing access token
			r.With(jwtauth.Verifier(JWTService.JWTAuth())).Post("/logout", authHandler.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService, users))

			r.Get("/auth/me", authHandler.Me)
			r.With(middleware.RequireAdmin).Post("/auth/accounts", authHandler.CreateAccount)

			r.Route("/attendance", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAttendanceCreate)).Post("/check-in", attendanceHandler.CheckIn)
				r.With(middleware.RequirePermission(user.PermissionAttendanceCreate)).Post("/check-out", attendanceHandler.CheckOut)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceViewOwn))
					r.Get("/today", attendanceHandler.Today)
					r.Get("/history", attendanceHandler.History)
					r.Get("/weekly", attendanceHandler.Weekly)
				})

				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/", attendanceHandler.List)
			})

			r.Route("/leave", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionLeaveCreate)).Post("/", leaveHandler.CreateRequest)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveViewOwn))
					r.Get("/", leaveHandler.ListRequests)
					r.Get("/{id}", leaveHandler.GetRequest)
				})

				r.With(middleware.RequirePermission(user.PermissionLeaveApprove)).Patch("/{id}/status", leaveHandler.DecideRequest)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionPayrollViewAll)).Get("/export", payrollHandler.Export)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollViewOwn))
					r.Get("/", payrollHandler.List)
					r.Get("/{id}", payrollHandler.Get)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollManage))
					r.Post("/", payrollHandler.Create)
					r.Patch("/{id}/status", payrollHandler.UpdateStatus)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionViewOwnProfile)).Get("/profile", employeeHandler.GetProfile)
				r.With(middleware.RequirePermission(user.PermissionEditOwnProfile)).Put("/profile", employeeHandler.UpdateProfile)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeViewAll))
					r.Get("/", employeeHandler.ListEmployees)
					r.Get("/{id}", employeeHandler.GetEmployee)
				})

				r.With(middleware.RequirePermission(user.PermissionEmployeeManageStatus)).Patch("/{id}/status", employeeHandler.UpdateStatus)
			})

			r.Get("/dashboard/stats", dashboardHandler.GetStats)
		})
	})
	return r
}
