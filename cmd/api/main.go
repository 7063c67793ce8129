package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/dayflow-hr/dayflow-backend/internal/config"
	appHTTP "github.com/dayflow-hr/dayflow-backend/internal/handler/http"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/clock"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/cron"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/database"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/jwt"
	"github.com/dayflow-hr/dayflow-backend/internal/repository/postgresql"
	attendanceService "github.com/dayflow-hr/dayflow-backend/internal/service/attendance"
	serviceAuth "github.com/dayflow-hr/dayflow-backend/internal/service/auth"
	dashboardService "github.com/dayflow-hr/dayflow-backend/internal/service/dashboard"
	employeeService "github.com/dayflow-hr/dayflow-backend/internal/service/employee"
	leaveService "github.com/dayflow-hr/dayflow-backend/internal/service/leave"
	payrollService "github.com/dayflow-hr/dayflow-backend/internal/service/payroll"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clk := clock.New(loc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.ApplySchema(ctx); err != nil {
		return err
	}

	// Revoked tokens live in Redis when configured, otherwise in the database
	var revocations jwt.RevocationStore
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		revocations = jwt.NewRedisRevocationStore(redisClient, clk)
		slog.Info("using redis for token revocation", "addr", cfg.Redis.Addr)
	} else {
		revocations = postgresql.NewRevokedTokenRepository(db)
	}

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, revocations, cfg.App.Env == "production")
	if err != nil {
		return fmt.Errorf("failed to create jwt service: %w", err)
	}

	txManager := postgresql.NewTxManager(db)
	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)

	authService := serviceAuth.NewAuthService(txManager, userRepo, employeeRepo, JWTService)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, clk)
	leaveSvc := leaveService.NewLeaveService(txManager, leaveRequestRepo, clk)
	employeeSvc := employeeService.NewEmployeeService(txManager, employeeRepo, userRepo)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, userRepo, clk)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, clk)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AllowedOrigins: cfg.App.CORSOrigins,
			Env:            cfg.App.Env,
			LogLevel:       logLevel,
			LoginRate:      rate.Limit(cfg.RateLimit.LoginPerSecond),
			LoginBurst:     cfg.RateLimit.LoginBurst,
		},
		JWTService,
		userRepo,
		appHTTP.NewAuthHandler(JWTService, authService),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewLeaveHandler(leaveSvc),
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewPayrollHandler(payrollSvc),
		appHTTP.NewDashboardHandler(dashboardSvc),
	)

	if cfg.Cron.Enabled {
		scheduler := cron.NewScheduler()
		cron.NewAttendanceJobs(attendanceRepo, clk).RegisterJobs(scheduler, cfg.Cron.Interval)
		scheduler.Start(ctx)
		defer scheduler.Stop()
		slog.Info("scheduled jobs started", "interval", cfg.Cron.Interval.String())
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
