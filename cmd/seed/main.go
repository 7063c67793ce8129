package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dayflow-hr/dayflow-backend/internal/config"
	"github.com/dayflow-hr/dayflow-backend/internal/fixtures"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/clock"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/database"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/jwt"
	"github.com/dayflow-hr/dayflow-backend/internal/repository/postgresql"
	attendanceService "github.com/dayflow-hr/dayflow-backend/internal/service/attendance"
	serviceAuth "github.com/dayflow-hr/dayflow-backend/internal/service/auth"
	leaveService "github.com/dayflow-hr/dayflow-backend/internal/service/leave"
	payrollService "github.com/dayflow-hr/dayflow-backend/internal/service/payroll"
)

func main() {
	if err := run(); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.ApplySchema(ctx); err != nil {
		return err
	}

	// Tokens are never handed out while seeding
	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, nil, false)
	if err != nil {
		return err
	}

	today := clock.New(loc).Now()
	replay := fixtures.NewReplayClock(today)

	txManager := postgresql.NewTxManager(db)
	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	seeder := fixtures.NewSeeder(replay, fixtures.Services{
		Auth:           serviceAuth.NewAuthService(txManager, userRepo, postgresql.NewEmployeeRepository(db), JWTService),
		Attendance:     attendanceService.NewAttendanceService(attendanceRepo, replay),
		Leave:          leaveService.NewLeaveService(txManager, postgresql.NewLeaveRequestRepository(db), replay),
		Payroll:        payrollService.NewPayrollService(postgresql.NewPayrollRepository(db), userRepo, replay),
		AttendanceRepo: attendanceRepo,
	})

	if err := seeder.Seed(ctx, today); err != nil {
		if errors.Is(err, fixtures.ErrAlreadySeeded) {
			slog.Info("database already contains demo data, nothing to do")
			return nil
		}
		return err
	}

	slog.Info("demo accounts ready", "password", fixtures.DemoPassword, "admin", fixtures.DemoUsers()[0].Email)
	return nil
}
