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

	"github.com/go-chi/httplog/v3"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/config"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/store"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
	appHTTP "github.com/cmlabs-hris/attendance-payroll-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/jwt"
	cachedRepo "github.com/cmlabs-hris/attendance-payroll-go/internal/repository/cache"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/repository/memory"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-payroll-go/internal/service/attendance"
	leaveService "github.com/cmlabs-hris/attendance-payroll-go/internal/service/leave"
	payrollService "github.com/cmlabs-hris/attendance-payroll-go/internal/service/payroll"
	storeService "github.com/cmlabs-hris/attendance-payroll-go/internal/service/store"
)

type repositories struct {
	staff      user.StaffRepository
	store      store.StoreRepository
	attendance attendance.AttendanceRepository
	leave      leave.LeaveRequestRepository
	advance    payroll.AdvanceRepository
	salary     payroll.SalaryRepository
	close      func()
}

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-payroll"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewClient(ctx, cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer redisClient.Close()
		repos.store = cachedRepo.NewStoreRepository(repos.store, redisClient, cfg.Redis.StoreTTL)
		slog.Info("Store cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.StoreTTL)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	attendanceSvc := attendanceService.NewAttendanceService(repos.staff, repos.store, repos.attendance, repos.leave, cfg.Policy, time.Now)
	leaveSvc := leaveService.NewLeaveService(repos.leave, repos.store, cfg.Policy, time.Now)
	payrollSvc := payrollService.NewPayrollService(repos.staff, repos.store, repos.attendance, repos.leave, repos.advance, repos.salary, cfg.Policy, time.Now)
	storeSvc := storeService.NewStoreService(repos.store, cfg.Policy)

	router := appHTTP.NewRouter(logger, cfg.App.AllowedOrigins, JWTService, appHTTP.Handlers{
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
		Store:      appHTTP.NewStoreHandler(storeSvc),
	})

	if cfg.Cron.Enabled {
		scheduler := cron.NewScheduler()
		cron.NewAttendanceJobs(attendanceSvc, time.Now).RegisterJobs(scheduler, cfg.Cron.Interval)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.Storage.Driver)
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

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		dsn := cfg.DatabaseURL()
		if err := database.RunMigrations(dsn); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}

		db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolConfig{
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}

		return &repositories{
			staff:      postgresql.NewStaffRepository(db),
			store:      postgresql.NewStoreRepository(db),
			attendance: postgresql.NewAttendanceRepository(db),
			leave:      postgresql.NewLeaveRequestRepository(db),
			advance:    postgresql.NewAdvanceRepository(db),
			salary:     postgresql.NewSalaryRepository(db),
			close:      db.Close,
		}, nil

	case config.StorageDriverMemory:
		db := memory.NewDB()
		if cfg.Storage.SeedFile != "" {
			f, err := os.Open(cfg.Storage.SeedFile)
			if err != nil {
				return nil, fmt.Errorf("open seed file: %w", err)
			}
			defer f.Close()
			if err := db.LoadSeed(f); err != nil {
				return nil, err
			}
			slog.Info("Loaded seed data", "file", cfg.Storage.SeedFile)
		}

		return &repositories{
			staff:      memory.NewStaffRepository(db),
			store:      memory.NewStoreRepository(db),
			attendance: memory.NewAttendanceRepository(db),
			leave:      memory.NewLeaveRequestRepository(db),
			advance:    memory.NewAdvanceRepository(db),
			salary:     memory.NewSalaryRepository(db),
			close:      func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
