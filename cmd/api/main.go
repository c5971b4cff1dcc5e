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

	"github.com/cmlabs-hris/factory-erp-go/internal/config"
	"github.com/cmlabs-hris/factory-erp-go/internal/domain/analytics"
	appHTTP "github.com/cmlabs-hris/factory-erp-go/internal/handler/http"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/cache"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/database"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/lock"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/sse"
	"github.com/cmlabs-hris/factory-erp-go/internal/repository/postgresql"
	analyticsService "github.com/cmlabs-hris/factory-erp-go/internal/service/analytics"
	attendanceService "github.com/cmlabs-hris/factory-erp-go/internal/service/attendance"
	employeeService "github.com/cmlabs-hris/factory-erp-go/internal/service/employee"
	payrollService "github.com/cmlabs-hris/factory-erp-go/internal/service/payroll"
	"github.com/go-chi/httplog/v3"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "factory-erp"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		analyticsCache cache.Cache
		importLocker   lock.Locker
	)
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			slog.Error("Error connecting to redis", "addr", cfg.Redis.Addr, "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		analyticsCache = cache.NewRedisCache(rdb, "factory-erp:")
		importLocker = lock.NewRedisLocker(rdb)
		slog.Info("Redis enabled", "addr", cfg.Redis.Addr)
	} else {
		analyticsCache = cache.NewMemory()
		importLocker = lock.NewLocalLocker()
		slog.Info("Redis disabled, using in-process cache and lock")
	}

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		slog.Error("Invalid JWT configuration", "error", err)
		os.Exit(1)
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	thresholds := analytics.DefaultThresholds()
	thresholds.GraceMinutes = cfg.Analytics.GraceMinutes
	thresholds.HighAbsenceDays = cfg.Analytics.HighAbsenceDays
	thresholds.FrequentLateCount = cfg.Analytics.FrequentLateCount

	analyticsSvc := analyticsService.NewAnalyticsService(employeeRepo, attendanceRepo, analyticsCache, cfg.Analytics.CacheTTL, thresholds)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, analyticsSvc)
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		employeeSvc,
		importLocker,
		analyticsSvc,
		attendanceService.ImportConfig{
			BatchSize: cfg.Import.BatchSize,
			LockTTL:   cfg.Import.LockTTL,
			LockWait:  cfg.Import.LockWait,
		},
	)
	payrollSvc := payrollService.NewPayrollService(employeeRepo, attendanceRepo)

	hub := sse.NewHub(32)

	router := appHTTP.NewRouter(logger, cfg.App.FrontendURL, JWTService, appHTTP.Handlers{
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, hub, cfg.Import.MaxUploadBytes),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
		Analytics:  appHTTP.NewAnalyticsHandler(analyticsSvc),
		Events:     appHTTP.NewEventsHandler(hub, JWTService),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	slog.Info("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
}
