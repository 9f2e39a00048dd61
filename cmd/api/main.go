package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/attendance-service/internal/api/http"
	"github.com/spec-kit/attendance-service/internal/api/http/handlers"
	"github.com/spec-kit/attendance-service/internal/auth"
	"github.com/spec-kit/attendance-service/internal/config"
	"github.com/spec-kit/attendance-service/internal/events"
	"github.com/spec-kit/attendance-service/internal/observability"
	"github.com/spec-kit/attendance-service/internal/persistence"
	"github.com/spec-kit/attendance-service/internal/repository"
	"github.com/spec-kit/attendance-service/internal/service"
	"github.com/spec-kit/attendance-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	photos, err := persistence.NewPhotoStore(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("failed to init photo storage", zap.Error(err))
	}

	pool := pg.PoolHandle()
	employeeRepo := repository.NewEmployeeRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)
	reportRepo := repository.NewReportRepository(pool)
	resetTokens := repository.NewResetTokenStore(redis.Client)
	settingCache := repository.NewSettingCache(redis.Client)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		EmployeeRepo: employeeRepo,
		ResetTokens:  resetTokens,
		Dispatcher:   dispatcher,
	})
	directoryService := service.NewEmployeeService(*cfg, service.DirectoryDependencies{
		EmployeeRepo:   employeeRepo,
		DepartmentRepo: departmentRepo,
		Dispatcher:     dispatcher,
	})
	settingsService := service.NewSettingsService(settingRepo, settingCache)
	attendanceService := service.NewAttendanceService(service.AttendanceDependencies{
		AttendanceRepo: attendanceRepo,
		Settings:       settingsService,
		Photos:         photos,
		Dispatcher:     dispatcher,
	})
	reportService := service.NewReportService(reportRepo, employeeRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	verifier := auth.NewVerifier(authService.TokenManager(), employeeRepo, logger)
	guard := auth.NewGuard(verifier, logger)
	rateLimiter := httptransport.NewRateLimiter(ctx, cfg.RateLimit)

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: 10 * 1024 * 1024,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:        handlers.NewAuthHandler(authService, cfg.Auth.CookieSecure),
		Employees:   handlers.NewEmployeesHandler(directoryService),
		Attendance:  handlers.NewAttendanceHandler(attendanceService),
		Settings:    handlers.NewSettingsHandler(settingsService),
		Reports:     handlers.NewReportsHandler(reportService),
		Guard:       guard,
		RateLimiter: rateLimiter,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
