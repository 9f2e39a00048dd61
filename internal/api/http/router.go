package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendance-service/internal/api/http/handlers"
	"github.com/spec-kit/attendance-service/internal/auth"
	"github.com/spec-kit/attendance-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Employees   *handlers.EmployeesHandler
	Attendance  *handlers.AttendanceHandler
	Settings    *handlers.SettingsHandler
	Reports     *handlers.ReportsHandler
	Guard       *auth.Guard
	RateLimiter *RateLimiter
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	anyRole := cfg.Guard.Protect(auth.RequireRoles(domain.RoleAdmin, domain.RoleEmployee))
	adminOnly := cfg.Guard.Protect(auth.RequireRoles(domain.RoleAdmin))
	adminOrSelf := cfg.Guard.Protect(auth.RequireAdminOrSelf("id"))

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.RateLimiter.Handle, cfg.Auth.Register)
	authGroup.Post("/login", cfg.RateLimiter.Handle, cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", anyRole, cfg.Auth.Me)
	authGroup.Post("/password/change", anyRole, cfg.Auth.ChangePassword)
	authGroup.Post("/password/reset/request", cfg.RateLimiter.Handle, cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.RateLimiter.Handle, cfg.Auth.ConfirmPasswordReset)

	employees := app.Group("/employees")
	employees.Post("/", adminOnly, cfg.Employees.CreateEmployee)
	employees.Get("/", adminOnly, cfg.Employees.ListEmployees)
	employees.Get("/:id", adminOrSelf, cfg.Employees.GetEmployee)
	employees.Put("/:id", adminOnly, cfg.Employees.UpdateEmployee)
	employees.Get("/:id/attendance", adminOrSelf, cfg.Attendance.ListEmployeeRecords)

	departments := app.Group("/departments")
	departments.Get("/", anyRole, cfg.Employees.ListDepartments)
	departments.Post("/", adminOnly, cfg.Employees.CreateDepartment)
	departments.Get("/:id", anyRole, cfg.Employees.GetDepartment)
	departments.Put("/:id", adminOnly, cfg.Employees.UpdateDepartment)
	departments.Delete("/:id", adminOnly, cfg.Employees.DeleteDepartment)

	attendance := app.Group("/attendance", anyRole)
	attendance.Post("/clock-in", cfg.Attendance.ClockIn)
	attendance.Post("/clock-out", cfg.Attendance.ClockOut)
	attendance.Get("/status", cfg.Attendance.Presence)
	attendance.Get("/records", cfg.Attendance.ListOwnRecords)
	attendance.Get("/records/:id", cfg.Attendance.GetRecord)
	attendance.Get("/records/:id/photo", cfg.Attendance.PhotoURL)

	settings := app.Group("/settings", adminOnly)
	settings.Get("/", cfg.Settings.List)
	settings.Get("/:key", cfg.Settings.Get)
	settings.Put("/:key", cfg.Settings.Update)

	reports := app.Group("/reports")
	reports.Get("/daily", adminOnly, cfg.Reports.DailyOverview)
	reports.Get("/employees/:id/summary", adminOrSelf, cfg.Reports.EmployeeSummary)
}
