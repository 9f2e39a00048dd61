package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/attendance-service/internal/repository"
	apperrors "github.com/spec-kit/attendance-service/pkg/util/errorutil"
)

// ReportService exposes attendance aggregations for admin dashboards.
type ReportService struct {
	reports   repository.ReportRepository
	employees repository.EmployeeRepository
}

// NewReportService constructs the service.
func NewReportService(reports repository.ReportRepository, employees repository.EmployeeRepository) *ReportService {
	return &ReportService{reports: reports, employees: employees}
}

// EmployeeSummary aggregates one employee's records over [from, to].
func (s *ReportService) EmployeeSummary(ctx context.Context, employeeID string, from, to time.Time) (*repository.EmployeeSummary, error) {
	if to.Before(from) {
		return nil, apperrors.NewValidationError("Period end must not precede start", nil)
	}
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return nil, err
	}
	return s.reports.EmployeeSummary(ctx, employeeID, from, to)
}

// DailyOverview lists every active employee with their record for the
// given date, absentees included.
func (s *ReportService) DailyOverview(ctx context.Context, workDate time.Time) ([]repository.DailyOverviewRow, error) {
	return s.reports.DailyOverview(ctx, workDate)
}
