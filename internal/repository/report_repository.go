package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// EmployeeSummary aggregates one employee's attendance over a period.
type EmployeeSummary struct {
	EmployeeID        string
	DaysPresent       int64
	LateCount         int64
	WorkedSeconds     int64
	AvgClockInSeconds int64
}

// DailyOverviewRow pairs an active employee with their record for one
// work date; record columns are nil for absentees.
type DailyOverviewRow struct {
	EmployeeID     string
	Name           string
	DepartmentName *string
	RecordID       *string
	ClockInAt      *time.Time
	ClockOutAt     *time.Time
	Late           *bool
	Status         *domain.AttendanceStatus
}

// ReportRepository runs aggregation queries for reporting endpoints.
type ReportRepository interface {
	EmployeeSummary(ctx context.Context, employeeID string, from, to time.Time) (*EmployeeSummary, error)
	DailyOverview(ctx context.Context, workDate time.Time) ([]DailyOverviewRow, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) EmployeeSummary(ctx context.Context, employeeID string, from, to time.Time) (*EmployeeSummary, error) {
	const query = `
        SELECT COUNT(DISTINCT work_date),
               COUNT(*) FILTER (WHERE late),
               COALESCE(SUM(EXTRACT(EPOCH FROM (clock_out_at - clock_in_at)))::bigint, 0),
               COALESCE(AVG(EXTRACT(EPOCH FROM clock_in_at::time))::bigint, 0)
        FROM attendance_records
        WHERE employee_id=$1 AND work_date >= $2 AND work_date <= $3`

	summary := EmployeeSummary{EmployeeID: employeeID}
	if err := r.pool.QueryRow(ctx, query, employeeID, from, to).Scan(
		&summary.DaysPresent,
		&summary.LateCount,
		&summary.WorkedSeconds,
		&summary.AvgClockInSeconds,
	); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *reportRepository) DailyOverview(ctx context.Context, workDate time.Time) ([]DailyOverviewRow, error) {
	const query = `
        SELECT e.id, e.name, d.name, a.id, a.clock_in_at, a.clock_out_at, a.late, a.status
        FROM employees e
        LEFT JOIN departments d ON d.id = e.department_id
        LEFT JOIN attendance_records a ON a.employee_id = e.id AND a.work_date = $1
        WHERE e.is_active = TRUE
        ORDER BY e.name ASC`

	rows, err := r.pool.Query(ctx, query, workDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DailyOverviewRow
	for rows.Next() {
		var row DailyOverviewRow
		if err := rows.Scan(
			&row.EmployeeID,
			&row.Name,
			&row.DepartmentName,
			&row.RecordID,
			&row.ClockInAt,
			&row.ClockOutAt,
			&row.Late,
			&row.Status,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
