package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/repository"
	apperrors "github.com/spec-kit/attendance-service/pkg/util/errorutil"
)

type fakeReportRepo struct {
	summary  *repository.EmployeeSummary
	rows     []repository.DailyOverviewRow
	lastFrom time.Time
	lastTo   time.Time
}

func (f *fakeReportRepo) EmployeeSummary(_ context.Context, employeeID string, from, to time.Time) (*repository.EmployeeSummary, error) {
	f.lastFrom = from
	f.lastTo = to
	if f.summary != nil {
		return f.summary, nil
	}
	return &repository.EmployeeSummary{EmployeeID: employeeID}, nil
}

func (f *fakeReportRepo) DailyOverview(_ context.Context, _ time.Time) ([]repository.DailyOverviewRow, error) {
	return f.rows, nil
}

func TestEmployeeSummary(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	employees := newFakeEmployeeRepo()
	worker := &domain.Employee{Name: "Ada", Email: "ada@example.com", Role: domain.RoleEmployee, IsActive: true}
	require.NoError(t, employees.Create(context.Background(), worker))

	reports := &fakeReportRepo{summary: &repository.EmployeeSummary{
		EmployeeID:    worker.ID,
		DaysPresent:   20,
		LateCount:     3,
		WorkedSeconds: 576000,
	}}
	svc := NewReportService(reports, employees)

	t.Run("delegates the period", func(t *testing.T) {
		summary, err := svc.EmployeeSummary(context.Background(), worker.ID, from, to)
		require.NoError(t, err)
		assert.Equal(t, int64(20), summary.DaysPresent)
		assert.Equal(t, from, reports.lastFrom)
		assert.Equal(t, to, reports.lastTo)
	})

	t.Run("rejects an inverted period", func(t *testing.T) {
		_, err := svc.EmployeeSummary(context.Background(), worker.ID, to, from)
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, 400, domainErr.HTTPStatus)
	})

	t.Run("unknown employee", func(t *testing.T) {
		_, err := svc.EmployeeSummary(context.Background(), "emp-404", from, to)
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, 404, domainErr.HTTPStatus)
	})
}

func TestDailyOverview(t *testing.T) {
	recordID := "att-1"
	reports := &fakeReportRepo{rows: []repository.DailyOverviewRow{
		{EmployeeID: "emp-1", Name: "Ada", RecordID: &recordID},
		{EmployeeID: "emp-2", Name: "Grace"},
	}}
	svc := NewReportService(reports, newFakeEmployeeRepo())

	rows, err := svc.DailyOverview(context.Background(), time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.NotNil(t, rows[0].RecordID)
	assert.Nil(t, rows[1].RecordID)
}
