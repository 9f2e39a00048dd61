package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendance-service/internal/api/dto"
	"github.com/spec-kit/attendance-service/internal/repository"
	"github.com/spec-kit/attendance-service/internal/service"
	apperrors "github.com/spec-kit/attendance-service/pkg/util/errorutil"
)

// ReportsHandler exposes attendance aggregations.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reportService}
}

// EmployeeSummary handles GET /reports/employees/:id/summary.
func (h *ReportsHandler) EmployeeSummary(c *fiber.Ctx) error {
	from := parseDateQuery(c, "from")
	to := parseDateQuery(c, "to")
	if from == nil || to == nil {
		return apperrors.NewValidationError("from and to are required as YYYY-MM-DD", nil)
	}

	summary, err := h.reports.EmployeeSummary(c.Context(), c.Params("id"), *from, *to)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.EmployeeSummaryResponse{
		EmployeeID:        summary.EmployeeID,
		From:              from.Format("2006-01-02"),
		To:                to.Format("2006-01-02"),
		DaysPresent:       summary.DaysPresent,
		LateCount:         summary.LateCount,
		WorkedSeconds:     summary.WorkedSeconds,
		AvgClockInSeconds: summary.AvgClockInSeconds,
	})
}

// DailyOverview handles GET /reports/daily. The date defaults to today.
func (h *ReportsHandler) DailyOverview(c *fiber.Ctx) error {
	date := parseDateQuery(c, "date")
	if date == nil {
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		date = &today
	}

	rows, err := h.reports.DailyOverview(c.Context(), *date)
	if err != nil {
		return err
	}
	entries := make([]dto.DailyOverviewEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, overviewEntry(&rows[i]))
	}
	return respond(c, http.StatusOK, fiber.Map{
		"date":    date.Format("2006-01-02"),
		"entries": entries,
	})
}

func overviewEntry(row *repository.DailyOverviewRow) dto.DailyOverviewEntry {
	entry := dto.DailyOverviewEntry{
		EmployeeID: row.EmployeeID,
		Name:       row.Name,
		Department: row.DepartmentName,
		Present:    row.RecordID != nil,
		ClockInAt:  row.ClockInAt,
		ClockOutAt: row.ClockOutAt,
		Late:       row.Late,
	}
	if row.Status != nil {
		status := string(*row.Status)
		entry.Status = &status
	}
	return entry
}
