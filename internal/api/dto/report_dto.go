package dto

import "time"

// EmployeeSummaryResponse aggregates one employee's attendance for a period.
type EmployeeSummaryResponse struct {
	EmployeeID        string `json:"employee_id"`
	From              string `json:"from"`
	To                string `json:"to"`
	DaysPresent       int64  `json:"days_present"`
	LateCount         int64  `json:"late_count"`
	WorkedSeconds     int64  `json:"worked_seconds"`
	AvgClockInSeconds int64  `json:"avg_clock_in_seconds"`
}

// DailyOverviewEntry pairs an employee with their attendance for one day.
// Absent employees carry no record fields.
type DailyOverviewEntry struct {
	EmployeeID string     `json:"employee_id"`
	Name       string     `json:"name"`
	Department *string    `json:"department"`
	Present    bool       `json:"present"`
	ClockInAt  *time.Time `json:"clock_in_at,omitempty"`
	ClockOutAt *time.Time `json:"clock_out_at,omitempty"`
	Late       *bool      `json:"late,omitempty"`
	Status     *string    `json:"status,omitempty"`
}
