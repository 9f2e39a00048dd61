package events

import (
	"time"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEmployeeRegistered  EventType = "employee_registered"
	EventEmployeeDeactivated EventType = "employee_deactivated"
	EventEmployeeClockedIn   EventType = "employee_clocked_in"
	EventEmployeeClockedOut  EventType = "employee_clocked_out"
	EventLateArrival         EventType = "late_arrival"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	EmployeeID string      `json:"employee_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// EmployeeRegisteredPayload payload.
type EmployeeRegisteredPayload struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// EmployeeDeactivatedPayload payload.
type EmployeeDeactivatedPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ClockedInPayload payload.
type ClockedInPayload struct {
	RecordID string    `json:"record_id"`
	WorkDate time.Time `json:"work_date"`
	Late     bool      `json:"late"`
	Location *string   `json:"location,omitempty"`
}

// ClockedOutPayload payload.
type ClockedOutPayload struct {
	RecordID      string    `json:"record_id"`
	WorkDate      time.Time `json:"work_date"`
	WorkedSeconds int64     `json:"worked_seconds"`
}

// LateArrivalPayload payload.
type LateArrivalPayload struct {
	RecordID     string    `json:"record_id"`
	WorkDate     time.Time `json:"work_date"`
	ClockInAt    time.Time `json:"clock_in_at"`
	WorkdayStart string    `json:"workday_start"`
}
