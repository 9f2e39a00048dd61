package dto

import (
	"time"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// LocationPayload is a browser geolocation fix.
type LocationPayload struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
}

// ClockRequest carries optional geolocation, notes and a base64 photo
// for clock-in/out. Clients may alternatively send the photo as a
// multipart file named "photo".
type ClockRequest struct {
	Location *LocationPayload `json:"location,omitempty"`
	Photo    *string          `json:"photo,omitempty"`
	Notes    *string          `json:"notes,omitempty"`
}

// AttendanceRecordResponse represents one attendance record.
type AttendanceRecordResponse struct {
	ID               string                  `json:"id"`
	EmployeeID       string                  `json:"employee_id"`
	WorkDate         string                  `json:"work_date"`
	ClockInAt        time.Time               `json:"clock_in_at"`
	ClockOutAt       *time.Time              `json:"clock_out_at"`
	ClockInLocation  *string                 `json:"clock_in_location"`
	ClockOutLocation *string                 `json:"clock_out_location"`
	HasClockInPhoto  bool                    `json:"has_clock_in_photo"`
	HasClockOutPhoto bool                    `json:"has_clock_out_photo"`
	Notes            *string                 `json:"notes,omitempty"`
	Late             bool                    `json:"late"`
	Status           domain.AttendanceStatus `json:"status"`
	WorkedSeconds    int64                   `json:"worked_seconds"`
}

// PresenceResponse reports the employee's live clock state.
type PresenceResponse struct {
	State  string                    `json:"state"`
	Record *AttendanceRecordResponse `json:"record,omitempty"`
}

// PhotoURLResponse carries a presigned photo download link.
type PhotoURLResponse struct {
	URL string `json:"url"`
}
