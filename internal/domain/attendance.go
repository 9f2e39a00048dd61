package domain

import "time"

// AttendanceStatus enumerates lifecycle states for a daily record.
type AttendanceStatus string

const (
	AttendanceStatusOpen   AttendanceStatus = "open"
	AttendanceStatusClosed AttendanceStatus = "closed"
)

// AttendanceRecord is one employee's presence record for one work date.
// A record opens at clock-in and closes at clock-out; at most one open
// record may exist per employee at any time.
type AttendanceRecord struct {
	ID               string
	EmployeeID       string
	WorkDate         time.Time
	ClockInAt        time.Time
	ClockOutAt       *time.Time
	ClockInLocation  *string
	ClockOutLocation *string
	ClockInPhotoKey  *string
	ClockOutPhotoKey *string
	Notes            *string
	Late             bool
	Status           AttendanceStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Duration returns the worked span for a closed record, zero otherwise.
func (r *AttendanceRecord) Duration() time.Duration {
	if r.ClockOutAt == nil {
		return 0
	}
	return r.ClockOutAt.Sub(r.ClockInAt)
}
