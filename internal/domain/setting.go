package domain

import "time"

// Well-known setting keys.
const (
	SettingRequirePhoto = "attendance.require_photo"
	SettingWorkdayStart = "attendance.workday_start"
	SettingWorkdayEnd   = "attendance.workday_end"
	SettingTimezone     = "attendance.timezone"
)

// Setting is a persisted key/value configuration entry.
type Setting struct {
	Key       string
	Value     string
	UpdatedBy *string
	UpdatedAt time.Time
}
