package dto

import "time"

// SettingResponse represents one effective setting. UpdatedAt is nil for
// built-in defaults that were never written.
type SettingResponse struct {
	Key       string     `json:"key"`
	Value     string     `json:"value"`
	UpdatedBy *string    `json:"updated_by,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// UpdateSettingRequest payload.
type UpdateSettingRequest struct {
	Value string `json:"value"`
}
