package domain

import "time"

// Department is the organizational unit an employee belongs to.
type Department struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
