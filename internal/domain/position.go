package domain

import "time"

// Position is a teacher job-title definition identified by a unique short code.
type Position struct {
	ID          string
	Code        string
	Name        string
	Description string
	IsActive    bool
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
