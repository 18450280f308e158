package domain

import "time"

// Account is the contact and system-access record of a person. Accounts are
// created during teacher onboarding and referenced by exactly one teacher.
type Account struct {
	ID          string
	Email       string
	Name        string
	PhoneNumber string
	Address     string
	DateOfBirth *time.Time
	Role        string
	IsDeleted   bool
	AccountID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
