package dto

import "time"

// UserResponse describes an account.
type UserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Address     string     `json:"address"`
	Dob         *time.Time `json:"dob,omitempty"`
	Name        string     `json:"name"`
	PhoneNumber string     `json:"phoneNumber"`
	Role        string     `json:"role"`
	IsDeleted   bool       `json:"isDeleted"`
	AccountID   string     `json:"accountId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
