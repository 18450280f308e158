package dto

import "time"

// PositionCreateRequest payload for a new teacher position.
type PositionCreateRequest struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Des       string `json:"des"`
	IsActive  *bool  `json:"isActive"`
	IsDeleted *bool  `json:"isDeleted"`
}

// PositionResponse describes a teacher position.
type PositionResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Des       string    `json:"des"`
	IsActive  bool      `json:"isActive"`
	IsDeleted bool      `json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
