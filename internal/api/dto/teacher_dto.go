package dto

import (
	"time"

	"github.com/spec-kit/school-directory/internal/domain"
)

// TeacherCreateRequest payload for onboarding a teacher. Position holds one
// position id or a list of them.
type TeacherCreateRequest struct {
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Status    string          `json:"status"`
	Address   string          `json:"address"`
	Position  IDList          `json:"position"`
	Degrees   []domain.Degree `json:"degrees"`
	StartDate Date            `json:"startDate"`
}

// TeacherResponse is the created teacher with raw references.
type TeacherResponse struct {
	ID                 string          `json:"id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	Email              string          `json:"email"`
	Phone              string          `json:"phone"`
	Status             string          `json:"status"`
	Address            string          `json:"address"`
	Degrees            []domain.Degree `json:"degrees"`
	StartDate          time.Time       `json:"startDate"`
	TeacherPositionsID []string        `json:"teacherPositionsId"`
	UserID             string          `json:"userId"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// TeacherListItem is a listed teacher with account and positions expanded.
type TeacherListItem struct {
	ID                 string             `json:"id"`
	Code               string             `json:"code"`
	Name               string             `json:"name"`
	Email              string             `json:"email"`
	Phone              string             `json:"phone"`
	Status             string             `json:"status"`
	Address            string             `json:"address"`
	Degrees            []domain.Degree    `json:"degrees"`
	StartDate          time.Time          `json:"startDate"`
	TeacherPositionsID []PositionResponse `json:"teacherPositionsId"`
	UserID             UserResponse       `json:"userId"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// TeacherListResponse wraps one page of teachers and the overall count.
type TeacherListResponse struct {
	Teachers []TeacherListItem `json:"teachers"`
	Total    int               `json:"total"`
}
