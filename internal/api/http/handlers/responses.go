package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/school-directory/internal/api/dto"
	"github.com/spec-kit/school-directory/internal/domain"
)

// parseIntQuery returns the query value as int, or defaultVal when it is
// absent or not a number. Range policy is left to the service.
func parseIntQuery(c *fiber.Ctx, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func teacherResponse(t *domain.Teacher) dto.TeacherResponse {
	return dto.TeacherResponse{
		ID:                 t.ID,
		Code:               t.Code,
		Name:               t.Name,
		Email:              t.Email,
		Phone:              t.Phone,
		Status:             t.Status,
		Address:            t.Address,
		Degrees:            nonNil(t.Degrees),
		StartDate:          t.StartDate,
		TeacherPositionsID: nonNil(t.PositionIDs),
		UserID:             t.AccountID,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

func teacherListItem(t *domain.TeacherDetails) dto.TeacherListItem {
	positions := make([]dto.PositionResponse, 0, len(t.Positions))
	for i := range t.Positions {
		positions = append(positions, positionResponse(&t.Positions[i]))
	}
	return dto.TeacherListItem{
		ID:                 t.ID,
		Code:               t.Code,
		Name:               t.Name,
		Email:              t.Email,
		Phone:              t.Phone,
		Status:             t.Status,
		Address:            t.Address,
		Degrees:            nonNil(t.Degrees),
		StartDate:          t.StartDate,
		TeacherPositionsID: positions,
		UserID:             userResponse(&t.Account),
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

func positionResponse(p *domain.Position) dto.PositionResponse {
	return dto.PositionResponse{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		Des:       p.Description,
		IsActive:  p.IsActive,
		IsDeleted: p.IsDeleted,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func userResponse(a *domain.Account) dto.UserResponse {
	return dto.UserResponse{
		ID:          a.ID,
		Email:       a.Email,
		Address:     a.Address,
		Dob:         a.DateOfBirth,
		Name:        a.Name,
		PhoneNumber: a.PhoneNumber,
		Role:        a.Role,
		IsDeleted:   a.IsDeleted,
		AccountID:   a.AccountID,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
