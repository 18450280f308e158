package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/school-directory/internal/api/dto"
	"github.com/spec-kit/school-directory/internal/service"
)

// TeachersHandler exposes teacher listing and onboarding.
type TeachersHandler struct {
	directory *service.DirectoryService
}

// NewTeachersHandler constructs handler.
func NewTeachersHandler(directory *service.DirectoryService) *TeachersHandler {
	return &TeachersHandler{directory: directory}
}

// List handles GET /teachers.
func (h *TeachersHandler) List(c *fiber.Ctx) error {
	page := parseIntQuery(c, "page", 1)
	limit := parseIntQuery(c, "limit", 0)

	result, err := h.directory.ListTeachers(c.UserContext(), page, limit)
	if err != nil {
		return err
	}

	resp := dto.TeacherListResponse{
		Teachers: make([]dto.TeacherListItem, 0, len(result.Items)),
		Total:    result.Total,
	}
	for i := range result.Items {
		resp.Teachers = append(resp.Teachers, teacherListItem(&result.Items[i]))
	}
	return c.JSON(resp)
}

// Create handles POST /teachers.
func (h *TeachersHandler) Create(c *fiber.Ctx) error {
	var req dto.TeacherCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	teacher, err := h.directory.OnboardTeacher(c.UserContext(), service.OnboardTeacherInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Status:      req.Status,
		Address:     req.Address,
		PositionIDs: req.Position,
		Degrees:     req.Degrees,
		StartDate:   req.StartDate.Time,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(teacherResponse(teacher))
}
