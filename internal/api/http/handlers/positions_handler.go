package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/school-directory/internal/api/dto"
	"github.com/spec-kit/school-directory/internal/service"
)

// PositionsHandler exposes teacher position endpoints.
type PositionsHandler struct {
	directory *service.DirectoryService
}

// NewPositionsHandler constructs handler.
func NewPositionsHandler(directory *service.DirectoryService) *PositionsHandler {
	return &PositionsHandler{directory: directory}
}

// List handles GET /teacher-positions.
func (h *PositionsHandler) List(c *fiber.Ctx) error {
	positions, err := h.directory.ListPositions(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.PositionResponse, 0, len(positions))
	for i := range positions {
		resp = append(resp, positionResponse(&positions[i]))
	}
	return c.JSON(resp)
}

// Create handles POST /teacher-positions.
func (h *PositionsHandler) Create(c *fiber.Ctx) error {
	var req dto.PositionCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	position, err := h.directory.CreatePosition(c.UserContext(), service.CreatePositionInput{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Des,
		IsActive:    req.IsActive,
		IsDeleted:   req.IsDeleted,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(positionResponse(position))
}
