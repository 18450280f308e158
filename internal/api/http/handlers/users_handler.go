package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/school-directory/internal/api/dto"
	"github.com/spec-kit/school-directory/internal/service"
)

// UsersHandler exposes the account listing.
type UsersHandler struct {
	directory *service.DirectoryService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(directory *service.DirectoryService) *UsersHandler {
	return &UsersHandler{directory: directory}
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	accounts, err := h.directory.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.UserResponse, 0, len(accounts))
	for i := range accounts {
		resp = append(resp, userResponse(&accounts[i]))
	}
	return c.JSON(resp)
}
