package handler

import (
	"examcraft/internal/dto"
	"examcraft/internal/middleware"
	"examcraft/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetMyProfile returns the authenticated user's profile.
func (h *UserHandler) GetMyProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "user not authenticated")
	}

	profile, err := h.userService.GetProfile(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// ListUsers is the back-office user listing.
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	var p dto.Pagination
	if err := c.QueryParser(&p); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid pagination parameters")
	}

	users, err := h.userService.ListUsers(c.Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(users)
}
