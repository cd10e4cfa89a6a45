package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nutrilog/nutrilog-backend/internal/dto"
	"github.com/nutrilog/nutrilog-backend/internal/middleware"
	"github.com/nutrilog/nutrilog-backend/internal/services"
)

type AdminHandler struct {
	admin *services.AdminService
}

func NewAdminHandler(admin *services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// actorID returns the acting admin's user id. Requests authorized via the
// admin token header carry no JWT; uuid.Nil then disables self-checks.
func actorID(c *fiber.Ctx) uuid.UUID {
	id, err := middleware.GetUserID(c)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.admin.ListUsers()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list users",
		})
	}
	return c.JSON(users)
}

func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.AdminCreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	user, err := h.admin.CreateUser(&req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	var req dto.AdminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	user, err := h.admin.UpdateUser(actorID(c), userID, &req)
	if err != nil {
		return adminError(c, err, "Failed to update user")
	}
	return c.JSON(user)
}

func (h *AdminHandler) ToggleSuspension(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	user, err := h.admin.ToggleSuspension(actorID(c), userID)
	if err != nil {
		return adminError(c, err, "Failed to toggle suspension")
	}
	return c.JSON(user)
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	if err := h.admin.DeleteUser(actorID(c), userID); err != nil {
		return adminError(c, err, "Failed to delete user")
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

func adminError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrSelfAction):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "User not found",
		})
	case errors.Is(err, services.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: fallback,
		})
	}
}
