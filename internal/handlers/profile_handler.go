package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/nutrilog/nutrilog-backend/internal/dto"
	"github.com/nutrilog/nutrilog-backend/internal/middleware"
	"github.com/nutrilog/nutrilog-backend/internal/services"
)

type ProfileHandler struct {
	goals *services.GoalService
}

func NewProfileHandler(goals *services.GoalService) *ProfileHandler {
	return &ProfileHandler{goals: goals}
}

func (h *ProfileHandler) GetGoals(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	goals, err := h.goals.Goals(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "User not found",
		})
	}
	return c.JSON(goals)
}

func (h *ProfileHandler) UpdateGoals(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.UpdateGoalsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	goals, err := h.goals.UpdateGoals(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update goals",
		})
	}
	return c.JSON(goals)
}
