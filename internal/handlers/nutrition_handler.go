package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nutrilog/nutrilog-backend/internal/dto"
	"github.com/nutrilog/nutrilog-backend/internal/middleware"
	"github.com/nutrilog/nutrilog-backend/internal/models"
	"github.com/nutrilog/nutrilog-backend/internal/services"
)

const dateLayout = "2006-01-02"

type NutritionHandler struct {
	ledger *services.LedgerService
	goals  *services.GoalService
	cache  *services.AnalysisCache
}

func NewNutritionHandler(ledger *services.LedgerService, goals *services.GoalService, cache *services.AnalysisCache) *NutritionHandler {
	return &NutritionHandler{ledger: ledger, goals: goals, cache: cache}
}

// parseDate reads a YYYY-MM-DD string, defaulting to today (UTC).
func parseDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(dateLayout, s)
}

// AddFood logs a food entry. When analysis_id references a cached AI result,
// its values are used; otherwise raw request fields apply. All numeric values
// pass through normalization at ingestion.
func (h *NutritionHandler) AddFood(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.AddFoodRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	aiAnalyzed := false
	imageURL := ""
	if req.AnalysisID != "" {
		analysis, ok := h.cache.Retrieve(req.AnalysisID)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: services.ErrAnalysisNotFound.Error(),
			})
		}
		aiAnalyzed = true
		imageURL = analysis.ImageURL
		req.FoodDescription = analysis.FoodDescription
		req.Calories = analysis.Calories
		req.Protein = analysis.Protein
		req.Carbs = analysis.Carbs
		req.Fat = analysis.Fat
		req.Fiber = analysis.Fiber
		req.Sugar = analysis.Sugar
		req.Sodium = analysis.Sodium
		req.Quantity = analysis.Quantity
		req.Unit = analysis.Unit
		req.MealType = analysis.MealType
		req.FoodCategory = analysis.FoodCategory
	}

	if req.FoodDescription == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Food description is required",
		})
	}

	date, err := parseDate(req.DateLogged)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid date, expected YYYY-MM-DD",
		})
	}

	quantity := services.NormalizeFloat(req.Quantity)
	if quantity <= 0 {
		quantity = 1
	}
	unit := req.Unit
	if unit == "" {
		unit = "serving"
	}
	mealType := req.MealType
	if mealType == "" {
		mealType = "other"
	}
	foodCategory := req.FoodCategory
	if foodCategory == "" {
		foodCategory = "other"
	}

	entry := models.FoodEntry{
		UserID:          userID,
		FoodDescription: req.FoodDescription,
		Calories:        services.NormalizeInt(req.Calories),
		Protein:         services.NormalizeFloat(req.Protein),
		Carbs:           services.NormalizeFloat(req.Carbs),
		Fat:             services.NormalizeFloat(req.Fat),
		Fiber:           services.NormalizeFloat(req.Fiber),
		Sugar:           services.NormalizeFloat(req.Sugar),
		Sodium:          services.NormalizeFloat(req.Sodium),
		Quantity:        quantity,
		Unit:            unit,
		MealType:        mealType,
		FoodCategory:    foodCategory,
		ImageURL:        imageURL,
		AIAnalyzed:      aiAnalyzed,
		DateLogged:      date,
	}

	if err := h.ledger.AddFoodEntry(&entry); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save food entry",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(foodEntryResponse(&entry))
}

func (h *NutritionHandler) AddWater(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.AddWaterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	date, err := parseDate(req.DateLogged)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid date, expected YYYY-MM-DD",
		})
	}

	intake, err := h.ledger.AddWaterIntake(userID, req.AmountML, date, time.Now().UTC())
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Water amount must be positive",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save water intake",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(waterEntryResponse(intake))
}

func (h *NutritionHandler) DeleteFood(c *fiber.Ctx) error {
	return h.deleteEntry(c, h.ledger.DeleteFoodEntry)
}

func (h *NutritionHandler) DeleteWater(c *fiber.Ctx) error {
	return h.deleteEntry(c, h.ledger.DeleteWaterIntake)
}

func (h *NutritionHandler) deleteEntry(c *fiber.Ctx, del func(userID, entryID uuid.UUID) error) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	entryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid entry ID",
		})
	}

	if err := del(userID, entryID); err != nil {
		if errors.Is(err, services.ErrEntryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Entry not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete entry",
		})
	}

	return c.JSON(fiber.Map{"message": "Entry deleted"})
}

// DailySummary returns totals, entries, water and capped percent-of-goal
// values for one date.
func (h *NutritionHandler) DailySummary(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	date, err := parseDate(c.Query("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid date, expected YYYY-MM-DD",
		})
	}

	totals, entries, err := h.ledger.GetDailyNutrition(userID, date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load daily summary",
		})
	}

	waterML, err := h.ledger.GetWaterIntake(userID, date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load daily summary",
		})
	}

	goals, err := h.goals.Goals(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "User not found",
		})
	}

	entryResponses := make([]dto.FoodEntryResponse, 0, len(entries))
	for i := range entries {
		entryResponses = append(entryResponses, foodEntryResponse(&entries[i]))
	}

	return c.JSON(dto.DailySummaryResponse{
		Date:    date.Format(dateLayout),
		Totals:  totals,
		Entries: entryResponses,
		WaterML: waterML,
		GoalPercents: dto.GoalPercents{
			Calories: services.PercentOfGoal(float64(totals.Calories), float64(goals.CalorieGoal)),
			Protein:  services.PercentOfGoal(totals.Protein, float64(goals.ProteinGoal)),
			Carbs:    services.PercentOfGoal(totals.Carbs, float64(goals.CarbsGoal)),
			Fat:      services.PercentOfGoal(totals.Fat, float64(goals.FatGoal)),
			Water:    services.PercentOfGoal(float64(waterML), float64(goals.WaterGoal)),
		},
		Goals: goals,
	})
}

// WaterEntries lists the day's water events, most recent first.
func (h *NutritionHandler) WaterEntries(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	date, err := parseDate(c.Query("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid date, expected YYYY-MM-DD",
		})
	}

	intakes, err := h.ledger.GetWaterEntries(userID, date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load water entries",
		})
	}

	result := make([]dto.WaterEntryResponse, 0, len(intakes))
	for i := range intakes {
		result = append(result, waterEntryResponse(&intakes[i]))
	}
	return c.JSON(result)
}

func (h *NutritionHandler) RecentEntries(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	entries, err := h.ledger.GetRecentEntries(userID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load recent entries",
		})
	}

	result := make([]dto.FoodEntryResponse, 0, len(entries))
	for i := range entries {
		result = append(result, foodEntryResponse(&entries[i]))
	}
	return c.JSON(result)
}

// Tip returns a random active tip, optionally filtered by category.
func (h *NutritionHandler) Tip(c *fiber.Ctx) error {
	tip, err := h.ledger.GetNutritionTip(c.Query("category"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load tip",
		})
	}
	if tip == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "No tips available",
		})
	}
	return c.JSON(dto.TipResponse{
		TipText:       tip.TipText,
		Category:      tip.Category,
		IsAIGenerated: tip.IsAIGenerated,
	})
}

func foodEntryResponse(e *models.FoodEntry) dto.FoodEntryResponse {
	return dto.FoodEntryResponse{
		ID:              e.ID,
		FoodDescription: e.FoodDescription,
		Calories:        e.Calories,
		Protein:         e.Protein,
		Carbs:           e.Carbs,
		Fat:             e.Fat,
		Fiber:           e.Fiber,
		Sugar:           e.Sugar,
		Sodium:          e.Sodium,
		Quantity:        e.Quantity,
		Unit:            e.Unit,
		MealType:        e.MealType,
		FoodCategory:    e.FoodCategory,
		ImageURL:        e.ImageURL,
		AIAnalyzed:      e.AIAnalyzed,
		DateLogged:      e.DateLogged.Format(dateLayout),
		CreatedAt:       e.CreatedAt,
	}
}

func waterEntryResponse(w *models.WaterIntake) dto.WaterEntryResponse {
	return dto.WaterEntryResponse{
		ID:         w.ID,
		AmountML:   w.AmountML,
		DateLogged: w.DateLogged.Format(dateLayout),
		TimeLogged: w.TimeLogged,
	}
}
