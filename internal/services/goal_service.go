package services

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/nutrilog/nutrilog-backend/internal/dto"
	"github.com/nutrilog/nutrilog-backend/internal/models"
	"gorm.io/gorm"
)

// GoalService manages per-user daily nutrition targets.
type GoalService struct {
	db *gorm.DB
}

func NewGoalService(db *gorm.DB) *GoalService {
	return &GoalService{db: db}
}

func (s *GoalService) Goals(userID uuid.UUID) (dto.GoalsResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return dto.GoalsResponse{}, ErrUserNotFound
	}
	return goalsFromUser(&user), nil
}

// UpdateGoals applies only the fields present in the request; each goal is
// independently settable.
func (s *GoalService) UpdateGoals(userID uuid.UUID, req *dto.UpdateGoalsRequest) (dto.GoalsResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return dto.GoalsResponse{}, ErrUserNotFound
	}

	updates := make(map[string]interface{})
	if req.CalorieGoal != nil {
		updates["calorie_goal"] = *req.CalorieGoal
	}
	if req.ProteinGoal != nil {
		updates["protein_goal"] = *req.ProteinGoal
	}
	if req.CarbsGoal != nil {
		updates["carbs_goal"] = *req.CarbsGoal
	}
	if req.FatGoal != nil {
		updates["fat_goal"] = *req.FatGoal
	}
	if req.FiberGoal != nil {
		updates["fiber_goal"] = *req.FiberGoal
	}
	if req.WaterGoal != nil {
		updates["water_goal"] = *req.WaterGoal
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return dto.GoalsResponse{}, fmt.Errorf("failed to update goals: %w", err)
		}
	}
	return s.Goals(userID)
}

func goalsFromUser(user *models.User) dto.GoalsResponse {
	return dto.GoalsResponse{
		CalorieGoal: user.CalorieGoal,
		ProteinGoal: user.ProteinGoal,
		CarbsGoal:   user.CarbsGoal,
		FatGoal:     user.FatGoal,
		FiberGoal:   user.FiberGoal,
		WaterGoal:   user.WaterGoal,
	}
}

// PercentOfGoal returns the display percentage of actual against goal,
// capped at 100. A zero or negative goal yields 0 regardless of actual.
func PercentOfGoal(actual, goal float64) int {
	if goal <= 0 {
		return 0
	}
	pct := int(math.Round(actual / goal * 100))
	if pct > 100 {
		return 100
	}
	return pct
}
