package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nutrilog/nutrilog-backend/internal/models"
	"gorm.io/gorm"
)

var starterTips = []struct {
	text     string
	category string
}{
	{"Fill half your plate with vegetables and fruit at lunch and dinner.", "general"},
	{"Drink a glass of water before every meal to stay ahead of your hydration goal.", "hydration"},
	{"Pair carbs with protein or fat to keep energy steady between meals.", "general"},
	{"Frozen vegetables are just as nutritious as fresh and keep for months.", "vegetable"},
	{"Aim for at least two servings of fish per week for omega-3 fats.", "fish"},
	{"Plain yogurt with fruit makes a protein-rich snack without added sugar.", "dairy"},
	{"Choose whole grains over refined ones; the fiber keeps you full longer.", "grain"},
	{"Prep tomorrow's breakfast tonight to avoid skipping the first meal.", "general"},
	{"A handful of nuts covers healthy fats and keeps afternoon cravings away.", "snack"},
	{"Log your meals right after eating; memory-based logging undercounts.", "general"},
}

// SeedTips inserts the starter tip set when the tips table is empty.
func SeedTips(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.NutritionTip{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count tips: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	tips := make([]models.NutritionTip, 0, len(starterTips))
	for _, t := range starterTips {
		tips = append(tips, models.NutritionTip{
			ID:            uuid.New(),
			TipText:       t.text,
			Category:      t.category,
			IsActive:      true,
			DateGenerated: now,
		})
	}

	if err := db.Create(&tips).Error; err != nil {
		return fmt.Errorf("failed to seed tips: %w", err)
	}
	slog.Info("seeded nutrition tips", "count", len(tips))
	return nil
}
