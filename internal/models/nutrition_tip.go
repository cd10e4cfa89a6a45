package models

import (
	"time"

	"github.com/google/uuid"
)

// NutritionTip is a reusable tip shown on the dashboard; tips may be seeded
// or AI-generated and are picked uniformly at random.
type NutritionTip struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TipText       string    `gorm:"type:text;not null" json:"tip_text"`
	Category      string    `gorm:"size:50;default:'general'" json:"category"`
	IsAIGenerated bool      `gorm:"default:false" json:"is_ai_generated"`
	DateGenerated time.Time `json:"date_generated"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
}

func (NutritionTip) TableName() string {
	return "nutrition_tips"
}
