package models

import (
	"time"

	"github.com/google/uuid"
)

// FoodEntry is one logged food item. Values arrive pre-normalized by the
// ingestion workflow; entries are create/delete only.
type FoodEntry struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	FoodDescription string    `gorm:"size:200;not null" json:"food_description"`
	Calories        int       `gorm:"not null" json:"calories"`
	Protein         float64   `gorm:"default:0" json:"protein"`
	Carbs           float64   `gorm:"default:0" json:"carbs"`
	Fat             float64   `gorm:"default:0" json:"fat"`
	Fiber           float64   `gorm:"default:0" json:"fiber"`
	Sugar           float64   `gorm:"default:0" json:"sugar"`
	Sodium          float64   `gorm:"default:0" json:"sodium"`
	Quantity        float64   `gorm:"default:1" json:"quantity"`
	Unit            string    `gorm:"size:50;default:'serving'" json:"unit"`
	MealType        string    `gorm:"size:20;not null;default:'other'" json:"meal_type"`
	FoodCategory    string    `gorm:"size:20;not null;default:'other'" json:"food_category"`
	ImageURL        string    `gorm:"size:255" json:"image_url,omitempty"`
	AIAnalyzed      bool      `gorm:"default:false" json:"ai_analyzed"`

	// DateLogged is the calendar date the user assigned to the entry and is
	// the aggregation key; CreatedAt only orders "recent entries".
	DateLogged time.Time `gorm:"type:date;not null;index" json:"date_logged"`
	CreatedAt  time.Time `json:"created_at"`
}

func (FoodEntry) TableName() string {
	return "food_entries"
}
