package dto

import (
	"time"

	"github.com/google/uuid"
)

// AddFoodRequest carries either raw nutrition fields or an analysis_id
// referencing a cached AI result. Numeric fields are typed `any` because
// clients (and the AI provider) send numbers, numeric strings, or textual
// ranges like "15-20"; they are normalized at ingestion.
type AddFoodRequest struct {
	AnalysisID      string `json:"analysis_id,omitempty"`
	FoodDescription string `json:"food_description"`
	Calories        any    `json:"calories"`
	Protein         any    `json:"protein"`
	Carbs           any    `json:"carbs"`
	Fat             any    `json:"fat"`
	Fiber           any    `json:"fiber"`
	Sugar           any    `json:"sugar"`
	Sodium          any    `json:"sodium"`
	Quantity        any    `json:"quantity"`
	Unit            string `json:"unit"`
	MealType        string `json:"meal_type"`
	FoodCategory    string `json:"food_category"`
	DateLogged      string `json:"date_logged"`
}

type FoodEntryResponse struct {
	ID              uuid.UUID `json:"id"`
	FoodDescription string    `json:"food_description"`
	Calories        int       `json:"calories"`
	Protein         float64   `json:"protein"`
	Carbs           float64   `json:"carbs"`
	Fat             float64   `json:"fat"`
	Fiber           float64   `json:"fiber"`
	Sugar           float64   `json:"sugar"`
	Sodium          float64   `json:"sodium"`
	Quantity        float64   `json:"quantity"`
	Unit            string    `json:"unit"`
	MealType        string    `json:"meal_type"`
	FoodCategory    string    `json:"food_category"`
	ImageURL        string    `json:"image_url,omitempty"`
	AIAnalyzed      bool      `json:"ai_analyzed"`
	DateLogged      string    `json:"date_logged"`
	CreatedAt       time.Time `json:"created_at"`
}

type AddWaterRequest struct {
	AmountML   int    `json:"amount_ml"`
	DateLogged string `json:"date_logged"`
}

type WaterEntryResponse struct {
	ID         uuid.UUID `json:"id"`
	AmountML   int       `json:"amount_ml"`
	DateLogged string    `json:"date_logged"`
	TimeLogged time.Time `json:"time_logged"`
}

type DailyTotals struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

// GoalPercents are display percentages capped at 100.
type GoalPercents struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
	Water    int `json:"water"`
}

type DailySummaryResponse struct {
	Date         string              `json:"date"`
	Totals       DailyTotals         `json:"totals"`
	Entries      []FoodEntryResponse `json:"entries"`
	WaterML      int                 `json:"water_ml"`
	GoalPercents GoalPercents        `json:"goal_percents"`
	Goals        GoalsResponse       `json:"goals"`
}

type TipResponse struct {
	TipText       string `json:"tip_text"`
	Category      string `json:"category"`
	IsAIGenerated bool   `json:"is_ai_generated"`
}
