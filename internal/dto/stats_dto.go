package dto

type WeeklyStatsResponse struct {
	Days        int     `json:"days"`
	DaysLogged  int     `json:"days_logged"`
	AvgCalories float64 `json:"avg_calories"`
	AvgProtein  float64 `json:"avg_protein"`
	AvgCarbs    float64 `json:"avg_carbs"`
	AvgFat      float64 `json:"avg_fat"`
	AvgWater    float64 `json:"avg_water"`
}

type TrendPoint struct {
	Date     string  `json:"date"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	WaterML  int     `json:"water_ml"`
}

type MacroDistributionResponse struct {
	ProteinPercent float64 `json:"protein_percent"`
	CarbsPercent   float64 `json:"carbs_percent"`
	FatPercent     float64 `json:"fat_percent"`
}

type CategoryCalories struct {
	Category string `json:"category"`
	Calories int    `json:"calories"`
}

type GoalAchievementResponse struct {
	Days        int `json:"days"`
	WithinRange int `json:"within_range"`
	Under       int `json:"under"`
	Over        int `json:"over"`
	NoData      int `json:"no_data"`
}

// WeekOverWeekResponse holds per-metric percent change between the current
// Monday-start week and the preceding one, rounded to 1 decimal.
type WeekOverWeekResponse struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}
