package dto

type GoalsResponse struct {
	CalorieGoal int `json:"calorie_goal"`
	ProteinGoal int `json:"protein_goal"`
	CarbsGoal   int `json:"carbs_goal"`
	FatGoal     int `json:"fat_goal"`
	FiberGoal   int `json:"fiber_goal"`
	WaterGoal   int `json:"water_goal"`
}

// UpdateGoalsRequest uses pointers so each goal is independently settable.
type UpdateGoalsRequest struct {
	CalorieGoal *int `json:"calorie_goal"`
	ProteinGoal *int `json:"protein_goal"`
	CarbsGoal   *int `json:"carbs_goal"`
	FatGoal     *int `json:"fat_goal"`
	FiberGoal   *int `json:"fiber_goal"`
	WaterGoal   *int `json:"water_goal"`
}
