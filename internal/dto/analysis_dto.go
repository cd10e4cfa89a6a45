package dto

// AnalyzeFoodRequest carries a base64-encoded food photo. The multipart
// upload path fills ImageBase64 from the decoded file part.
type AnalyzeFoodRequest struct {
	ImageBase64 string `json:"image_base64"`
}

// FoodAnalysis is the structured nutrition guess produced by the vision
// provider. Numeric fields stay `any` until normalization at ingestion
// because the model sometimes answers with ranges like "250-300".
type FoodAnalysis struct {
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
	// ImageURL points at the stored upload the analysis was produced from.
	// It is filled server-side, never by the provider.
	ImageURL string `json:"image_url,omitempty"`
}

type AnalyzeFoodResponse struct {
	AnalysisID string       `json:"analysis_id"`
	Analysis   FoodAnalysis `json:"analysis"`
}
