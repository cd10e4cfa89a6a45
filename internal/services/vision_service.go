package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nutrilog/nutrilog-backend/internal/config"
	"github.com/nutrilog/nutrilog-backend/internal/dto"
	"github.com/nutrilog/nutrilog-backend/internal/models"
)

var ErrAnalysisFailed = errors.New("food analysis failed")

const visionSystemPrompt = `You are a nutrition analysis assistant. Analyze the food in this image.
Return your analysis as a JSON object with these exact fields:
{"food_description":"...", "calories":0, "protein":0, "carbs":0, "fat":0, "fiber":0, "sugar":0, "sodium":0, "quantity":1, "unit":"serving", "meal_type":"breakfast|lunch|dinner|snack|other", "food_category":"fruit|vegetable|meat|fish|dairy|grain|other"}
Estimate realistic values for one depicted portion. Return ONLY the JSON object, no extra text.`

const fallbackTip = "Aim for a balanced plate: half vegetables and fruit, a quarter lean protein, a quarter whole grains, and keep a water bottle within reach through the day."

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature,omitempty"`
	ResponseFormat *chatFormat   `json:"response_format,omitempty"`
}

type chatFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content interface{} `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// VisionService talks to an OpenRouter-compatible chat-completions endpoint
// for food photo analysis and personalized tips.
type VisionService struct {
	cfg *config.Config
}

func NewVisionService(cfg *config.Config) *VisionService {
	return &VisionService{cfg: cfg}
}

// AnalyzeFoodImage sends a base64 food photo to the vision model and returns
// a structured nutrition guess with every required field defaulted, so
// downstream normalization never observes missing keys.
func (s *VisionService) AnalyzeFoodImage(imageBase64 string) (*dto.FoodAnalysis, error) {
	if s.cfg.OpenRouterAPIKey == "" {
		return nil, ErrAnalysisFailed
	}

	messages := []chatMessage{
		{Role: "system", Content: visionSystemPrompt},
		{Role: "user", Content: []chatContentPart{
			{Type: "text", Text: "What food is in this photo and what are its estimated nutrition values?"},
			{Type: "image_url", ImageURL: &chatImageURL{
				URL:    fmt.Sprintf("data:image/jpeg;base64,%s", imageBase64),
				Detail: "auto",
			}},
		}},
	}

	content, err := s.complete(messages, &chatFormat{Type: "json_object"})
	if err != nil {
		slog.Error("food image analysis failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	var analysis dto.FoodAnalysis
	if err := parseModelJSON(content, &analysis); err != nil {
		slog.Error("food analysis payload malformed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	applyAnalysisDefaults(&analysis)
	return &analysis, nil
}

// GenerateTip builds a personalized tip from the user's goals and recent
// entries. Falls back to a canned general tip when the provider fails.
func (s *VisionService) GenerateTip(goals dto.GoalsResponse, recent []models.FoodEntry) (string, bool) {
	if s.cfg.OpenRouterAPIKey == "" {
		return fallbackTip, false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Daily goals: %d kcal, %dg protein, %dg carbs, %dg fat, %dml water.\n",
		goals.CalorieGoal, goals.ProteinGoal, goals.CarbsGoal, goals.FatGoal, goals.WaterGoal)
	if len(recent) > 0 {
		b.WriteString("Recently logged foods:\n")
		for _, e := range recent {
			fmt.Fprintf(&b, "- %s (%d kcal, %.0fg protein)\n", e.FoodDescription, e.Calories, e.Protein)
		}
	} else {
		b.WriteString("No foods logged yet.\n")
	}
	b.WriteString("Give one short, actionable nutrition tip (2-3 sentences) tailored to this user. Plain text only.")

	messages := []chatMessage{
		{Role: "system", Content: "You are a friendly nutrition coach."},
		{Role: "user", Content: b.String()},
	}

	content, err := s.complete(messages, nil)
	if err != nil {
		slog.Warn("tip generation failed, using fallback", "error", err)
		return fallbackTip, false
	}
	tip := strings.TrimSpace(content)
	if tip == "" {
		return fallbackTip, false
	}
	return tip, true
}

func (s *VisionService) complete(messages []chatMessage, format *chatFormat) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:          s.cfg.OpenRouterModel,
		Messages:       messages,
		Temperature:    0.4,
		ResponseFormat: format,
	})
	if err != nil {
		return "", err
	}

	timeout := s.cfg.AITimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	req, err := http.NewRequest(http.MethodPost, s.cfg.OpenRouterAPIURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.OpenRouterAPIKey)

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("AI API error: status %d", resp.StatusCode)
	}

	var completion chatResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("no response from AI")
	}

	switch v := completion.Choices[0].Message.Content.(type) {
	case string:
		return v, nil
	default:
		contentBytes, err := json.Marshal(v)
		if err != nil {
			return "", errors.New("failed to extract content from AI response")
		}
		return string(contentBytes), nil
	}
}

// parseModelJSON unmarshals model output, stripping code fences and falling
// back to the outermost brace pair when the reply carries extra prose.
func parseModelJSON(content string, out interface{}) error {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	if err := json.Unmarshal([]byte(content), out); err != nil {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start >= 0 && end > start {
			return json.Unmarshal([]byte(content[start:end+1]), out)
		}
		return err
	}
	return nil
}

func applyAnalysisDefaults(a *dto.FoodAnalysis) {
	if strings.TrimSpace(a.FoodDescription) == "" {
		a.FoodDescription = "Nutritional food item"
	}
	for _, v := range []*any{&a.Calories, &a.Protein, &a.Carbs, &a.Fat, &a.Fiber, &a.Sugar, &a.Sodium} {
		if *v == nil {
			*v = 0
		}
	}
	if a.Quantity == nil {
		a.Quantity = 1
	}
	if a.Unit == "" {
		a.Unit = "serving"
	}
	if a.MealType == "" {
		a.MealType = "other"
	}
	if a.FoodCategory == "" {
		a.FoodCategory = "other"
	}
}
