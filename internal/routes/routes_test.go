package routes

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/nutrilog/nutrilog-backend/internal/config"
	"github.com/nutrilog/nutrilog-backend/internal/database"
	"github.com/nutrilog/nutrilog-backend/internal/dto"
	"github.com/nutrilog/nutrilog-backend/internal/handlers"
	"github.com/nutrilog/nutrilog-backend/internal/models"
	"github.com/nutrilog/nutrilog-backend/internal/services"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testApp struct {
	app   *fiber.App
	cache *services.AnalysisCache
	cfg   *config.Config
	db    *gorm.DB
}

func newTestApp(t *testing.T, opts ...func(*config.Config)) *testApp {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "nutrilog-routes-test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.FoodEntry{},
		&models.WaterIntake{},
		&models.NutritionTip{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	database.DB = db

	cfg := &config.Config{
		JWTSecret:        "route-test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
		CORSOrigins:      "*",
		UploadDir:        t.TempDir(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	authService := services.NewAuthService(db, cfg)
	ledgerService := services.NewLedgerService(db)
	statsService := services.NewStatsService(db)
	goalService := services.NewGoalService(db)
	adminService := services.NewAdminService(db)
	visionService := services.NewVisionService(cfg)
	cache := services.NewAnalysisCache(30*time.Minute, 16)

	app := fiber.New()
	Setup(app, cfg, db,
		handlers.NewAuthHandler(authService),
		handlers.NewHealthHandler(),
		handlers.NewNutritionHandler(ledgerService, goalService, cache),
		handlers.NewStatsHandler(statsService),
		handlers.NewAnalysisHandler(cfg, visionService, cache, ledgerService, goalService),
		handlers.NewProfileHandler(goalService),
		handlers.NewAdminHandler(adminService),
	)
	return &testApp{app: app, cache: cache, cfg: cfg, db: db}
}

func (ta *testApp) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ta.app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	resp.Body.Close()
	return out
}

func registerUser(t *testing.T, ta *testApp) string {
	t.Helper()
	resp := ta.request(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Username: "routeuser", Email: "route@example.com", Password: "password123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	auth := decodeJSON[dto.AuthResponse](t, resp)
	return auth.AccessToken
}

func TestProtectedRoutesRequireJWT(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.request(t, http.MethodGet, "/api/summary", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 without token", resp.StatusCode)
	}
}

func TestFoodLoggingAndDailySummaryFlow(t *testing.T) {
	ta := newTestApp(t)
	token := registerUser(t, ta)

	// Ranged calories normalize at ingestion.
	resp := ta.request(t, http.MethodPost, "/api/food", token, map[string]any{
		"food_description": "trail mix",
		"calories":         "250-300",
		"protein":          10,
		"date_logged":      "2025-06-01",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add food status = %d", resp.StatusCode)
	}
	entry := decodeJSON[dto.FoodEntryResponse](t, resp)
	if entry.Calories != 275 {
		t.Errorf("calories = %d, want normalized 275", entry.Calories)
	}

	resp = ta.request(t, http.MethodPost, "/api/food", token, map[string]any{
		"food_description": "soup",
		"calories":         1575,
		"date_logged":      "2025-06-01",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add food status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = ta.request(t, http.MethodGet, "/api/summary?date=2025-06-01", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary status = %d", resp.StatusCode)
	}
	summary := decodeJSON[dto.DailySummaryResponse](t, resp)
	if summary.Totals.Calories != 1850 {
		t.Errorf("total calories = %d, want 1850", summary.Totals.Calories)
	}
	// 1850 of the default 2000 goal.
	if summary.GoalPercents.Calories != 93 {
		t.Errorf("calorie percent = %d, want 93", summary.GoalPercents.Calories)
	}
	if len(summary.Entries) != 2 {
		t.Errorf("entries = %d, want 2", len(summary.Entries))
	}
}

func TestAddFoodFromCachedAnalysis(t *testing.T) {
	ta := newTestApp(t)
	token := registerUser(t, ta)

	id := ta.cache.Store(dto.FoodAnalysis{
		FoodDescription: "grilled salmon",
		Calories:        "350-400",
		Protein:         32.5,
		FoodCategory:    "fish",
		ImageURL:        "/uploads/salmon.jpg",
	})

	resp := ta.request(t, http.MethodPost, "/api/food", token, map[string]any{
		"analysis_id": id,
		"date_logged": "2025-06-01",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	entry := decodeJSON[dto.FoodEntryResponse](t, resp)
	if entry.Calories != 375 || entry.Protein != 32.5 {
		t.Errorf("entry = %+v, want normalized cached values", entry)
	}
	if !entry.AIAnalyzed {
		t.Error("entries from cached analyses must be flagged ai_analyzed")
	}
	if entry.ImageURL != "/uploads/salmon.jpg" {
		t.Errorf("image_url = %q, the analyzed photo reference must carry into the entry", entry.ImageURL)
	}

	// Unknown analysis ids fail the add.
	resp = ta.request(t, http.MethodPost, "/api/food", token, map[string]any{
		"analysis_id": "00000000-0000-0000-0000-000000000000",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for unknown analysis id", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestAnalyzeFoodStoresImageReference(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reply := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{
					"content": `{"food_description":"grilled salmon","calories":"350-400","protein":32.5}`,
				}},
			},
		}
		json.NewEncoder(w).Encode(reply)
	}))
	defer provider.Close()

	ta := newTestApp(t, func(cfg *config.Config) {
		cfg.OpenRouterAPIKey = "route-test-key"
		cfg.OpenRouterAPIURL = provider.URL
		cfg.OpenRouterModel = "test-model"
		cfg.AITimeout = 5 * time.Second
	})
	token := registerUser(t, ta)

	pngBytes := append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 32)...)
	resp := ta.request(t, http.MethodPost, "/api/analyze", token, dto.AnalyzeFoodRequest{
		ImageBase64: base64.StdEncoding.EncodeToString(pngBytes),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("analyze status = %d", resp.StatusCode)
	}
	analysis := decodeJSON[dto.AnalyzeFoodResponse](t, resp)
	if !strings.HasPrefix(analysis.Analysis.ImageURL, "/uploads/") {
		t.Fatalf("image_url = %q, want a stored upload reference", analysis.Analysis.ImageURL)
	}

	// The referenced file must exist and be served back.
	name := strings.TrimPrefix(analysis.Analysis.ImageURL, "/uploads/")
	if _, err := os.Stat(filepath.Join(ta.cfg.UploadDir, name)); err != nil {
		t.Errorf("stored upload missing: %v", err)
	}
	resp = ta.request(t, http.MethodGet, analysis.Analysis.ImageURL, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("upload fetch status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Confirming the analysis carries the reference into the entry.
	resp = ta.request(t, http.MethodPost, "/api/food", token, map[string]any{
		"analysis_id": analysis.AnalysisID,
		"date_logged": "2025-06-01",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add food status = %d", resp.StatusCode)
	}
	entry := decodeJSON[dto.FoodEntryResponse](t, resp)
	if entry.ImageURL != analysis.Analysis.ImageURL {
		t.Errorf("entry image_url = %q, want %q", entry.ImageURL, analysis.Analysis.ImageURL)
	}
}

func TestWaterValidationOverHTTP(t *testing.T) {
	ta := newTestApp(t)
	token := registerUser(t, ta)

	resp := ta.request(t, http.MethodPost, "/api/water", token, dto.AddWaterRequest{
		AmountML: -200, DateLogged: "2025-06-01",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for non-positive amount", resp.StatusCode)
	}
	resp.Body.Close()

	for _, amount := range []int{500, 700} {
		resp = ta.request(t, http.MethodPost, "/api/water", token, dto.AddWaterRequest{
			AmountML: amount, DateLogged: "2025-06-01",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d for %dml", resp.StatusCode, amount)
		}
		resp.Body.Close()
	}

	resp = ta.request(t, http.MethodGet, "/api/water?date=2025-06-01", token, nil)
	entries := decodeJSON[[]dto.WaterEntryResponse](t, resp)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].AmountML != 700 {
		t.Errorf("first entry = %dml, want the most recent 700ml", entries[0].AmountML)
	}
}

func TestGoalsUpdateOverHTTP(t *testing.T) {
	ta := newTestApp(t)
	token := registerUser(t, ta)

	resp := ta.request(t, http.MethodPut, "/api/goals", token, map[string]any{
		"calorie_goal": 1800,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	goals := decodeJSON[dto.GoalsResponse](t, resp)
	if goals.CalorieGoal != 1800 {
		t.Errorf("calorie goal = %d, want 1800", goals.CalorieGoal)
	}
	if goals.ProteinGoal != 150 {
		t.Errorf("protein goal = %d, untouched goals must keep defaults", goals.ProteinGoal)
	}
}

func TestAdminRoutesForbiddenForRegularUsers(t *testing.T) {
	ta := newTestApp(t)
	token := registerUser(t, ta)

	resp := ta.request(t, http.MethodGet, "/api/admin/users", token, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for non-admin", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestStatsEndpoints(t *testing.T) {
	ta := newTestApp(t)
	token := registerUser(t, ta)

	today := time.Now().UTC().Format("2006-01-02")
	resp := ta.request(t, http.MethodPost, "/api/food", token, map[string]any{
		"food_description": "omelette",
		"calories":         400,
		"protein":          25,
		"carbs":            5,
		"fat":              30,
		"food_category":    "dairy",
		"date_logged":      today,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add food status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = ta.request(t, http.MethodGet, "/api/stats/weekly", token, nil)
	weekly := decodeJSON[dto.WeeklyStatsResponse](t, resp)
	if weekly.DaysLogged != 1 || weekly.AvgCalories != 400 {
		t.Errorf("weekly = %+v, want 1 logged day at 400 kcal", weekly)
	}

	resp = ta.request(t, http.MethodGet, "/api/stats/trend?days=7", token, nil)
	trend := decodeJSON[[]dto.TrendPoint](t, resp)
	if len(trend) != 7 {
		t.Errorf("trend length = %d, want 7", len(trend))
	}

	resp = ta.request(t, http.MethodGet, "/api/stats/goal-achievement?days=7", token, nil)
	achievement := decodeJSON[dto.GoalAchievementResponse](t, resp)
	sum := achievement.WithinRange + achievement.Under + achievement.Over + achievement.NoData
	if sum != 7 {
		t.Errorf("bucket sum = %d, want 7", sum)
	}
}

func TestGoalAchievementMissingUserIsNotFound(t *testing.T) {
	ta := newTestApp(t)
	token := registerUser(t, ta)

	// The JWT outlives the account here.
	if err := ta.db.Where("email = ?", "route@example.com").Delete(&models.User{}).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}

	resp := ta.request(t, http.MethodGet, "/api/stats/goal-achievement", token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for a deleted account", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestHealthEndpoint(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.request(t, http.MethodGet, "/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	health := decodeJSON[dto.HealthResponse](t, resp)
	if health.Status != "ok" {
		t.Errorf("status = %q, want ok", health.Status)
	}
	if health.DB != "ok" {
		t.Errorf("db = %q, want ok", health.DB)
	}
}
