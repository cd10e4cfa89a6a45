package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/nutrilog/nutrilog-backend/internal/config"
	"github.com/nutrilog/nutrilog-backend/internal/handlers"
	"github.com/nutrilog/nutrilog-backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	nutritionHandler *handlers.NutritionHandler,
	statsHandler *handlers.StatsHandler,
	analysisHandler *handlers.AnalysisHandler,
	profileHandler *handlers.ProfileHandler,
	adminHandler *handlers.AdminHandler,
) {
	// Stored analysis photos referenced by food entries.
	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter 10 req/min limit
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Everything below requires a valid JWT.
	protected := api.Group("", middleware.JWTProtected(cfg))

	protected.Post("/food", nutritionHandler.AddFood)
	protected.Delete("/food/:id", nutritionHandler.DeleteFood)
	protected.Get("/food/recent", nutritionHandler.RecentEntries)
	protected.Post("/water", nutritionHandler.AddWater)
	protected.Get("/water", nutritionHandler.WaterEntries)
	protected.Delete("/water/:id", nutritionHandler.DeleteWater)
	protected.Get("/summary", nutritionHandler.DailySummary)
	protected.Get("/tips", nutritionHandler.Tip)
	protected.Get("/tips/personalized", analysisHandler.PersonalizedTip)

	protected.Get("/stats/weekly", statsHandler.Weekly)
	protected.Get("/stats/trend", statsHandler.Trend)
	protected.Get("/stats/macros", statsHandler.Macros)
	protected.Get("/stats/categories", statsHandler.Categories)
	protected.Get("/stats/goal-achievement", statsHandler.GoalAchievement)
	protected.Get("/stats/week-over-week", statsHandler.WeekOverWeek)

	protected.Post("/analyze", analysisHandler.AnalyzeFood)
	protected.Get("/analyze/:id", analysisHandler.GetAnalysis)

	protected.Get("/goals", profileHandler.GetGoals)
	protected.Put("/goals", profileHandler.UpdateGoals)

	// Admin panel (JWT + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/users", adminHandler.ListUsers)
	admin.Post("/users", adminHandler.CreateUser)
	admin.Put("/users/:id", adminHandler.UpdateUser)
	admin.Post("/users/:id/toggle-suspension", adminHandler.ToggleSuspension)
	admin.Delete("/users/:id", adminHandler.DeleteUser)
}
