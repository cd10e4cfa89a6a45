package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/nutrilog/nutrilog-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "nutrilog-test.db")
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
	return db
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:          uuid.New(),
		Username:    "user-" + uuid.NewString()[:8],
		Email:       uuid.NewString()[:8] + "@example.com",
		Password:    "irrelevant",
		IsActive:    true,
		CalorieGoal: models.DefaultCalorieGoal,
		ProteinGoal: models.DefaultProteinGoal,
		CarbsGoal:   models.DefaultCarbsGoal,
		FatGoal:     models.DefaultFatGoal,
		FiberGoal:   models.DefaultFiberGoal,
		WaterGoal:   models.DefaultWaterGoal,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func addFood(t *testing.T, db *gorm.DB, userID uuid.UUID, date time.Time, calories int, protein, carbs, fat float64, category string) *models.FoodEntry {
	t.Helper()
	entry := &models.FoodEntry{
		ID:              uuid.New(),
		UserID:          userID,
		FoodDescription: "test food",
		Calories:        calories,
		Protein:         protein,
		Carbs:           carbs,
		Fat:             fat,
		Quantity:        1,
		Unit:            "serving",
		MealType:        "other",
		FoodCategory:    category,
		DateLogged:      date,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("create food entry: %v", err)
	}
	return entry
}
