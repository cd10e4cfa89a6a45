package services

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/nutrilog/nutrilog-backend/internal/database"
	"github.com/nutrilog/nutrilog-backend/internal/dto"
	"github.com/nutrilog/nutrilog-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrInvalidAmount = errors.New("amount must be positive")
)

// LedgerService owns persistence of food entries, water intakes and tips.
type LedgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

// AddFoodEntry persists an already-normalized food entry.
func (s *LedgerService) AddFoodEntry(entry *models.FoodEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if err := s.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create food entry: %w", err)
	}
	return nil
}

func (s *LedgerService) AddWaterIntake(userID uuid.UUID, amountML int, date time.Time, now time.Time) (*models.WaterIntake, error) {
	if amountML <= 0 {
		return nil, ErrInvalidAmount
	}
	intake := models.WaterIntake{
		ID:         uuid.New(),
		UserID:     userID,
		AmountML:   amountML,
		DateLogged: date,
		TimeLogged: now,
	}
	if err := s.db.Create(&intake).Error; err != nil {
		return nil, fmt.Errorf("failed to create water intake: %w", err)
	}
	return &intake, nil
}

// DeleteFoodEntry removes an entry owned by userID. An ownership mismatch
// is reported identically to absence.
func (s *LedgerService) DeleteFoodEntry(userID, entryID uuid.UUID) error {
	result := s.db.Scopes(database.ForUser(userID)).
		Where("id = ?", entryID).
		Delete(&models.FoodEntry{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete food entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (s *LedgerService) DeleteWaterIntake(userID, entryID uuid.UUID) error {
	result := s.db.Scopes(database.ForUser(userID)).
		Where("id = ?", entryID).
		Delete(&models.WaterIntake{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete water intake: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// GetDailyNutrition sums the core nutrition fields for user+date and returns
// the raw entries alongside. Empty days yield zero totals, not an error.
func (s *LedgerService) GetDailyNutrition(userID uuid.UUID, date time.Time) (dto.DailyTotals, []models.FoodEntry, error) {
	var entries []models.FoodEntry
	err := s.db.Scopes(database.ForUser(userID), database.OnDate(date)).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return dto.DailyTotals{}, nil, fmt.Errorf("failed to load food entries: %w", err)
	}

	var totals dto.DailyTotals
	for _, e := range entries {
		totals.Calories += e.Calories
		totals.Protein += e.Protein
		totals.Carbs += e.Carbs
		totals.Fat += e.Fat
		totals.Fiber += e.Fiber
	}
	return totals, entries, nil
}

func (s *LedgerService) GetWaterIntake(userID uuid.UUID, date time.Time) (int, error) {
	var intakes []models.WaterIntake
	err := s.db.Scopes(database.ForUser(userID), database.OnDate(date)).
		Find(&intakes).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load water intakes: %w", err)
	}
	total := 0
	for _, w := range intakes {
		total += w.AmountML
	}
	return total, nil
}

// GetWaterEntries returns the day's water events most recent first. The
// ordering is a display contract.
func (s *LedgerService) GetWaterEntries(userID uuid.UUID, date time.Time) ([]models.WaterIntake, error) {
	var intakes []models.WaterIntake
	err := s.db.Scopes(database.ForUser(userID), database.OnDate(date)).
		Order("time_logged DESC").
		Find(&intakes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load water entries: %w", err)
	}
	return intakes, nil
}

// GetRecentEntries returns the newest food entries across all dates.
func (s *LedgerService) GetRecentEntries(userID uuid.UUID, limit int) ([]models.FoodEntry, error) {
	var entries []models.FoodEntry
	err := s.db.Scopes(database.ForUser(userID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent entries: %w", err)
	}
	return entries, nil
}

// GetNutritionTip picks a uniformly random active tip for the category,
// falling back to any active tip when the category has none. Returns nil
// when no active tips exist.
func (s *LedgerService) GetNutritionTip(category string) (*models.NutritionTip, error) {
	var tips []models.NutritionTip
	query := s.db.Where("is_active = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Find(&tips).Error; err != nil {
		return nil, fmt.Errorf("failed to load tips: %w", err)
	}

	if len(tips) == 0 && category != "" {
		if err := s.db.Where("is_active = ?", true).Find(&tips).Error; err != nil {
			return nil, fmt.Errorf("failed to load tips: %w", err)
		}
	}
	if len(tips) == 0 {
		return nil, nil
	}
	return &tips[rand.Intn(len(tips))], nil
}
