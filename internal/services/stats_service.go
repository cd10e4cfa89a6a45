package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/nutrilog/nutrilog-backend/internal/database"
	"github.com/nutrilog/nutrilog-backend/internal/dto"
	"github.com/nutrilog/nutrilog-backend/internal/models"
	"gorm.io/gorm"
)

// StatsService builds derived views over the ledger. Methods take `today`
// explicitly so callers and tests control the aggregation window.
type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func (s *StatsService) entriesInWindow(userID uuid.UUID, start, end time.Time) ([]models.FoodEntry, error) {
	var entries []models.FoodEntry
	err := s.db.Scopes(database.ForUser(userID), database.InDateRange(start, end)).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load food entries: %w", err)
	}
	return entries, nil
}

func (s *StatsService) waterInWindow(userID uuid.UUID, start, end time.Time) ([]models.WaterIntake, error) {
	var intakes []models.WaterIntake
	err := s.db.Scopes(database.ForUser(userID), database.InDateRange(start, end)).
		Find(&intakes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load water intakes: %w", err)
	}
	return intakes, nil
}

// WeeklyStats averages each metric over the distinct days that have at least
// one food entry, not over the window length. A user who logs 2 of 7 days
// gets averages over those 2 days.
func (s *StatsService) WeeklyStats(userID uuid.UUID, days int, today time.Time) (dto.WeeklyStatsResponse, error) {
	today = truncateDate(today)
	start := today.AddDate(0, 0, -(days - 1))

	entries, err := s.entriesInWindow(userID, start, today)
	if err != nil {
		return dto.WeeklyStatsResponse{}, err
	}
	intakes, err := s.waterInWindow(userID, start, today)
	if err != nil {
		return dto.WeeklyStatsResponse{}, err
	}

	loggedDays := make(map[string]bool)
	var calories, protein, carbs, fat float64
	for _, e := range entries {
		loggedDays[dateKey(e.DateLogged)] = true
		calories += float64(e.Calories)
		protein += e.Protein
		carbs += e.Carbs
		fat += e.Fat
	}
	var water float64
	for _, w := range intakes {
		water += float64(w.AmountML)
	}

	resp := dto.WeeklyStatsResponse{Days: days, DaysLogged: len(loggedDays)}
	if resp.DaysLogged == 0 {
		return resp, nil
	}
	n := float64(resp.DaysLogged)
	resp.AvgCalories = round1(calories / n)
	resp.AvgProtein = round1(protein / n)
	resp.AvgCarbs = round1(carbs / n)
	resp.AvgFat = round1(fat / n)
	resp.AvgWater = round1(water / n)
	return resp, nil
}

// TrendSeries returns exactly `days` chronological points, zero-filled for
// days without entries.
func (s *StatsService) TrendSeries(userID uuid.UUID, days int, today time.Time) ([]dto.TrendPoint, error) {
	today = truncateDate(today)
	start := today.AddDate(0, 0, -(days - 1))

	entries, err := s.entriesInWindow(userID, start, today)
	if err != nil {
		return nil, err
	}
	intakes, err := s.waterInWindow(userID, start, today)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*dto.TrendPoint, days)
	series := make([]dto.TrendPoint, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		series[i] = dto.TrendPoint{Date: dateKey(d)}
		byDay[series[i].Date] = &series[i]
	}

	for _, e := range entries {
		if p, ok := byDay[dateKey(e.DateLogged)]; ok {
			p.Calories += e.Calories
			p.Protein += e.Protein
			p.Carbs += e.Carbs
			p.Fat += e.Fat
		}
	}
	for _, w := range intakes {
		if p, ok := byDay[dateKey(w.DateLogged)]; ok {
			p.WaterML += w.AmountML
		}
	}
	return series, nil
}

// MacroDistribution expresses each macro as a percentage of total macro gram
// mass. All zeros when nothing was logged.
func (s *StatsService) MacroDistribution(userID uuid.UUID, days int, today time.Time) (dto.MacroDistributionResponse, error) {
	today = truncateDate(today)
	start := today.AddDate(0, 0, -(days - 1))

	entries, err := s.entriesInWindow(userID, start, today)
	if err != nil {
		return dto.MacroDistributionResponse{}, err
	}

	var protein, carbs, fat float64
	for _, e := range entries {
		protein += e.Protein
		carbs += e.Carbs
		fat += e.Fat
	}
	total := protein + carbs + fat
	if total == 0 {
		return dto.MacroDistributionResponse{}, nil
	}
	return dto.MacroDistributionResponse{
		ProteinPercent: round1(protein / total * 100),
		CarbsPercent:   round1(carbs / total * 100),
		FatPercent:     round1(fat / total * 100),
	}, nil
}

// FoodCategoryBreakdown sums calories per category over the window.
// Categories without entries are omitted; output is ordered by calories
// descending, then category name.
func (s *StatsService) FoodCategoryBreakdown(userID uuid.UUID, days int, today time.Time) ([]dto.CategoryCalories, error) {
	today = truncateDate(today)
	start := today.AddDate(0, 0, -(days - 1))

	entries, err := s.entriesInWindow(userID, start, today)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]int)
	for _, e := range entries {
		byCategory[e.FoodCategory] += e.Calories
	}

	result := make([]dto.CategoryCalories, 0, len(byCategory))
	for category, cals := range byCategory {
		result = append(result, dto.CategoryCalories{Category: category, Calories: cals})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Calories != result[j].Calories {
			return result[i].Calories > result[j].Calories
		}
		return result[i].Category < result[j].Category
	})
	return result, nil
}

// GoalAchievement classifies each day's calorie total against the user's
// current calorie goal: within ±10% inclusive, under below 90%, over above
// 110%. Unlogged days count as no-data; the buckets always sum to `days`.
func (s *StatsService) GoalAchievement(userID uuid.UUID, days int, today time.Time) (dto.GoalAchievementResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return dto.GoalAchievementResponse{}, ErrUserNotFound
	}

	today = truncateDate(today)
	start := today.AddDate(0, 0, -(days - 1))

	entries, err := s.entriesInWindow(userID, start, today)
	if err != nil {
		return dto.GoalAchievementResponse{}, err
	}

	dailyCalories := make(map[string]int)
	for _, e := range entries {
		dailyCalories[dateKey(e.DateLogged)] += e.Calories
	}

	resp := dto.GoalAchievementResponse{Days: days}
	goal := float64(user.CalorieGoal)
	for _, total := range dailyCalories {
		actual := float64(total)
		switch {
		case actual < goal*0.9:
			resp.Under++
		case actual > goal*1.1:
			resp.Over++
		default:
			resp.WithinRange++
		}
	}
	resp.NoData = days - len(dailyCalories)
	return resp, nil
}

// WeekOverWeekChange compares per-entry metric averages of the current
// Monday-start week against the preceding week. Percent change is rounded
// to 1 decimal and defined as 0 when the previous average is 0 or absent.
func (s *StatsService) WeekOverWeekChange(userID uuid.UUID, today time.Time) (dto.WeekOverWeekResponse, error) {
	today = truncateDate(today)
	offset := (int(today.Weekday()) + 6) % 7
	currentMonday := today.AddDate(0, 0, -offset)
	previousMonday := currentMonday.AddDate(0, 0, -7)

	current, err := s.entriesInWindow(userID, currentMonday, today)
	if err != nil {
		return dto.WeekOverWeekResponse{}, err
	}
	previous, err := s.entriesInWindow(userID, previousMonday, currentMonday.AddDate(0, 0, -1))
	if err != nil {
		return dto.WeekOverWeekResponse{}, err
	}

	curCal, curPro, curCarb, curFat := entryAverages(current)
	prevCal, prevPro, prevCarb, prevFat := entryAverages(previous)

	return dto.WeekOverWeekResponse{
		Calories: percentChange(curCal, prevCal),
		Protein:  percentChange(curPro, prevPro),
		Carbs:    percentChange(curCarb, prevCarb),
		Fat:      percentChange(curFat, prevFat),
	}, nil
}

// entryAverages computes per-entry means, matching SQL AVG over the rows.
func entryAverages(entries []models.FoodEntry) (calories, protein, carbs, fat float64) {
	if len(entries) == 0 {
		return 0, 0, 0, 0
	}
	for _, e := range entries {
		calories += float64(e.Calories)
		protein += e.Protein
		carbs += e.Carbs
		fat += e.Fat
	}
	n := float64(len(entries))
	return calories / n, protein / n, carbs / n, fat / n
}

func percentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return round1((current - previous) / previous * 100)
}
