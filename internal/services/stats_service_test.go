package services

import (
	"testing"
)

func TestWeeklyStatsDividesByDaysLogged(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)
	user := createTestUser(t, db)
	today := mustDate(t, "2025-06-07")

	// Entries on only 2 of the 7 window days, totaling 2000 kcal.
	addFood(t, db, user.ID, mustDate(t, "2025-06-02"), 1200, 60, 100, 40, "grain")
	addFood(t, db, user.ID, mustDate(t, "2025-06-05"), 500, 20, 30, 10, "meat")
	addFood(t, db, user.ID, mustDate(t, "2025-06-05"), 300, 10, 10, 5, "fruit")

	stats, err := svc.WeeklyStats(user.ID, 7, today)
	if err != nil {
		t.Fatalf("WeeklyStats: %v", err)
	}
	if stats.DaysLogged != 2 {
		t.Errorf("days logged = %d, want 2", stats.DaysLogged)
	}
	if stats.AvgCalories != 1000 {
		t.Errorf("avg calories = %v, want 1000 (2000 over 2 logged days, not 7)", stats.AvgCalories)
	}
	if stats.AvgProtein != 45 {
		t.Errorf("avg protein = %v, want 45", stats.AvgProtein)
	}
}

func TestWeeklyStatsNoEntriesIsAllZero(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)
	user := createTestUser(t, db)

	stats, err := svc.WeeklyStats(user.ID, 7, mustDate(t, "2025-06-07"))
	if err != nil {
		t.Fatalf("WeeklyStats: %v", err)
	}
	if stats.DaysLogged != 0 || stats.AvgCalories != 0 || stats.AvgWater != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestTrendSeriesHasExactLengthAndZeroFill(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)
	user := createTestUser(t, db)
	today := mustDate(t, "2025-06-07")

	addFood(t, db, user.ID, mustDate(t, "2025-06-05"), 800, 40, 60, 20, "grain")

	series, err := svc.TrendSeries(user.ID, 5, today)
	if err != nil {
		t.Fatalf("TrendSeries: %v", err)
	}
	if len(series) != 5 {
		t.Fatalf("series length = %d, want 5", len(series))
	}
	if series[0].Date != "2025-06-03" || series[4].Date != "2025-06-07" {
		t.Errorf("series range = %s..%s, want 2025-06-03..2025-06-07", series[0].Date, series[4].Date)
	}
	for i, p := range series {
		if p.Date == "2025-06-05" {
			if p.Calories != 800 {
				t.Errorf("logged day calories = %d, want 800", p.Calories)
			}
		} else if p.Calories != 0 {
			t.Errorf("point %d (%s) calories = %d, want 0", i, p.Date, p.Calories)
		}
	}
}

func TestMacroDistributionSumsToHundred(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)
	user := createTestUser(t, db)
	today := mustDate(t, "2025-06-07")

	addFood(t, db, user.ID, today, 500, 50, 30, 20, "meat")

	dist, err := svc.MacroDistribution(user.ID, 7, today)
	if err != nil {
		t.Fatalf("MacroDistribution: %v", err)
	}
	if dist.ProteinPercent != 50 || dist.CarbsPercent != 30 || dist.FatPercent != 20 {
		t.Errorf("distribution = %+v, want 50/30/20", dist)
	}
	sum := dist.ProteinPercent + dist.CarbsPercent + dist.FatPercent
	if sum < 99.9 || sum > 100.1 {
		t.Errorf("percentages sum = %v, want ~100", sum)
	}
}

func TestMacroDistributionZeroMass(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)
	user := createTestUser(t, db)
	today := mustDate(t, "2025-06-07")

	// Calories without macro grams.
	addFood(t, db, user.ID, today, 150, 0, 0, 0, "other")

	dist, err := svc.MacroDistribution(user.ID, 7, today)
	if err != nil {
		t.Fatalf("MacroDistribution: %v", err)
	}
	if dist.ProteinPercent != 0 || dist.CarbsPercent != 0 || dist.FatPercent != 0 {
		t.Errorf("distribution = %+v, want all zeros when macro mass is 0", dist)
	}
}

func TestFoodCategoryBreakdownOmitsEmptyCategories(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)
	user := createTestUser(t, db)
	today := mustDate(t, "2025-06-07")

	addFood(t, db, user.ID, today, 700, 10, 10, 10, "grain")
	addFood(t, db, user.ID, today, 300, 10, 10, 10, "fruit")
	addFood(t, db, user.ID, mustDate(t, "2025-06-06"), 200, 5, 5, 5, "fruit")

	breakdown, err := svc.FoodCategoryBreakdown(user.ID, 7, today)
	if err != nil {
		t.Fatalf("FoodCategoryBreakdown: %v", err)
	}
	if len(breakdown) != 2 {
		t.Fatalf("breakdown size = %d, want 2 (empty categories omitted)", len(breakdown))
	}
	if breakdown[0].Category != "grain" || breakdown[0].Calories != 700 {
		t.Errorf("first = %+v, want grain/700", breakdown[0])
	}
	if breakdown[1].Category != "fruit" || breakdown[1].Calories != 500 {
		t.Errorf("second = %+v, want fruit/500", breakdown[1])
	}
}

func TestGoalAchievementBucketsSumToDays(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)
	user := createTestUser(t, db) // calorie goal 2000

	today := mustDate(t, "2025-06-04")
	addFood(t, db, user.ID, mustDate(t, "2025-06-01"), 2050, 0, 0, 0, "other") // within ±10%
	addFood(t, db, user.ID, mustDate(t, "2025-06-02"), 1000, 0, 0, 0, "other") // under
	addFood(t, db, user.ID, mustDate(t, "2025-06-03"), 2500, 0, 0, 0, "other") // over
	// 2025-06-04 left unlogged.

	resp, err := svc.GoalAchievement(user.ID, 4, today)
	if err != nil {
		t.Fatalf("GoalAchievement: %v", err)
	}
	if resp.WithinRange != 1 || resp.Under != 1 || resp.Over != 1 || resp.NoData != 1 {
		t.Errorf("buckets = %+v, want within/under/over/noData all 1", resp)
	}
	if got := resp.WithinRange + resp.Under + resp.Over + resp.NoData; got != 4 {
		t.Errorf("bucket sum = %d, want 4", got)
	}
}

func TestGoalAchievementBoundaryValuesAreWithin(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)
	user := createTestUser(t, db)

	today := mustDate(t, "2025-06-02")
	addFood(t, db, user.ID, mustDate(t, "2025-06-01"), 1800, 0, 0, 0, "other") // exactly 90%
	addFood(t, db, user.ID, mustDate(t, "2025-06-02"), 2200, 0, 0, 0, "other") // exactly 110%

	resp, err := svc.GoalAchievement(user.ID, 2, today)
	if err != nil {
		t.Fatalf("GoalAchievement: %v", err)
	}
	if resp.WithinRange != 2 {
		t.Errorf("buckets = %+v, want both boundary days within range", resp)
	}
}

func TestWeekOverWeekChange(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)
	user := createTestUser(t, db)

	// 2025-06-04 is a Wednesday; current week starts Monday 2025-06-02.
	today := mustDate(t, "2025-06-04")
	addFood(t, db, user.ID, mustDate(t, "2025-05-26"), 1000, 50, 0, 0, "other")
	addFood(t, db, user.ID, mustDate(t, "2025-05-28"), 2000, 50, 0, 0, "other")
	addFood(t, db, user.ID, mustDate(t, "2025-06-02"), 1800, 40, 0, 0, "other")

	resp, err := svc.WeekOverWeekChange(user.ID, today)
	if err != nil {
		t.Fatalf("WeekOverWeekChange: %v", err)
	}
	// Previous per-entry averages: 1500 kcal, 50g protein.
	// Current: 1800 kcal (+20%), 40g protein (-20%).
	if resp.Calories != 20 {
		t.Errorf("calories change = %v, want 20", resp.Calories)
	}
	if resp.Protein != -20 {
		t.Errorf("protein change = %v, want -20", resp.Protein)
	}
	// No carbs/fat last week: previous average 0 reports 0 change.
	if resp.Carbs != 0 || resp.Fat != 0 {
		t.Errorf("carbs/fat change = %v/%v, want 0/0 when previous average is 0", resp.Carbs, resp.Fat)
	}
}

func TestWeekOverWeekNoPreviousDataIsZero(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)
	user := createTestUser(t, db)

	today := mustDate(t, "2025-06-04")
	addFood(t, db, user.ID, mustDate(t, "2025-06-03"), 1500, 30, 40, 10, "other")

	resp, err := svc.WeekOverWeekChange(user.ID, today)
	if err != nil {
		t.Fatalf("WeekOverWeekChange: %v", err)
	}
	if resp.Calories != 0 || resp.Protein != 0 {
		t.Errorf("change = %+v, want zeros with an empty previous week", resp)
	}
}
