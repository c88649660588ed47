package nutrition

import (
	"testing"
	"time"

	"github.com/sadopc/lockin/internal/store"
)

var testCatalog = map[string]store.FoodItem{
	"food_1": {ID: "food_1", Name: "Chicken Breast", Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6},
	"food_3": {ID: "food_3", Name: "Whole Egg", Calories: 78, Protein: 6, Carbs: 0.6, Fat: 5},
	"food_6": {ID: "food_6", Name: "Whey Protein", Calories: 120, Protein: 24, Carbs: 3, Fat: 1.5},
}

func testLookup(id string) (store.FoodItem, bool) {
	f, ok := testCatalog[id]
	return f, ok
}

func logWith(date string, entries map[string][]store.LoggedFood) store.DailyLog {
	log := store.NewDailyLog(date)
	for i := range log.Meals {
		if foods, ok := entries[log.Meals[i].Name]; ok {
			log.Meals[i].Foods = foods
		}
	}
	return log
}

// ============================================================
// Totals
// ============================================================

func TestSumTotals(t *testing.T) {
	log := logWith("2024-05-06", map[string][]store.LoggedFood{
		"Breakfast": {{ID: "l1", FoodID: "food_3", Servings: 2}},
		"Lunch":     {{ID: "l2", FoodID: "food_1", Servings: 1.5}},
	})

	got := SumTotals(log, testLookup)

	if got.Calories != 2*78+1.5*165 {
		t.Errorf("calories: expected %v, got %v", 2*78+1.5*165, got.Calories)
	}
	if got.Protein != 2*6+1.5*31 {
		t.Errorf("protein: expected %v, got %v", 2*6+1.5*31, got.Protein)
	}
	if got.Fat != 2*5+1.5*3.6 {
		t.Errorf("fat: expected %v, got %v", 2*5+1.5*3.6, got.Fat)
	}
	if got.Carbs != 2*0.6 {
		t.Errorf("carbs: expected %v, got %v", 2*0.6, got.Carbs)
	}
}

func TestSumTotalsIgnoresMealOrder(t *testing.T) {
	a := logWith("2024-05-06", map[string][]store.LoggedFood{
		"Breakfast": {{ID: "l1", FoodID: "food_3", Servings: 1}},
		"Dinner":    {{ID: "l2", FoodID: "food_1", Servings: 1}},
	})
	b := logWith("2024-05-06", map[string][]store.LoggedFood{
		"Breakfast": {{ID: "l2", FoodID: "food_1", Servings: 1}},
		"Dinner":    {{ID: "l1", FoodID: "food_3", Servings: 1}},
	})

	if SumTotals(a, testLookup) != SumTotals(b, testLookup) {
		t.Fatal("totals should not depend on which meal holds an entry")
	}
}

func TestSumTotalsStaleFoodContributesZero(t *testing.T) {
	log := logWith("2024-05-06", map[string][]store.LoggedFood{
		"Lunch": {
			{ID: "l1", FoodID: "deleted_custom", Servings: 3},
			{ID: "l2", FoodID: "food_6", Servings: 1},
		},
	})

	got := SumTotals(log, testLookup)
	if got.Calories != 120 {
		t.Fatalf("stale entry should contribute zero: got %v kcal", got.Calories)
	}
}

func TestSumTotalsEmptyLog(t *testing.T) {
	got := SumTotals(store.NewDailyLog("2024-05-06"), testLookup)
	if got != (Totals{}) {
		t.Fatalf("expected zero totals, got %+v", got)
	}
}

// ============================================================
// Remaining
// ============================================================

func TestRemainingUnclamped(t *testing.T) {
	goals := store.UserGoals{CalorieTarget: 2000, ProteinTarget: 150, FatTarget: 70, CarbsTarget: 250}
	consumed := Totals{Calories: 2300, Protein: 100, Fat: 70, Carbs: 40}

	got := Remaining(consumed, goals)

	if got.Calories != -300 {
		t.Errorf("overshoot should go negative, got %v", got.Calories)
	}
	if got.Protein != 50 || got.Fat != 0 || got.Carbs != 210 {
		t.Errorf("unexpected remaining: %+v", got)
	}
}

// ============================================================
// Weekly achievement window
// ============================================================

func TestWeeklyAchievementWindow(t *testing.T) {
	goals := store.UserGoals{CalorieTarget: 100, StepTarget: 1000}
	end := time.Date(2024, 5, 12, 12, 0, 0, 0, time.UTC) // Sunday

	hit := logWith("2024-05-10", map[string][]store.LoggedFood{
		"Lunch": {{ID: "l1", FoodID: "food_6", Servings: 1}}, // 120 kcal
	})
	hit.Steps = 1200

	half := logWith("2024-05-11", map[string][]store.LoggedFood{
		"Lunch": {{ID: "l2", FoodID: "food_3", Servings: 1}}, // 78 kcal
	})
	half.Steps = 2000

	got := WeeklyAchievement([]store.DailyLog{half, hit}, goals, testLookup, end, 7)

	if len(got) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(got))
	}
	if got[0].Date != "2024-05-06" || got[6].Date != "2024-05-12" {
		t.Fatalf("wrong window bounds: %s .. %s", got[0].Date, got[6].Date)
	}

	// Oldest first, every day present even without a log
	for i := 1; i < len(got); i++ {
		if got[i].Date <= got[i-1].Date {
			t.Fatalf("window not in ascending order: %s after %s", got[i].Date, got[i-1].Date)
		}
	}

	// 2024-05-10: both goals met
	day := got[4]
	if day.CaloriePct != 120 || day.StepPct != 120 {
		t.Errorf("unexpected percentages: %+v", day)
	}
	if !day.Achieved {
		t.Error("both goals at 120% should be achieved")
	}

	// 2024-05-11: only steps met
	day = got[5]
	if day.Achieved {
		t.Error("calories at 78% should not be achieved")
	}

	// Missing day is all zeros
	if got[0].CaloriePct != 0 || got[0].StepPct != 0 || got[0].Achieved {
		t.Errorf("day without a log should be zero: %+v", got[0])
	}
}

func TestWeeklyAchievementZeroTargets(t *testing.T) {
	log := logWith("2024-05-06", map[string][]store.LoggedFood{
		"Lunch": {{ID: "l1", FoodID: "food_1", Servings: 2}},
	})
	log.Steps = 5000

	end := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	got := WeeklyAchievement([]store.DailyLog{log}, store.UserGoals{}, testLookup, end, 1)

	if got[0].CaloriePct != 0 || got[0].StepPct != 0 {
		t.Fatalf("zero targets should yield zero percent, got %+v", got[0])
	}
}

// ============================================================
// Steps and activity
// ============================================================

func TestMergeStepsLastWriteWins(t *testing.T) {
	log := store.NewDailyLog("2024-05-06")

	log = MergeSteps(log, 7540)
	if log.Steps != 7540 {
		t.Fatalf("expected 7540, got %d", log.Steps)
	}

	// A later sync of zero replaces, it does not max
	log = MergeSteps(log, 0)
	if log.Steps != 0 {
		t.Fatalf("expected 0 after overwrite, got %d", log.Steps)
	}
}

func TestActivityDerivations(t *testing.T) {
	got := Activity(7540)

	if got.Steps != 7540 {
		t.Errorf("steps: got %d", got.Steps)
	}
	if got.Miles != 3.8 {
		t.Errorf("miles: expected 3.8, got %v", got.Miles)
	}
	if got.CaloriesBurned != 302 {
		t.Errorf("calories burned: expected 302, got %d", got.CaloriesBurned)
	}
	if got.MoveMinutes != 75 {
		t.Errorf("move minutes: expected 75, got %d", got.MoveMinutes)
	}

	zero := Activity(0)
	if zero.Miles != 0 || zero.CaloriesBurned != 0 || zero.MoveMinutes != 0 {
		t.Errorf("zero steps should derive zeros: %+v", zero)
	}
}
