// Package nutrition derives nutrition and activity rollups from raw daily
// logs. Everything here is a pure projection; logs are only ever written
// through the service's upsert path.
package nutrition

import (
	"math"
	"time"

	"github.com/sadopc/lockin/internal/store"
)

// FoodLookup resolves a food id to its catalog entry. ok is false for a
// stale reference (for example a deleted custom food); such entries
// contribute zero.
type FoodLookup func(foodID string) (store.FoodItem, bool)

// Totals are macros consumed over one day.
type Totals struct {
	Calories float64
	Protein  float64
	Fat      float64
	Carbs    float64
}

// SumTotals folds every logged food in every meal into macro totals,
// scaling each catalog entry by servings. Order of entries does not matter.
func SumTotals(log store.DailyLog, lookup FoodLookup) Totals {
	var t Totals
	for _, meal := range log.Meals {
		for _, lf := range meal.Foods {
			food, ok := lookup(lf.FoodID)
			if !ok {
				continue
			}
			t.Calories += food.Calories * lf.Servings
			t.Protein += food.Protein * lf.Servings
			t.Fat += food.Fat * lf.Servings
			t.Carbs += food.Carbs * lf.Servings
		}
	}
	return t
}

// Remaining is goal minus consumed per macro, unclamped. Negative values
// mean the target was exceeded; clamping is a display decision.
func Remaining(t Totals, g store.UserGoals) Totals {
	return Totals{
		Calories: g.CalorieTarget - t.Calories,
		Protein:  g.ProteinTarget - t.Protein,
		Fat:      g.FatTarget - t.Fat,
		Carbs:    g.CarbsTarget - t.Carbs,
	}
}

// DayAchievement is one day of the goal-achievement window.
type DayAchievement struct {
	Date       string
	CaloriePct float64
	StepPct    float64
	Achieved   bool
}

// WeeklyAchievement computes goal achievement for windowSize consecutive
// days ending at windowEnd, oldest first. Days with no log count as zero;
// a zero target yields zero percent.
func WeeklyAchievement(logs []store.DailyLog, goals store.UserGoals, lookup FoodLookup, windowEnd time.Time, windowSize int) []DayAchievement {
	byDate := make(map[string]store.DailyLog, len(logs))
	for _, log := range logs {
		byDate[log.Date] = log
	}

	out := make([]DayAchievement, 0, windowSize)
	for i := windowSize - 1; i >= 0; i-- {
		date := windowEnd.AddDate(0, 0, -i).Format("2006-01-02")

		var calories float64
		var steps int
		if log, ok := byDate[date]; ok {
			calories = SumTotals(log, lookup).Calories
			steps = log.Steps
		}

		var caloriePct, stepPct float64
		if goals.CalorieTarget > 0 {
			caloriePct = calories / goals.CalorieTarget * 100
		}
		if goals.StepTarget > 0 {
			stepPct = float64(steps) / float64(goals.StepTarget) * 100
		}

		out = append(out, DayAchievement{
			Date:       date,
			CaloriePct: caloriePct,
			StepPct:    stepPct,
			Achieved:   caloriePct >= 100 && stepPct >= 100,
		})
	}
	return out
}

// MergeSteps replaces the log's step count with a freshly fetched value.
// Last write wins; there is no reconciliation with manual entries.
func MergeSteps(log store.DailyLog, steps int) store.DailyLog {
	log.Steps = steps
	return log
}

// ActivityStats are the values derived from a raw step count.
type ActivityStats struct {
	Steps          int
	Miles          float64
	CaloriesBurned int
	MoveMinutes    int
}

// Activity derives distance, burn and move minutes from steps using the
// same factors the step card has always used: 2000 steps per mile,
// 0.04 kcal per step, 100 steps per move minute.
func Activity(steps int) ActivityStats {
	return ActivityStats{
		Steps:          steps,
		Miles:          math.Round(float64(steps)/2000*10) / 10,
		CaloriesBurned: int(math.Round(float64(steps) * 0.04)),
		MoveMinutes:    int(math.Round(float64(steps) / 100)),
	}
}
