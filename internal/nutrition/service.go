package nutrition

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/lockin/internal/store"
)

// Service reads and writes daily logs. Reads synthesize the default shape
// for absent dates; nothing is persisted until the first write.
type Service struct {
	store *store.Store
}

func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// LogForDate returns the log for a date, synthesizing an empty one when
// none has been persisted. The synthesized log is not written.
func (s *Service) LogForDate(date string) (store.DailyLog, error) {
	log, err := s.store.GetLog(date)
	if err != nil {
		return store.DailyLog{}, err
	}
	if log == nil {
		return store.NewDailyLog(date), nil
	}
	return *log, nil
}

// TodayLog is LogForDate for the current date.
func (s *Service) TodayLog() (store.DailyLog, error) {
	return s.LogForDate(time.Now().Format("2006-01-02"))
}

// Upsert persists a complete log value, replacing by date.
func (s *Service) Upsert(log store.DailyLog) error {
	return s.store.UpsertLog(log)
}

// LogFood appends a food entry to the named meal of a date's log and
// persists the result.
func (s *Service) LogFood(date, mealName, foodID string, servings float64) (store.DailyLog, error) {
	log, err := s.LogForDate(date)
	if err != nil {
		return store.DailyLog{}, err
	}

	entry := store.LoggedFood{
		ID:       "logged-" + uuid.NewString(),
		FoodID:   foodID,
		Servings: servings,
		LoggedAt: time.Now(),
	}

	found := false
	for i := range log.Meals {
		if log.Meals[i].Name == mealName {
			log.Meals[i].Foods = append(log.Meals[i].Foods, entry)
			found = true
			break
		}
	}
	if !found {
		return store.DailyLog{}, fmt.Errorf("unknown meal %q", mealName)
	}

	if err := s.store.UpsertLog(log); err != nil {
		return store.DailyLog{}, err
	}
	return log, nil
}

// RemoveFood deletes a logged entry by id from the named meal. Removing an
// id that is not there leaves the log unchanged.
func (s *Service) RemoveFood(date, mealName, loggedID string) (store.DailyLog, error) {
	log, err := s.LogForDate(date)
	if err != nil {
		return store.DailyLog{}, err
	}

	for i := range log.Meals {
		if log.Meals[i].Name != mealName {
			continue
		}
		foods := log.Meals[i].Foods
		for j := range foods {
			if foods[j].ID == loggedID {
				log.Meals[i].Foods = append(foods[:j:j], foods[j+1:]...)
				if err := s.store.UpsertLog(log); err != nil {
					return store.DailyLog{}, err
				}
				return log, nil
			}
		}
	}
	return log, nil
}

// SetSteps overwrites the step count for a date and persists the result.
// Used by both manual entry and provider sync; last write wins.
func (s *Service) SetSteps(date string, steps int) (store.DailyLog, error) {
	log, err := s.LogForDate(date)
	if err != nil {
		return store.DailyLog{}, err
	}
	log = MergeSteps(log, steps)
	if err := s.store.UpsertLog(log); err != nil {
		return store.DailyLog{}, err
	}
	return log, nil
}

// Totals computes macro totals for a log against the food catalog.
func (s *Service) Totals(log store.DailyLog) Totals {
	return SumTotals(log, s.Lookup)
}

// Weekly computes the goal-achievement window ending at windowEnd.
func (s *Service) Weekly(windowEnd time.Time, windowSize int) ([]DayAchievement, error) {
	goals, err := s.store.GetGoals()
	if err != nil {
		return nil, err
	}
	from := windowEnd.AddDate(0, 0, -(windowSize - 1)).Format("2006-01-02")
	to := windowEnd.Format("2006-01-02")
	logs, err := s.store.LogsBetween(from, to)
	if err != nil {
		return nil, err
	}
	return WeeklyAchievement(logs, goals, s.Lookup, windowEnd, windowSize), nil
}

// Lookup adapts the store's food catalog to a FoodLookup.
func (s *Service) Lookup(foodID string) (store.FoodItem, bool) {
	f, err := s.store.LookupFood(foodID)
	if err != nil || f == nil {
		return store.FoodItem{}, false
	}
	return *f, true
}
