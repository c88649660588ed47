package store

import "time"

type WeightUnit string

const (
	UnitKG  WeightUnit = "kg"
	UnitLBS WeightUnit = "lbs"
)

// TemplateExercise references a catalog exercise inside a weekly template.
type TemplateExercise struct {
	ExerciseID  string `json:"exercise_id"`
	DefaultSets int    `json:"default_sets"`
	DefaultReps string `json:"default_reps"`
}

// WorkoutTemplate is a reusable workout definition keyed by day of week
// ("Sunday".."Saturday").
type WorkoutTemplate struct {
	ID        string
	Title     string
	DayOfWeek string
	Exercises []TemplateExercise
}

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in-progress"
	SessionCompleted  SessionStatus = "completed"
)

type SetEntry struct {
	ID          string     `json:"id"`
	Reps        int        `json:"reps"`
	Weight      float64    `json:"weight"`
	Volume      float64    `json:"volume"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// SessionExercise carries a snapshot of the catalog name and muscle group
// taken at session creation. Later catalog edits do not touch it.
type SessionExercise struct {
	ID          string     `json:"id"` // source exercise id
	Name        string     `json:"name"`
	MuscleGroup string     `json:"muscle_group"`
	Sets        []SetEntry `json:"sets"`
}

// Session is one calendar day's workout, instantiated from a template.
// At most one session exists per date.
type Session struct {
	ID          string
	Date        string // YYYY-MM-DD
	TemplateID  string
	Exercises   []SessionExercise
	Status      SessionStatus
	TotalVolume float64
	Unit        WeightUnit
	CompletedAt *time.Time
}

type LoggedFood struct {
	ID       string    `json:"id"`
	FoodID   string    `json:"food_id"`
	Servings float64   `json:"servings"`
	LoggedAt time.Time `json:"logged_at"`
}

type Meal struct {
	Name  string       `json:"name"`
	Foods []LoggedFood `json:"foods"`
}

// MealNames is the fixed meal order of every daily log.
var MealNames = []string{"Breakfast", "Lunch", "Dinner", "Snacks"}

// DailyLog is one calendar day's nutrition and activity record.
type DailyLog struct {
	Date  string
	Meals []Meal
	Steps int
}

// NewDailyLog returns the default-shape log for a date: the four fixed
// meals, all empty, zero steps.
func NewDailyLog(date string) DailyLog {
	meals := make([]Meal, 0, len(MealNames))
	for _, name := range MealNames {
		meals = append(meals, Meal{Name: name, Foods: []LoggedFood{}})
	}
	return DailyLog{Date: date, Meals: meals}
}

type UserGoals struct {
	CalorieTarget        float64
	ProteinTarget        float64
	FatTarget            float64
	CarbsTarget          float64
	StepTarget           int
	MilesTarget          float64
	CaloriesBurnedTarget int
	MoveMinutesTarget    int
}

// DefaultGoals are the targets a user starts with before editing them.
func DefaultGoals() UserGoals {
	return UserGoals{
		CalorieTarget:        2000,
		ProteinTarget:        150,
		FatTarget:            70,
		CarbsTarget:          250,
		StepTarget:           10000,
		MilesTarget:          5,
		CaloriesBurnedTarget: 400,
		MoveMinutesTarget:    100,
	}
}

type Exercise struct {
	ID          string
	Name        string
	MuscleGroup string
}

type FoodItem struct {
	ID          string
	Name        string
	Calories    float64
	Protein     float64
	Carbs       float64
	Fat         float64
	ServingSize string
	Custom      bool
}

// Credential holds the step provider's OAuth state. The store persists it
// whole; only the provider interprets it.
type Credential struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Scope        string
}
