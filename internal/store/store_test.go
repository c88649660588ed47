package store

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Should have run migration v1
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/lockin.db"
	s, err := New(path, "local")
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen — should succeed and not re-migrate
	s2, err := New(path, "local")
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

// ============================================================
// Templates
// ============================================================

func TestSaveTemplatesPreservesOrder(t *testing.T) {
	s := newTestStore(t)

	in := []WorkoutTemplate{
		{ID: "t1", Title: "Push", DayOfWeek: "Monday", Exercises: []TemplateExercise{
			{ExerciseID: "chest_4", DefaultSets: 3, DefaultReps: "8-12"},
		}},
		{ID: "t2", Title: "Pull", DayOfWeek: "Wednesday"},
		{ID: "t3", Title: "Legs", DayOfWeek: "Friday"},
	}
	if err := s.SaveTemplates(in); err != nil {
		t.Fatalf("save templates: %v", err)
	}

	out, err := s.ListTemplates()
	if err != nil {
		t.Fatalf("list templates: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 templates, got %d", len(out))
	}
	for i, want := range []string{"Push", "Pull", "Legs"} {
		if out[i].Title != want {
			t.Errorf("position %d: expected %q, got %q", i, want, out[i].Title)
		}
	}
	if len(out[0].Exercises) != 1 || out[0].Exercises[0].ExerciseID != "chest_4" {
		t.Errorf("exercises not round-tripped: %+v", out[0].Exercises)
	}
	if out[0].Exercises[0].DefaultReps != "8-12" {
		t.Errorf("rep range not round-tripped: %q", out[0].Exercises[0].DefaultReps)
	}
}

func TestSaveTemplatesOverwrites(t *testing.T) {
	s := newTestStore(t)

	s.SaveTemplates([]WorkoutTemplate{{ID: "t1", Title: "Push", DayOfWeek: "Monday"}})
	s.SaveTemplates([]WorkoutTemplate{{ID: "t2", Title: "Pull", DayOfWeek: "Tuesday"}})

	out, _ := s.ListTemplates()
	if len(out) != 1 || out[0].ID != "t2" {
		t.Fatalf("expected only t2 after overwrite, got %+v", out)
	}
}

// ============================================================
// Sessions
// ============================================================

func TestUpsertSessionReplacesByID(t *testing.T) {
	s := newTestStore(t)

	sess := Session{
		ID:     "session-1",
		Date:   "2024-05-06",
		Status: SessionInProgress,
		Unit:   UnitKG,
		Exercises: []SessionExercise{
			{ID: "chest_4", Name: "Bench Press", MuscleGroup: "Chest", Sets: []SetEntry{
				{ID: "set-1", Reps: 8, Weight: 80, Volume: 640},
			}},
		},
	}
	if err := s.UpsertSession(sess); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	sess.Status = SessionCompleted
	sess.TotalVolume = 640
	if err := s.UpsertSession(sess); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := s.GetSession("session-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("session not found")
	}
	if got.Status != SessionCompleted || got.TotalVolume != 640 {
		t.Errorf("replace failed: %+v", got)
	}
	if len(got.Exercises) != 1 || got.Exercises[0].Sets[0].Volume != 640 {
		t.Errorf("exercises not round-tripped: %+v", got.Exercises)
	}
}

func TestGetSessionByDate(t *testing.T) {
	s := newTestStore(t)

	s.UpsertSession(Session{ID: "session-1", Date: "2024-05-06", Status: SessionInProgress, Unit: UnitKG})

	got, err := s.GetSessionByDate("2024-05-06")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.ID != "session-1" {
		t.Fatalf("expected session-1, got %+v", got)
	}

	missing, err := s.GetSessionByDate("2024-05-07")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Fatalf("expected nil for absent date, got %+v", missing)
	}
}

func TestListSessionsNewestFirst(t *testing.T) {
	s := newTestStore(t)

	s.UpsertSession(Session{ID: "a", Date: "2024-05-06", Status: SessionCompleted, Unit: UnitKG})
	s.UpsertSession(Session{ID: "b", Date: "2024-05-08", Status: SessionCompleted, Unit: UnitKG})
	s.UpsertSession(Session{ID: "c", Date: "2024-05-07", Status: SessionCompleted, Unit: UnitKG})

	out, err := s.ListSessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(out))
	}
	for i, want := range []string{"2024-05-08", "2024-05-07", "2024-05-06"} {
		if out[i].Date != want {
			t.Errorf("position %d: expected %s, got %s", i, want, out[i].Date)
		}
	}
}

// ============================================================
// Daily logs
// ============================================================

func TestGetLogAbsentIsNil(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetLog("2024-05-06")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestUpsertLogReplacesByDate(t *testing.T) {
	s := newTestStore(t)

	log := NewDailyLog("2024-05-06")
	log.Steps = 5000
	if err := s.UpsertLog(log); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	log.Steps = 7540
	log.Meals[0].Foods = append(log.Meals[0].Foods, LoggedFood{
		ID: "logged-1", FoodID: "food_3", Servings: 2, LoggedAt: time.Now(),
	})
	if err := s.UpsertLog(log); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := s.GetLog("2024-05-06")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("log not found")
	}
	if got.Steps != 7540 {
		t.Errorf("expected 7540 steps, got %d", got.Steps)
	}
	if len(got.Meals) != 4 {
		t.Fatalf("expected 4 meals, got %d", len(got.Meals))
	}
	if len(got.Meals[0].Foods) != 1 || got.Meals[0].Foods[0].FoodID != "food_3" {
		t.Errorf("meals not round-tripped: %+v", got.Meals[0])
	}
}

func TestLogsBetween(t *testing.T) {
	s := newTestStore(t)

	for _, date := range []string{"2024-05-04", "2024-05-06", "2024-05-08"} {
		log := NewDailyLog(date)
		s.UpsertLog(log)
	}

	out, err := s.LogsBetween("2024-05-05", "2024-05-08")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(out))
	}
	if out[0].Date != "2024-05-06" || out[1].Date != "2024-05-08" {
		t.Errorf("wrong order or range: %s, %s", out[0].Date, out[1].Date)
	}
}

// ============================================================
// Catalogs
// ============================================================

func TestCatalogSeeded(t *testing.T) {
	s := newTestStore(t)

	e, err := s.LookupExercise("chest_4")
	if err != nil {
		t.Fatal(err)
	}
	if e == nil || e.Name != "Bench Press" || e.MuscleGroup != "Chest" {
		t.Fatalf("unexpected exercise: %+v", e)
	}

	f, err := s.LookupFood("food_1")
	if err != nil {
		t.Fatal(err)
	}
	if f == nil || f.Name != "Chicken Breast" || f.Calories != 165 {
		t.Fatalf("unexpected food: %+v", f)
	}

	missing, err := s.LookupExercise("nope")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown id, got %+v", missing)
	}
}

func TestAddCustomFood(t *testing.T) {
	s := newTestStore(t)

	added, err := s.AddCustomFood(FoodItem{
		Name: "Overnight Oats", Calories: 350, Protein: 12, Carbs: 55, Fat: 8, ServingSize: "1 bowl",
	})
	if err != nil {
		t.Fatalf("add custom food: %v", err)
	}
	if added.ID == "" || !added.Custom {
		t.Fatalf("unexpected custom food: %+v", added)
	}

	got, err := s.LookupFood(added.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Name != "Overnight Oats" || !got.Custom {
		t.Fatalf("lookup after add: %+v", got)
	}
}

// ============================================================
// Goals, ratings, settings
// ============================================================

func TestGoalsDefaultThenSaved(t *testing.T) {
	s := newTestStore(t)

	goals, err := s.GetGoals()
	if err != nil {
		t.Fatal(err)
	}
	if goals != DefaultGoals() {
		t.Fatalf("expected defaults before save, got %+v", goals)
	}

	goals.CalorieTarget = 2500
	goals.StepTarget = 12000
	if err := s.SaveGoals(goals); err != nil {
		t.Fatalf("save goals: %v", err)
	}

	got, err := s.GetGoals()
	if err != nil {
		t.Fatal(err)
	}
	if got.CalorieTarget != 2500 || got.StepTarget != 12000 {
		t.Fatalf("goals not saved: %+v", got)
	}
}

func TestRateExercise(t *testing.T) {
	s := newTestStore(t)

	if err := s.RateExercise("chest_4", 4); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if err := s.RateExercise("chest_4", 5); err != nil {
		t.Fatalf("re-rate: %v", err)
	}

	ratings, err := s.GetRatings()
	if err != nil {
		t.Fatal(err)
	}
	if ratings["chest_4"] != 5 {
		t.Fatalf("expected rating 5, got %v", ratings["chest_4"])
	}
}

func TestUnitSetting(t *testing.T) {
	s := newTestStore(t)

	if s.Unit() != UnitKG {
		t.Fatalf("expected default kg, got %s", s.Unit())
	}
	if err := s.SetUnit(UnitLBS); err != nil {
		t.Fatal(err)
	}
	if s.Unit() != UnitLBS {
		t.Fatalf("expected lbs, got %s", s.Unit())
	}
}

// ============================================================
// Credentials
// ============================================================

func TestCredentialLifecycle(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetCredential()
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("expected no credential, got %+v", got)
	}

	cred := Credential{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		Scope:        "fitness.activity.read",
	}
	if err := s.SaveCredential(cred); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err = s.GetCredential()
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.AccessToken != "access" || got.RefreshToken != "refresh" {
		t.Fatalf("round trip failed: %+v", got)
	}

	if err := s.DeleteCredential(); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ = s.GetCredential()
	if got != nil {
		t.Fatalf("expected nil after delete, got %+v", got)
	}
}
