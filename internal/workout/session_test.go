package workout

import (
	"testing"
	"time"

	"github.com/sadopc/lockin/internal/store"
)

func testLookup(id string) (string, string, bool) {
	switch id {
	case "chest_4":
		return "Bench Press", "Chest", true
	case "chest_1":
		return "Incline Dumbbell Press", "Chest", true
	}
	return "", "", false
}

func benchTemplate() store.WorkoutTemplate {
	return store.WorkoutTemplate{
		ID:        "tpl-push",
		Title:     "Push Day",
		DayOfWeek: "Monday",
		Exercises: []store.TemplateExercise{
			{ExerciseID: "chest_4", DefaultSets: 3, DefaultReps: "8-10"},
			{ExerciseID: "chest_1", DefaultSets: 2, DefaultReps: "12"},
		},
	}
}

// ============================================================
// Session creation
// ============================================================

func TestNewSessionFromTemplate(t *testing.T) {
	sess := NewSession(benchTemplate(), "2024-05-06", store.UnitKG, testLookup)

	if sess.ID == "" {
		t.Fatal("empty session id")
	}
	if sess.Status != store.SessionInProgress {
		t.Fatalf("expected in-progress, got %s", sess.Status)
	}
	if sess.TemplateID != "tpl-push" {
		t.Errorf("template id not recorded: %s", sess.TemplateID)
	}
	if len(sess.Exercises) != 2 {
		t.Fatalf("expected 2 exercises, got %d", len(sess.Exercises))
	}

	bench := sess.Exercises[0]
	if bench.Name != "Bench Press" || bench.MuscleGroup != "Chest" {
		t.Errorf("catalog metadata not copied: %+v", bench)
	}
	if len(bench.Sets) != 3 {
		t.Fatalf("expected 3 default sets, got %d", len(bench.Sets))
	}
	for _, set := range bench.Sets {
		if set.ID == "" {
			t.Error("set without id")
		}
		if set.Reps != 0 || set.Weight != 0 || set.Volume != 0 {
			t.Errorf("sets should start zero-valued: %+v", set)
		}
		if set.CompletedAt != nil {
			t.Error("fresh set should not be completed")
		}
	}
}

func TestNewSessionDanglingExercise(t *testing.T) {
	tpl := store.WorkoutTemplate{
		ID: "tpl-x", Title: "Mystery", DayOfWeek: "Tuesday",
		Exercises: []store.TemplateExercise{{ExerciseID: "deleted_id", DefaultSets: 1, DefaultReps: "5"}},
	}
	sess := NewSession(tpl, "2024-05-07", store.UnitKG, testLookup)

	if sess.Exercises[0].Name != "Unknown Exercise" || sess.Exercises[0].MuscleGroup != "Unknown" {
		t.Fatalf("expected placeholders, got %+v", sess.Exercises[0])
	}
}

// ============================================================
// Set mutations
// ============================================================

func TestUpdateSetComputesVolume(t *testing.T) {
	sess := NewSession(benchTemplate(), "2024-05-06", store.UnitKG, testLookup)
	exID := sess.Exercises[0].ID
	setID := sess.Exercises[0].Sets[0].ID

	reps, weight := 8, 80.0
	out := UpdateSet(sess, exID, setID, SetPatch{Reps: &reps, Weight: &weight})

	set := out.Exercises[0].Sets[0]
	if set.Reps != 8 || set.Weight != 80 {
		t.Fatalf("patch not applied: %+v", set)
	}
	if set.Volume != 640 {
		t.Fatalf("expected volume 640, got %v", set.Volume)
	}
	if set.CompletedAt == nil {
		t.Error("set with reps should be stamped completed")
	}

	// Input session untouched
	if sess.Exercises[0].Sets[0].Reps != 0 {
		t.Error("input session was mutated")
	}
}

func TestUpdateSetPartialPatch(t *testing.T) {
	sess := NewSession(benchTemplate(), "2024-05-06", store.UnitKG, testLookup)
	exID := sess.Exercises[0].ID
	setID := sess.Exercises[0].Sets[0].ID

	reps, weight := 8, 80.0
	sess = UpdateSet(sess, exID, setID, SetPatch{Reps: &reps, Weight: &weight})

	newWeight := 85.0
	sess = UpdateSet(sess, exID, setID, SetPatch{Weight: &newWeight})

	set := sess.Exercises[0].Sets[0]
	if set.Reps != 8 {
		t.Errorf("nil reps should leave value unchanged, got %d", set.Reps)
	}
	if set.Volume != 680 {
		t.Errorf("volume not recomputed: %v", set.Volume)
	}
}

func TestUpdateSetUnknownIDsNoOp(t *testing.T) {
	sess := NewSession(benchTemplate(), "2024-05-06", store.UnitKG, testLookup)
	reps := 5

	out := UpdateSet(sess, "nope", sess.Exercises[0].Sets[0].ID, SetPatch{Reps: &reps})
	if out.Exercises[0].Sets[0].Reps != 0 {
		t.Error("unknown exercise id should be a no-op")
	}

	out = UpdateSet(sess, sess.Exercises[0].ID, "nope", SetPatch{Reps: &reps})
	if out.Exercises[0].Sets[0].Reps != 0 {
		t.Error("unknown set id should be a no-op")
	}
}

func TestAddAndRemoveSet(t *testing.T) {
	sess := NewSession(benchTemplate(), "2024-05-06", store.UnitKG, testLookup)
	exID := sess.Exercises[0].ID

	sess = AddSet(sess, exID)
	if len(sess.Exercises[0].Sets) != 4 {
		t.Fatalf("expected 4 sets after add, got %d", len(sess.Exercises[0].Sets))
	}

	sess = RemoveSet(sess, exID, sess.Exercises[0].Sets[0].ID)
	if len(sess.Exercises[0].Sets) != 3 {
		t.Fatalf("expected 3 sets after remove, got %d", len(sess.Exercises[0].Sets))
	}

	// Removing down to zero is allowed
	for len(sess.Exercises[0].Sets) > 0 {
		sess = RemoveSet(sess, exID, sess.Exercises[0].Sets[0].ID)
	}
	if len(sess.Exercises[0].Sets) != 0 {
		t.Fatal("expected all sets removable")
	}

	// Unknown ids are no-ops
	before := len(sess.Exercises[1].Sets)
	sess = RemoveSet(sess, "nope", "nope")
	if len(sess.Exercises[1].Sets) != before {
		t.Error("unknown ids should leave the session unchanged")
	}
}

// ============================================================
// Completion and volume
// ============================================================

func TestCompleteRecordsTotalVolume(t *testing.T) {
	sess := NewSession(benchTemplate(), "2024-05-06", store.UnitKG, testLookup)

	reps, weight := 8, 80.0
	sess = UpdateSet(sess, sess.Exercises[0].ID, sess.Exercises[0].Sets[0].ID, SetPatch{Reps: &reps, Weight: &weight})
	reps2, weight2 := 12, 20.0
	sess = UpdateSet(sess, sess.Exercises[1].ID, sess.Exercises[1].Sets[0].ID, SetPatch{Reps: &reps2, Weight: &weight2})

	now := time.Date(2024, 5, 6, 18, 30, 0, 0, time.UTC)
	done := Complete(sess, now)

	if done.Status != store.SessionCompleted {
		t.Fatalf("expected completed, got %s", done.Status)
	}
	if done.TotalVolume != 640+240 {
		t.Fatalf("expected total volume 880, got %v", done.TotalVolume)
	}
	if done.CompletedAt == nil || !done.CompletedAt.Equal(now) {
		t.Fatalf("completion time not recorded: %v", done.CompletedAt)
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	sess := NewSession(benchTemplate(), "2024-05-06", store.UnitKG, testLookup)

	first := Complete(sess, time.Date(2024, 5, 6, 18, 0, 0, 0, time.UTC))
	second := Complete(first, time.Date(2024, 5, 6, 19, 0, 0, 0, time.UTC))

	if second.Status != store.SessionCompleted {
		t.Fatal("still completed")
	}
	if !second.CompletedAt.Equal(*first.CompletedAt) {
		t.Fatalf("completion time changed on re-complete: %v vs %v", second.CompletedAt, first.CompletedAt)
	}
}

func TestTotalVolumeSumsAcrossExercises(t *testing.T) {
	sess := store.Session{
		Exercises: []store.SessionExercise{
			{Sets: []store.SetEntry{{Volume: 100}, {Volume: 200}}},
			{Sets: []store.SetEntry{{Volume: 50}}},
		},
	}
	if got := TotalVolume(sess); got != 350 {
		t.Fatalf("expected 350, got %v", got)
	}
	if got := ExerciseVolume(sess.Exercises[0]); got != 300 {
		t.Fatalf("expected 300, got %v", got)
	}
}

// ============================================================
// Template resolution
// ============================================================

func TestResolveForDate(t *testing.T) {
	templates := []store.WorkoutTemplate{
		{ID: "t1", Title: "Push", DayOfWeek: "Monday"},
		{ID: "t2", Title: "Pull", DayOfWeek: "Wednesday"},
	}

	// 2024-05-06 is a Monday
	got := ResolveForDate(templates, "2024-05-06")
	if got == nil || got.ID != "t1" {
		t.Fatalf("expected t1 for Monday, got %+v", got)
	}

	// No template for Tuesday
	if got := ResolveForDate(templates, "2024-05-07"); got != nil {
		t.Fatalf("expected nil for uncovered weekday, got %+v", got)
	}

	// Bad date
	if got := ResolveForDate(templates, "not-a-date"); got != nil {
		t.Fatalf("expected nil for unparseable date, got %+v", got)
	}
}

func TestResolveForDateFirstMatchWins(t *testing.T) {
	templates := []store.WorkoutTemplate{
		{ID: "t1", Title: "Push A", DayOfWeek: "Monday"},
		{ID: "t2", Title: "Push B", DayOfWeek: "Monday"},
	}
	got := ResolveForDate(templates, "2024-05-06")
	if got == nil || got.ID != "t1" {
		t.Fatalf("expected first stored match, got %+v", got)
	}
}

// ============================================================
// Service
// ============================================================

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewService(s)
}

func TestServiceStartIsIdempotentPerDate(t *testing.T) {
	svc := newTestService(t)
	tpl := benchTemplate()

	first, err := svc.Start(tpl, "2024-05-06")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	// Mutate and save, then start again for the same date.
	reps, weight := 8, 80.0
	mutated := UpdateSet(first, first.Exercises[0].ID, first.Exercises[0].Sets[0].ID, SetPatch{Reps: &reps, Weight: &weight})
	if err := svc.Save(mutated); err != nil {
		t.Fatalf("save: %v", err)
	}

	second, err := svc.Start(tpl, "2024-05-06")
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected the same session, got %s vs %s", second.ID, first.ID)
	}
	if second.Exercises[0].Sets[0].Volume != 640 {
		t.Fatalf("expected stored progress to survive restart, got %+v", second.Exercises[0].Sets[0])
	}
}

func TestServiceCompletePersists(t *testing.T) {
	svc := newTestService(t)

	sess, err := svc.Start(benchTemplate(), "2024-05-06")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	reps, weight := 8, 80.0
	sess = UpdateSet(sess, sess.Exercises[0].ID, sess.Exercises[0].Sets[0].ID, SetPatch{Reps: &reps, Weight: &weight})

	done, err := svc.Complete(sess)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != store.SessionCompleted || done.TotalVolume != 640 {
		t.Fatalf("unexpected completed session: %+v", done)
	}

	reloaded, err := svc.Start(benchTemplate(), "2024-05-06")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != store.SessionCompleted {
		t.Fatalf("completion not persisted: %s", reloaded.Status)
	}
}
