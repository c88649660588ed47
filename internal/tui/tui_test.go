package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/lockin/internal/steps"
	"github.com/sadopc/lockin/internal/store"
	"github.com/sadopc/lockin/internal/workout"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// Helper functions
// ============================================================

func TestFormatVolume(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "0"},
		{640, "640"},
		{642.5, "642.5"},
		{0.25, "0.2"},
	}
	for _, tt := range tests {
		got := formatVolume(tt.v)
		if got != tt.want {
			t.Errorf("formatVolume(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestFormatRest(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{90, "1:30"},
		{600, "10:00"},
	}
	for _, tt := range tests {
		got := formatRest(tt.secs)
		if got != tt.want {
			t.Errorf("formatRest(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestTodayStr(t *testing.T) {
	got := todayStr()
	if _, err := time.Parse("2006-01-02", got); err != nil {
		t.Fatalf("todayStr() = %q, not a date: %v", got, err)
	}
}

func TestMinMax(t *testing.T) {
	if min(3, 5) != 3 {
		t.Fatal("min(3,5) should be 3")
	}
	if min(5, 3) != 3 {
		t.Fatal("min(5,3) should be 3")
	}
	if max(3, 5) != 5 {
		t.Fatal("max(3,5) should be 5")
	}
	if max(5, 3) != 5 {
		t.Fatal("max(5,3) should be 5")
	}
}

func TestRenderBarClamps(t *testing.T) {
	// Over 100% fills the whole bar, negative fills nothing; neither panics.
	over := renderBar(250, 10, colorPrimary)
	if over == "" {
		t.Fatal("bar rendered empty")
	}
	under := renderBar(-10, 10, colorPrimary)
	if under == "" {
		t.Fatal("bar rendered empty")
	}
	tiny := renderBar(50, 0, colorPrimary)
	if tiny == "" {
		t.Fatal("zero-width bar should still render")
	}
}

// ============================================================
// View state
// ============================================================

func TestViewNames(t *testing.T) {
	if len(viewNames) != 5 {
		t.Fatalf("expected 5 view names, got %d", len(viewNames))
	}
	expected := []string{"Dashboard", "Strategy", "Nutrition", "Reports", "Settings"}
	for i, name := range expected {
		if viewNames[i] != name {
			t.Fatalf("viewNames[%d] = %q, want %q", i, viewNames[i], name)
		}
	}
}

func TestViewStateConstants(t *testing.T) {
	if viewDashboard != 0 || viewStrategy != 1 || viewNutrition != 2 || viewReports != 3 || viewSettings != 4 {
		t.Fatal("view state constants out of order")
	}
}

// ============================================================
// Workout model
// ============================================================

func testSession(t *testing.T, s *store.Store) store.Session {
	t.Helper()
	svc := workout.NewService(s)
	tpl := store.WorkoutTemplate{
		ID: "tpl-push", Title: "Push", DayOfWeek: "Monday",
		Exercises: []store.TemplateExercise{{ExerciseID: "chest_4", DefaultSets: 3, DefaultReps: "8-10"}},
	}
	sess, err := svc.Start(tpl, "2024-05-06")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	return sess
}

func TestWorkoutModelSession(t *testing.T) {
	s := newTestStore(t)
	m := newWorkoutModel(s, workout.NewService(s))

	if m.hasSession() {
		t.Fatal("fresh model should have no session")
	}

	m.setSession(testSession(t, s))
	if !m.hasSession() {
		t.Fatal("model should report an active session")
	}

	done := workout.Complete(m.session, time.Now())
	m.setSession(done)
	if m.hasSession() {
		t.Fatal("completed session should not count as active")
	}
}

func TestWorkoutModelRestTimerTick(t *testing.T) {
	s := newTestStore(t)
	m := newWorkoutModel(s, workout.NewService(s))
	m.setSession(testSession(t, s))

	m.restRemaining = 2
	m, _ = m.update(tickMsg(time.Now()))
	if m.restRemaining != 1 {
		t.Fatalf("expected 1 after tick, got %d", m.restRemaining)
	}
	m, _ = m.update(tickMsg(time.Now()))
	m, _ = m.update(tickMsg(time.Now()))
	if m.restRemaining != 0 {
		t.Fatalf("rest timer should stop at zero, got %d", m.restRemaining)
	}
}

func TestWorkoutModelViewRenders(t *testing.T) {
	s := newTestStore(t)
	m := newWorkoutModel(s, workout.NewService(s))
	m.setSize(120, 40)
	m.setSession(testSession(t, s))

	output := m.view()
	if output == "" {
		t.Fatal("workout view rendered empty")
	}
	if !stringContains(output, "Bench Press") {
		t.Fatal("view should show the exercise name")
	}
}

// ============================================================
// Strategy model
// ============================================================

func TestStrategyEditFormPrefillsRepRange(t *testing.T) {
	s := newTestStore(t)
	m := newStrategyModel(s, workout.NewService(s))
	m.templates = []store.WorkoutTemplate{{
		ID: "tpl-push", Title: "Push", DayOfWeek: "Monday",
		Exercises: []store.TemplateExercise{{ExerciseID: "chest_4", DefaultSets: 3, DefaultReps: "8-10"}},
	}}

	m, _ = m.showForm("edit")
	if !m.formActive {
		t.Fatal("edit form should be active")
	}
	if *m.formReps != "8-10" {
		t.Fatalf("rep range not prefilled: %q", *m.formReps)
	}
	if *m.formSets != "3" {
		t.Fatalf("sets not prefilled: %q", *m.formSets)
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)

	if app.activeView != viewDashboard {
		t.Fatal("default view should be dashboard")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.exportPicking {
		t.Fatal("export picker should be hidden by default")
	}
}

func TestAppIsFormActiveDefault(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)

	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppViewStates(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	app.width = 120
	app.height = 40

	model, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	app = model.(App)

	views := []viewState{viewDashboard, viewStrategy, viewNutrition, viewReports, viewSettings}
	for _, v := range views {
		app.activeView = v
		output := app.View()
		if output == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppSessionStartedSwitchesView(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	app.width = 120
	app.height = 40

	model, _ := app.Update(sessionStartedMsg{session: testSession(t, s)})
	app = model.(App)

	if app.activeView != viewWorkout {
		t.Fatal("starting a session should enter the workout view")
	}
	if !app.workout.hasSession() {
		t.Fatal("workout model should hold the session")
	}

	model, _ = app.Update(sessionExitedMsg{})
	app = model.(App)
	if app.activeView != viewDashboard {
		t.Fatal("exiting the session should return to the dashboard")
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	app.width = 120
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !stringContains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)

	output := app.View()
	if output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppStatusMessage(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	app.width = 120
	app.height = 40
	app.status = "test status"

	footer := app.renderFooter()
	if !stringContains(footer, "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestSyncErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{steps.ErrUnauthenticated, "Google Fit session expired. Reconnect in Settings."},
		{steps.ErrNotConnected, "Google Fit is not connected. Connect in Settings."},
		{steps.ErrSyncInFlight, "Sync already in progress"},
		{errors.New("timeout"), "Step sync failed: timeout"},
		{nil, ""},
	}
	for _, tt := range tests {
		got := syncErrorStatus(tt.err)
		if got != tt.want {
			t.Errorf("syncErrorStatus(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func stringContains(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	bindings := keys.ShortHelp()
	if len(bindings) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test — just verify they don't panic)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"accent", func() string { return accentStyle.Render("test") }},
		{"success", func() string { return successStyle.Render("test") }},
		{"warning", func() string { return warningStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
		{"muted", func() string { return mutedStyle.Render("test") }},
		{"highlight", func() string { return highlightStyle.Render("test") }},
		{"secondary", func() string { return secondaryStyle.Render("test") }},
		{"header", func() string { return headerStyle.Render("test") }},
		{"footer", func() string { return footerStyle.Render("test") }},
		{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
		{"normalItem", func() string { return normalItemStyle.Render("test") }},
	}

	for _, s := range styles {
		result := s.fn()
		if result == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
}
