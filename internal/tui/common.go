package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/lockin/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewStrategy
	viewNutrition
	viewReports
	viewSettings
	viewWorkout // entered from dashboard/strategy, not a tab
)

var viewNames = []string{"Dashboard", "Strategy", "Nutrition", "Reports", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type sessionStartedMsg struct {
	session store.Session
}

type sessionExitedMsg struct{}

type syncDoneMsg struct {
	log store.DailyLog
	err error
}

type logUpdatedMsg struct {
	log store.DailyLog
}

type authDoneMsg struct {
	err error
}

type disconnectedMsg struct{}

// requestSyncMsg asks the root model to kick off a step sync.
type requestSyncMsg struct{}

// settingsSavedMsg tells the root model to rebuild the step provider, since
// the client id may have changed.
type settingsSavedMsg struct{}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func todayStr() string {
	return time.Now().Format("2006-01-02")
}

func formatVolume(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func formatRest(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
