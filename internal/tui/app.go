package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/lockin/internal/export"
	"github.com/sadopc/lockin/internal/nutrition"
	"github.com/sadopc/lockin/internal/steps"
	"github.com/sadopc/lockin/internal/store"
	"github.com/sadopc/lockin/internal/workout"
)

// App is the root Bubble Tea model.
type App struct {
	store    *store.Store
	workouts *workout.Service
	logs     *nutrition.Service
	provider *steps.GoogleFit
	syncer   *steps.Syncer

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	strategy  strategyModel
	nutrition nutritionModel
	reports   reportsModel
	settings  settingsModel
	workout   workoutModel

	help   help.Model
	status string
}

func NewApp(s *store.Store) App {
	h := help.New()
	h.ShowAll = false

	workouts := workout.NewService(s)
	logs := nutrition.NewService(s)
	provider := steps.NewGoogleFit(s, s.GoogleClientID())
	syncer := steps.NewSyncer(provider, logs)

	return App{
		store:      s,
		workouts:   workouts,
		logs:       logs,
		provider:   provider,
		syncer:     syncer,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(s, workouts, logs, syncer),
		strategy:   newStrategyModel(s, workouts),
		nutrition:  newNutritionModel(s, logs),
		reports:    newReportsModel(s, logs),
		settings:   newSettingsModel(s, provider, syncer),
		workout:    newWorkoutModel(s, workouts),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		a.dashboard.Init(),
		tickCmd(),
	}
	// Auto-sync on startup when a provider is connected.
	if a.provider.Connected() {
		cmds = append(cmds, a.syncCmd())
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) syncCmd() tea.Cmd {
	return func() tea.Msg {
		log, err := a.syncer.Sync(context.Background())
		return syncDoneMsg{log: log, err: err}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.strategy.setSize(a.width, contentHeight)
		a.nutrition.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		a.workout.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// The workout view owns input until the session is exited.
		if a.activeView == viewWorkout {
			if key.Matches(msg, keys.Quit) && !a.workout.formActive {
				return a, tea.Quit
			}
			return a.updateActiveView(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			return a, a.dashboard.loadData()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewStrategy
			return a, a.strategy.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewNutrition
			return a, a.nutrition.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewReports
			return a, a.reports.refresh()
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 5
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())
		var cmd tea.Cmd
		a.workout, cmd = a.workout.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		return a, nil

	case sessionStartedMsg:
		a.workout.setSession(msg.session)
		a.activeView = viewWorkout
		a.status = "Workout started"
		return a, nil

	case sessionExitedMsg:
		a.activeView = viewDashboard
		return a, a.dashboard.loadData()

	case syncDoneMsg:
		if msg.err != nil {
			a.status = syncErrorStatus(msg.err)
		} else {
			a.status = fmt.Sprintf("Synced %d steps", msg.log.Steps)
		}
		return a, a.dashboard.loadData()

	case settingsSavedMsg:
		// The Google client id may have changed; rebuild the provider.
		a.provider = steps.NewGoogleFit(a.store, a.store.GoogleClientID())
		a.syncer = steps.NewSyncer(a.provider, a.logs)
		a.settings.provider = a.provider
		a.settings.syncer = a.syncer
		a.dashboard.syncer = a.syncer
		a.status = "Settings saved"
		return a, tea.Batch(a.settings.refresh(), a.dashboard.loadData())

	case requestSyncMsg:
		if a.syncer.Busy() {
			a.status = "Sync already in progress"
			return a, nil
		}
		a.status = "Syncing steps..."
		return a, a.syncCmd()

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func syncErrorStatus(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, steps.ErrUnauthenticated):
		return "Google Fit session expired. Reconnect in Settings."
	case errors.Is(err, steps.ErrNotConnected):
		return "Google Fit is not connected. Connect in Settings."
	case errors.Is(err, steps.ErrSyncInFlight):
		return "Sync already in progress"
	default:
		return fmt.Sprintf("Step sync failed: %v", err)
	}
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewStrategy:
		a.strategy, cmd = a.strategy.update(msg)
	case viewNutrition:
		a.nutrition, cmd = a.nutrition.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	case viewWorkout:
		a.workout, cmd = a.workout.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewStrategy:
		return a.strategy.formActive
	case viewNutrition:
		return a.nutrition.formActive
	case viewSettings:
		return a.settings.formActive
	case viewWorkout:
		return a.workout.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewStrategy:
		return a.strategy.refresh()
	case viewNutrition:
		return a.nutrition.refresh()
	case viewReports:
		return a.reports.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewStrategy:
		content = a.strategy.view()
	case viewNutrition:
		content = a.nutrition.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	case viewWorkout:
		content = a.workout.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("lockin")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Active session indicator in footer
	sessionInfo := ""
	if a.workout.hasSession() && a.activeView != viewWorkout {
		sessionInfo = successStyle.Render(" ● workout in progress")
	}
	if a.syncer.Busy() {
		sessionInfo += warningStyle.Render(" ⇅ syncing")
	}

	left := footerStyle.Render(helpView)
	right := sessionInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Workout History")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		sessions, err := a.store.ListSessions()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("lockin-export-%s.csv", dateStr))
			if err := export.ToCSV(sessions, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("lockin-export-%s.json", dateStr))
			if err := export.ToJSON(sessions, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
