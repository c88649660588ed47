package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/lockin/internal/nutrition"
	"github.com/sadopc/lockin/internal/steps"
	"github.com/sadopc/lockin/internal/store"
	"github.com/sadopc/lockin/internal/workout"
)

type dashboardModel struct {
	store    *store.Store
	workouts *workout.Service
	logs     *nutrition.Service
	syncer   *steps.Syncer
	width    int
	height   int

	todayLog     store.DailyLog
	totals       nutrition.Totals
	goals        store.UserGoals
	weekly       []nutrition.DayAchievement
	templates    []store.WorkoutTemplate
	nextTemplate *store.WorkoutTemplate
	connected    bool

	showRemaining bool

	// Template picker state
	picking      bool
	pickerCursor int
}

func newDashboardModel(s *store.Store, w *workout.Service, l *nutrition.Service, sy *steps.Syncer) dashboardModel {
	return dashboardModel{
		store:    s,
		workouts: w,
		logs:     l,
		syncer:   sy,
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	todayLog     store.DailyLog
	totals       nutrition.Totals
	goals        store.UserGoals
	weekly       []nutrition.DayAchievement
	templates    []store.WorkoutTemplate
	nextTemplate *store.WorkoutTemplate
	connected    bool
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		log, _ := d.logs.TodayLog()
		goals, _ := d.store.GetGoals()
		weekly, _ := d.logs.Weekly(time.Now(), 7)
		templates, _ := d.store.ListTemplates()
		next := workout.ResolveForDate(templates, todayStr())
		cred, _ := d.store.GetCredential()

		return dashboardDataMsg{
			todayLog:     log,
			totals:       d.logs.Totals(log),
			goals:        goals,
			weekly:       weekly,
			templates:    templates,
			nextTemplate: next,
			connected:    cred != nil,
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.todayLog = msg.todayLog
		d.totals = msg.totals
		d.goals = msg.goals
		d.weekly = msg.weekly
		d.templates = msg.templates
		d.nextTemplate = msg.nextTemplate
		d.connected = msg.connected
		return d, nil

	case tea.KeyMsg:
		if d.picking {
			return d.updatePicker(msg)
		}

		switch {
		case key.Matches(msg, keys.Toggle):
			d.showRemaining = !d.showRemaining
			return d, nil

		case key.Matches(msg, keys.Start):
			if d.nextTemplate == nil {
				return d, func() tea.Msg {
					return statusMsg{text: "No template for today. Set one up in Strategy, or press enter to pick one.", isError: true}
				}
			}
			return d, d.startWorkout(*d.nextTemplate)

		case key.Matches(msg, keys.Enter):
			if len(d.templates) == 0 {
				return d, func() tea.Msg {
					return statusMsg{text: "No templates yet. Press 2 to go to Strategy and create one.", isError: true}
				}
			}
			d.picking = true
			d.pickerCursor = 0
			return d, nil

		case key.Matches(msg, keys.Sync):
			return d, func() tea.Msg { return requestSyncMsg{} }
		}
	}
	return d, nil
}

func (d dashboardModel) updatePicker(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if d.pickerCursor > 0 {
			d.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if d.pickerCursor < len(d.templates)-1 {
			d.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		tpl := d.templates[d.pickerCursor]
		d.picking = false
		return d, d.startWorkout(tpl)
	case key.Matches(msg, keys.Back):
		d.picking = false
	}
	return d, nil
}

func (d dashboardModel) startWorkout(tpl store.WorkoutTemplate) tea.Cmd {
	return func() tea.Msg {
		sess, err := d.workouts.Start(tpl, "")
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return sessionStartedMsg{session: sess}
	}
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	nutritionPanel := d.renderNutritionPanel(contentWidth)
	activityPanel := d.renderActivityPanel(contentWidth)
	goalsPanel := d.renderGoalsPanel(contentWidth)

	var bottomPanel string
	if d.picking {
		bottomPanel = d.renderTemplatePicker(contentWidth)
	} else {
		bottomPanel = d.renderNextWorkoutPanel(contentWidth)
	}

	return lipgloss.JoinVertical(lipgloss.Left, nutritionPanel, activityPanel, goalsPanel, bottomPanel)
}

func (d dashboardModel) renderNutritionPanel(w int) string {
	remaining := nutrition.Remaining(d.totals, d.goals)

	mode := "Consumed"
	if d.showRemaining {
		mode = "Remaining"
	}
	title := titleStyle.Render("Daily Nutrition")
	header := fmt.Sprintf("%s  %s", title, mutedStyle.Render(mode+" · space to toggle"))

	caloriePct := 0.0
	if d.goals.CalorieTarget > 0 {
		caloriePct = d.totals.Calories / d.goals.CalorieTarget * 100
	}

	calorieLine := fmt.Sprintf("  %s kcal consumed · %s remaining · target %s",
		highlightStyle.Render(fmt.Sprintf("%.0f", d.totals.Calories)),
		secondaryStyle.Render(fmt.Sprintf("%.0f", math.Max(0, remaining.Calories))),
		mutedStyle.Render(fmt.Sprintf("%.0f", d.goals.CalorieTarget)),
	)
	calorieBar := "  " + renderBar(caloriePct, w-8, colorPrimary)

	shown := d.totals
	if d.showRemaining {
		shown = remaining
	}
	macros := lipgloss.JoinVertical(lipgloss.Left,
		d.renderMacroRow("Protein", shown.Protein, d.totals.Protein, d.goals.ProteinTarget, colorProtein, w),
		d.renderMacroRow("Fat", shown.Fat, d.totals.Fat, d.goals.FatTarget, colorFat, w),
		d.renderMacroRow("Carbs", shown.Carbs, d.totals.Carbs, d.goals.CarbsTarget, colorCarbs, w),
	)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", calorieLine, calorieBar, "", macros),
	)
}

func (d dashboardModel) renderMacroRow(label string, shown, consumed, target float64, color lipgloss.Color, w int) string {
	pct := 0.0
	if target > 0 {
		pct = consumed / target * 100
	}
	barWidth := min(24, w-36)
	if barWidth < 8 {
		barWidth = 8
	}
	return fmt.Sprintf("  %-8s %s %s",
		label,
		renderBar(pct, barWidth, color),
		mutedStyle.Render(fmt.Sprintf("%.0fg / %.0fg", shown, target)),
	)
}

func (d dashboardModel) renderActivityPanel(w int) string {
	stats := nutrition.Activity(d.todayLog.Steps)

	title := titleStyle.Render("Daily Activity")
	source := "manual entry"
	if d.connected {
		source = "Google Fit"
	}
	if d.syncer.Busy() {
		source += " · syncing..."
	}
	header := fmt.Sprintf("%s  %s", title, mutedStyle.Render(source))

	stepPct := 0.0
	if d.goals.StepTarget > 0 {
		stepPct = float64(stats.Steps) / float64(d.goals.StepTarget) * 100
	}

	stepLine := fmt.Sprintf("  %s steps · target %s",
		highlightStyle.Render(fmt.Sprintf("%d", stats.Steps)),
		mutedStyle.Render(fmt.Sprintf("%d", d.goals.StepTarget)),
	)
	stepBar := "  " + renderBar(stepPct, w-8, colorSecondary)

	derived := fmt.Sprintf("  %s mi · %s kcal burned · %s move mins",
		secondaryStyle.Render(fmt.Sprintf("%.1f", stats.Miles)),
		warningStyle.Render(fmt.Sprintf("%d", stats.CaloriesBurned)),
		successStyle.Render(fmt.Sprintf("%d", stats.MoveMinutes)),
	)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", stepLine, stepBar, "", derived),
	)
}

func (d dashboardModel) renderGoalsPanel(w int) string {
	title := titleStyle.Render("Your daily goals")

	achieved := 0
	var days []string
	for _, day := range d.weekly {
		if day.Achieved {
			achieved++
		}
		t, _ := time.Parse("2006-01-02", day.Date)
		initial := t.Format("Mon")[:1]

		var mark string
		switch {
		case day.Achieved:
			mark = successStyle.Render("◉")
		case day.CaloriePct > 0 || day.StepPct > 0:
			mark = warningStyle.Render("◎")
		default:
			mark = mutedStyle.Render("○")
		}
		if day.Date == todayStr() {
			initial = highlightStyle.Render(initial)
		} else {
			initial = mutedStyle.Render(initial)
		}
		days = append(days, initial+mark)
	}

	header := fmt.Sprintf("%s  %s   %s",
		title,
		mutedStyle.Render("last 7 days"),
		fmt.Sprintf("%s achieved", highlightStyle.Render(fmt.Sprintf("%d/%d", achieved, len(d.weekly)))),
	)
	row := "  " + strings.Join(days, "  ")

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, header, row))
}

func (d dashboardModel) renderNextWorkoutPanel(w int) string {
	title := titleStyle.Render("Next Workout")

	if d.nextTemplate == nil {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No workout plan for today."),
			mutedStyle.Render("Press 2 to set up templates, or enter to pick one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		highlightStyle.Render(d.nextTemplate.Title)+mutedStyle.Render(fmt.Sprintf("  (%d exercises)", len(d.nextTemplate.Exercises))),
		"",
		mutedStyle.Render("s: start  enter: choose a different one"),
	)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderTemplatePicker(w int) string {
	title := titleStyle.Render("Select Workout")

	var rows []string
	rows = append(rows, title)
	for i, tpl := range d.templates {
		cursor := "  "
		style := normalItemStyle
		if i == d.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s (%s)", cursor, tpl.Title, tpl.DayOfWeek)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: start  esc: cancel"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func renderBar(pct float64, width int, color lipgloss.Color) string {
	if width < 1 {
		width = 1
	}
	clamped := math.Max(0, math.Min(pct, 100))
	filled := int(math.Round(clamped / 100 * float64(width)))

	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(colorSubtle).Render(strings.Repeat("░", width-filled))
	return bar
}
