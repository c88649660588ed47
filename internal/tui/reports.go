package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/lockin/internal/nutrition"
	"github.com/sadopc/lockin/internal/store"
	"github.com/sadopc/lockin/internal/workout"
)

type reportMode int

const (
	reportVolume reportMode = iota
	reportCalories
	reportSteps
)

var reportModeNames = []string{"Volume", "Calories", "Steps"}

var muscleGroupColors = []lipgloss.Color{
	colorPrimary, colorSecondary, colorAccent, colorHighlight,
	colorSuccess, colorWarning, colorProtein, colorFat,
}

// reportsModel charts workout volume, calorie intake, and steps over
// 7-day windows.
type reportsModel struct {
	store  *store.Store
	logs   *nutrition.Service
	width  int
	height int

	mode     reportMode
	sessions []store.Session
	dayLogs  []store.DailyLog
	goals    store.UserGoals
	offset   int // 7-day blocks back from today (0 = current)

	chart barchart.Model
}

func newReportsModel(s *store.Store, l *nutrition.Service) reportsModel {
	return reportsModel{
		store: s,
		logs:  l,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	sessions []store.Session
	dayLogs  []store.DailyLog
	goals    store.UserGoals
}

func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		sessions, _ := r.store.ListSessions()
		from, to := r.dateRange()
		dayLogs, _ := r.store.LogsBetween(from.Format("2006-01-02"), to.Add(-24*time.Hour).Format("2006-01-02"))
		goals, _ := r.store.GetGoals()
		return reportsDataMsg{sessions: sessions, dayLogs: dayLogs, goals: goals}
	}
}

func (r reportsModel) dateRange() (time.Time, time.Time) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	end := today.AddDate(0, 0, 1-7*r.offset)
	start := end.AddDate(0, 0, -7)
	return start, end
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.sessions = msg.sessions
		r.dayLogs = msg.dayLogs
		r.goals = msg.goals
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Enter):
			r.mode = (r.mode + 1) % 3
			r.buildChart()
			return r, nil
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	from, to := r.dateRange()

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		label := d.Format("Mon 02")

		var values []barchart.BarValue
		switch r.mode {
		case reportVolume:
			values = r.volumeValues(dateStr)
		case reportCalories:
			values = r.calorieValues(dateStr)
		case reportSteps:
			values = r.stepValues(dateStr)
		}

		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: values,
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) volumeValues(date string) []barchart.BarValue {
	var values []barchart.BarValue
	for _, sess := range r.sessions {
		if sess.Date != date {
			continue
		}
		for _, ex := range sess.Exercises {
			vol := workout.ExerciseVolume(ex)
			if vol == 0 {
				continue
			}
			values = append(values, barchart.BarValue{
				Name:  ex.MuscleGroup,
				Value: vol,
				Style: lipgloss.NewStyle().Foreground(muscleGroupColor(ex.MuscleGroup)),
			})
		}
	}
	return values
}

func (r reportsModel) calorieValues(date string) []barchart.BarValue {
	for _, log := range r.dayLogs {
		if log.Date != date {
			continue
		}
		totals := r.logs.Totals(log)
		if totals.Calories == 0 {
			return nil
		}
		return []barchart.BarValue{{
			Name:  "kcal",
			Value: totals.Calories,
			Style: lipgloss.NewStyle().Foreground(colorPrimary),
		}}
	}
	return nil
}

func (r reportsModel) stepValues(date string) []barchart.BarValue {
	for _, log := range r.dayLogs {
		if log.Date != date {
			continue
		}
		if log.Steps == 0 {
			return nil
		}
		style := lipgloss.NewStyle().Foreground(colorSecondary)
		if r.goals.StepTarget > 0 && log.Steps >= r.goals.StepTarget {
			style = lipgloss.NewStyle().Foreground(colorSuccess)
		}
		return []barchart.BarValue{{
			Name:  "steps",
			Value: float64(log.Steps),
			Style: style,
		}}
	}
	return nil
}

func muscleGroupColor(group string) lipgloss.Color {
	var sum int
	for _, c := range group {
		sum += int(c)
	}
	return muscleGroupColors[sum%len(muscleGroupColors)]
}

func (r reportsModel) view() string {
	w := r.width - 4

	var tabs []string
	for i, name := range reportModeNames {
		if reportMode(i) == r.mode {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s", from.Format("Jan 02"), to.Add(-24*time.Hour).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", modeTabs, "  ", dateLabel,
	)

	chartView := r.chart.View()
	tableView := r.renderSummaryTable(w)
	nav := mutedStyle.Render("  ←/→: navigate  space: switch chart  x: export")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", tableView, "", nav,
		),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	from, to := r.dateRange()

	sessionsByDate := make(map[string]store.Session)
	for _, sess := range r.sessions {
		sessionsByDate[sess.Date] = sess
	}
	logsByDate := make(map[string]store.DailyLog)
	for _, log := range r.dayLogs {
		logsByDate[log.Date] = log
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %10s %10s %10s", "Date", "Volume", "Calories", "Steps")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 46))))

	any := false
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		sess, hasSess := sessionsByDate[dateStr]
		log, hasLog := logsByDate[dateStr]
		if !hasSess && !hasLog {
			continue
		}
		any = true

		volume := "-"
		if hasSess {
			volume = formatVolume(workout.TotalVolume(sess))
		}
		calories := "-"
		stepsStr := "-"
		if hasLog {
			calories = fmt.Sprintf("%.0f", r.logs.Totals(log).Calories)
			stepsStr = fmt.Sprintf("%d", log.Steps)
		}
		rows = append(rows, fmt.Sprintf("  %-12s %10s %10s %10s", dateStr, volume, calories, stepsStr))
	}

	if !any {
		return mutedStyle.Render("  No data for this period")
	}
	return strings.Join(rows, "\n")
}
