package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/lockin/internal/steps"
	"github.com/sadopc/lockin/internal/store"
)

// settingsModel edits goals, the weight unit, and the Google Fit
// connection.
type settingsModel struct {
	store    *store.Store
	provider *steps.GoogleFit
	syncer   *steps.Syncer
	width    int
	height   int

	goals     store.UserGoals
	unit      store.WeightUnit
	clientID  string
	connected bool
	ratings   map[string]float64
	exercises []store.Exercise

	authURL string

	formActive bool
	form       *huh.Form
	formType   string // "settings" or "auth"

	formCalories    *string
	formProtein     *string
	formFat         *string
	formCarbs       *string
	formSteps       *string
	formMiles       *string
	formBurned      *string
	formMoveMins    *string
	formUnit        *string
	formClientID    *string
	formAuthCode    *string
}

func newSettingsModel(s *store.Store, provider *steps.GoogleFit, syncer *steps.Syncer) settingsModel {
	calories := ""
	protein := ""
	fat := ""
	carbs := ""
	stepsVal := ""
	miles := ""
	burned := ""
	moveMins := ""
	unit := string(store.UnitKG)
	clientID := ""
	authCode := ""
	return settingsModel{
		store:        s,
		provider:     provider,
		syncer:       syncer,
		formCalories: &calories,
		formProtein:  &protein,
		formFat:      &fat,
		formCarbs:    &carbs,
		formSteps:    &stepsVal,
		formMiles:    &miles,
		formBurned:   &burned,
		formMoveMins: &moveMins,
		formUnit:     &unit,
		formClientID: &clientID,
		formAuthCode: &authCode,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	goals     store.UserGoals
	unit      store.WeightUnit
	clientID  string
	connected bool
	ratings   map[string]float64
	exercises []store.Exercise
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		goals, _ := s.store.GetGoals()
		ratings, _ := s.store.GetRatings()
		exercises, _ := s.store.ListExercises()
		return settingsDataMsg{
			goals:     goals,
			unit:      s.store.Unit(),
			clientID:  s.store.GoogleClientID(),
			connected: s.provider.Connected(),
			ratings:   ratings,
			exercises: exercises,
		}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsDataMsg:
		s.goals = msg.goals
		s.unit = msg.unit
		s.clientID = msg.clientID
		s.connected = msg.connected
		s.ratings = msg.ratings
		s.exercises = msg.exercises
		return s, nil

	case authDoneMsg:
		if msg.err != nil {
			return s, errStatus(msg.err)
		}
		s.authURL = ""
		return s, tea.Batch(s.refresh(), func() tea.Msg {
			return statusMsg{text: "Google Fit connected"}
		})

	case disconnectedMsg:
		return s, tea.Batch(s.refresh(), func() tea.Msg {
			return statusMsg{text: "Google Fit disconnected"}
		})

	case tea.KeyMsg:
		if s.formActive {
			return s.updateForm(msg)
		}

		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit), key.Matches(msg, keys.New):
			return s.showSettingsForm()
		case key.Matches(msg, keys.Connect):
			return s.toggleConnection()
		}
	}

	if s.formActive && s.form != nil {
		form, cmd := s.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			s.form = f
		}
		return s, cmd
	}
	return s, nil
}

func (s settingsModel) toggleConnection() (settingsModel, tea.Cmd) {
	if s.connected {
		syncer := s.syncer
		return s, func() tea.Msg {
			if err := syncer.Disconnect(context.Background()); err != nil {
				return statusMsg{text: fmt.Sprintf("Disconnect error: %v", err), isError: true}
			}
			return disconnectedMsg{}
		}
	}

	if s.clientID == "" {
		return s, func() tea.Msg {
			return statusMsg{text: "Set a Google client id first (press e)", isError: true}
		}
	}

	s.authURL = s.provider.BeginAuthorization()
	return s.showAuthForm()
}

func (s settingsModel) showSettingsForm() (settingsModel, tea.Cmd) {
	*s.formCalories = strconv.FormatFloat(s.goals.CalorieTarget, 'f', -1, 64)
	*s.formProtein = strconv.FormatFloat(s.goals.ProteinTarget, 'f', -1, 64)
	*s.formFat = strconv.FormatFloat(s.goals.FatTarget, 'f', -1, 64)
	*s.formCarbs = strconv.FormatFloat(s.goals.CarbsTarget, 'f', -1, 64)
	*s.formSteps = strconv.Itoa(s.goals.StepTarget)
	*s.formMiles = strconv.FormatFloat(s.goals.MilesTarget, 'f', -1, 64)
	*s.formBurned = strconv.Itoa(s.goals.CaloriesBurnedTarget)
	*s.formMoveMins = strconv.Itoa(s.goals.MoveMinutesTarget)
	*s.formUnit = string(s.unit)
	*s.formClientID = s.clientID
	s.formType = "settings"

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Calorie target (kcal)").Value(s.formCalories),
			huh.NewInput().Title("Protein target (g)").Value(s.formProtein),
			huh.NewInput().Title("Fat target (g)").Value(s.formFat),
			huh.NewInput().Title("Carbs target (g)").Value(s.formCarbs),
		).Title("Nutrition goals"),
		huh.NewGroup(
			huh.NewInput().Title("Step target").Value(s.formSteps),
			huh.NewInput().Title("Miles target").Value(s.formMiles),
			huh.NewInput().Title("Calories burned target").Value(s.formBurned),
			huh.NewInput().Title("Move minutes target").Value(s.formMoveMins),
		).Title("Activity goals"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Weight unit").
				Options(
					huh.NewOption("Kilograms", string(store.UnitKG)),
					huh.NewOption("Pounds", string(store.UnitLBS)),
				).Value(s.formUnit),
			huh.NewInput().Title("Google client id").Value(s.formClientID),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) showAuthForm() (settingsModel, tea.Cmd) {
	*s.formAuthCode = ""
	s.formType = "auth"

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title("Connect Google Fit").
				Description("Open this URL in a browser, authorize, and paste the code below:\n\n"+s.authURL),
			huh.NewInput().Title("Authorization code").Value(s.formAuthCode),
		),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			s.authURL = ""
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		switch s.formType {
		case "settings":
			return s.saveSettings()
		case "auth":
			code := strings.TrimSpace(*s.formAuthCode)
			if code == "" {
				return s, nil
			}
			provider := s.provider
			return s, func() tea.Msg {
				return authDoneMsg{err: provider.CompleteAuthorization(context.Background(), code)}
			}
		}
	}

	return s, cmd
}

func (s settingsModel) saveSettings() (settingsModel, tea.Cmd) {
	goals := s.goals
	goals.CalorieTarget = parseFloatOrZero(*s.formCalories)
	goals.ProteinTarget = parseFloatOrZero(*s.formProtein)
	goals.FatTarget = parseFloatOrZero(*s.formFat)
	goals.CarbsTarget = parseFloatOrZero(*s.formCarbs)
	goals.StepTarget = parseIntOrZero(*s.formSteps)
	goals.MilesTarget = parseFloatOrZero(*s.formMiles)
	goals.CaloriesBurnedTarget = parseIntOrZero(*s.formBurned)
	goals.MoveMinutesTarget = parseIntOrZero(*s.formMoveMins)

	if err := s.store.SaveGoals(goals); err != nil {
		return s, errStatus(err)
	}
	if err := s.store.SetUnit(store.WeightUnit(*s.formUnit)); err != nil {
		return s, errStatus(err)
	}
	if err := s.store.SetGoogleClientID(strings.TrimSpace(*s.formClientID)); err != nil {
		return s, errStatus(err)
	}

	return s, func() tea.Msg { return settingsSavedMsg{} }
}

func parseIntOrZero(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		if s.formType == "auth" {
			title = titleStyle.Render("Connect Google Fit")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View())
		return panelStyle.Width(w).Render(content)
	}

	goalsPanel := s.renderGoalsPanel(w)
	fitPanel := s.renderFitPanel(w)
	ratingsPanel := s.renderRatingsPanel(w)

	return lipgloss.JoinVertical(lipgloss.Left, goalsPanel, fitPanel, ratingsPanel)
}

func (s settingsModel) renderGoalsPanel(w int) string {
	rows := []string{
		titleStyle.Render("Goals") + "  " + mutedStyle.Render("e: edit"),
		"",
		fmt.Sprintf("  %-26s %s", "Calories", highlightStyle.Render(fmt.Sprintf("%.0f kcal", s.goals.CalorieTarget))),
		fmt.Sprintf("  %-26s %s", "Protein / Fat / Carbs", highlightStyle.Render(fmt.Sprintf("%.0fg / %.0fg / %.0fg", s.goals.ProteinTarget, s.goals.FatTarget, s.goals.CarbsTarget))),
		fmt.Sprintf("  %-26s %s", "Steps", highlightStyle.Render(fmt.Sprintf("%d", s.goals.StepTarget))),
		fmt.Sprintf("  %-26s %s", "Miles", highlightStyle.Render(fmt.Sprintf("%.1f", s.goals.MilesTarget))),
		fmt.Sprintf("  %-26s %s", "Calories burned", highlightStyle.Render(fmt.Sprintf("%d", s.goals.CaloriesBurnedTarget))),
		fmt.Sprintf("  %-26s %s", "Move minutes", highlightStyle.Render(fmt.Sprintf("%d", s.goals.MoveMinutesTarget))),
		fmt.Sprintf("  %-26s %s", "Weight unit", highlightStyle.Render(string(s.unit))),
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (s settingsModel) renderFitPanel(w int) string {
	status := errorStyle.Render("not connected")
	action := "g: connect"
	if s.connected {
		status = successStyle.Render("connected")
		action = "g: disconnect"
	}

	clientID := s.clientID
	if clientID == "" {
		clientID = mutedStyle.Render("not set")
	}

	rows := []string{
		titleStyle.Render("Google Fit") + "  " + mutedStyle.Render(action),
		"",
		fmt.Sprintf("  %-26s %s", "Status", status),
		fmt.Sprintf("  %-26s %s", "Client id", clientID),
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (s settingsModel) renderRatingsPanel(w int) string {
	rows := []string{titleStyle.Render("Exercise ratings"), ""}

	any := false
	for _, e := range s.exercises {
		rating, ok := s.ratings[e.ID]
		if !ok {
			continue
		}
		any = true
		stars := strings.Repeat("★", int(rating)) + strings.Repeat("☆", 5-int(rating))
		rows = append(rows, fmt.Sprintf("  %-28s %s", e.Name, warningStyle.Render(stars)))
	}
	if !any {
		rows = append(rows, mutedStyle.Render("  No ratings yet. Rate exercises during a workout with r."))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
