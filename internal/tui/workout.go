package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/lockin/internal/store"
	"github.com/sadopc/lockin/internal/workout"
)

const defaultRestSecs = 90

// workoutModel is the live session view. It is entered from the dashboard
// and owns input until the user backs out or completes the session.
type workoutModel struct {
	store    *store.Store
	workouts *workout.Service
	width    int
	height   int

	session store.Session
	active  bool

	exCursor  int
	setCursor int

	// Rest timer, counts down once per tick after a set is logged.
	restRemaining int

	formActive bool
	form       *huh.Form
	formType   string // "set" or "rate"
	formReps   *string
	formWeight *string
	formRating *string

	editingExID  string
	editingSetID string
}

func newWorkoutModel(s *store.Store, w *workout.Service) workoutModel {
	reps := ""
	weight := ""
	rating := ""
	return workoutModel{
		store:      s,
		workouts:   w,
		formReps:   &reps,
		formWeight: &weight,
		formRating: &rating,
	}
}

func (m *workoutModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m *workoutModel) setSession(sess store.Session) {
	m.session = sess
	m.active = sess.Status == store.SessionInProgress
	m.exCursor = 0
	m.setCursor = 0
	m.restRemaining = 0
}

func (m workoutModel) hasSession() bool {
	return m.active
}

func (m workoutModel) update(msg tea.Msg) (workoutModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.restRemaining > 0 {
			m.restRemaining--
		}
		return m, nil

	case tea.KeyMsg:
		if m.formActive {
			return m.updateForm(msg)
		}
		return m.updateKeys(msg)
	}

	if m.formActive && m.form != nil {
		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}
		return m, cmd
	}
	return m, nil
}

func (m workoutModel) updateKeys(msg tea.KeyMsg) (workoutModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		return m, func() tea.Msg { return sessionExitedMsg{} }

	case key.Matches(msg, keys.Up):
		if m.setCursor > 0 {
			m.setCursor--
		}
	case key.Matches(msg, keys.Down):
		if ex := m.currentExercise(); ex != nil && m.setCursor < len(ex.Sets)-1 {
			m.setCursor++
		}
	case key.Matches(msg, keys.Left):
		if m.exCursor > 0 {
			m.exCursor--
			m.setCursor = 0
		}
	case key.Matches(msg, keys.Right):
		if m.exCursor < len(m.session.Exercises)-1 {
			m.exCursor++
			m.setCursor = 0
		}

	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
		return m.showSetForm()

	case key.Matches(msg, keys.AddSet):
		if ex := m.currentExercise(); ex != nil {
			m.session = workout.AddSet(m.session, ex.ID)
			return m, m.save()
		}

	case key.Matches(msg, keys.Delete):
		ex := m.currentExercise()
		if ex != nil && m.setCursor < len(ex.Sets) {
			m.session = workout.RemoveSet(m.session, ex.ID, ex.Sets[m.setCursor].ID)
			if m.setCursor > 0 {
				m.setCursor--
			}
			return m, m.save()
		}

	case key.Matches(msg, keys.Rate):
		return m.showRatingForm()

	case key.Matches(msg, keys.Complete):
		done, err := m.workouts.Complete(m.session)
		if err != nil {
			return m, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
			}
		}
		m.session = done
		m.active = false
		total := formatVolume(done.TotalVolume)
		unit := string(done.Unit)
		return m, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Workout complete · %s %s total volume", total, unit)}
		}
	}
	return m, nil
}

func (m workoutModel) showSetForm() (workoutModel, tea.Cmd) {
	ex := m.currentExercise()
	if ex == nil || m.setCursor >= len(ex.Sets) {
		return m, nil
	}
	set := ex.Sets[m.setCursor]

	*m.formReps = strconv.Itoa(set.Reps)
	*m.formWeight = strconv.FormatFloat(set.Weight, 'f', -1, 64)
	m.editingExID = ex.ID
	m.editingSetID = set.ID
	m.formType = "set"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Reps").Value(m.formReps),
			huh.NewInput().Title(fmt.Sprintf("Weight (%s)", m.session.Unit)).Value(m.formWeight),
		).Title(ex.Name),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m workoutModel) showRatingForm() (workoutModel, tea.Cmd) {
	ex := m.currentExercise()
	if ex == nil {
		return m, nil
	}

	*m.formRating = "3"
	m.editingExID = ex.ID
	m.formType = "rate"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("How did "+ex.Name+" feel?").
				Options(
					huh.NewOption("1 - Awful", "1"),
					huh.NewOption("2 - Rough", "2"),
					huh.NewOption("3 - Fine", "3"),
					huh.NewOption("4 - Good", "4"),
					huh.NewOption("5 - Great", "5"),
				).Value(m.formRating),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m workoutModel) updateForm(msg tea.Msg) (workoutModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		switch m.formType {
		case "set":
			patch := workout.SetPatch{}
			if reps, err := strconv.Atoi(strings.TrimSpace(*m.formReps)); err == nil {
				patch.Reps = &reps
			}
			if weight, err := strconv.ParseFloat(strings.TrimSpace(*m.formWeight), 64); err == nil {
				patch.Weight = &weight
			}
			m.session = workout.UpdateSet(m.session, m.editingExID, m.editingSetID, patch)
			if patch.Reps != nil && *patch.Reps > 0 {
				m.restRemaining = defaultRestSecs
			}
			return m, m.save()

		case "rate":
			if rating, err := strconv.ParseFloat(*m.formRating, 64); err == nil {
				if err := m.store.RateExercise(m.editingExID, rating); err != nil {
					return m, func() tea.Msg {
						return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
					}
				}
			}
			return m, nil
		}
	}

	return m, cmd
}

func (m workoutModel) save() tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		if err := m.workouts.Save(sess); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return nil
	}
}

func (m *workoutModel) currentExercise() *store.SessionExercise {
	if m.exCursor >= len(m.session.Exercises) {
		return nil
	}
	return &m.session.Exercises[m.exCursor]
}

func (m workoutModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Log Set")
		if m.formType == "rate" {
			title = titleStyle.Render("Rate Exercise")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	if len(m.session.Exercises) == 0 {
		return panelStyle.Width(w).Render(mutedStyle.Render("This session has no exercises. esc to go back."))
	}

	header := m.renderSessionHeader()

	var panels []string
	panels = append(panels, header)
	for i := range m.session.Exercises {
		panels = append(panels, m.renderExercise(i, w))
	}

	footer := mutedStyle.Render("enter: log set  a: add set  d: delete set  r: rate  c: complete  esc: back")
	panels = append(panels, footer)

	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

func (m workoutModel) renderSessionHeader() string {
	status := warningStyle.Render("in progress")
	if m.session.Status == store.SessionCompleted {
		status = successStyle.Render("completed")
	}

	parts := []string{
		titleStyle.Render("Workout · " + m.session.Date),
		status,
		mutedStyle.Render(fmt.Sprintf("volume %s %s", formatVolume(workout.TotalVolume(m.session)), m.session.Unit)),
	}
	if m.restRemaining > 0 {
		parts = append(parts, accentStyle.Render("rest "+formatRest(m.restRemaining)))
	}
	return headerStyle.Render(strings.Join(parts, "   "))
}

func (m workoutModel) renderExercise(i, w int) string {
	ex := m.session.Exercises[i]
	selected := i == m.exCursor

	title := titleStyle.Render(ex.Name) + "  " +
		mutedStyle.Render(ex.MuscleGroup) + "  " +
		secondaryStyle.Render(formatVolume(workout.ExerciseVolume(ex))+" "+string(m.session.Unit))

	var rows []string
	rows = append(rows, title)
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-5s %6s %8s %8s", "Set", "Reps", "Weight", "Volume")))

	for si, set := range ex.Sets {
		cursor := "  "
		style := normalItemStyle
		if selected && si == m.setCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		done := " "
		if set.CompletedAt != nil {
			done = successStyle.Render("✓")
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-3d %s %6d %8s %8s",
			cursor, si+1, done, set.Reps, formatVolume(set.Weight), formatVolume(set.Volume))))
	}
	if len(ex.Sets) == 0 {
		rows = append(rows, mutedStyle.Render("  no sets · a to add one"))
	}

	style := panelStyle
	if selected {
		style = activePanelStyle
	}
	return style.Width(w).Render(strings.Join(rows, "\n"))
}
