package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/sadopc/lockin/internal/store"
	"github.com/sadopc/lockin/internal/workout"
)

var weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// strategyModel manages the weekly workout plan: the ordered template
// collection and which weekday each one covers.
type strategyModel struct {
	store    *store.Store
	workouts *workout.Service
	width    int
	height   int

	templates []store.WorkoutTemplate
	exercises []store.Exercise
	cursor    int

	formActive bool
	form       *huh.Form
	formType   string // "new" or "edit"
	editingID  string

	formTitle     *string
	formDay       *string
	formExercises *[]string
	formSets      *string
	formReps      *string
}

func newStrategyModel(s *store.Store, w *workout.Service) strategyModel {
	title := ""
	day := weekdays[0]
	exIDs := []string{}
	sets := "3"
	reps := "10"
	return strategyModel{
		store:         s,
		workouts:      w,
		formTitle:     &title,
		formDay:       &day,
		formExercises: &exIDs,
		formSets:      &sets,
		formReps:      &reps,
	}
}

func (s *strategyModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type strategyDataMsg struct {
	templates []store.WorkoutTemplate
	exercises []store.Exercise
}

func (s strategyModel) refresh() tea.Cmd {
	return func() tea.Msg {
		templates, _ := s.store.ListTemplates()
		exercises, _ := s.store.ListExercises()
		return strategyDataMsg{templates: templates, exercises: exercises}
	}
}

func (s strategyModel) update(msg tea.Msg) (strategyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case strategyDataMsg:
		s.templates = msg.templates
		s.exercises = msg.exercises
		if s.cursor >= len(s.templates) {
			s.cursor = max(0, len(s.templates)-1)
		}
		return s, nil

	case tea.KeyMsg:
		if s.formActive {
			return s.updateForm(msg)
		}

		switch {
		case key.Matches(msg, keys.Up):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, keys.Down):
			if s.cursor < len(s.templates)-1 {
				s.cursor++
			}
		case key.Matches(msg, keys.New):
			return s.showForm("new")
		case key.Matches(msg, keys.Edit):
			if len(s.templates) > 0 {
				return s.showForm("edit")
			}
		case key.Matches(msg, keys.Delete):
			if len(s.templates) > 0 {
				remaining := append([]store.WorkoutTemplate(nil), s.templates[:s.cursor]...)
				remaining = append(remaining, s.templates[s.cursor+1:]...)
				if err := s.store.SaveTemplates(remaining); err != nil {
					return s, errStatus(err)
				}
				return s, s.refresh()
			}
		case key.Matches(msg, keys.Start):
			if len(s.templates) > 0 {
				tpl := s.templates[s.cursor]
				return s, func() tea.Msg {
					sess, err := s.workouts.Start(tpl, "")
					if err != nil {
						return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
					}
					return sessionStartedMsg{session: sess}
				}
			}
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

func (s strategyModel) showForm(formType string) (strategyModel, tea.Cmd) {
	s.formType = formType
	if formType == "edit" {
		tpl := s.templates[s.cursor]
		s.editingID = tpl.ID
		*s.formTitle = tpl.Title
		*s.formDay = tpl.DayOfWeek
		ids := make([]string, 0, len(tpl.Exercises))
		for _, te := range tpl.Exercises {
			ids = append(ids, te.ExerciseID)
		}
		*s.formExercises = ids
		if len(tpl.Exercises) > 0 {
			*s.formSets = strconv.Itoa(tpl.Exercises[0].DefaultSets)
			*s.formReps = tpl.Exercises[0].DefaultReps
		}
	} else {
		s.editingID = ""
		*s.formTitle = ""
		*s.formDay = weekdays[0]
		*s.formExercises = []string{}
		*s.formSets = "3"
		*s.formReps = "10"
	}

	dayOptions := make([]huh.Option[string], len(weekdays))
	for i, d := range weekdays {
		dayOptions[i] = huh.NewOption(d, d)
	}
	exOptions := make([]huh.Option[string], len(s.exercises))
	for i, e := range s.exercises {
		exOptions[i] = huh.NewOption(fmt.Sprintf("%s (%s)", e.Name, e.MuscleGroup), e.ID)
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Template name").Value(s.formTitle),
			huh.NewSelect[string]().Title("Day of week").Options(dayOptions...).Value(s.formDay),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().Title("Exercises").Options(exOptions...).Value(s.formExercises),
			huh.NewInput().Title("Default sets").Value(s.formSets),
			huh.NewInput().Title("Default reps (e.g. 8-10)").Value(s.formReps),
		),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s strategyModel) updateForm(msg tea.Msg) (strategyModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if *s.formTitle == "" {
			return s, s.refresh()
		}

		defaultSets, err := strconv.Atoi(strings.TrimSpace(*s.formSets))
		if err != nil || defaultSets < 1 {
			defaultSets = 3
		}
		// Reps stay free-form so rep ranges like "8-10" survive.
		defaultReps := strings.TrimSpace(*s.formReps)
		if defaultReps == "" {
			defaultReps = "10"
		}

		exercises := make([]store.TemplateExercise, 0, len(*s.formExercises))
		for _, id := range *s.formExercises {
			exercises = append(exercises, store.TemplateExercise{
				ExerciseID:  id,
				DefaultSets: defaultSets,
				DefaultReps: defaultReps,
			})
		}

		tpl := store.WorkoutTemplate{
			ID:        s.editingID,
			Title:     *s.formTitle,
			DayOfWeek: *s.formDay,
			Exercises: exercises,
		}

		updated := append([]store.WorkoutTemplate(nil), s.templates...)
		if s.formType == "edit" {
			for i := range updated {
				if updated[i].ID == tpl.ID {
					updated[i] = tpl
					break
				}
			}
		} else {
			tpl.ID = "template-" + uuid.NewString()
			updated = append(updated, tpl)
		}

		if err := s.store.SaveTemplates(updated); err != nil {
			return s, errStatus(err)
		}
		return s, s.refresh()
	}

	return s, cmd
}

func (s strategyModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("New Template")
		if s.formType == "edit" {
			title = titleStyle.Render("Edit Template")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Weekly Strategy")

	if len(s.templates) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No templates yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-24s %-12s %s", "Name", "Day", "Exercises")))

	for i, tpl := range s.templates {
		cursor := "  "
		style := normalItemStyle
		if i == s.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		names := make([]string, 0, len(tpl.Exercises))
		for _, te := range tpl.Exercises {
			if e, err := s.store.LookupExercise(te.ExerciseID); err == nil && e != nil {
				names = append(names, e.Name)
			} else {
				names = append(names, "Unknown Exercise")
			}
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-24s %-12s %s",
			cursor, tpl.Title, tpl.DayOfWeek, strings.Join(names, ", "))))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  s: start today"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func errStatus(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
	}
}
