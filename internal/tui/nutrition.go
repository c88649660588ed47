package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/lockin/internal/nutrition"
	"github.com/sadopc/lockin/internal/store"
)

// nutritionModel is the daily food log: four meals, logged entries, and
// manual step entry.
type nutritionModel struct {
	store  *store.Store
	logs   *nutrition.Service
	width  int
	height int

	log    store.DailyLog
	totals nutrition.Totals
	goals  store.UserGoals
	foods  []store.FoodItem

	mealCursor  int
	entryCursor int

	formActive bool
	form       *huh.Form
	formType   string // "log", "custom", "steps"

	formMeal     *string
	formFood     *string
	formServings *string

	formName        *string
	formServingSize *string
	formCalories    *string
	formProtein     *string
	formFat         *string
	formCarbs       *string

	formSteps *string
}

func newNutritionModel(s *store.Store, l *nutrition.Service) nutritionModel {
	meal := store.MealNames[0]
	food := ""
	servings := "1"
	name := ""
	servingSize := ""
	calories := ""
	protein := ""
	fat := ""
	carbs := ""
	stepsVal := ""
	return nutritionModel{
		store:           s,
		logs:            l,
		formMeal:        &meal,
		formFood:        &food,
		formServings:    &servings,
		formName:        &name,
		formServingSize: &servingSize,
		formCalories:    &calories,
		formProtein:     &protein,
		formFat:         &fat,
		formCarbs:       &carbs,
		formSteps:       &stepsVal,
	}
}

func (n *nutritionModel) setSize(w, h int) {
	n.width = w
	n.height = h
}

type nutritionDataMsg struct {
	log    store.DailyLog
	totals nutrition.Totals
	goals  store.UserGoals
	foods  []store.FoodItem
}

func (n nutritionModel) refresh() tea.Cmd {
	return func() tea.Msg {
		log, _ := n.logs.TodayLog()
		goals, _ := n.store.GetGoals()
		foods, _ := n.store.ListFoods()
		return nutritionDataMsg{
			log:    log,
			totals: n.logs.Totals(log),
			goals:  goals,
			foods:  foods,
		}
	}
}

func (n nutritionModel) update(msg tea.Msg) (nutritionModel, tea.Cmd) {
	switch msg := msg.(type) {
	case nutritionDataMsg:
		n.log = msg.log
		n.totals = msg.totals
		n.goals = msg.goals
		n.foods = msg.foods
		n.clampCursor()
		return n, nil

	case logUpdatedMsg:
		n.log = msg.log
		n.totals = n.logs.Totals(msg.log)
		n.clampCursor()
		return n, nil

	case tea.KeyMsg:
		if n.formActive {
			return n.updateForm(msg)
		}

		switch {
		case key.Matches(msg, keys.Up):
			if n.entryCursor > 0 {
				n.entryCursor--
			}
		case key.Matches(msg, keys.Down):
			if n.entryCursor < len(n.currentMeal().Foods)-1 {
				n.entryCursor++
			}
		case key.Matches(msg, keys.Left):
			if n.mealCursor > 0 {
				n.mealCursor--
				n.entryCursor = 0
			}
		case key.Matches(msg, keys.Right):
			if n.mealCursor < len(n.log.Meals)-1 {
				n.mealCursor++
				n.entryCursor = 0
			}
		case key.Matches(msg, keys.New), key.Matches(msg, keys.Enter):
			return n.showLogForm()
		case key.Matches(msg, keys.Food):
			return n.showCustomFoodForm()
		case key.Matches(msg, keys.Steps):
			return n.showStepsForm()
		case key.Matches(msg, keys.Delete):
			meal := n.currentMeal()
			if n.entryCursor < len(meal.Foods) {
				entry := meal.Foods[n.entryCursor]
				return n, func() tea.Msg {
					log, err := n.logs.RemoveFood(n.log.Date, meal.Name, entry.ID)
					if err != nil {
						return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
					}
					return logUpdatedMsg{log: log}
				}
			}
		}
	}

	if n.formActive && n.form != nil {
		form, cmd := n.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			n.form = f
		}
		return n, cmd
	}
	return n, nil
}

func (n *nutritionModel) clampCursor() {
	if n.mealCursor >= len(n.log.Meals) {
		n.mealCursor = max(0, len(n.log.Meals)-1)
	}
	if entries := len(n.currentMeal().Foods); n.entryCursor >= entries {
		n.entryCursor = max(0, entries-1)
	}
}

func (n *nutritionModel) currentMeal() store.Meal {
	if n.mealCursor < len(n.log.Meals) {
		return n.log.Meals[n.mealCursor]
	}
	return store.Meal{}
}

func (n nutritionModel) showLogForm() (nutritionModel, tea.Cmd) {
	if len(n.foods) == 0 {
		return n, func() tea.Msg {
			return statusMsg{text: "Food catalog is empty. Press f to add a custom food.", isError: true}
		}
	}

	*n.formMeal = n.currentMeal().Name
	if *n.formMeal == "" {
		*n.formMeal = store.MealNames[0]
	}
	*n.formFood = n.foods[0].ID
	*n.formServings = "1"
	n.formType = "log"

	mealOptions := make([]huh.Option[string], len(store.MealNames))
	for i, m := range store.MealNames {
		mealOptions[i] = huh.NewOption(m, m)
	}
	foodOptions := make([]huh.Option[string], len(n.foods))
	for i, f := range n.foods {
		foodOptions[i] = huh.NewOption(
			fmt.Sprintf("%s · %.0f kcal / %s", f.Name, f.Calories, f.ServingSize), f.ID)
	}

	n.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Meal").Options(mealOptions...).Value(n.formMeal),
			huh.NewSelect[string]().Title("Food").Options(foodOptions...).Value(n.formFood),
			huh.NewInput().Title("Servings").Value(n.formServings),
		),
	).WithShowHelp(true).WithShowErrors(true)

	n.formActive = true
	return n, n.form.Init()
}

func (n nutritionModel) showCustomFoodForm() (nutritionModel, tea.Cmd) {
	*n.formName = ""
	*n.formServingSize = "100 g"
	*n.formCalories = ""
	*n.formProtein = ""
	*n.formFat = ""
	*n.formCarbs = ""
	n.formType = "custom"

	n.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(n.formName),
			huh.NewInput().Title("Serving size").Value(n.formServingSize),
			huh.NewInput().Title("Calories").Value(n.formCalories),
			huh.NewInput().Title("Protein (g)").Value(n.formProtein),
			huh.NewInput().Title("Fat (g)").Value(n.formFat),
			huh.NewInput().Title("Carbs (g)").Value(n.formCarbs),
		).Title("Custom Food"),
	).WithShowHelp(true).WithShowErrors(true)

	n.formActive = true
	return n, n.form.Init()
}

func (n nutritionModel) showStepsForm() (nutritionModel, tea.Cmd) {
	*n.formSteps = strconv.Itoa(n.log.Steps)
	n.formType = "steps"

	n.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Steps today").Value(n.formSteps),
		),
	).WithShowHelp(true).WithShowErrors(true)

	n.formActive = true
	return n, n.form.Init()
}

func (n nutritionModel) updateForm(msg tea.Msg) (nutritionModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			n.formActive = false
			n.form = nil
			return n, nil
		}
	}

	form, cmd := n.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		n.form = f
	}

	if n.form.State == huh.StateCompleted {
		n.formActive = false
		switch n.formType {
		case "log":
			servings, err := strconv.ParseFloat(strings.TrimSpace(*n.formServings), 64)
			if err != nil || servings <= 0 {
				servings = 1
			}
			meal, foodID := *n.formMeal, *n.formFood
			date := n.log.Date
			return n, func() tea.Msg {
				log, err := n.logs.LogFood(date, meal, foodID, servings)
				if err != nil {
					return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
				}
				return logUpdatedMsg{log: log}
			}

		case "custom":
			if *n.formName == "" {
				return n, nil
			}
			item := store.FoodItem{
				Name:        *n.formName,
				ServingSize: *n.formServingSize,
				Calories:    parseFloatOrZero(*n.formCalories),
				Protein:     parseFloatOrZero(*n.formProtein),
				Fat:         parseFloatOrZero(*n.formFat),
				Carbs:       parseFloatOrZero(*n.formCarbs),
			}
			if _, err := n.store.AddCustomFood(item); err != nil {
				return n, errStatus(err)
			}
			return n, n.refresh()

		case "steps":
			count, err := strconv.Atoi(strings.TrimSpace(*n.formSteps))
			if err != nil || count < 0 {
				return n, func() tea.Msg {
					return statusMsg{text: "Steps must be a non-negative number", isError: true}
				}
			}
			date := n.log.Date
			return n, func() tea.Msg {
				log, err := n.logs.SetSteps(date, count)
				if err != nil {
					return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
				}
				return logUpdatedMsg{log: log}
			}
		}
	}

	return n, cmd
}

func parseFloatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func (n nutritionModel) view() string {
	w := n.width - 4

	if n.formActive && n.form != nil {
		var title string
		switch n.formType {
		case "log":
			title = titleStyle.Render("Log Food")
		case "custom":
			title = titleStyle.Render("Add Custom Food")
		case "steps":
			title = titleStyle.Render("Enter Steps")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", n.form.View())
		return panelStyle.Width(w).Render(content)
	}

	remaining := nutrition.Remaining(n.totals, n.goals)
	summary := headerStyle.Render(fmt.Sprintf("%s   %s   %s",
		titleStyle.Render("Food Log · "+n.log.Date),
		secondaryStyle.Render(fmt.Sprintf("%.0f kcal · %.0fp / %.0ff / %.0fc",
			n.totals.Calories, n.totals.Protein, n.totals.Fat, n.totals.Carbs)),
		mutedStyle.Render(fmt.Sprintf("%.0f kcal remaining", remaining.Calories)),
	))

	var panels []string
	panels = append(panels, summary)
	for i := range n.log.Meals {
		panels = append(panels, n.renderMeal(i, w))
	}
	panels = append(panels, mutedStyle.Render("  n: log food  f: custom food  m: steps  d: remove  ←/→: meal"))

	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

func (n nutritionModel) renderMeal(i, w int) string {
	meal := n.log.Meals[i]
	selected := i == n.mealCursor

	var mealCals float64
	for _, entry := range meal.Foods {
		if item, ok := n.logs.Lookup(entry.FoodID); ok {
			mealCals += item.Calories * entry.Servings
		}
	}

	var rows []string
	rows = append(rows, titleStyle.Render(meal.Name)+"  "+mutedStyle.Render(fmt.Sprintf("%.0f kcal", mealCals)))

	for j, entry := range meal.Foods {
		cursor := "  "
		style := normalItemStyle
		if selected && j == n.entryCursor {
			cursor = "> "
			style = selectedItemStyle
		}

		name := "Unknown"
		detail := ""
		if item, ok := n.logs.Lookup(entry.FoodID); ok {
			name = item.Name
			detail = fmt.Sprintf("%.0f kcal · %.0fp %.0ff %.0fc",
				item.Calories*entry.Servings,
				item.Protein*entry.Servings,
				item.Fat*entry.Servings,
				item.Carbs*entry.Servings)
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-28s ×%-5s %s",
			cursor, name, trimFloat(entry.Servings), mutedStyle.Render(detail))))
	}
	if len(meal.Foods) == 0 {
		rows = append(rows, mutedStyle.Render("  nothing logged"))
	}

	style := panelStyle
	if selected {
		style = activePanelStyle
	}
	return style.Width(w).Render(strings.Join(rows, "\n"))
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
